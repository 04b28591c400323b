// Package factory assembles profiles and their accounts from generated fields.
package factory

import (
	"math/rand/v2"

	"github.com/eaglebank/dataseed/dataset-service/internal/lexical"
	"github.com/eaglebank/dataseed/shared/models"
)

const (
	// DefaultPasswordLength is the length of generated profile passwords.
	DefaultPasswordLength = 12

	minOpeningBalance = 100
	maxOpeningBalance = 10000
)

// Profiles builds n profiles with ids 0..n-1. Pictures are assigned
// round-robin from icons; an empty icons slice leaves pictures nil.
func Profiles(lex *lexical.Generator, icons [][]byte, n, passwordLength int) []models.Profile {
	profiles := make([]models.Profile, 0, n)
	for i := range n {
		p := models.Profile{
			ProfileID: i,
			Username:  lex.Username(),
			Password:  lex.Password(passwordLength),
			FirstName: lex.FirstName(),
			LastName:  lex.LastName(),
			Email:     lex.Email(),
			Address:   lex.Address(),
			Telephone: lex.PhoneNumber(),
		}
		if len(icons) > 0 {
			p.Picture = icons[i%len(icons)]
		}
		profiles = append(profiles, p)
	}
	return profiles
}

// Accounts builds one account per profile. Account ids equal the profile's
// index and ProfileID records the owner explicitly. Opening balances are
// whole amounts drawn uniformly from [100, 10000).
func Accounts(rng *rand.Rand, profiles []models.Profile) []models.Account {
	accounts := make([]models.Account, 0, len(profiles))
	for i, p := range profiles {
		accounts = append(accounts, models.Account{
			AccountID:       i,
			ProfileID:       p.ProfileID,
			HolderFirstName: p.FirstName,
			HolderLastName:  p.LastName,
			Balance:         float64(minOpeningBalance + rng.IntN(maxOpeningBalance-minOpeningBalance)),
		})
	}
	return accounts
}
