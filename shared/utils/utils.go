package utils

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Round2 rounds a monetary amount to 2 decimal places using round-half-even.
func Round2(amount float64) float64 {
	return decimal.NewFromFloat(amount).RoundBank(2).InexactFloat64()
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword checks if a password matches a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// ParseID parses a non-negative numeric resource id taken from a URL path.
func ParseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
