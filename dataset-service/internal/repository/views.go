package repository

import (
	"fmt"

	"github.com/eaglebank/dataseed/shared/models"
)

// PictureURL is where the picture of a profile is served.
func PictureURL(profileID int) string {
	return fmt.Sprintf("/v1/profiles/%d/picture", profileID)
}

func ProfileToView(p *models.Profile) *models.ProfileView {
	return &models.ProfileView{
		ProfileID:  p.ProfileID,
		Username:   p.Username,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Email:      p.Email,
		Address:    p.Address,
		Telephone:  p.Telephone,
		PictureURL: PictureURL(p.ProfileID),
	}
}

func AccountToView(a *models.Account) *models.AccountView {
	return &models.AccountView{
		AccountID:       a.AccountID,
		ProfileID:       a.ProfileID,
		HolderFirstName: a.HolderFirstName,
		HolderLastName:  a.HolderLastName,
		Balance:         a.Balance,
	}
}

func TransactionToView(t *models.Transaction) *models.TransactionView {
	return &models.TransactionView{
		TransactionID: t.TransactionID,
		SenderID:      t.SenderID,
		ReceiverID:    t.ReceiverID,
		Amount:        t.Amount,
		Kind:          t.Kind,
	}
}
