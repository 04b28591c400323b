package models

// ProfileView is the read-optimised projection of a profile.
// It never exposes the password hash or the raw picture bytes.
type ProfileView struct {
	ProfileID  int    `json:"profileId"`
	Username   string `json:"username"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	Telephone  string `json:"telephone"`
	PictureURL string `json:"pictureUrl"`
}

// AccountView is the read-optimised projection of an account.
type AccountView struct {
	AccountID       int     `json:"accountId"`
	ProfileID       int     `json:"profileId"`
	HolderFirstName string  `json:"holderFirstName"`
	HolderLastName  string  `json:"holderLastName"`
	Balance         float64 `json:"balance"`
}

// TransactionView is the read-optimised projection of a transaction.
type TransactionView struct {
	TransactionID int             `json:"transactionId"`
	SenderID      int             `json:"senderId"`
	ReceiverID    int             `json:"receiverId"`
	Amount        float64         `json:"amount"`
	Kind          TransactionKind `json:"kind"`
}

// DatasetSummary describes the outcome of a regeneration run.
type DatasetSummary struct {
	RunID        string `json:"runId"`
	Generation   int64  `json:"generation"`
	Profiles     int    `json:"profiles"`
	Accounts     int    `json:"accounts"`
	Transactions int    `json:"transactions"`
}
