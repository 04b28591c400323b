package models

// TransactionKind identifies how a simulated transaction mutated balances.
type TransactionKind string

const (
	Withdrawal TransactionKind = "withdrawal"
	Deposit    TransactionKind = "deposit"
	Transfer   TransactionKind = "transfer"
)

// Profile is a synthetic user identity. Password holds the plaintext as
// generated; repositories hash it before it reaches the database.
type Profile struct {
	ProfileID int    `json:"profileId"`
	Username  string `json:"username"`
	Password  string `json:"-"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	Telephone string `json:"telephone"`
	Picture   []byte `json:"-"`
}

// Account is the financial record owned by exactly one profile.
// Holder names are copied at creation and not kept in sync.
type Account struct {
	AccountID       int     `json:"accountId"`
	ProfileID       int     `json:"profileId"`
	HolderFirstName string  `json:"holderFirstName"`
	HolderLastName  string  `json:"holderLastName"`
	Balance         float64 `json:"balance"`
}

type Transaction struct {
	TransactionID int             `json:"transactionId"`
	SenderID      int             `json:"senderId"`
	ReceiverID    int             `json:"receiverId"`
	Amount        float64         `json:"amount"`
	Kind          TransactionKind `json:"kind"`
}

// Dataset is one complete generation run, persisted as a single unit.
// Generation is assigned by the store when the dataset is committed.
type Dataset struct {
	Generation   int64
	Profiles     []Profile
	Accounts     []Account
	Transactions []Transaction
}
