package cqrs

// ---------- Profile queries ----------

// GetProfileQuery fetches a single profile by id.
type GetProfileQuery struct {
	ProfileID int
}

// GetProfilePictureQuery fetches the encoded picture of a profile.
type GetProfilePictureQuery struct {
	ProfileID int
}

// ---------- Account queries ----------

// GetAccountQuery fetches a single account by id.
type GetAccountQuery struct {
	AccountID int
}

// ListAccountsQuery fetches every account, optionally restricted to one owner.
type ListAccountsQuery struct {
	ProfileID *int
}

// ---------- Transaction queries ----------

// GetTransactionQuery fetches a single ledger entry.
type GetTransactionQuery struct {
	TransactionID int
}

// ListTransactionsQuery fetches transactions, optionally those touching one account.
type ListTransactionsQuery struct {
	AccountID *int
}
