package cqrs

// RegenerateDatasetCommand wipes the store and seeds a fresh dataset.
type RegenerateDatasetCommand struct {
	RequestedBy string
}

type RegisterProfileCommand struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
	Address   string
	Telephone string
}

type LoginCommand struct {
	Username string
	Password string
}

type RefreshTokenCommand struct {
	Token string
}
