package domain

import "time"

// Account is a registered user's credential and profile record
type Account struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone"`
	JoinAt       time.Time `json:"join_at"`
	LastLoginAt  time.Time `json:"last_login_at"`
}

// AccountSummary is the public listing view of an account
type AccountSummary struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Summary strips contact details and timestamps
func (a *Account) Summary() AccountSummary {
	return AccountSummary{
		Username:  a.Username,
		FirstName: a.FirstName,
		LastName:  a.LastName,
	}
}
