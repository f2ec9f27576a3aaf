package domain

import "time"

// Account is one identity inside a single realm. The Admin flag is the
// stored privilege bit; the effective admin decision additionally consults
// the configured allow-list (see middleware).
type Account struct {
	Id                   AccountId
	Name                 string
	Email                Email
	PassHash             string
	Admin                bool
	Deleted              bool
	DeletedAt            *time.Time
	LastLoginAt          *time.Time
	CredentialsChangedAt time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type Credentials struct {
	Email    Email
	Password Password
}
