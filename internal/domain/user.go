package domain

import "time"

// Name is the full name of a user. Replaced as a whole on update.
type Name struct {
	First  string `json:"first"`
	Middle string `json:"middle"`
	Last   string `json:"last"`
}

// User is an account in the directory. Business users may own cards.
type User struct {
	ID           string
	Name         Name
	IsBusiness   bool
	IsAdmin      bool
	Phone        string
	Email        string
	PasswordHash string
	Address      Address
	Image        Image
	CreatedAt    time.Time
}

// Claims derives the token claims for the user.
func (u *User) Claims() Claims {
	return Claims{UserID: u.ID, IsBusiness: u.IsBusiness, IsAdmin: u.IsAdmin}
}
