package domain

// Claims is the verified payload of an identity token.
type Claims struct {
	UserID     string
	IsBusiness bool
	IsAdmin    bool
}
