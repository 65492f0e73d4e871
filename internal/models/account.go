package models

import "time"

// Account is a registered user. PasswordHash never leaves the service layer.
type Account struct {
	Username     string    `json:"username" bson:"username"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password"`
	Interests    []string  `json:"interests" bson:"interests"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// PublicAccount is the listing view of an account.
type PublicAccount struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Interests []string  `json:"interests"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public strips credentials.
func (a *Account) Public() PublicAccount {
	interests := a.Interests
	if interests == nil {
		interests = []string{}
	}
	return PublicAccount{
		Username:  a.Username,
		Email:     a.Email,
		Interests: interests,
		CreatedAt: a.CreatedAt,
	}
}
