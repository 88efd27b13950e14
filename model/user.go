package model

import "time"

type User struct {
	UserID       string    `bson:"user_id" json:"user_id"`
	Email        string    `bson:"email" json:"email"` // stored lowercased, unique
	PasswordHash string    `bson:"password_hash" json:"-"`
	Name         string    `bson:"name,omitempty" json:"name,omitempty"`
	IsPrimary    bool      `bson:"is_primary" json:"is_primary"`
	LastLogin    time.Time `bson:"last_login,omitempty" json:"last_login,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// PublicUser is the projection of a User that is safe to send to
// clients. The password hash never leaves the server.
type PublicUser struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	IsPrimary bool   `json:"is_primary"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{
		UserID:    u.UserID,
		Email:     u.Email,
		Name:      u.Name,
		IsPrimary: u.IsPrimary,
	}
}
