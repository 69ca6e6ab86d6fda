package models

import (
	"time"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

// Roles returns the role names carried in the user's access token.
func (u *User) Roles() []string {
	if u.IsAdmin {
		return []string{string(RoleUser), string(RoleAdmin)}
	}
	return []string{string(RoleUser)}
}
