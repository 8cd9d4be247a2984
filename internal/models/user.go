// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account in Ripple. Everything below Avatar is security
// state owned by the auth collaborator; none of it may ever reach a client,
// hence json:"-" on every field and the explicit projections below.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"unique;not null" json:"username"`
	Email    string `gorm:"unique;not null" json:"-"`
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`

	Password             string     `gorm:"not null" json:"-"`
	EmailVerifyToken     string     `json:"-"`
	PasswordResetToken   string     `json:"-"`
	PasswordResetExpires *time.Time `json:"-"`
	TwoFactorSecret      string     `json:"-"`
	TwoFactorEnabled     bool       `json:"-"`
	FailedLoginAttempts  int        `json:"-"`
	LockedUntil          *time.Time `json:"-"`

	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// AuthorProfile is the public projection of a User attached to content.
// The column list in AuthorColumns is the serialization contract: anything
// not named there is never selected, so it cannot leak.
type AuthorProfile struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`
}

// AuthorColumns are the only user columns the content queries may select.
var AuthorColumns = []string{"id", "username", "bio", "avatar"}

// UserSummary is the minimal entry shape held in cached follow lists.
// IsFollowing is relative to the viewer that fetched the list.
type UserSummary struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	Avatar      string `json:"avatar"`
	IsFollowing bool   `json:"is_following" gorm:"->"`
}

// Summary projects a user into its cached-list entry shape.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Avatar:   u.Avatar,
	}
}

// Profile projects a user into its public author shape.
func (u *User) Profile() AuthorProfile {
	return AuthorProfile{
		ID:       u.ID,
		Username: u.Username,
		Bio:      u.Bio,
		Avatar:   u.Avatar,
	}
}
