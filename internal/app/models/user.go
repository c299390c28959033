package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`                                   // Unique identifier for the user
	Username  string    `json:"username" db:"username" example:"jdoe"`                    // Unique login name
	Password  string    `json:"-" db:"password_hash"`                                     // Hashed password (excluded from JSON)
	CreatedAt time.Time `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"` // Timestamp when the user was created
}

// Owner converts the stored user into a session principal with an empty course.
func (u *User) Owner() *Owner {
	return NewOwner(u.ID, u.Username, u.Password)
}
