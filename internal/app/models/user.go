package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`                                  // Unique identifier for the user
	Name      string    `json:"name" db:"name" example:"Jane Doe"`                       // User's display name
	Email     string    `json:"email" db:"email" example:"jane@school.edu"`              // User's email address
	Password  string    `json:"-" db:"password"`                                         // User's hashed password (excluded from JSON)
	Role      RoleType  `json:"role" db:"role" example:"student"`                        // User's role (student, instructor or admin)
	CreatedAt time.Time `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"` // Timestamp when the user was created
}

// UserRef is the denormalized shape a stored user id resolves to when a
// course is populated for display.
type UserRef struct {
	ID    int64  `json:"id" example:"1"`
	Name  string `json:"name" example:"Jane Doe"`
	Email string `json:"email" example:"jane@school.edu"`
}

// Ref returns the display reference for the user.
func (u *User) Ref() *UserRef {
	if u == nil {
		return nil
	}
	return &UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}
