package models

import (
	"github.com/golang-jwt/jwt/v4"
)

type User struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name"`
	Email       string `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Title       string `json:"title"`                    // Academic title, e.g. "Dr.", "Prof."
	Institution string `json:"institution"`
	Password    string `json:"-"` // Store hashed password, ignore for JSON serialization
}

// DisplayName returns the user's name for greetings and notification copy,
// falling back to a generic label when the user or name is missing.
func (u *User) DisplayName() string {
	if u == nil || u.Name == "" {
		return "User"
	}
	return u.Name
}

type CreateUserRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Title       string `json:"title" validate:"omitempty,max=50"`
	Institution string `json:"institution" validate:"omitempty,max=150"`
}

type UpdateUserRequest struct {
	Name        string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	Title       string `json:"title,omitempty" validate:"omitempty,max=50"`
	Institution string `json:"institution,omitempty" validate:"omitempty,max=150"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
