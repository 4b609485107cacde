package models

import (
	"time"
)

// User represents a marketplace account
type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Username  string    `json:"username" db:"username"`
	FullName  string    `json:"fullName" db:"full_name"`
	Role      Role      `json:"role" db:"role"`
	Verified  bool      `json:"verified" db:"verified"`
	IsActive  bool      `json:"isActive" db:"is_active"`
	Phone     string    `json:"phone,omitempty" db:"phone"`
	Wilaya    string    `json:"wilaya,omitempty" db:"wilaya"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Session is the authenticated state the client persists: the user record
// plus the access and refresh token pair.
type Session struct {
	User         *User  `json:"user"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// SignupRequest is the payload for POST /auth/signup
type SignupRequest struct {
	Email    string `json:"email" binding:"required"`
	Username string `json:"username" binding:"required"`
	FullName string `json:"fullName"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
	Wilaya   string `json:"wilaya"`
}

// LoginRequest is the payload for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest is the payload for POST /auth/refresh
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// UpdateProfileRequest is the payload for PUT /auth/update. Empty fields are
// left unchanged (sparse patch).
type UpdateProfileRequest struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Wilaya   string `json:"wilaya"`
}
