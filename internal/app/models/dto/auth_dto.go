package dto

import "time"

// RegisterRequest is the registration form
type RegisterRequest struct {
	Username        string `json:"username" example:"alice"`
	Password        string `json:"password" example:"correct horse"`
	PasswordConfirm string `json:"passwordConfirm" example:"correct horse"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Password string `json:"password" binding:"required"`
}

// SessionResponse describes the session issued on login
type SessionResponse struct {
	Username  string    `json:"username" example:"alice"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// StatusResponse reports whether the request carries a live session
type StatusResponse struct {
	LoggedIn bool   `json:"loggedIn"`
	Username string `json:"username,omitempty"`
}
