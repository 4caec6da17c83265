package dto

import "time"

// LoginRequest carries the credentials for an authentication attempt.
type LoginRequest struct {
	AccountNumber string `json:"accountNumber" binding:"required"`
	Password      string `json:"password" binding:"required"`
}

// LoginResponse carries the signed token issued on a successful login.
type LoginResponse struct {
	AccountNumber string    `json:"accountNumber"`
	Token         string    `json:"token"`
	ExpiresAt     time.Time `json:"expiresAt"`
}
