// Package model defines domain entities for the application.
package model

import "time"

// User is an account holder. Every expense, income and budget belongs to one user.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize
	CreatedAt    time.Time `json:"created_at"`
}

// AuthContext holds the authenticated identity of a request.
// It is injected into the request context by the auth middleware.
type AuthContext struct {
	UserID    string
	SessionID string
	ExpiresAt time.Time
}
