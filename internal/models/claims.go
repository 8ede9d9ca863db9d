package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// UserClaims carries the authenticated session context through JWT tokens and
// into each request; nothing about the session lives in global state.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	TokenVersion int    `json:"token_version"`
}
