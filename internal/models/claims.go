package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token types
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type UserClaims struct {
	jwt.RegisteredClaims
	AccountID    uuid.UUID `json:"account_id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Permissions  []string  `json:"permissions"`
	TokenVersion int       `json:"token_version"`
	TokenType    string    `json:"token_type"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// Identity returns the request-scoped caller described by the claims.
func (c *UserClaims) Identity() Identity {
	return Identity{AccountID: c.AccountID, Role: c.Role}
}
