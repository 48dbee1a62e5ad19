// Package middleware provides HTTP middleware components for the application.
package middleware

import (
	"context"
	"log"
	"strings"

	"banklet/internal/config"
	"banklet/internal/models"
	"banklet/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AccountLookup is used to check that a token has not been revoked.
type AccountLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
}

// AuthMiddleware validates access tokens and stores the caller's identity in the
// request context.
type AuthMiddleware struct {
	jwt      config.JWTConfig
	accounts AccountLookup
}

func NewAuthMiddleware(jwt config.JWTConfig, accounts AccountLookup) *AuthMiddleware {
	return &AuthMiddleware{
		jwt:      jwt,
		accounts: accounts,
	}
}

// Handler checks for:
// - Presence of Authorization header with Bearer token
// - Valid JWT signature, expiry and type
// - Token version matches the stored account version
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return utils.Unauthorized(c, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return utils.Unauthorized(c, "invalid authorization format")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	_, claims, err := utils.ParseToken(m.jwt, tokenString, models.TokenTypeAccess)
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return utils.Unauthorized(c, "invalid token")
	}

	account, err := m.accounts.FindByID(c.UserContext(), claims.AccountID)
	if err != nil {
		log.Printf("Account %s from token not found: %v", claims.AccountID, err)
		return utils.Unauthorized(c, "invalid token")
	}
	if account.TokenVersion != claims.TokenVersion {
		log.Printf("Token version mismatch for account %s. Token: %d, DB: %d",
			claims.AccountID, claims.TokenVersion, account.TokenVersion)
		return utils.Unauthorized(c, "session expired")
	}

	// Role comes from the stored account so a demotion takes effect immediately.
	claims.Role = account.Role
	c.Locals(utils.LocalsClaims, claims)
	c.Locals(utils.LocalsIdentity, claims.Identity())

	return c.Next()
}

// AdminOnly verifies that the request has admin claims.
func AdminOnly(c *fiber.Ctx) error {
	identity, err := utils.GetIdentity(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}
	if !identity.IsAdmin() {
		return utils.Forbidden(c, "insufficient permissions")
	}
	return c.Next()
}

// HasPermission returns a middleware that checks for a specific permission.
func HasPermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.GetUserClaims(c)
		if err != nil {
			return utils.Unauthorized(c, "unauthorized")
		}
		if claims.Role == models.RoleAdmin || claims.HasPermission(permission) {
			return c.Next()
		}
		return utils.Forbidden(c, "insufficient permissions")
	}
}
