package utils

import (
	"errors"

	"banklet/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by the auth middleware.
const (
	LocalsClaims   = "claims"
	LocalsIdentity = "identity"
)

// GetUserClaims extracts the user claims from the Fiber context.
// It returns an error if the claims are missing or of an invalid type.
func GetUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	v := c.Locals(LocalsClaims)
	if v == nil {
		return nil, errors.New("claims not found in context")
	}

	claims, ok := v.(*models.UserClaims)
	if !ok {
		return nil, errors.New("invalid claims type")
	}
	return claims, nil
}

// GetIdentity returns the authenticated caller stored by the auth middleware.
func GetIdentity(c *fiber.Ctx) (models.Identity, error) {
	identity, ok := c.Locals(LocalsIdentity).(models.Identity)
	if !ok {
		return models.Identity{}, errors.New("identity not found in context")
	}
	return identity, nil
}
