package handlers

import (
	"time"

	"banklet/internal/config"
	"banklet/internal/models"
	"banklet/internal/services/auth"
	"banklet/internal/utils"
	"banklet/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
	jwt         config.JWTConfig
	secure      bool
}

func NewAuthHandler(authService auth.Service, jwt config.JWTConfig, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwt:         jwt,
		secure:      secureCookies,
	}
}

// Signup registers a new account and logs it in
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var input validation.SignupInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	account, accessToken, refreshToken, err := h.authService.Signup(c.UserContext(), &input)
	if err != nil {
		return respondError(c, err)
	}

	h.setAuthCookies(c, accessToken, refreshToken)

	return utils.Created(c, fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"account":       account,
	})
}

// LoginUser handles user authentication and returns JWT tokens
func (h *AuthHandler) LoginUser(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if input.Email == "" || input.Password == "" {
		return utils.BadRequest(c, "Email and password are required")
	}

	account, accessToken, refreshToken, err := h.authService.Login(c.UserContext(), input.Email, input.Password)
	if err != nil {
		return respondError(c, err)
	}

	h.setAuthCookies(c, accessToken, refreshToken)

	return utils.Success(c, fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"account": fiber.Map{
			"id":             account.ID,
			"account_number": account.AccountNumber,
			"email":          account.Email,
			"role":           account.Role,
			"permissions":    models.GetDefaultPermissions(account.Role),
		},
	})
}

// RefreshToken handles token refresh requests
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken == "" {
		var input struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.BodyParser(&input); err != nil || input.RefreshToken == "" {
			return utils.Unauthorized(c, "Refresh token not provided")
		}
		refreshToken = input.RefreshToken
	}

	newAccessToken, newRefreshToken, err := h.authService.RefreshTokens(c.UserContext(), refreshToken)
	if err != nil {
		return respondError(c, err)
	}

	h.setAuthCookies(c, newAccessToken, newRefreshToken)

	return utils.Success(c, fiber.Map{
		"access_token":  newAccessToken,
		"refresh_token": newRefreshToken,
	})
}

// LogoutUser revokes every token of the caller
func (h *AuthHandler) LogoutUser(c *fiber.Ctx) error {
	identity, err := utils.GetIdentity(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	if err := h.authService.Logout(c.UserContext(), identity.AccountID); err != nil {
		return respondError(c, err)
	}

	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  time.Now().Add(-time.Hour),
			HTTPOnly: true,
			Secure:   h.secure,
			Path:     "/",
		})
	}

	return utils.Success(c, fiber.Map{
		"message": "Successfully logged out",
	})
}

func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		HTTPOnly: true,
		Secure:   h.secure,
		Path:     "/",
		SameSite: "Strict",
		MaxAge:   int(h.jwt.AccessTokenTTL.Seconds()),
	})

	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		HTTPOnly: true,
		Secure:   h.secure,
		Path:     "/api/auth",
		SameSite: "Strict",
		MaxAge:   int(h.jwt.RefreshTokenTTL.Seconds()),
	})
}
