package utils

import (
	"errors"
	"time"

	"banklet/internal/config"
	"banklet/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrWrongTokenType = errors.New("wrong token type")
)

// GenerateTokens generates an access token and a refresh token for the given user claims.
func GenerateTokens(cfg config.JWTConfig, claims *models.UserClaims) (accessToken string, refreshToken string, err error) {
	if cfg.Secret == "" {
		return "", "", errors.New("JWT secret not configured")
	}
	now := time.Now()

	accessToken, err = sign(cfg, claims, models.TokenTypeAccess, claims.Permissions, now, cfg.AccessTokenTTL)
	if err != nil {
		return "", "", err
	}

	// Refresh tokens carry no permissions; they only buy a new pair.
	refreshToken, err = sign(cfg, claims, models.TokenTypeRefresh, nil, now, cfg.RefreshTokenTTL)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func sign(cfg config.JWTConfig, claims *models.UserClaims, tokenType string, permissions []string, now time.Time, ttl time.Duration) (string, error) {
	c := models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    cfg.Issuer,
			Subject:   claims.AccountID.String(),
		},
		AccountID:    claims.AccountID,
		Email:        claims.Email,
		Role:         claims.Role,
		Permissions:  permissions,
		TokenVersion: claims.TokenVersion,
		TokenType:    tokenType,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(cfg.Secret))
}

// ParseToken parses and validates a JWT token string of the expected type.
func ParseToken(cfg config.JWTConfig, tokenStr, tokenType string) (*jwt.Token, *models.UserClaims, error) {
	if cfg.Secret == "" {
		return nil, nil, errors.New("JWT secret not configured")
	}

	token, err := jwt.ParseWithClaims(tokenStr, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.Secret), nil
	}, jwt.WithIssuer(cfg.Issuer))
	if err != nil {
		return nil, nil, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok || !token.Valid {
		return nil, nil, ErrInvalidToken
	}
	if claims.TokenType != tokenType {
		return nil, nil, ErrWrongTokenType
	}

	return token, claims, nil
}
