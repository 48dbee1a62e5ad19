package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"banklet/internal/config"
	"banklet/internal/models"
	"banklet/internal/repositories"
	"banklet/internal/utils"
	"banklet/internal/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const maxAccountNumberAttempts = 5

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailTaken          = errors.New("an account with this email already exists")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrTokenRevoked        = errors.New("token has been revoked")
)

type Service interface {
	Signup(ctx context.Context, input *validation.SignupInput) (*models.Account, string, string, error)
	Login(ctx context.Context, email, password string) (*models.Account, string, string, error)
	RefreshTokens(ctx context.Context, refreshToken string) (string, string, error)
	Logout(ctx context.Context, accountID uuid.UUID) error
}

type service struct {
	accounts repositories.AccountRepository
	jwt      config.JWTConfig
}

func NewService(accounts repositories.AccountRepository, jwt config.JWTConfig) Service {
	return &service{
		accounts: accounts,
		jwt:      jwt,
	}
}

// Signup opens a standard account with a fresh 8-digit account number and logs it in.
func (s *service) Signup(ctx context.Context, input *validation.SignupInput) (*models.Account, string, string, error) {
	v := validation.New()
	v.Signup(input)
	if err := v.Err(); err != nil {
		return nil, "", "", err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := s.accounts.FindByEmail(ctx, email); err == nil {
		return nil, "", "", ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrAccountNotFound) {
		return nil, "", "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", errors.New("failed to hash password")
	}

	account := &models.Account{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     email,
		Password:  string(hashedPassword),
		Role:      models.RoleStandard,
		Balance:   input.OpeningBalance.IntPart(),
		Currency:  models.NormalizeCurrency(input.Currency),
	}

	if err := s.createWithAccountNumber(ctx, account); err != nil {
		return nil, "", "", err
	}

	access, refresh, err := s.issue(account)
	if err != nil {
		return nil, "", "", err
	}
	return account, access, refresh, nil
}

// createWithAccountNumber retries on account number collisions.
func (s *service) createWithAccountNumber(ctx context.Context, account *models.Account) error {
	for attempt := 1; attempt <= maxAccountNumberAttempts; attempt++ {
		number, err := utils.GenerateAccountNumber()
		if err != nil {
			return fmt.Errorf("failed to generate account number: %w", err)
		}
		account.AccountNumber = number

		err = s.accounts.Create(ctx, account)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repositories.ErrDuplicateAccount) {
			return err
		}
		if _, lookupErr := s.accounts.FindByEmail(ctx, account.Email); lookupErr == nil {
			return ErrEmailTaken
		}
		log.Printf("Signup: account number %s taken, retrying (attempt %d)", number, attempt)
	}
	return errors.New("could not allocate an account number")
}

func (s *service) Login(ctx context.Context, email, password string) (*models.Account, string, string, error) {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			log.Printf("Login failed: account not found for email: %s", email)
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		log.Printf("Login failed: incorrect password for account ID: %s", account.ID)
		return nil, "", "", ErrInvalidCredentials
	}

	access, refresh, err := s.issue(account)
	if err != nil {
		return nil, "", "", err
	}
	return account, access, refresh, nil
}

func (s *service) RefreshTokens(ctx context.Context, refreshToken string) (string, string, error) {
	_, claims, err := utils.ParseToken(s.jwt, refreshToken, models.TokenTypeRefresh)
	if err != nil {
		return "", "", ErrInvalidRefreshToken
	}

	account, err := s.accounts.FindByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return "", "", ErrInvalidRefreshToken
		}
		return "", "", err
	}

	if account.TokenVersion != claims.TokenVersion {
		return "", "", ErrTokenRevoked
	}

	return s.issue(account)
}

// Logout revokes every token issued so far.
func (s *service) Logout(ctx context.Context, accountID uuid.UUID) error {
	return s.accounts.IncrementTokenVersion(ctx, accountID)
}

func (s *service) issue(account *models.Account) (string, string, error) {
	access, refresh, err := utils.GenerateTokens(s.jwt, &models.UserClaims{
		AccountID:    account.ID,
		Email:        account.Email,
		Role:         account.Role,
		TokenVersion: account.TokenVersion,
		Permissions:  models.GetDefaultPermissions(account.Role),
	})
	if err != nil {
		log.Println("Error generating tokens:", err)
		return "", "", errors.New("error generating tokens")
	}
	return access, refresh, nil
}
