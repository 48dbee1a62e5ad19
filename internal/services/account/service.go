package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"banklet/internal/models"
	"banklet/internal/repositories"
	"banklet/internal/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrForbidden       = errors.New("not allowed to read this account")
	ErrWrongPassword   = errors.New("current password is incorrect")
)

// Service exposes account reads scoped to the caller's identity.
type Service interface {
	GetAccount(ctx context.Context, identity models.Identity, id uuid.UUID) (*models.Account, error)
	ListAccounts(ctx context.Context, identity models.Identity) ([]*models.Account, error)
	FindAccountsByNamePrefix(ctx context.Context, identity models.Identity, term string) ([]*models.Account, error)
	GetTransactionHistory(ctx context.Context, identity models.Identity, accountID uuid.UUID) ([]*models.TransactionRecord, error)
	ChangePassword(ctx context.Context, identity models.Identity, oldPassword, newPassword string) error
}

type service struct {
	accounts repositories.AccountRepository
	history  repositories.TransactionRepository
}

func NewService(accounts repositories.AccountRepository, history repositories.TransactionRepository) Service {
	return &service{
		accounts: accounts,
		history:  history,
	}
}

func (s *service) GetAccount(ctx context.Context, identity models.Identity, id uuid.UUID) (*models.Account, error) {
	if !identity.CanRead(id) {
		return nil, ErrForbidden
	}
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// ListAccounts returns every account to an admin and only the caller's own otherwise.
func (s *service) ListAccounts(ctx context.Context, identity models.Identity) ([]*models.Account, error) {
	if !identity.IsAdmin() {
		account, err := s.GetAccount(ctx, identity, identity.AccountID)
		if err != nil {
			return nil, err
		}
		return []*models.Account{account}, nil
	}
	return s.accounts.ListAll(ctx)
}

func (s *service) FindAccountsByNamePrefix(ctx context.Context, identity models.Identity, term string) ([]*models.Account, error) {
	term = strings.TrimSpace(term)
	v := validation.New()
	v.SearchTerm(term)
	if err := v.Err(); err != nil {
		return nil, err
	}

	matches, err := s.accounts.FilterByNamePrefix(ctx, term)
	if err != nil {
		return nil, err
	}
	if identity.IsAdmin() {
		return matches, nil
	}

	visible := make([]*models.Account, 0, 1)
	for _, a := range matches {
		if a.ID == identity.AccountID {
			visible = append(visible, a)
		}
	}
	return visible, nil
}

// GetTransactionHistory returns the account's rows, newest first.
func (s *service) GetTransactionHistory(ctx context.Context, identity models.Identity, accountID uuid.UUID) ([]*models.TransactionRecord, error) {
	if !identity.CanRead(accountID) {
		return nil, ErrForbidden
	}
	return s.history.ListByOwner(ctx, accountID)
}

func (s *service) ChangePassword(ctx context.Context, identity models.Identity, oldPassword, newPassword string) error {
	v := validation.New()
	v.ChangePassword(oldPassword, newPassword)
	if err := v.Err(); err != nil {
		return err
	}

	account, err := s.accounts.FindByID(ctx, identity.AccountID)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(oldPassword)); err != nil {
		return ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.accounts.UpdatePassword(ctx, account.ID, string(hashed))
}
