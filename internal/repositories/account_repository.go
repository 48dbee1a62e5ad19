package repositories

import (
	"context"
	"errors"

	"banklet/internal/models"

	"github.com/google/uuid"
)

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrDuplicateAccount = errors.New("account already exists")
	ErrVersionConflict  = errors.New("account was modified concurrently")
)

// LookupStatus is the outcome of resolving an account number.
type LookupStatus int

const (
	LookupNotFound LookupStatus = iota
	LookupFound
	LookupAmbiguous
)

func (s LookupStatus) String() string {
	switch s {
	case LookupFound:
		return "found"
	case LookupAmbiguous:
		return "ambiguous"
	default:
		return "not_found"
	}
}

// AccountLookup carries the matched account only when Status is LookupFound.
type AccountLookup struct {
	Status  LookupStatus
	Account *models.Account
}

// AccountRepository defines the interface for account-related database operations.
// Every call commits on its own; no multi-row transaction is implied.
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)

	// FindByAccountNumber never picks one of several matches.
	FindByAccountNumber(ctx context.Context, number string) (AccountLookup, error)

	ListAll(ctx context.Context) ([]*models.Account, error)
	FilterByNamePrefix(ctx context.Context, term string) ([]*models.Account, error)

	// UpdateBalance overwrites the balance unconditionally (last write wins).
	UpdateBalance(ctx context.Context, id uuid.UUID, newBalance int64) error

	// CompareAndSwapBalance writes newBalance only if the stored version still equals
	// expectedVersion, returning ErrVersionConflict otherwise.
	CompareAndSwapBalance(ctx context.Context, id uuid.UUID, expectedVersion, newBalance int64) error

	IncrementTokenVersion(ctx context.Context, id uuid.UUID) error

	// UpdatePassword stores a new hash and invalidates issued tokens.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}
