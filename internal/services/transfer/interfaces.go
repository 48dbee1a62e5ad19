package transfer

import (
	"context"

	"banklet/internal/models"
	"banklet/internal/repositories"

	"github.com/google/uuid"
)

// AccountStore is the part of the account repository a transfer needs.
type AccountStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	FindByAccountNumber(ctx context.Context, number string) (repositories.AccountLookup, error)
	CompareAndSwapBalance(ctx context.Context, id uuid.UUID, expectedVersion, newBalance int64) error
}

// LedgerStore appends and reads transaction history rows.
type LedgerStore interface {
	Append(ctx context.Context, record *models.TransactionRecord) error
	ListByTransfer(ctx context.Context, transferID uuid.UUID) ([]*models.TransactionRecord, error)
}

// IntentStore persists transfer intents.
type IntentStore interface {
	Create(ctx context.Context, intent *models.TransferIntent) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.TransferIntent, error)
	GetByIdempotencyKey(ctx context.Context, senderID uuid.UUID, key string) (*models.TransferIntent, error)
	MarkCommitted(ctx context.Context, id uuid.UUID, result []byte) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
}

// Service handles peer-to-peer transfers between accounts.
type Service interface {
	Transfer(ctx context.Context, req Request) (*Result, error)
	GetTransfer(ctx context.Context, identity models.Identity, id uuid.UUID) (*Details, error)
}
