package repositories

import (
	"context"
	"errors"

	"banklet/internal/models"

	"github.com/google/uuid"
)

var (
	ErrIntentNotFound        = errors.New("transfer intent not found")
	ErrDuplicateIntent       = errors.New("idempotency key already used")
	ErrIntentAlreadyResolved = errors.New("transfer intent is no longer pending")
)

// TransferIntentRepository persists the transfer intent log.
type TransferIntentRepository interface {
	// Create returns ErrDuplicateIntent when the sender already used the idempotency key.
	Create(ctx context.Context, intent *models.TransferIntent) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.TransferIntent, error)
	GetByIdempotencyKey(ctx context.Context, senderID uuid.UUID, key string) (*models.TransferIntent, error)

	// MarkCommitted and MarkFailed only move a pending intent.
	MarkCommitted(ctx context.Context, id uuid.UUID, result []byte) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
}
