package repositories

import (
	"context"

	"banklet/internal/models"

	"github.com/google/uuid"
)

// TransactionRepository stores the append-only transaction history.
type TransactionRepository interface {
	Append(ctx context.Context, record *models.TransactionRecord) error

	// ListByOwner returns the owner's rows, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.TransactionRecord, error)

	ListByTransfer(ctx context.Context, transferID uuid.UUID) ([]*models.TransactionRecord, error)
}
