package repositories

import (
	"context"
	"fmt"

	"banklet/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Append(ctx context.Context, record *models.TransactionRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create transaction record: %w", err)
	}
	return nil
}

func (r *transactionRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.TransactionRecord, error) {
	var records []*models.TransactionRecord
	err := r.db.WithContext(ctx).
		Where("owner_account_id = ?", ownerID).
		Order("recorded_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction history: %w", err)
	}
	return records, nil
}

func (r *transactionRepository) ListByTransfer(ctx context.Context, transferID uuid.UUID) ([]*models.TransactionRecord, error) {
	var records []*models.TransactionRecord
	err := r.db.WithContext(ctx).
		Where("transfer_id = ?", transferID).
		Order("transaction_type ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get transfer records: %w", err)
	}
	return records, nil
}
