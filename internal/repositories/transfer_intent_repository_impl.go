package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"banklet/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type transferIntentRepository struct {
	db *gorm.DB
}

func NewTransferIntentRepository(db *gorm.DB) TransferIntentRepository {
	return &transferIntentRepository{db: db}
}

func (r *transferIntentRepository) Create(ctx context.Context, intent *models.TransferIntent) error {
	if err := r.db.WithContext(ctx).Create(intent).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateIntent
		}
		return fmt.Errorf("failed to create transfer intent: %w", err)
	}
	return nil
}

func (r *transferIntentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TransferIntent, error) {
	var intent models.TransferIntent
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&intent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIntentNotFound
		}
		return nil, fmt.Errorf("failed to get transfer intent: %w", err)
	}
	return &intent, nil
}

func (r *transferIntentRepository) GetByIdempotencyKey(ctx context.Context, senderID uuid.UUID, key string) (*models.TransferIntent, error) {
	var intent models.TransferIntent
	err := r.db.WithContext(ctx).
		Where("sender_account_id = ? AND idempotency_key = ?", senderID, key).
		First(&intent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIntentNotFound
		}
		return nil, fmt.Errorf("failed to get transfer intent: %w", err)
	}
	return &intent, nil
}

func (r *transferIntentRepository) MarkCommitted(ctx context.Context, id uuid.UUID, result []byte) error {
	return r.resolve(ctx, id, map[string]interface{}{
		"status":     models.TransferStatusCommitted,
		"result":     result,
		"updated_at": time.Now(),
	})
}

func (r *transferIntentRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return r.resolve(ctx, id, map[string]interface{}{
		"status":         models.TransferStatusFailed,
		"failure_reason": reason,
		"updated_at":     time.Now(),
	})
}

func (r *transferIntentRepository) resolve(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&models.TransferIntent{}).
		Where("id = ? AND status = ?", id, models.TransferStatusPending).
		Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update transfer intent: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrIntentAlreadyResolved
	}
	return nil
}
