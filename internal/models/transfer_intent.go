package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transfer intent statuses. Pending moves to exactly one of Committed or Failed.
const (
	TransferStatusPending   = "pending"
	TransferStatusCommitted = "committed"
	TransferStatusFailed    = "failed"
)

// MaxIdempotencyKeyLength is the widest key the intent table stores.
const MaxIdempotencyKeyLength = 255

// TransferIntent is written before any balance is touched and closed once the transfer ends.
// Idempotency keys are unique per sender.
type TransferIntent struct {
	ID                     uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	SenderAccountID        uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_intent_sender_key,priority:1" json:"sender_account_id"`
	IdempotencyKey         string    `gorm:"size:255;not null;uniqueIndex:idx_intent_sender_key,priority:2" json:"idempotency_key"`
	RequestHash            string    `gorm:"size:64;not null" json:"-"`
	RecipientAccountNumber string    `gorm:"size:8" json:"recipient_account_number"`
	Amount                 int64     `json:"amount"`
	Currency               string    `gorm:"size:3" json:"currency"`
	Status                 string    `gorm:"size:16;not null;default:'pending'" json:"status"`
	FailureReason          string    `json:"failure_reason,omitempty"`
	Result                 []byte    `json:"-"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

func (t *TransferIntent) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = TransferStatusPending
	}
	return nil
}
