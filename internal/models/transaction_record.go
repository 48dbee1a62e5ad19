package models

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction types
const (
	TransactionTypeDebit  = "debit"
	TransactionTypeCredit = "credit"
)

// TransactionRecord is one leg of a transfer as seen from its owner's history.
// Amount is always the unsigned magnitude; the sign comes from Type.
type TransactionRecord struct {
	ID                 uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	TransferID         uuid.UUID `gorm:"type:varchar(36);index" json:"transfer_id"`
	OwnerAccountID     uuid.UUID `gorm:"type:varchar(36);index;not null" json:"owner_account_id"`
	SenderAccountID    uuid.UUID `gorm:"type:varchar(36);not null" json:"sender_account_id"`
	RecipientAccountID uuid.UUID `gorm:"type:varchar(36);not null" json:"recipient_account_id"`
	Amount             int64     `gorm:"not null" json:"amount"`
	Currency           string    `gorm:"size:3;not null" json:"currency"`
	Type               string    `gorm:"column:transaction_type;size:6;not null" json:"transaction_type"`
	Description        string    `json:"description"`
	RunningBalance     int64     `gorm:"not null" json:"running_balance"`
	Timestamp          time.Time `gorm:"column:recorded_at;index;not null" json:"timestamp"`
}

func (r *TransactionRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// SignedAmount renders the amount the way a statement shows it: "-89" for a debit, "+89" for a credit.
func (r *TransactionRecord) SignedAmount() string {
	amount := strconv.FormatInt(r.Amount, 10)
	if r.Type == TransactionTypeDebit {
		return "-" + amount
	}
	return "+" + amount
}
