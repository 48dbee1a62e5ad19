package transfer

import (
	"time"

	"banklet/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request is a single transfer order. Amount must be a positive whole number.
type Request struct {
	SenderID               uuid.UUID
	RecipientAccountNumber string
	Amount                 decimal.Decimal
	Currency               string
	IdempotencyKey         string
}

// Result describes a committed transfer. Accounts are snapshots taken after both balance writes.
type Result struct {
	TransferID      uuid.UUID                 `json:"transfer_id"`
	IdempotencyKey  string                    `json:"idempotency_key"`
	Sender          *models.Account           `json:"sender"`
	Recipient       *models.Account           `json:"recipient"`
	Currency        string                    `json:"currency"`
	AmountRequested int64                     `json:"amount_requested"`
	AmountCredited  int64                     `json:"amount_credited"`
	AmountDebited   int64                     `json:"amount_debited"`
	Rate            decimal.Decimal           `json:"rate"`
	CreditRecord    *models.TransactionRecord `json:"credit_record"`
	DebitRecord     *models.TransactionRecord `json:"debit_record"`
	Replayed        bool                      `json:"replayed"`
}

// Details is a stored intent together with the rows it produced.
type Details struct {
	Intent  *models.TransferIntent      `json:"intent"`
	Records []*models.TransactionRecord `json:"records"`
}

// Config holds transfer settings. Zero values fall back to the defaults.
type Config struct {
	DebitPolicy        DebitPolicy
	MaxConflictRetries int
	Spread             decimal.Decimal
	RateBase           string
	Clock              func() time.Time
}

// MetricsCollector defines the interface for collecting transfer metrics
type MetricsCollector interface {
	RecordTransfer(outcome string, duration time.Duration)
	RecordConflictRetry(leg Leg)
	RecordCompensation(result string)
}
