package transfer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"banklet/internal/models"
	"banklet/internal/repositories"
	"banklet/internal/services/rates"

	"github.com/google/uuid"
	"github.com/gowebpki/jcs"
	"github.com/shopspring/decimal"
)

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// service implements the transfer Service interface.
type service struct {
	accounts AccountStore
	ledger   LedgerStore
	intents  IntentStore
	rates    rates.Source
	config   Config
	metrics  MetricsCollector
}

// NewService creates a new transfer service instance.
func NewService(accounts AccountStore, ledger LedgerStore, intents IntentStore, source rates.Source, config Config, metrics MetricsCollector) Service {
	if config.DebitPolicy == "" {
		config.DebitPolicy = DebitCredited
	}
	if config.MaxConflictRetries <= 0 {
		config.MaxConflictRetries = DefaultMaxConflictRetries
	}
	if config.Spread.IsZero() {
		config.Spread = DefaultSpread
	}
	if config.RateBase == "" {
		config.RateBase = DefaultRateBase
	}
	if config.Clock == nil {
		config.Clock = func() time.Time { return time.Now().UTC() }
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		accounts: accounts,
		ledger:   ledger,
		intents:  intents,
		rates:    source,
		config:   config,
		metrics:  metrics,
	}
}

// plan is a validated transfer with both parties resolved and amounts fixed.
type plan struct {
	key       string
	hash      string
	sender    *models.Account
	recipient *models.Account
	currency  string
	requested int64
	credited  int64
	debited   int64
	rate      decimal.Decimal
}

// Transfer moves funds from req.SenderID to the account numbered req.RecipientAccountNumber.
func (s *service) Transfer(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	result, err := s.transfer(ctx, req)

	outcome := OutcomeSuccess
	switch {
	case err != nil:
		outcome = string(KindOf(err))
	case result.Replayed:
		outcome = OutcomeReplayed
	}
	s.metrics.RecordTransfer(outcome, time.Since(start))

	return result, err
}

func (s *service) transfer(ctx context.Context, req Request) (*Result, error) {
	amount, currency, err := validate(req)
	if err != nil {
		return nil, err
	}

	key := strings.TrimSpace(req.IdempotencyKey)
	if key == "" {
		key = uuid.NewString()
	}
	hash, err := requestHash(req.SenderID, req.RecipientAccountNumber, amount, currency)
	if err != nil {
		return nil, newError(KindInvalidRequest, err)
	}

	existing, err := s.intents.GetByIdempotencyKey(ctx, req.SenderID, key)
	switch {
	case err == nil:
		return s.resolveExisting(existing, hash)
	case !errors.Is(err, repositories.ErrIntentNotFound):
		return nil, newError(KindStoreUnavailable, err)
	}

	p, err := s.prepare(ctx, req, amount, currency)
	if err != nil {
		return nil, err
	}
	p.key = key
	p.hash = hash

	intent := &models.TransferIntent{
		IdempotencyKey:         key,
		RequestHash:            hash,
		SenderAccountID:        p.sender.ID,
		RecipientAccountNumber: p.recipient.AccountNumber,
		Amount:                 amount,
		Currency:               currency,
		Status:                 models.TransferStatusPending,
	}
	if err := s.intents.Create(ctx, intent); err != nil {
		if errors.Is(err, repositories.ErrDuplicateIntent) {
			existing, getErr := s.intents.GetByIdempotencyKey(ctx, req.SenderID, key)
			if getErr != nil {
				return nil, newError(KindStoreUnavailable, getErr)
			}
			return s.resolveExisting(existing, hash)
		}
		return nil, newError(KindStoreUnavailable, err)
	}

	// Balances are about to change; a cancelled caller must not strand a half-applied transfer.
	return s.execute(context.WithoutCancel(ctx), intent, p)
}

func validate(req Request) (int64, string, error) {
	if !req.Amount.IsPositive() || !req.Amount.IsInteger() {
		return 0, "", newError(KindInvalidAmount, fmt.Errorf("amount %s must be a positive whole number", req.Amount))
	}
	if req.Amount.GreaterThan(maxAmount) {
		return 0, "", newError(KindInvalidAmount, fmt.Errorf("amount %s is too large", req.Amount))
	}
	if req.SenderID == uuid.Nil {
		return 0, "", newError(KindInvalidRequest, errors.New("sender is required"))
	}
	if strings.TrimSpace(req.RecipientAccountNumber) == "" {
		return 0, "", newError(KindInvalidRequest, errors.New("recipient account number is required"))
	}
	currency := models.NormalizeCurrency(req.Currency)
	if currency == "" {
		return 0, "", newError(KindInvalidRequest, errors.New("currency is required"))
	}
	return req.Amount.IntPart(), currency, nil
}

// requestHash fingerprints the request so a reused idempotency key can be told apart
// from a replay.
func requestHash(senderID uuid.UUID, recipient string, amount int64, currency string) (string, error) {
	raw, err := json.Marshal(map[string]any{
		"sender_id":                senderID.String(),
		"recipient_account_number": strings.TrimSpace(recipient),
		"amount":                   amount,
		"currency":                 currency,
	})
	if err != nil {
		return "", err
	}
	canon, err := jcs.Transform(raw)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canon)
	return hex.EncodeToString(sum[:]), nil
}

func (s *service) resolveExisting(intent *models.TransferIntent, hash string) (*Result, error) {
	if intent.RequestHash != hash {
		return nil, newError(KindIdempotencyMismatch, fmt.Errorf("key %q was used for a different request", intent.IdempotencyKey))
	}

	switch intent.Status {
	case models.TransferStatusCommitted:
		var result Result
		if err := json.Unmarshal(intent.Result, &result); err != nil {
			return nil, newError(KindStoreUnavailable, fmt.Errorf("decode stored result: %w", err))
		}
		result.Replayed = true
		return &result, nil
	case models.TransferStatusFailed:
		return nil, newError(KindIdempotencyKeyUsed, fmt.Errorf("transfer %s failed: %s", intent.ID, intent.FailureReason))
	default:
		return nil, newError(KindTransferInProgress, fmt.Errorf("transfer %s is still pending", intent.ID))
	}
}

// prepare performs every read and check. Nothing is written.
func (s *service) prepare(ctx context.Context, req Request, amount int64, currency string) (*plan, error) {
	lookup, err := s.accounts.FindByAccountNumber(ctx, strings.TrimSpace(req.RecipientAccountNumber))
	if err != nil {
		return nil, newError(KindStoreUnavailable, fmt.Errorf("lookup recipient: %w", err))
	}
	switch lookup.Status {
	case repositories.LookupNotFound:
		return nil, newError(KindRecipientNotFound, fmt.Errorf("no account numbered %s", req.RecipientAccountNumber))
	case repositories.LookupAmbiguous:
		return nil, newError(KindAmbiguousRecipient, fmt.Errorf("account number %s matches several accounts", req.RecipientAccountNumber))
	}
	recipient := lookup.Account

	sender, err := s.accounts.FindByID(ctx, req.SenderID)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, newError(KindSenderNotFound, err)
		}
		return nil, newError(KindStoreUnavailable, fmt.Errorf("load sender: %w", err))
	}

	if sender.ID == recipient.ID {
		return nil, newError(KindInvalidRequest, errors.New("cannot transfer to self"))
	}

	p := &plan{
		sender:    sender,
		recipient: recipient,
		currency:  currency,
		requested: amount,
		credited:  amount,
		rate:      decimal.NewFromInt(1),
	}

	if models.NormalizeCurrency(sender.Currency) != currency {
		table, err := s.rates.GetRates(ctx, s.config.RateBase)
		if err != nil {
			return nil, newError(KindRateSourceUnavailable, err)
		}
		rate, err := rates.Rate(table, models.NormalizeCurrency(sender.Currency), currency)
		if err != nil {
			return nil, newError(KindNoConversionRate, err)
		}
		p.rate = rate
		p.credited = rates.Convert(decimal.NewFromInt(amount), rate, s.config.Spread).Truncate(0).IntPart()
		if p.credited <= 0 {
			return nil, newError(KindInvalidAmount, fmt.Errorf("amount %d %s converts to nothing", amount, currency))
		}
	}

	p.debited = p.credited
	if s.config.DebitPolicy == DebitRequested {
		p.debited = p.requested
	}

	if sender.Balance-p.debited < 0 {
		return nil, newError(KindInsufficientFunds, fmt.Errorf("balance %d does not cover %d", sender.Balance, p.debited))
	}
	if recipient.Balance > math.MaxInt64-p.credited {
		return nil, newError(KindInvalidAmount, errors.New("recipient balance would overflow"))
	}

	return p, nil
}

// execute performs the writes: recipient balance, sender balance, credit row, debit row.
func (s *service) execute(ctx context.Context, intent *models.TransferIntent, p *plan) (*Result, error) {
	recipientAfter, err := s.applyDelta(ctx, p.recipient, p.credited, false, LegRecipient)
	if err != nil {
		s.fail(ctx, intent, err)
		return nil, newLegError(KindPersistence, LegRecipient, err)
	}

	senderAfter, err := s.applyDelta(ctx, p.sender, -p.debited, true, LegSender)
	if err != nil {
		s.compensate(ctx, intent, recipientAfter, p.credited)
		s.fail(ctx, intent, err)
		if errors.Is(err, errFundsRecheck) {
			return nil, newError(KindInsufficientFunds, err)
		}
		return nil, newLegError(KindPersistence, LegSender, err)
	}

	now := s.config.Clock()
	credit := &models.TransactionRecord{
		TransferID:         intent.ID,
		OwnerAccountID:     recipientAfter.ID,
		SenderAccountID:    senderAfter.ID,
		RecipientAccountID: recipientAfter.ID,
		Amount:             p.credited,
		Currency:           p.currency,
		Type:               models.TransactionTypeCredit,
		Description:        "Funds received from " + senderAfter.AccountNumber,
		RunningBalance:     recipientAfter.Balance,
		Timestamp:          now,
	}
	if err := s.ledger.Append(ctx, credit); err != nil {
		s.fail(ctx, intent, err)
		return nil, newLegError(KindLedgerWrite, LegCredit, err)
	}

	debit := &models.TransactionRecord{
		TransferID:         intent.ID,
		OwnerAccountID:     senderAfter.ID,
		SenderAccountID:    senderAfter.ID,
		RecipientAccountID: recipientAfter.ID,
		Amount:             p.debited,
		Currency:           p.currency,
		Type:               models.TransactionTypeDebit,
		Description:        "Funds sent to " + recipientAfter.AccountNumber,
		RunningBalance:     senderAfter.Balance,
		Timestamp:          now,
	}
	if err := s.ledger.Append(ctx, debit); err != nil {
		s.fail(ctx, intent, err)
		return nil, newLegError(KindLedgerWrite, LegDebit, err)
	}

	result := &Result{
		TransferID:      intent.ID,
		IdempotencyKey:  p.key,
		Sender:          senderAfter,
		Recipient:       recipientAfter,
		Currency:        p.currency,
		AmountRequested: p.requested,
		AmountCredited:  p.credited,
		AmountDebited:   p.debited,
		Rate:            p.rate,
		CreditRecord:    credit,
		DebitRecord:     debit,
	}

	payload, err := json.Marshal(result)
	if err != nil {
		log.Printf("transfer %s: encode result: %v", intent.ID, err)
		return result, nil
	}
	if err := s.intents.MarkCommitted(ctx, intent.ID, payload); err != nil {
		log.Printf("transfer %s committed but intent not closed: %v", intent.ID, err)
	}
	return result, nil
}

// applyDelta adds delta to the account balance with a version check, re-reading and
// retrying on conflict. With requireFunds the result may not go below zero.
func (s *service) applyDelta(ctx context.Context, account *models.Account, delta int64, requireFunds bool, leg Leg) (*models.Account, error) {
	current := account
	for attempt := 0; ; attempt++ {
		next := current.Balance + delta
		if requireFunds && next < 0 {
			return nil, fmt.Errorf("%w: balance %d, delta %d", errFundsRecheck, current.Balance, delta)
		}

		err := s.accounts.CompareAndSwapBalance(ctx, current.ID, current.Version, next)
		if err == nil {
			updated := *current
			updated.Balance = next
			updated.Version++
			return &updated, nil
		}
		if !errors.Is(err, repositories.ErrVersionConflict) || attempt >= s.config.MaxConflictRetries {
			return nil, err
		}

		s.metrics.RecordConflictRetry(leg)
		current, err = s.accounts.FindByID(ctx, current.ID)
		if err != nil {
			return nil, err
		}
	}
}

// compensate reverses a recipient credit after the sender leg failed.
func (s *service) compensate(ctx context.Context, intent *models.TransferIntent, recipient *models.Account, credited int64) {
	if _, err := s.applyDelta(ctx, recipient, -credited, false, LegRecipient); err != nil {
		s.metrics.RecordCompensation("failed")
		log.Printf("transfer %s: could not reverse credit of %d on account %s: %v", intent.ID, credited, recipient.ID, err)
		return
	}
	s.metrics.RecordCompensation("reversed")
}

func (s *service) fail(ctx context.Context, intent *models.TransferIntent, cause error) {
	if err := s.intents.MarkFailed(ctx, intent.ID, cause.Error()); err != nil {
		log.Printf("transfer %s: mark failed: %v", intent.ID, err)
	}
}

// GetTransfer returns an intent and its history rows to the sender or an admin.
func (s *service) GetTransfer(ctx context.Context, identity models.Identity, id uuid.UUID) (*Details, error) {
	intent, err := s.intents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrIntentNotFound) {
			return nil, newError(KindTransferNotFound, err)
		}
		return nil, newError(KindStoreUnavailable, err)
	}
	if !identity.CanRead(intent.SenderAccountID) {
		return nil, newError(KindForbidden, fmt.Errorf("transfer %s", id))
	}

	records, err := s.ledger.ListByTransfer(ctx, id)
	if err != nil {
		return nil, newError(KindStoreUnavailable, err)
	}
	return &Details{Intent: intent, Records: records}, nil
}
