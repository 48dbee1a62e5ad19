package transfer

import "errors"

// Kind classifies a transfer failure.
type Kind string

const (
	KindInvalidAmount         Kind = "invalid_amount"
	KindInvalidRequest        Kind = "invalid_request"
	KindRecipientNotFound     Kind = "recipient_not_found"
	KindAmbiguousRecipient    Kind = "ambiguous_recipient"
	KindSenderNotFound        Kind = "sender_not_found"
	KindNoConversionRate      Kind = "no_conversion_rate"
	KindRateSourceUnavailable Kind = "rate_source_unavailable"
	KindInsufficientFunds     Kind = "insufficient_funds"
	KindStoreUnavailable      Kind = "store_unavailable"
	KindPersistence           Kind = "persistence_error"
	KindLedgerWrite           Kind = "ledger_write_error"
	KindTransferInProgress    Kind = "transfer_in_progress"
	KindIdempotencyMismatch   Kind = "idempotency_mismatch"
	KindIdempotencyKeyUsed    Kind = "idempotency_key_used"
	KindTransferNotFound      Kind = "transfer_not_found"
	KindForbidden             Kind = "forbidden"
)

// Leg names the write that failed.
type Leg string

const (
	LegRecipient Leg = "recipient"
	LegSender    Leg = "sender"
	LegCredit    Leg = "credit"
	LegDebit     Leg = "debit"
)

// Error is returned by every Service method.
type Error struct {
	Kind Kind
	Leg  Leg
	Err  error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Leg != "" {
		msg += " (" + string(e.Leg) + " leg)"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Kind, and on Leg when the target names one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Leg == "" || t.Leg == e.Leg)
}

// Service errors
var (
	ErrInvalidAmount         = &Error{Kind: KindInvalidAmount}
	ErrInvalidRequest        = &Error{Kind: KindInvalidRequest}
	ErrRecipientNotFound     = &Error{Kind: KindRecipientNotFound}
	ErrAmbiguousRecipient    = &Error{Kind: KindAmbiguousRecipient}
	ErrSenderNotFound        = &Error{Kind: KindSenderNotFound}
	ErrNoConversionRate      = &Error{Kind: KindNoConversionRate}
	ErrRateSourceUnavailable = &Error{Kind: KindRateSourceUnavailable}
	ErrInsufficientFunds     = &Error{Kind: KindInsufficientFunds}
	ErrStoreUnavailable      = &Error{Kind: KindStoreUnavailable}
	ErrPersistence           = &Error{Kind: KindPersistence}
	ErrLedgerWrite           = &Error{Kind: KindLedgerWrite}
	ErrTransferInProgress    = &Error{Kind: KindTransferInProgress}
	ErrIdempotencyMismatch   = &Error{Kind: KindIdempotencyMismatch}
	ErrIdempotencyKeyUsed    = &Error{Kind: KindIdempotencyKeyUsed}
	ErrTransferNotFound      = &Error{Kind: KindTransferNotFound}
	ErrForbidden             = &Error{Kind: KindForbidden}
)

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func newLegError(kind Kind, leg Leg, err error) *Error {
	return &Error{Kind: kind, Leg: leg, Err: err}
}

// KindOf returns the Kind of err, or "" when err is not a transfer error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

var errFundsRecheck = errors.New("balance no longer covers the debit")
