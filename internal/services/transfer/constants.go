package transfer

import "github.com/shopspring/decimal"

// DebitPolicy decides what the sender is charged.
type DebitPolicy string

const (
	// DebitCredited charges the sender the post-conversion credited amount.
	DebitCredited DebitPolicy = "credited"
	// DebitRequested charges the sender the amount named in the request.
	DebitRequested DebitPolicy = "requested"
)

// Default configuration values
const (
	DefaultMaxConflictRetries = 3
	DefaultRateBase           = "USD"
)

// DefaultSpread is the 1% deducted from converted amounts.
var DefaultSpread = decimal.RequireFromString("0.01")

// Outcome labels used for metrics.
const (
	OutcomeSuccess  = "success"
	OutcomeReplayed = "replayed"
)

// ParseDebitPolicy maps a configuration string to a policy, defaulting to DebitCredited.
func ParseDebitPolicy(s string) DebitPolicy {
	if DebitPolicy(s) == DebitRequested {
		return DebitRequested
	}
	return DebitCredited
}
