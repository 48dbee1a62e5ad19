// Package rates provides exchange rate tables and the currency conversion rule
// used by transfers.
package rates

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var (
	ErrNoConversionRate  = errors.New("no conversion rate available")
	ErrSourceUnavailable = errors.New("rate source unavailable")
)

// Table maps a currency code to its rate against the table's base currency.
type Table map[string]float64

// Source returns a rate table quoted against base.
type Source interface {
	GetRates(ctx context.Context, base string) (Table, error)
}

// Rate returns how many units of to one unit of from buys: table[to] / table[from].
func Rate(table Table, from, to string) (decimal.Decimal, error) {
	fromRate, ok := table[from]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w for %s to %s: %s missing", ErrNoConversionRate, from, to, from)
	}
	toRate, ok := table[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w for %s to %s: %s missing", ErrNoConversionRate, from, to, to)
	}
	if !usable(fromRate) || !usable(toRate) {
		return decimal.Zero, fmt.Errorf("%w for %s to %s: unusable rate", ErrNoConversionRate, from, to)
	}

	rate := decimal.NewFromFloat(toRate).Div(decimal.NewFromFloat(fromRate))
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w for %s to %s: rate is zero", ErrNoConversionRate, from, to)
	}
	return rate, nil
}

// Convert applies rate and deducts spread (0.01 for 1%). The result is not rounded.
func Convert(amount, rate, spread decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Mul(decimal.NewFromInt(1).Sub(spread))
}

// Rebase re-quotes the table against base.
func (t Table) Rebase(base string) (Table, error) {
	pivot, ok := t[base]
	if !ok || !usable(pivot) {
		return nil, fmt.Errorf("%w: cannot rebase on %s", ErrNoConversionRate, base)
	}
	out := make(Table, len(t))
	for code, r := range t {
		out[code] = r / pivot
	}
	out[base] = 1
	return out, nil
}

func usable(r float64) bool {
	return !math.IsNaN(r) && !math.IsInf(r, 0) && r > 0
}
