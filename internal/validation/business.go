package validation

import (
	"math"
	"strings"

	"banklet/internal/models"

	"github.com/shopspring/decimal"
)

// maxBalance is the largest balance an account column can hold.
var maxBalance = decimal.NewFromInt(math.MaxInt64)

// SignupInput is the registration form.
type SignupInput struct {
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	Email          string          `json:"email"`
	Password       string          `json:"password"`
	Currency       string          `json:"currency"`
	OpeningBalance decimal.Decimal `json:"account_balance"`
}

// TransferInput is the transfer form as posted by a client.
type TransferInput struct {
	RecipientAccountNumber string          `json:"recipient_account_number"`
	Amount                 decimal.Decimal `json:"amount"`
	Currency               string          `json:"currency"`
}

// Signup validates a registration request
func (v *Validator) Signup(in *SignupInput) {
	v.Required("first_name", in.FirstName)
	v.MaxLength("first_name", in.FirstName, MaxNameLength)
	v.MaxLength("last_name", in.LastName, MaxNameLength)

	v.Required("email", in.Email)
	v.MaxLength("email", in.Email, MaxEmailLength)
	v.Email("email", strings.TrimSpace(in.Email))

	v.Password("password", in.Password)

	v.OneOf("currency", models.NormalizeCurrency(in.Currency), models.SupportedCurrencies)

	v.Check(!in.OpeningBalance.IsNegative(), "account_balance", "must not be negative")
	v.Check(in.OpeningBalance.IsInteger(), "account_balance", "must be a whole number")
	v.Check(in.OpeningBalance.LessThanOrEqual(maxBalance), "account_balance", "is too large")
}

// Transfer validates the shape of a transfer request. Amount rules beyond
// "present and positive" are enforced by the transfer service.
func (v *Validator) Transfer(in *TransferInput) {
	v.Required("recipient_account_number", in.RecipientAccountNumber)
	v.Check(len(strings.TrimSpace(in.RecipientAccountNumber)) == AccountNumberLength || strings.TrimSpace(in.RecipientAccountNumber) == "",
		"recipient_account_number", "must be 8 digits")
	v.Check(in.Amount.IsPositive(), "amount", "must be greater than zero")
	v.Required("currency", in.Currency)
}

// ChangePassword validates a password change
func (v *Validator) ChangePassword(oldPassword, newPassword string) {
	v.Required("old_password", oldPassword)
	v.Password("new_password", newPassword)
	v.Check(oldPassword != newPassword, "new_password", "must differ from the current password")
}

// SearchTerm validates a name prefix search
func (v *Validator) SearchTerm(term string) {
	v.Required("q", term)
	v.MaxLength("q", term, MaxSearchLength)
}
