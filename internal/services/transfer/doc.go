/*
Package transfer moves funds between two accounts.

A transfer reads both accounts, converts the amount when the transfer currency
differs from the sender's currency, writes the recipient balance and then the
sender balance, and appends a credit row and a debit row to the history.

Usage:

	svc := transfer.NewService(accounts, records, intents, rateSource, transfer.Config{}, metrics)

	result, err := svc.Transfer(ctx, transfer.Request{
		SenderID:               identity.AccountID,
		RecipientAccountNumber: "12345678",
		Amount:                 decimal.NewFromInt(100),
		Currency:               "EUR",
		IdempotencyKey:         key,
	})

Conversion:

When currencies differ the rate table is fetched once per transfer and the
credited amount is trunc(amount * rate * (1 - Spread)). The sender is debited
the credited amount unless Config.DebitPolicy is DebitRequested.

Concurrency:

Balances are written with a version compare-and-swap. A conflicting leg is
re-read and the same delta applied again, up to Config.MaxConflictRetries
times. If the sender leg fails after the recipient was credited, the credit is
reversed.

Errors:

Every failure is a *Error carrying a Kind and, for write failures, a Leg.
Match with errors.Is against the Err* values or errors.As for the details.
*/
package transfer
