package repositories_test

import (
	"context"
	"testing"
	"time"

	"banklet/internal/models"
	"banklet/internal/repositories"
	"banklet/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRepository_ListByOwnerNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewTransactionRepository(testutil.NewDB(t))
	owner, other := uuid.New(), uuid.New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, ts := range []time.Time{base, base.Add(2 * time.Hour), base.Add(time.Hour)} {
		require.NoError(t, repo.Append(ctx, &models.TransactionRecord{
			OwnerAccountID:     owner,
			SenderAccountID:    owner,
			RecipientAccountID: other,
			Amount:             int64(i + 1),
			Currency:           "USD",
			Type:               models.TransactionTypeDebit,
			Timestamp:          ts,
		}))
	}
	require.NoError(t, repo.Append(ctx, &models.TransactionRecord{
		OwnerAccountID: other, SenderAccountID: owner, RecipientAccountID: other,
		Amount: 9, Currency: "USD", Type: models.TransactionTypeCredit, Timestamp: base,
	}))

	got, err := repo.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{2, 3, 1}, []int64{got[0].Amount, got[1].Amount, got[2].Amount})
}

func TestTransactionRepository_ListByTransfer(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewTransactionRepository(testutil.NewDB(t))
	transferID := uuid.New()
	now := time.Now().UTC()

	for _, typ := range []string{models.TransactionTypeDebit, models.TransactionTypeCredit} {
		require.NoError(t, repo.Append(ctx, &models.TransactionRecord{
			TransferID: transferID, OwnerAccountID: uuid.New(), SenderAccountID: uuid.New(), RecipientAccountID: uuid.New(),
			Amount: 5, Currency: "USD", Type: typ, Timestamp: now,
		}))
	}

	got, err := repo.ListByTransfer(ctx, transferID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.TransactionTypeCredit, got[0].Type)
	assert.Equal(t, models.TransactionTypeDebit, got[1].Type)
}
