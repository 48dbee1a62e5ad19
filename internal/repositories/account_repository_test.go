package repositories_test

import (
	"context"
	"testing"

	"banklet/internal/models"
	"banklet/internal/repositories"
	"banklet/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewAccountRepository(testutil.NewDB(t))

	a := testutil.CreateAccount(t, repo, &models.Account{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Balance: 100, Currency: "eur"})
	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.Equal(t, int64(1), a.Version)

	got, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "EUR", got.Currency)
	assert.Equal(t, models.RoleStandard, got.Role)

	got, err = repo.FindByEmail(ctx, " ADA@example.com ")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repositories.ErrAccountNotFound)
}

func TestAccountRepository_DuplicateEmail(t *testing.T) {
	repo := repositories.NewAccountRepository(testutil.NewDB(t))
	testutil.CreateAccount(t, repo, &models.Account{FirstName: "A", Email: "dup@example.com"})

	err := repo.Create(context.Background(), &models.Account{FirstName: "B", Email: "dup@example.com", AccountNumber: "99990000", Password: "x", Currency: "USD"})
	assert.ErrorIs(t, err, repositories.ErrDuplicateAccount)
}

func TestAccountRepository_FindByAccountNumber(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewAccountRepository(testutil.NewDB(t))
	a := testutil.CreateAccount(t, repo, &models.Account{FirstName: "Ada", AccountNumber: "12345678"})

	lookup, err := repo.FindByAccountNumber(ctx, "12345678")
	require.NoError(t, err)
	assert.Equal(t, repositories.LookupFound, lookup.Status)
	assert.Equal(t, a.ID, lookup.Account.ID)

	lookup, err = repo.FindByAccountNumber(ctx, "00000000")
	require.NoError(t, err)
	assert.Equal(t, repositories.LookupNotFound, lookup.Status)
	assert.Nil(t, lookup.Account)
	assert.Equal(t, "not_found", lookup.Status.String())
}

func TestAccountRepository_FilterByNamePrefix(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewAccountRepository(testutil.NewDB(t))
	testutil.CreateAccount(t, repo, &models.Account{FirstName: "Alice", LastName: "Smith"})
	testutil.CreateAccount(t, repo, &models.Account{FirstName: "Bob", LastName: "Alderman"})
	testutil.CreateAccount(t, repo, &models.Account{FirstName: "Carol", LastName: "Jones"})
	testutil.CreateAccount(t, repo, &models.Account{FirstName: "100%", LastName: "Real"})

	got, err := repo.FilterByNamePrefix(ctx, "al")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Alice", got[0].FirstName)
	assert.Equal(t, "Bob", got[1].FirstName)

	got, err = repo.FilterByNamePrefix(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = repo.FilterByNamePrefix(ctx, "100%")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestAccountRepository_CompareAndSwapBalance(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewAccountRepository(testutil.NewDB(t))
	a := testutil.CreateAccount(t, repo, &models.Account{FirstName: "Ada", Balance: 100})

	require.NoError(t, repo.CompareAndSwapBalance(ctx, a.ID, 1, 150))

	err := repo.CompareAndSwapBalance(ctx, a.ID, 1, 999)
	assert.ErrorIs(t, err, repositories.ErrVersionConflict)

	got, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(150), got.Balance)
	assert.Equal(t, int64(2), got.Version)

	err = repo.CompareAndSwapBalance(ctx, uuid.New(), 1, 1)
	assert.ErrorIs(t, err, repositories.ErrAccountNotFound)
}

func TestAccountRepository_UpdateBalanceIsLastWriteWins(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewAccountRepository(testutil.NewDB(t))
	a := testutil.CreateAccount(t, repo, &models.Account{FirstName: "Ada", Balance: 100})

	require.NoError(t, repo.UpdateBalance(ctx, a.ID, 70))
	require.NoError(t, repo.UpdateBalance(ctx, a.ID, 40))

	got, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(40), got.Balance)
	assert.Equal(t, int64(3), got.Version)

	assert.ErrorIs(t, repo.UpdateBalance(ctx, uuid.New(), 1), repositories.ErrAccountNotFound)
}

func TestAccountRepository_TokenVersionAndPassword(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewAccountRepository(testutil.NewDB(t))
	a := testutil.CreateAccount(t, repo, &models.Account{FirstName: "Ada"})

	require.NoError(t, repo.IncrementTokenVersion(ctx, a.ID))
	require.NoError(t, repo.UpdatePassword(ctx, a.ID, "new-hash"))

	got, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.TokenVersion)
	assert.Equal(t, "new-hash", got.Password)
}
