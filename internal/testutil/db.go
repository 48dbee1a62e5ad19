// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"banklet/internal/config"
	"banklet/internal/models"
	"banklet/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// NewDB opens a private in-memory sqlite database with the schema applied.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := repositories.Open(config.DBConfig{
		Driver:       "sqlite",
		SQLitePath:   "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	require.NoError(t, repositories.Migrate(db))

	t.Cleanup(func() { _ = repositories.Close(db) })
	return db
}

var nextAccountNumber atomic.Int64

func init() {
	nextAccountNumber.Store(10000000)
}

// CreateAccount inserts an account with password "password!" unless one is set.
func CreateAccount(t testing.TB, repo repositories.AccountRepository, a *models.Account) *models.Account {
	t.Helper()

	if a.Email == "" {
		a.Email = uuid.NewString()[:8] + "@example.com"
	}
	if a.AccountNumber == "" {
		a.AccountNumber = fmt.Sprintf("%08d", nextAccountNumber.Add(1))
	}
	if a.Currency == "" {
		a.Currency = models.CurrencyUSD
	}
	if a.Password == "" {
		hash, err := bcrypt.GenerateFromPassword([]byte("password!"), bcrypt.MinCost)
		require.NoError(t, err)
		a.Password = string(hash)
	}
	require.NoError(t, repo.Create(context.Background(), a))
	return a
}
