package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"banklet/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateAccount
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) FindByAccountNumber(ctx context.Context, number string) (AccountLookup, error) {
	// Two rows are enough to tell "one" from "more than one".
	var accounts []*models.Account
	err := r.db.WithContext(ctx).
		Where("account_number = ?", strings.TrimSpace(number)).
		Limit(2).
		Find(&accounts).Error
	if err != nil {
		return AccountLookup{}, fmt.Errorf("failed to look up account number: %w", err)
	}

	switch len(accounts) {
	case 0:
		return AccountLookup{Status: LookupNotFound}, nil
	case 1:
		return AccountLookup{Status: LookupFound, Account: accounts[0]}, nil
	default:
		return AccountLookup{Status: LookupAmbiguous}, nil
	}
}

func (r *accountRepository) ListAll(ctx context.Context) ([]*models.Account, error) {
	var accounts []*models.Account
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (r *accountRepository) FilterByNamePrefix(ctx context.Context, term string) ([]*models.Account, error) {
	pattern := escapeLike(strings.ToLower(strings.TrimSpace(term))) + "%"

	var accounts []*models.Account
	err := r.db.WithContext(ctx).
		Where(`LOWER(first_name) LIKE ? ESCAPE '\' OR LOWER(last_name) LIKE ? ESCAPE '\'`, pattern, pattern).
		Order("first_name ASC, last_name ASC").
		Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to filter accounts: %w", err)
	}
	return accounts, nil
}

func (r *accountRepository) UpdateBalance(ctx context.Context, id uuid.UUID, newBalance int64) error {
	result := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"balance":    newBalance,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *accountRepository) CompareAndSwapBalance(ctx context.Context, id uuid.UUID, expectedVersion, newBalance int64) error {
	result := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(map[string]interface{}{
			"balance":    newBalance,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update balance: %w", result.Error)
	}
	if result.RowsAffected == 1 {
		return nil
	}

	// Nothing matched: either the row is gone or someone else wrote first.
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return ErrVersionConflict
}

func (r *accountRepository) IncrementTokenVersion(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Update("token_version", gorm.Expr("token_version + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment token version: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *accountRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password":      passwordHash,
			"token_version": gorm.Expr("token_version + 1"),
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
