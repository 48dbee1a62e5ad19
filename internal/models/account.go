package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account roles
const (
	RoleAdmin    = "admin"
	RoleStandard = "standard"
)

// Account is both the login identity and the balance holder.
// Balance is kept in whole currency units.
type Account struct {
	ID            uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	AccountNumber string    `gorm:"size:8;uniqueIndex;not null" json:"account_number"`
	FirstName     string    `gorm:"size:100;index;not null" json:"first_name"`
	LastName      string    `gorm:"size:100;index" json:"last_name"`
	Email         string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password      string    `gorm:"not null" json:"-"`
	Role          string    `gorm:"size:16;default:'standard'" json:"role"`
	Balance       int64     `gorm:"not null;default:0" json:"balance"`
	Currency      string    `gorm:"size:3;not null;default:'USD'" json:"currency"`
	Version       int64     `gorm:"not null;default:1" json:"-"`
	TokenVersion  int       `gorm:"not null;default:1" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Role == "" {
		a.Role = RoleStandard
	}
	if a.Version == 0 {
		a.Version = 1
	}
	if a.TokenVersion == 0 {
		a.TokenVersion = 1
	}
	a.Currency = strings.ToUpper(a.Currency)
	return nil
}

// IsAdmin reports whether the account has unrestricted read scope.
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// FullName joins first and last name.
func (a *Account) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}
