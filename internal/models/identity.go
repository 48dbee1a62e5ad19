package models

import "github.com/google/uuid"

// Identity is the authenticated caller, taken from the access token and passed
// explicitly into services.
type Identity struct {
	AccountID uuid.UUID
	Role      string
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// CanRead reports whether the caller may see data owned by accountID.
func (i Identity) CanRead(accountID uuid.UUID) bool {
	return i.IsAdmin() || i.AccountID == accountID
}
