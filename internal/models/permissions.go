package models

// Permission constants
const (
	// Account permissions
	PermissionAccountRead    = "account:read"
	PermissionAccountReadAll = "account:read-all"

	// Transfer permissions
	PermissionTransferWrite = "transfer:write"
	PermissionHistoryRead   = "history:read"

	// User permissions
	PermissionChangePassword = "user:change-password"
)

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{
			PermissionAccountRead,
			PermissionAccountReadAll,
			PermissionTransferWrite,
			PermissionHistoryRead,
			PermissionChangePassword,
		}
	case RoleStandard:
		return []string{
			PermissionAccountRead,
			PermissionTransferWrite,
			PermissionHistoryRead,
			PermissionChangePassword,
		}
	default:
		return []string{}
	}
}
