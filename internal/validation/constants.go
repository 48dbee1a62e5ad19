package validation

const (
	// Password requirements
	MinPasswordLength = 8
	MaxPasswordLength = 72

	// String lengths
	MaxNameLength   = 100
	MaxEmailLength  = 255
	MaxSearchLength = 100

	AccountNumberLength = 8
)
