package validation

import "regexp"

var specialChars = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>_\-+=~;'/\\\[\]]`)

// HasSpecialChar checks if a string contains at least one special character
func HasSpecialChar(s string) bool {
	return specialChars.MatchString(s)
}
