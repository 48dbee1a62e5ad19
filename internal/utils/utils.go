package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var accountNumberSpace = big.NewInt(100_000_000)

// GenerateAccountNumber returns a random 8-digit account number. Leading zeros are kept.
func GenerateAccountNumber() (string, error) {
	n, err := rand.Int(rand.Reader, accountNumberSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%08d", n.Int64()), nil
}
