package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const accountNumberDigits = 12

// GenerateAccountNumber produces a random numeric account number. The first
// digit is never zero so the number keeps its full width everywhere.
func GenerateAccountNumber() (string, error) {
	digits := make([]byte, accountNumberDigits)
	for i := range digits {
		max := big.NewInt(10)
		if i == 0 {
			max = big.NewInt(9)
		}
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate account number: %w", err)
		}
		d := n.Int64()
		if i == 0 {
			d++
		}
		digits[i] = byte('0' + d)
	}
	return string(digits), nil
}
