package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// MinCode is the smallest code ever generated.
	MinCode = 100000
	// MaxCode is the largest code ever generated.
	MaxCode = 999999
)

// Generator produces one-time codes.
type Generator interface {
	Generate() (string, error)
}

// Numeric draws six-digit codes uniformly from [MinCode, MaxCode].
type Numeric struct{}

// NewNumeric returns a crypto/rand backed code generator.
func NewNumeric() *Numeric {
	return &Numeric{}
}

// Generate returns a zero-padded six-digit code.
func (Numeric) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(MaxCode-MinCode+1))
	if err != nil {
		return "", fmt.Errorf("otp: read random: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+MinCode), nil
}
