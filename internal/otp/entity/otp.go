package entity

import (
	"strings"
	"time"
	"unicode"

	"github.com/samber/lo"
	"github.com/shandysiswandi/gocare/internal/pkg/validator"
)

// Record is one pending code for an (identifier, channel) pair.
type Record struct {
	ID         int64
	Identifier string
	Channel    Channel
	Purpose    Purpose
	// CodeHash is the keyed hash of the code. The plaintext is never stored.
	CodeHash  string
	Attempts  int
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Active reports whether r can still be verified at now.
func (r *Record) Active(now time.Time) bool {
	return r != nil && now.Before(r.ExpiresAt)
}

// NormalizePhone keeps only the digits of phone. When more than
// validator.MinPhoneDigits remain and they start with countryCode, the country code is
// dropped so "+91 98765-43210" and "9876543210" share one record.
func NormalizePhone(phone, countryCode string) string {
	digits := string(lo.Filter([]rune(phone), func(r rune, _ int) bool {
		return unicode.IsDigit(r) && r < unicode.MaxASCII
	}))

	countryCode = strings.TrimPrefix(strings.TrimSpace(countryCode), "+")
	if countryCode != "" && len(digits) > validator.MinPhoneDigits && strings.HasPrefix(digits, countryCode) {
		if rest := digits[len(countryCode):]; len(rest) >= validator.MinPhoneDigits {
			return rest
		}
	}
	return digits
}

// NormalizeEmail trims and lower-cases email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Normalize applies the channel's normalization to identifier.
func Normalize(channel Channel, identifier, countryCode string) string {
	if channel == ChannelPhone {
		return NormalizePhone(identifier, countryCode)
	}
	return NormalizeEmail(identifier)
}
