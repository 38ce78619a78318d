// Package postal resolves Brazilian postal codes (CEP) to street addresses.
package postal

import (
	"context"
	"strings"

	"github.com/dukerupert/wagsales/internal/domain"
)

// CodeLength is the number of digits in a CEP.
const CodeLength = 8

// Lookup resolves a postal code to an address.
// Implementations can use ViaCEP, a carrier API or a local table.
type Lookup interface {
	// Lookup returns the address for code. Non-digits in code are ignored.
	// Returns ErrInvalidCode if code does not have 8 digits and ErrNotFound if
	// the code is unknown.
	Lookup(ctx context.Context, code string) (*domain.Address, error)
}

var (
	ErrInvalidCode = &domain.Error{Code: domain.EINVALID, Op: "postal.lookup", Message: "postal code must have 8 digits"}
	ErrNotFound    = &domain.Error{Code: domain.ENOTFOUND, Op: "postal.lookup", Message: "postal code not found"}
)

// Sanitize strips everything but digits from code.
func Sanitize(code string) string {
	var b strings.Builder
	for _, r := range code {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize sanitizes code and checks its length.
func Normalize(code string) (string, error) {
	digits := Sanitize(code)
	if len(digits) != CodeLength {
		return "", ErrInvalidCode
	}
	return digits, nil
}
