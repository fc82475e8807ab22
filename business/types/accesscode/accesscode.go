// Package accesscode represents the organization access code in the system.
// The code is what members type in to resolve their organization; it is
// stored hashed and never logged in clear text.
package accesscode

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

const (
	minLength = 6
	maxLength = 64
)

// Code represents an access code in the system.
type Code struct {
	value string
}

// String obfuscates the code for logging and printing.
func (c Code) String() string {
	return "**********"
}

// Plain returns the clear text value for hashing and comparison.
func (c Code) Plain() string {
	return c.value
}

// Fingerprint returns a stable lookup key for the code so the store can
// resolve the candidate organization without a full table scan. The bcrypt
// hash is still the authority for the final comparison.
func (c Code) Fingerprint() string {
	sum := sha256.Sum256([]byte(c.value))
	return hex.EncodeToString(sum[:8])
}

// =============================================================================

// Parse parses the string value and returns an access code if the value
// complies with the rules for a code.
func Parse(value string) (Code, error) {
	if len(value) < minLength || len(value) > maxLength {
		return Code{}, fmt.Errorf("access code must be between %d and %d characters", minLength, maxLength)
	}

	return Code{value}, nil
}

// MustParse parses the string value and returns an access code if the value
// complies with the rules for a code. If an error occurs the function panics.
func MustParse(value string) Code {
	code, err := Parse(value)
	if err != nil {
		panic(err)
	}

	return code
}
