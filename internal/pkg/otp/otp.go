// Package otp issues the one-time codes used for e-mail verification.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// TTL is how long an issued code stays valid.
const TTL = 10 * time.Minute

// codeSpan covers [100000, 999999]. The lower bound keeps every code at a
// full six digits, so the fixed-width formatting can never pad with zeros.
const (
	codeMin  = 100000
	codeSpan = 900000
)

// New draws a uniform random 6-digit code and returns it together with its
// absolute expiry as Unix seconds. Expiry checks are `now >= expiresAt`,
// which survives process restarts.
func New() (code string, expiresAt int64, err error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", 0, fmt.Errorf("generate otp: %w", err)
	}
	code = fmt.Sprintf("%06d", codeMin+n.Int64())
	expiresAt = time.Now().Add(TTL).Unix()
	return code, expiresAt, nil
}
