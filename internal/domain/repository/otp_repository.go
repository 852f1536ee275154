package repository

import (
	"context"
	"errors"
)

// ErrOTPExpired is returned by Verify when the most recent code matches but
// its validity window has elapsed.
var ErrOTPExpired = errors.New("otp expired")

// OTPRepository issues and verifies one-shot login codes.
//
// Issue persists the hash of a fresh 6-digit code and returns the plaintext
// for out-of-band delivery. Outstanding codes per email are not limited;
// Verify only ever considers the most recently issued record.
//
// Verify returns (true, nil) and deletes the record on a match, and
// (false, nil) when no record exists or the code does not match; absence is
// a normal false path, not an error. A matching but stale code yields
// (false, ErrOTPExpired).
type OTPRepository interface {
	Issue(ctx context.Context, email string) (string, error)
	Verify(ctx context.Context, email, code string) (bool, error)
}
