// A1A T-Pro Authenticate & Authorize Library
// Copyright 2026 Watatek
// SPDX-License-Identifier: Apache-2.0

package token

import "errors"

// Verification-stage errors. Each kind is distinguishable with errors.Is so
// the web layer can map expiry differently from general invalidity.
var (
	// ErrMalformed indicates the raw string is not a well-formed signed
	// token.
	ErrMalformed = errors.New("token is malformed")

	// ErrVerification indicates signature failure, key/algorithm mismatch,
	// key-acquisition failure, or unusable claims.
	ErrVerification = errors.New("token verification failed")

	// ErrExpired indicates the token's expiration is past the clock-skew
	// tolerance.
	ErrExpired = errors.New("token expired")
)
