// A1A T-Pro Authenticate & Authorize Library
// Copyright 2026 Watatek
// SPDX-License-Identifier: Apache-2.0

// Package token verifies bearer tokens and derives the authenticated-user
// context from their claims.
//
// Verification is a fixed pipeline, terminal on first failure:
//
//	Parse -> VerifySignature -> ValidateExpiry -> MapClaims
//
// Each stage's failure maps to one of the package's error kinds, so callers
// can tell expiry apart from general invalidity.
package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/config"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/identity"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/keysource"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/logging"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/metrics"
)

// Verifier turns raw bearer tokens into UserContext values.
type Verifier struct {
	source             keysource.Source
	verifySignature    bool
	validateExpiration bool
	clockSkew          time.Duration
	parser             *jwt.Parser

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// NewVerifier creates a verifier wired to the given key source.
func NewVerifier(cfg *config.Config, source keysource.Source) *Verifier {
	return &Verifier{
		source:             source,
		verifySignature:    cfg.JWKS.Enabled,
		validateExpiration: cfg.Validation.ValidateExpiration,
		clockSkew:          cfg.Validation.ClockSkew,
		parser:             jwt.NewParser(),
		now:                time.Now,
	}
}

// VerifyAndExtract verifies raw and maps its claims into a UserContext.
// Fails with ErrMalformed, ErrVerification, or ErrExpired.
func (v *Verifier) VerifyAndExtract(ctx context.Context, raw string) (*identity.UserContext, error) {
	start := v.now()
	user, err := v.verify(ctx, raw)
	metrics.TokenVerificationDuration.Observe(v.now().Sub(start).Seconds())
	metrics.TokenVerifications.WithLabelValues(outcomeLabel(err)).Inc()
	return user, err
}

func (v *Verifier) verify(ctx context.Context, raw string) (*identity.UserContext, error) {
	// Parse
	claims := jwt.MapClaims{}
	tok, parts, err := v.parser.ParseUnverified(raw, claims)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	// VerifySignature
	if v.verifySignature {
		if err := v.checkSignature(ctx, tok, parts); err != nil {
			return nil, err
		}
	} else {
		logging.Warn().Msg("signature verification is DISABLED, skipping signature check; do not use in production")
	}

	// ValidateExpiry
	if v.validateExpiration {
		if err := v.checkExpiration(claims); err != nil {
			return nil, err
		}
	}

	// MapClaims
	user, err := mapToUserContext(claims, raw)
	if err != nil {
		return nil, err
	}

	logging.Debug().Int64("account_id", user.AccountID).Str("username", user.Username).Msg("token verified")
	return user, nil
}

// checkSignature obtains the current key and verifies the token's signature
// against it. The token's algorithm family must match the key's material.
func (v *Verifier) checkSignature(ctx context.Context, tok *jwt.Token, parts []string) error {
	key, err := v.source.CurrentKey(ctx)
	if err != nil {
		return fmt.Errorf("%w: acquire signing key: %w", ErrVerification, err)
	}

	switch tok.Method.(type) {
	case *jwt.SigningMethodHMAC:
		if key.Secret == nil {
			return fmt.Errorf("%w: token uses %s but the configured key is not symmetric", ErrVerification, tok.Method.Alg())
		}
	case *jwt.SigningMethodRSA:
		if key.Public == nil {
			return fmt.Errorf("%w: token uses %s but the configured key is not an RSA public key", ErrVerification, tok.Method.Alg())
		}
	default:
		return fmt.Errorf("%w: unexpected signing method %s", ErrVerification, tok.Method.Alg())
	}

	sig, err := v.parser.DecodeSegment(parts[2])
	if err != nil {
		return fmt.Errorf("%w: undecodable signature segment: %v", ErrVerification, err)
	}

	signingString := strings.Join(parts[0:2], ".")
	if err := tok.Method.Verify(signingString, sig, key.Material()); err != nil {
		return fmt.Errorf("%w: invalid signature: %v", ErrVerification, err)
	}

	return nil
}

// checkExpiration requires an exp claim and compares it against now with
// the clock-skew tolerance added only on the lenient side.
func (v *Verifier) checkExpiration(claims jwt.MapClaims) error {
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return fmt.Errorf("%w: unreadable expiration claim: %v", ErrVerification, err)
	}
	if exp == nil {
		return fmt.Errorf("%w: token does not have an expiration time", ErrVerification)
	}

	now := v.now()
	if now.After(exp.Add(v.clockSkew)) {
		return fmt.Errorf("%w: expired at %s, current time %s", ErrExpired, exp.Format(time.RFC3339), now.Format(time.RFC3339))
	}

	return nil
}

// mapToUserContext extracts the nested account claim into an immutable
// UserContext, retaining the raw token for downstream propagation.
func mapToUserContext(claims jwt.MapClaims, raw string) (*identity.UserContext, error) {
	account, ok := claims["account"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: token does not contain an account claim", ErrVerification)
	}

	accountID, ok := claimInt64(account["id"])
	if !ok {
		return nil, fmt.Errorf("%w: account claim is missing a numeric id", ErrVerification)
	}

	user := &identity.UserContext{
		AccountID:        accountID,
		Username:         claimString(account["username"]),
		FullName:         claimString(account["fullName"]),
		EmployeeCode:     claimString(account["employeeCode"]),
		EmployeeFullCode: claimString(account["employeeFullCode"]),
		FirstLogin:       account["firstLogin"] == true,
		RawToken:         raw,
		Roles:            extractRoles(account["groups"]),
	}

	return user, nil
}

// extractRoles maps account.groups[].groupCode to role codes, preserving
// token order and skipping entries without a code. Absent groups yield an
// empty, non-nil slice.
func extractRoles(groups any) []string {
	roles := []string{}

	list, ok := groups.([]any)
	if !ok {
		return roles
	}

	for _, g := range list {
		group, ok := g.(map[string]any)
		if !ok {
			continue
		}
		if code := claimString(group["groupCode"]); code != "" {
			roles = append(roles, code)
		}
	}

	return roles
}

func claimString(v any) string {
	s, _ := v.(string)
	return s
}

// claimInt64 accepts the numeric representations a JSON decoder may
// produce for an integer claim.
func claimInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	case errors.Is(err, ErrExpired):
		return "expired"
	default:
		return "invalid"
	}
}
