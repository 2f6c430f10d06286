// A1A T-Pro Authenticate & Authorize Library
// Copyright 2026 Watatek
// SPDX-License-Identifier: Apache-2.0

package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/identity"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/logging"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/token"
)

const bearerPrefix = "Bearer "

// Authenticator verifies the request's bearer token and stores the
// resulting user in the request context. Requests without a Bearer
// authorization header pass through unauthenticated; whether that is
// acceptable is decided downstream by the policy middleware, so public
// endpoints need no special casing here.
func Authenticator(verifier *token.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := extractBearer(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			user, err := verifier.VerifyAndExtract(r.Context(), raw)
			if err != nil {
				writeVerificationError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(identity.WithUser(r.Context(), user)))
		})
	}
}

// extractBearer pulls the token out of the Authorization header. False
// when the header is absent or uses a different scheme.
func extractBearer(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(bearerPrefix):]), true
}

// writeVerificationError maps a verification failure onto the error
// envelope, keeping expiry distinguishable so clients know to refresh
// rather than re-login.
func writeVerificationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, token.ErrExpired):
		logging.Warn().Err(err).Msg("token expired")
		writeAPIError(w, http.StatusUnauthorized, CodeTokenExpired, "Token expired", "")
	default:
		logging.Warn().Err(err).Msg("token verification failed")
		writeAPIError(w, http.StatusUnauthorized, CodeTokenInvalid, "Invalid token", err.Error())
	}
}
