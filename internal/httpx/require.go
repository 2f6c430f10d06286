// A1A T-Pro Authenticate & Authorize Library
// Copyright 2026 Watatek
// SPDX-License-Identifier: Apache-2.0

package httpx

import (
	"errors"
	"net/http"

	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/authz"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/identity"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/logging"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/permission"
)

// Require returns middleware enforcing the policy through the gate before
// the handler body runs. Denial short-circuits the handler entirely.
func Require(gate *authz.Gate, policy authz.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := gate.Enforce(r.Context(), policy); err != nil {
				writeEnforcementError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeEnforcementError maps gate errors onto the error envelope:
// missing/rejected credentials are authentication failures (401), typed
// denials are 403 with the offending codes in the debug message, and
// anything else is an opaque 500.
func writeEnforcementError(w http.ResponseWriter, err error) {
	var permErr *authz.PermissionDeniedError
	var roleErr *authz.RoleDeniedError

	switch {
	case errors.Is(err, identity.ErrNoAuthenticatedUser), errors.Is(err, permission.ErrUnauthorized):
		logging.Warn().Err(err).Msg("authentication failed")
		writeAPIError(w, http.StatusUnauthorized, CodeAuthenticationFailed, "Authentication required", "")
	case errors.As(err, &permErr):
		writeAPIError(w, http.StatusForbidden, CodePermissionRequired, permErr.Message, permErr.Error())
	case errors.As(err, &roleErr):
		writeAPIError(w, http.StatusForbidden, CodeRoleRequired, roleErr.Message, roleErr.Error())
	default:
		logging.Error().Err(err).Msg("policy enforcement error")
		writeAPIError(w, http.StatusInternalServerError, CodeInternalError, "An authentication/authorization error occurred", "")
	}
}
