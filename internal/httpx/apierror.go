// A1A T-Pro Authenticate & Authorize Library
// Copyright 2026 Watatek
// SPDX-License-Identifier: Apache-2.0

// Package httpx is the HTTP boundary: bearer-token authentication,
// policy enforcement middleware, and the error envelope the embedding
// service's clients consume.
package httpx

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/logging"
)

// Application error codes carried in the error envelope, finer-grained
// than the HTTP status.
const (
	CodeTokenExpired         int64 = 4011
	CodeTokenInvalid         int64 = 4012
	CodeAuthenticationFailed int64 = 4013
	CodePermissionRequired   int64 = 4031
	CodeRoleRequired         int64 = 4032
	CodeInternalError        int64 = 5001
)

// apiDateLayout is RFC3339 with millisecond precision.
const apiDateLayout = "2006-01-02T15:04:05.000Z07:00"

// APIError is the JSON error envelope.
type APIError struct {
	Status       string `json:"status"`
	ErrorCode    int64  `json:"errorCode"`
	Date         string `json:"date"`
	Message      string `json:"message"`
	DebugMessage string `json:"debugMessage,omitempty"`
}

// NewAPIError builds an envelope stamped with the current UTC time.
func NewAPIError(httpStatus int, errorCode int64, message, debugMessage string) APIError {
	return APIError{
		Status:       statusName(httpStatus),
		ErrorCode:    errorCode,
		Date:         time.Now().UTC().Format(apiDateLayout),
		Message:      message,
		DebugMessage: debugMessage,
	}
}

// writeAPIError sends the envelope with the given HTTP status.
func writeAPIError(w http.ResponseWriter, httpStatus int, errorCode int64, message, debugMessage string) {
	body := NewAPIError(httpStatus, errorCode, message, debugMessage)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error().Err(err).Msg("failed to encode error response")
	}
}

// statusName maps the HTTP status to its constant name, matching the
// wire shape existing clients parse.
func statusName(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusInternalServerError:
		return "INTERNAL_SERVER_ERROR"
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusTooManyRequests:
		return "TOO_MANY_REQUESTS"
	default:
		return http.StatusText(status)
	}
}
