// A1A T-Pro Authenticate & Authorize Library
// Copyright 2026 Watatek
// SPDX-License-Identifier: Apache-2.0

package httpx

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/config"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/logging"
)

// RequestID assigns every request a correlation ID, echoing any ID the
// caller supplied, and binds it into the request context for log
// enrichment.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = logging.GenerateRequestID()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(logging.ContextWithRequestID(r.Context(), id)))
	})
}

// RequestLogger emits one structured line per request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger := logging.Ctx(r.Context())
		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// CORS builds the CORS middleware from configuration. Identity when
// disabled.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return passthrough
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
}

// RateLimit builds a per-client-IP throttle from configuration. Identity
// when disabled.
func RateLimit(cfg config.RateLimitConfig) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return passthrough
	}
	return httprate.Limit(
		cfg.Requests,
		cfg.Window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			writeAPIError(w, http.StatusTooManyRequests, 0, "Too many requests", "")
		}),
	)
}

func passthrough(next http.Handler) http.Handler { return next }

// Whitelist matches request paths against the configured public prefixes.
type Whitelist struct {
	prefixes []string
}

// NewWhitelist builds a matcher from path prefixes. Empty prefixes are
// dropped so a stray blank entry cannot whitelist everything.
func NewWhitelist(prefixes []string) *Whitelist {
	w := &Whitelist{}
	for _, p := range prefixes {
		if p != "" {
			w.prefixes = append(w.prefixes, p)
		}
	}
	return w
}

// Match reports whether the path is whitelisted.
func (w *Whitelist) Match(path string) bool {
	for _, p := range w.prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Skip wraps a middleware so it is bypassed for whitelisted paths.
func (w *Whitelist) Skip(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		wrapped := mw(next)
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			if w.Match(r.URL.Path) {
				next.ServeHTTP(rw, r)
				return
			}
			wrapped.ServeHTTP(rw, r)
		})
	}
}
