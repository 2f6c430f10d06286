// A1A T-Pro Authenticate & Authorize Library
// Copyright 2026 Watatek
// SPDX-License-Identifier: Apache-2.0

// Package metrics defines Prometheus collectors for the authorization core.
//
// All collectors are registered with the default registry via promauto so
// that embedding services only need to expose promhttp.Handler().
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TokenVerifications counts token verification attempts.
	// Labels:
	//   - outcome: "success", "malformed", "invalid", "expired"
	TokenVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_token_verifications_total",
			Help: "Total number of bearer token verification attempts",
		},
		[]string{"outcome"},
	)

	// TokenVerificationDuration measures end-to-end verification latency,
	// including any key fetch triggered by a cache miss.
	TokenVerificationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "auth_token_verification_duration_seconds",
			Help:    "Duration of bearer token verification in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	// KeyFetches counts signing-key fetches from the key-publishing endpoint.
	// Labels:
	//   - outcome: "success", "network", "malformed-response", "no-matching-key", "decode-error"
	KeyFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_key_fetches_total",
			Help: "Total number of signing-key fetches from the key endpoint",
		},
		[]string{"outcome"},
	)

	// KeyCacheLookups counts key-cache lookups by result.
	// Labels:
	//   - result: "hit", "miss"
	KeyCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_key_cache_lookups_total",
			Help: "Total number of signing-key cache lookups",
		},
		[]string{"result"},
	)

	// PolicyDecisions counts policy gate outcomes.
	// Labels:
	//   - kind: policy kind (e.g., "permission", "any_permission", "role")
	//   - outcome: "allow", "deny", "error"
	PolicyDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_policy_decisions_total",
			Help: "Total number of policy gate decisions",
		},
		[]string{"kind", "outcome"},
	)

	// PermissionLoads counts permission loader invocations.
	// Labels:
	//   - outcome: "success", "unauthorized", "failure"
	PermissionLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_permission_loads_total",
			Help: "Total number of permission set loads",
		},
		[]string{"outcome"},
	)

	// PermissionLoadFailures counts loader failures that degraded to an
	// empty permission set. Watch this to tell "user has no permissions"
	// apart from "permission gateway is down".
	PermissionLoadFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_permission_load_failures_total",
			Help: "Total number of permission loads degraded to an empty set",
		},
	)

	// BreakerState tracks the permission-gateway circuit breaker state.
	// 0 = closed, 1 = half-open, 2 = open.
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "auth_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)
