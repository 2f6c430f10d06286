// A1A T-Pro Authenticate & Authorize Library
// Copyright 2026 Watatek
// SPDX-License-Identifier: Apache-2.0

package permission

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/config"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/identity"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/logging"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/metrics"
)

const breakerName = "permission-gateway"

// gatewayEnvelope is the permission gateway's response wrapper. The
// application-level code is checked in addition to the HTTP status; only
// code 200 carries usable data.
type gatewayEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    []struct {
		PermissionCode string `json:"permissionCode"`
	} `json:"data"`
}

// GatewayLoader fetches permission sets from the permission gateway over
// HTTP, authenticating with the user's own bearer token. It holds no state
// per user; wrap it in a CachedLoader to add a TTL cache.
type GatewayLoader struct {
	url    string
	client *http.Client
	cb     *gobreaker.CircuitBreaker[Set]
}

// NewGatewayLoader creates a gateway-backed loader. The circuit breaker is
// optional per configuration; when disabled every call goes straight to
// the gateway.
func NewGatewayLoader(cfg config.PermissionConfig) *GatewayLoader {
	l := &GatewayLoader{
		url: cfg.URL,
		client: &http.Client{
			Timeout: cfg.ReadTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: cfg.ConnectTimeout,
				}).DialContext,
			},
		},
	}

	if cfg.BreakerEnabled {
		metrics.BreakerState.WithLabelValues(breakerName).Set(0)
		l.cb = gobreaker.NewCircuitBreaker[Set](gobreaker.Settings{
			Name:        breakerName,
			MaxRequests: 3,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				if counts.Requests < 5 {
					return false
				}
				return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
			},
			// A credential rejection means the gateway is healthy; it must
			// not open the circuit.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, ErrUnauthorized)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
				metrics.BreakerState.WithLabelValues(name).Set(breakerStateValue(to))
			},
		})
	}

	return l
}

// LoadPermissions fetches the user's permission codes from the gateway.
func (l *GatewayLoader) LoadPermissions(ctx context.Context, user *identity.UserContext) (Set, error) {
	if user == nil {
		return nil, identity.ErrNoAuthenticatedUser
	}

	var (
		set Set
		err error
	)
	if l.cb != nil {
		set, err = l.cb.Execute(func() (Set, error) {
			return l.fetch(ctx, user)
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("permission gateway unavailable: %w", err)
		}
	} else {
		set, err = l.fetch(ctx, user)
	}

	switch {
	case err == nil:
		metrics.PermissionLoads.WithLabelValues("success").Inc()
	case errors.Is(err, ErrUnauthorized):
		metrics.PermissionLoads.WithLabelValues("unauthorized").Inc()
	default:
		metrics.PermissionLoads.WithLabelValues("failure").Inc()
	}

	return set, err
}

// Invalidate is a no-op; the gateway loader holds no per-user state.
func (l *GatewayLoader) Invalidate(userID int64) {}

// Refresh is identical to LoadPermissions for an uncached loader.
func (l *GatewayLoader) Refresh(ctx context.Context, user *identity.UserContext) (Set, error) {
	return l.LoadPermissions(ctx, user)
}

func (l *GatewayLoader) fetch(ctx context.Context, user *identity.UserContext) (Set, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build permission request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+user.RawToken)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("permission gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: http 401", ErrUnauthorized)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("permission gateway returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read permission response: %w", err)
	}

	var envelope gatewayEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode permission response: %w", err)
	}
	if envelope.Code == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: envelope code 401", ErrUnauthorized)
	}
	if envelope.Code != http.StatusOK {
		return nil, fmt.Errorf("permission gateway envelope code %d: %s", envelope.Code, envelope.Message)
	}

	set := make(Set, len(envelope.Data))
	for _, item := range envelope.Data {
		if item.PermissionCode != "" {
			set[item.PermissionCode] = struct{}{}
		}
	}

	logging.Debug().Int64("account_id", user.AccountID).Int("permissions", len(set)).Msg("loaded permission set")
	return set, nil
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
