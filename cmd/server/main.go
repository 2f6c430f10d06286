// A1A T-Pro Authenticate & Authorize Library
// Copyright 2026 Watatek
// SPDX-License-Identifier: Apache-2.0

// Command server runs a demonstration HTTP service with the full
// authentication and authorization stack wired in: bearer-token
// verification against a remote signing key, declarative permission and
// role policies on sample endpoints, and Prometheus metrics.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/authz"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/config"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/httpx"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/identity"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/keycache"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/keysource"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/logging"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/permission"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/token"
)

func main() {
	configPath := flag.String("config", "", "path to config file (overrides default search)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		logging.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
}

func run(configPath string) error {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	logging.Info().Str("cache_backend", cfg.Cache.Backend).Bool("signature_verification", cfg.JWKS.Enabled).Msg("starting auth server")

	cache, closeCache, err := buildCache(cfg)
	if err != nil {
		return fmt.Errorf("open key cache: %w", err)
	}
	defer func() {
		if err := closeCache(); err != nil {
			logging.Error().Err(err).Msg("failed to close key cache")
		}
	}()

	var source keysource.Source
	if cfg.JWKS.Enabled {
		source = keysource.NewJWKS(cfg.JWKS, cfg.Cache.TTL, cache)
	}
	verifier := token.NewVerifier(cfg, source)

	var loader permission.Loader = permission.NewGatewayLoader(cfg.Permission)
	if cfg.Permission.CacheTTL > 0 {
		loader = permission.NewCachedLoader(loader, cfg.Permission.CacheTTL)
	}

	gate := authz.NewGate(authz.NewPermissionEngine(loader), authz.NewRoleEngine())
	router := buildRouter(cfg, verifier, gate)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildCache selects the key cache backend. The close func is a no-op for
// the in-memory backend.
func buildCache(cfg *config.Config) (keycache.Store, func() error, error) {
	switch cfg.Cache.Backend {
	case "badger":
		return keycache.OpenBadger(cfg.Cache.Path)
	default:
		return keycache.NewMemory(), func() error { return nil }, nil
	}
}

func buildRouter(cfg *config.Config, verifier *token.Verifier, gate *authz.Gate) http.Handler {
	whitelist := httpx.NewWhitelist(cfg.Security.WhitelistURLs)

	r := chi.NewRouter()
	r.Use(httpx.RequestID)
	r.Use(httpx.RequestLogger)
	r.Use(httpx.CORS(cfg.CORS))
	r.Use(httpx.RateLimit(cfg.RateLimit))
	r.Use(whitelist.Skip(httpx.Authenticator(verifier)))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.With(httpx.Require(gate, authz.RequirePermission(authz.PermFabPrdInvFabricView))).
			Get("/inventory", handleInventory)

		r.With(httpx.Require(gate, authz.RequireAnyPermission(
			authz.PermFabPrdDlvReportView,
			authz.PermFabPrdDlvReportExport,
		))).Get("/reports/daily-issue", handleDailyIssueReport)

		r.With(httpx.Require(gate, authz.RequireAnyRole(authz.RoleSuperAdmin, authz.RoleFabMgr).
			WithMessage("Fabric manager role required"))).
			Get("/admin/roles", handleRoleCatalog)

		r.Get("/me", handleMe)
	})

	return r
}

func handleInventory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"items": []any{}})
}

func handleDailyIssueReport(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"rows": []any{}})
}

func handleRoleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, authz.Roles())
}

func handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.FromContext(r.Context())
	if !ok {
		writeJSON(w, map[string]any{"authenticated": false})
		return
	}
	writeJSON(w, map[string]any{
		"authenticated": true,
		"accountId":     user.AccountID,
		"username":      user.Username,
		"fullName":      user.FullName,
		"roles":         user.Roles,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error().Err(err).Msg("failed to encode response")
	}
}
