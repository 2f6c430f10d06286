// A1A T-Pro Authenticate & Authorize Library
// Copyright 2026 Watatek
// SPDX-License-Identifier: Apache-2.0

package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"

	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/authz"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/config"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/identity"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/keysource"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/permission"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/token"
)

var testSecret = []byte("httpx-test-secret")

func newTestVerifier(t *testing.T) *token.Verifier {
	t.Helper()
	cfg := &config.Config{
		JWKS:       config.JWKSConfig{Enabled: true, Algorithm: "HS256"},
		Validation: config.ValidationConfig{ValidateExpiration: true, ClockSkew: 30 * time.Second},
	}
	source, err := keysource.NewStatic("HS256", testSecret)
	if err != nil {
		t.Fatalf("NewStatic() error = %v", err)
	}
	return token.NewVerifier(cfg, source)
}

func signTestToken(t *testing.T, accountID int64, roles []string, exp time.Time) string {
	t.Helper()

	groups := make([]any, 0, len(roles))
	for _, r := range roles {
		groups = append(groups, map[string]any{"groupCode": r})
	}
	claims := jwt.MapClaims{
		"exp": exp.Unix(),
		"account": map[string]any{
			"id":       accountID,
			"username": "jdoe",
			"groups":   groups,
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	return raw
}

// newTestRouter wires the middleware stack the way an embedding service
// would: user 42 holds the fabric-view permission and the FAB_MGR role.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	verifier := newTestVerifier(t)
	loader := permission.NewStaticLoader(map[int64][]string{
		42: {authz.PermFabPrdInvFabricView},
	})
	gate := authz.NewGate(authz.NewPermissionEngine(loader), authz.NewRoleEngine())
	whitelist := NewWhitelist([]string{"/healthz"})

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(whitelist.Skip(Authenticator(verifier)))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.With(Require(gate, authz.RequirePermission(authz.PermFabPrdInvFabricView))).
		Get("/inventory", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	r.With(Require(gate, authz.RequirePermission(authz.PermFabPrdInvFabricDelete))).
		Delete("/inventory", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	r.With(Require(gate, authz.RequireRole(authz.RoleSuperAdmin).WithMessage("Admins only"))).
		Get("/admin", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := identity.FromContext(r.Context()); ok {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}

func doRequest(t *testing.T, handler http.Handler, method, path, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeAPIError(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var body APIError
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (body %q)", err, rec.Body.String())
	}
	return body
}

func TestAuthenticatorValidToken(t *testing.T) {
	router := newTestRouter(t)
	raw := signTestToken(t, 42, []string{authz.RoleFabMgr}, time.Now().Add(time.Hour))

	rec := doRequest(t, router, http.MethodGet, "/me", raw)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAuthenticatorNoTokenPassesThrough(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/me", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204 (unauthenticated pass-through)", rec.Code)
	}
}

func TestAuthenticatorExpiredToken(t *testing.T) {
	router := newTestRouter(t)
	raw := signTestToken(t, 42, nil, time.Now().Add(-time.Hour))

	rec := doRequest(t, router, http.MethodGet, "/me", raw)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	body := decodeAPIError(t, rec)
	if body.ErrorCode != CodeTokenExpired {
		t.Errorf("errorCode = %d, want %d", body.ErrorCode, CodeTokenExpired)
	}
	if body.Message != "Token expired" {
		t.Errorf("message = %q, want Token expired", body.Message)
	}
	if body.Status != "UNAUTHORIZED" {
		t.Errorf("status field = %q, want UNAUTHORIZED", body.Status)
	}
}

func TestAuthenticatorInvalidToken(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/me", "garbage.token.value")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	body := decodeAPIError(t, rec)
	if body.ErrorCode != CodeTokenInvalid {
		t.Errorf("errorCode = %d, want %d", body.ErrorCode, CodeTokenInvalid)
	}
	if body.Message != "Invalid token" {
		t.Errorf("message = %q, want Invalid token", body.Message)
	}
}

func TestRequireUnauthenticated(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/inventory", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	body := decodeAPIError(t, rec)
	if body.ErrorCode != CodeAuthenticationFailed {
		t.Errorf("errorCode = %d, want %d", body.ErrorCode, CodeAuthenticationFailed)
	}
}

func TestRequirePermissionAllowed(t *testing.T) {
	router := newTestRouter(t)
	raw := signTestToken(t, 42, []string{authz.RoleFabMgr}, time.Now().Add(time.Hour))

	rec := doRequest(t, router, http.MethodGet, "/inventory", raw)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRequirePermissionDenied(t *testing.T) {
	router := newTestRouter(t)
	raw := signTestToken(t, 42, []string{authz.RoleFabMgr}, time.Now().Add(time.Hour))

	rec := doRequest(t, router, http.MethodDelete, "/inventory", raw)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	body := decodeAPIError(t, rec)
	if body.ErrorCode != CodePermissionRequired {
		t.Errorf("errorCode = %d, want %d", body.ErrorCode, CodePermissionRequired)
	}
	if body.Message != authz.DefaultPermissionMessage {
		t.Errorf("message = %q, want default permission message", body.Message)
	}
}

func TestRequireRoleDeniedWithCustomMessage(t *testing.T) {
	router := newTestRouter(t)
	raw := signTestToken(t, 42, []string{authz.RoleFabMgr}, time.Now().Add(time.Hour))

	rec := doRequest(t, router, http.MethodGet, "/admin", raw)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	body := decodeAPIError(t, rec)
	if body.ErrorCode != CodeRoleRequired {
		t.Errorf("errorCode = %d, want %d", body.ErrorCode, CodeRoleRequired)
	}
	if body.Message != "Admins only" {
		t.Errorf("message = %q, want the policy's custom message", body.Message)
	}
}

func TestWhitelistBypassesAuthentication(t *testing.T) {
	router := newTestRouter(t)

	// A bad token on a whitelisted path must not produce a 401.
	rec := doRequest(t, router, http.MethodGet, "/healthz", "garbage")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 on whitelisted path", rec.Code)
	}
}

func TestRequestIDEcho(t *testing.T) {
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "req-123" {
		t.Errorf("X-Request-ID = %q, want the caller's id echoed", got)
	}

	// Without a caller-supplied id one is generated.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID not set when absent from the request")
	}
}

func TestWhitelistMatch(t *testing.T) {
	w := NewWhitelist([]string{"/healthz", "/public/", ""})

	tests := []struct {
		path string
		want bool
	}{
		{"/healthz", true},
		{"/public/docs", true},
		{"/api/v1/inventory", false},
		{"/", false},
	}

	for _, tt := range tests {
		if got := w.Match(tt.path); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		wantOK bool
	}{
		{"bearer token", "Bearer abc.def.ghi", "abc.def.ghi", true},
		{"lowercase scheme", "bearer abc", "abc", true},
		{"basic auth", "Basic dXNlcjpwYXNz", "", false},
		{"no header", "", "", false},
		{"scheme only", "Bearer ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			got, ok := extractBearer(req)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("extractBearer() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
