// A1A T-Pro Authenticate & Authorize Library
// Copyright 2026 Watatek
// SPDX-License-Identifier: Apache-2.0

package authz

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/identity"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/permission"
)

func testGate(set permission.Set) *Gate {
	return NewGate(NewPermissionEngine(&fakeLoader{set: set}), NewRoleEngine())
}

func TestGateEnforceAllow(t *testing.T) {
	gate := testGate(permission.NewSet(PermFabPrdInvFabricView, PermFabPrdInvFabricExport))
	ctx := userCtx(42, RoleFabMgr)

	policies := []Policy{
		RequirePermission(PermFabPrdInvFabricView),
		RequireAnyPermission(PermFabPrdInvFabricDelete, PermFabPrdInvFabricExport),
		RequireAllPermissions(PermFabPrdInvFabricView, PermFabPrdInvFabricExport),
		RequireRole(RoleFabMgr),
		RequireAnyRole(RoleSuperAdmin, RoleFabMgr),
		RequireAllRoles(RoleFabMgr),
	}

	for _, p := range policies {
		if err := gate.Enforce(ctx, p); err != nil {
			t.Errorf("Enforce(%s) error = %v, want allow", p.Kind(), err)
		}
	}
}

func TestGateEnforcePermissionDenied(t *testing.T) {
	gate := testGate(permission.Set{})
	ctx := userCtx(42, RoleFabMgr)

	err := gate.Enforce(ctx, RequirePermission(PermFabPrdInvFabricDelete))

	var denied *PermissionDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("Enforce() error type = %T, want *PermissionDeniedError", err)
	}
	if denied.Message != DefaultPermissionMessage {
		t.Errorf("Message = %q, want default permission message", denied.Message)
	}
	if denied.UserID != 42 || denied.Username != "jdoe" {
		t.Errorf("denial identity = %d/%q, want 42/jdoe", denied.UserID, denied.Username)
	}
	if len(denied.Codes) != 1 || denied.Codes[0] != PermFabPrdInvFabricDelete {
		t.Errorf("Codes = %v, want the offending code", denied.Codes)
	}
	if !strings.Contains(err.Error(), PermFabPrdInvFabricDelete) {
		t.Error("Error() does not name the offending code")
	}
}

func TestGateEnforceRoleDenied(t *testing.T) {
	gate := testGate(permission.Set{})
	ctx := userCtx(42, RoleFabStaff)

	err := gate.Enforce(ctx, RequireRole(RoleSuperAdmin))

	var denied *RoleDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("Enforce() error type = %T, want *RoleDeniedError", err)
	}
	if denied.Message != DefaultRoleMessage {
		t.Errorf("Message = %q, want default role message", denied.Message)
	}
}

func TestGateEnforceCustomMessage(t *testing.T) {
	gate := testGate(permission.Set{})
	ctx := userCtx(42)

	err := gate.Enforce(ctx, RequireRole(RoleSuperAdmin).WithMessage("Admins only"))

	var denied *RoleDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("Enforce() error type = %T, want *RoleDeniedError", err)
	}
	if denied.Message != "Admins only" {
		t.Errorf("Message = %q, want the custom message", denied.Message)
	}
}

func TestGateEnforceNoAmbientUser(t *testing.T) {
	gate := testGate(permission.Set{})

	err := gate.Enforce(context.Background(), RequireRole(RoleSuperAdmin))
	if !errors.Is(err, identity.ErrNoAuthenticatedUser) {
		t.Errorf("Enforce() error = %v, want ErrNoAuthenticatedUser", err)
	}
}

func TestGateEnforcePropagatesLoaderAuthFailure(t *testing.T) {
	gate := NewGate(NewPermissionEngine(&fakeLoader{err: permission.ErrUnauthorized}), NewRoleEngine())

	err := gate.Enforce(userCtx(42), RequirePermission(PermFabPrdInvFabricView))
	if !errors.Is(err, permission.ErrUnauthorized) {
		t.Errorf("Enforce() error = %v, want ErrUnauthorized propagated", err)
	}
}

func TestPolicyMessageDefaults(t *testing.T) {
	tests := []struct {
		policy Policy
		want   string
	}{
		{RequirePermission("P"), DefaultPermissionMessage},
		{RequireAnyPermission("P"), DefaultPermissionMessage},
		{RequireAllPermissions("P"), DefaultPermissionMessage},
		{RequireRole("R"), DefaultRoleMessage},
		{RequireAnyRole("R"), DefaultRoleMessage},
		{RequireAllRoles("R"), DefaultRoleMessage},
		{RequirePermission("P").WithMessage("custom"), "custom"},
	}

	for _, tt := range tests {
		if got := tt.policy.Message(); got != tt.want {
			t.Errorf("Message() for %s = %q, want %q", tt.policy.Kind(), got, tt.want)
		}
	}
}
