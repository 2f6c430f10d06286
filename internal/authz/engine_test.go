// A1A T-Pro Authenticate & Authorize Library
// Copyright 2026 Watatek
// SPDX-License-Identifier: Apache-2.0

package authz

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/identity"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/permission"
)

type fakeLoader struct {
	calls atomic.Int32
	set   permission.Set
	err   error
}

func (f *fakeLoader) LoadPermissions(ctx context.Context, user *identity.UserContext) (permission.Set, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.set, nil
}

func (f *fakeLoader) Invalidate(userID int64) {}

func (f *fakeLoader) Refresh(ctx context.Context, user *identity.UserContext) (permission.Set, error) {
	return f.LoadPermissions(ctx, user)
}

func userCtx(id int64, roles ...string) context.Context {
	return identity.WithUser(context.Background(), &identity.UserContext{
		AccountID: id,
		Username:  "jdoe",
		Roles:     roles,
	})
}

func TestHasPermission(t *testing.T) {
	loader := &fakeLoader{set: permission.NewSet(PermFabPrdInvFabricView)}
	engine := NewPermissionEngine(loader)
	ctx := userCtx(42)

	tests := []struct {
		name   string
		userID int64
		code   string
		want   bool
	}{
		{"held permission", 42, PermFabPrdInvFabricView, true},
		{"missing permission", 42, PermFabPrdInvFabricDelete, false},
		{"zero user id", 0, PermFabPrdInvFabricView, false},
		{"empty code", 42, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.HasPermission(ctx, tt.userID, tt.code)
			if err != nil {
				t.Fatalf("HasPermission() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("HasPermission() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasAnyAndAllPermissions(t *testing.T) {
	loader := &fakeLoader{set: permission.NewSet("A", "B")}
	engine := NewPermissionEngine(loader)
	ctx := userCtx(42)

	if got, _ := engine.HasAnyPermission(ctx, 42, "C", "B"); !got {
		t.Error("HasAnyPermission() = false, want true")
	}
	if got, _ := engine.HasAnyPermission(ctx, 42); got {
		t.Error("HasAnyPermission() with no codes = true, want false")
	}
	if got, _ := engine.HasAllPermissions(ctx, 42, "A", "B"); !got {
		t.Error("HasAllPermissions() = false, want true")
	}
	if got, _ := engine.HasAllPermissions(ctx, 42, "A", "C"); got {
		t.Error("HasAllPermissions() = true, want false")
	}
	if got, _ := engine.HasAllPermissions(ctx, 42); got {
		t.Error("HasAllPermissions() with no codes = true, want false")
	}
}

func TestPermissionEngineReloadsEveryCall(t *testing.T) {
	loader := &fakeLoader{set: permission.NewSet("A")}
	engine := NewPermissionEngine(loader)
	ctx := userCtx(42)

	for i := 0; i < 3; i++ {
		if _, err := engine.HasPermission(ctx, 42, "A"); err != nil {
			t.Fatalf("HasPermission() error = %v", err)
		}
	}
	if got := loader.calls.Load(); got != 3 {
		t.Errorf("loader calls = %d, want 3 (engine must not cache)", got)
	}
}

func TestPermissionEngineDegradesOnLoadFailure(t *testing.T) {
	loader := &fakeLoader{err: errors.New("gateway down")}
	engine := NewPermissionEngine(loader)

	got, err := engine.HasPermission(userCtx(42), 42, PermFabPrdInvFabricView)
	if err != nil {
		t.Fatalf("HasPermission() error = %v, want degraded false", err)
	}
	if got {
		t.Error("HasPermission() = true on degraded load")
	}
}

func TestPermissionEnginePropagatesUnauthorized(t *testing.T) {
	loader := &fakeLoader{err: permission.ErrUnauthorized}
	engine := NewPermissionEngine(loader)

	_, err := engine.HasPermission(userCtx(42), 42, PermFabPrdInvFabricView)
	if !errors.Is(err, permission.ErrUnauthorized) {
		t.Errorf("HasPermission() error = %v, want ErrUnauthorized propagated", err)
	}
}

func TestPermissionEngineUserMismatch(t *testing.T) {
	loader := &fakeLoader{set: permission.NewSet(PermFabPrdInvFabricView)}
	engine := NewPermissionEngine(loader)

	// Ambient user 42, check for 99: fail closed, never load for 99.
	got, err := engine.HasPermission(userCtx(42), 99, PermFabPrdInvFabricView)
	if err != nil {
		t.Fatalf("HasPermission() error = %v", err)
	}
	if got {
		t.Error("HasPermission() = true for mismatched user id")
	}
	if loader.calls.Load() != 0 {
		t.Error("loader invoked despite user mismatch")
	}
}

func TestPermissionEngineNoAmbientUser(t *testing.T) {
	engine := NewPermissionEngine(&fakeLoader{set: permission.Set{}})

	_, err := engine.HasPermission(context.Background(), 42, PermFabPrdInvFabricView)
	if !errors.Is(err, identity.ErrNoAuthenticatedUser) {
		t.Errorf("HasPermission() error = %v, want ErrNoAuthenticatedUser", err)
	}
}

func TestRoleEngine(t *testing.T) {
	engine := NewRoleEngine()
	ctx := userCtx(42, RoleFabMgr, RoleFabQCLeader)

	tests := []struct {
		name   string
		check  func() (bool, error)
		want   bool
	}{
		{"held role", func() (bool, error) { return engine.HasRole(ctx, 42, RoleFabMgr) }, true},
		{"missing role", func() (bool, error) { return engine.HasRole(ctx, 42, RoleSuperAdmin) }, false},
		{"empty code", func() (bool, error) { return engine.HasRole(ctx, 42, "") }, false},
		{"zero user id", func() (bool, error) { return engine.HasRole(ctx, 0, RoleFabMgr) }, false},
		{"mismatched user id", func() (bool, error) { return engine.HasRole(ctx, 99, RoleFabMgr) }, false},
		{"any role match", func() (bool, error) { return engine.HasAnyRole(ctx, 42, RoleSuperAdmin, RoleFabQCLeader) }, true},
		{"any role no match", func() (bool, error) { return engine.HasAnyRole(ctx, 42, RoleSuperAdmin) }, false},
		{"any role empty list", func() (bool, error) { return engine.HasAnyRole(ctx, 42) }, false},
		{"all roles held", func() (bool, error) { return engine.HasAllRoles(ctx, 42, RoleFabMgr, RoleFabQCLeader) }, true},
		{"all roles one missing", func() (bool, error) { return engine.HasAllRoles(ctx, 42, RoleFabMgr, RoleSuperAdmin) }, false},
		{"all roles empty list", func() (bool, error) { return engine.HasAllRoles(ctx, 42) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.check()
			if err != nil {
				t.Fatalf("check error = %v", err)
			}
			if got != tt.want {
				t.Errorf("check = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRoleEngineNoAmbientUser(t *testing.T) {
	engine := NewRoleEngine()

	_, err := engine.HasRole(context.Background(), 42, RoleFabMgr)
	if !errors.Is(err, identity.ErrNoAuthenticatedUser) {
		t.Errorf("HasRole() error = %v, want ErrNoAuthenticatedUser", err)
	}
}
