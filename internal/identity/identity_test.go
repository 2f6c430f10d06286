// A1A T-Pro Authenticate & Authorize Library
// Copyright 2026 Watatek
// SPDX-License-Identifier: Apache-2.0

package identity

import (
	"context"
	"errors"
	"testing"
)

func TestContextRoundTrip(t *testing.T) {
	user := &UserContext{AccountID: 7, Username: "jdoe"}
	ctx := WithUser(context.Background(), user)

	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("FromContext() miss after WithUser()")
	}
	if got.AccountID != 7 || got.Username != "jdoe" {
		t.Errorf("FromContext() = %+v, want the stored user", got)
	}
}

func TestFromContextEmpty(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("FromContext() hit on empty context")
	}
}

func TestMustFromContext(t *testing.T) {
	_, err := MustFromContext(context.Background())
	if !errors.Is(err, ErrNoAuthenticatedUser) {
		t.Errorf("MustFromContext() error = %v, want ErrNoAuthenticatedUser", err)
	}

	ctx := WithUser(context.Background(), &UserContext{AccountID: 1})
	if _, err := MustFromContext(ctx); err != nil {
		t.Errorf("MustFromContext() with user error = %v", err)
	}
}

func TestHasRole(t *testing.T) {
	user := &UserContext{Roles: []string{"FAB_MGR", "FAB_QC_LEADER"}}

	tests := []struct {
		name string
		role string
		want bool
	}{
		{"present", "FAB_MGR", true},
		{"absent", "SUPER_ADMIN", false},
		{"empty code", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := user.HasRole(tt.role); got != tt.want {
				t.Errorf("HasRole(%q) = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}

func TestHasAnyRole(t *testing.T) {
	user := &UserContext{Roles: []string{"FAB_STAFF"}}

	if !user.HasAnyRole("SUPER_ADMIN", "FAB_STAFF") {
		t.Error("HasAnyRole() = false, want true on partial match")
	}
	if user.HasAnyRole("SUPER_ADMIN", "PROD_MGR") {
		t.Error("HasAnyRole() = true, want false with no match")
	}
	if user.HasAnyRole() {
		t.Error("HasAnyRole() = true, want false for empty list")
	}
}

func TestHasAllRoles(t *testing.T) {
	user := &UserContext{Roles: []string{"FAB_MGR", "FAB_LEADER"}}

	if !user.HasAllRoles("FAB_MGR", "FAB_LEADER") {
		t.Error("HasAllRoles() = false, want true when all held")
	}
	if user.HasAllRoles("FAB_MGR", "SUPER_ADMIN") {
		t.Error("HasAllRoles() = true, want false when one missing")
	}
	if user.HasAllRoles() {
		t.Error("HasAllRoles() = true, want false for empty list")
	}
}
