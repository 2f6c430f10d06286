// A1A T-Pro Authenticate & Authorize Library
// Copyright 2026 Watatek
// SPDX-License-Identifier: Apache-2.0

package authz

import (
	"context"
	"errors"

	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/identity"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/logging"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/metrics"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/permission"
)

// PermissionEngine answers permission-membership questions. It performs no
// caching of its own; every check re-invokes the loader, which owns any
// caching.
type PermissionEngine struct {
	loader permission.Loader
}

// NewPermissionEngine creates an engine over the given loader.
func NewPermissionEngine(loader permission.Loader) *PermissionEngine {
	return &PermissionEngine{loader: loader}
}

// HasPermission reports whether the user holds code. False, not an error,
// when userID or code is absent.
func (e *PermissionEngine) HasPermission(ctx context.Context, userID int64, code string) (bool, error) {
	if userID == 0 || code == "" {
		return false, nil
	}
	set, err := e.load(ctx, userID)
	if err != nil {
		return false, err
	}
	return set.Has(code), nil
}

// HasAnyPermission reports whether the user holds at least one of codes.
// False when userID is absent or codes is empty.
func (e *PermissionEngine) HasAnyPermission(ctx context.Context, userID int64, codes ...string) (bool, error) {
	if userID == 0 || len(codes) == 0 {
		return false, nil
	}
	set, err := e.load(ctx, userID)
	if err != nil {
		return false, err
	}
	return set.HasAny(codes...), nil
}

// HasAllPermissions reports whether the user holds every one of codes.
// False when userID is absent or codes is empty.
func (e *PermissionEngine) HasAllPermissions(ctx context.Context, userID int64, codes ...string) (bool, error) {
	if userID == 0 || len(codes) == 0 {
		return false, nil
	}
	set, err := e.load(ctx, userID)
	if err != nil {
		return false, err
	}
	return set.HasAll(codes...), nil
}

// load resolves the ambient user and fetches their permission set. A load
// failure degrades to the empty set so a gateway outage denies rather than
// errors — except credential rejection, which must propagate so the caller
// is re-authenticated instead of silently losing all permissions.
func (e *PermissionEngine) load(ctx context.Context, userID int64) (permission.Set, error) {
	user, err := identity.MustFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if user.AccountID != userID {
		// Checking one identity while another is authenticated; deny via
		// the empty set rather than load the wrong user's permissions.
		logging.Warn().Int64("requested_user_id", userID).Int64("ambient_user_id", user.AccountID).Msg("permission check user mismatch")
		return permission.Set{}, nil
	}

	set, err := e.loader.LoadPermissions(ctx, user)
	if err != nil {
		if errors.Is(err, permission.ErrUnauthorized) || errors.Is(err, identity.ErrNoAuthenticatedUser) {
			return nil, err
		}
		metrics.PermissionLoadFailures.Inc()
		logging.Error().Err(err).Int64("account_id", userID).Msg("permission load failed, degrading to empty set")
		return permission.Set{}, nil
	}
	return set, nil
}

// RoleEngine answers role-membership questions from the verified token's
// role claims. No network or cache interaction.
type RoleEngine struct{}

// NewRoleEngine creates a role engine.
func NewRoleEngine() *RoleEngine {
	return &RoleEngine{}
}

// HasRole reports whether the ambient user holds the role code. False,
// not an error, when userID or code is absent. A userID that does not
// match the ambient user fails closed.
func (e *RoleEngine) HasRole(ctx context.Context, userID int64, code string) (bool, error) {
	user, err := e.resolve(ctx, userID)
	if err != nil || user == nil {
		return false, err
	}
	if code == "" {
		return false, nil
	}
	return user.HasRole(code), nil
}

// HasAnyRole reports whether the ambient user holds at least one of the
// role codes.
func (e *RoleEngine) HasAnyRole(ctx context.Context, userID int64, codes ...string) (bool, error) {
	user, err := e.resolve(ctx, userID)
	if err != nil || user == nil {
		return false, err
	}
	if len(codes) == 0 {
		return false, nil
	}
	return user.HasAnyRole(codes...), nil
}

// HasAllRoles reports whether the ambient user holds every one of the role
// codes.
func (e *RoleEngine) HasAllRoles(ctx context.Context, userID int64, codes ...string) (bool, error) {
	user, err := e.resolve(ctx, userID)
	if err != nil || user == nil {
		return false, err
	}
	if len(codes) == 0 {
		return false, nil
	}
	return user.HasAllRoles(codes...), nil
}

// resolve returns the ambient user when it matches userID. A missing
// ambient user is a precondition violation and fails with
// ErrNoAuthenticatedUser; a mismatched userID fails closed with a nil
// user and nil error.
func (e *RoleEngine) resolve(ctx context.Context, userID int64) (*identity.UserContext, error) {
	user, err := identity.MustFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if userID == 0 {
		return nil, nil
	}
	if user.AccountID != userID {
		logging.Warn().Int64("requested_user_id", userID).Int64("ambient_user_id", user.AccountID).Msg("role check user mismatch")
		return nil, nil
	}
	return user, nil
}
