// A1A T-Pro Authenticate & Authorize Library
// Copyright 2026 Watatek
// SPDX-License-Identifier: Apache-2.0

package authz

import (
	"context"
	"fmt"
	"strings"

	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/identity"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/logging"
	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/metrics"
)

// PermissionDeniedError reports a permission-policy denial.
type PermissionDeniedError struct {
	Kind     Kind
	Codes    []string
	UserID   int64
	Username string
	Message  string
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("%s: user %d (%s) lacks permission(s) %s", e.Message, e.UserID, e.Username, strings.Join(e.Codes, ", "))
}

// RoleDeniedError reports a role-policy denial.
type RoleDeniedError struct {
	Kind     Kind
	Codes    []string
	UserID   int64
	Username string
	Message  string
}

func (e *RoleDeniedError) Error() string {
	return fmt.Sprintf("%s: user %d (%s) lacks role(s) %s", e.Message, e.UserID, e.Username, strings.Join(e.Codes, ", "))
}

// Gate is the single enforcement point all declarative protections funnel
// through. It dispatches a Policy to the appropriate engine and converts
// denial into a typed error, before the protected operation's body runs.
type Gate struct {
	permissions *PermissionEngine
	roles       *RoleEngine
}

// NewGate creates a gate over the two engines.
func NewGate(permissions *PermissionEngine, roles *RoleEngine) *Gate {
	return &Gate{permissions: permissions, roles: roles}
}

// Enforce evaluates the policy against the ambient authenticated user.
// Nil on allow; *PermissionDeniedError or *RoleDeniedError on denial;
// identity.ErrNoAuthenticatedUser (or a loader error) when evaluation was
// not possible.
func (g *Gate) Enforce(ctx context.Context, policy Policy) error {
	user, err := identity.MustFromContext(ctx)
	if err != nil {
		metrics.PolicyDecisions.WithLabelValues(string(policy.kind), "error").Inc()
		return err
	}

	allowed, err := g.evaluate(ctx, policy, user.AccountID)
	if err != nil {
		metrics.PolicyDecisions.WithLabelValues(string(policy.kind), "error").Inc()
		return err
	}
	if allowed {
		metrics.PolicyDecisions.WithLabelValues(string(policy.kind), "allow").Inc()
		return nil
	}

	metrics.PolicyDecisions.WithLabelValues(string(policy.kind), "deny").Inc()
	logging.Warn().
		Str("policy", string(policy.kind)).
		Strs("codes", policy.codes).
		Int64("account_id", user.AccountID).
		Str("username", user.Username).
		Msg("access denied")

	if policy.isRolePolicy() {
		return &RoleDeniedError{
			Kind:     policy.kind,
			Codes:    policy.codes,
			UserID:   user.AccountID,
			Username: user.Username,
			Message:  policy.Message(),
		}
	}
	return &PermissionDeniedError{
		Kind:     policy.kind,
		Codes:    policy.codes,
		UserID:   user.AccountID,
		Username: user.Username,
		Message:  policy.Message(),
	}
}

func (g *Gate) evaluate(ctx context.Context, policy Policy, userID int64) (bool, error) {
	switch policy.kind {
	case KindPermission:
		if len(policy.codes) != 1 {
			return false, nil
		}
		return g.permissions.HasPermission(ctx, userID, policy.codes[0])
	case KindAnyPermission:
		return g.permissions.HasAnyPermission(ctx, userID, policy.codes...)
	case KindAllPermissions:
		return g.permissions.HasAllPermissions(ctx, userID, policy.codes...)
	case KindRole:
		if len(policy.codes) != 1 {
			return false, nil
		}
		return g.roles.HasRole(ctx, userID, policy.codes[0])
	case KindAnyRole:
		return g.roles.HasAnyRole(ctx, userID, policy.codes...)
	case KindAllRoles:
		return g.roles.HasAllRoles(ctx, userID, policy.codes...)
	default:
		return false, fmt.Errorf("unknown policy kind %q", policy.kind)
	}
}
