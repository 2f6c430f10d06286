// A1A T-Pro Authenticate & Authorize Library
// Copyright 2026 Watatek
// SPDX-License-Identifier: Apache-2.0

// Package authz holds the permission and role engines, the policy gate
// they funnel through, and the closed role/permission catalogs.
package authz

// Kind identifies a policy variant.
type Kind string

const (
	KindPermission     Kind = "permission"
	KindAnyPermission  Kind = "any_permission"
	KindAllPermissions Kind = "all_permissions"
	KindRole           Kind = "role"
	KindAnyRole        Kind = "any_role"
	KindAllRoles       Kind = "all_roles"
)

// Default denial messages, used when a policy carries no custom message.
const (
	DefaultPermissionMessage = "Access denied: Insufficient permissions"
	DefaultRoleMessage       = "Access denied: Insufficient role"
)

// Policy is a declarative protection requirement: one of six variants over
// permission or role codes, with an optional custom denial message.
// Construct with the Require* functions; the zero value is invalid.
type Policy struct {
	kind    Kind
	codes   []string
	message string
}

// RequirePermission demands the single permission code.
func RequirePermission(code string) Policy {
	return Policy{kind: KindPermission, codes: []string{code}}
}

// RequireAnyPermission demands at least one of the permission codes.
func RequireAnyPermission(codes ...string) Policy {
	return Policy{kind: KindAnyPermission, codes: codes}
}

// RequireAllPermissions demands every one of the permission codes.
func RequireAllPermissions(codes ...string) Policy {
	return Policy{kind: KindAllPermissions, codes: codes}
}

// RequireRole demands the single role code.
func RequireRole(code string) Policy {
	return Policy{kind: KindRole, codes: []string{code}}
}

// RequireAnyRole demands at least one of the role codes.
func RequireAnyRole(codes ...string) Policy {
	return Policy{kind: KindAnyRole, codes: codes}
}

// RequireAllRoles demands every one of the role codes.
func RequireAllRoles(codes ...string) Policy {
	return Policy{kind: KindAllRoles, codes: codes}
}

// WithMessage returns a copy of the policy carrying a custom denial
// message.
func (p Policy) WithMessage(msg string) Policy {
	p.message = msg
	return p
}

// Kind returns the policy's variant.
func (p Policy) Kind() Kind { return p.kind }

// Codes returns the policy's code list.
func (p Policy) Codes() []string { return p.codes }

// Message returns the denial message: the custom one if set, otherwise the
// kind-specific default.
func (p Policy) Message() string {
	if p.message != "" {
		return p.message
	}
	switch p.kind {
	case KindRole, KindAnyRole, KindAllRoles:
		return DefaultRoleMessage
	default:
		return DefaultPermissionMessage
	}
}

// isRolePolicy reports whether the policy dispatches to the role engine.
func (p Policy) isRolePolicy() bool {
	switch p.kind {
	case KindRole, KindAnyRole, KindAllRoles:
		return true
	default:
		return false
	}
}
