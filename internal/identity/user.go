// A1A T-Pro Authenticate & Authorize Library
// Copyright 2026 Watatek
// SPDX-License-Identifier: Apache-2.0

// Package identity holds the authenticated-user model and the per-request
// ambient slot it travels in.
package identity

// UserContext is the authenticated user derived from a verified bearer
// token. It is constructed once per request by the token verifier and is
// immutable thereafter; treat every field as read-only.
type UserContext struct {
	// AccountID is the account identifier from the auth system. Never zero
	// once constructed.
	AccountID int64

	// Username is the login name.
	Username string

	// FullName is the user's display name.
	FullName string

	// EmployeeCode is the short employee code. Empty when absent.
	EmployeeCode string

	// EmployeeFullCode is the full employee code. Empty when absent.
	EmployeeFullCode string

	// FirstLogin reports whether this is the user's first login.
	FirstLogin bool

	// RawToken is the original bearer token, retained for propagation to
	// downstream services.
	RawToken string

	// Roles are the role codes from the token's group claims, in token
	// order. Never nil; empty when the token carries no groups.
	Roles []string
}

// HasRole reports whether the user has the given role code.
func (u *UserContext) HasRole(role string) bool {
	if role == "" {
		return false
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the user has at least one of the given roles.
func (u *UserContext) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if u.HasRole(role) {
			return true
		}
	}
	return false
}

// HasAllRoles reports whether the user has every one of the given roles.
// False for an empty list, matching the permission-engine guards.
func (u *UserContext) HasAllRoles(roles ...string) bool {
	if len(roles) == 0 {
		return false
	}
	for _, role := range roles {
		if !u.HasRole(role) {
			return false
		}
	}
	return true
}
