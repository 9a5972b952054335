package auth

import (
	"context"
	"strings"
)

// Role is a role tag carried inside a token.
type Role string

const (
	RoleCustomer    Role = "CUSTOMER"
	RoleAdmin       Role = "ADMIN"
	RoleDeliveryMan Role = "DELIVERY_MAN"
)

var knownRoles = map[Role]bool{
	RoleCustomer:    true,
	RoleAdmin:       true,
	RoleDeliveryMan: true,
}

// NormalizeRole upper-cases a role string and strips a leading "ROLE_".
func NormalizeRole(role string) Role {
	r := strings.ToUpper(strings.TrimSpace(role))
	return Role(strings.TrimPrefix(r, rolePrefix))
}

// Known reports whether the normalized role is one of the system's roles.
func (r Role) Known() bool {
	return knownRoles[NormalizeRole(string(r))]
}

// Is compares two roles case-insensitively, ignoring a "ROLE_" prefix.
func (r Role) Is(other Role) bool {
	return NormalizeRole(string(r)) == NormalizeRole(string(other))
}

// Identity is the authenticated caller of a single request.
type Identity struct {
	Subject string `json:"subject"`
	Role    Role   `json:"role"`
}

type identityContextKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// FromContext returns the Identity stored by the authentication middleware.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}
