package access

import (
	"fmt"
	"net/http"
	"strings"

	"stock-service/internal/auth"
)

// RequirementKind is what a matching rule demands of the caller.
type RequirementKind string

const (
	RequirePublic        RequirementKind = "public"
	RequireAuthenticated RequirementKind = "authenticated"
	RequireRole          RequirementKind = "role"
)

// Requirement is a rule's access condition. Roles is only used by RequireRole.
type Requirement struct {
	Kind  RequirementKind
	Roles []auth.Role
}

// Public lets anyone through, with or without an identity.
func Public() Requirement {
	return Requirement{Kind: RequirePublic}
}

// Authenticated lets any identity through.
func Authenticated() Requirement {
	return Requirement{Kind: RequireAuthenticated}
}

// AnyRole lets an identity through when its role is one of roles.
func AnyRole(roles ...auth.Role) Requirement {
	return Requirement{Kind: RequireRole, Roles: roles}
}

func (r Requirement) String() string {
	if r.Kind != RequireRole {
		return string(r.Kind)
	}
	names := make([]string, len(r.Roles))
	for i, role := range r.Roles {
		names[i] = string(role)
	}
	return fmt.Sprintf("%s(%s)", r.Kind, strings.Join(names, "|"))
}

// Rule is one row of the ordered rule table. An empty Methods slice matches any method.
type Rule struct {
	Pattern     string
	Methods     []string
	Requirement Requirement
}

func (r Rule) String() string {
	methods := "ANY"
	if len(r.Methods) > 0 {
		methods = strings.Join(r.Methods, ",")
	}
	return fmt.Sprintf("%s %s -> %s", methods, r.Pattern, r.Requirement)
}

// Reason explains a DENY.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonUnauthenticated Reason = "UNAUTHENTICATED"
	ReasonForbidden       Reason = "FORBIDDEN"
)

// RuleIndexNone marks decisions that no table rule produced
// (CORS preflight, the default requirement, or an internal fault).
const RuleIndexNone = -1

// Decision is the outcome of one authorization.
type Decision struct {
	Allowed   bool
	Reason    Reason
	RuleIndex int
	Pattern   string
}

// Err maps a DENY to ErrUnauthenticated or ErrForbidden; nil for ALLOW.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	if d.Reason == ReasonForbidden {
		return ErrForbidden
	}
	return ErrUnauthenticated
}

// StatusCode is the HTTP status a DENY maps to; 200 for ALLOW.
func (d Decision) StatusCode() int {
	switch {
	case d.Allowed:
		return http.StatusOK
	case d.Reason == ReasonForbidden:
		return http.StatusForbidden
	default:
		return http.StatusUnauthorized
	}
}
