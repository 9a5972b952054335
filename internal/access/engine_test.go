package access

import (
	"errors"
	"net/http"
	"testing"

	"stock-service/internal/auth"
	apperrors "stock-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	customer = &auth.Identity{Subject: "carol", Role: auth.RoleCustomer}
	admin    = &auth.Identity{Subject: "root", Role: auth.RoleAdmin}
	courier  = &auth.Identity{Subject: "dora", Role: auth.RoleDeliveryMan}
)

func testRules() []Rule {
	return []Rule{
		{Pattern: "/api/products", Methods: []string{http.MethodGet}, Requirement: Public()},
		{Pattern: "/api/products/**", Requirement: AnyRole(auth.RoleAdmin)},
		{Pattern: "/api/cart/**", Requirement: Authenticated()},
		{Pattern: "/api/delivery/**", Requirement: AnyRole(auth.RoleDeliveryMan, auth.RoleAdmin)},
	}
}

// ============================================================================
// Construction Tests
// ============================================================================

func TestNewRejectsInvalidRules(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
	}{
		{"bad pattern", Rule{Pattern: "api", Requirement: Public()}},
		{"unknown method", Rule{Pattern: "/a", Methods: []string{"FETCH"}, Requirement: Public()}},
		{"unknown requirement", Rule{Pattern: "/a", Requirement: Requirement{Kind: "maybe"}}},
		{"role without roles", Rule{Pattern: "/a", Requirement: AnyRole()}},
		{"empty role", Rule{Pattern: "/a", Requirement: AnyRole(" ")}},
		{"roles on public", Rule{Pattern: "/a", Requirement: Requirement{Kind: RequirePublic, Roles: []auth.Role{auth.RoleAdmin}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New([]Rule{{Pattern: "/ok", Requirement: Public()}, tt.rule})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRule))
			assert.Contains(t, err.Error(), "rule 1")
		})
	}
}

func TestMustNewPanicsOnInvalidRules(t *testing.T) {
	assert.Panics(t, func() {
		MustNew([]Rule{{Pattern: "", Requirement: Public()}})
	})
	assert.NotPanics(t, func() {
		MustNew(nil)
	})
}

func TestRulesReturnsCopy(t *testing.T) {
	e := MustNew(testRules())

	rules := e.Rules()
	rules[0].Methods[0] = http.MethodDelete
	rules[1].Requirement.Roles[0] = auth.RoleCustomer

	d := e.Authorize("/api/products", http.MethodGet, nil)
	assert.True(t, d.Allowed)
	d = e.Authorize("/api/products/1", http.MethodPut, admin)
	assert.True(t, d.Allowed)
}

// ============================================================================
// Decision Tests
// ============================================================================

func TestOptionsAlwaysAllowed(t *testing.T) {
	e := MustNew(testRules())

	for _, path := range []string{"/api/products/1", "/api/cart/items", "/nowhere", "/"} {
		for _, id := range []*auth.Identity{nil, customer, admin} {
			d := e.Authorize(path, http.MethodOptions, id)
			assert.True(t, d.Allowed, path)
			assert.Equal(t, RuleIndexNone, d.RuleIndex)
		}
	}

	d := e.Authorize("/api/cart/items", "options", nil)
	assert.True(t, d.Allowed)
}

func TestPublicIgnoresIdentity(t *testing.T) {
	e := MustNew(testRules())

	for _, id := range []*auth.Identity{nil, customer, {Subject: "x", Role: "GARBAGE"}} {
		d := e.Authorize("/api/products", http.MethodGet, id)
		assert.True(t, d.Allowed)
		assert.Equal(t, 0, d.RuleIndex)
		assert.Equal(t, "/api/products", d.Pattern)
	}
}

func TestMethodSetIsCaseInsensitive(t *testing.T) {
	e := MustNew([]Rule{{Pattern: "/a", Methods: []string{"get"}, Requirement: Public()}})

	assert.True(t, e.Authorize("/a", "GET", nil).Allowed)
	assert.True(t, e.Authorize("/a", "Get", nil).Allowed)

	d := e.Authorize("/a", http.MethodPost, nil)
	assert.False(t, d.Allowed)
	assert.Equal(t, RuleIndexNone, d.RuleIndex, "POST falls through to the default")
}

func TestAuthenticatedRequirement(t *testing.T) {
	e := MustNew(testRules())

	d := e.Authorize("/api/cart/items", http.MethodPost, nil)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonUnauthenticated, d.Reason)
	assert.Equal(t, http.StatusUnauthorized, d.StatusCode())

	d = e.Authorize("/api/cart/items", http.MethodPost, customer)
	assert.True(t, d.Allowed)

	d = e.Authorize("/api/cart/items", http.MethodPost, &auth.Identity{Role: auth.RoleAdmin})
	assert.False(t, d.Allowed, "an identity without a subject is anonymous")
}

func TestRoleRequirement(t *testing.T) {
	e := MustNew(testRules())

	tests := []struct {
		name     string
		identity *auth.Identity
		allowed  bool
		reason   Reason
	}{
		{"anonymous", nil, false, ReasonUnauthenticated},
		{"customer", customer, false, ReasonForbidden},
		{"courier", courier, true, ReasonNone},
		{"admin", admin, true, ReasonNone},
		{"lower-case admin", &auth.Identity{Subject: "a", Role: "admin"}, true, ReasonNone},
		{"prefixed admin", &auth.Identity{Subject: "a", Role: "ROLE_ADMIN"}, true, ReasonNone},
		{"unknown role", &auth.Identity{Subject: "a", Role: "SUPERUSER"}, false, ReasonForbidden},
		{"empty role", &auth.Identity{Subject: "a"}, false, ReasonForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := e.Authorize("/api/delivery/assignments", http.MethodGet, tt.identity)
			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Equal(t, tt.reason, d.Reason)
			assert.Equal(t, 3, d.RuleIndex)
		})
	}
}

func TestDefaultRequiresAuthentication(t *testing.T) {
	e := MustNew(testRules())

	d := e.Authorize("/api/reports/sales", http.MethodGet, nil)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonUnauthenticated, d.Reason)
	assert.Equal(t, RuleIndexNone, d.RuleIndex)

	for _, id := range []*auth.Identity{customer, admin, courier, {Subject: "x", Role: "UNKNOWN"}} {
		assert.True(t, e.Authorize("/api/reports/sales", http.MethodGet, id).Allowed)
	}
}

func TestEmptyTableDefaultsToAuthenticated(t *testing.T) {
	e := MustNew(nil)

	assert.False(t, e.Authorize("/", http.MethodGet, nil).Allowed)
	assert.True(t, e.Authorize("/", http.MethodGet, customer).Allowed)
}

func TestFirstMatchWinsAndShadows(t *testing.T) {
	umbrella := Rule{Pattern: "/api/orders/**", Requirement: Authenticated()}
	tracking := Rule{Pattern: "/api/orders/*/tracking", Requirement: Public()}

	shadowed := MustNew([]Rule{umbrella, tracking})
	d := shadowed.Authorize("/api/orders/123/tracking", http.MethodGet, nil)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonUnauthenticated, d.Reason)
	assert.Equal(t, 0, d.RuleIndex)
	assert.Equal(t, "/api/orders/**", d.Pattern)

	ordered := MustNew([]Rule{tracking, umbrella})
	d = ordered.Authorize("/api/orders/123/tracking", http.MethodGet, nil)
	assert.True(t, d.Allowed)
	assert.Equal(t, 0, d.RuleIndex)
	assert.Equal(t, "/api/orders/*/tracking", d.Pattern)

	d = ordered.Authorize("/api/orders/123", http.MethodGet, nil)
	assert.False(t, d.Allowed)
	assert.Equal(t, 1, d.RuleIndex)
}

func TestFaultFailsClosed(t *testing.T) {
	var e *Engine

	d := e.Authorize("/api/products", http.MethodGet, admin)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonUnauthenticated, d.Reason)
	assert.Equal(t, RuleIndexNone, d.RuleIndex)
}

func TestUnvalidatedRequirementDenies(t *testing.T) {
	e := &Engine{
		rules: []compiledRule{{
			rule:    Rule{Pattern: "/x", Requirement: Requirement{Kind: "bogus"}},
			pattern: pattern{raw: "/x", segments: []string{"x"}},
		}},
		fallback: Authenticated(),
	}

	d := e.Authorize("/x", http.MethodGet, admin)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonUnauthenticated, d.Reason)
}

func TestDecisionErr(t *testing.T) {
	assert.NoError(t, Decision{Allowed: true}.Err())

	err := Decision{Reason: ReasonUnauthenticated}.Err()
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	err = Decision{Reason: ReasonForbidden}.Err()
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Equal(t, http.StatusForbidden, Decision{Reason: ReasonForbidden}.StatusCode())
	assert.Equal(t, http.StatusOK, Decision{Allowed: true}.StatusCode())
}

func TestRuleString(t *testing.T) {
	assert.Equal(t, "ANY /api/delivery/** -> role(DELIVERY_MAN|ADMIN)", testRules()[3].String())
	assert.Equal(t, "GET /api/products -> public", testRules()[0].String())
}
