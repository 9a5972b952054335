package access

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"stock-service/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRules = `
rules:
  - pattern: /api/orders/*/tracking
    access: public
  - pattern: /api/products
    methods: [GET]
    access: public
  - pattern: /api/orders/**
    access: authenticated
  - pattern: /api/admin/**
    access: role
    roles: [ADMIN]
`

func TestLoadRules(t *testing.T) {
	rules, err := LoadRules([]byte(sampleRules))
	require.NoError(t, err)
	require.Len(t, rules, 4)

	assert.Equal(t, "/api/orders/*/tracking", rules[0].Pattern)
	assert.Equal(t, RequirePublic, rules[0].Requirement.Kind)
	assert.Equal(t, []string{"GET"}, rules[1].Methods)
	assert.Equal(t, AnyRole(auth.RoleAdmin), rules[3].Requirement)

	e := MustNew(rules)
	assert.True(t, e.Authorize("/api/orders/7/tracking", http.MethodGet, nil).Allowed)
	assert.False(t, e.Authorize("/api/orders/7", http.MethodGet, nil).Allowed)
	assert.Equal(t, ReasonForbidden, e.Authorize("/api/admin/users", http.MethodGet, customer).Reason)
}

func TestLoadRulesRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"unknown key":        "rules:\n  - pattern: /a\n    access: public\n    owner: bob\n",
		"unknown access":     "rules:\n  - pattern: /a\n    access: sometimes\n",
		"role without roles": "rules:\n  - pattern: /a\n    access: role\n",
		"relative pattern":   "rules:\n  - pattern: a/b\n    access: public\n",
		"not yaml":           "rules: [",
		"roles on authed":    "rules:\n  - pattern: /a\n    access: authenticated\n    roles: [ADMIN]\n",
		"unsupported method": "rules:\n  - pattern: /a\n    methods: [BREW]\n    access: public\n",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadRules([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadRulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleRules), 0o600))

	rules, err := LoadRulesFile(path)
	require.NoError(t, err)
	assert.Len(t, rules, 4)

	_, err = LoadRulesFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMarshalRulesRoundTripsOrder(t *testing.T) {
	data, err := MarshalRules(testRules())
	require.NoError(t, err)

	rules, err := LoadRules(data)
	require.NoError(t, err)
	assert.Equal(t, testRules(), rules)
}
