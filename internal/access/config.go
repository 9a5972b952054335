package access

import (
	"fmt"
	"net/http"
	"strings"
)

var knownMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodOptions: true,
	http.MethodConnect: true,
	http.MethodTrace:   true,
}

// Validate checks every rule of an ordered table. An empty table is valid:
// every non-preflight request then falls through to the default requirement.
func Validate(rules []Rule) error {
	for i, rule := range rules {
		if err := validateRule(rule); err != nil {
			return fmt.Errorf(errRuleFmt, ErrInvalidRule, i, rule.Pattern, err.Error())
		}
	}
	return nil
}

func validateRule(rule Rule) error {
	if _, err := compilePattern(rule.Pattern); err != nil {
		return err
	}

	for _, m := range rule.Methods {
		if !knownMethods[strings.ToUpper(strings.TrimSpace(m))] {
			return fmt.Errorf(errUnknownMethodFmt, m)
		}
	}

	req := rule.Requirement
	switch req.Kind {
	case RequirePublic, RequireAuthenticated:
		if len(req.Roles) > 0 {
			return fmt.Errorf(errRolesOnNonRoleRequirement)
		}
	case RequireRole:
		if len(req.Roles) == 0 {
			return fmt.Errorf(errRoleRequirementNoRoles)
		}
		for _, role := range req.Roles {
			if strings.TrimSpace(string(role)) == "" {
				return fmt.Errorf(errRoleRequirementEmptyRole)
			}
		}
	default:
		return fmt.Errorf(errUnknownRequirementFmt, req.Kind)
	}

	return nil
}
