package access

import (
	"fmt"
	"net/http"
	"strings"

	"stock-service/internal/auth"
	"stock-service/pkg/logger"
)

type compiledRule struct {
	rule    Rule
	pattern pattern
	methods map[string]bool
	roles   map[auth.Role]bool
}

func (r compiledRule) matches(segments []string, method string) bool {
	if len(r.methods) > 0 && !r.methods[method] {
		return false
	}
	return r.pattern.match(segments)
}

// Engine evaluates requests against an ordered rule table. The first rule
// whose pattern and method set match decides; later rules are never consulted.
// An Engine is immutable after construction and safe for concurrent use.
type Engine struct {
	rules    []compiledRule
	fallback Requirement
}

// New compiles a validated rule table into an Engine.
func New(rules []Rule) (*Engine, error) {
	if err := Validate(rules); err != nil {
		return nil, err
	}

	e := &Engine{
		rules:    make([]compiledRule, 0, len(rules)),
		fallback: Authenticated(),
	}
	for _, rule := range rules {
		p, _ := compilePattern(rule.Pattern)
		cr := compiledRule{rule: cloneRule(rule), pattern: p}

		if len(rule.Methods) > 0 {
			cr.methods = make(map[string]bool, len(rule.Methods))
			for _, m := range rule.Methods {
				cr.methods[strings.ToUpper(strings.TrimSpace(m))] = true
			}
		}
		if rule.Requirement.Kind == RequireRole {
			cr.roles = make(map[auth.Role]bool, len(rule.Requirement.Roles))
			for _, role := range rule.Requirement.Roles {
				cr.roles[auth.NormalizeRole(string(role))] = true
			}
		}
		e.rules = append(e.rules, cr)
	}

	return e, nil
}

// MustNew creates an Engine and panics on an invalid table.
func MustNew(rules []Rule) *Engine {
	e, err := New(rules)
	if err != nil {
		panic(fmt.Sprintf(errMustNewPanicFmt, err))
	}
	return e
}

// Rules returns a copy of the table in evaluation order.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	for i, cr := range e.rules {
		out[i] = cloneRule(cr.rule)
	}
	return out
}

// Authorize decides whether a request may proceed. identity is nil for
// anonymous callers. OPTIONS requests are always allowed so CORS preflight
// never needs a token. Any internal fault yields DENY(UNAUTHENTICATED).
func (e *Engine) Authorize(requestPath, method string, identity *auth.Identity) (decision Decision) {
	defer func() {
		if r := recover(); r != nil {
			logger.Default().WithField("panic", r).Error(msgInternalFaultFailingClosed)
			decision = Decision{Reason: ReasonUnauthenticated, RuleIndex: RuleIndexNone}
		}
	}()

	if strings.EqualFold(method, http.MethodOptions) {
		return Decision{Allowed: true, RuleIndex: RuleIndexNone}
	}

	segments := splitPath(requestPath)
	m := strings.ToUpper(method)
	for i, cr := range e.rules {
		if cr.matches(segments, m) {
			return evaluate(cr.rule.Requirement, cr.roles, identity, i, cr.rule.Pattern)
		}
	}

	return evaluate(e.fallback, nil, identity, RuleIndexNone, "")
}

func evaluate(req Requirement, roles map[auth.Role]bool, identity *auth.Identity, index int, pattern string) Decision {
	d := Decision{RuleIndex: index, Pattern: pattern}
	authenticated := identity != nil && identity.Subject != ""

	switch req.Kind {
	case RequirePublic:
		d.Allowed = true
	case RequireAuthenticated:
		if authenticated {
			d.Allowed = true
		} else {
			d.Reason = ReasonUnauthenticated
		}
	case RequireRole:
		switch {
		case !authenticated:
			d.Reason = ReasonUnauthenticated
		case roles[auth.NormalizeRole(string(identity.Role))]:
			d.Allowed = true
		default:
			d.Reason = ReasonForbidden
		}
	default:
		d.Reason = ReasonUnauthenticated
	}

	return d
}

func cloneRule(r Rule) Rule {
	out := Rule{Pattern: r.Pattern, Requirement: Requirement{Kind: r.Requirement.Kind}}
	if r.Methods != nil {
		out.Methods = append([]string(nil), r.Methods...)
	}
	if r.Requirement.Roles != nil {
		out.Requirement.Roles = append([]auth.Role(nil), r.Requirement.Roles...)
	}
	return out
}
