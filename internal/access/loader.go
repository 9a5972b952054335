package access

import (
	"bytes"
	"fmt"
	"os"

	"stock-service/internal/auth"

	"gopkg.in/yaml.v3"
)

type ruleFile struct {
	Rules []ruleEntry `yaml:"rules"`
}

type ruleEntry struct {
	Pattern string   `yaml:"pattern"`
	Methods []string `yaml:"methods,omitempty"`
	Access  string   `yaml:"access"`
	Roles   []string `yaml:"roles,omitempty"`
}

// LoadRulesFile reads an ordered rule table from a YAML file:
//
//	rules:
//	  - pattern: /api/products
//	    methods: [GET]
//	    access: public
//	  - pattern: /api/admin/**
//	    access: role
//	    roles: [ADMIN]
func LoadRulesFile(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(errReadRulesFileFmt, err)
	}
	return LoadRules(data)
}

// LoadRules decodes and validates a YAML rule table. Unknown keys are rejected.
func LoadRules(data []byte) ([]Rule, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f ruleFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf(errDecodeRulesFmt, err)
	}

	rules := make([]Rule, 0, len(f.Rules))
	for _, entry := range f.Rules {
		rules = append(rules, entry.toRule())
	}

	if err := Validate(rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (e ruleEntry) toRule() Rule {
	req := Requirement{Kind: RequirementKind(e.Access)}
	for _, r := range e.Roles {
		req.Roles = append(req.Roles, auth.Role(r))
	}
	return Rule{Pattern: e.Pattern, Methods: e.Methods, Requirement: req}
}

// MarshalRules renders a rule table in the LoadRules format.
func MarshalRules(rules []Rule) ([]byte, error) {
	f := ruleFile{Rules: make([]ruleEntry, 0, len(rules))}
	for _, r := range rules {
		entry := ruleEntry{
			Pattern: r.Pattern,
			Methods: r.Methods,
			Access:  string(r.Requirement.Kind),
		}
		for _, role := range r.Requirement.Roles {
			entry.Roles = append(entry.Roles, string(role))
		}
		f.Rules = append(f.Rules, entry)
	}
	return yaml.Marshal(f)
}
