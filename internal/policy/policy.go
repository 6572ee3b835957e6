// Package policy holds the per-repository rule document: a list of named
// rule expressions decoded from the YAML file a repository carries at
// .github/tailor.yaml.
package policy

import "gopkg.in/yaml.v3"

// Rule is one user-authored rule: a named boolean expression evaluated
// against the assembled pull-request context.
type Rule struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Expression  string `yaml:"expression"`
}

// Policy is the decoded contents of a repository's tailor.yaml. A Policy
// with no rules is the zero value, used when the file is absent.
type Policy struct {
	Rules []Rule `yaml:"rules"`
}

// Decode parses raw YAML bytes into a Policy.
func Decode(raw []byte) (Policy, error) {
	var p Policy
	if len(raw) == 0 {
		return p, nil
	}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return Policy{}, err
	}
	return p, nil
}
