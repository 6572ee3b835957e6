// Package validate runs a repository's rule policy against an assembled
// pull request, honouring admin-only exemption comments.
package validate

import (
	"context"
	"fmt"
	"strings"

	"github.com/crawford/tailor/internal/expr"
	"github.com/crawford/tailor/internal/policy"
	"github.com/crawford/tailor/internal/pr"
	"github.com/crawford/tailor/internal/reflectval"
)

const (
	disablePrefix  = "tailor disable"
	exemptAllRule  = "all"
	adminPermLevel = "admin"
)

// Driver runs a Policy's rules against a PullRequestView.
type Driver struct {
	Permissions *PermissionCache
}

// NewDriver builds a Driver over a permission cache scoped to this run.
func NewDriver(permissions *PermissionCache) *Driver {
	return &Driver{Permissions: permissions}
}

// Validate scans view's comments for admin-authored exemptions, then
// evaluates every non-exempted rule in pol against view. It returns the
// ordered list of human-readable failure messages, or an error if a rule
// expression itself failed to evaluate — at which point the whole
// validation aborts rather than reporting a partial result.
func (d *Driver) Validate(ctx context.Context, owner, repo string, view *pr.PullRequestView, pol policy.Policy) ([]string, error) {
	exemptAll, exemptRules, err := d.scanExemptions(ctx, owner, repo, view.Comments)
	if err != nil {
		return nil, err
	}

	evalCtx := reflectval.ToValue(view)

	var failures []string
	for _, rule := range pol.Rules {
		if exemptAll || exemptRules[rule.Name] {
			continue
		}
		ok, err := expr.EvalRule(rule.Expression, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rule.Name, err)
		}
		if !ok {
			failures = append(failures, fmt.Sprintf("Failed %s (%s)", rule.Name, rule.Description))
		}
	}
	return failures, nil
}

// scanExemptions finds every admin-authored "tailor disable ..." comment
// and reports which rules (or, for the "all" sentinel, every rule) are
// exempted.
func (d *Driver) scanExemptions(ctx context.Context, owner, repo string, comments []pr.Comment) (bool, map[string]bool, error) {
	exemptAll := false
	exemptRules := make(map[string]bool)

	for _, c := range comments {
		if !strings.HasPrefix(c.Body, disablePrefix) {
			continue
		}
		candidate := strings.TrimSpace(strings.TrimPrefix(c.Body, disablePrefix))
		if candidate == "" {
			continue
		}

		perm, err := d.Permissions.Get(ctx, owner, repo, c.User.Login)
		if err != nil {
			return false, nil, fmt.Errorf("resolve permission for %q: %w", c.User.Login, err)
		}
		if perm != adminPermLevel {
			continue
		}

		if candidate == exemptAllRule {
			exemptAll = true
			continue
		}
		exemptRules[candidate] = true
	}

	return exemptAll, exemptRules, nil
}
