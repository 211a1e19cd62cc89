// Package depgraph derives and orders dependencies between work-unit agents.
package depgraph

import "github.com/AojdevStudio/cdev-sub004/pkg/models"

// PrecedenceRule declares that one domain must merge after another when both
// appear in a plan. The table is declarative so new domains are additive.
type PrecedenceRule struct {
	// Domain is the dependent domain.
	Domain string
	// After is the domain that must merge first.
	After string
}

// DefaultPrecedence is the built-in domain ordering: data is foundational,
// backend and file handling build on data, and form/UI work builds on auth.
var DefaultPrecedence = []PrecedenceRule{
	{Domain: "backend", After: "data"},
	{Domain: "forms", After: "auth"},
	{Domain: "ui", After: "auth"},
	{Domain: "file-operations", After: "data"},
}

// Resolve derives the dependency relation between domains. A precedence rule
// only applies when both its domains are present in this plan.
//
// Independent of the precedence table, any two domains whose FilesToModify
// sets intersect are serialized: the later-declared one depends on the
// earlier. This safety net holds even when no domain-level rule applies.
func Resolve(domains []*models.Domain, precedence []PrecedenceRule) map[string][]string {
	present := make(map[string]bool, len(domains))
	for _, d := range domains {
		present[d.ID] = true
	}

	deps := make(map[string][]string, len(domains))
	for _, d := range domains {
		deps[d.ID] = nil
	}

	for _, rule := range precedence {
		if present[rule.Domain] && present[rule.After] {
			deps[rule.Domain] = appendDep(deps[rule.Domain], rule.After)
		}
	}

	for i := 0; i < len(domains); i++ {
		for j := i + 1; j < len(domains); j++ {
			if modifySetsIntersect(domains[i], domains[j]) {
				deps[domains[j].ID] = appendDep(deps[domains[j].ID], domains[i].ID)
			}
		}
	}

	return deps
}

func modifySetsIntersect(a, b *models.Domain) bool {
	set := make(map[string]bool, len(a.FilesToModify))
	for _, f := range a.FilesToModify {
		set[f] = true
	}
	for _, f := range b.FilesToModify {
		if set[f] {
			return true
		}
	}
	return false
}

func appendDep(deps []string, dep string) []string {
	for _, d := range deps {
		if d == dep {
			return deps
		}
	}
	return append(deps, dep)
}
