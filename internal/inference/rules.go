// Package inference maps requirement statements to file operations using an
// ordered, data-driven rule table. Each rule pairs keyword patterns with a
// catalog of canonical files for one domain, so new domains are added by
// editing data, not code.
package inference

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule classifies requirements into one domain and contributes that domain's
// canonical files. Keywords are matched on word boundaries against the
// lowercased requirement text.
type Rule struct {
	// Domain is the domain tag this rule assigns (e.g. "auth").
	Domain string `yaml:"domain"`
	// Keywords trigger this rule when any of them appears in the text.
	Keywords []string `yaml:"keywords"`
	// Creates lists canonical files the domain will create.
	Creates []string `yaml:"creates"`
	// Modifies lists canonical files the domain will modify.
	Modifies []string `yaml:"modifies"`
	// Tests lists the domain's test-contract filenames.
	Tests []string `yaml:"tests"`

	pattern *regexp.Regexp
}

// compile builds the keyword-matching regexp for this rule.
func (r *Rule) compile() error {
	if len(r.Keywords) == 0 {
		return fmt.Errorf("rule %q has no keywords", r.Domain)
	}
	quoted := make([]string, len(r.Keywords))
	for i, kw := range r.Keywords {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(kw))
	}
	p, err := regexp.Compile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
	if err != nil {
		return fmt.Errorf("compile keywords for rule %q: %w", r.Domain, err)
	}
	r.pattern = p
	return nil
}

// Matches reports whether the rule's keywords appear in the lowercased text.
func (r *Rule) Matches(lowered string) bool {
	return r.pattern != nil && r.pattern.MatchString(lowered)
}

// RuleSet is an ordered collection of rules. Order matters: it fixes the
// declaration order of domains, which later determines merge-order ties.
type RuleSet struct {
	rules []*Rule
}

// NewRuleSet compiles the given rules into a RuleSet.
// Returns an error if two rules claim the same domain or a path appears in
// more than one domain's catalog, since that would make every plan that
// activates both rules fail the partition invariant.
func NewRuleSet(rules []*Rule) (*RuleSet, error) {
	seenDomain := make(map[string]bool)
	pathOwner := make(map[string]string)

	for _, r := range rules {
		if seenDomain[r.Domain] {
			return nil, fmt.Errorf("duplicate rule for domain %q", r.Domain)
		}
		seenDomain[r.Domain] = true

		if err := r.compile(); err != nil {
			return nil, err
		}

		for _, p := range append(append([]string{}, r.Creates...), r.Modifies...) {
			if owner, ok := pathOwner[p]; ok && owner != r.Domain {
				return nil, fmt.Errorf("path %q in catalogs of both %q and %q", p, owner, r.Domain)
			}
			pathOwner[p] = r.Domain
		}
	}

	return &RuleSet{rules: rules}, nil
}

// Rules returns the ordered rules.
func (rs *RuleSet) Rules() []*Rule {
	return rs.rules
}

// Rule returns the rule for a domain, or nil.
func (rs *RuleSet) Rule(domain string) *Rule {
	for _, r := range rs.rules {
		if r.Domain == domain {
			return r
		}
	}
	return nil
}

// TestContracts returns the test-contract filenames for a domain.
func (rs *RuleSet) TestContracts(domain string) []string {
	if r := rs.Rule(domain); r != nil {
		return r.Tests
	}
	return nil
}

// DomainOrder returns the index of a domain in rule declaration order.
// Unknown domains (including the fallback "feature" domain) sort last.
func (rs *RuleSet) DomainOrder(domain string) int {
	for i, r := range rs.rules {
		if r.Domain == domain {
			return i
		}
	}
	return len(rs.rules)
}

// LoadRules reads a rule table from a YAML file and compiles it.
// The file is a list of Rule entries.
func LoadRules(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	var rules []*Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse rules file %s: %w", path, err)
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("rules file %s contains no rules", path)
	}

	return NewRuleSet(rules)
}

// DefaultRules returns the built-in rule table. The catalogs are pairwise
// disjoint across domains so that any combination of matched rules yields a
// valid partition.
func DefaultRules() *RuleSet {
	rs, err := NewRuleSet([]*Rule{
		{
			Domain:   "auth",
			Keywords: []string{"auth", "authentication", "login", "logout", "signin", "signup", "password", "oauth", "session", "jwt", "token"},
			Creates:  []string{"src/auth/auth-service.ts", "src/auth/auth-middleware.ts"},
			Modifies: []string{"src/app.ts"},
			Tests:    []string{"src/auth/__tests__/auth-service.test.ts"},
		},
		{
			Domain:   "forms",
			Keywords: []string{"form", "forms", "input", "field", "validation", "submit"},
			Creates:  []string{"src/components/forms/form-builder.tsx", "src/components/forms/form-validator.ts"},
			Modifies: []string{"src/styles/forms.css"},
			Tests:    []string{"src/components/forms/__tests__/form-validator.test.ts"},
		},
		{
			Domain:   "backend",
			Keywords: []string{"api", "endpoint", "endpoints", "server", "backend", "route", "routes", "controller", "rest", "graphql"},
			Creates:  []string{"src/api/routes.ts", "src/api/controllers/main-controller.ts"},
			Modifies: []string{"src/server.ts"},
			Tests:    []string{"src/api/__tests__/routes.test.ts"},
		},
		{
			Domain:   "data",
			Keywords: []string{"database", "data", "model", "schema", "migration", "storage", "persist", "sql", "query"},
			Creates:  []string{"src/models/schema.ts", "src/db/migrations/001-initial.sql"},
			Modifies: []string{"src/db/connection.ts"},
			Tests:    []string{"src/models/__tests__/schema.test.ts"},
		},
		{
			Domain:   "infrastructure",
			Keywords: []string{"docker", "deploy", "deployment", "ci", "cd", "pipeline", "kubernetes", "infrastructure", "setup", "build"},
			Creates:  []string{"Dockerfile", "docker-compose.yml", ".github/workflows/deploy.yml"},
			Modifies: []string{"scripts/deploy.sh"},
			Tests:    []string{"scripts/__tests__/deploy.test.ts"},
		},
		{
			Domain:   "ui",
			Keywords: []string{"ui", "component", "components", "page", "pages", "view", "layout", "style", "css", "dashboard", "render"},
			Creates:  []string{"src/components/layout.tsx", "src/pages/dashboard.tsx"},
			Modifies: []string{"src/styles/main.css"},
			Tests:    []string{"src/components/__tests__/layout.test.tsx"},
		},
		{
			Domain:   "file-operations",
			Keywords: []string{"file", "files", "upload", "download", "export", "import", "csv", "attachment"},
			Creates:  []string{"src/files/file-service.ts", "src/files/upload-handler.ts"},
			Modifies: []string{"src/config/storage.ts"},
			Tests:    []string{"src/files/__tests__/file-service.test.ts"},
		},
		{
			Domain:   "search",
			Keywords: []string{"search", "filter", "filtering", "index", "indexing", "autocomplete"},
			Creates:  []string{"src/search/search-service.ts", "src/search/indexer.ts"},
			Modifies: []string{"src/config/search.ts"},
			Tests:    []string{"src/search/__tests__/search-service.test.ts"},
		},
	})
	if err != nil {
		// The built-in table is validated by tests; a failure here is a
		// programming error, not a runtime condition.
		panic(err)
	}
	return rs
}
