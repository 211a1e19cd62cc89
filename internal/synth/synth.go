// Package synth turns disjoint domains into executable work-unit agents.
package synth

import (
	"fmt"
	"math"
	"path"
	"strings"

	"github.com/AojdevStudio/cdev-sub004/internal/depgraph"
	"github.com/AojdevStudio/cdev-sub004/internal/inference"
	"github.com/AojdevStudio/cdev-sub004/pkg/models"
)

// Profile describes how agents for one domain are shaped.
type Profile struct {
	// Role is the agent's specialization label.
	Role string
	// Focus is a one-line summary of the agent's responsibility.
	Focus string
	// BaseMinutes is the unscaled duration estimate.
	BaseMinutes int
}

// defaultProfiles maps each built-in domain to its agent shape.
var defaultProfiles = map[string]Profile{
	"auth":            {Role: "auth_specialist", Focus: "authentication and session management", BaseMinutes: 45},
	"forms":           {Role: "forms_specialist", Focus: "form building and input validation", BaseMinutes: 30},
	"backend":         {Role: "backend_specialist", Focus: "API routes and server logic", BaseMinutes: 45},
	"data":            {Role: "data_specialist", Focus: "data models, schema, and storage", BaseMinutes: 40},
	"infrastructure":  {Role: "devops_specialist", Focus: "build, deployment, and CI pipeline", BaseMinutes: 35},
	"ui":              {Role: "ui_specialist", Focus: "components, pages, and styling", BaseMinutes: 35},
	"file-operations": {Role: "files_specialist", Focus: "file upload, download, and storage handling", BaseMinutes: 30},
	"search":          {Role: "search_specialist", Focus: "search, filtering, and indexing", BaseMinutes: 30},
}

// fallbackProfile shapes agents for domains outside the built-in set,
// including the inferrer's generic feature domain.
var fallbackProfile = Profile{Role: "feature_developer", Focus: "general feature implementation", BaseMinutes: 30}

// Synthesizer builds Agents from Domains.
type Synthesizer struct {
	rules      *inference.RuleSet
	precedence []depgraph.PrecedenceRule
	profiles   map[string]Profile
}

// New creates a Synthesizer using the given rule set for test contracts and
// the default domain profiles and precedence table.
func New(rules *inference.RuleSet) *Synthesizer {
	return &Synthesizer{
		rules:      rules,
		precedence: depgraph.DefaultPrecedence,
		profiles:   defaultProfiles,
	}
}

// Synthesize produces one agent per domain, in domain order, with
// dependencies resolved and durations scaled by the complexity bucket.
func (s *Synthesizer) Synthesize(domains []*models.Domain, complexity inference.Complexity) []*models.Agent {
	deps := depgraph.Resolve(domains, s.precedence)

	agents := make([]*models.Agent, 0, len(domains))
	for _, d := range domains {
		profile, ok := s.profiles[d.ID]
		if !ok {
			profile = fallbackProfile
		}

		depIDs := make([]string, 0, len(deps[d.ID]))
		for _, dom := range deps[d.ID] {
			depIDs = append(depIDs, AgentID(dom))
		}

		minutes := int(math.Round(float64(profile.BaseMinutes) * complexity.Multiplier()))

		a := &models.Agent{
			ID:                  AgentID(d.ID),
			Role:                profile.Role,
			FocusArea:           profile.Focus,
			Dependencies:        depIDs,
			FilesToCreate:       append([]string{}, d.FilesToCreate...),
			FilesToModify:       append([]string{}, d.FilesToModify...),
			TestContracts:       s.testContracts(d),
			ValidationCriteria:  validationCriteria(d),
			EstimatedMinutes:    minutes,
			CanStartImmediately: len(depIDs) == 0,
			RequirementIDs:      append([]string{}, d.RequirementIDs...),
			Status:              models.AgentStatusSynthesized,
		}
		agents = append(agents, a)
	}

	return agents
}

// AgentID derives the agent identifier for a domain.
func AgentID(domain string) string {
	return domain + "_agent"
}

// testContracts returns the domain's catalog test files, or derives one
// contract per created file when the domain has no catalog (fallback
// feature domains).
func (s *Synthesizer) testContracts(d *models.Domain) []string {
	if contracts := s.rules.TestContracts(d.ID); len(contracts) > 0 {
		return append([]string{}, contracts...)
	}

	var contracts []string
	for _, f := range d.FilesToCreate {
		contracts = append(contracts, deriveTestPath(f))
	}
	return contracts
}

// deriveTestPath places a .test file in a __tests__ sibling directory:
// src/features/x.ts -> src/features/__tests__/x.test.ts.
func deriveTestPath(file string) string {
	dir, base := path.Split(file)
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return path.Join(dir, "__tests__", stem+".test"+ext)
}

// validationCriteria builds the independently checkable completion checklist
// for a domain's agent.
func validationCriteria(d *models.Domain) []string {
	var criteria []string
	for _, f := range d.FilesToCreate {
		criteria = append(criteria, fmt.Sprintf("Created %s", f))
	}
	for _, f := range d.FilesToModify {
		criteria = append(criteria, fmt.Sprintf("Modified %s", f))
	}
	criteria = append(criteria,
		"All test contracts pass",
		"No files outside the assigned set were touched",
	)
	return criteria
}
