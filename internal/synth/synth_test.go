package synth

import (
	"testing"

	"github.com/AojdevStudio/cdev-sub004/internal/inference"
	"github.com/AojdevStudio/cdev-sub004/pkg/models"
)

func TestSynthesizeOneAgentPerDomain(t *testing.T) {
	s := New(inference.DefaultRules())
	domains := []*models.Domain{
		{ID: "auth", FilesToCreate: []string{"src/auth/auth-service.ts"}, RequirementIDs: []string{"req-1"}},
		{ID: "data", FilesToCreate: []string{"src/models/schema.ts"}, RequirementIDs: []string{"req-2"}},
	}

	agents := s.Synthesize(domains, inference.ComplexityMedium)
	if len(agents) != 2 {
		t.Fatalf("expected 2 agents, got %d", len(agents))
	}
	if agents[0].ID != "auth_agent" || agents[1].ID != "data_agent" {
		t.Errorf("unexpected agent IDs: %s, %s", agents[0].ID, agents[1].ID)
	}
	if agents[0].Role != "auth_specialist" {
		t.Errorf("unexpected role: %s", agents[0].Role)
	}
	if agents[0].Status != models.AgentStatusSynthesized {
		t.Errorf("expected synthesized status, got %s", agents[0].Status)
	}
}

func TestSynthesizeDependenciesAndStartFlag(t *testing.T) {
	s := New(inference.DefaultRules())
	domains := []*models.Domain{
		{ID: "data"},
		{ID: "backend"},
		{ID: "infrastructure"},
	}

	agents := s.Synthesize(domains, inference.ComplexityMedium)

	byID := make(map[string]*models.Agent)
	for _, a := range agents {
		byID[a.ID] = a
	}

	backend := byID["backend_agent"]
	if len(backend.Dependencies) != 1 || backend.Dependencies[0] != "data_agent" {
		t.Errorf("expected backend_agent -> data_agent, got %v", backend.Dependencies)
	}
	if backend.CanStartImmediately {
		t.Error("backend_agent should not start immediately")
	}

	infra := byID["infrastructure_agent"]
	if len(infra.Dependencies) != 0 {
		t.Errorf("infrastructure_agent should have no dependencies, got %v", infra.Dependencies)
	}
	if !infra.CanStartImmediately {
		t.Error("infrastructure_agent should start immediately")
	}
}

func TestSynthesizeComplexityScalesDuration(t *testing.T) {
	s := New(inference.DefaultRules())
	domains := []*models.Domain{{ID: "auth"}}

	low := s.Synthesize(domains, inference.ComplexityLow)[0].EstimatedMinutes
	med := s.Synthesize(domains, inference.ComplexityMedium)[0].EstimatedMinutes
	high := s.Synthesize(domains, inference.ComplexityHigh)[0].EstimatedMinutes

	if med != 45 {
		t.Errorf("expected base 45 minutes for auth at medium, got %d", med)
	}
	if low != 32 { // round(45 * 0.7)
		t.Errorf("expected 32 minutes at low, got %d", low)
	}
	if high != 68 { // round(45 * 1.5)
		t.Errorf("expected 68 minutes at high, got %d", high)
	}
}

func TestSynthesizeTestContractsFromCatalog(t *testing.T) {
	s := New(inference.DefaultRules())
	domains := []*models.Domain{{ID: "auth"}}

	agents := s.Synthesize(domains, inference.ComplexityMedium)
	contracts := agents[0].TestContracts
	if len(contracts) != 1 || contracts[0] != "src/auth/__tests__/auth-service.test.ts" {
		t.Errorf("unexpected test contracts: %v", contracts)
	}
}

func TestSynthesizeFallbackDomain(t *testing.T) {
	s := New(inference.DefaultRules())
	domains := []*models.Domain{
		{ID: "feature", FilesToCreate: []string{"src/features/improve-copy.ts"}},
	}

	agents := s.Synthesize(domains, inference.ComplexityMedium)
	a := agents[0]
	if a.Role != "feature_developer" {
		t.Errorf("expected fallback role, got %s", a.Role)
	}
	if len(a.TestContracts) != 1 || a.TestContracts[0] != "src/features/__tests__/improve-copy.test.ts" {
		t.Errorf("unexpected derived test contract: %v", a.TestContracts)
	}
}

func TestSynthesizeValidationCriteria(t *testing.T) {
	s := New(inference.DefaultRules())
	domains := []*models.Domain{
		{
			ID:            "data",
			FilesToCreate: []string{"src/models/schema.ts"},
			FilesToModify: []string{"src/db/connection.ts"},
		},
	}

	criteria := s.Synthesize(domains, inference.ComplexityMedium)[0].ValidationCriteria
	if len(criteria) != 4 {
		t.Fatalf("expected 4 criteria, got %d: %v", len(criteria), criteria)
	}
	if criteria[0] != "Created src/models/schema.ts" {
		t.Errorf("unexpected first criterion: %s", criteria[0])
	}
	if criteria[1] != "Modified src/db/connection.ts" {
		t.Errorf("unexpected second criterion: %s", criteria[1])
	}
}

func TestSynthesizeEmptyDomains(t *testing.T) {
	s := New(inference.DefaultRules())
	agents := s.Synthesize(nil, inference.ComplexityMedium)
	if len(agents) != 0 {
		t.Errorf("expected no agents, got %d", len(agents))
	}
}
