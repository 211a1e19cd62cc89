package plan

import (
	"errors"
	"testing"

	"github.com/AojdevStudio/cdev-sub004/internal/depgraph"
	"github.com/AojdevStudio/cdev-sub004/pkg/models"
)

func agent(id string, minutes int, deps ...string) *models.Agent {
	return &models.Agent{ID: id, EstimatedMinutes: minutes, Dependencies: deps}
}

func TestGenerateMergeOrderSoundness(t *testing.T) {
	agents := []*models.Agent{
		agent("data_agent", 40),
		agent("backend_agent", 45, "data_agent"),
		agent("infrastructure_agent", 35),
	}

	p, err := Generate("PROJ-1", "Build the thing", "rule-based", agents)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pos := make(map[string]int)
	for i, id := range p.Integration.MergeOrder {
		pos[id] = i
	}
	if pos["data_agent"] >= pos["backend_agent"] {
		t.Errorf("data_agent must precede backend_agent in merge order: %v", p.Integration.MergeOrder)
	}
	if len(p.Integration.MergeOrder) != 3 {
		t.Errorf("merge order must cover all agents, got %v", p.Integration.MergeOrder)
	}
}

func TestGenerateTwoLevelEstimate(t *testing.T) {
	agents := []*models.Agent{
		agent("data_agent", 40),
		agent("infrastructure_agent", 35),
		agent("backend_agent", 45, "data_agent"),
		agent("ui_agent", 20, "data_agent"),
	}

	p, err := Generate("PROJ-1", "title", "rule-based", agents)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// max free = 40, max dependent = 45.
	if p.TotalEstimatedMinutes != 85 {
		t.Errorf("expected total 85, got %d", p.TotalEstimatedMinutes)
	}
	// sum = 140; 140/85 = 1.647 -> 1.6.
	if p.ParallelismFactor != 1.6 {
		t.Errorf("expected parallelism 1.6, got %.1f", p.ParallelismFactor)
	}
}

func TestGenerateZeroAgentsSentinels(t *testing.T) {
	p, err := Generate("PROJ-2", "empty", "rule-based", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.TotalEstimatedMinutes != 0 {
		t.Errorf("expected total 0 for empty plan, got %d", p.TotalEstimatedMinutes)
	}
	if p.ParallelismFactor != 1 {
		t.Errorf("expected parallelism 1 for empty plan, got %.1f", p.ParallelismFactor)
	}
}

func TestGenerateZeroDurationAgents(t *testing.T) {
	p, err := Generate("PROJ-3", "zero", "rule-based", []*models.Agent{agent("a", 0)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.TotalEstimatedMinutes != 0 || p.ParallelismFactor != 1 {
		t.Errorf("expected sentinels for all-zero durations, got %d / %.1f",
			p.TotalEstimatedMinutes, p.ParallelismFactor)
	}
}

func TestGenerateAllAgentsFree(t *testing.T) {
	agents := []*models.Agent{
		agent("a", 30),
		agent("b", 20),
	}

	p, err := Generate("PROJ-4", "free", "rule-based", agents)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// No dependent level, so total is just the longest free agent.
	if p.TotalEstimatedMinutes != 30 {
		t.Errorf("expected total 30, got %d", p.TotalEstimatedMinutes)
	}
	// 50/30 = 1.666 -> 1.7.
	if p.ParallelismFactor != 1.7 {
		t.Errorf("expected parallelism 1.7, got %.1f", p.ParallelismFactor)
	}
}

func TestGenerateCycleAborts(t *testing.T) {
	agents := []*models.Agent{
		agent("a", 10, "b"),
		agent("b", 10, "a"),
	}

	_, err := Generate("PROJ-5", "cycle", "rule-based", agents)
	if !errors.Is(err, depgraph.ErrCycleDetected) {
		t.Errorf("expected ErrCycleDetected, got %v", err)
	}
}

func TestGenerateInsertionOrderTies(t *testing.T) {
	agents := []*models.Agent{
		agent("ui_agent", 10),
		agent("auth_agent", 10),
	}

	p, err := Generate("PROJ-6", "ties", "rule-based", agents)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Integration.MergeOrder[0] != "ui_agent" || p.Integration.MergeOrder[1] != "auth_agent" {
		t.Errorf("expected declaration order, got %v", p.Integration.MergeOrder)
	}
}
