package models

// AgentStatus represents the lifecycle state of a work-unit agent.
// Spawned/Completed transitions are driven by the external execution layer;
// this core only plans, validates, and accepts or rejects results.
type AgentStatus string

const (
	// AgentStatusSynthesized indicates the agent spec has been generated.
	AgentStatusSynthesized AgentStatus = "synthesized"
	// AgentStatusSpawned indicates the external executor started the agent.
	AgentStatusSpawned AgentStatus = "spawned"
	// AgentStatusCompleted indicates the agent reported its work finished.
	AgentStatusCompleted AgentStatus = "completed"
	// AgentStatusValidated indicates the agent passed conflict validation.
	AgentStatusValidated AgentStatus = "validated"
	// AgentStatusIntegrated indicates the agent's work was merged.
	AgentStatusIntegrated AgentStatus = "integrated"
	// AgentStatusConflicted indicates the agent touched files claimed by another.
	AgentStatusConflicted AgentStatus = "conflicted"
)

// Valid returns true if the status is a known value.
func (s AgentStatus) Valid() bool {
	switch s {
	case AgentStatusSynthesized, AgentStatusSpawned, AgentStatusCompleted,
		AgentStatusValidated, AgentStatusIntegrated, AgentStatusConflicted:
		return true
	default:
		return false
	}
}

// Agent is the schedulable unit of work synthesized from one Domain.
// Its field names form the stable JSON contract consumed by the external
// execution and integration layers.
type Agent struct {
	// ID is the unique agent identifier (e.g. "auth_agent").
	ID string `json:"agentId"`
	// Role describes the agent's specialization (e.g. "auth_specialist").
	Role string `json:"agentRole"`
	// FocusArea is a human-readable summary of the agent's responsibility.
	FocusArea string `json:"focusArea"`
	// Dependencies lists agent IDs that must merge before this agent.
	Dependencies []string `json:"dependencies"`
	// FilesToCreate lists paths this agent will create.
	FilesToCreate []string `json:"filesToCreate"`
	// FilesToModify lists paths this agent will modify.
	FilesToModify []string `json:"filesToModify"`
	// TestContracts lists test filenames the agent must satisfy.
	TestContracts []string `json:"testContracts"`
	// ValidationCriteria lists independently checkable completion criteria.
	ValidationCriteria []string `json:"validationCriteria"`
	// EstimatedMinutes is the scaled duration estimate for this agent.
	EstimatedMinutes int `json:"estimatedTime"`
	// CanStartImmediately is true when the agent has no dependencies.
	CanStartImmediately bool `json:"canStartImmediately"`
	// RequirementIDs lists the requirements this agent addresses.
	RequirementIDs []string `json:"requirementIds,omitempty"`
	// Status is the agent's lifecycle state. Not part of the plan contract.
	Status AgentStatus `json:"-"`
}

// ClaimsFile returns true if the agent plans to create or modify the path.
func (a *Agent) ClaimsFile(path string) bool {
	for _, f := range a.FilesToCreate {
		if f == path {
			return true
		}
	}
	for _, f := range a.FilesToModify {
		if f == path {
			return true
		}
	}
	return false
}
