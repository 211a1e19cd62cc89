package models

import "time"

// IntegrationPlan describes how validated agent results are merged.
type IntegrationPlan struct {
	// MergeOrder is a topological ordering of agent IDs. For every declared
	// dependency a->b, a appears strictly before b.
	MergeOrder []string `json:"mergeOrder"`
	// ValidationSteps lists the checks the integrator runs between merges.
	ValidationSteps []string `json:"validationSteps"`
}

// DeploymentPlan is the full persisted decomposition output. It is the sole
// contract between the planner and the external execution/integration layers
// and must remain stable and re-parseable.
type DeploymentPlan struct {
	// TaskID identifies the source work item (issue ID).
	TaskID string `json:"taskId"`
	// TaskTitle is the source work item title.
	TaskTitle string `json:"taskTitle"`
	// DecompositionStrategy names how the plan was produced
	// ("rule-based" or "oracle").
	DecompositionStrategy string `json:"decompositionStrategy"`
	// Agents lists the parallel work units, in declaration order.
	Agents []*Agent `json:"parallelAgents"`
	// Integration holds the merge order and validation steps.
	Integration IntegrationPlan `json:"integrationPlan"`
	// TotalEstimatedMinutes is the two-level critical-path approximation:
	// max over dependency-free agents plus max over dependent agents.
	TotalEstimatedMinutes int `json:"totalEstimatedTime"`
	// ParallelismFactor is sum(agent estimates) / total, rounded to one
	// decimal. 1.0 when the plan is empty.
	ParallelismFactor float64 `json:"parallelismFactor"`
	// CreatedAt records when the plan was generated.
	CreatedAt time.Time `json:"createdAt"`
}

// Agent returns the agent with the given ID, or nil.
func (p *DeploymentPlan) Agent(id string) *Agent {
	for _, a := range p.Agents {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// Conflict records a file touched or claimed by two different agents.
type Conflict struct {
	// Path is the contested file path.
	Path string `json:"path"`
	// AgentA is the agent that claimed the path first.
	AgentA string `json:"agent_a"`
	// AgentB is the agent that touched the already-claimed path.
	AgentB string `json:"agent_b"`
}

// ValidationStatus is the atomically-replaced result of one validation run.
type ValidationStatus struct {
	// Passed is true when no agent touched a file claimed by another.
	Passed bool `json:"validation_passed"`
	// Conflicts enumerates every contested path with both owning agents.
	Conflicts []Conflict `json:"conflicts"`
	// ValidatedAt is the RFC 3339 timestamp of this run.
	ValidatedAt time.Time `json:"validated_at"`
}
