// Package plan computes merge order and schedule estimates for a set of
// agents and persists the resulting deployment plan.
package plan

import (
	"fmt"
	"math"
	"time"

	"github.com/AojdevStudio/cdev-sub004/internal/depgraph"
	"github.com/AojdevStudio/cdev-sub004/pkg/models"
)

// defaultValidationSteps is what the integrator runs between merges.
var defaultValidationSteps = []string{
	"verify exclusive file ownership across agents",
	"run each agent's test contracts",
	"confirm every validation criterion is checked",
}

// Generate assembles the deployment plan for the given agents.
//
// The merge order is a topological sort over declared dependencies with
// declaration-order ties. Total time is a two-level critical-path
// approximation: the longest dependency-free agent plus the longest
// dependent agent. Parallelism is the ratio of summed agent time to that
// total, rounded to one decimal. An empty plan gets the sentinels 0 and 1.0
// so no caller ever divides by zero.
//
// Cycles and references to unknown agents abort plan generation.
func Generate(taskID, taskTitle, strategy string, agents []*models.Agent) (*models.DeploymentPlan, error) {
	g, err := depgraph.Build(agents)
	if err != nil {
		return nil, fmt.Errorf("build dependency graph: %w", err)
	}

	total, factor := estimate(agents)

	return &models.DeploymentPlan{
		TaskID:                taskID,
		TaskTitle:             taskTitle,
		DecompositionStrategy: strategy,
		Agents:                agents,
		Integration: models.IntegrationPlan{
			MergeOrder:      g.TopologicalSort(),
			ValidationSteps: append([]string{}, defaultValidationSteps...),
		},
		TotalEstimatedMinutes: total,
		ParallelismFactor:     factor,
		CreatedAt:             time.Now().UTC(),
	}, nil
}

// estimate computes the two-level time approximation and parallelism factor.
func estimate(agents []*models.Agent) (total int, factor float64) {
	if len(agents) == 0 {
		return 0, 1
	}

	var maxFree, maxDependent, sum int
	for _, a := range agents {
		sum += a.EstimatedMinutes
		if len(a.Dependencies) == 0 {
			if a.EstimatedMinutes > maxFree {
				maxFree = a.EstimatedMinutes
			}
		} else if a.EstimatedMinutes > maxDependent {
			maxDependent = a.EstimatedMinutes
		}
	}

	total = maxFree + maxDependent
	if total == 0 {
		return 0, 1
	}

	factor = math.Round(float64(sum)/float64(total)*10) / 10
	return total, factor
}
