// Package validate performs post-execution conflict detection over the
// file paths external agents actually touched. It is independent of the
// plan-time partition invariant: partitioning can succeed and validation
// still fail when execution deviated from the plan.
package validate

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/AojdevStudio/cdev-sub004/internal/statestore"
	"github.com/AojdevStudio/cdev-sub004/pkg/models"
)

// PendingAgentsError is the retryable wait state returned when some agents
// have not reported completion yet. It is not a failure: validation simply
// cannot run to completion until every agent has reported.
type PendingAgentsError struct {
	// AgentIDs lists the agents still pending, in plan order.
	AgentIDs []string
}

// Error names every pending agent.
func (e *PendingAgentsError) Error() string {
	return fmt.Sprintf("validation pending: no completion report from %s", strings.Join(e.AgentIDs, ", "))
}

// Validate checks that no file was touched by more than one agent.
//
// Every agent in the plan must have a completed report; otherwise a
// *PendingAgentsError is returned and no status is produced. Claims are
// registered in plan declaration order, so a conflict tuple always names
// the earlier-declared agent first. The returned status is a complete,
// freshly computed value; callers replace any previous status with it
// atomically rather than mutating in place.
func Validate(p *models.DeploymentPlan, store *statestore.Store) (*models.ValidationStatus, error) {
	reports := make(map[string]*statestore.Report, len(p.Agents))
	var pending []string
	for _, a := range p.Agents {
		r, err := store.Get(a.ID)
		if err != nil || !r.Completed {
			pending = append(pending, a.ID)
			continue
		}
		reports[a.ID] = r
	}
	if len(pending) > 0 {
		return nil, &PendingAgentsError{AgentIDs: pending}
	}

	claims := make(map[string]string)
	var conflicts []models.Conflict
	for _, a := range p.Agents {
		for _, path := range reports[a.ID].TouchedFiles {
			owner, claimed := claims[path]
			if !claimed {
				claims[path] = a.ID
				continue
			}
			if owner != a.ID {
				conflicts = append(conflicts, models.Conflict{Path: path, AgentA: owner, AgentB: a.ID})
			}
		}
	}

	sort.Slice(conflicts, func(i, j int) bool { return conflicts[i].Path < conflicts[j].Path })

	return &models.ValidationStatus{
		Passed:      len(conflicts) == 0,
		Conflicts:   conflicts,
		ValidatedAt: time.Now().UTC(),
	}, nil
}
