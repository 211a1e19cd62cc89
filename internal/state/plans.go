package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AojdevStudio/cdev-sub004/pkg/models"
)

// PlanSummary is one row of the plans table without the full plan document.
type PlanSummary struct {
	TaskID            string    `json:"task_id"`
	TaskTitle         string    `json:"task_title"`
	Strategy          string    `json:"strategy"`
	TotalMinutes      int       `json:"total_minutes"`
	ParallelismFactor float64   `json:"parallelism_factor"`
	CreatedAt         time.Time `json:"created_at"`
}

// AgentRow is the persisted lifecycle state of one agent.
type AgentRow struct {
	TaskID           string             `json:"task_id"`
	AgentID          string             `json:"agent_id"`
	Role             string             `json:"role"`
	FocusArea        string             `json:"focus_area"`
	Status           models.AgentStatus `json:"status"`
	EstimatedMinutes int                `json:"estimated_minutes"`
	DependsOn        []string           `json:"depends_on"`
}

// ValidationRun is one recorded validation result for a plan.
type ValidationRun struct {
	ID          int64             `json:"id"`
	TaskID      string            `json:"task_id"`
	Passed      bool              `json:"passed"`
	Conflicts   []models.Conflict `json:"conflicts"`
	ValidatedAt time.Time         `json:"validated_at"`
}

// SavePlan stores a deployment plan and its agent rows in one transaction,
// replacing any previous plan with the same task ID.
func (db *DB) SavePlan(plan *models.DeploymentPlan) error {
	planJSON, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("marshal plan %s: %w", plan.TaskID, err)
	}

	return db.Transaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM plans WHERE task_id = ?", plan.TaskID); err != nil {
			return fmt.Errorf("replace plan %s: %w", plan.TaskID, err)
		}

		createdAt := plan.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}

		_, err := tx.Exec(`
			INSERT INTO plans (task_id, task_title, strategy, plan_json, total_minutes, parallelism, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, plan.TaskID, plan.TaskTitle, plan.DecompositionStrategy, string(planJSON),
			plan.TotalEstimatedMinutes, plan.ParallelismFactor, formatTime(createdAt))
		if err != nil {
			return fmt.Errorf("insert plan %s: %w", plan.TaskID, err)
		}

		for _, a := range plan.Agents {
			status := a.Status
			if status == "" {
				status = models.AgentStatusSynthesized
			}
			dependsOn, _ := json.Marshal(a.Dependencies)
			_, err := tx.Exec(`
				INSERT INTO agents (task_id, agent_id, role, focus_area, status, estimated_minutes, depends_on)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, plan.TaskID, a.ID, a.Role, a.FocusArea, string(status), a.EstimatedMinutes, string(dependsOn))
			if err != nil {
				return fmt.Errorf("insert agent %s: %w", a.ID, err)
			}
		}
		return nil
	})
}

// GetPlan retrieves a stored deployment plan by task ID. Returns nil when no
// plan exists.
func (db *DB) GetPlan(taskID string) (*models.DeploymentPlan, error) {
	row := db.QueryRow("SELECT plan_json FROM plans WHERE task_id = ?", taskID)

	var planJSON string
	err := row.Scan(&planJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get plan %s: %w", taskID, err)
	}

	var plan models.DeploymentPlan
	if err := json.Unmarshal([]byte(planJSON), &plan); err != nil {
		return nil, fmt.Errorf("parse plan %s: %w", taskID, err)
	}
	return &plan, nil
}

// ListPlans lists all stored plans, most recent first.
func (db *DB) ListPlans() ([]PlanSummary, error) {
	rows, err := db.Query(`
		SELECT task_id, task_title, strategy, total_minutes, parallelism, created_at
		FROM plans ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var plans []PlanSummary
	for rows.Next() {
		var p PlanSummary
		var createdAt string
		if err := rows.Scan(&p.TaskID, &p.TaskTitle, &p.Strategy, &p.TotalMinutes, &p.ParallelismFactor, &createdAt); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		p.CreatedAt, _ = parseTime(createdAt)
		plans = append(plans, p)
	}
	return plans, nil
}

// DeletePlan removes a plan along with its agents and validation runs.
func (db *DB) DeletePlan(taskID string) error {
	_, err := db.Exec("DELETE FROM plans WHERE task_id = ?", taskID)
	if err != nil {
		return fmt.Errorf("delete plan %s: %w", taskID, err)
	}
	return nil
}

// ListAgents lists the persisted agent rows for a plan in agent ID order.
func (db *DB) ListAgents(taskID string) ([]AgentRow, error) {
	rows, err := db.Query(`
		SELECT task_id, agent_id, role, focus_area, status, estimated_minutes, depends_on
		FROM agents WHERE task_id = ? ORDER BY agent_id
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("list agents for %s: %w", taskID, err)
	}
	defer rows.Close()

	var agents []AgentRow
	for rows.Next() {
		var a AgentRow
		var focus, dependsOn sql.NullString
		if err := rows.Scan(&a.TaskID, &a.AgentID, &a.Role, &focus, &a.Status, &a.EstimatedMinutes, &dependsOn); err != nil {
			return nil, fmt.Errorf("scan agent: %w", err)
		}
		if focus.Valid {
			a.FocusArea = focus.String
		}
		if dependsOn.Valid {
			json.Unmarshal([]byte(dependsOn.String), &a.DependsOn)
		}
		agents = append(agents, a)
	}
	return agents, nil
}

// UpdateAgentStatus advances one agent's lifecycle state.
func (db *DB) UpdateAgentStatus(taskID, agentID string, status models.AgentStatus) error {
	if !status.Valid() {
		return fmt.Errorf("unknown agent status %q", status)
	}
	res, err := db.Exec(`
		UPDATE agents SET status = ? WHERE task_id = ? AND agent_id = ?
	`, string(status), taskID, agentID)
	if err != nil {
		return fmt.Errorf("update agent %s: %w", agentID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("agent %s not found in plan %s", agentID, taskID)
	}
	return nil
}

// RecordValidation appends a validation run for a plan and marks each agent
// validated or conflicted accordingly.
func (db *DB) RecordValidation(taskID string, status *models.ValidationStatus) error {
	conflicts, err := json.Marshal(status.Conflicts)
	if err != nil {
		return fmt.Errorf("marshal conflicts: %w", err)
	}

	conflicted := make(map[string]bool)
	for _, c := range status.Conflicts {
		conflicted[c.AgentA] = true
		conflicted[c.AgentB] = true
	}

	return db.Transaction(func(tx *sql.Tx) error {
		passed := 0
		if status.Passed {
			passed = 1
		}
		_, err := tx.Exec(`
			INSERT INTO validation_runs (task_id, passed, conflicts, validated_at)
			VALUES (?, ?, ?, ?)
		`, taskID, passed, string(conflicts), formatTime(status.ValidatedAt))
		if err != nil {
			return fmt.Errorf("record validation for %s: %w", taskID, err)
		}

		rows, err := tx.Query("SELECT agent_id FROM agents WHERE task_id = ?", taskID)
		if err != nil {
			return fmt.Errorf("list agents for %s: %w", taskID, err)
		}
		var ids []string
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return fmt.Errorf("scan agent id: %w", err)
			}
			ids = append(ids, id)
		}
		rows.Close()

		for _, id := range ids {
			next := models.AgentStatusValidated
			if conflicted[id] {
				next = models.AgentStatusConflicted
			}
			if _, err := tx.Exec(`
				UPDATE agents SET status = ? WHERE task_id = ? AND agent_id = ?
			`, string(next), taskID, id); err != nil {
				return fmt.Errorf("update agent %s: %w", id, err)
			}
		}
		return nil
	})
}

// LatestValidation returns the most recent validation run for a plan, or nil
// when the plan has never been validated.
func (db *DB) LatestValidation(taskID string) (*ValidationRun, error) {
	row := db.QueryRow(`
		SELECT id, task_id, passed, conflicts, validated_at
		FROM validation_runs WHERE task_id = ? ORDER BY id DESC LIMIT 1
	`, taskID)

	var run ValidationRun
	var passed int
	var conflicts sql.NullString
	var validatedAt string
	err := row.Scan(&run.ID, &run.TaskID, &passed, &conflicts, &validatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get latest validation for %s: %w", taskID, err)
	}

	run.Passed = passed != 0
	if conflicts.Valid {
		json.Unmarshal([]byte(conflicts.String), &run.Conflicts)
	}
	run.ValidatedAt, _ = parseTime(validatedAt)
	return &run, nil
}
