package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AojdevStudio/cdev-sub004/internal/state"
	"github.com/AojdevStudio/cdev-sub004/pkg/models"
)

var statusCmd = &cobra.Command{
	Use:   "status [task-id]",
	Short: "Show stored plans and agent state",
	Long: `Display stored deployment plans from the project state database.

Without arguments, lists all plans. With a task ID, shows that plan's agents,
their lifecycle state, and the latest validation result.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	dbPath := state.ProjectDBPath(cwd)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No plans yet. Run 'cdev split <issue-id>' to create one.")
		return nil
	}

	db, err := state.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open state db: %w", err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrate state db: %w", err)
	}

	if len(args) == 1 {
		return showPlan(db, args[0])
	}
	return listPlans(db)
}

func listPlans(db *state.DB) error {
	plans, err := db.ListPlans()
	if err != nil {
		return err
	}
	if len(plans) == 0 {
		fmt.Println("No plans yet. Run 'cdev split <issue-id>' to create one.")
		return nil
	}

	for _, p := range plans {
		fmt.Printf("%-16s %-40s %s  %3d min  %.1fx  %s\n",
			p.TaskID, truncate(p.TaskTitle, 40), p.Strategy,
			p.TotalMinutes, p.ParallelismFactor,
			p.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func showPlan(db *state.DB, taskID string) error {
	p, err := db.GetPlan(taskID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("no plan for task %s", taskID)
	}

	fmt.Printf("Task: %s (%s)\n", p.TaskID, p.TaskTitle)
	fmt.Printf("Strategy: %s, estimated %d min, parallelism %.1fx\n",
		p.DecompositionStrategy, p.TotalEstimatedMinutes, p.ParallelismFactor)

	agents, err := db.ListAgents(taskID)
	if err != nil {
		return err
	}
	fmt.Println("\nAgents:")
	for _, a := range agents {
		fmt.Printf("  %-24s %-14s %3d min  %s\n",
			a.AgentID, statusLabel(a.Status), a.EstimatedMinutes, a.Role)
	}

	run, err := db.LatestValidation(taskID)
	if err != nil {
		return err
	}
	fmt.Println()
	switch {
	case run == nil:
		fmt.Println("Not yet validated.")
	case run.Passed:
		color.Green("Last validation passed at %s.", run.ValidatedAt.Local().Format("2006-01-02 15:04"))
	default:
		color.Red("Last validation failed at %s:", run.ValidatedAt.Local().Format("2006-01-02 15:04"))
		for _, c := range run.Conflicts {
			fmt.Printf("  %s touched by both %s and %s\n", c.Path, c.AgentA, c.AgentB)
		}
	}
	return nil
}

// statusLabel colors an agent lifecycle state for terminal display.
func statusLabel(s models.AgentStatus) string {
	switch s {
	case models.AgentStatusValidated, models.AgentStatusIntegrated:
		return color.GreenString(string(s))
	case models.AgentStatusConflicted:
		return color.RedString(string(s))
	case models.AgentStatusSpawned:
		return color.YellowString(string(s))
	default:
		return string(s)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
