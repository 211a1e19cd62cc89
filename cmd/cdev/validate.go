package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AojdevStudio/cdev-sub004/internal/config"
	"github.com/AojdevStudio/cdev-sub004/internal/state"
	"github.com/AojdevStudio/cdev-sub004/internal/statestore"
	"github.com/AojdevStudio/cdev-sub004/internal/validate"
	"github.com/AojdevStudio/cdev-sub004/pkg/models"
)

var validateWatch bool

var validateCmd = &cobra.Command{
	Use:   "validate <task-id>",
	Short: "Check agent completion reports for file conflicts",
	Long: `Validate a plan after external execution: every agent must have
dropped a completion report, and no two agents may have touched the same file.

With --watch, validate blocks until all agents have reported instead of
failing on pending agents. The result is written to validation-status.json
and recorded in the state database either way.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateWatch, "watch", false, "Wait for pending agent reports before validating")
}

func runValidate(cmd *cobra.Command, args []string) error {
	taskID := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	db, err := state.OpenProject(cwd)
	if err != nil {
		return fmt.Errorf("open state db: %w", err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrate state db: %w", err)
	}

	p, err := db.GetPlan(taskID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("no plan for task %s; run 'cdev split' first", taskID)
	}

	store, err := statestore.Open(cfg.Output.StatusDir)
	if err != nil {
		return fmt.Errorf("open status store: %w", err)
	}

	status, err := validate.Validate(p, store)
	var pending *validate.PendingAgentsError
	if errors.As(err, &pending) {
		if !validateWatch {
			color.Yellow("Validation pending, no report yet from: %v", pending.AgentIDs)
			fmt.Println("Re-run when agents finish, or use --watch to wait.")
			return nil
		}
		status, err = waitAndValidate(cmd.Context(), p, store, pending)
	}
	if err != nil {
		return err
	}

	if _, err := validate.WriteStatus(cfg.Output.PlanDir, status); err != nil {
		return fmt.Errorf("write validation status: %w", err)
	}
	if err := db.RecordValidation(taskID, status); err != nil {
		return fmt.Errorf("record validation: %w", err)
	}

	printValidation(status)
	if !status.Passed {
		return fmt.Errorf("validation failed with %d conflict(s)", len(status.Conflicts))
	}
	return nil
}

// waitAndValidate blocks on the status directory watcher until every pending
// agent has reported completion, then validates once more.
func waitAndValidate(ctx context.Context, p *models.DeploymentPlan, store *statestore.Store, pending *validate.PendingAgentsError) (*models.ValidationStatus, error) {
	waiting := make(map[string]bool)
	for _, id := range pending.AgentIDs {
		waiting[id] = true
	}
	color.Yellow("Waiting for %d agent(s): %v", len(waiting), pending.AgentIDs)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	reports, err := store.Watch(watchCtx)
	if err != nil {
		return nil, fmt.Errorf("watch status dir: %w", err)
	}

	for len(waiting) > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case r, ok := <-reports:
			if !ok {
				return nil, fmt.Errorf("status watcher closed while %d agent(s) pending", len(waiting))
			}
			if r.Completed && waiting[r.AgentID] {
				delete(waiting, r.AgentID)
				fmt.Printf("  %s reported complete (%d remaining)\n", r.AgentID, len(waiting))
			}
		}
	}

	return validate.Validate(p, store)
}

func printValidation(status *models.ValidationStatus) {
	if status.Passed {
		color.Green("Validation passed: no conflicting file touches.")
		return
	}

	color.Red("Validation failed: %d conflicting path(s).", len(status.Conflicts))
	for _, c := range status.Conflicts {
		fmt.Printf("  %s touched by both %s and %s\n", c.Path, c.AgentA, c.AgentB)
	}
}
