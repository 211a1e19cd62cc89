package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AojdevStudio/cdev-sub004/internal/config"
	"github.com/AojdevStudio/cdev-sub004/internal/inference"
	"github.com/AojdevStudio/cdev-sub004/internal/issue"
	"github.com/AojdevStudio/cdev-sub004/internal/oracle"
	"github.com/AojdevStudio/cdev-sub004/internal/partition"
	"github.com/AojdevStudio/cdev-sub004/internal/plan"
	"github.com/AojdevStudio/cdev-sub004/internal/requirement"
	"github.com/AojdevStudio/cdev-sub004/internal/state"
	"github.com/AojdevStudio/cdev-sub004/internal/synth"
	"github.com/AojdevStudio/cdev-sub004/pkg/models"
)

var (
	splitTitle       string
	splitDescription string
	splitFile        string
)

var splitCmd = &cobra.Command{
	Use:   "split [issue-id]",
	Short: "Decompose a work item into a parallel deployment plan",
	Long: `Decompose a work item into parallel agent work units with exclusive
file sets, and write the deployment plan plus per-agent context files.

The work item text comes from --description, --file, or a previously cached
issue. When both an issue ID and text are given, the issue is cached under
.cdev/issues/ so split can be re-run offline.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSplit,
}

func init() {
	splitCmd.Flags().StringVar(&splitTitle, "title", "", "Work item title")
	splitCmd.Flags().StringVar(&splitDescription, "description", "", "Work item description text")
	splitCmd.Flags().StringVar(&splitFile, "file", "", "Read the description from a file")
}

func runSplit(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	iss, err := resolveIssue(cfg, args)
	if err != nil {
		return err
	}

	rules := inference.DefaultRules()
	if cfg.Inference.RulesFile != "" {
		rules, err = inference.LoadRules(cfg.Inference.RulesFile)
		if err != nil {
			return fmt.Errorf("load inference rules: %w", err)
		}
	}

	reqs := requirement.Extract(iss.Description)
	complexity := inference.NewKeywordScorer().Score(iss.Description)

	strategy := "rule-based"
	ops := inference.New(rules).InferAll(reqs)

	if cfg.Oracle.Enabled {
		oracleOps, ok := tryOracle(cmd, cfg, iss, reqs)
		if ok {
			ops = oracleOps
			strategy = "oracle"
		}
	}

	domains, err := partition.Partition(ops)
	if err != nil {
		var violation *partition.ViolationError
		if errors.As(err, &violation) {
			color.Red("Partition violation: a file was assigned to two domains.")
			for _, c := range violation.Claims {
				fmt.Printf("  %s: %s and %s\n", c.Path, c.DomainA, c.DomainB)
			}
		}
		return err
	}

	agents := synth.New(rules).Synthesize(domains, complexity)

	p, err := plan.Generate(iss.ID, iss.Title, strategy, agents)
	if err != nil {
		return fmt.Errorf("generate plan: %w", err)
	}

	planPath, err := plan.Write(cfg.Output.PlanDir, p)
	if err != nil {
		return fmt.Errorf("write plan: %w", err)
	}
	if err := plan.WriteAgentContexts(cfg.Output.WorkspacesDir, p); err != nil {
		return fmt.Errorf("write agent contexts: %w", err)
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
	if err := db.SavePlan(p); err != nil {
		return fmt.Errorf("persist plan: %w", err)
	}

	printPlanSummary(p, planPath, complexity)
	return nil
}

// resolveIssue builds the work item from args and flags, consulting and
// updating the local issue cache.
func resolveIssue(cfg *config.Config, args []string) (*issue.Issue, error) {
	description := splitDescription
	if description == "" && splitFile != "" {
		data, err := os.ReadFile(splitFile)
		if err != nil {
			return nil, fmt.Errorf("read description file: %w", err)
		}
		description = string(data)
	}

	cache, err := issue.NewCache(issueCacheDir(cfg))
	if err != nil {
		return nil, err
	}

	if len(args) == 0 {
		if description == "" {
			return nil, fmt.Errorf("no work item: pass an issue ID, --description, or --file")
		}
		iss := &issue.Issue{
			ID:          uuid.New().String(),
			Title:       splitTitle,
			Description: description,
		}
		if iss.Title == "" {
			iss.Title = firstLine(description)
		}
		return iss, nil
	}

	id := args[0]
	if description == "" {
		cached, err := cache.Get(id)
		if err != nil {
			return nil, fmt.Errorf("issue %s not cached and no description given: %w", id, err)
		}
		return cached, nil
	}

	iss := &issue.Issue{ID: id, Title: splitTitle, Description: description}
	if iss.Title == "" {
		iss.Title = firstLine(description)
	}
	if err := cache.Put(iss); err != nil {
		return nil, fmt.Errorf("cache issue %s: %w", id, err)
	}
	return iss, nil
}

// tryOracle asks the model-backed classifier for a whole-plan suggestion.
// Any failure or low-confidence answer falls back to rule-based inference.
func tryOracle(cmd *cobra.Command, cfg *config.Config, iss *issue.Issue, reqs []*models.Requirement) ([]models.FileOperation, bool) {
	classifier, err := oracle.NewAnthropicClassifier(oracle.ClientConfig{
		Model:         anthropic.Model(cfg.Oracle.Model),
		APIKey:        cfg.Oracle.APIKey,
		UseAWSBedrock: cfg.Oracle.UseBedrock,
		AWSRegion:     cfg.AWS.Region,
		AWSProfile:    cfg.AWS.Profile,
	})
	if err != nil {
		color.Yellow("Oracle unavailable (%v), using rule-based inference.", err)
		return nil, false
	}

	suggestion, err := classifier.Classify(cmd.Context(), oracle.Request{
		Description:    iss.Description,
		ProjectContext: iss.Title,
	})
	if err != nil {
		color.Yellow("Oracle call failed (%v), using rule-based inference.", err)
		return nil, false
	}

	if !oracle.Accept(suggestion, cfg.Oracle.ConfidenceThreshold) {
		return nil, false
	}

	reqIDs := make([]string, len(reqs))
	for i, r := range reqs {
		reqIDs[i] = r.ID
	}
	ops, err := oracle.Operations(suggestion, reqIDs)
	if err != nil {
		color.Yellow("Oracle suggestion unusable (%v), using rule-based inference.", err)
		return nil, false
	}
	return ops, true
}

func printPlanSummary(p *models.DeploymentPlan, planPath string, complexity inference.Complexity) {
	color.Green("Deployment plan written to %s", planPath)
	fmt.Printf("Task: %s (%s)\n", p.TaskID, p.TaskTitle)
	fmt.Printf("Strategy: %s, complexity: %s\n", p.DecompositionStrategy, complexity)
	fmt.Printf("Agents: %d, estimated %d min, parallelism %.1fx\n",
		len(p.Agents), p.TotalEstimatedMinutes, p.ParallelismFactor)

	for _, a := range p.Agents {
		deps := "none"
		if len(a.Dependencies) > 0 {
			deps = strings.Join(a.Dependencies, ", ")
		}
		fmt.Printf("  %-24s %3d min  files: %d  deps: %s\n",
			a.ID, a.EstimatedMinutes, len(a.FilesToCreate)+len(a.FilesToModify), deps)
	}

	if len(p.Integration.MergeOrder) > 0 {
		fmt.Printf("Merge order: %s\n", strings.Join(p.Integration.MergeOrder, " -> "))
	}
}

func issueCacheDir(cfg *config.Config) string {
	return filepath.Join(cfg.Output.PlanDir, "issues")
}

func firstLine(text string) string {
	line := strings.TrimSpace(strings.SplitN(text, "\n", 2)[0])
	if len(line) > 72 {
		line = line[:72]
	}
	return line
}
