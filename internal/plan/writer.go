package plan

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AojdevStudio/cdev-sub004/pkg/models"
)

// PlanFileName is the deployment plan artifact inside the output directory.
const PlanFileName = "deployment-plan.json"

// Write persists the plan as JSON under dir, creating the directory if
// needed. The file is written to a temp name first and renamed into place so
// readers never observe a partial plan.
func Write(dir string, p *models.DeploymentPlan) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create plan directory: %w", err)
	}
	path := filepath.Join(dir, PlanFileName)
	if err := writeJSONAtomic(path, p); err != nil {
		return "", err
	}
	return path, nil
}

// Read loads a previously written deployment plan.
func Read(path string) (*models.DeploymentPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	var p models.DeploymentPlan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse plan %s: %w", path, err)
	}
	return &p, nil
}

// WriteAgentContexts writes one workspace contract per agent under
// dir/<agentID>/: the agent record itself, a CREATE:/MODIFY: prefixed file
// list, the test-contract filenames, and an unchecked validation checklist.
// These files are what the external executor hands to each isolated
// workspace.
func WriteAgentContexts(dir string, p *models.DeploymentPlan) error {
	for _, a := range p.Agents {
		agentDir := filepath.Join(dir, a.ID)
		if err := os.MkdirAll(agentDir, 0755); err != nil {
			return fmt.Errorf("create workspace dir for %s: %w", a.ID, err)
		}

		if err := writeJSONAtomic(filepath.Join(agentDir, "agent_context.json"), a); err != nil {
			return err
		}

		var files strings.Builder
		for _, f := range a.FilesToCreate {
			fmt.Fprintf(&files, "CREATE: %s\n", f)
		}
		for _, f := range a.FilesToModify {
			fmt.Fprintf(&files, "MODIFY: %s\n", f)
		}
		if err := writeFileAtomic(filepath.Join(agentDir, "files_to_work_on.txt"), []byte(files.String())); err != nil {
			return err
		}

		tests := strings.Join(a.TestContracts, "\n")
		if tests != "" {
			tests += "\n"
		}
		if err := writeFileAtomic(filepath.Join(agentDir, "test_contracts.txt"), []byte(tests)); err != nil {
			return err
		}

		var checklist strings.Builder
		for _, c := range a.ValidationCriteria {
			fmt.Fprintf(&checklist, "[ ] %s\n", c)
		}
		if err := writeFileAtomic(filepath.Join(agentDir, "validation_checklist.txt"), []byte(checklist.String())); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONAtomic marshals v with indentation and writes it atomically.
func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	return writeFileAtomic(path, append(data, '\n'))
}

// writeFileAtomic writes to a temp file in the target directory and renames
// it into place, so concurrent readers see either the old or the new
// content, never a partial write.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
