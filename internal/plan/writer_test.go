package plan

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AojdevStudio/cdev-sub004/pkg/models"
)

func samplePlan(t *testing.T) *models.DeploymentPlan {
	t.Helper()
	agents := []*models.Agent{
		{
			ID:                  "auth_agent",
			Role:                "auth_specialist",
			FocusArea:           "authentication",
			Dependencies:        []string{},
			FilesToCreate:       []string{"src/auth/auth-service.ts"},
			FilesToModify:       []string{"src/app.ts"},
			TestContracts:       []string{"src/auth/__tests__/auth-service.test.ts"},
			ValidationCriteria:  []string{"Created src/auth/auth-service.ts"},
			EstimatedMinutes:    45,
			CanStartImmediately: true,
		},
	}
	p, err := Generate("PROJ-9", "Sample", "rule-based", agents)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return p
}

func TestWriteAndReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p := samplePlan(t)

	path, err := Write(dir, p)
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.TaskID != "PROJ-9" || got.TaskTitle != "Sample" {
		t.Errorf("unexpected plan identity: %s / %s", got.TaskID, got.TaskTitle)
	}
	if len(got.Agents) != 1 || got.Agents[0].ID != "auth_agent" {
		t.Errorf("agents did not survive round trip: %+v", got.Agents)
	}
	if len(got.Integration.MergeOrder) != 1 {
		t.Errorf("merge order did not survive round trip: %v", got.Integration.MergeOrder)
	}
}

func TestWrittenPlanUsesContractFieldNames(t *testing.T) {
	dir := t.TempDir()
	path, err := Write(dir, samplePlan(t))
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("parse: %v", err)
	}

	for _, key := range []string{"taskId", "taskTitle", "decompositionStrategy", "parallelAgents", "integrationPlan", "totalEstimatedTime", "parallelismFactor"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("plan JSON missing contract key %q", key)
		}
	}

	agents := raw["parallelAgents"].([]any)
	a := agents[0].(map[string]any)
	for _, key := range []string{"agentId", "agentRole", "focusArea", "dependencies", "filesToCreate", "filesToModify", "testContracts", "validationCriteria", "estimatedTime", "canStartImmediately"} {
		if _, ok := a[key]; !ok {
			t.Errorf("agent JSON missing contract key %q", key)
		}
	}
}

func TestWriteAgentContexts(t *testing.T) {
	dir := t.TempDir()
	p := samplePlan(t)

	if err := WriteAgentContexts(dir, p); err != nil {
		t.Fatalf("write contexts: %v", err)
	}

	agentDir := filepath.Join(dir, "auth_agent")

	files, err := os.ReadFile(filepath.Join(agentDir, "files_to_work_on.txt"))
	if err != nil {
		t.Fatalf("read file list: %v", err)
	}
	content := string(files)
	if !strings.Contains(content, "CREATE: src/auth/auth-service.ts") {
		t.Errorf("missing CREATE line: %q", content)
	}
	if !strings.Contains(content, "MODIFY: src/app.ts") {
		t.Errorf("missing MODIFY line: %q", content)
	}

	checklist, err := os.ReadFile(filepath.Join(agentDir, "validation_checklist.txt"))
	if err != nil {
		t.Fatalf("read checklist: %v", err)
	}
	if !strings.HasPrefix(string(checklist), "[ ] ") {
		t.Errorf("checklist entries should start unchecked: %q", string(checklist))
	}

	var a models.Agent
	ctx, err := os.ReadFile(filepath.Join(agentDir, "agent_context.json"))
	if err != nil {
		t.Fatalf("read agent context: %v", err)
	}
	if err := json.Unmarshal(ctx, &a); err != nil {
		t.Fatalf("parse agent context: %v", err)
	}
	if a.ID != "auth_agent" {
		t.Errorf("unexpected agent in context: %s", a.ID)
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	if _, err := Write(dir, samplePlan(t)); err != nil {
		t.Fatalf("write: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}
