// Package statestore is the durable, file-based channel between this
// planner and the concurrently running external agents. Each agent owns
// exactly one report file, written by atomic replace, so concurrent writers
// never corrupt or lose each other's updates and no lock is needed.
package statestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Report is the execution record an external agent leaves behind.
type Report struct {
	// AgentID identifies the reporting agent.
	AgentID string `json:"agent_id"`
	// Completed is true once the agent has finished its work.
	Completed bool `json:"completed"`
	// TouchedFiles lists every path the agent actually created or modified.
	TouchedFiles []string `json:"touched_files"`
	// WorkspacePath is the isolated workspace the agent ran in.
	WorkspacePath string `json:"workspace_path,omitempty"`
	// ReportedAt is when the report was written.
	ReportedAt time.Time `json:"reported_at"`
}

// Store reads and writes agent reports under a status directory.
type Store struct {
	dir string
}

// Open creates the status directory if needed and returns a Store over it.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create status directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the status directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Put writes an agent's report. The write goes to a temp file first and is
// renamed over the agent's report file, so a reader sees either the previous
// report or this one, never a partial document.
func (s *Store) Put(r *Report) error {
	if r.AgentID == "" {
		return fmt.Errorf("report has no agent ID")
	}
	if r.ReportedAt.IsZero() {
		r.ReportedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report for %s: %w", r.AgentID, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+r.AgentID+".tmp-")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write report for %s: %w", r.AgentID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp report: %w", err)
	}
	if err := os.Rename(tmpName, s.path(r.AgentID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace report for %s: %w", r.AgentID, err)
	}
	return nil
}

// Get reads one agent's report. Returns os.ErrNotExist (wrapped) when the
// agent has not reported yet.
func (s *Store) Get(agentID string) (*Report, error) {
	data, err := os.ReadFile(s.path(agentID))
	if err != nil {
		return nil, fmt.Errorf("read report for %s: %w", agentID, err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report for %s: %w", agentID, err)
	}
	return &r, nil
}

// All returns every report in the store, sorted by agent ID.
func (s *Store) All() ([]*Report, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list status directory: %w", err)
	}

	var reports []*Report
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
			continue
		}
		r, err := s.Get(strings.TrimSuffix(name, ".json"))
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].AgentID < reports[j].AgentID })
	return reports, nil
}

func (s *Store) path(agentID string) string {
	return filepath.Join(s.dir, agentID+".json")
}
