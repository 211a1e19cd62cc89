package statestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPutAndGet(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	r := &Report{
		AgentID:      "auth_agent",
		Completed:    true,
		TouchedFiles: []string{"src/auth/auth-service.ts", "src/app.ts"},
	}
	if err := store.Put(r); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Get("auth_agent")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.AgentID != "auth_agent" || !got.Completed {
		t.Errorf("unexpected report: %+v", got)
	}
	if len(got.TouchedFiles) != 2 {
		t.Errorf("expected 2 touched files, got %v", got.TouchedFiles)
	}
	if got.ReportedAt.IsZero() {
		t.Error("expected ReportedAt to be stamped on write")
	}
}

func TestGetMissingReport(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	_, err = store.Get("ghost_agent")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped os.ErrNotExist, got %v", err)
	}
}

func TestPutRejectsEmptyAgentID(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Put(&Report{}); err == nil {
		t.Fatal("expected error for empty agent ID")
	}
}

func TestPutReplacesWholeReport(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	first := &Report{AgentID: "data_agent", Completed: false, TouchedFiles: []string{"a.ts"}}
	if err := store.Put(first); err != nil {
		t.Fatalf("put: %v", err)
	}
	second := &Report{AgentID: "data_agent", Completed: true, TouchedFiles: []string{"b.ts"}}
	if err := store.Put(second); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Get("data_agent")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Completed || len(got.TouchedFiles) != 1 || got.TouchedFiles[0] != "b.ts" {
		t.Errorf("report not replaced atomically: %+v", got)
	}
}

func TestAllSortedByAgentID(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	for _, id := range []string{"ui_agent", "auth_agent", "data_agent"} {
		if err := store.Put(&Report{AgentID: id}); err != nil {
			t.Fatalf("put %s: %v", id, err)
		}
	}

	reports, err := store.All()
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(reports) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(reports))
	}
	want := []string{"auth_agent", "data_agent", "ui_agent"}
	for i, id := range want {
		if reports[i].AgentID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, reports[i].AgentID)
		}
	}
}

func TestAllIgnoresTempAndForeignFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if err := store.Put(&Report{AgentID: "auth_agent"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	// Simulate an in-flight atomic write and an unrelated file.
	os.WriteFile(filepath.Join(dir, ".ui_agent.tmp-123"), []byte("{"), 0644)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)

	reports, err := store.All()
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(reports) != 1 || reports[0].AgentID != "auth_agent" {
		t.Errorf("expected only the settled report, got %+v", reports)
	}
}

func TestWatchSeesExistingAndNewReports(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Put(&Report{AgentID: "auth_agent", Completed: true}); err != nil {
		t.Fatalf("put: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ch, err := store.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Existing report is replayed first.
	select {
	case r := <-ch:
		if r.AgentID != "auth_agent" {
			t.Errorf("expected existing auth_agent report, got %s", r.AgentID)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for existing report")
	}

	if err := store.Put(&Report{AgentID: "data_agent", Completed: true}); err != nil {
		t.Fatalf("put: %v", err)
	}

	for {
		select {
		case r := <-ch:
			if r.AgentID == "data_agent" {
				return
			}
		case <-ctx.Done():
			t.Fatal("timed out waiting for new report")
		}
	}
}
