// Package issue models the external work item a plan is generated from and
// caches fetched issues locally so planning can be re-run offline.
package issue

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Issue is the external work item at the boundary of the planner. Fetching
// from a tracker is an external concern; the planner only consumes this shape.
type Issue struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CachedAt    time.Time `json:"cached_at,omitempty"`
}

// Cache stores issues as one JSON file per issue under a directory,
// conventionally .cdev/issues.
type Cache struct {
	dir string
}

// NewCache creates the cache directory if needed.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create issue cache dir: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Put caches an issue, stamping CachedAt. The file is replaced atomically.
func (c *Cache) Put(iss *Issue) error {
	if iss.ID == "" {
		return fmt.Errorf("issue has no ID")
	}
	if err := validID(iss.ID); err != nil {
		return err
	}

	stamped := *iss
	stamped.CachedAt = time.Now().UTC()

	data, err := json.MarshalIndent(&stamped, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal issue %s: %w", iss.ID, err)
	}

	final := c.path(iss.ID)
	tmp, err := os.CreateTemp(c.dir, ".issue-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write issue %s: %w", iss.ID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, final); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace issue %s: %w", iss.ID, err)
	}
	return nil
}

// Get loads a cached issue. A missing issue wraps os.ErrNotExist.
func (c *Cache) Get(id string) (*Issue, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(c.path(id))
	if err != nil {
		return nil, fmt.Errorf("read issue %s: %w", id, err)
	}
	var iss Issue
	if err := json.Unmarshal(data, &iss); err != nil {
		return nil, fmt.Errorf("parse issue %s: %w", id, err)
	}
	return &iss, nil
}

// List returns the IDs of all cached issues, sorted by filename.
func (c *Cache) List() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("read issue cache dir: %w", err)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}

func (c *Cache) path(id string) string {
	return filepath.Join(c.dir, id+".json")
}

// validID rejects IDs that would escape the cache directory.
func validID(id string) error {
	if id == "" || strings.ContainsAny(id, "/\\") || id != filepath.Base(id) {
		return fmt.Errorf("invalid issue ID %q", id)
	}
	return nil
}
