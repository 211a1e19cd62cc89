package validate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AojdevStudio/cdev-sub004/pkg/models"
)

// StatusFileName is the validation artifact consumed by the integrator.
const StatusFileName = "validation-status.json"

// WriteStatus persists the validation result under dir, replacing any
// previous status atomically via a temp file and rename.
func WriteStatus(dir string, status *models.ValidationStatus) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create status directory: %w", err)
	}

	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal validation status: %w", err)
	}

	path := filepath.Join(dir, StatusFileName)
	tmp, err := os.CreateTemp(dir, "."+StatusFileName+".tmp-")
	if err != nil {
		return "", fmt.Errorf("create temp status file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write validation status: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close temp status file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("replace validation status: %w", err)
	}
	return path, nil
}

// ReadStatus loads a previously written validation status.
func ReadStatus(path string) (*models.ValidationStatus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read validation status: %w", err)
	}
	var status models.ValidationStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("parse validation status %s: %w", path, err)
	}
	return &status, nil
}
