// Package oracle provides an optional model-backed classifier that can
// replace rule-based file-operation inference when its confidence is high
// enough.
package oracle

import (
	"context"
	"fmt"

	"github.com/AojdevStudio/cdev-sub004/pkg/models"
)

// DefaultConfidenceThreshold is the minimum self-reported confidence at
// which a suggestion is accepted instead of the rule-based inference.
const DefaultConfidenceThreshold = 0.8

// Request describes the work item the classifier is asked about.
type Request struct {
	Description    string
	ProjectContext string
}

// SuggestedAgent is one work unit proposed by the classifier.
type SuggestedAgent struct {
	Domain        string   `json:"domain"`
	Role          string   `json:"role"`
	FocusArea     string   `json:"focus_area"`
	FilesToCreate []string `json:"files_to_create"`
	FilesToModify []string `json:"files_to_modify"`
}

// Suggestion is the classifier's full response for a work item.
type Suggestion struct {
	Agents      []SuggestedAgent `json:"agents"`
	ProjectType string           `json:"project_type"`
	Confidence  float64          `json:"confidence"`
	Reasoning   string           `json:"reasoning"`
}

// Classifier produces a decomposition suggestion for a work item.
type Classifier interface {
	Classify(ctx context.Context, req Request) (*Suggestion, error)
}

// Accept reports whether the suggestion should replace rule-based inference.
// A suggestion is used whole or not at all: it must carry at least one agent
// and meet the confidence threshold. Low confidence is not an error, the
// caller silently falls back to the rule-based path.
func Accept(s *Suggestion, threshold float64) bool {
	if s == nil || len(s.Agents) == 0 {
		return false
	}
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}
	return s.Confidence >= threshold
}

// Operations converts an accepted suggestion into domain-tagged file
// operations, the same shape the rule-based inferrer emits, so the rest of
// the pipeline (partitioner onward) is identical for both paths. The given
// requirement IDs are attributed to every operation since the oracle
// classifies the work item as a whole.
func Operations(s *Suggestion, requirementIDs []string) ([]models.FileOperation, error) {
	if len(requirementIDs) == 0 {
		requirementIDs = []string{""}
	}

	var ops []models.FileOperation
	emit := func(domain, path string, kind models.OpKind) {
		for _, reqID := range requirementIDs {
			ops = append(ops, models.FileOperation{
				Path:                path,
				Kind:                kind,
				Domain:              domain,
				SourceRequirementID: reqID,
			})
		}
	}

	for _, agent := range s.Agents {
		if agent.Domain == "" {
			return nil, fmt.Errorf("suggested agent has no domain")
		}
		for _, path := range agent.FilesToCreate {
			emit(agent.Domain, path, models.OpCreate)
		}
		for _, path := range agent.FilesToModify {
			emit(agent.Domain, path, models.OpModify)
		}
	}
	if len(ops) == 0 {
		return nil, fmt.Errorf("suggestion contains no file operations")
	}
	return ops, nil
}
