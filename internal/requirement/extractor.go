// Package requirement extracts discrete requirement statements from
// free-text issue descriptions.
package requirement

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/AojdevStudio/cdev-sub004/pkg/models"
)

// enumeratedLine matches an enumerated-list item like "1. Add login form".
var enumeratedLine = regexp.MustCompile(`^\s*(\d+)\.\s+(.*)$`)

// Extract splits issue text into ordered requirements.
//
// Lines matching an enumerated-list pattern ("<number>. <text>") each become
// one requirement, in document order. Text without any enumerated lines is a
// single requirement. Whitespace-only input still yields a single
// empty-content requirement rather than an empty list, so downstream stages
// never see zero requirements.
func Extract(text string) []*models.Requirement {
	var reqs []*models.Requirement

	for _, line := range strings.Split(text, "\n") {
		m := enumeratedLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		reqs = append(reqs, &models.Requirement{
			ID:   fmt.Sprintf("req-%d", len(reqs)+1),
			Text: strings.TrimSpace(m[2]),
		})
	}

	if len(reqs) == 0 {
		reqs = append(reqs, &models.Requirement{
			ID:   "req-1",
			Text: strings.TrimSpace(text),
		})
	}

	return reqs
}
