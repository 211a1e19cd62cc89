package inference

import (
	"regexp"
	"strings"

	"github.com/AojdevStudio/cdev-sub004/pkg/models"
)

// FallbackDomain tags operations for requirements no rule matched.
const FallbackDomain = "feature"

// Inferrer maps requirements to file operations via the rule table.
type Inferrer struct {
	rules *RuleSet
}

// New creates an Inferrer over the given rule set.
func New(rules *RuleSet) *Inferrer {
	return &Inferrer{rules: rules}
}

// Rules returns the inferrer's rule set.
func (in *Inferrer) Rules() *RuleSet {
	return in.rules
}

// Infer produces file operations for one requirement.
//
// The text is lowercased and tested against every rule in order; each
// matching rule contributes its domain's catalog. One requirement may feed
// several domains; the partitioner resolves file ownership later. When no
// rule matches, a single generic CREATE under the fallback domain is emitted
// with a path slugged from the requirement text, so every requirement maps
// to at least one domain.
func (in *Inferrer) Infer(req *models.Requirement) []models.FileOperation {
	lowered := strings.ToLower(req.Text)

	var ops []models.FileOperation
	for _, rule := range in.rules.Rules() {
		if !rule.Matches(lowered) {
			continue
		}
		for _, path := range rule.Creates {
			ops = append(ops, models.FileOperation{
				Path:                path,
				Kind:                models.OpCreate,
				Domain:              rule.Domain,
				SourceRequirementID: req.ID,
			})
		}
		for _, path := range rule.Modifies {
			ops = append(ops, models.FileOperation{
				Path:                path,
				Kind:                models.OpModify,
				Domain:              rule.Domain,
				SourceRequirementID: req.ID,
			})
		}
	}

	if len(ops) == 0 {
		ops = append(ops, models.FileOperation{
			Path:                "src/features/" + slugify(req.Text) + ".ts",
			Kind:                models.OpCreate,
			Domain:              FallbackDomain,
			SourceRequirementID: req.ID,
		})
	}

	return ops
}

// InferAll runs Infer over every requirement, preserving order.
func (in *Inferrer) InferAll(reqs []*models.Requirement) []models.FileOperation {
	var ops []models.FileOperation
	for _, req := range reqs {
		ops = append(ops, in.Infer(req)...)
	}
	return ops
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// slugMaxWords bounds how much of the requirement text feeds the path.
const slugMaxWords = 5

// slugify derives a stable filename stem from requirement text.
func slugify(text string) string {
	words := strings.Fields(strings.ToLower(text))
	if len(words) > slugMaxWords {
		words = words[:slugMaxWords]
	}
	slug := nonSlug.ReplaceAllString(strings.Join(words, "-"), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "feature"
	}
	return slug
}
