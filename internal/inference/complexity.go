package inference

import "strings"

// Complexity buckets a work item's overall difficulty. It scales every
// agent's base duration in a plan.
type Complexity string

const (
	// ComplexityLow scales durations down.
	ComplexityLow Complexity = "low"
	// ComplexityMedium leaves durations unchanged.
	ComplexityMedium Complexity = "medium"
	// ComplexityHigh scales durations up.
	ComplexityHigh Complexity = "high"
)

// Multiplier returns the duration scale factor for the bucket.
func (c Complexity) Multiplier() float64 {
	switch c {
	case ComplexityLow:
		return 0.7
	case ComplexityHigh:
		return 1.5
	default:
		return 1.0
	}
}

// Scorer assigns a complexity bucket to a work item's full text.
// The heuristic is deliberately pluggable: the default is keyword-and-length
// based, with no normative definition of complexity behind it.
type Scorer interface {
	Score(text string) Complexity
}

// KeywordScorer is the default Scorer. It adds bounded penalties for text
// length, distinct technologies mentioned, and complexity keywords, then
// buckets the total.
type KeywordScorer struct {
	// Technologies counted toward the score, one point each.
	Technologies []string
	// ComplexityKeywords add two points each.
	ComplexityKeywords []string
}

// NewKeywordScorer returns a KeywordScorer with the default vocabularies.
func NewKeywordScorer() *KeywordScorer {
	return &KeywordScorer{
		Technologies: []string{
			"react", "vue", "angular", "typescript", "node",
			"docker", "kubernetes", "terraform",
			"postgres", "postgresql", "mysql", "mongodb", "redis",
			"graphql", "grpc", "websocket", "kafka", "aws",
		},
		ComplexityKeywords: []string{
			"integration", "security", "migration", "real-time",
			"scalable", "distributed", "concurrent",
		},
	}
}

// Bounded caps for each additive component.
const (
	maxLengthPoints  = 3
	maxTechPoints    = 4
	maxKeywordPoints = 6

	lowCeiling    = 3 // score < lowCeiling    => low
	mediumCeiling = 7 // score < mediumCeiling => medium
)

// Score buckets the text into low, medium, or high.
func (s *KeywordScorer) Score(text string) Complexity {
	lowered := strings.ToLower(text)

	points := len(text) / 200
	if points > maxLengthPoints {
		points = maxLengthPoints
	}

	tech := 0
	for _, t := range s.Technologies {
		if strings.Contains(lowered, t) {
			tech++
		}
	}
	if tech > maxTechPoints {
		tech = maxTechPoints
	}
	points += tech

	kw := 0
	for _, k := range s.ComplexityKeywords {
		if strings.Contains(lowered, k) {
			kw += 2
		}
	}
	if kw > maxKeywordPoints {
		kw = maxKeywordPoints
	}
	points += kw

	switch {
	case points < lowCeiling:
		return ComplexityLow
	case points < mediumCeiling:
		return ComplexityMedium
	default:
		return ComplexityHigh
	}
}
