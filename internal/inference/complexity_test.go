package inference

import (
	"strings"
	"testing"
)

func TestScoreShortTextIsLow(t *testing.T) {
	s := NewKeywordScorer()
	if got := s.Score("Fix typo in readme"); got != ComplexityLow {
		t.Errorf("expected low, got %s", got)
	}
}

func TestScoreTechnologiesRaiseComplexity(t *testing.T) {
	s := NewKeywordScorer()
	got := s.Score("Wire react frontend to postgres via graphql and redis caching")
	if got == ComplexityLow {
		t.Errorf("expected medium or high for multi-technology text, got %s", got)
	}
}

func TestScoreComplexityKeywordsReachHigh(t *testing.T) {
	s := NewKeywordScorer()
	got := s.Score("Security hardening of postgres with distributed integration tests")
	if got != ComplexityHigh {
		t.Errorf("expected high, got %s", got)
	}
}

func TestScoreLengthPenaltyIsBounded(t *testing.T) {
	s := NewKeywordScorer()
	// Pure length with no technologies or keywords caps at maxLengthPoints,
	// which stays inside the medium bucket.
	long := strings.Repeat("rearrange the menu entries please ", 200)
	if got := s.Score(long); got == ComplexityHigh {
		t.Errorf("length alone should not reach high, got %s", got)
	}
}

func TestMultipliers(t *testing.T) {
	tests := []struct {
		c    Complexity
		want float64
	}{
		{ComplexityLow, 0.7},
		{ComplexityMedium, 1.0},
		{ComplexityHigh, 1.5},
		{Complexity("unknown"), 1.0},
	}
	for _, tt := range tests {
		if got := tt.c.Multiplier(); got != tt.want {
			t.Errorf("%s: expected %.1f, got %.1f", tt.c, tt.want, got)
		}
	}
}
