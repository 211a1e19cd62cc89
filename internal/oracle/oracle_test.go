package oracle

import (
	"testing"

	"github.com/AojdevStudio/cdev-sub004/pkg/models"
)

func TestAccept(t *testing.T) {
	tests := []struct {
		name       string
		suggestion *Suggestion
		threshold  float64
		want       bool
	}{
		{
			name:       "above threshold",
			suggestion: &Suggestion{Agents: []SuggestedAgent{{Domain: "auth"}}, Confidence: 0.9},
			threshold:  0.8,
			want:       true,
		},
		{
			name:       "exactly at threshold",
			suggestion: &Suggestion{Agents: []SuggestedAgent{{Domain: "auth"}}, Confidence: 0.8},
			threshold:  0.8,
			want:       true,
		},
		{
			name:       "below threshold",
			suggestion: &Suggestion{Agents: []SuggestedAgent{{Domain: "auth"}}, Confidence: 0.79},
			threshold:  0.8,
			want:       false,
		},
		{
			name:       "zero threshold uses default",
			suggestion: &Suggestion{Agents: []SuggestedAgent{{Domain: "auth"}}, Confidence: 0.75},
			threshold:  0,
			want:       false,
		},
		{
			name:       "no agents never accepted",
			suggestion: &Suggestion{Confidence: 0.99},
			threshold:  0.8,
			want:       false,
		},
		{
			name:      "nil suggestion",
			threshold: 0.8,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Accept(tt.suggestion, tt.threshold); got != tt.want {
				t.Errorf("Accept() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOperations(t *testing.T) {
	s := &Suggestion{
		Agents: []SuggestedAgent{
			{
				Domain:        "auth",
				FilesToCreate: []string{"src/auth/service.ts"},
				FilesToModify: []string{"src/app.ts"},
			},
			{
				Domain:        "data",
				FilesToCreate: []string{"src/models/user.ts"},
			},
		},
		Confidence: 0.9,
	}

	ops, err := Operations(s, []string{"req-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ops) != 3 {
		t.Fatalf("expected 3 operations, got %d", len(ops))
	}

	kinds := map[string]models.OpKind{}
	domains := map[string]string{}
	for _, op := range ops {
		kinds[op.Path] = op.Kind
		domains[op.Path] = op.Domain
		if op.SourceRequirementID != "req-1" {
			t.Errorf("op %s missing requirement attribution", op.Path)
		}
	}
	if kinds["src/auth/service.ts"] != models.OpCreate {
		t.Error("create file must be OpCreate")
	}
	if kinds["src/app.ts"] != models.OpModify {
		t.Error("modify file must be OpModify")
	}
	if domains["src/models/user.ts"] != "data" {
		t.Error("operation must carry its agent's domain tag")
	}
}

func TestOperationsRejectsEmpty(t *testing.T) {
	if _, err := Operations(&Suggestion{Agents: []SuggestedAgent{{Domain: "auth"}}}, nil); err == nil {
		t.Error("expected error for suggestion with no file operations")
	}
	if _, err := Operations(&Suggestion{Agents: []SuggestedAgent{{FilesToCreate: []string{"a.ts"}}}}, nil); err == nil {
		t.Error("expected error for agent without domain")
	}
}

func TestParseSuggestion(t *testing.T) {
	response := "Here is the decomposition:\n```json\n" + `{
  "agents": [
    {"domain": "auth", "role": "auth_specialist", "files_to_create": ["src/auth/a.ts"]}
  ],
  "project_type": "web-app",
  "confidence": 0.85,
  "reasoning": "single concern"
}` + "\n```\nLet me know if you need changes."

	s, err := ParseSuggestion(response)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Agents) != 1 || s.Agents[0].Domain != "auth" {
		t.Errorf("unexpected agents: %+v", s.Agents)
	}
	if s.Confidence != 0.85 {
		t.Errorf("confidence = %v, want 0.85", s.Confidence)
	}
	if s.ProjectType != "web-app" {
		t.Errorf("project type = %q", s.ProjectType)
	}
}

func TestParseSuggestionErrors(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"no json", "I could not decompose this task."},
		{"malformed json", `{"agents": [`},
		{"confidence out of range", `{"agents": [{"domain": "auth"}], "confidence": 1.5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSuggestion(tt.response); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}
