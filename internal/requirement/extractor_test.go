package requirement

import "testing"

func TestExtractEnumeratedList(t *testing.T) {
	text := "1. Create login form\n2. Build API for user data\n3. Setup Docker deployment"

	reqs := Extract(text)
	if len(reqs) != 3 {
		t.Fatalf("expected 3 requirements, got %d", len(reqs))
	}

	want := []string{
		"Create login form",
		"Build API for user data",
		"Setup Docker deployment",
	}
	for i, w := range want {
		if reqs[i].Text != w {
			t.Errorf("requirement %d: expected %q, got %q", i, w, reqs[i].Text)
		}
	}
}

func TestExtractPreservesDocumentOrder(t *testing.T) {
	text := "intro paragraph\n2. second\nsome prose\n5. fifth\n1. first"

	reqs := Extract(text)
	if len(reqs) != 3 {
		t.Fatalf("expected 3 requirements, got %d", len(reqs))
	}
	// Document order, not numeric order.
	if reqs[0].Text != "second" || reqs[1].Text != "fifth" || reqs[2].Text != "first" {
		t.Errorf("unexpected order: %q %q %q", reqs[0].Text, reqs[1].Text, reqs[2].Text)
	}
}

func TestExtractNoListMarkers(t *testing.T) {
	text := "Add OAuth login support across the app"

	reqs := Extract(text)
	if len(reqs) != 1 {
		t.Fatalf("expected 1 requirement, got %d", len(reqs))
	}
	if reqs[0].Text != text {
		t.Errorf("expected whole text as requirement, got %q", reqs[0].Text)
	}
}

func TestExtractEmptyText(t *testing.T) {
	reqs := Extract("")
	if len(reqs) != 1 {
		t.Fatalf("expected exactly 1 requirement for empty text, got %d", len(reqs))
	}
	if reqs[0].Text != "" {
		t.Errorf("expected empty content, got %q", reqs[0].Text)
	}
}

func TestExtractWhitespaceOnly(t *testing.T) {
	reqs := Extract("   \n\t\n  ")
	if len(reqs) != 1 {
		t.Fatalf("expected exactly 1 requirement for whitespace text, got %d", len(reqs))
	}
	if reqs[0].Text != "" {
		t.Errorf("expected empty content, got %q", reqs[0].Text)
	}
}

func TestExtractIndentedListItems(t *testing.T) {
	text := "  1. indented item\n\t2. tab indented"

	reqs := Extract(text)
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requirements, got %d", len(reqs))
	}
	if reqs[0].Text != "indented item" || reqs[1].Text != "tab indented" {
		t.Errorf("unexpected texts: %q %q", reqs[0].Text, reqs[1].Text)
	}
}

func TestExtractDeterministicIDs(t *testing.T) {
	text := "1. one\n2. two"

	first := Extract(text)
	second := Extract(text)
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("requirement IDs not deterministic: %s vs %s", first[i].ID, second[i].ID)
		}
	}
}
