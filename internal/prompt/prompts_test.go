package prompt

import (
	"strings"
	"testing"
)

func TestFirstTurnInput(t *testing.T) {
	got := FirstTurnInput("cheap boots")
	if !strings.HasPrefix(got, System) {
		t.Error("expected system prompt prefix")
	}
	if !strings.HasSuffix(got, "\n\nUser: cheap boots") {
		t.Errorf("unexpected suffix: %q", got[len(got)-30:])
	}
}

func TestSearchTool(t *testing.T) {
	tool := SearchTool()
	if tool.Name != SearchToolName {
		t.Errorf("name = %q", tool.Name)
	}
	required, ok := tool.Schema["required"].([]string)
	if !ok || len(required) != 1 || required[0] != "query" {
		t.Errorf("expected required [query], got %v", tool.Schema["required"])
	}
	props := tool.Schema["properties"].(map[string]any)
	query := props["query"].(map[string]any)
	if query["type"] != "string" {
		t.Errorf("query type = %v", query["type"])
	}
}

func TestSQLUser(t *testing.T) {
	got := SQLUser("Nike running shoes", nil)

	for _, want := range []string{
		`Natural Language Query: "Nike running shoes"`,
		`Now convert this query: "Nike running shoes"`,
		"ankle boots, athletic shoes, boots",
		"name ILIKE '%Nike%'",
		"LIMIT 50",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	custom := SQLUser("x", []string{"sandals"})
	if !strings.Contains(custom, "all lowercase): sandals\n") {
		t.Error("expected custom category list")
	}
}
