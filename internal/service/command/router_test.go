package command

import (
	"context"
	"strings"
	"testing"

	"github.com/sandevgo/briefbot/internal/core"
)

type fakeCommand struct {
	name   string
	result string
	err    error
}

func (f *fakeCommand) Name() string        { return f.name }
func (f *fakeCommand) Description() string { return "fake" }
func (f *fakeCommand) Execute(context.Context, string, []string) (string, error) {
	return f.result, f.err
}

func TestRouter_Execute(t *testing.T) {
	router := New([]core.Command{&fakeCommand{name: "plan", result: "brief"}})

	tests := []struct {
		name       string
		input      string
		want       string
		wantHandle bool
	}{
		{"plain text passes through", "tell me about acme", "", false},
		{"known command", "/plan acme", "brief", true},
		{"unknown command", "/nope", "Unknown command: /nope. Try /help.", true},
		{"help lists commands", "/help", "/plan: fake", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, handled := router.Execute(context.Background(), "session", tt.input)
			if handled != tt.wantHandle {
				t.Fatalf("handled = %v, want %v", handled, tt.wantHandle)
			}
			if tt.want != "" && !strings.Contains(got, tt.want) {
				t.Errorf("result = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestRenderBrief_SchemaOrderAndTitles(t *testing.T) {
	artifact := map[string]any{
		"kpis": map[string]any{
			"primary":           []any{"CTR", "CPL"},
			"successDefinition": "beat last quarter",
		},
		"campaignSummary": map[string]any{
			"overview":   "spring push",
			"objectives": []any{"grow reach"},
		},
		"nextSteps": []any{"book kickoff"},
	}

	out := renderBrief(artifact)

	summaryAt := strings.Index(out, "**Campaign Summary**")
	kpisAt := strings.Index(out, "**KPIs**")
	stepsAt := strings.Index(out, "**Next Steps**")
	if summaryAt == -1 || kpisAt == -1 || stepsAt == -1 {
		t.Fatalf("missing section headers:\n%s", out)
	}
	if !(summaryAt < kpisAt && kpisAt < stepsAt) {
		t.Errorf("sections out of schema order:\n%s", out)
	}
	if !strings.Contains(out, "› CTR") || !strings.Contains(out, "› book kickoff") {
		t.Errorf("list items not rendered:\n%s", out)
	}
	if !strings.Contains(out, "_Success Definition_: beat last quarter") {
		t.Errorf("string field not rendered:\n%s", out)
	}
}
