package plan

import (
	"reflect"
	"strings"
	"testing"
)

// assertConformant walks the campaign schema and fails on any missing
// section, wrong-shaped object, or list path not holding an actual list.
func assertConformant(t *testing.T, value map[string]any) {
	t.Helper()

	schema := CampaignSchema()
	for _, section := range schema.Sections {
		current, ok := value[section.Name]
		if !ok {
			t.Errorf("missing section %q", section.Name)
			continue
		}
		if section.Kind == KindObject {
			if _, ok := current.(map[string]any); !ok {
				t.Errorf("section %q: expected object, got %T", section.Name, current)
			}
		}
	}

	for _, path := range schema.ListPaths() {
		parts := strings.Split(path, ".")
		node := value
		for i := 0; i < len(parts)-1; i++ {
			next, ok := node[parts[i]].(map[string]any)
			if !ok {
				t.Errorf("path %q: missing intermediate object %q", path, parts[i])
				node = nil
				break
			}
			node = next
		}
		if node == nil {
			continue
		}
		if _, ok := node[parts[len(parts)-1]].([]any); !ok {
			t.Errorf("path %q: expected list, got %T", path, node[parts[len(parts)-1]])
		}
	}
}

func TestSynthesize_Conformant(t *testing.T) {
	assertConformant(t, Synthesize(Request{Mode: ModeAuto, SubjectName: "Acme", SubjectCategory: "retail"}))
	assertConformant(t, Synthesize(Request{Mode: ModeGuided, Guided: &GuidedInputs{Objectives: "double signups"}}))
	assertConformant(t, Synthesize(Request{}))
}

func TestSynthesize_Deterministic(t *testing.T) {
	req := Request{
		Mode:            ModeGuided,
		SubjectName:     "Acme",
		SubjectCategory: "outdoor gear",
		Guided: &GuidedInputs{
			Objectives:        "double signups before summer",
			SuccessDefinition: "1k new subscribers",
			Notes:             "tone should stay playful",
		},
	}

	first := Synthesize(req)
	second := Synthesize(req)

	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical output for identical requests")
	}
}

func TestSynthesize_SubjectAppearsInContent(t *testing.T) {
	got := Synthesize(Request{Mode: ModeAuto, SubjectName: "Acme", SubjectCategory: "retail"})

	overview := got["campaignSummary"].(map[string]any)["overview"].(string)
	if !strings.Contains(overview, "Acme") {
		t.Errorf("expected subject name in overview, got %q", overview)
	}
	if !strings.Contains(overview, "retail") {
		t.Errorf("expected category in overview, got %q", overview)
	}
}

func TestSynthesize_GuidedInputsVerbatim(t *testing.T) {
	guided := &GuidedInputs{
		Objectives:        "double signups before summer",
		SuccessDefinition: "1k new subscribers in 60 days",
	}
	got := Synthesize(Request{Mode: ModeGuided, SubjectName: "Acme", Guided: guided})

	objectives := got["campaignSummary"].(map[string]any)["objectives"].([]any)
	if len(objectives) != 1 || objectives[0] != guided.Objectives {
		t.Errorf("expected caller objectives verbatim, got %#v", objectives)
	}

	success := got["kpis"].(map[string]any)["successDefinition"]
	if success != guided.SuccessDefinition {
		t.Errorf("expected caller success definition verbatim, got %v", success)
	}
}

func TestSynthesize_AutoIgnoresGuidedInputs(t *testing.T) {
	guided := &GuidedInputs{Objectives: "should not appear"}
	got := Synthesize(Request{Mode: ModeAuto, SubjectName: "Acme", Guided: guided})

	objectives := got["campaignSummary"].(map[string]any)["objectives"].([]any)
	for _, o := range objectives {
		if o == guided.Objectives {
			t.Error("guided objectives leaked into auto mode")
		}
	}
}
