package planner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sandevgo/briefbot/internal/core"
	"github.com/sandevgo/briefbot/internal/plan"
)

type stubAI struct {
	content  string
	err      error
	panicMsg string
	requests []core.ChatRequest
}

func (s *stubAI) Chat(_ context.Context, req core.ChatRequest) (core.Message, error) {
	s.requests = append(s.requests, req)
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	if s.err != nil {
		return core.Message{}, s.err
	}
	return core.Message{Role: core.RoleAssistant, Content: s.content}, nil
}

type recordingStore struct {
	saved     []core.Analysis
	saveErr   error
	latest    *core.Analysis
	latestErr error
}

func (r *recordingStore) SaveAnalysis(_ context.Context, a core.Analysis) (int64, error) {
	if r.saveErr != nil {
		return 0, r.saveErr
	}
	r.saved = append(r.saved, a)
	return int64(len(r.saved)), nil
}

func (r *recordingStore) LatestAnalysis(context.Context, string) (*core.Analysis, error) {
	return r.latest, r.latestErr
}

// assertConformant checks every schema section is present with the right
// shape and every list path holds an actual list.
func assertConformant(t *testing.T, artifact map[string]any) {
	t.Helper()

	schema := plan.CampaignSchema()
	for _, section := range schema.Sections {
		value, ok := artifact[section.Name]
		if !ok {
			t.Errorf("artifact missing section %q", section.Name)
			continue
		}
		if section.Kind == plan.KindObject {
			if _, ok := value.(map[string]any); !ok {
				t.Errorf("section %q = %T, want object", section.Name, value)
			}
		}
	}

	for _, path := range schema.ListPaths() {
		parts := strings.Split(path, ".")
		var current any = artifact
		for _, part := range parts {
			m, ok := current.(map[string]any)
			if !ok {
				t.Errorf("path %q interrupted at %q", path, part)
				return
			}
			current = m[part]
		}
		if _, ok := current.([]any); !ok {
			t.Errorf("path %q = %T, want list", path, current)
		}
	}
}

func TestGenerate_CleanModelOutput(t *testing.T) {
	ai := &stubAI{content: "```json\n{\"campaignSummary\":{\"overview\":\"x\"}}\n```"}
	svc := NewService(ai, nil, nil)

	result := svc.Generate(context.Background(), plan.Request{Mode: plan.ModeAuto, SubjectName: "Acme"})

	if result.Fallback {
		t.Fatalf("Fallback = true, cause %q; want model content", result.Cause)
	}
	if result.SubjectName != "Acme" || result.Mode != plan.ModeAuto {
		t.Errorf("result identity = %q/%q", result.SubjectName, result.Mode)
	}

	summary, ok := result.Artifact["campaignSummary"].(map[string]any)
	if !ok {
		t.Fatalf("campaignSummary = %T, want object", result.Artifact["campaignSummary"])
	}
	if summary["overview"] != "x" {
		t.Errorf("overview = %v, want x (model content must survive repair)", summary["overview"])
	}

	assertConformant(t, result.Artifact)

	strategy := result.Artifact["strategy"].(map[string]any)
	if _, ok := strategy["channels"].([]any); !ok {
		t.Errorf("strategy.channels = %T, want list", strategy["channels"])
	}
}

func TestGenerate_ProviderExhaustedServesFallback(t *testing.T) {
	ai := &stubAI{err: &core.GenerationUnavailableError{Attempts: 2, Last: errors.New("upstream 503")}}
	svc := NewService(ai, nil, nil)

	result := svc.Generate(context.Background(), plan.Request{Mode: plan.ModeAuto, SubjectName: "Acme"})

	if !result.Fallback {
		t.Fatal("Fallback = false, want true when generation is unavailable")
	}
	if result.Cause == "" {
		t.Error("Cause should carry a human-readable reason")
	}
	assertConformant(t, result.Artifact)
}

func TestGenerate_UnparseableOutputServesFallback(t *testing.T) {
	ai := &stubAI{content: "I'd be happy to help, but I can only answer in plain prose."}
	svc := NewService(ai, nil, nil)

	result := svc.Generate(context.Background(), plan.Request{Mode: plan.ModeAuto, SubjectName: "Acme"})

	if !result.Fallback {
		t.Fatal("Fallback = false, want true for unparseable output")
	}
	if !strings.Contains(result.Cause, "structured output") {
		t.Errorf("Cause = %q", result.Cause)
	}
	assertConformant(t, result.Artifact)
}

func TestGenerate_GuidedInputsSurviveFallback(t *testing.T) {
	ai := &stubAI{err: errors.New("down")}
	svc := NewService(ai, nil, nil)

	result := svc.Generate(context.Background(), plan.Request{
		Mode:        plan.ModeGuided,
		SubjectName: "Acme",
		Guided: &plan.GuidedInputs{
			Objectives:        "Double trial signups in Q3",
			SuccessDefinition: "1000 paying conversions",
		},
	})

	summary := result.Artifact["campaignSummary"].(map[string]any)
	objectives := summary["objectives"].([]any)
	if len(objectives) != 1 || objectives[0] != "Double trial signups in Q3" {
		t.Errorf("objectives = %v, want the caller's wording verbatim", objectives)
	}
	kpis := result.Artifact["kpis"].(map[string]any)
	if kpis["successDefinition"] != "1000 paying conversions" {
		t.Errorf("successDefinition = %v", kpis["successDefinition"])
	}
}

func TestGenerate_PanicRecoveredAsFallback(t *testing.T) {
	ai := &stubAI{panicMsg: "nil map write"}
	svc := NewService(ai, nil, nil)

	result := svc.Generate(context.Background(), plan.Request{Mode: plan.ModeAuto, SubjectName: "Acme"})

	if !result.Fallback {
		t.Fatal("Fallback = false, want true after pipeline panic")
	}
	if !strings.Contains(result.Cause, "unexpected failure") {
		t.Errorf("Cause = %q", result.Cause)
	}
	assertConformant(t, result.Artifact)
}

func TestGenerate_PersistsBrief(t *testing.T) {
	ai := &stubAI{content: `{"campaignSummary":{"overview":"x"}}`}
	store := &recordingStore{}
	svc := NewService(ai, store, nil)

	svc.Generate(context.Background(), plan.Request{
		Mode:            plan.ModeAuto,
		SubjectName:     "Acme",
		SubjectCategory: "retail",
	})

	if len(store.saved) != 1 {
		t.Fatalf("saved %d analyses, want 1", len(store.saved))
	}
	saved := store.saved[0]
	if saved.Subject != "Acme" || saved.Category != "retail" || saved.Mode != plan.ModeAuto {
		t.Errorf("saved identity = %+v", saved)
	}
	if saved.Fallback {
		t.Error("model-produced brief saved with Fallback = true")
	}
	if _, ok := saved.Artifact["campaignSummary"]; !ok {
		t.Error("saved artifact missing content")
	}
}

func TestGenerate_SaveFailureDoesNotFailRequest(t *testing.T) {
	ai := &stubAI{content: `{"campaignSummary":{"overview":"x"}}`}
	store := &recordingStore{saveErr: errors.New("disk full")}
	svc := NewService(ai, store, nil)

	result := svc.Generate(context.Background(), plan.Request{Mode: plan.ModeAuto, SubjectName: "Acme"})

	if result.Fallback {
		t.Error("persistence failure must not degrade the response")
	}
	assertConformant(t, result.Artifact)
}

func TestGenerate_PriorBriefSeedsPrompt(t *testing.T) {
	ai := &stubAI{content: `{"campaignSummary":{"overview":"x"}}`}
	store := &recordingStore{latest: &core.Analysis{
		Subject:  "Acme",
		Mode:     plan.ModeAuto,
		Artifact: map[string]any{"campaignSummary": map[string]any{"overview": "last quarter push"}},
	}}
	svc := NewService(ai, store, nil)

	svc.Generate(context.Background(), plan.Request{Mode: plan.ModeAuto, SubjectName: "Acme"})

	prompt := ai.requests[0].Messages[1].Content
	if !strings.Contains(prompt, "last quarter push") {
		t.Errorf("prompt missing prior brief content:\n%s", prompt)
	}
}

func TestGenerate_FallbackPriorNotSeeded(t *testing.T) {
	ai := &stubAI{content: `{"campaignSummary":{"overview":"x"}}`}
	store := &recordingStore{latest: &core.Analysis{
		Subject:  "Acme",
		Fallback: true,
		Artifact: map[string]any{"campaignSummary": map[string]any{"overview": "placeholder prose"}},
	}}
	svc := NewService(ai, store, nil)

	svc.Generate(context.Background(), plan.Request{Mode: plan.ModeAuto, SubjectName: "Acme"})

	prompt := ai.requests[0].Messages[1].Content
	if strings.Contains(prompt, "placeholder prose") {
		t.Error("fallback brief must not seed future prompts")
	}
}

func TestGenerate_LookupFailureStillGenerates(t *testing.T) {
	ai := &stubAI{content: `{"campaignSummary":{"overview":"x"}}`}
	store := &recordingStore{latestErr: errors.New("store offline")}
	svc := NewService(ai, store, nil)

	result := svc.Generate(context.Background(), plan.Request{Mode: plan.ModeAuto, SubjectName: "Acme"})

	if result.Fallback {
		t.Error("lookup failure must not degrade the response")
	}
}

func TestRenderSkeleton_CoversSchema(t *testing.T) {
	skeleton := renderSkeleton(plan.CampaignSchema())

	for _, section := range plan.CampaignSchema().SectionNames() {
		if !strings.Contains(skeleton, `"`+section+`"`) {
			t.Errorf("skeleton missing section %q", section)
		}
	}
	if !strings.Contains(skeleton, `"channels": ["..."]`) {
		t.Errorf("skeleton should render list fields as example lists:\n%s", skeleton)
	}
}
