package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sandevgo/briefbot/internal/config"
	"github.com/sandevgo/briefbot/internal/core"
)

type scriptedAI struct {
	reply    core.Message
	err      error
	requests []core.ChatRequest
}

func (s *scriptedAI) Chat(_ context.Context, req core.ChatRequest) (core.Message, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return core.Message{}, s.err
	}
	return s.reply, nil
}

type staticLookup struct {
	analysis *core.Analysis
	err      error
	calls    int
}

func (l *staticLookup) LatestAnalysis(context.Context, string) (*core.Analysis, error) {
	l.calls++
	return l.analysis, l.err
}

func newTestService(ai *scriptedAI, lookup *staticLookup) *Service {
	cfg := &config.PipelineConfig{
		HistoryTurns:       10,
		HistoryTokenBudget: 3000,
	}
	svc := NewService(cfg, ai, lookup, NewContextCache(time.Hour), nil)
	svc.sweepRoll = func() int { return 1 } // never sweep unless a test opts in
	svc.tokens = func(s string) int { return len(strings.Fields(s)) }
	return svc
}

func subjectAcme() map[string]any {
	return map[string]any{
		"name":     "Acme",
		"category": "retail",
		"audience": "urban shoppers",
	}
}

func TestConverse_EmptyMessageRejected(t *testing.T) {
	svc := newTestService(&scriptedAI{}, &staticLookup{})

	_, err := svc.Converse(context.Background(), Request{Message: "   \n"})
	if !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("err = %v, want ErrEmptyMessage", err)
	}
}

func TestConverse_FirstTurnBuildsContext(t *testing.T) {
	ai := &scriptedAI{reply: core.Message{Role: core.RoleAssistant, Content: "Focus on loyalty first."}}
	svc := newTestService(ai, &staticLookup{})

	reply, err := svc.Converse(context.Background(), Request{
		Message:        "Where should Acme start?",
		SubjectContext: subjectAcme(),
	})
	if err != nil {
		t.Fatalf("Converse() error = %v", err)
	}
	if reply != "Focus on loyalty first." {
		t.Errorf("reply = %q", reply)
	}

	if len(ai.requests) != 1 {
		t.Fatalf("provider called %d times, want 1", len(ai.requests))
	}
	msgs := ai.requests[0].Messages
	if len(msgs) != 2 {
		t.Fatalf("first turn sent %d messages, want 2 (system + user)", len(msgs))
	}
	if msgs[0].Role != core.RoleSystem {
		t.Errorf("first message role = %q, want system", msgs[0].Role)
	}
	if !strings.Contains(msgs[0].Content, "audience: urban shoppers") {
		t.Errorf("system context missing subject field:\n%s", msgs[0].Content)
	}
	if msgs[1].Role != core.RoleUser || msgs[1].Content != "Where should Acme start?" {
		t.Errorf("unexpected user message: %+v", msgs[1])
	}

	if _, ok := svc.cache.Get(ConversationKey("Acme", "retail")); !ok {
		t.Error("first turn should cache the built context")
	}
}

func TestConverse_InitializedReusesCachedContext(t *testing.T) {
	ai := &scriptedAI{reply: core.Message{Role: core.RoleAssistant, Content: "ok"}}
	lookup := &staticLookup{}
	svc := newTestService(ai, lookup)

	first := Request{Message: "hi", SubjectContext: subjectAcme()}
	if _, err := svc.Converse(context.Background(), first); err != nil {
		t.Fatalf("first turn: %v", err)
	}

	second := Request{
		Message:        "What about channels?",
		SubjectContext: subjectAcme(),
		Initialized:    true,
		History: []core.Message{
			{Role: core.RoleUser, Content: "hi"},
			{Role: core.RoleAssistant, Content: "ok"},
		},
	}
	if _, err := svc.Converse(context.Background(), second); err != nil {
		t.Fatalf("second turn: %v", err)
	}

	if lookup.calls != 1 {
		t.Errorf("lookup called %d times, want 1 (context built once)", lookup.calls)
	}

	msgs := ai.requests[1].Messages
	if len(msgs) != 4 {
		t.Fatalf("second turn sent %d messages, want 4 (system + 2 history + user)", len(msgs))
	}
	if msgs[0].Content != ai.requests[0].Messages[0].Content {
		t.Error("second turn should reuse the cached system context")
	}
	if msgs[1].Content != "hi" || msgs[2].Content != "ok" {
		t.Errorf("history not forwarded in order: %+v", msgs[1:3])
	}
}

func TestConverse_EvictedKeyRebuildsWithoutHistory(t *testing.T) {
	ai := &scriptedAI{reply: core.Message{Role: core.RoleAssistant, Content: "ok"}}
	svc := newTestService(ai, &staticLookup{})

	// Caller believes the conversation is initialized, but the cache has no
	// entry (swept or process restarted). The turn must rebuild from scratch.
	req := Request{
		Message:        "continue",
		SubjectContext: subjectAcme(),
		Initialized:    true,
		History: []core.Message{
			{Role: core.RoleUser, Content: "hi"},
			{Role: core.RoleAssistant, Content: "ok"},
		},
	}
	if _, err := svc.Converse(context.Background(), req); err != nil {
		t.Fatalf("Converse() error = %v", err)
	}

	msgs := ai.requests[0].Messages
	if len(msgs) != 2 {
		t.Fatalf("rebuild turn sent %d messages, want 2 (history dropped)", len(msgs))
	}
	if _, ok := svc.cache.Get(ConversationKey("Acme", "retail")); !ok {
		t.Error("rebuild turn should store a fresh cache entry")
	}
}

func TestConverse_PriorAnalysisSeedsContext(t *testing.T) {
	ai := &scriptedAI{reply: core.Message{Role: core.RoleAssistant, Content: "ok"}}
	lookup := &staticLookup{analysis: &core.Analysis{
		Subject:   "Acme",
		Mode:      "auto",
		Artifact:  map[string]any{"campaignSummary": map[string]any{"overview": "spring push"}},
		CreatedAt: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	}}
	svc := newTestService(ai, lookup)

	if _, err := svc.Converse(context.Background(), Request{Message: "hi", SubjectContext: subjectAcme()}); err != nil {
		t.Fatalf("Converse() error = %v", err)
	}

	system := ai.requests[0].Messages[0].Content
	if !strings.Contains(system, "MOST RECENT CAMPAIGN BRIEF") {
		t.Errorf("system context missing prior brief section:\n%s", system)
	}
	if !strings.Contains(system, "spring push") {
		t.Errorf("system context missing prior brief content:\n%s", system)
	}
}

func TestConverse_LookupFailureDegrades(t *testing.T) {
	ai := &scriptedAI{reply: core.Message{Role: core.RoleAssistant, Content: "ok"}}
	lookup := &staticLookup{err: errors.New("store offline")}
	svc := newTestService(ai, lookup)

	reply, err := svc.Converse(context.Background(), Request{Message: "hi", SubjectContext: subjectAcme()})
	if err != nil {
		t.Fatalf("lookup failure must not fail the turn: %v", err)
	}
	if reply != "ok" {
		t.Errorf("reply = %q", reply)
	}
	if strings.Contains(ai.requests[0].Messages[0].Content, "MOST RECENT CAMPAIGN BRIEF") {
		t.Error("failed lookup should leave prior brief out of the context")
	}
}

func TestConverse_ProviderErrorPropagates(t *testing.T) {
	ai := &scriptedAI{err: errors.New("model unavailable")}
	svc := newTestService(ai, &staticLookup{})

	_, err := svc.Converse(context.Background(), Request{Message: "hi", SubjectContext: subjectAcme()})
	if err == nil {
		t.Fatal("expected provider error to propagate")
	}
	if !strings.Contains(err.Error(), "model unavailable") {
		t.Errorf("err = %v, want wrapped provider error", err)
	}
}

func TestConverse_HistoryTrimmedToRecentTurns(t *testing.T) {
	ai := &scriptedAI{reply: core.Message{Role: core.RoleAssistant, Content: "ok"}}
	svc := newTestService(ai, &staticLookup{})

	history := make([]core.Message, 0, 26)
	for i := 0; i < 13; i++ {
		history = append(history,
			core.Message{Role: core.RoleUser, Content: fmt.Sprintf("question %d", i)},
			core.Message{Role: core.RoleAssistant, Content: fmt.Sprintf("answer %d", i)},
		)
	}

	svc.cache.Put(ConversationKey("Acme", "retail"), "ctx")
	req := Request{
		Message:        "next",
		SubjectContext: subjectAcme(),
		Initialized:    true,
		History:        history,
	}
	if _, err := svc.Converse(context.Background(), req); err != nil {
		t.Fatalf("Converse() error = %v", err)
	}

	msgs := ai.requests[0].Messages
	// system + last 10 turns (20 messages) + user
	if len(msgs) != 22 {
		t.Fatalf("sent %d messages, want 22", len(msgs))
	}
	if msgs[1].Content != "question 3" {
		t.Errorf("oldest kept history message = %q, want %q", msgs[1].Content, "question 3")
	}
}

func TestConverse_HistoryTrimmedToTokenBudget(t *testing.T) {
	ai := &scriptedAI{reply: core.Message{Role: core.RoleAssistant, Content: "ok"}}
	svc := newTestService(ai, &staticLookup{})
	svc.cfg.HistoryTokenBudget = 5
	svc.tokens = func(string) int { return 3 }

	history := []core.Message{
		{Role: core.RoleUser, Content: "one"},
		{Role: core.RoleAssistant, Content: "two"},
		{Role: core.RoleUser, Content: "three"},
		{Role: core.RoleAssistant, Content: "four"},
	}

	svc.cache.Put(ConversationKey("Acme", "retail"), "ctx")
	req := Request{
		Message:        "next",
		SubjectContext: subjectAcme(),
		Initialized:    true,
		History:        history,
	}
	if _, err := svc.Converse(context.Background(), req); err != nil {
		t.Fatalf("Converse() error = %v", err)
	}

	msgs := ai.requests[0].Messages
	// Budget of 5 with 3 tokens per message keeps only the newest history entry.
	if len(msgs) != 3 {
		t.Fatalf("sent %d messages, want 3", len(msgs))
	}
	if msgs[1].Content != "four" {
		t.Errorf("kept history message = %q, want %q", msgs[1].Content, "four")
	}
}

func TestConverse_SweepRunsOnRoll(t *testing.T) {
	ai := &scriptedAI{reply: core.Message{Role: core.RoleAssistant, Content: "ok"}}
	svc := newTestService(ai, &staticLookup{})
	svc.sweepRoll = func() int { return 0 } // always sweep

	clock := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	svc.cache.now = func() time.Time { return clock }
	svc.cache.Put("stale|retail", "old ctx")
	clock = clock.Add(2 * time.Hour)

	if _, err := svc.Converse(context.Background(), Request{Message: "hi", SubjectContext: subjectAcme()}); err != nil {
		t.Fatalf("Converse() error = %v", err)
	}

	if _, ok := svc.cache.Get("stale|retail"); ok {
		t.Error("stale entry should be swept at turn start")
	}
}
