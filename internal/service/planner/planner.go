package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/briefbot/internal/core"
	"github.com/sandevgo/briefbot/internal/plan"
	"github.com/sandevgo/briefbot/internal/telemetry"
	"github.com/sandevgo/briefbot/pkg/log"
)

// AIProvider issues one chat completion. The wired implementation already
// retries transient failures, so a returned error means the policy is spent.
type AIProvider interface {
	Chat(ctx context.Context, req core.ChatRequest) (core.Message, error)
}

// AnalysisStore persists finished briefs and serves the most recent one per
// subject. Both operations degrade: a failed save loses only history, a
// failed lookup just means an unseeded prompt.
type AnalysisStore interface {
	SaveAnalysis(ctx context.Context, a core.Analysis) (int64, error)
	LatestAnalysis(ctx context.Context, subject string) (*core.Analysis, error)
}

// Result is everything a transport needs to answer a generation call.
// Fallback false means the artifact came from the model; true means it was
// synthesized offline and Cause says why.
type Result struct {
	Artifact    map[string]any
	SubjectName string
	Mode        string
	Fallback    bool
	Cause       string
}

type Service struct {
	ai      AIProvider
	store   AnalysisStore
	schema  plan.Schema
	metrics *telemetry.Metrics
}

func NewService(ai AIProvider, store AnalysisStore, metrics *telemetry.Metrics) *Service {
	return &Service{
		ai:      ai,
		store:   store,
		schema:  plan.CampaignSchema(),
		metrics: metrics,
	}
}

// Generate produces a complete campaign brief for req. It is total: whatever
// the model, the parser or the store do, the caller gets a schema-conformant
// artifact. Fallback content is flagged, never silently substituted.
func (s *Service) Generate(ctx context.Context, req plan.Request) (result Result) {
	logger := log.FromCtx(ctx)
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("generation pipeline panicked, serving fallback brief")
			result = s.fallback(ctx, req, fmt.Sprintf("unexpected failure: %v", r))
		}
		s.metrics.BriefGenerated(req.Mode, result.Fallback, time.Since(started).Seconds())
	}()

	reply, err := s.ai.Chat(ctx, core.ChatRequest{
		Messages: []core.Message{
			{Role: core.RoleSystem, Content: systemPrompt},
			{Role: core.RoleUser, Content: s.userPrompt(ctx, req)},
		},
	})
	if err != nil {
		logger.Warn().Err(err).Str("subject", req.SubjectName).Msg("generation failed, serving fallback brief")
		return s.fallback(ctx, req, err.Error())
	}

	value, err := plan.Extract(reply.Content)
	if err != nil {
		logger.Warn().Err(err).Str("subject", req.SubjectName).Msg("model response had no usable structure, serving fallback brief")
		return s.fallback(ctx, req, "model returned no structured output")
	}

	artifact := plan.Repair(value, s.schema, func() map[string]any { return plan.Synthesize(req) })

	result = Result{
		Artifact:    artifact,
		SubjectName: req.SubjectName,
		Mode:        req.Mode,
	}
	s.persist(ctx, req, result)
	return result
}

func (s *Service) fallback(ctx context.Context, req plan.Request, cause string) Result {
	result := Result{
		Artifact:    plan.Synthesize(req),
		SubjectName: req.SubjectName,
		Mode:        req.Mode,
		Fallback:    true,
		Cause:       cause,
	}
	s.persist(ctx, req, result)
	return result
}

func (s *Service) persist(ctx context.Context, req plan.Request, result Result) {
	if s.store == nil {
		return
	}

	_, err := s.store.SaveAnalysis(ctx, core.Analysis{
		Subject:  req.SubjectName,
		Category: req.SubjectCategory,
		Mode:     result.Mode,
		Artifact: result.Artifact,
		Fallback: result.Fallback,
	})
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("subject", req.SubjectName).Msg("failed to persist brief")
	}
}
