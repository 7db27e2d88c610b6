package chat

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/sandevgo/briefbot/internal/config"
	"github.com/sandevgo/briefbot/internal/core"
	"github.com/sandevgo/briefbot/internal/telemetry"
	"github.com/sandevgo/briefbot/pkg/log"
)

// sweepDivisor makes roughly one turn in ten pay for cache eviction instead
// of running a background timer.
const sweepDivisor = 10

var ErrEmptyMessage = errors.New("message is empty")

type AIProvider interface {
	Chat(ctx context.Context, req core.ChatRequest) (core.Message, error)
}

// AnalysisLookup supplies the most recent stored analysis for a subject.
// Lookup failures degrade to "no prior context", they never fail a turn.
type AnalysisLookup interface {
	LatestAnalysis(ctx context.Context, subject string) (*core.Analysis, error)
}

// Request is one conversational turn. History carries the prior exchange in
// oldest-first order; Initialized reports whether the caller believes this
// conversation already has a cached context.
type Request struct {
	Message        string
	SubjectContext map[string]any
	Initialized    bool
	History        []core.Message
}

type Service struct {
	cfg       *config.PipelineConfig
	ai        AIProvider
	lookup    AnalysisLookup
	cache     *ContextCache
	metrics   *telemetry.Metrics
	sweepRoll func() int
	tokens    func(string) int
}

func NewService(
	cfg *config.PipelineConfig,
	ai AIProvider,
	lookup AnalysisLookup,
	cache *ContextCache,
	metrics *telemetry.Metrics,
) *Service {
	return &Service{
		cfg:       cfg,
		ai:        ai,
		lookup:    lookup,
		cache:     cache,
		metrics:   metrics,
		sweepRoll: func() int { return rand.Intn(sweepDivisor) },
		tokens:    countTokens,
	}
}

// Converse runs one turn against the model. A new or evicted conversation
// gets a freshly built system context; an initialized one reuses the cached
// context plus recent history.
func (s *Service) Converse(ctx context.Context, req Request) (string, error) {
	logger := log.FromCtx(ctx)

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return "", ErrEmptyMessage
	}

	if s.sweepRoll() == 0 {
		if removed := s.cache.Sweep(); removed > 0 {
			s.metrics.CacheEvent(telemetry.CacheEvicted, removed)
			logger.Debug().Int("removed", removed).Msg("context cache swept")
		}
	}

	name := subjectField(req.SubjectContext, "name", "subjectName")
	category := subjectField(req.SubjectContext, "category", "subjectCategory")
	key := ConversationKey(name, category)

	var systemContext string
	entry, cached := s.cache.Get(key)
	resumed := req.Initialized && cached
	if resumed {
		s.cache.Touch(key)
		systemContext = entry.SystemContext
		s.metrics.CacheEvent(telemetry.CacheHit, 1)
	} else {
		systemContext = s.buildSystemContext(ctx, name, req.SubjectContext)
		s.cache.Put(key, systemContext)
		s.metrics.CacheEvent(telemetry.CacheMiss, 1)
	}

	messages := make([]core.Message, 0, 2+len(req.History))
	messages = append(messages, core.Message{Role: core.RoleSystem, Content: systemContext})
	if resumed {
		messages = append(messages, s.trimHistory(req.History)...)
	}
	messages = append(messages, core.Message{Role: core.RoleUser, Content: message})

	reply, err := s.ai.Chat(ctx, core.ChatRequest{Messages: messages})
	if err != nil {
		s.metrics.ConverseTurn("error")
		return "", fmt.Errorf("chat completion: %w", err)
	}

	s.metrics.ConverseTurn("ok")
	return reply.Content, nil
}

// subjectField returns the first non-empty string among the named keys.
func subjectField(subject map[string]any, keys ...string) string {
	for _, key := range keys {
		if value, ok := subject[key].(string); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}
