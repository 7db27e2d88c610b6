package core

import (
	"context"
	"time"
)

// AnalysisStore persists generated briefs and serves prior analyses used to
// seed prompts. LatestAnalysis reports a miss as (nil, nil); callers treat
// lookup errors as "no context available", never as fatal.
type AnalysisStore interface {
	SaveAnalysis(ctx context.Context, a Analysis) (int64, error)
	LatestAnalysis(ctx context.Context, subject string) (*Analysis, error)
	RecentAnalyses(ctx context.Context, limit int) ([]Analysis, error)
}

// MessagesRepository persists chat transcripts per conversation session.
type MessagesRepository interface {
	AddMessage(ctx context.Context, sessionID string, msg Message) error
	GetMessages(ctx context.Context, sessionID string, limit int) ([]Message, error)
}

type Analysis struct {
	ID        int64          `json:"id"`
	Subject   string         `json:"subject"`
	Category  string         `json:"category"`
	Mode      string         `json:"mode"`
	Artifact  map[string]any `json:"artifact"`
	Fallback  bool           `json:"fallback"`
	CreatedAt time.Time      `json:"created_at"`
}
