package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/briefbot/pkg/log"
)

// PipelineConfig tunes the generation pipeline: how hard brief generation
// retries and how much conversation history rides along on a turn.
type PipelineConfig struct {
	GenerationAttempts int           `env:"GENERATION_ATTEMPTS" envDefault:"2"`
	GenerationBackoff  time.Duration `env:"GENERATION_BACKOFF" envDefault:"2s"`

	HistoryTurns       int `env:"CONVERSE_HISTORY_TURNS" envDefault:"10"`
	HistoryTokenBudget int `env:"CONVERSE_HISTORY_TOKENS" envDefault:"3000"`
}

func NewPipelineConfig(ctx context.Context) *PipelineConfig {
	c := &PipelineConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Pipeline config")
	}
	return c
}
