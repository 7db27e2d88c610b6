package llm

import (
	"context"

	"github.com/sandevgo/briefbot/internal/core"
	"github.com/sandevgo/briefbot/pkg/log"
	"github.com/sandevgo/briefbot/pkg/retry"
)

// Retrying decorates a provider with a bounded retry policy. Any failure of
// the wrapped Chat counts as one attempt; once the policy is exhausted the
// call surfaces a GenerationUnavailableError carrying the last error.
type Retrying struct {
	inner    core.AIProvider
	retrier  *retry.Retrier
	attempts int
}

func NewRetrying(inner core.AIProvider, policy retry.Policy) *Retrying {
	return &Retrying{
		inner:    inner,
		retrier:  retry.New(policy),
		attempts: policy.MaxAttempts,
	}
}

func (r *Retrying) Chat(ctx context.Context, req core.ChatRequest) (core.Message, error) {
	var msg core.Message
	attempt := 0

	err := r.retrier.Do(ctx, func() error {
		attempt++
		var err error
		msg, err = r.inner.Chat(ctx, req)
		if err != nil {
			log.FromCtx(ctx).Warn().Err(err).
				Int("attempt", attempt).
				Int("max_attempts", r.attempts).
				Msg("generation attempt failed")
		}
		return err
	})
	if err != nil {
		return core.Message{}, &core.GenerationUnavailableError{Attempts: attempt, Last: err}
	}
	return msg, nil
}

// Models passes through; the catalog endpoint is cheap and not retried.
func (r *Retrying) Models(ctx context.Context) ([]core.Model, error) {
	return r.inner.Models(ctx)
}
