package state

import (
	"context"
)

type provider interface {
	SetModel(ctx context.Context, model string) error
}

// GlobalState owns runtime-mutable process state. Today that is only the
// active model; routing the change through one place keeps transports from
// reaching into the provider directly.
type GlobalState struct {
	provider provider
}

func NewGlobalState(
	provider provider,
) *GlobalState {
	return &GlobalState{
		provider: provider,
	}
}

func (s *GlobalState) ChangeModel(ctx context.Context, model string) error {
	return s.provider.SetModel(ctx, model)
}
