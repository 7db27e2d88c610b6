package core

import "context"

// AIProvider is one configured generation backend. Chat performs a single
// model invocation; bounded retries are layered on top by the caller.
type AIProvider interface {
	Chat(ctx context.Context, req ChatRequest) (Message, error)
	Models(ctx context.Context) ([]Model, error)
}
