package core

import (
	"context"
)

type ProviderConfig interface {
	GetModel() string
	SetModel(model string) error
	GetProvider() string
	GetAnthropicAPIKey() string
	GetOpenAIAPIKey() string
	GetOpenRouterAPIKey() string
	GetOllamaBaseURL() string
	GetCustomBaseURL() string
	GetCustomAPIKey() string
}

type GlobalState interface {
	ChangeModel(ctx context.Context, model string) error
}
