package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/briefbot/pkg/log"
)

type LLMConfig struct {
	Provider string `env:"LLM_PROVIDER" envDefault:"openrouter"`
	Model    string `env:"LLM_MODEL" envDefault:"google/gemma-3-27b-it:free"`

	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey  string `env:"ANTHROPIC_API_KEY"`
	OpenRouterAPIKey string `env:"OPENROUTER_API_KEY"`
	OllamaBaseURL    string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	CustomBaseURL    string `env:"CUSTOM_OPENAI_BASE_URL"`
	CustomAPIKey     string `env:"CUSTOM_OPENAI_API_KEY"`

	Temperature float64 `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	MaxTokens   int     `env:"LLM_MAX_TOKENS" envDefault:"4096"`
}

// NewLLMConfig parses provider settings. A missing credential for the chosen
// provider is a startup failure, never a per-request one.
func NewLLMConfig(ctx context.Context) *LLMConfig {
	c := &LLMConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse LLM config")
	}
	if missing := c.missingCredential(); missing != "" {
		log.FromCtx(ctx).Fatal().Str("env", missing).Str("provider", c.Provider).Msg("generation credential missing")
	}
	return c
}

func (c *LLMConfig) missingCredential() string {
	switch c.Provider {
	case "openai":
		if c.OpenAIAPIKey == "" {
			return "OPENAI_API_KEY"
		}
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return "ANTHROPIC_API_KEY"
		}
	case "openrouter":
		if c.OpenRouterAPIKey == "" {
			return "OPENROUTER_API_KEY"
		}
	case "custom":
		if c.CustomBaseURL == "" {
			return "CUSTOM_OPENAI_BASE_URL"
		}
	}
	return ""
}

func (c *LLMConfig) GetModel() string {
	return c.Model
}

func (c *LLMConfig) SetModel(model string) error {
	c.Model = model
	return nil
}

func (c *LLMConfig) GetProvider() string {
	return c.Provider
}

func (c *LLMConfig) GetAnthropicAPIKey() string {
	return c.AnthropicAPIKey
}

func (c *LLMConfig) GetOpenAIAPIKey() string {
	return c.OpenAIAPIKey
}

func (c *LLMConfig) GetOpenRouterAPIKey() string {
	return c.OpenRouterAPIKey
}

func (c *LLMConfig) GetOllamaBaseURL() string {
	return c.OllamaBaseURL
}

func (c *LLMConfig) GetCustomBaseURL() string {
	return c.CustomBaseURL
}

func (c *LLMConfig) GetCustomAPIKey() string {
	return c.CustomAPIKey
}
