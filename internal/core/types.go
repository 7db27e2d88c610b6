package core

const (
	BriefName          = "BriefBot"
	BriefUserAgent     = "BriefBot/0.1"
	BriefRepositoryURL = "https://github.com/sandevgo/briefbot"
	BriefVersion       = "0.1.0"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the provider-agnostic payload for one model invocation.
// A nil Temperature leaves the provider default in place.
type ChatRequest struct {
	Messages    []Message
	Temperature *float64
	MaxTokens   int
}

// Model describes one entry of a provider's model catalog.
type Model struct {
	ID            string `json:"id"`
	Name          string `json:"name,omitempty"`
	ContextLength int    `json:"context_length,omitempty"`
}
