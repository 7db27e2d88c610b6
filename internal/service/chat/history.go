package chat

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/sandevgo/briefbot/internal/core"
)

var (
	tk     *tiktoken.Tiktoken
	tkOnce sync.Once
)

func getTokenizer() *tiktoken.Tiktoken {
	tkOnce.Do(func() {
		var err error
		tk, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			panic("failed to load tiktoken: " + err.Error())
		}
	})
	return tk
}

func countTokens(text string) int {
	if text == "" {
		return 0
	}
	return len(getTokenizer().Encode(text, nil, nil))
}

// trimHistory keeps at most the configured number of recent turns, then
// shrinks further from the oldest end until the token budget holds. The
// newest message is always kept even when it alone exceeds the budget.
func (s *Service) trimHistory(history []core.Message) []core.Message {
	if len(history) == 0 {
		return nil
	}

	// Two messages per turn: the user message and the assistant reply.
	if maxMessages := s.cfg.HistoryTurns * 2; len(history) > maxMessages {
		history = history[len(history)-maxMessages:]
	}

	total := 0
	start := len(history) - 1
	for i := len(history) - 1; i >= 0; i-- {
		total += s.tokens(history[i].Content)
		if total > s.cfg.HistoryTokenBudget && i < len(history)-1 {
			break
		}
		start = i
	}
	return history[start:]
}
