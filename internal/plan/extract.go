package plan

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoStructuredOutput reports that no strategy recovered a JSON object from
// the model text.
var ErrNoStructuredOutput = errors.New("no structured output found in model response")

// strategy attempts to recover a JSON object from raw model text. Parse
// failures stay inside the strategy.
type strategy func(raw string) (map[string]any, bool)

// strategies run in priority order: clean output first, cheap heuristics
// after. Worst case is four parse attempts.
var strategies = []strategy{
	parseDirect,
	parseFencedBlock,
	parseObjectSlice,
	parseStripped,
}

// Extract recovers a structured value from raw model output. Models are
// instructed to answer with a single JSON object but routinely wrap it in
// prose or code fences; the first strategy that parses wins.
func Extract(raw string) (map[string]any, error) {
	for _, try := range strategies {
		if value, ok := try(raw); ok {
			return value, nil
		}
	}
	return nil, ErrNoStructuredOutput
}

func parseJSONObject(s string) (map[string]any, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}

	var value map[string]any
	if err := json.Unmarshal([]byte(s), &value); err != nil {
		return nil, false
	}
	if value == nil {
		return nil, false
	}
	return value, true
}

func parseDirect(raw string) (map[string]any, bool) {
	return parseJSONObject(raw)
}

// parseFencedBlock tries ```json, bare ``` and single-backtick spans, parsing
// the content between the opening marker and its closer.
func parseFencedBlock(raw string) (map[string]any, bool) {
	markers := []struct {
		open  string
		close string
	}{
		{"```json", "```"},
		{"```", "```"},
		{"`", "`"},
	}

	for _, m := range markers {
		start := strings.Index(raw, m.open)
		if start == -1 {
			continue
		}

		inner := raw[start+len(m.open):]
		end := strings.Index(inner, m.close)
		if end == -1 {
			continue
		}

		if value, ok := parseJSONObject(inner[:end]); ok {
			return value, true
		}
	}
	return nil, false
}

// parseObjectSlice takes the greedy slice from the first '{' to the last '}'.
func parseObjectSlice(raw string) (map[string]any, bool) {
	start := strings.Index(raw, "{")
	if start == -1 {
		return nil, false
	}

	end := strings.LastIndex(raw, "}")
	if end <= start {
		return nil, false
	}

	return parseJSONObject(raw[start : end+1])
}

// parseStripped drops fence markers and blank lines, then parses what is
// left in one piece.
func parseStripped(raw string) (map[string]any, bool) {
	var b strings.Builder
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "```") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return parseJSONObject(b.String())
}
