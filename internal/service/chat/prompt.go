package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/sandevgo/briefbot/internal/core"
	"github.com/sandevgo/briefbot/pkg/log"
)

const systemPreamble = `You are Brief, a marketing strategist assistant.
You help plan campaigns: positioning, audiences, channels, content, timelines, budgets and KPIs.
Ground every answer in the subject profile below. Be concrete and concise; prefer bullet points over prose.
When you don't know a fact about the subject, say so instead of inventing one.`

// buildSystemContext assembles the per-conversation system prompt from the
// caller's subject data plus the most recent stored brief, when one exists.
func (s *Service) buildSystemContext(ctx context.Context, name string, subject map[string]any) string {
	var b strings.Builder
	b.WriteString(systemPreamble)

	if len(subject) > 0 {
		b.WriteString("\n\nSUBJECT PROFILE:\n")
		b.WriteString(renderSubject(subject))
	}

	if s.lookup != nil && name != "" {
		prior, err := s.lookup.LatestAnalysis(ctx, name)
		switch {
		case err != nil:
			log.FromCtx(ctx).Warn().Err(err).Str("subject", name).Msg("analysis lookup failed, continuing without prior context")
		case prior != nil:
			b.WriteString("\n\nMOST RECENT CAMPAIGN BRIEF:\n")
			b.WriteString(renderAnalysis(prior))
		}
	}

	return b.String()
}

// renderSubject prints subject fields in sorted key order so the same input
// always yields the same context.
func renderSubject(subject map[string]any) string {
	keys := make([]string, 0, len(subject))
	for key := range subject {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "- %s: %s\n", key, renderValue(subject[key]))
	}
	return b.String()
}

func renderValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}

func renderAnalysis(analysis *core.Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generated %s in %s mode.\n", analysis.CreatedAt.UTC().Format("2006-01-02"), analysis.Mode)

	data, err := json.MarshalIndent(analysis.Artifact, "", "  ")
	if err != nil {
		return b.String()
	}
	b.Write(data)
	b.WriteString("\n")
	return b.String()
}
