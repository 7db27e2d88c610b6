package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/sandevgo/briefbot/internal/plan"
	"github.com/sandevgo/briefbot/pkg/log"
)

const systemPrompt = `You are a marketing campaign strategist.
You produce complete campaign briefs as a single JSON object, with no prose before or after it.
Every field in the requested shape must be present. Lists hold short plain strings.
Be specific to the subject; never leave placeholder text like "TBD".`

// userPrompt assembles the generation request: subject facts, mode framing,
// an optional prior brief for continuity, and the exact shape to return.
func (s *Service) userPrompt(ctx context.Context, req plan.Request) string {
	var b strings.Builder

	subject := strings.TrimSpace(req.SubjectName)
	if subject == "" {
		subject = "the subject"
	}
	fmt.Fprintf(&b, "Create a complete marketing campaign brief for %s.\n", subject)
	if category := strings.TrimSpace(req.SubjectCategory); category != "" {
		fmt.Fprintf(&b, "Market category: %s.\n", category)
	}

	if len(req.SubjectContext) > 0 {
		b.WriteString("\nWhat we know about the subject:\n")
		b.WriteString(renderContext(req.SubjectContext))
	}

	if req.Mode == plan.ModeGuided && req.Guided != nil {
		b.WriteString("\nThe caller has set this framing; carry their wording into the relevant sections:\n")
		if v := strings.TrimSpace(req.Guided.Objectives); v != "" {
			fmt.Fprintf(&b, "- Objectives: %s\n", v)
		}
		if v := strings.TrimSpace(req.Guided.SuccessDefinition); v != "" {
			fmt.Fprintf(&b, "- Success definition: %s\n", v)
		}
		if v := strings.TrimSpace(req.Guided.Notes); v != "" {
			fmt.Fprintf(&b, "- Notes: %s\n", v)
		}
	}

	if prior := s.priorBrief(ctx, req.SubjectName); prior != "" {
		b.WriteString("\nThe previous brief for this subject, for continuity:\n")
		b.WriteString(prior)
	}

	b.WriteString("\nReturn exactly one JSON object with this shape and nothing else:\n")
	b.WriteString(renderSkeleton(s.schema))
	return b.String()
}

// priorBrief fetches the last stored model-produced brief. Fallback briefs
// are skipped so placeholder text never seeds a future prompt.
func (s *Service) priorBrief(ctx context.Context, subject string) string {
	if s.store == nil || strings.TrimSpace(subject) == "" {
		return ""
	}

	prior, err := s.store.LatestAnalysis(ctx, subject)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("subject", subject).Msg("analysis lookup failed, prompting without prior brief")
		return ""
	}
	if prior == nil || prior.Fallback {
		return ""
	}

	data, err := json.Marshal(prior.Artifact)
	if err != nil {
		return ""
	}
	return string(data) + "\n"
}

func renderContext(context map[string]any) string {
	keys := make([]string, 0, len(context))
	for key := range context {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		value := context[key]
		if s, ok := value.(string); ok {
			fmt.Fprintf(&b, "- %s: %s\n", key, s)
			continue
		}
		data, err := json.Marshal(value)
		if err != nil {
			fmt.Fprintf(&b, "- %s: %v\n", key, value)
			continue
		}
		fmt.Fprintf(&b, "- %s: %s\n", key, data)
	}
	return b.String()
}

// renderSkeleton prints the schema as a JSON template in declaration order.
func renderSkeleton(schema plan.Schema) string {
	var b strings.Builder
	b.WriteString("{\n")
	for i, section := range schema.Sections {
		b.WriteString("  ")
		writeField(&b, section, "  ")
		if i < len(schema.Sections)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

func writeField(b *strings.Builder, f plan.Field, indent string) {
	fmt.Fprintf(b, "%q: ", f.Name)
	switch f.Kind {
	case plan.KindString:
		b.WriteString(`"..."`)
	case plan.KindList:
		b.WriteString(`["..."]`)
	case plan.KindObject:
		b.WriteString("{\n")
		for i, nested := range f.Fields {
			b.WriteString(indent + "  ")
			writeField(b, nested, indent+"  ")
			if i < len(f.Fields)-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString(indent + "}")
	}
}
