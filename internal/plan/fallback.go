package plan

import (
	"fmt"
	"strings"
)

// Synthesize builds a complete, schema-conformant brief from nothing but the
// request: no network, no randomness. It is the availability floor when
// generation is down or unparseable, and the donor artifact for section
// repair. Guided requests carry the caller's objectives and success
// definition into the brief verbatim.
func Synthesize(req Request) map[string]any {
	subject := strings.TrimSpace(req.SubjectName)
	if subject == "" {
		subject = "the subject"
	}
	category := strings.TrimSpace(req.SubjectCategory)
	if category == "" {
		category = "its market"
	}

	objectives := []any{
		fmt.Sprintf("Grow awareness of %s within %s", subject, category),
		"Convert engaged audiences into qualified leads",
	}
	success := fmt.Sprintf("Sustained lift in engagement and qualified pipeline for %s", subject)

	if req.Mode == ModeGuided && req.Guided != nil {
		if s := strings.TrimSpace(req.Guided.Objectives); s != "" {
			objectives = []any{s}
		}
		if s := strings.TrimSpace(req.Guided.SuccessDefinition); s != "" {
			success = s
		}
	}

	return map[string]any{
		"campaignSummary": map[string]any{
			"overview":       fmt.Sprintf("A focused campaign introducing %s to %s audiences, structured for steady reach and measurable response.", subject, category),
			"objectives":     objectives,
			"targetAudience": fmt.Sprintf("Decision makers and active buyers in %s", category),
		},
		"strategy": map[string]any{
			"positioning": fmt.Sprintf("%s as a dependable, distinctive choice in %s", subject, category),
			"channels":    []any{"email", "organic social", "content marketing"},
			"keyMessages": []any{
				fmt.Sprintf("%s understands what %s audiences actually need", subject, category),
				"Clear value, no overpromises",
			},
		},
		"contentPlan": map[string]any{
			"themes":  []any{"customer stories", "behind the scenes", "practical guides"},
			"formats": []any{"short posts", "newsletter", "explainer articles"},
			"cadence": "Two to three touchpoints per week across active channels",
		},
		"timeline": map[string]any{
			"phases": []any{
				"Weeks 1-2: groundwork and asset production",
				"Weeks 3-6: launch and active promotion",
				"Weeks 7-8: review and iterate",
			},
			"launchWindow": "Within the next four to six weeks",
		},
		"budget": map[string]any{
			"breakdown": []any{
				"Content production: 40%",
				"Paid amplification: 35%",
				"Tooling and analytics: 25%",
			},
			"estimatedTotal": "To be sized against available spend",
		},
		"kpis": map[string]any{
			"primary":           []any{"reach", "engagement rate", "qualified leads"},
			"successDefinition": success,
		},
		"nextSteps": []any{
			fmt.Sprintf("Confirm the positioning of %s with stakeholders", subject),
			"Draft the first two weeks of content",
			"Set up tracking for the primary KPIs",
		},
	}
}
