package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/briefbot/internal/core"
	"github.com/sandevgo/briefbot/internal/plan"
	"github.com/sandevgo/briefbot/internal/service/planner"
)

type PlanCommand struct {
	briefs    *planner.Service
	formatter *ResponseFormatter
}

func NewPlanCommand(briefs *planner.Service) core.Command {
	return &PlanCommand{
		briefs:    briefs,
		formatter: NewResponseFormatter(),
	}
}

func (c *PlanCommand) Name() string {
	return "plan"
}

func (c *PlanCommand) Description() string {
	return "Generate a campaign brief for a subject"
}

func (c *PlanCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	if len(args) == 0 {
		return c.formatter.Combine(
			c.formatter.Info("Campaign Brief"),
			c.formatter.Usage("/plan <subject>[, category]"),
			c.formatter.Examples([]string{
				"/plan Acme Coffee",
				"/plan Acme Coffee, specialty retail",
			}),
		), nil
	}

	subject, category := splitSubject(strings.Join(args, " "))

	result := c.briefs.Generate(ctx, plan.Request{
		Mode:            plan.ModeAuto,
		SubjectName:     subject,
		SubjectCategory: category,
	})

	header := c.formatter.Success(fmt.Sprintf("Campaign brief for %s", subject))
	if result.Fallback {
		header = c.formatter.Warning("Generation was unavailable, serving a fallback brief")
	}

	return c.formatter.Combine(header, renderBrief(result.Artifact)), nil
}

func splitSubject(input string) (subject, category string) {
	if before, after, found := strings.Cut(input, ","); found {
		return strings.TrimSpace(before), strings.TrimSpace(after)
	}
	return strings.TrimSpace(input), ""
}
