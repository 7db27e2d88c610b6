package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/briefbot/internal/core"
)

type RecentCommand struct {
	store     core.AnalysisStore
	formatter *ResponseFormatter
}

func NewRecentCommand(store core.AnalysisStore) core.Command {
	return &RecentCommand{
		store:     store,
		formatter: NewResponseFormatter(),
	}
}

func (c *RecentCommand) Name() string {
	return "recent"
}

func (c *RecentCommand) Description() string {
	return "List recently generated briefs"
}

func (c *RecentCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	analyses, err := c.store.RecentAnalyses(ctx, 5)
	if err != nil {
		return "", fmt.Errorf("failed to load recent briefs: %w", err)
	}

	if len(analyses) == 0 {
		return c.formatter.Combine(
			c.formatter.Info("Recent Briefs"),
			c.formatter.Tip("Nothing here yet. Generate one with /plan <subject>"),
		), nil
	}

	items := make([]string, len(analyses))
	for i, a := range analyses {
		source := "model"
		if a.Fallback {
			source = "fallback"
		}
		items[i] = fmt.Sprintf("**%s** (%s, %s) %s", a.Subject, a.Mode, source, a.CreatedAt.Format("2006-01-02 15:04"))
	}

	return c.formatter.Combine(
		c.formatter.Info("Recent Briefs"),
		c.formatter.List(items),
	), nil
}
