package command

import (
	"github.com/sandevgo/briefbot/internal/core"
	"github.com/sandevgo/briefbot/internal/service/planner"
)

func NewCommands(
	cfg core.ProviderConfig,
	state core.GlobalState,
	briefs *planner.Service,
	store core.AnalysisStore,
) []core.Command {
	return []core.Command{
		NewModelCommand(cfg, state),
		NewPlanCommand(briefs),
		NewRecentCommand(store),
	}
}
