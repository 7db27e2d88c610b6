package installer

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/briefbot/internal/core"
	"github.com/sandevgo/briefbot/internal/providers/llm"
)

// ModelStep lists the models the configured provider exposes and lets the
// user pick one
type ModelStep struct {
	list     list.Model
	loading  bool
	fetching bool // Ensures we only trigger the API call once
	err      error
}

func NewModelStep() Step {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Select AI Model"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return &ModelStep{
		list:    l,
		loading: true,
	}
}

func (s *ModelStep) Init() tea.Cmd {
	return nil
}

// catalogProvider builds a throwaway provider from the env vars collected so
// far, with no model selected yet.
func catalogProvider(state *InstallState) (core.AIProvider, error) {
	vars := state.EnvVars
	switch vars["LLM_PROVIDER"] {
	case "anthropic":
		return llm.NewAnthropic(vars["ANTHROPIC_API_KEY"], ""), nil
	case "openai":
		return llm.NewOpenAI(vars["OPENAI_API_KEY"], ""), nil
	case "openrouter":
		return llm.NewOpenRouter(vars["OPENROUTER_API_KEY"], ""), nil
	case "ollama":
		return llm.NewOllama(vars["OLLAMA_BASE_URL"], ""), nil
	case "custom":
		return llm.NewCustomOpenAI(vars["CUSTOM_OPENAI_BASE_URL"], vars["CUSTOM_OPENAI_API_KEY"], ""), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", vars["LLM_PROVIDER"])
	}
}

func (s *ModelStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	// 1. Trigger fetch once when we enter the step
	if s.loading && !s.fetching {
		s.fetching = true

		return s, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			p, err := catalogProvider(state)
			if err != nil {
				return errMsg(err)
			}
			models, err := p.Models(ctx)
			if err != nil {
				return errMsg(err)
			}

			var items []list.Item
			for _, mod := range models {
				items = append(items, item{
					id:    mod.ID,
					title: mod.Name,
					desc:  fmt.Sprintf("ID: %s | Context: %d", mod.ID, mod.ContextLength),
				})
			}
			return modelsMsg(items)
		}
	}

	// Update list size
	s.list.SetSize(width, height-4)

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case modelsMsg:
		s.list.SetItems(msg)
		s.loading = false
		s.fetching = false
		return s, nil

	case errMsg:
		s.loading = false
		s.fetching = false
		s.err = msg
		return s, nil // Return nil command to break the error loop

	case tea.KeyMsg:
		// If there's an error, allow retry with Enter
		if s.err != nil {
			if msg.String() == "enter" {
				s.err = nil
				s.loading = true
				s.fetching = false
				return s, nil
			}
			return s, nil
		}

		if msg.String() == "enter" {
			wasFiltering := s.list.FilterState() == list.Filtering
			s.list, cmd = s.list.Update(msg)

			if wasFiltering || s.list.FilterState() == list.Filtering {
				return s, cmd
			}

			if i, ok := s.list.SelectedItem().(item); ok {
				state.EnvVars["LLM_MODEL"] = i.id
				return nil, nil
			}
			return s, cmd
		}
	}

	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *ModelStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error fetching models: %v", s.err)) +
			"\n\nCheck your API key and internet connection.\n\n(press enter to retry, ctrl+c to quit)\n"
	}
	if s.loading {
		return "Fetching available models...\n"
	}
	return s.list.View()
}
