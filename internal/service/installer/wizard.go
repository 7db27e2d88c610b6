package installer

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	stepStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	itemStyle  = lipgloss.NewStyle().PaddingLeft(2)
	selStyle   = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("5"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// Step is one screen of the installation wizard. Update returns the step to
// keep running, or nil to advance; a step that decides it is not applicable
// (wrong provider, channel not selected) returns nil immediately.
type Step interface {
	Init() tea.Cmd
	Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd)
	View(state *InstallState) string
}

func getSteps() []Step {
	return []Step{
		NewProviderStep(),
		NewAPIKeyStep(),
		NewOllamaURLStep(),
		NewCustomURLStep(),
		NewModelStep(),
		NewChannelStep(),
		NewTelegramTokenStep(),
		NewTelegramOwnerStep(),
		NewFinalizationStep(),
		NewSaveEnvStep(),
	}
}

type item struct {
	id    string
	title string
	desc  string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.id }

type modelsMsg []list.Item
type errMsg error
type nextMsg struct{}

// wizard drives the steps in order and owns the shared install state.
type wizard struct {
	steps    []Step
	current  int
	state    *InstallState
	quitting bool
	err      error
	width    int
	height   int
}

func newWizard() wizard {
	return wizard{
		steps: getSteps(),
		state: NewInstallState(),
	}
}

func (w wizard) Init() tea.Cmd {
	if len(w.steps) == 0 {
		return nil
	}
	return w.steps[0].Init()
}

func (w wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if w.quitting {
		return w, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
	case errMsg:
		w.err = msg
		return w, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			w.quitting = true
			return w, tea.Quit
		}
	}

	if w.done() {
		return w, tea.Quit
	}

	next, cmd := w.steps[w.current].Update(msg, w.state, w.width, w.height)
	if next == nil {
		return w.advance()
	}
	w.steps[w.current] = next
	return w, cmd
}

// advance moves on to the next step, quitting after the last one.
func (w wizard) advance() (tea.Model, tea.Cmd) {
	w.current++
	if w.done() {
		return w, tea.Quit
	}
	return w, w.steps[w.current].Init()
}

func (w wizard) done() bool {
	return w.current >= len(w.steps)
}

func (w wizard) View() string {
	if w.quitting {
		return "Installation cancelled.\n"
	}
	if w.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", w.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if w.done() {
		return "Configuration complete!\n"
	}

	header := titleStyle.Render("Installing BriefBot 📋") +
		stepStyle.Render(fmt.Sprintf("  step %d/%d", w.current+1, len(w.steps)))
	return header + "\n\n" + w.steps[w.current].View(w.state)
}

// RunWizard walks the user through first-run configuration and returns the
// collected state once every step has completed.
func RunWizard() (*InstallState, error) {
	p := tea.NewProgram(newWizard(), tea.WithAltScreen())
	m, err := p.Run()
	if err != nil {
		return nil, err
	}

	final := m.(wizard)
	if final.quitting {
		return nil, fmt.Errorf("briefbot installation interrupted")
	}
	return final.state, nil
}
