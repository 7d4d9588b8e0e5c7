package prefs

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	prefsdto "stc/internal/modules/prefs/dto"
	"stc/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type PrefsPort interface {
	Get(ctx context.Context) (prefsdto.PreferencesOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Prefs prefsdto.PreferencesOutput
	Err   error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port   PrefsPort
	prefs  prefsdto.PreferencesOutput
	loaded bool
	errMsg string
	width  int
	height int
}

func New(port PrefsPort) Model {
	return Model{port: port}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

// Reload fetches preferences again, e.g. after a prefs:set command.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{}
		}
		prefs, err := m.port.Get(context.Background())
		return LoadedMsg{Prefs: prefs, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case LoadedMsg:
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.prefs = msg.Prefs
		m.loaded = true
	}
	return m, nil
}

func (m Model) View() string {
	if m.errMsg != "" {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Warn.Render("preferences: "+m.errMsg))
	}
	if !m.loaded {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("Loading preferences…"))
	}

	p := m.prefs
	rows := [][2]string{
		{"text_size", p.TextSize},
		{"high_contrast", fmt.Sprintf("%t", p.HighContrast)},
		{"reduced_motion", fmt.Sprintf("%t", p.ReducedMotion)},
		{"audio_volume", fmt.Sprintf("%d", p.AudioVolume)},
		{"haptics", fmt.Sprintf("%t", p.Haptics)},
	}

	content := theme.Title.Render("Accessibility Preferences") + "\n\n"
	for _, row := range rows {
		content += fmt.Sprintf("%s %s\n", theme.Muted.Render(fmt.Sprintf("%-15s", row[0])), row[1])
	}
	content += "\n" + theme.Muted.Render(":prefs:set <key> <value> to change")

	pane := theme.Pane.Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, pane)
}
