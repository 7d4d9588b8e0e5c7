package history

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	sessiondto "stc/internal/modules/session/dto"
	"stc/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type HistoryPort interface {
	History(ctx context.Context) ([]sessiondto.SessionSummary, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Summaries []sessiondto.SessionSummary
	Err       error
}

// ─── list item ───────────────────────────────────────────────────────────────

type summaryItem struct {
	summary sessiondto.SessionSummary
}

func (i summaryItem) Title() string {
	return fmt.Sprintf("%s  %s", i.summary.Date.Format("2006-01-02 15:04"), i.summary.PatientID)
}

func (i summaryItem) Description() string {
	s := i.summary
	return fmt.Sprintf("%s  %dmin  %d tokens  %d activities  %d samples",
		s.Status, s.ActualMinutes, s.TokensEarned, s.Activities, s.Samples)
}

func (i summaryItem) FilterValue() string { return i.summary.PatientID }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port   HistoryPort
	list   list.Model
	width  int
	height int
}

func New(port HistoryPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "History"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return Model{port: port, list: l}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

// Reload fetches the session index again. The app model calls this after a
// session ends so the new row appears without restarting the view.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{}
		}
		summaries, err := m.port.History(context.Background())
		return LoadedMsg{Summaries: summaries, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width, m.height)

	case LoadedMsg:
		if msg.Err != nil {
			m.list.Title = "History — " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "History"
		items := make([]list.Item, len(msg.Summaries))
		for i, s := range msg.Summaries {
			items[i] = summaryItem{summary: s}
		}
		cmds = append(cmds, m.list.SetItems(items))
	}

	var lCmd tea.Cmd
	m.list, lCmd = m.list.Update(msg)
	cmds = append(cmds, lCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	return m.list.View()
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}
