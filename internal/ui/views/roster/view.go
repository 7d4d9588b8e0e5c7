package roster

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	rosterdto "stc/internal/modules/roster/dto"
	"stc/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type RosterPort interface {
	ListPatients(ctx context.Context) ([]rosterdto.PatientOutput, error)
	GetPatient(ctx context.Context, id string) (rosterdto.PatientDetailOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type PatientsLoadedMsg struct {
	Patients []rosterdto.PatientOutput
	Err      error
}

type DetailLoadedMsg struct {
	Detail rosterdto.PatientDetailOutput
	Err    error
}

// ─── list item ───────────────────────────────────────────────────────────────

type patientItem struct {
	patient rosterdto.PatientOutput
}

func (i patientItem) Title() string { return i.patient.Name }
func (i patientItem) Description() string {
	return fmt.Sprintf("%d tokens banked", i.patient.TokenBalance)
}
func (i patientItem) FilterValue() string { return i.patient.Name }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    RosterPort
	list    list.Model
	detail  rosterdto.PatientDetailOutput
	preview viewport.Model
	spinner spinner.Model
	loading bool
	width   int
	height  int
}

func New(port RosterPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Roster"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		list:    l,
		preview: vp,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadPatientsCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case PatientsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Roster — " + msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, len(msg.Patients))
		for i, p := range msg.Patients {
			items[i] = patientItem{patient: p}
		}
		cmds = append(cmds, m.list.SetItems(items))
		if len(msg.Patients) > 0 {
			cmds = append(cmds, m.loadDetailCmd(msg.Patients[0].ID))
		}

	case DetailLoadedMsg:
		if msg.Err == nil {
			m.detail = msg.Detail
			m.preview.SetContent(m.renderDetail())
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			if item, ok := m.list.SelectedItem().(patientItem); ok {
				cmds = append(cmds, m.loadDetailCmd(item.patient.ID))
			}
		}

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading roster…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// SelectedPatientID returns the current selection's patient ID, if any.
func (m Model) SelectedPatientID() (string, bool) {
	if item, ok := m.list.SelectedItem().(patientItem); ok {
		return item.patient.ID, true
	}
	return "", false
}

// SelectedPatientName returns the current selection's name.
func (m Model) SelectedPatientName() string {
	if item, ok := m.list.SelectedItem().(patientItem); ok {
		return item.patient.Name
	}
	return ""
}

// Filtering reports whether the list's search filter is currently active.
// The app model checks this to avoid consuming global keys during a search.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Reload fetches the roster again, e.g. after a session credited tokens.
func (m Model) Reload() tea.Cmd {
	return m.loadPatientsCmd()
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = detailW - 4
	m.preview.Height = m.height - 4
}

func (m Model) renderDetail() string {
	d := m.detail
	if d.ID == "" {
		return theme.Muted.Render("Select a patient to see details")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(d.Name) + "\n\n")
	sb.WriteString(theme.Muted.Render("id:       ") + d.ID + "\n")
	if d.BirthDate != "" {
		sb.WriteString(theme.Muted.Render("born:     ") + d.BirthDate + "\n")
	}
	sb.WriteString(theme.Muted.Render("status:   ") + d.Status + "\n")
	sb.WriteString(fmt.Sprintf("%s%d\n", theme.Muted.Render("tokens:   "), d.TokenBalance))
	if len(d.TargetSounds) > 0 {
		sb.WriteString(theme.Muted.Render("sounds:   ") + strings.Join(d.TargetSounds, ", ") + "\n")
	}
	if len(d.TargetPatterns) > 0 {
		sb.WriteString(theme.Muted.Render("patterns: ") + strings.Join(d.TargetPatterns, ", ") + "\n")
	}
	if d.LastSessionID != "" {
		sb.WriteString(theme.Muted.Render("last:     ") + d.LastSessionID + "\n")
	}
	if d.NotePath != "" {
		sb.WriteString(theme.Muted.Render("note:     ") + d.NotePath + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("s: start session for this patient"))
	return sb.String()
}

func (m Model) loadPatientsCmd() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return PatientsLoadedMsg{}
		}
		patients, err := m.port.ListPatients(context.Background())
		return PatientsLoadedMsg{Patients: patients, Err: err}
	}
}

func (m Model) loadDetailCmd(id string) tea.Cmd {
	return func() tea.Msg {
		detail, err := m.port.GetPatient(context.Background(), id)
		return DetailLoadedMsg{Detail: detail, Err: err}
	}
}
