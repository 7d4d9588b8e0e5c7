package session

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondomain "stc/internal/modules/session/domain"
	sessiondto "stc/internal/modules/session/dto"
	"stc/internal/ui/theme"
)

// Model renders the live session dashboard. It holds no port of its own; the
// app model polls session status once per second and pushes the latest
// snapshot here via SetStatus.
type Model struct {
	status sessiondto.StatusOutput
	loaded bool
	width  int
	height int
}

func New() Model {
	return Model{}
}

func (m *Model) SetStatus(status sessiondto.StatusOutput) {
	m.status = status
	m.loaded = true
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if sz, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = sz.Width
		m.height = sz.Height
	}
	return m, nil
}

func (m Model) View() string {
	if !m.loaded || !m.status.Active {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("No active session.  :session:start <patient-id> <therapist-id>"))
	}
	s := m.status

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Session "+s.SessionID) + "\n\n")
	sb.WriteString(theme.Muted.Render("patient:   ") + s.PatientID + "\n")
	sb.WriteString(theme.Muted.Render("therapist: ") + s.TherapistID + "\n")
	sb.WriteString(theme.Muted.Render("started:   ") + s.StartedAt.Format("15:04:05") + "\n\n")

	timer := fmt.Sprintf("%s elapsed   %s remaining of %d min",
		formatClock(s.ElapsedSeconds), formatClock(s.RemainingSeconds), s.PlannedMinutes)
	switch {
	case s.RemainingSeconds == 0:
		sb.WriteString(theme.Warn.Render(timer+"  TIME UP") + "\n\n")
	case s.RemainingSeconds <= sessiondomain.EndWarningSeconds:
		sb.WriteString(theme.Warn.Render(timer) + "\n\n")
	default:
		sb.WriteString(theme.Good.Render(timer) + "\n\n")
	}

	sb.WriteString(theme.Muted.Render("tokens:    ") + fmt.Sprintf("%d", s.TokensEarned) + "\n")

	if s.OnBreak {
		sb.WriteString("\n" + theme.Hot.Render("⏸ on break") + "\n")
	}
	if s.CurrentActivity != nil {
		a := s.CurrentActivity
		sb.WriteString("\n" + theme.Title.Render("Activity: "+a.Type) + "\n")
		sb.WriteString(theme.Muted.Render("since:      ") + a.StartedAt.Format("15:04:05") + "\n")
		sb.WriteString(theme.Muted.Render("difficulty: ") + fmt.Sprintf("%d", a.Difficulty) + "\n")
		if len(a.TargetSounds) > 0 {
			sb.WriteString(theme.Muted.Render("sounds:     ") + strings.Join(a.TargetSounds, ", ") + "\n")
		}
	} else if !s.OnBreak {
		sb.WriteString("\n" + theme.Muted.Render("no open activity  :activity:start <type>") + "\n")
	}

	if strings.TrimSpace(s.Notes) != "" {
		sb.WriteString("\n" + theme.Muted.Render("notes: ") + s.Notes + "\n")
	}

	pane := theme.Pane.Width(m.width - 4).Render(sb.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, pane)
}

func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
