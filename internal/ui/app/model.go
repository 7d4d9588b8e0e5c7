package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	assessordto "stc/internal/modules/assessor/dto"
	prefsdto "stc/internal/modules/prefs/dto"
	sessiondomain "stc/internal/modules/session/domain"
	rosterdto "stc/internal/modules/roster/dto"
	sessiondto "stc/internal/modules/session/dto"
	"stc/internal/ui/components"
	"stc/internal/ui/theme"
	historyview "stc/internal/ui/views/history"
	prefsview "stc/internal/ui/views/prefs"
	rosterview "stc/internal/ui/views/roster"
	sessionview "stc/internal/ui/views/session"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.

type sessionPort interface {
	StartSession(ctx context.Context, patientID, therapistID string, plannedMinutes int) (sessiondto.StartSessionOutput, error)
	EndSession(ctx context.Context) (sessiondto.EndSessionOutput, error)
	StartActivity(ctx context.Context, activityType string, sounds, patterns []string, difficulty int) (sessiondto.StartActivityOutput, error)
	EndActivity(ctx context.Context, engagement, successRate, tokens int, notes string) (sessiondto.EndActivityOutput, error)
	StartBreak(ctx context.Context, kind string) (sessiondto.StartBreakOutput, error)
	EndBreak(ctx context.Context, effectiveness int, notes string) (sessiondto.EndBreakOutput, error)
	RecordIntervention(ctx context.Context, kind string, effectiveness int, notes string) (sessiondto.InterventionOutput, error)
	RecordAchievement(ctx context.Context, kind, description, reward, notes string) (sessiondto.AchievementOutput, error)
	RecordSample(ctx context.Context, input sessiondto.SampleInput) (sessiondto.SampleOutput, error)
	UpdateNotes(ctx context.Context, text string) (sessiondto.NotesOutput, error)
	Status(ctx context.Context) (sessiondto.StatusOutput, error)
	History(ctx context.Context) ([]sessiondto.SessionSummary, error)
}

type rosterPort interface {
	ListPatients(ctx context.Context) ([]rosterdto.PatientOutput, error)
	GetPatient(ctx context.Context, id string) (rosterdto.PatientDetailOutput, error)
}

type prefsPort interface {
	Get(ctx context.Context) (prefsdto.PreferencesOutput, error)
	Set(ctx context.Context, key, value string) (prefsdto.PreferencesOutput, error)
}

type assessorPort interface {
	Assess(ctx context.Context, input assessordto.AssessInput) (assessordto.AssessOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabSession tabID = iota
	tabHistory
	tabRoster
	tabPrefs
	tabCount
)

var tabLabels = [tabCount]string{
	"Session", "History", "Roster", "Prefs",
}

// ─── async messages ───────────────────────────────────────────────────────────

type statusTickMsg struct{}

type statusLoadedMsg struct {
	status sessiondto.StatusOutput
	err    error
}

type sessionStartedMsg struct {
	out sessiondto.StartSessionOutput
	err error
}

type sessionEndedMsg struct {
	out sessiondto.EndSessionOutput
	err error
}

// actionDoneMsg carries the outcome of any other lifecycle command.
type actionDoneMsg struct {
	status string
	err    error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Session key.Binding
	Break   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Session: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start session")),
		Break:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "toggle break")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Session, k.Break},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the one-second
// status poll, the global help overlay, and the command palette. All business
// logic is delegated to port interfaces; all rendering is delegated to
// sub-views.
type Model struct {
	dataDir string

	session  sessionPort
	prefs    prefsPort
	assessor assessorPort

	// sub-views (one per tab)
	sessionView sessionview.Model
	historyView historyview.Model
	rosterView  rosterview.Model
	prefsView   prefsview.Model

	// global UI state
	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    sessiondto.StatusOutput
	message   string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(
	dataDir string,
	session sessionPort,
	roster rosterPort,
	prefs prefsPort,
	assessor assessorPort,
) Model {
	return Model{
		dataDir:     dataDir,
		session:     session,
		prefs:       prefs,
		assessor:    assessor,
		sessionView: sessionview.New(),
		historyView: historyview.New(historyPortBridge{p: session}),
		rosterView:  rosterview.New(roster),
		prefsView:   prefsview.New(prefsPortBridge{p: prefs}),
		activeTab:   tabSession,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(),
		message:     "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.historyView.Init(),
		m.rosterView.Init(),
		m.prefsView.Init(),
		m.loadStatusCmd(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return statusTickMsg{} })
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open. The status tick must keep
	// flowing or the timer freezes behind the overlay.
	if m.palette.Visible() {
		if _, ok := msg.(statusTickMsg); ok {
			return m, tea.Batch(m.loadStatusCmd(), tickCmd())
		}
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()

	case statusTickMsg:
		return m, tea.Batch(m.loadStatusCmd(), tickCmd())

	case statusLoadedMsg:
		if msg.err == nil {
			m.status = msg.status
			m.sessionView.SetStatus(msg.status)
		}

	case sessionStartedMsg:
		if msg.err != nil {
			m.message = "session start failed: " + msg.err.Error()
		} else {
			name := msg.out.PatientName
			if name == "" {
				name = msg.out.PatientID
			}
			m.message = "session started for " + name
			if msg.out.SupersededID != "" {
				m.message += "  (superseded " + msg.out.SupersededID + ")"
			}
			m.activeTab = tabSession
			cmds = append(cmds, m.loadStatusCmd(), m.historyView.Reload())
		}

	case sessionEndedMsg:
		switch {
		case msg.err != nil:
			m.message = "session end failed: " + msg.err.Error()
		case !msg.out.Disposition.Applied():
			m.message = string(msg.out.Disposition)
		default:
			m.message = fmt.Sprintf("session ended: %d min, %d tokens", msg.out.ActualMinutes, msg.out.TokensEarned)
			if msg.out.ReportPath != "" {
				m.message += "  report=" + msg.out.ReportPath
			}
			cmds = append(cmds, m.loadStatusCmd(), m.historyView.Reload(), m.rosterView.Reload())
		}

	case actionDoneMsg:
		if msg.err != nil {
			m.message = msg.err.Error()
		} else {
			m.message = msg.status
		}
		cmds = append(cmds, m.loadStatusCmd(), m.prefsView.Reload())

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.message = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view when its search filter is active.
		if m.subViewFiltering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case "?":
			m.showHelp = !m.showHelp
		case ":":
			cmds = append(cmds, m.palette.Open())
			return m, tea.Batch(cmds...)
		case "s":
			if m.activeTab == tabRoster {
				if id, ok := m.rosterView.SelectedPatientID(); ok {
					cmds = append(cmds, m.startSessionCmd(id, "therapist", 0))
				}
			}
		case "b":
			if m.activeTab == tabSession && m.status.Active {
				if m.status.OnBreak {
					cmds = append(cmds, m.endBreakCmd(0))
				} else {
					cmds = append(cmds, m.startBreakCmd("requested"))
				}
			}
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabSession:
		m.sessionView, tabCmd = m.sessionView.Update(msg)
	case tabHistory:
		m.historyView, tabCmd = m.historyView.Update(msg)
	case tabRoster:
		m.rosterView, tabCmd = m.rosterView.Update(msg)
	case tabPrefs:
		m.prefsView, tabCmd = m.prefsView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabSession:
		return m.sessionView.View()
	case tabHistory:
		return m.historyView.View()
	case tabRoster:
		return m.rosterView.View()
	case tabPrefs:
		return m.prefsView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "stc  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.message
	if m.status.Active {
		clock := fmt.Sprintf("● %02d:%02d", m.status.ElapsedSeconds/60, m.status.ElapsedSeconds%60)
		style := theme.Hot
		if m.status.RemainingSeconds <= sessiondomain.EndWarningSeconds {
			style = theme.Warn
		}
		left = style.Render(clock) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "session:start":
		if len(parts) < 3 {
			m.message = "usage: session:start <patient-id> <therapist-id> [minutes]"
			return m, nil
		}
		minutes := 0
		if len(parts) >= 4 {
			if v, err := strconv.Atoi(parts[3]); err == nil {
				minutes = v
			}
		}
		return m, m.startSessionCmd(parts[1], parts[2], minutes)

	case "session:end":
		return m, m.endSessionCmd()

	case "activity:start":
		if len(parts) < 2 {
			m.message = "usage: activity:start <type> [difficulty]"
			return m, nil
		}
		difficulty := 2
		if len(parts) >= 3 {
			if v, err := strconv.Atoi(parts[2]); err == nil {
				difficulty = v
			}
		}
		return m, m.startActivityCmd(parts[1], difficulty)

	case "activity:end":
		if len(parts) < 4 {
			m.message = "usage: activity:end <engagement> <success%> <tokens>"
			return m, nil
		}
		engagement, err1 := strconv.Atoi(parts[1])
		success, err2 := strconv.Atoi(parts[2])
		tokens, err3 := strconv.Atoi(parts[3])
		if err1 != nil || err2 != nil || err3 != nil {
			m.message = "activity:end wants three numbers"
			return m, nil
		}
		return m, m.endActivityCmd(engagement, success, tokens)

	case "break:start":
		kind := "requested"
		if len(parts) >= 2 {
			kind = parts[1]
		}
		return m, m.startBreakCmd(kind)

	case "break:end":
		effectiveness := 0
		if len(parts) >= 2 {
			if v, err := strconv.Atoi(parts[1]); err == nil {
				effectiveness = v
			}
		}
		return m, m.endBreakCmd(effectiveness)

	case "intervention":
		if len(parts) < 2 {
			m.message = "usage: intervention <kind> [effectiveness]"
			return m, nil
		}
		effectiveness := 0
		if len(parts) >= 3 {
			if v, err := strconv.Atoi(parts[2]); err == nil {
				effectiveness = v
			}
		}
		return m, m.recordInterventionCmd(parts[1], effectiveness)

	case "achievement":
		if len(parts) < 3 {
			m.message = "usage: achievement <kind> <description>"
			return m, nil
		}
		description := strings.TrimSpace(strings.TrimPrefix(input, parts[0]+" "+parts[1]))
		return m, m.recordAchievementCmd(parts[1], description)

	case "sample":
		if len(parts) < 3 {
			m.message = "usage: sample <sound> <word>"
			return m, nil
		}
		return m, m.recordSampleCmd(parts[1], parts[2])

	case "notes":
		text := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		return m, m.updateNotesCmd(text)

	case "prefs:set":
		if len(parts) < 3 {
			m.message = "usage: prefs:set <key> <value>"
			return m, nil
		}
		m.activeTab = tabPrefs
		return m, m.setPrefCmd(parts[1], parts[2])

	default:
		m.message = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewFiltering reports whether the active tab's list filter is open,
// in which case global key bindings must yield to allow free typing.
func (m Model) subViewFiltering() bool {
	switch m.activeTab {
	case tabHistory:
		return m.historyView.Filtering()
	case tabRoster:
		return m.rosterView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.sessionView, _ = m.sessionView.Update(sz)
	m.historyView, _ = m.historyView.Update(sz)
	m.rosterView, _ = m.rosterView.Update(sz)
	m.prefsView, _ = m.prefsView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) loadStatusCmd() tea.Cmd {
	return func() tea.Msg {
		status, err := m.session.Status(context.Background())
		return statusLoadedMsg{status: status, err: err}
	}
}

func (m Model) startSessionCmd(patientID, therapistID string, minutes int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.StartSession(context.Background(), patientID, therapistID, minutes)
		return sessionStartedMsg{out: out, err: err}
	}
}

func (m Model) endSessionCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.EndSession(context.Background())
		return sessionEndedMsg{out: out, err: err}
	}
}

func (m Model) startActivityCmd(activityType string, difficulty int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.StartActivity(context.Background(), activityType, nil, nil, difficulty)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		if !out.Disposition.Applied() {
			return actionDoneMsg{status: string(out.Disposition)}
		}
		return actionDoneMsg{status: "activity started: " + activityType}
	}
}

func (m Model) endActivityCmd(engagement, success, tokens int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.EndActivity(context.Background(), engagement, success, tokens, "")
		if err != nil {
			return actionDoneMsg{err: err}
		}
		if !out.Disposition.Applied() {
			return actionDoneMsg{status: string(out.Disposition)}
		}
		return actionDoneMsg{status: fmt.Sprintf("activity closed, session tokens now %d", out.SessionTokens)}
	}
}

func (m Model) startBreakCmd(kind string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.StartBreak(context.Background(), kind)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		if !out.Disposition.Applied() {
			return actionDoneMsg{status: string(out.Disposition)}
		}
		return actionDoneMsg{status: kind + " break started"}
	}
}

func (m Model) endBreakCmd(effectiveness int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.EndBreak(context.Background(), effectiveness, "")
		if err != nil {
			return actionDoneMsg{err: err}
		}
		if !out.Disposition.Applied() {
			return actionDoneMsg{status: string(out.Disposition)}
		}
		return actionDoneMsg{status: fmt.Sprintf("break ended after %ds", out.DurationSeconds)}
	}
}

func (m Model) recordInterventionCmd(kind string, effectiveness int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.RecordIntervention(context.Background(), kind, effectiveness, "")
		if err != nil {
			return actionDoneMsg{err: err}
		}
		if !out.Disposition.Applied() {
			return actionDoneMsg{status: string(out.Disposition)}
		}
		return actionDoneMsg{status: kind + " intervention recorded"}
	}
}

func (m Model) recordAchievementCmd(kind, description string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.RecordAchievement(context.Background(), kind, description, "", "")
		if err != nil {
			return actionDoneMsg{err: err}
		}
		if !out.Disposition.Applied() {
			return actionDoneMsg{status: string(out.Disposition)}
		}
		return actionDoneMsg{status: "achievement recorded"}
	}
}

// recordSampleCmd runs the machine assessment first, then stores the sample
// with its result. Difficulty comes from the open activity.
func (m Model) recordSampleCmd(sound, word string) tea.Cmd {
	difficulty := 2
	if m.status.CurrentActivity != nil && m.status.CurrentActivity.Difficulty > 0 {
		difficulty = m.status.CurrentActivity.Difficulty
	}
	return func() tea.Msg {
		assessment, err := m.assessor.Assess(context.Background(), assessordto.AssessInput{
			TargetSound:   sound,
			TargetWord:    word,
			Transcription: word,
			Difficulty:    difficulty,
		})
		if err != nil {
			return actionDoneMsg{err: err}
		}
		out, err := m.session.RecordSample(context.Background(), sessiondto.SampleInput{
			TargetSound:   sound,
			TargetWord:    word,
			RecordingRef:  fmt.Sprintf("recording-%s-%d.mp3", word, time.Now().UnixMilli()),
			Transcription: word,
			Machine: sessiondto.AssessmentInput{
				Recognized: assessment.Recognized,
				Clarity:    assessment.Clarity,
				Accuracy:   assessment.Accuracy,
				Notes:      assessment.Notes,
			},
		})
		if err != nil {
			return actionDoneMsg{err: err}
		}
		if !out.Disposition.Applied() {
			return actionDoneMsg{status: string(out.Disposition)}
		}
		verdict := "recognized"
		if !assessment.Recognized {
			verdict = "not recognized"
		}
		return actionDoneMsg{status: fmt.Sprintf("sample /%s/ %q %s (clarity %d)", sound, word, verdict, assessment.Clarity)}
	}
}

func (m Model) updateNotesCmd(text string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.UpdateNotes(context.Background(), text)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		if !out.Disposition.Applied() {
			return actionDoneMsg{status: string(out.Disposition)}
		}
		return actionDoneMsg{status: "notes updated"}
	}
}

func (m Model) setPrefCmd(key, value string) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.prefs.Set(context.Background(), key, value); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: "preference updated: " + key}
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────
// Each bridge narrows a broad port interface to the minimal interface needed
// by a specific sub-view.

type historyPortBridge struct{ p sessionPort }

func (b historyPortBridge) History(ctx context.Context) ([]sessiondto.SessionSummary, error) {
	return b.p.History(ctx)
}

type prefsPortBridge struct{ p prefsPort }

func (b prefsPortBridge) Get(ctx context.Context) (prefsdto.PreferencesOutput, error) {
	return b.p.Get(ctx)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
