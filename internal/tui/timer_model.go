package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/wrkout/internal/metrics"
	"github.com/balkashynov/wrkout/internal/models"
	"github.com/balkashynov/wrkout/internal/tracker"
)

// refreshInterval redraws the clock; the manager owns the actual count
const refreshInterval = 250 * time.Millisecond

// Manager is the subset of the tracker the timer view drives
type Manager interface {
	Current() (models.Session, bool)
	IsTracking() bool
	Elapsed() time.Duration
	Pause(ctx context.Context) (models.Session, error)
	Resume(ctx context.Context) (models.Session, error)
	Stop(ctx context.Context, opts ...tracker.StopOption) (models.Session, error)
}

// TimerModel is the interactive workout timer
type TimerModel struct {
	width  int
	height int

	ctx     context.Context
	manager Manager
	keys    keyMap
	help    help.Model

	frame int // animation frame
	busy  bool
	err   error

	stopped *models.Session // set once the workout is completed
	exiting bool            // quit without stopping
}

type refreshMsg struct{}

// opResultMsg carries the outcome of a lifecycle call made off the UI loop
type opResultMsg struct {
	op      string
	session models.Session
	err     error
}

// NewTimerModel creates a timer view for the manager's current session
func NewTimerModel(ctx context.Context, manager Manager) TimerModel {
	return TimerModel{
		ctx:     ctx,
		manager: manager,
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
}

func refresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return refreshMsg{} })
}

// Init starts the redraw loop
func (m TimerModel) Init() tea.Cmd {
	return refresh()
}

func (m TimerModel) run(op string, fn func(context.Context) (models.Session, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		session, err := fn(ctx)
		return opResultMsg{op: op, session: session, err: err}
	}
}

// Update handles messages
func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		m.frame = (m.frame + 1) % 4
		if m.stopped != nil || m.exiting {
			return m, nil
		}
		return m, refresh()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case opResultMsg:
		m.busy = false
		m.err = msg.err
		if msg.op == "stop" && msg.err == nil {
			session := msg.session
			m.stopped = &session
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m TimerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.exiting = true
		return m, tea.Quit
	}
	if m.busy {
		return m, nil
	}

	session, ok := m.manager.Current()
	if !ok {
		m.err = tracker.ErrNoActiveSession
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Stop):
		m.busy = true
		return m, m.run("stop", func(ctx context.Context) (models.Session, error) {
			return m.manager.Stop(ctx)
		})
	case session.Status == models.StatusInProgress && key.Matches(msg, m.keys.Pause):
		m.busy = true
		return m, m.run("pause", m.manager.Pause)
	case session.Status == models.StatusPaused && key.Matches(msg, m.keys.Resume):
		m.busy = true
		return m, m.run("resume", m.manager.Resume)
	}

	return m, nil
}

// Stopped returns the completed session if the workout was stopped from the view
func (m TimerModel) Stopped() (models.Session, bool) {
	if m.stopped == nil {
		return models.Session{}, false
	}
	return *m.stopped, true
}

// View renders the timer
func (m TimerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDisabledText)).
		Render(m.help.View(m.keys))

	panel := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(m.renderTimerPanel())

	return lipgloss.JoinVertical(lipgloss.Left, panel, helpBar)
}

func (m TimerModel) renderTimerPanel() string {
	session, ok := m.manager.Current()
	if !ok {
		if m.stopped != nil {
			return m.renderSummary(*m.stopped)
		}
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Render("No active workout")
	}

	elapsed := m.manager.Elapsed()
	var components []string

	animChars := []string{"◐", "◓", "◑", "◒"}
	anim := animChars[m.frame]
	if !m.manager.IsTracking() {
		anim = "॥"
	}
	header := fmt.Sprintf("%s  %s %s  %s", anim, session.Type.Emoji(), strings.ToUpper(session.Type.Label()), anim)
	components = append(components, lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true).
		Render(header))

	components = append(components, renderBigClock(elapsed))

	statusText, statusColor := "Workout in progress", ColorSuccess
	if session.Status == models.StatusPaused {
		statusText, statusColor = "Workout paused", ColorWarning
	}
	components = append(components, lipgloss.NewStyle().
		Foreground(lipgloss.Color(statusColor)).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(statusColor)).
		Padding(0, 2).
		Render(statusText))

	seconds := int(elapsed / time.Second)
	calories := metrics.Calories(session.Type, seconds)
	if session.Calories != nil {
		calories = *session.Calories
	}
	info := fmt.Sprintf("Started at %s  ·  ~%d kcal", session.StartTime.Format("15:04:05"), calories)
	if km := metrics.For(session.Type, seconds).Distance; km > 0 {
		info += fmt.Sprintf("  ·  ~%.2f km", km)
	}
	components = append(components, lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Italic(true).
		Render(info))

	if m.err != nil {
		components = append(components, m.renderError())
	}

	return lipgloss.JoinVertical(lipgloss.Center, strings.Join(components, "\n\n"))
}

func (m TimerModel) renderError() string {
	msg := m.err.Error()
	if errors.Is(m.err, tracker.ErrNoActiveSession) || errors.Is(m.err, tracker.ErrCannotResumeSession) {
		msg = "Nothing to do: " + msg
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Render("✗ " + msg)
}

func (m TimerModel) renderSummary(s models.Session) string {
	lines := []string{
		fmt.Sprintf("%s %s complete", s.Type.Emoji(), s.Type.Label()),
		"Duration: " + tracker.FormatClock(s.Duration()),
	}
	if s.Calories != nil {
		lines = append(lines, fmt.Sprintf("Calories: %d kcal", *s.Calories))
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSuccess)).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1, 3).
		Render(strings.Join(lines, "\n"))
}

// bigDigits is a 5-row block font for the clock
var bigDigits = map[rune][5]string{
	'0': {" ███ ", "█   █", "█   █", "█   █", " ███ "},
	'1': {"  █  ", " ██  ", "  █  ", "  █  ", " ███ "},
	'2': {" ███ ", "    █", " ███ ", "█    ", "█████"},
	'3': {"████ ", "    █", " ███ ", "    █", "████ "},
	'4': {"█   █", "█   █", "█████", "    █", "    █"},
	'5': {"█████", "█    ", "████ ", "    █", "████ "},
	'6': {" ███ ", "█    ", "████ ", "█   █", " ███ "},
	'7': {"█████", "    █", "   █ ", "  █  ", "  █  "},
	'8': {" ███ ", "█   █", " ███ ", "█   █", " ███ "},
	'9': {" ███ ", "█   █", " ████", "    █", " ███ "},
	':': {"     ", "  █  ", "     ", "  █  ", "     "},
}

// renderBigClock renders elapsed as block digits
func renderBigClock(elapsed time.Duration) string {
	var rows [5]strings.Builder
	for _, r := range tracker.FormatClock(elapsed) {
		glyph, ok := bigDigits[r]
		if !ok {
			continue
		}
		for i := range rows {
			rows[i].WriteString(glyph[i])
			rows[i].WriteString(" ")
		}
	}

	lines := make([]string, len(rows))
	for i := range rows {
		lines[i] = rows[i].String()
	}

	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true).
		Render(strings.Join(lines, "\n"))
}

// RunTimerTUI opens the interactive timer for the current session. It
// returns the completed session when the user stopped the workout, or
// ok=false when they left it running.
func RunTimerTUI(ctx context.Context, manager Manager) (session models.Session, ok bool, err error) {
	p := tea.NewProgram(NewTimerModel(ctx, manager), tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return models.Session{}, false, err
	}

	if m, isTimer := finalModel.(TimerModel); isTimer {
		session, ok = m.Stopped()
	}
	return session, ok, nil
}
