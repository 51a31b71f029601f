// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/bunbuntype/internal/model"
	"github.com/verte-zerg/bunbuntype/internal/queue"
	"github.com/verte-zerg/bunbuntype/internal/session"
	statsPkg "github.com/verte-zerg/bunbuntype/internal/stats"
	"github.com/verte-zerg/bunbuntype/internal/statsui"
)

const (
	tickInterval       = 100 * time.Millisecond
	sparklineSessions  = 20
	defaultCurveWindow = 5
)

type screen int

const (
	screenMenu screen = iota
	screenTyping
	screenResult
	screenChart
)

var menuItems = []string{"Typing Test", "View Graph"}

// tickMsg carries the generation of the session that scheduled it so ticks
// from an abandoned session can be dropped.
type tickMsg struct {
	gen int
	at  time.Time
}

// Options configures the typing UI.
type Options struct {
	Config     model.Config
	Vocabulary []string
	// Recorder persists finished sessions. Nil keeps results in memory only.
	Recorder session.Recorder
	History  []model.ScoreRecord
	Shuffler queue.Shuffler
	Clock    func() time.Time
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	config   model.Config
	words    *queue.Queue
	recorder session.Recorder
	history  []model.ScoreRecord
	now      func() time.Time

	width  int
	height int

	screen    screen
	selection int
	status    string

	session  *session.Session
	gen      int
	lastTick time.Time

	chart *statsui.Model
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	overflowStyle    = incorrectStyle.Underline(true)
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = currentWordStyle.Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	selectedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// NewModel constructs a typing TUI model.
func NewModel(opts Options) (*Model, error) {
	words, err := queue.New(opts.Vocabulary, opts.Shuffler)
	if err != nil {
		return nil, err
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &Model{
		config:   opts.Config,
		words:    words,
		recorder: opts.Recorder,
		history:  opts.History,
		now:      now,
	}, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.chart != nil {
			m.chart.SetSize(msg.Width, msg.Height)
		}
		return m, nil
	case tickMsg:
		return m, m.handleTick(msg)
	case statsui.BackMsg:
		m.screen = screenMenu
		return m, tea.ClearScreen
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.screen {
		case screenMenu:
			return m, m.updateMenu(msg)
		case screenTyping:
			return m, m.updateTyping(msg)
		case screenResult:
			return m, m.updateResult(msg)
		case screenChart:
			_, cmd := m.chart.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.screen {
	case screenChart:
		return m.chart.View()
	case screenTyping:
		content = m.renderTyping()
	case screenResult:
		content = m.renderResult()
	default:
		content = m.renderMenu()
	}
	if m.status != "" {
		content += "\n\n" + statusStyle.Render(m.status)
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) updateMenu(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		m.moveSelection(-1)
	case "down", "j":
		m.moveSelection(1)
	case "enter":
		return m.confirmMenu()
	case "q":
		return tea.Quit
	}
	return nil
}

// moveSelection wraps at both ends of the menu.
func (m *Model) moveSelection(delta int) {
	count := len(menuItems)
	m.selection = ((m.selection+delta)%count + count) % count
}

func (m *Model) confirmMenu() tea.Cmd {
	m.status = ""
	switch m.selection {
	case 0:
		return m.newSession()
	case 1:
		m.chart = statsui.NewEmbedded(m.history, model.StatsConfig{CurveWindow: defaultCurveWindow})
		m.chart.SetSize(m.width, m.height)
		m.screen = screenChart
		return tea.ClearScreen
	}
	return nil
}

func (m *Model) newSession() tea.Cmd {
	s, err := session.New(m.words, m.recorder,
		session.WithPreview(m.config.Preview),
		session.WithClock(m.now),
	)
	if err != nil {
		m.reportError(err)
		return nil
	}
	// Invalidate ticks still in flight from the previous session.
	m.gen++
	m.session = s
	m.status = ""
	m.screen = screenTyping
	return nil
}

func (m *Model) abandonSession() {
	m.gen++
	m.session = nil
	m.screen = screenMenu
}

func (m *Model) updateTyping(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.abandonSession()
		return nil
	case tea.KeyBackspace, tea.KeyDelete:
		m.reportError(m.session.BackspaceCommit())
		return nil
	case tea.KeySpace:
		return m.handleRunes([]rune{' '})
	case tea.KeyRunes:
		return m.handleRunes(msg.Runes)
	}
	return nil
}

func (m *Model) handleRunes(runes []rune) tea.Cmd {
	var cmd tea.Cmd
	for _, r := range runes {
		if m.session.State() == session.NotStarted {
			if unicode.IsSpace(r) {
				continue
			}
			if err := m.session.Start(m.config.Duration); err != nil {
				m.reportError(err)
				return nil
			}
			m.lastTick = m.now()
			cmd = tickCmd(m.gen)
		}
		m.reportError(m.session.TypeCharacter(r))
	}
	return cmd
}

func tickCmd(gen int) tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg{gen: gen, at: t}
	})
}

func (m *Model) handleTick(msg tickMsg) tea.Cmd {
	if msg.gen != m.gen || m.session == nil || m.session.State() != session.Running {
		return nil
	}
	elapsed := msg.at.Sub(m.lastTick)
	m.lastTick = msg.at
	finished, err := m.session.OnTick(elapsed)
	if err != nil {
		m.reportError(err)
		return nil
	}
	if finished {
		m.finishSession()
		return nil
	}
	return tickCmd(msg.gen)
}

func (m *Model) finishSession() {
	m.screen = screenResult
	outcome, ok := m.session.Outcome()
	if !ok {
		return
	}
	if outcome.ScoreErr != nil {
		slog.Debug("session finished without a record", "err", outcome.ScoreErr)
	}
	if outcome.SaveErr != nil {
		slog.Warn("failed to save result", "err", outcome.SaveErr)
	}
	if outcome.Saved() {
		m.history = append(m.history, *outcome.Record)
	}
}

func (m *Model) updateResult(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		return m.newSession()
	case "b", "esc":
		m.session = nil
		m.screen = screenMenu
	case "q":
		return tea.Quit
	}
	return nil
}

// reportError logs err. Invalid-state errors stay quiet unless debugging.
func (m *Model) reportError(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, model.ErrInvalidState) && !m.config.Debug {
		slog.Debug("ignored input", "err", err)
		return
	}
	slog.Error("typing session error", "err", err)
	m.status = err.Error()
}

func (m *Model) renderMenu() string {
	lines := []string{titleStyle.Render("Bunbuntype"), ""}
	for i, item := range menuItems {
		if i == m.selection {
			lines = append(lines, selectedStyle.Render("> "+item))
		} else {
			lines = append(lines, pendingStyle.Render("  "+item))
		}
	}
	lines = append(lines, "", footerStyle.Render("up/down: select  enter: confirm  q: quit"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderTyping() string {
	snap := m.session.Snapshot()
	remaining := snap.Remaining
	hint := "esc: menu  backspace: submit word"
	if snap.State == session.NotStarted {
		remaining = m.config.Duration
		hint = "start typing to begin  " + hint
	}
	header := fmt.Sprintf("%s   Correct %d   Incorrect %d", formatClock(remaining), snap.Correct, snap.Incorrect)

	words := append([]string{snap.CurrentWord}, snap.Upcoming...)
	styled := buildStyledRunes(words, []rune(snap.Input))
	stream := renderStyledRunes(styled)
	if width := m.contentWidth(); width > 0 {
		stream = lipgloss.NewStyle().Width(width).Render(wrapStyledRunes(styled, width))
	}
	return strings.Join([]string{
		titleStyle.Render(header),
		"",
		stream,
		"",
		"> " + snap.Input,
		"",
		footerStyle.Render(hint),
	}, "\n")
}

func (m *Model) renderResult() string {
	lines := []string{titleStyle.Render("Result"), ""}
	outcome, _ := m.session.Outcome()
	if rec := outcome.Record; rec != nil {
		lines = append(lines,
			fmt.Sprintf("WPM       %.0f", math.Round(rec.WPM)),
			fmt.Sprintf("Accuracy  %.0f%%", math.Round(rec.Accuracy*100)),
			fmt.Sprintf("AWPM      %.0f", math.Round(rec.AWPM)),
			fmt.Sprintf("Duration  %.0fs", rec.Duration),
		)
	} else {
		lines = append(lines, "No attempt recorded")
	}
	if outcome.SaveErr != nil {
		// SaveErr already reads "result not saved: ...".
		msg := outcome.SaveErr.Error()
		lines = append(lines, "", statusStyle.Render(strings.ToUpper(msg[:1])+msg[1:]))
	}
	lines = append(lines, "", footerStyle.Render("enter: new test  b/esc: menu"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	if m.screen != screenMenu || len(m.history) == 0 {
		return ""
	}
	last := m.history[len(m.history)-1]
	recent := statsPkg.AWPMSeries(m.history)
	if len(recent) > sparklineSessions {
		recent = recent[len(recent)-sparklineSessions:]
	}
	footer := fmt.Sprintf("Last %.0f AWPM · %.1f%%  %s", math.Round(last.AWPM), last.Accuracy*100, statsPkg.Sparkline(recent))
	return footerStyle.Render(footer)
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	width := int(float64(m.width) * 0.70)
	if width < 1 {
		width = 1
	}
	return width
}

func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(math.Ceil(d.Seconds()))
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
