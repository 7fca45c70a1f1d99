// Package tui renders the game in the terminal with bubbletea. It owns the
// frame loop: every frame it feeds collected key state into the session,
// drains notifications for the message log and republishes the snapshot.
package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"chartsurfer/internal/api"
	"chartsurfer/internal/game"
)

const maxLogLines = 6

type frameMsg time.Time

// Model drives one game session. Terminals deliver key presses, not key
// state, so each press is latched until the next frame consumes it; the
// session's own edge detection then sees exactly one press.
type Model struct {
	session *game.Session
	holder  *api.Holder
	log     *slog.Logger

	fps      int
	last     time.Time
	pending  game.Input
	snapshot game.Snapshot
	notes    []string

	timerBar progress.Model
	comboBar progress.Model
	expBar   progress.Model
	help     help.Model

	width  int
	height int
}

func NewModel(log *slog.Logger, session *game.Session, holder *api.Holder, fps int) Model {
	if fps <= 0 {
		fps = 60
	}
	return Model{
		session:  session,
		holder:   holder,
		log:      log,
		fps:      fps,
		snapshot: session.Snapshot(),
		timerBar: progress.New(progress.WithSolidFill("#fbbf24"), progress.WithoutPercentage()),
		comboBar: progress.New(progress.WithSolidFill("#f472b6"), progress.WithoutPercentage()),
		expBar:   progress.New(progress.WithSolidFill("#34d399"), progress.WithoutPercentage()),
		help:     help.New(),
	}
}

func (m Model) frameInterval() time.Duration {
	return time.Second / time.Duration(m.fps)
}

func (m Model) scheduleFrame() tea.Cmd {
	return tea.Tick(m.frameInterval(), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return m.scheduleFrame()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		barWidth := msg.Width - 24
		if barWidth < 10 {
			barWidth = 10
		}
		if barWidth > 60 {
			barWidth = 60
		}
		m.timerBar.Width = barWidth
		m.comboBar.Width = barWidth
		m.expBar.Width = barWidth
		m.help.Width = msg.Width

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}
		m.latch(msg)

	case frameMsg:
		now := time.Time(msg)
		delta := m.frameInterval()
		if !m.last.IsZero() {
			if d := now.Sub(m.last); d > 0 && d < time.Second {
				delta = d
			}
		}
		m.last = now

		m.session.Update(float64(delta)/float64(time.Millisecond), m.pending)
		m.session.Update(0, game.Input{}) // release latched presses
		m.pending = game.Input{}

		m.snapshot = m.session.Snapshot()
		if m.holder != nil {
			m.holder.Set(m.snapshot)
		}
		for _, n := range m.session.DrainNotifications() {
			m.pushNote(n)
		}
		return m, m.scheduleFrame()
	}
	return m, nil
}

func (m *Model) latch(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, keys.Buy):
		m.pending.Buy = true
	case key.Matches(msg, keys.Sell):
		m.pending.Sell = true
	case key.Matches(msg, keys.Close):
		m.pending.Close = true
	case key.Matches(msg, keys.Bet):
		m.pending.Bet = true
	case key.Matches(msg, keys.SlowItem):
		m.pending.SlowItem = true
	case key.Matches(msg, keys.ViewItem):
		m.pending.ViewItem = true
	case key.Matches(msg, keys.Confirm):
		m.pending.Confirm = true
	case key.Matches(msg, keys.Next):
		m.pending.Next = true
	case key.Matches(msg, keys.Up):
		m.pending.CursorUp = true
	case key.Matches(msg, keys.Down):
		m.pending.CursorDown = true
	}
}

func (m *Model) pushNote(n game.Notification) {
	line := formatNote(n)
	if line == "" {
		return
	}
	m.notes = append(m.notes, line)
	if len(m.notes) > maxLogLines {
		m.notes = m.notes[len(m.notes)-maxLogLines:]
	}
}
