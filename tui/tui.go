// Package tui renders the countdown timer in the terminal and maps key
// presses onto timer store actions.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/focushub/focushub/config"
	"github.com/focushub/focushub/internal/models"
	"github.com/focushub/focushub/internal/timeutil"
	"github.com/focushub/focushub/timer"
)

type keymap struct {
	togglePlay key.Binding
	stop       key.Binding
	enter      key.Binding
	quit       key.Binding
}

var defaultKeymap = keymap{
	togglePlay: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "pause/resume"),
	),
	stop: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "stop"),
	),
	enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "continue"),
	),
	quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type styles struct {
	base      lipgloss.Style
	main      lipgloss.Style
	secondary lipgloss.Style
	hint      lipgloss.Style
}

func newStyles(darkTheme bool) styles {
	main := lipgloss.Color("#B0DB43")
	secondary := lipgloss.Color("#12EAEA")
	hint := lipgloss.Color("241")

	if !darkTheme {
		hint = lipgloss.Color("246")
	}

	return styles{
		base:      lipgloss.NewStyle().Padding(1, 2),
		main:      lipgloss.NewStyle().Foreground(main).Bold(true),
		secondary: lipgloss.NewStyle().Foreground(secondary),
		hint:      lipgloss.NewStyle().Foreground(hint),
	}
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model drives the timer view. The store owns all countdown state; the model
// only forwards events and renders snapshots.
type Model struct {
	store *timer.Store
	opts  *config.Config

	progress progress.Model
	help     help.Model
	style    styles
}

// New returns a model around an already-started timer store.
func New(store *timer.Store, opts *config.Config) Model {
	return Model{
		store:    store,
		opts:     opts,
		progress: progress.New(progress.WithDefaultGradient()),
		help:     help.New(),
		style:    newStyles(opts.Display.DarkTheme),
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.store.Tick()

		if m.store.Snapshot().Status == models.Completed {
			return m, nil
		}

		return m, tick()

	case tea.WindowSizeMsg:
		m.progress.Width = msg.Width - 8
		if m.progress.Width > 60 {
			m.progress.Width = 60
		}

		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, defaultKeymap.togglePlay):
			if m.store.Snapshot().Status == models.Paused {
				m.store.Resume()
			} else {
				m.store.Pause()
			}

			return m, nil

		case key.Matches(msg, defaultKeymap.stop):
			m.store.Stop()
			return m, tea.Quit

		case key.Matches(msg, defaultKeymap.enter):
			snap := m.store.Snapshot()
			if snap.Status != models.Completed {
				return m, nil
			}

			m.store.Start(
				m.nextDuration(snap),
				nextSessionType(snap.SessionType),
				snap.CurrentProject,
				snap.CurrentTask,
			)

			return m, tick()

		case key.Matches(msg, defaultKeymap.quit):
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m Model) nextDuration(snap models.TimerSnapshot) int {
	if snap.SessionType == models.Break {
		return int(m.opts.Sessions.WorkDuration.Seconds())
	}

	interval := m.opts.Sessions.LongBreakInterval
	if interval > 0 && snap.SessionsCompleted%interval == 0 {
		return int(m.opts.Sessions.LongBreak.Seconds())
	}

	return int(m.opts.Sessions.ShortBreak.Seconds())
}

func nextSessionType(current models.SessionType) models.SessionType {
	if current == models.Work {
		return models.Break
	}

	return models.Work
}

// formatTimeRemaining returns the remaining time formatted as "MM:SS".
func formatTimeRemaining(secs int) string {
	mins, s := timeutil.SecsToMinsAndSecs(secs)

	return fmt.Sprintf("%02d:%02d", mins, s)
}

func (m Model) sessionPromptView(snap models.TimerSnapshot) string {
	var s strings.Builder

	title := "Your focus session is complete"
	msg := "It's time to take a well-deserved break!"

	if snap.SessionType == models.Break {
		title = "Your break is over"
		msg = "It's time to refocus and get back to work!"
	}

	s.WriteString(m.style.main.Render(title))
	s.WriteString("\n\n" + m.style.secondary.Render(msg))
	s.WriteString("\n\n" + m.help.ShortHelpView([]key.Binding{
		defaultKeymap.enter,
		defaultKeymap.quit,
	}))

	return s.String()
}

func (m Model) timerView(snap models.TimerSnapshot) string {
	var s strings.Builder

	label := "Focus"
	if snap.SessionType == models.Break {
		label = "Break"
	}

	s.WriteString(m.style.secondary.Render(label))

	if snap.Status == models.Paused {
		s.WriteString(m.style.hint.Render(" [Paused]"))
	} else if snap.EndTime == nil && snap.StartTime != nil {
		timeFormat := "03:04:05 PM"
		if m.opts.Display.TwentyFourHour {
			timeFormat = "15:04:05"
		}

		until := time.Now().Add(time.Duration(snap.CurrentTime) * time.Second)

		s.WriteString(m.style.hint.Render(" until " + until.Format(timeFormat)))
	}

	s.WriteString(m.style.hint.Render(
		fmt.Sprintf(" (%d completed)", snap.SessionsCompleted),
	))

	s.WriteString("\n\n")
	s.WriteString(m.style.main.Render(formatTimeRemaining(snap.CurrentTime)))
	s.WriteString("\n\n")
	s.WriteString(m.progress.ViewAs(m.store.Progress() / 100))
	s.WriteString("\n\n" + m.help.ShortHelpView([]key.Binding{
		defaultKeymap.togglePlay,
		defaultKeymap.stop,
		defaultKeymap.quit,
	}))

	return s.String()
}

func (m Model) View() string {
	snap := m.store.Snapshot()

	if snap.Status == models.Completed {
		return m.style.base.Render(m.sessionPromptView(snap))
	}

	return m.style.base.Render(m.timerView(snap))
}
