package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// TickInterval is the countdown period.
const TickInterval = time.Second

// Driver is the chaos controller as seen from the host loop.
type Driver interface {
	Wake() error
	Tick() error
	Close() error
	Listening() bool
}

// forceQuit works in every screen mode, including the command line.
var forceQuit = key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit"))

type tickMsg time.Time

type wakeMsg struct{}

// Model is the bubbletea model hosting a Screen.
type Model struct {
	screen   *Screen
	driver   Driver
	wakeups  <-chan struct{}
	channel  string
	interval time.Duration
	quitting bool
}

// ModelOptions configures a Model.
type ModelOptions struct {
	// Wakeups is the bridge's wake channel. Nil runs without chat.
	Wakeups <-chan struct{}
	// Channel is shown in the status line.
	Channel string
	// Interval overrides TickInterval in tests.
	Interval time.Duration
}

// NewModel returns a model driving screen with d.
func NewModel(screen *Screen, d Driver, opts ModelOptions) *Model {
	interval := opts.Interval
	if interval <= 0 {
		interval = TickInterval
	}

	m := &Model{
		screen:   screen,
		driver:   d,
		wakeups:  opts.Wakeups,
		channel:  opts.Channel,
		interval: interval,
	}
	m.refreshStatus()

	return m
}

// Screen returns the hosted screen.
func (m *Model) Screen() *Screen { return m.screen }

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// waitForWake blocks off the Update goroutine until the listener signals.
func (m *Model) waitForWake() tea.Cmd {
	if m.wakeups == nil {
		return nil
	}

	ch := m.wakeups

	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}

		return wakeMsg{}
	}
}

// Init schedules the first countdown tick and the first bridge wait.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.waitForWake())
}

// Update handles messages on the host loop.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		if key.Matches(msg, forceQuit) || m.screen.HandleKey(msg.String()) {
			return m, m.quit()
		}

	case tickMsg:
		// Errors are already on the host error line.
		_ = m.driver.Tick()
		return m, m.tick()

	case wakeMsg:
		_ = m.driver.Wake()
		m.refreshStatus()

		if m.driver.Listening() {
			return m, m.waitForWake()
		}
	}

	return m, nil
}

func (m *Model) quit() tea.Cmd {
	if !m.quitting {
		m.quitting = true
		_ = m.driver.Close()
	}

	return tea.Quit
}

func (m *Model) refreshStatus() {
	switch {
	case m.channel == "":
		m.screen.SetStatus("chat off")
	case m.driver.Listening():
		m.screen.SetStatus("chat " + m.channel)
	default:
		m.screen.SetStatus("chat " + m.channel + " (disconnected)")
	}
}

// View renders the current frame.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	return m.screen.View()
}

// Run starts the bubbletea program on the alternate screen and blocks until
// the user quits. Close runs on quit.
func Run(m *Model, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)

	final, err := tea.NewProgram(m, opts...).Run()
	if fm, ok := final.(*Model); ok && !fm.quitting {
		_ = fm.driver.Close()
	}

	return err
}
