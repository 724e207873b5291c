package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mferr/scandesk/internal/activity"
	"github.com/mferr/scandesk/internal/autostart"
	"github.com/mferr/scandesk/internal/monitor"
	"github.com/mferr/scandesk/internal/server"
	"github.com/mferr/scandesk/internal/status"
)

const (
	// defaultRefresh matches the 5 second cadence the status widgets
	// have always refreshed at.
	defaultRefresh = 5 * time.Second

	retryTimeout = 10 * time.Second

	// startGrace is how long the server may show "Starting" before the
	// shell assumes the start attempt failed.
	startGrace = 10 * time.Second
)

// Options wires the shell to its collaborators.
type Options struct {
	Context      context.Context
	Log          *activity.Log
	Supervisor   *server.Supervisor
	Monitor      *monitor.Monitor
	Autostart    autostart.Controller
	RefreshEvery time.Duration
}

// Run starts the shell and blocks until the user quits or the context
// is cancelled. The activity subscription it registers lives for the
// rest of the process; once the program exits, Send becomes a no-op and
// further entries are dropped silently.
func Run(opts Options) error {
	// Subscribe before New seeds from Recent so no entry can fall
	// between the snapshot and the subscription. The relay buffers
	// entries so the subscriber never blocks a producer while the
	// program is still starting; entries the seed already covered are
	// dropped by the sequence check in Update.
	relay := make(chan activity.Entry, activity.DefaultCapacity)
	opts.Log.Subscribe(func(e activity.Entry) {
		select {
		case relay <- e:
		default:
		}
	})

	m := New(opts)

	p := tea.NewProgram(m, tea.WithAltScreen())

	if ctx := opts.Context; ctx != nil {
		go func() {
			<-ctx.Done()
			p.Quit()
		}()
	}

	go func() {
		for e := range relay {
			p.Send(entryMsg(e))
		}
	}()

	_, err := p.Run()
	return err
}

// Messages marshaled onto the UI goroutine.
type (
	tickMsg      time.Time
	entryMsg     activity.Entry
	retryDoneMsg struct{}

	autostartMsg struct {
		enabled bool
		err     error
	}

	browserMsg struct{ err error }
)

// Model is the root Bubble Tea state. Everything in here is owned by
// the UI goroutine.
type Model struct {
	log     *activity.Log
	sup     *server.Supervisor
	mon     *monitor.Monitor
	auto    autostart.Controller
	refresh time.Duration

	styles Styles

	width  int
	height int
	ready  bool

	viewport viewport.Model
	lines    []string
	lastSeq  uint64

	serverStatus server.Status
	depStatus    monitor.Status
	health       status.Health
	autostartOn  bool
	startedAt    time.Time
}

// New builds the model. The autostart state is read here, off the
// event loop, so Update never touches the OS store directly.
func New(opts Options) Model {
	refresh := opts.RefreshEvery
	if refresh <= 0 {
		refresh = defaultRefresh
	}

	// Seed the feed with whatever happened before the shell came up.
	var (
		lines   []string
		lastSeq uint64
	)
	for _, e := range opts.Log.Recent(activity.DefaultCapacity) {
		lines = append(lines, e.Format())
		lastSeq = e.Seq
	}

	return Model{
		lines:       lines,
		lastSeq:     lastSeq,
		log:         opts.Log,
		sup:         opts.Supervisor,
		mon:         opts.Monitor,
		auto:        opts.Autostart,
		refresh:     refresh,
		styles:      DefaultTheme().Styles(),
		autostartOn: opts.Autostart.IsEnabled(),
		startedAt:   time.Now(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.refresh)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(0, 0)
			m.ready = true
		}
		m.applySize()
		m.refreshViewport()
		return m, nil

	case tickMsg:
		m.refreshSnapshots()
		return m, tickCmd(m.refresh)

	case entryMsg:
		e := activity.Entry(msg)
		if e.Seq <= m.lastSeq {
			// Already covered by the seed snapshot.
			return m, nil
		}
		m.lastSeq = e.Seq
		m.lines = append(m.lines, e.Format())
		if len(m.lines) > activity.DefaultCapacity {
			m.lines = m.lines[len(m.lines)-activity.DefaultCapacity:]
		}
		m.refreshSnapshots()
		m.refreshViewport()
		return m, nil

	case retryDoneMsg:
		m.refreshSnapshots()
		return m, nil

	case autostartMsg:
		if msg.err == nil {
			m.autostartOn = msg.enabled
		}
		return m, nil

	case browserMsg:
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit

	case "r":
		return m, m.retryCmd()

	case "o":
		return m, m.openBrowserCmd()

	case "s":
		return m, m.toggleAutostartCmd()

	case "up", "k":
		m.viewport.ScrollUp(1)
		return m, nil

	case "down", "j":
		m.viewport.ScrollDown(1)
		return m, nil
	}
	return m, nil
}

func (m *Model) refreshSnapshots() {
	m.serverStatus = m.sup.Status()
	m.depStatus = m.mon.Status()
	m.health = status.Aggregate(m.serverStatus.Running, m.depStatus.Connected)
}

func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(joinLines(m.lines))
	if atBottom {
		m.viewport.GotoBottom()
	}
}

func tickCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// retryCmd runs a manual dependency check off the event loop. The
// resulting activity entries arrive back through the subscription.
func (m Model) retryCmd() tea.Cmd {
	log, mon := m.log, m.mon
	return func() tea.Msg {
		log.Infof("Manual database retry requested")
		ctx, cancel := context.WithTimeout(context.Background(), retryTimeout)
		defer cancel()
		mon.Check(ctx)
		return retryDoneMsg{}
	}
}

func (m Model) openBrowserCmd() tea.Cmd {
	log, sup := m.log, m.sup
	return func() tea.Msg {
		local, _, ok := sup.URLs()
		if !ok {
			return browserMsg{}
		}
		if err := openBrowser(local); err != nil {
			log.Errorf("Failed to open browser: %v", err)
			return browserMsg{err: err}
		}
		log.Infof("Opened application in browser")
		return browserMsg{}
	}
}

func (m Model) toggleAutostartCmd() tea.Cmd {
	log, auto, enabled := m.log, m.auto, m.autostartOn
	return func() tea.Msg {
		if enabled {
			if err := auto.Disable(); err != nil {
				log.Errorf("Failed to modify startup: %v", err)
				return autostartMsg{enabled: enabled, err: err}
			}
			log.Infof("Removed from login startup")
			return autostartMsg{enabled: false}
		}

		cmd, err := autostart.LaunchCommand()
		if err == nil {
			err = auto.Enable(cmd)
		}
		if err != nil {
			log.Errorf("Failed to modify startup: %v", err)
			return autostartMsg{enabled: enabled, err: err}
		}
		log.Infof("Added to login startup")
		return autostartMsg{enabled: true}
	}
}
