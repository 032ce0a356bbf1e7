package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	pbar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/agbru/provision/internal/catalog"
	"github.com/agbru/provision/internal/cli"
	apperrors "github.com/agbru/provision/internal/errors"
	"github.com/agbru/provision/internal/format"
	"github.com/agbru/provision/internal/orchestration"
	"github.com/agbru/provision/internal/progress"
	"github.com/agbru/provision/internal/sysmon"
	"github.com/agbru/provision/internal/ui"
)

// RunFunc performs the installation, reporting through reporter. Progress
// output of the reporter goes to out.
type RunFunc func(ctx context.Context, reporter orchestration.ProgressReporter, out io.Writer) (*orchestration.Report, error)

// Layout constants for the dashboard.
const (
	headerHeight = 1
	footerHeight = 1
	// chrome is the panel border plus the progress line and its spacer.
	chrome        = 4
	minBodyHeight = 3
	tickInterval  = 500 * time.Millisecond
)

// Model is the root bubbletea model for the installation dashboard.
type Model struct {
	header HeaderModel
	jobs   JobsModel
	bar    pbar.Model
	spin   spinner.Model
	help   help.Model
	keymap KeyMap
	st     styles

	ctx    context.Context
	cancel context.CancelFunc
	run    RunFunc
	ref    *programRef
	state  *runState
	sample sysmon.SampleFunc

	width, height int
	total         int
	completed     int
	ratio         float64
	eta           time.Duration

	canceling bool
	done      bool
	report    *orchestration.Report
	err       error
}

// NewModel creates a dashboard for items. The run starts when the program
// initializes the model.
func NewModel(parentCtx context.Context, title string, items []catalog.Item, theme ui.Theme, run RunFunc) Model {
	ctx, cancel := context.WithCancel(parentCtx)
	st := newStyles(theme.TUI)

	barOpts := []pbar.Option{pbar.WithoutPercentage()}
	if c, ok := theme.TUI.Accent.(lipgloss.Color); ok && theme.Enabled() {
		barOpts = append(barOpts, pbar.WithSolidFill(string(c)))
	} else {
		barOpts = append(barOpts, pbar.WithColorProfile(termenv.Ascii))
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(st.running))

	return Model{
		header: NewHeaderModel(title),
		jobs:   NewJobsModel(items),
		bar:    pbar.New(barOpts...),
		spin:   sp,
		help:   help.New(),
		keymap: DefaultKeyMap(),
		st:     st,
		ctx:    ctx,
		cancel: cancel,
		run:    run,
		ref:    &programRef{},
		state:  newRunState(),
		sample: sysmon.Sample,
		total:  len(items),
	}
}

// Init starts the run, the spinner and the clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, tickCmd(), startRunCmd(m.ctx, m.ref, m.state, m.run))
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case ProgressMsg:
		m.jobs.Apply(msg.Update)
		m.completed = msg.Update.Completed
		m.ratio = msg.Ratio
		m.eta = msg.ETA
		return m, m.bar.SetPercent(msg.Ratio)

	case ProgressDoneMsg:
		return m, nil

	case RunCompleteMsg:
		m.done = true
		m.report = msg.Report
		m.err = msg.Err
		m.header.SetDone(m.finalStatus())
		m.header.SetSystem("")
		if m.ctx.Err() != nil {
			// Canceled runs close the dashboard on their own.
			return m, tea.Quit
		}
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		if m.sample != nil {
			m.header.SetSystem(m.sample().String())
		}
		return m, tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case pbar.FrameMsg:
		updated, cmd := m.bar.Update(msg)
		if b, ok := updated.(pbar.Model); ok {
			m.bar = b
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.done {
			return m, tea.Quit
		}
		if !m.canceling {
			m.canceling = true
			m.cancel()
			m.header.SetStatus("canceling, waiting for running installs")
		}
		return m, nil
	case key.Matches(msg, m.keymap.Up):
		m.jobs.Scroll(-1)
	case key.Matches(msg, m.keymap.Down):
		m.jobs.Scroll(1)
	case key.Matches(msg, m.keymap.PageUp):
		m.jobs.Scroll(-m.jobs.height)
	case key.Matches(msg, m.keymap.PageDown):
		m.jobs.Scroll(m.jobs.height)
	}
	return m, nil
}

func (m *Model) layout() {
	m.header.SetWidth(m.width)
	m.help.Width = m.width
	inner := max(m.width-4, 10)
	m.bar.Width = max(inner-30, 10)
	body := max(m.height-headerHeight-footerHeight-chrome, minBodyHeight)
	m.jobs.SetSize(inner, body)
}

func (m Model) finalStatus() string {
	var envErr apperrors.EnvironmentError
	switch {
	case m.err != nil && errors.Is(m.err, context.Canceled):
		return "canceled"
	case m.err != nil && errors.Is(m.err, context.DeadlineExceeded):
		return "timed out"
	case m.err != nil && errors.As(m.err, &envErr):
		return "aborted"
	case m.err != nil:
		return "error"
	case m.report != nil && m.report.Stats.Failed > 0:
		return "done with failures"
	default:
		return "done"
	}
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	progressLine := fmt.Sprintf("%s  %d/%d  ETA %s",
		m.bar.View(), m.completed, m.total, format.FormatETA(m.eta))
	if m.done {
		progressLine = m.summaryLine()
	}

	panel := m.st.panel.Width(max(m.width-2, 10)).Render(
		progressLine + "\n\n" + m.jobs.View(m.st, m.spin.View()))

	footer := m.help.View(m.keymap)
	if m.done {
		footer = m.st.dim.Render("press q to exit")
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(m.st), panel, footer)
}

func (m Model) summaryLine() string {
	var b strings.Builder
	if m.report != nil {
		s := m.report.Stats
		fmt.Fprintf(&b, "%s  %s  %s",
			m.st.succeeded.Render(fmt.Sprintf("installed %d", s.Installed)),
			m.st.skipped.Render(fmt.Sprintf("skipped %d", s.Skipped)),
			m.st.forState(progress.Failed).Render(fmt.Sprintf("failed %d", s.Failed)))
		if m.report.NotStarted > 0 {
			fmt.Fprintf(&b, "  %s", m.st.warning.Render(fmt.Sprintf("not started %d", m.report.NotStarted)))
		}
	}
	if m.err != nil {
		fmt.Fprintf(&b, "  %s", m.st.failed.Render(m.err.Error()))
	}
	return b.String()
}

// program is the part of tea.Program that Run drives.
type program interface {
	sender
	Run() (tea.Model, error)
}

var newProgram = func(m tea.Model) program {
	return tea.NewProgram(m, tea.WithAltScreen())
}

// runState records whether the run was started and carries its outcome, so
// Run can recover it when the dashboard itself fails.
type runState struct {
	started atomic.Bool
	done    chan RunCompleteMsg
}

func newRunState() *runState {
	return &runState{done: make(chan RunCompleteMsg, 1)}
}

// Run shows the dashboard while run executes and returns its outcome once
// the user closes the dashboard.
//
// When the dashboard cannot start or dies (no terminal, for instance), the
// run is not abandoned: a run already in progress is awaited, otherwise it
// is performed with plain line output on out.
//
// Parameters:
//   - ctx: Cancels the run; the dashboard closes once in-flight installs end.
//   - title: Shown in the header.
//   - items: The items being installed, in catalog order.
//   - theme: Colors for the dashboard.
//   - out: Receives the fallback notice and progress lines.
//   - run: Performs the installation.
//
// Returns:
//   - *orchestration.Report: The report of the run.
//   - error: The run error.
func Run(ctx context.Context, title string, items []catalog.Item, theme ui.Theme, out io.Writer, run RunFunc) (*orchestration.Report, error) {
	model := NewModel(ctx, title, items, theme, run)
	defer model.cancel()

	p := newProgram(model)
	// Inject the program reference before running so bridge goroutines can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		model.ref.SetProgram(nil)
		fmt.Fprintf(out, "Dashboard unavailable (%v), showing plain progress.\n", err)
		if !model.state.started.CompareAndSwap(false, true) {
			msg := <-model.state.done
			return msg.Report, msg.Err
		}
		return run(model.ctx, cli.LineProgressReporter{Theme: theme}, out)
	}
	if m, ok := finalModel.(Model); ok {
		return m.report, m.err
	}
	return nil, errors.New("dashboard returned an unexpected model")
}

// startRunCmd returns a tea.Cmd that performs the run once.
func startRunCmd(ctx context.Context, ref *programRef, state *runState, run RunFunc) tea.Cmd {
	return func() tea.Msg {
		if !state.started.CompareAndSwap(false, true) {
			return nil
		}
		report, err := run(ctx, &TUIProgressReporter{ref: ref}, io.Discard)
		msg := RunCompleteMsg{Report: report, Err: err}
		state.done <- msg
		return msg
	}
}

// tickCmd returns a command that sends a TickMsg after tickInterval.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
