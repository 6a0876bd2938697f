// Package tui is the interactive session manager: a state machine that
// turns keystrokes into tmux adapter calls, reconciles the returned
// state into the session store, and renders it each frame.
//
// The controller is strictly sequential: at most one adapter call is in
// flight per input event, and every adapter failure becomes a transient
// status message — never a crash of the loop. The only fatal path is an
// explicit quit.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muxman/muxman/internal/model"
	telem "github.com/muxman/muxman/internal/otel"
	"github.com/muxman/muxman/internal/store"
	"github.com/muxman/muxman/internal/tmux"
)

// Client is the adapter surface the controller drives. *tmux.Client
// implements it; tests substitute a fake.
type Client interface {
	ListSessions(ctx context.Context) (model.Snapshot, error)
	NewSession(ctx context.Context, name string) error
	KillSession(ctx context.Context, name string) error
	RenameSession(ctx context.Context, oldName, newName string) error
	NewWindow(ctx context.Context, session string) error
	DetachSession(ctx context.Context, name string) error
	SwitchClient(ctx context.Context, name string) error
	AttachCommand(name string) *exec.Cmd
}

// mode is the controller's top-level state. Browsing is the initial
// state; the attached state is represented by the tea.ExecProcess
// handoff (no polling or rendering happens while attached) and resolves
// back to browsing via attachDoneMsg.
type mode int

const (
	modeBrowsing mode = iota
	modeInput         // awaiting text input for create/rename/filter
	modeConfirm       // awaiting confirmation of a kill
	modeHelp
)

// inputPurpose tags what a confirmed text input is for.
type inputPurpose int

const (
	purposeCreate inputPurpose = iota
	purposeRename
	purposeFilter
)

// messages
type attachDoneMsg struct {
	name string
	err  error
}

type tickMsg struct{}

// TUI runs the interactive session manager.
type TUI struct {
	Client          Client
	Store           *store.Store
	RefreshInterval time.Duration // 0 disables auto-refresh
	SkipConfirm     bool          // kill without the confirmation prompt
	Theme           Theme
	Metrics         *telem.Metrics
	InsideTmux      bool // attach via switch-client instead of handoff
}

// tuiModel implements tea.Model.
type tuiModel struct {
	client          Client
	store           *store.Store
	ctx             context.Context
	refreshInterval time.Duration
	skipConfirm     bool
	insideTmux      bool
	metrics         *telem.Metrics
	styles          styles

	mode    mode
	purpose inputPurpose

	// cursor indexes visible, which holds snapshot indices surviving the
	// fuzzy filter. Both are rebuilt whenever the store is replaced; the
	// cursor re-resolves by name, never by structural reference.
	cursor  int
	visible []int
	filter  string

	confirmTarget string // session pending kill
	renameTarget  string // session being renamed

	textInput textinput.Model

	message string
	width   int
	height  int
}

// Run starts the event loop and blocks until quit.
func (t *TUI) Run(ctx context.Context) error {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	st := t.Store
	if st == nil {
		st = store.New()
	}

	m := &tuiModel{
		client:          t.Client,
		store:           st,
		ctx:             ctx,
		refreshInterval: t.RefreshInterval,
		skipConfirm:     t.SkipConfirm,
		insideTmux:      t.InsideTmux,
		metrics:         t.Metrics,
		styles:          newStyles(t.Theme),
		textInput:       ti,
		message:         "Welcome to muxman. Press 'h' for help.",
	}
	m.refresh()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *tuiModel) Init() tea.Cmd {
	return m.scheduleTick()
}

// scheduleTick returns a tea.Cmd that sends a tickMsg after the refresh
// interval. Returns nil if auto-refresh is disabled (interval <= 0).
func (m *tuiModel) scheduleTick() tea.Cmd {
	if m.refreshInterval <= 0 {
		return nil
	}
	return tea.Tick(m.refreshInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case attachDoneMsg:
		m.mode = modeBrowsing
		if msg.err != nil {
			m.message = statusForError(attachError(msg.err))
		} else {
			m.message = fmt.Sprintf("Detached from '%s'", msg.name)
		}
		m.refresh()
		return m, nil

	case tickMsg:
		// Auto-refresh only while browsing; a pending prompt or
		// confirmation must not have its context swapped underneath it.
		if m.mode == modeBrowsing {
			prevMessage := m.message
			if m.refresh() {
				m.message = prevMessage
			}
		}
		return m, m.scheduleTick()
	}

	return m, nil
}

func (m *tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeBrowsing:
		return m.handleBrowsingKey(msg)
	case modeInput:
		return m.handleInputKey(msg)
	case modeConfirm:
		return m.handleConfirmKey(msg)
	case modeHelp:
		return m.handleHelpKey(msg)
	}
	return m, nil
}

func (m *tuiModel) handleBrowsingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch dispatch(msg) {
	case ActionQuit:
		return m, tea.Quit

	case ActionNavigateUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case ActionNavigateDown:
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}

	case ActionCreate:
		m.enterInput(purposeCreate, "")

	case ActionRename:
		sess, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.renameTarget = sess.Name
		m.enterInput(purposeRename, "")

	case ActionDelete:
		sess, ok := m.selected()
		if !ok {
			return m, nil
		}
		if m.skipConfirm {
			m.killSession(sess.Name)
			return m, nil
		}
		m.confirmTarget = sess.Name
		m.mode = modeConfirm

	case ActionAttach:
		sess, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m.attach(sess.Name)

	case ActionDetach:
		sess, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.client.DetachSession(m.ctx, sess.Name); err != nil {
			m.message = statusForError(err)
			return m, nil
		}
		m.message = fmt.Sprintf("Detached clients from '%s'", sess.Name)
		m.refresh()

	case ActionNewWindow:
		sess, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.client.NewWindow(m.ctx, sess.Name); err != nil {
			m.message = statusForError(err)
			return m, nil
		}
		m.message = fmt.Sprintf("New window created in '%s'", sess.Name)
		m.refresh()

	case ActionRefresh:
		if m.refresh() {
			m.message = "Sessions refreshed"
		}

	case ActionFilter:
		m.enterInput(purposeFilter, m.filter)

	case ActionShowHelp:
		m.mode = modeHelp
	}

	return m, nil
}

// attach hands the terminal to the tmux client for the named session.
// Inside tmux the client is simply pointed at the other session; no
// handoff is needed.
func (m *tuiModel) attach(name string) (tea.Model, tea.Cmd) {
	if m.insideTmux {
		if err := m.client.SwitchClient(m.ctx, name); err != nil {
			m.message = statusForError(err)
			return m, nil
		}
		m.message = fmt.Sprintf("Switched to '%s'", name)
		m.refresh()
		return m, nil
	}

	m.message = fmt.Sprintf("Attaching to '%s'...", name)
	return m, tea.ExecProcess(m.client.AttachCommand(name), func(err error) tea.Msg {
		return attachDoneMsg{name: name, err: err}
	})
}

func (m *tuiModel) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "y", "Y", "enter":
		target := m.confirmTarget
		m.confirmTarget = ""
		m.mode = modeBrowsing
		m.killSession(target)
	case "n", "N", "esc", "q":
		m.confirmTarget = ""
		m.mode = modeBrowsing
		m.message = "Cancelled"
	}
	return m, nil
}

func (m *tuiModel) killSession(name string) {
	if err := m.client.KillSession(m.ctx, name); err != nil {
		m.message = statusForError(err)
		return
	}
	m.message = fmt.Sprintf("Session '%s' killed", name)
	m.refresh()
}

func (m *tuiModel) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		if m.purpose == purposeFilter {
			m.filter = ""
			m.rebuildVisible()
			m.clampCursor()
		}
		m.leaveInput()
		m.message = "Cancelled"
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.textInput.Value())
		m.commitInput(value)
		return m, nil
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)

	// The filter applies live while typing.
	if m.purpose == purposeFilter {
		prev := ""
		if sess, ok := m.selected(); ok {
			prev = sess.Name
		}
		m.filter = strings.TrimSpace(m.textInput.Value())
		m.rebuildVisible()
		m.reselect(prev)
	}
	return m, cmd
}

// commitInput performs the adapter call the buffered text was for. On
// failure the store is left untouched and the machine returns to
// browsing with a status message.
func (m *tuiModel) commitInput(value string) {
	purpose := m.purpose
	m.leaveInput()

	switch purpose {
	case purposeCreate:
		if value == "" {
			m.message = "Cancelled"
			return
		}
		if err := m.client.NewSession(m.ctx, value); err != nil {
			m.message = statusForError(err)
			return
		}
		m.message = fmt.Sprintf("Session '%s' created", value)
		m.refresh()
		// Move the cursor to the session we just created.
		m.reselect(value)

	case purposeRename:
		if value == "" {
			m.message = "Cancelled"
			return
		}
		oldName := m.renameTarget
		m.renameTarget = ""
		if err := m.client.RenameSession(m.ctx, oldName, value); err != nil {
			m.message = statusForError(err)
			return
		}
		m.message = fmt.Sprintf("Session '%s' renamed to '%s'", oldName, value)
		m.refresh()
		m.reselect(value)

	case purposeFilter:
		m.filter = value
		m.rebuildVisible()
		m.clampCursor()
		if value == "" {
			m.message = "Filter cleared"
		} else {
			m.message = fmt.Sprintf("Filtering on %q (Esc in filter clears)", value)
		}
	}
}

func (m *tuiModel) enterInput(purpose inputPurpose, initial string) {
	m.mode = modeInput
	m.purpose = purpose
	m.textInput.SetValue(initial)
	m.textInput.CursorEnd()
	m.textInput.Focus()
	m.message = ""
}

func (m *tuiModel) leaveInput() {
	m.mode = modeBrowsing
	m.textInput.Blur()
	m.textInput.SetValue("")
}

func (m *tuiModel) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	m.mode = modeBrowsing
	return m, nil
}

// refresh re-reads tmux, replaces the store snapshot wholesale, and
// re-resolves the selection by name. On failure the store and the
// selection are left untouched and refresh reports false.
func (m *tuiModel) refresh() bool {
	prev := ""
	if sess, ok := m.selected(); ok {
		prev = sess.Name
	}

	snap, err := m.client.ListSessions(m.ctx)
	if err != nil {
		m.message = statusForError(err)
		return false
	}

	m.store.Replace(snap)
	if m.metrics != nil {
		m.metrics.CountRefresh(m.ctx)
	}
	m.rebuildVisible()
	m.reselect(prev)
	return true
}

// rebuildVisible recomputes the filtered view of the current snapshot.
func (m *tuiModel) rebuildVisible() {
	snap := m.store.Current()
	m.visible = filterSessions(snap.Sessions, m.filter)
}

// reselect points the cursor at the named session when it survived the
// refresh, else clamps to the first entry (or none when empty).
func (m *tuiModel) reselect(name string) {
	if name != "" {
		snap := m.store.Current()
		for vi, si := range m.visible {
			if snap.Sessions[si].Name == name {
				m.cursor = vi
				return
			}
		}
	}
	m.cursor = 0
}

func (m *tuiModel) clampCursor() {
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// selected returns the session under the cursor, or false when the
// (filtered) snapshot is empty.
func (m *tuiModel) selected() (model.Session, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return model.Session{}, false
	}
	snap := m.store.Current()
	si := m.visible[m.cursor]
	if si < 0 || si >= len(snap.Sessions) {
		return model.Session{}, false
	}
	return snap.Sessions[si], true
}

// attachError maps a handoff launch failure onto the adapter taxonomy.
func attachError(err error) error {
	var launchErr *exec.Error
	if errors.As(err, &launchErr) || errors.Is(err, exec.ErrNotFound) {
		return tmux.ErrUnavailable
	}
	return err
}

// statusForError renders an adapter error as a transient status message.
func statusForError(err error) string {
	if errors.Is(err, tmux.ErrUnavailable) {
		return "Error: tmux is not available (is it installed?)"
	}
	return "Error: " + err.Error()
}
