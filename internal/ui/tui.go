// Package ui provides the terminal interface for the task list.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/tasks/internal/config"
	"github.com/nibzard/tasks/internal/logging"
	"github.com/nibzard/tasks/internal/todo"
)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	altScreen bool
	output    io.Writer
}

// WithAltScreen controls whether the TUI takes over the whole terminal.
func WithAltScreen(enabled bool) TUIOption {
	return func(c *tuiConfig) {
		c.altScreen = enabled
	}
}

// WithOutput sets the terminal the TUI renders to. It must be a TTY.
func WithOutput(w io.Writer) TUIOption {
	return func(c *tuiConfig) {
		c.output = w
	}
}

// RunTUI starts the TUI over store and blocks until the user quits or ctx
// is cancelled.
func RunTUI(ctx context.Context, cfg *config.Config, store *todo.Store, logger *log.Logger, opts ...TUIOption) error {
	c := &tuiConfig{
		altScreen: true,
		output:    os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(c.output) {
		return fmt.Errorf("tui requires a TTY")
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(c.output)}
	if c.altScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	model := newTUIModel(cfg, store, logger)
	program := tea.NewProgram(model, programOpts...)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

type focus int

const (
	focusInput focus = iota
	focusList
)

type tuiModel struct {
	cfg    *config.Config
	store  *todo.Store
	logger *log.Logger
	styles styles
	keys   keyMap
	help   help.Model

	input  textinput.Model
	rows   []row
	cursor int
	focus  focus
	width  int
}

func newTUIModel(cfg *config.Config, store *todo.Store, logger *log.Logger) *tuiModel {
	if logger == nil {
		logger = logging.Discard()
	}

	input := textinput.New()
	input.Placeholder = "Add a task"
	input.CharLimit = 500
	input.Focus()

	h := help.New()

	m := &tuiModel{
		cfg:    cfg,
		store:  store,
		logger: logger,
		styles: newStyles(cfg.Theme),
		keys:   defaultKeyMap(),
		help:   h,
		input:  input,
		focus:  focusInput,
	}
	m.refresh()
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.input.Width = max(10, msg.Width-4)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if r := m.editingRow(); r != nil {
			return m.updateEditing(r, msg)
		}
		if m.focus == focusInput {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}

	// Forward everything else (cursor blink) to whichever input is active.
	var cmd tea.Cmd
	if r := m.editingRow(); r != nil {
		r.draft, cmd = r.draft.Update(msg)
	} else if m.focus == focusInput {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m *tuiModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if task, ok := m.store.Add(m.input.Value()); ok {
			m.logger.Debug("task added", "id", task.ID)
			m.input.Reset()
			m.refresh()
			m.cursor = len(m.rows) - 1
		}
		return m, nil
	case tea.KeyTab, tea.KeyEsc:
		m.setFocus(focusList)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *tuiModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Focus):
		return m, m.setFocus(focusInput)
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		if r := m.selected(); r != nil {
			id := r.task.ID
			changed := m.store.Toggle(id)
			m.logger.Debug("task toggled", "id", id, "changed", changed)
			m.refresh()
		}
	case key.Matches(msg, m.keys.Edit), key.Matches(msg, m.keys.Save):
		if r := m.selected(); r != nil {
			r.beginEdit()
			return m, textinput.Blink
		}
	case key.Matches(msg, m.keys.Delete):
		if r := m.selected(); r != nil {
			id := r.task.ID
			changed := m.store.Delete(id)
			m.logger.Debug("task deleted", "id", id, "changed", changed)
			m.refresh()
		}
	}
	return m, nil
}

func (m *tuiModel) updateEditing(r *row, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		id, text := r.task.ID, r.draft.Value()
		r.editing = false
		r.draft.Blur()
		changed := m.store.Edit(id, text)
		m.logger.Debug("task edited", "id", id, "changed", changed)
		m.refresh()
		return m, nil
	case tea.KeyEsc:
		r.cancelEdit()
		return m, nil
	}

	var cmd tea.Cmd
	r.draft, cmd = r.draft.Update(msg)
	return m, cmd
}

func (m *tuiModel) setFocus(f focus) tea.Cmd {
	m.focus = f
	if f == focusInput {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

// refresh re-derives rows from the store's current snapshot.
func (m *tuiModel) refresh() {
	m.rows = syncRows(m.rows, m.store.List())
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) selected() *row {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return &m.rows[m.cursor]
}

func (m *tuiModel) editingRow() *row {
	for i := range m.rows {
		if m.rows[i].editing {
			return &m.rows[i]
		}
	}
	return nil
}

func (m *tuiModel) View() string {
	var b strings.Builder
	m.writeTitle(&b)
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	m.writeRows(&b)
	if m.cfg.ShowHelp {
		b.WriteString("\n")
		b.WriteString(m.help.View(m.keys))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *tuiModel) writeTitle(b *strings.Builder) {
	open, done := m.store.List().Counts()
	b.WriteString(m.styles.title.Render(m.cfg.Title))
	b.WriteString("\n")
	b.WriteString(m.styles.counts.Render(fmt.Sprintf("%d open · %d done", open, done)))
	b.WriteString("\n\n")
}

func (m *tuiModel) writeRows(b *strings.Builder) {
	if len(m.rows) == 0 {
		b.WriteString(m.styles.hint.Render("  No tasks yet."))
		b.WriteString("\n")
		return
	}
	for i := range m.rows {
		b.WriteString(m.formatRow(i))
		b.WriteString("\n")
	}
}

func (m *tuiModel) formatRow(i int) string {
	r := &m.rows[i]

	cursor := "  "
	if m.focus == focusList && i == m.cursor {
		cursor = m.styles.cursor.Render("> ")
	}

	check := "[ ]"
	if r.task.Completed {
		check = "[x]"
	}

	if r.editing {
		return fmt.Sprintf("%s%s %s %s", cursor, check, r.draft.View(),
			m.styles.hint.Render("(enter save · esc cancel)"))
	}

	var text string
	switch {
	case r.task.Description == "":
		text = m.styles.empty.Render("(empty)")
	case r.task.Completed:
		text = m.styles.done.Render(r.task.Description)
	case m.focus == focusList && i == m.cursor:
		text = m.styles.selected.Render(r.task.Description)
	default:
		text = m.styles.open.Render(r.task.Description)
	}
	return fmt.Sprintf("%s%s %s", cursor, check, text)
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
