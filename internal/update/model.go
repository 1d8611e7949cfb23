package update

import (
	"context"
	"io"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/projection"
	"github.com/sandeepkv93/tasklist/internal/store"
)

// Mode decides which widget receives key presses.
type Mode string

const (
	ModeList    Mode = "list"
	ModeCreate  Mode = "create"
	ModeSearch  Mode = "search"
	ModeEdit    Mode = "edit"
	ModePalette Mode = "palette"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	Mode           Mode
	Search         string
	Sort           projection.SortMode
	Cursor         int
	SelectedTaskID int64
	Visible        []model.Task
	Edit           projection.EditSession
	Palette        CommandPaletteState
	HelpVisible    bool
	Status         StatusBar
	Quitting       bool
	LastError      error
	Width          int

	ctx       context.Context
	store     *store.Store
	projector *projection.Projector
	logger    *log.Logger
	keys      keyMap

	// Version and query of the last projection, to detect staleness.
	projectedVersion uint64
	projectedQuery   projection.Query

	createInput  textinput.Model
	searchInput  textinput.Model
	editInput    textinput.Model
	commandInput textinput.Model
	helpModel    help.Model
	helpViewport viewport.Model
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type AddTaskMsg struct {
	Text string
}

type DeleteTaskMsg struct {
	ID int64
}

type ToggleTaskMsg struct {
	ID int64
}

type UpdateTaskMsg struct {
	ID   int64
	Text string
}

type OpenEditMsg struct {
	ID int64
}

type SetThemeMsg struct {
	Dark bool
}

type SetSearchMsg struct {
	Text string
}

type SetSortMsg struct {
	Mode projection.SortMode
}

// NewModel builds the UI around an already loaded store.
func NewModel(ctx context.Context, st *store.Store, projector *projection.Projector, logger *log.Logger) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := Model{
		Mode:      ModeList,
		Sort:      projection.SortDefault,
		Width:     72,
		ctx:       ctx,
		store:     st,
		projector: projector,
		logger:    logger,
		keys:      defaultKeyMap(),
	}
	m.initBubbleComponents()
	m.reproject()
	return m
}

func (m *Model) initBubbleComponents() {
	m.createInput = textinput.New()
	m.createInput.Prompt = "new> "
	m.createInput.Placeholder = "Enter task..."
	m.createInput.CharLimit = 512
	m.createInput.Width = 56

	m.searchInput = textinput.New()
	m.searchInput.Prompt = "find> "
	m.searchInput.Placeholder = "Search tasks..."
	m.searchInput.CharLimit = 256
	m.searchInput.Width = 56

	m.editInput = textinput.New()
	m.editInput.Prompt = "text> "
	m.editInput.CharLimit = 512
	m.editInput.Width = 56

	m.commandInput = textinput.New()
	m.commandInput.Prompt = ":"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 56

	m.helpModel = help.New()
	m.helpModel.ShowAll = true
	m.helpViewport = viewport.New(m.Width, 14)
}

func (m Model) query() projection.Query {
	return projection.Query{Search: m.Search, Sort: m.Sort}
}

// sync recomputes the projection when the store or the query moved since the
// last one.
func (m *Model) sync() {
	if m.store.Version() != m.projectedVersion || m.query() != m.projectedQuery {
		m.reproject()
	}
}

func (m *Model) reproject() {
	q := m.query()
	m.Visible = m.projector.Project(m.store.Tasks(), q)
	m.projectedVersion = m.store.Version()
	m.projectedQuery = q
	m.restoreSelection()
}

// restoreSelection keeps the cursor on the selected task when it is still
// visible, and clamps it otherwise.
func (m *Model) restoreSelection() {
	if len(m.Visible) == 0 {
		m.Cursor = 0
		m.SelectedTaskID = 0
		return
	}
	for i, t := range m.Visible {
		if t.ID == m.SelectedTaskID {
			m.Cursor = i
			return
		}
	}
	if m.Cursor >= len(m.Visible) {
		m.Cursor = len(m.Visible) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	m.SelectedTaskID = m.Visible[m.Cursor].ID
}

func (m *Model) moveCursor(delta int) {
	if len(m.Visible) == 0 {
		return
	}
	next := m.Cursor + delta
	if next < 0 || next >= len(m.Visible) {
		return
	}
	m.Cursor = next
	m.SelectedTaskID = m.Visible[next].ID
}

func (m Model) selectedTask() (model.Task, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Visible) {
		return model.Task{}, false
	}
	return m.Visible[m.Cursor], true
}

func (m Model) DarkMode() bool { return m.store.DarkMode() }

func (m Model) Tasks() []model.Task { return m.store.Tasks() }
