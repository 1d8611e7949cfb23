package update

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/views"
)

const statusTTL = 4 * time.Second

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.dispatch(msg)
	next.sync()
	return next, cmd
}

func (m Model) dispatch(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.Width = msg.Width - 4
			m.helpViewport.Width = m.Width
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case AddTaskMsg:
		return m.addTask(msg.Text)
	case DeleteTaskMsg:
		m.store.Delete(m.ctx, msg.ID)
		return m.withStatus("task deleted", false)
	case ToggleTaskMsg:
		m.store.ToggleComplete(m.ctx, msg.ID)
		return m, nil
	case UpdateTaskMsg:
		m.store.Update(m.ctx, msg.ID, msg.Text)
		return m.withStatus("task updated", false)
	case OpenEditMsg:
		return m.openEdit(msg.ID)
	case SetThemeMsg:
		m.store.SetTheme(m.ctx, msg.Dark)
		return m, nil
	case SetSearchMsg:
		m.Search = msg.Text
		m.searchInput.SetValue(msg.Text)
		return m, nil
	case SetSortMsg:
		if msg.Mode.IsValid() {
			m.Sort = msg.Mode
		}
		return m, nil
	case SetStatusMsg:
		return m.withStatus(msg.Text, msg.IsError)
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = msg.Err
		if msg.Err != nil {
			m.logger.Error("ui error", "err", msg.Err)
			return m.withStatus(msg.Err.Error(), true)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.Quitting = true
		return m, tea.Quit
	}
	switch m.Mode {
	case ModeCreate:
		return m.handleCreateKey(msg)
	case ModeSearch:
		return m.handleSearchKey(msg)
	case ModeEdit:
		return m.handleEditKey(msg)
	case ModePalette:
		return m.handlePaletteKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.selectedTask(); ok {
			m.store.ToggleComplete(m.ctx, t.ID)
		}
	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selectedTask(); ok {
			m.store.Delete(m.ctx, t.ID)
			return m.withStatus("task deleted", false)
		}
	case key.Matches(msg, m.keys.Edit):
		if t, ok := m.selectedTask(); ok {
			return m.openEdit(t.ID)
		}
	case key.Matches(msg, m.keys.Add):
		m.Mode = ModeCreate
		return m, m.createInput.Focus()
	case key.Matches(msg, m.keys.Search):
		m.Mode = ModeSearch
		return m, m.searchInput.Focus()
	case key.Matches(msg, m.keys.Clear):
		if m.HelpVisible {
			m.HelpVisible = false
			return m, nil
		}
		m.Search = ""
		m.searchInput.SetValue("")
	case key.Matches(msg, m.keys.Sort):
		m.Sort = m.Sort.Next()
		return m.withStatus("sort: "+m.Sort.Label(), false)
	case key.Matches(msg, m.keys.Theme):
		m.store.SetTheme(m.ctx, !m.store.DarkMode())
	case key.Matches(msg, m.keys.Palette):
		m.Mode = ModePalette
		m.Palette = CommandPaletteState{Active: true}
		m.commandInput.SetValue("")
		return m, m.commandInput.Focus()
	case key.Matches(msg, m.keys.Help):
		m.HelpVisible = !m.HelpVisible
	}
	return m, nil
}

func (m Model) handleCreateKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.Mode = ModeList
		m.createInput.Blur()
		return m, nil
	case tea.KeyEnter:
		return m.addTask(m.createInput.Value())
	}
	var cmd tea.Cmd
	m.createInput, cmd = m.createInput.Update(msg)
	return m, cmd
}

func (m Model) addTask(text string) (Model, tea.Cmd) {
	task, ok := m.store.Add(m.ctx, text)
	if !ok {
		return m.withStatus("task text cannot be empty", true)
	}
	m.createInput.SetValue("")
	m.SelectedTaskID = task.ID
	m.logger.Debug("task added", "id", task.ID)
	return m.withStatus("task added", false)
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.Mode = ModeList
		m.searchInput.Blur()
		return m, nil
	case tea.KeyEsc:
		m.Mode = ModeList
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.Search = ""
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.Search = m.searchInput.Value()
	return m, cmd
}

func (m Model) openEdit(id int64) (Model, tea.Cmd) {
	task, ok := m.store.Find(id)
	if !ok {
		return m.withStatus(fmt.Sprintf("task %d not found", id), true)
	}
	if !m.Edit.Open(task) {
		return m, nil
	}
	m.Mode = ModeEdit
	m.editInput.SetValue(task.Text)
	m.editInput.CursorEnd()
	return m, m.editInput.Focus()
}

func (m Model) handleEditKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.Edit.Cancel()
		m.editInput.Blur()
		m.Mode = ModeList
		return m, nil
	case tea.KeyEnter:
		id, text, ok := m.Edit.Commit()
		m.editInput.Blur()
		m.Mode = ModeList
		if !ok {
			return m, nil
		}
		m.store.Update(m.ctx, id, text)
		return m.withStatus("task updated", false)
	}
	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(msg)
	m.Edit.SetText(m.editInput.Value())
	return m, cmd
}

func (m Model) withStatus(text string, isError bool) (Model, tea.Cmd) {
	m.Status = StatusBar{Text: text, IsError: isError}
	return m, tea.Tick(statusTTL, func(time.Time) tea.Msg { return ClearStatusMsg{} })
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	theme := views.ThemeFor(m.store.DarkMode())

	rows := make([]views.TaskRowData, 0, len(m.Visible))
	for i, t := range m.Visible {
		rows = append(rows, views.TaskRowData{
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
			Selected:  i == m.Cursor && m.Mode == ModeList,
		})
	}
	body := views.RenderTaskList(theme, views.TaskListData{
		Rows:   rows,
		Total:  m.store.Len(),
		Search: m.Search,
	})

	return views.RenderApp(theme, views.AppData{
		Header: fmt.Sprintf("tasklist | %s mode | %d tasks", theme.Name, m.store.Len()),
		Toolbar: views.RenderToolbar(views.ToolbarData{
			CreateView: m.createInput.View(),
			SearchView: m.searchInput.View(),
			SortLabel:  m.Sort.Label(),
		}),
		Body:       body,
		Overlay:    m.renderOverlay(),
		StatusLine: m.Status.Text,
		IsError:    m.Status.IsError,
		Footer:     m.helpModel.ShortHelpView(m.keys.ShortHelp()),
		Width:      m.Width,
	})
}

func (m Model) renderOverlay() string {
	switch {
	case m.Edit.Active():
		return views.RenderEditModal(views.EditModalData{
			TaskID:    m.Edit.TaskID(),
			InputView: m.editInput.View(),
		})
	case m.Palette.Active:
		return views.RenderCommandPalette(true, m.commandInput.Value())
	default:
		return m.renderHelpIfVisible()
	}
}
