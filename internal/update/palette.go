package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/commands"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m = m.closePalette()
		return m, nil
	case tea.KeyEnter:
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

func (m Model) closePalette() Model {
	m.Palette = CommandPaletteState{}
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	if m.Mode == ModePalette {
		m.Mode = ModeList
	}
	return m
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m = m.closePalette()

	cmd, err := commands.Parse(raw)
	if err != nil {
		return m.withStatus(err.Error(), true)
	}

	var follow tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			task, ok := m.store.Add(m.ctx, a.Text)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "task text cannot be empty"}
			}
			m.SelectedTaskID = task.ID
			return commands.Result{Message: fmt.Sprintf("added task: %s", a.Text)}, nil
		},
		Search: func(s commands.SearchArgs) (commands.Result, error) {
			m.Search = s.Text
			m.searchInput.SetValue(s.Text)
			if s.Text == "" {
				return commands.Result{Message: "search cleared"}, nil
			}
			return commands.Result{Message: fmt.Sprintf("search: %s", s.Text)}, nil
		},
		Sort: func(s commands.SortArgs) (commands.Result, error) {
			m.Sort = s.Mode
			return commands.Result{Message: "sort: " + s.Mode.Label()}, nil
		},
		Theme: func(t commands.ThemeArgs) (commands.Result, error) {
			dark := m.store.DarkMode()
			switch t.Choice {
			case commands.ThemeDark:
				dark = true
			case commands.ThemeLight:
				dark = false
			default:
				dark = !dark
			}
			m.store.SetTheme(m.ctx, dark)
			if dark {
				return commands.Result{Message: "theme: dark"}, nil
			}
			return commands.Result{Message: "theme: light"}, nil
		},
		Toggle: func() (commands.Result, error) {
			task, ok := m.selectedTask()
			if !ok {
				return commands.Result{}, noSelection()
			}
			m.store.ToggleComplete(m.ctx, task.ID)
			return commands.Result{Message: fmt.Sprintf("toggled task %d", task.ID)}, nil
		},
		Delete: func() (commands.Result, error) {
			task, ok := m.selectedTask()
			if !ok {
				return commands.Result{}, noSelection()
			}
			m.store.Delete(m.ctx, task.ID)
			return commands.Result{Message: fmt.Sprintf("deleted task %d", task.ID)}, nil
		},
		Edit: func(e commands.EditArgs) (commands.Result, error) {
			task, ok := m.selectedTask()
			if !ok {
				return commands.Result{}, noSelection()
			}
			if e.Text == "" {
				m, follow = m.openEdit(task.ID)
				return commands.Result{Message: fmt.Sprintf("editing task %d", task.ID)}, nil
			}
			m.store.Update(m.ctx, task.ID, e.Text)
			return commands.Result{Message: fmt.Sprintf("updated task %d", task.ID)}, nil
		},
	})
	if err != nil {
		m.logger.Warn("command failed", "input", raw, "err", err)
		return m.withStatus(err.Error(), true)
	}
	m.logger.Debug("command executed", "input", raw)
	m, statusCmd := m.withStatus(res.Message, false)
	return m, tea.Batch(follow, statusCmd)
}

func noSelection() error {
	return &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no task selected"}
}
