package views

import (
	"fmt"
	"strings"
)

type TaskRowData struct {
	ID        int64
	Text      string
	Completed bool
	Selected  bool
}

type TaskListData struct {
	Rows   []TaskRowData
	Total  int
	Search string
}

type ToolbarData struct {
	CreateView string
	SearchView string
	SortLabel  string
}

type EditModalData struct {
	TaskID    int64
	InputView string
}

type HelpPanelData struct {
	KeysView     string
	CommandsView string
}

func RenderToolbar(data ToolbarData) string {
	var b strings.Builder
	b.WriteString(data.CreateView + "\n")
	b.WriteString(data.SearchView + "\n")
	b.WriteString(fmt.Sprintf("sort: %s", data.SortLabel))
	return b.String()
}

func RenderTaskList(theme Theme, data TaskListData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("All Todos (%d/%d)\n", len(data.Rows), data.Total))
	if len(data.Rows) == 0 {
		if data.Search != "" {
			b.WriteString(fmt.Sprintf("  (no tasks match %q)", data.Search))
		} else {
			b.WriteString("  (no tasks yet, press [a] to add one)")
		}
		return b.String()
	}
	for _, row := range data.Rows {
		cursor := " "
		if row.Selected {
			cursor = ">"
		}
		box := "[ ]"
		action := "mark complete"
		if row.Completed {
			box = "[x]"
			action = "mark incomplete"
		}
		line := fmt.Sprintf("%s %s %s", cursor, box, row.Text)
		style := theme.Row
		switch {
		case row.Completed:
			style = theme.Done
		case row.Selected:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		if row.Selected {
			b.WriteString(fmt.Sprintf("  [space] %s [d] delete [e] edit", action))
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderEditModal(data EditModalData) string {
	return fmt.Sprintf("Edit Todo #%d\n%s\n[enter] update todo  [esc] cancel", data.TaskID, data.InputView)
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: :%s", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	return strings.TrimRight(fmt.Sprintf("help:\n%s\n%s", data.KeysView, data.CommandsView), "\n")
}
