package update

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/tasklist/internal/views"
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Delete  key.Binding
	Edit    key.Binding
	Add     key.Binding
	Search  key.Binding
	Clear   key.Binding
	Sort    key.Binding
	Theme   key.Binding
	Palette key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "move up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "move down")),
		Toggle:  key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space/x", "toggle complete")),
		Delete:  key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete task")),
		Edit:    key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter/e", "edit task")),
		Add:     key.NewBinding(key.WithKeys("a", "i"), key.WithHelp("a", "new task")),
		Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Clear:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear search")),
		Sort:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle sort")),
		Theme:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "light/dark")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Delete, k.Edit, k.Search, k.Sort, k.Theme, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Delete, k.Edit},
		{k.Add, k.Search, k.Clear, k.Sort},
		{k.Theme, k.Palette, k.Help, k.Quit},
	}
}

const paletteHelp = `## Commands

- ` + "`add <text>`" + ` create a task
- ` + "`search [text]`" + ` filter, empty clears
- ` + "`sort default|alphabetical|status`" + `
- ` + "`theme [dark|light|toggle]`" + `
- ` + "`toggle`, `delete`, `edit <text>`" + ` act on the selected task
`

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	theme := views.ThemeFor(m.store.DarkMode())
	vp := m.helpViewport
	vp.SetContent(views.RenderMarkdown(paletteHelp, theme.Markdown, m.Width))
	return views.RenderHelpPanel(views.HelpPanelData{
		KeysView:     m.helpModel.View(m.keys),
		CommandsView: vp.View(),
	})
}
