package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header     string
	Toolbar    string
	Body       string
	Overlay    string
	StatusLine string
	IsError    bool
	Footer     string
	Width      int
}

const defaultWidth = 72

func RenderApp(theme Theme, data AppData) string {
	width := data.Width
	if width <= 0 {
		width = defaultWidth
	}
	lines := []string{theme.Header.Render(data.Header)}
	if data.Toolbar != "" {
		lines = append(lines, data.Toolbar)
	}
	lines = append(lines, theme.Panel.Width(width).Render(data.Body))
	if data.Overlay != "" {
		lines = append(lines, theme.Modal.Width(width).Render(data.Overlay))
	}
	if data.StatusLine != "" {
		if data.IsError {
			lines = append(lines, theme.Error.Render(data.StatusLine))
		} else {
			lines = append(lines, theme.Status.Render(data.StatusLine))
		}
	}
	if data.Footer != "" {
		lines = append(lines, theme.Footer.Render(data.Footer))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderMarkdown renders md with the named glamour style, returning md
// unchanged if rendering fails.
func RenderMarkdown(md string, style string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	if width <= 0 {
		width = defaultWidth
	}
	r, err := glamour.NewTermRenderer(glamour.WithStandardStyle(style), glamour.WithWordWrap(width))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
