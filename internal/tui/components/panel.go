package components

import (
	"strings"

	"github.com/felixgeelhaar/companion/internal/tui/ui"
)

// Panel is a bordered container with an optional title line.
type Panel struct {
	title     string
	content   string
	width     int
	hasBorder bool
	styles    ui.Styles
}

// NewPanel creates a new panel with the given title.
func NewPanel(title string) Panel {
	return Panel{
		title:     title,
		width:     ui.DefaultWidth,
		hasBorder: true,
		styles:    ui.DefaultStyles(),
	}
}

// Title returns the panel title.
func (p Panel) Title() string {
	return p.title
}

// Content returns the panel content.
func (p Panel) Content() string {
	return p.content
}

// Width returns the panel width.
func (p Panel) Width() int {
	return p.width
}

// HasBorder returns whether the panel has a border.
func (p Panel) HasBorder() bool {
	return p.hasBorder
}

// WithContent returns the panel with new content.
func (p Panel) WithContent(content string) Panel {
	p.content = content
	return p
}

// WithWidth returns the panel with a new width.
func (p Panel) WithWidth(width int) Panel {
	p.width = width
	return p
}

// WithBorder returns the panel with border enabled/disabled.
func (p Panel) WithBorder(hasBorder bool) Panel {
	p.hasBorder = hasBorder
	return p
}

// WithStyles returns the panel with custom styles.
func (p Panel) WithStyles(styles ui.Styles) Panel {
	p.styles = styles
	return p
}

// View renders the panel.
func (p Panel) View() string {
	var b strings.Builder
	if p.title != "" {
		b.WriteString(p.styles.StepActive.Render(p.title))
		if p.content != "" {
			b.WriteString("\n\n")
		}
	}
	b.WriteString(p.content)

	if !p.hasBorder {
		return b.String()
	}
	return p.styles.Panel.Width(max(10, p.width-4)).Render(b.String())
}
