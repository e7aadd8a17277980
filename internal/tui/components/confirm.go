package components

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/companion/internal/tui/ui"
)

// ConfirmResultMsg is sent when the user answers the dialog.
type ConfirmResultMsg struct {
	Confirmed bool
}

// Confirm is a yes/no dialog.
type Confirm struct {
	message  string
	yesLabel string
	noLabel  string
	yes      bool // focus
	width    int
	keys     ui.KeyMap
	styles   ui.Styles
}

// NewConfirm creates a dialog focused on the "no" button, so a stray enter
// never confirms a destructive action.
func NewConfirm(message string) Confirm {
	return Confirm{
		message:  message,
		yesLabel: "예",
		noLabel:  "아니오",
		width:    ui.DefaultProgressBarWidth,
		keys:     ui.DefaultKeyMap(),
		styles:   ui.DefaultStyles(),
	}
}

// Message returns the question.
func (c Confirm) Message() string {
	return c.message
}

// YesFocused reports whether the "yes" button has focus.
func (c Confirm) YesFocused() bool {
	return c.yes
}

// WithLabels sets both button labels.
func (c Confirm) WithLabels(yes, no string) Confirm {
	c.yesLabel = yes
	c.noLabel = no
	return c
}

// WithWidth sets the dialog width.
func (c Confirm) WithWidth(width int) Confirm {
	c.width = width
	return c
}

// Update handles focus and answers.
func (c Confirm) Update(msg tea.Msg) (Confirm, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch {
	case key.Matches(keyMsg, c.keys.Left):
		c.yes = true
	case key.Matches(keyMsg, c.keys.Right):
		c.yes = false
	case key.Matches(keyMsg, c.keys.Focus):
		c.yes = !c.yes
	case key.Matches(keyMsg, c.keys.Select):
		return c, answer(c.yes)
	case key.Matches(keyMsg, c.keys.Accept):
		return c, answer(true)
	case key.Matches(keyMsg, c.keys.Reject), key.Matches(keyMsg, c.keys.Cancel):
		return c, answer(false)
	}
	return c, nil
}

func answer(confirmed bool) tea.Cmd {
	return func() tea.Msg {
		return ConfirmResultMsg{Confirmed: confirmed}
	}
}

// View renders the dialog.
func (c Confirm) View() string {
	yesStyle, noStyle := c.styles.Button, c.styles.ButtonActive
	if c.yes {
		yesStyle, noStyle = c.styles.ButtonActive, c.styles.Button
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		yesStyle.Render(c.yesLabel), "  ", noStyle.Render(c.noLabel))

	return lipgloss.JoinVertical(lipgloss.Left,
		c.styles.Paragraph.Width(c.width).Render(c.message),
		"",
		lipgloss.NewStyle().Width(c.width).Align(lipgloss.Center).Render(buttons),
	)
}
