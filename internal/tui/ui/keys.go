package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap contains all key bindings for the TUI.
//
// Text steps receive printable keys, so wizard-level bindings stay on enter,
// esc, tab and ctrl chords.
type KeyMap struct {
	// Navigation
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Home  key.Binding
	End   key.Binding

	// Vim-style navigation, list steps only
	VimUp   key.Binding
	VimDown key.Binding

	// Selection
	Select key.Binding
	Toggle key.Binding
	Accept key.Binding
	Reject key.Binding
	Cancel key.Binding
	Filter key.Binding

	// Wizard
	Next     key.Binding
	Back     key.Binding
	SendCode key.Binding
	Focus    key.Binding

	Quit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "위로"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "아래로"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "왼쪽"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "오른쪽"),
		),
		Home: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "처음으로"),
		),
		End: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "끝으로"),
		),

		VimUp: key.NewBinding(
			key.WithKeys("k"),
			key.WithHelp("k", "위로"),
		),
		VimDown: key.NewBinding(
			key.WithKeys("j"),
			key.WithHelp("j", "아래로"),
		),

		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "선택"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "선택/해제"),
		),
		Accept: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "예"),
		),
		Reject: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "아니오"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "취소"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "검색"),
		),

		Next: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "다음"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "이전"),
		),
		SendCode: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "인증번호 전송"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "입력 전환"),
		),

		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "종료"),
		),
	}
}

// IsUp returns true if the key message matches an up navigation key.
func (k KeyMap) IsUp(msg tea.KeyMsg) bool {
	return key.Matches(msg, k.Up) || key.Matches(msg, k.VimUp)
}

// IsDown returns true if the key message matches a down navigation key.
func (k KeyMap) IsDown(msg tea.KeyMsg) bool {
	return key.Matches(msg, k.Down) || key.Matches(msg, k.VimDown)
}

// HelpLine renders bindings as "key label · key label".
func (k KeyMap) HelpLine(styles Styles, bindings ...key.Binding) string {
	var out string
	for i, b := range bindings {
		if i > 0 {
			out += styles.Help.Render(" · ")
		}
		h := b.Help()
		out += styles.HelpKey.Render(h.Key) + " " + styles.Help.Render(h.Desc)
	}
	return out
}
