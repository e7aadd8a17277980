package components

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/companion/internal/tui/ui"
)

// SearchChangeMsg is sent whenever the query text changes.
type SearchChangeMsg struct {
	Query string
}

// SearchDoneMsg is sent when the user leaves the search box. Cleared is true
// when it was dismissed with esc, which also empties the query.
type SearchDoneMsg struct {
	Query   string
	Cleared bool
}

// Search is a filter input shown above a List.
type Search struct {
	input textinput.Model
	keys  ui.KeyMap
}

// NewSearch creates an unfocused search input.
func NewSearch() Search {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "지역 이름으로 검색"
	ti.CharLimit = ui.DefaultSearchCharLimit

	return Search{input: ti, keys: ui.DefaultKeyMap()}
}

// Value returns the query.
func (s Search) Value() string {
	return s.input.Value()
}

// Focused reports whether the input has focus.
func (s Search) Focused() bool {
	return s.input.Focused()
}

// Focus focuses the input.
func (s Search) Focus() (Search, tea.Cmd) {
	cmd := s.input.Focus()
	return s, cmd
}

// Blur removes focus.
func (s Search) Blur() Search {
	s.input.Blur()
	return s
}

// WithWidth sets the input width.
func (s Search) WithWidth(width int) Search {
	s.input.Width = max(1, width-4)
	return s
}

// Update edits the query while focused.
func (s Search) Update(msg tea.Msg) (Search, tea.Cmd) {
	if !s.input.Focused() {
		return s, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, s.keys.Select):
			s.input.Blur()
			query := s.input.Value()
			return s, func() tea.Msg { return SearchDoneMsg{Query: query} }
		case key.Matches(keyMsg, s.keys.Cancel):
			s.input.Blur()
			s.input.SetValue("")
			return s, func() tea.Msg { return SearchDoneMsg{Cleared: true} }
		}
	}

	prev := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if query := s.input.Value(); query != prev {
		return s, tea.Batch(cmd, func() tea.Msg { return SearchChangeMsg{Query: query} })
	}
	return s, cmd
}

// View renders the input.
func (s Search) View() string {
	return s.input.View()
}
