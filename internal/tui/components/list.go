// Package components provides reusable TUI components built on Bubble Tea.
package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/companion/internal/tui/ui"
)

// ListItem is one selectable row.
type ListItem struct {
	ID          string
	Title       string
	Description string
}

// FilterValue returns the text matched by SetFilter.
func (i ListItem) FilterValue() string {
	return strings.ToLower(i.Title + " " + i.Description + " " + i.ID)
}

// ListToggledMsg is sent when the user toggles the row under the cursor.
// The owner decides the new state and reports it back with SetChecked.
type ListToggledMsg struct {
	Item ListItem
}

// List is a scrollable multi-select list with an optional filter.
type List struct {
	items   []ListItem
	visible []int // indexes into items matching the filter
	checked map[string]bool
	cursor  int // index into visible
	filter  string
	width   int
	height  int
	keys    ui.KeyMap
	styles  ui.Styles
}

// NewList creates a list with the given items, none checked.
func NewList(items []ListItem) List {
	l := List{
		items:   items,
		checked: make(map[string]bool),
		width:   ui.DefaultWidth,
		height:  ui.DefaultListHeight,
		keys:    ui.DefaultKeyMap(),
		styles:  ui.DefaultStyles(),
	}
	return l.refilter()
}

// Items returns all items regardless of filter.
func (l List) Items() []ListItem {
	return append([]ListItem(nil), l.items...)
}

// Visible returns the items matching the current filter.
func (l List) Visible() []ListItem {
	out := make([]ListItem, len(l.visible))
	for i, idx := range l.visible {
		out[i] = l.items[idx]
	}
	return out
}

// Cursor returns the cursor position within the visible items.
func (l List) Cursor() int {
	return l.cursor
}

// Current returns the item under the cursor.
func (l List) Current() (ListItem, bool) {
	if len(l.visible) == 0 {
		return ListItem{}, false
	}
	return l.items[l.visible[l.cursor]], true
}

// Checked reports whether id is checked.
func (l List) Checked(id string) bool {
	return l.checked[id]
}

// CheckedCount returns the number of checked items.
func (l List) CheckedCount() int {
	n := 0
	for _, c := range l.checked {
		if c {
			n++
		}
	}
	return n
}

// SetChecked marks id as checked or not. The map is copied so earlier
// List values are unaffected.
func (l List) SetChecked(id string, checked bool) List {
	next := make(map[string]bool, len(l.checked)+1)
	for k, v := range l.checked {
		next[k] = v
	}
	next[id] = checked
	l.checked = next
	return l
}

// Filter returns the current filter text.
func (l List) Filter() string {
	return l.filter
}

// SetFilter shows only items whose title, description or ID contains query
// (case-insensitive) and resets the cursor.
func (l List) SetFilter(query string) List {
	l.filter = strings.TrimSpace(query)
	l.cursor = 0
	return l.refilter()
}

func (l List) refilter() List {
	q := strings.ToLower(l.filter)
	l.visible = l.visible[:0:0]
	for i, item := range l.items {
		if q == "" || strings.Contains(item.FilterValue(), q) {
			l.visible = append(l.visible, i)
		}
	}
	if l.cursor >= len(l.visible) {
		l.cursor = max(0, len(l.visible)-1)
	}
	return l
}

// WithWidth returns the list with a new width.
func (l List) WithWidth(width int) List {
	l.width = width
	return l
}

// WithHeight returns the list with a new height.
func (l List) WithHeight(height int) List {
	l.height = max(1, height)
	return l
}

// WithStyles returns the list with custom styles.
func (l List) WithStyles(styles ui.Styles) List {
	l.styles = styles
	return l
}

// Update handles cursor movement and toggling.
func (l List) Update(msg tea.Msg) (List, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(l.visible) == 0 {
		return l, nil
	}

	switch {
	case l.keys.IsUp(keyMsg):
		if l.cursor > 0 {
			l.cursor--
		}
	case l.keys.IsDown(keyMsg):
		if l.cursor < len(l.visible)-1 {
			l.cursor++
		}
	case key.Matches(keyMsg, l.keys.Home):
		l.cursor = 0
	case key.Matches(keyMsg, l.keys.End):
		l.cursor = len(l.visible) - 1
	case key.Matches(keyMsg, l.keys.Toggle):
		item := l.items[l.visible[l.cursor]]
		return l, func() tea.Msg { return ListToggledMsg{Item: item} }
	}
	return l, nil
}

// View renders the visible window of rows around the cursor.
func (l List) View() string {
	if len(l.visible) == 0 {
		return l.styles.Help.Render("  검색 결과가 없습니다")
	}

	count := min(l.height, len(l.visible))
	start := 0
	if l.cursor >= count {
		start = l.cursor - count + 1
	}
	end := start + count

	var b strings.Builder
	for i := start; i < end; i++ {
		item := l.items[l.visible[i]]

		box := "[ ]"
		if l.checked[item.ID] {
			box = l.styles.Checked.Render("[✓]")
		}

		row := box + " " + item.Title
		if item.Description != "" {
			row += l.styles.Help.Render("  " + item.Description)
		}

		if i == l.cursor {
			b.WriteString(l.styles.ListItemActive.Render("▸ " + row))
		} else {
			b.WriteString(l.styles.ListItem.Render("  " + row))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	if len(l.visible) > count {
		b.WriteString("\n")
		b.WriteString(l.styles.Help.Render(strings.Repeat(" ", 4) + scrollHint(start, end, len(l.visible))))
	}
	return b.String()
}

func scrollHint(start, end, total int) string {
	var parts []string
	if start > 0 {
		parts = append(parts, "↑ 더 있음")
	}
	if end < total {
		parts = append(parts, "↓ 더 있음")
	}
	return strings.Join(parts, "  ")
}
