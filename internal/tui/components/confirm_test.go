package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func confirmed(t *testing.T, cmd tea.Cmd) bool {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(ConfirmResultMsg)
	require.True(t, ok)
	return msg.Confirmed
}

func TestNewConfirm(t *testing.T) {
	t.Parallel()

	confirm := NewConfirm("나가시겠습니까?")

	assert.Equal(t, "나가시겠습니까?", confirm.Message())
	assert.False(t, confirm.YesFocused())
	assert.Contains(t, confirm.View(), "아니오")
}

func TestConfirm_EnterDefaultsToNo(t *testing.T) {
	t.Parallel()

	_, cmd := NewConfirm("?").Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, confirmed(t, cmd))
}

func TestConfirm_Focus(t *testing.T) {
	t.Parallel()

	confirm := NewConfirm("?")

	confirm, _ = confirm.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.True(t, confirm.YesFocused())

	_, cmd := confirm.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, confirmed(t, cmd))

	confirm, _ = confirm.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.False(t, confirm.YesFocused())

	confirm, _ = confirm.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, confirm.YesFocused())
}

func TestConfirm_ShortcutKeys(t *testing.T) {
	t.Parallel()

	confirm := NewConfirm("?").WithLabels("나가기", "계속 작성")
	assert.Contains(t, confirm.View(), "계속 작성")

	_, cmd := confirm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	assert.True(t, confirmed(t, cmd))

	_, cmd = confirm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	assert.False(t, confirmed(t, cmd))

	_, cmd = confirm.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, confirmed(t, cmd))
}

func TestConfirm_IgnoresOtherMessages(t *testing.T) {
	t.Parallel()

	_, cmd := NewConfirm("?").WithWidth(20).Update(tea.WindowSizeMsg{Width: 10})
	assert.Nil(t, cmd)
}
