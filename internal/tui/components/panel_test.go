package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPanel(t *testing.T) {
	t.Parallel()

	panel := NewPanel("1/5 휴대폰 인증")

	assert.Equal(t, "1/5 휴대폰 인증", panel.Title())
	assert.Empty(t, panel.Content())
	assert.True(t, panel.HasBorder())
}

func TestPanel_With(t *testing.T) {
	t.Parallel()

	panel := NewPanel("Title").WithContent("본문").WithWidth(60).WithBorder(false)

	assert.Equal(t, "본문", panel.Content())
	assert.Equal(t, 60, panel.Width())
	assert.False(t, panel.HasBorder())
}

func TestPanel_View(t *testing.T) {
	t.Parallel()

	view := NewPanel("자기소개").WithContent("Hello, World!").WithWidth(40).View()

	assert.Contains(t, view, "자기소개")
	assert.Contains(t, view, "Hello, World!")
}

func TestPanel_ViewWithoutBorder(t *testing.T) {
	t.Parallel()

	view := NewPanel("").WithContent("plain").WithBorder(false).View()
	assert.Equal(t, "plain", view)
}

func TestPanel_ViewBorderWraps(t *testing.T) {
	t.Parallel()

	view := NewPanel("T").WithContent("x").WithWidth(30).View()
	assert.Greater(t, len(strings.Split(view, "\n")), 3)
}
