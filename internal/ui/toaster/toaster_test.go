package toaster

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m := New()

	assert.False(t, m.Visible())
	assert.Empty(t, m.View())
}

func TestShow(t *testing.T) {
	m, cmd := New().Show("Columns reloaded", StyleSuccess, time.Millisecond)

	require.NotNil(t, cmd)
	assert.True(t, m.Visible())
	assert.Equal(t, "Columns reloaded", m.Message())
	assert.Contains(t, m.View(), "✓ Columns reloaded")
	assert.Contains(t, m.View(), "╭")
}

func TestShow_EmptyMessageStaysHidden(t *testing.T) {
	m, _ := New().Show("", StyleInfo, time.Millisecond)

	assert.False(t, m.Visible())
	assert.Empty(t, m.View())
}

func TestHide(t *testing.T) {
	m, _ := New().Show("Hello", StyleSuccess, time.Millisecond)
	m = m.Hide()

	assert.False(t, m.Visible())
	assert.Empty(t, m.View())
}

func TestView_Prefixes(t *testing.T) {
	tests := []struct {
		style Style
		want  string
	}{
		{StyleSuccess, "✓ done"},
		{StyleError, "✗ done"},
		{StyleInfo, "• done"},
		{StyleWarn, "! done"},
	}
	for _, tt := range tests {
		m, _ := New().Show("done", tt.style, time.Millisecond)
		assert.Contains(t, m.View(), tt.want)
	}
}

func TestView_TruncatesLongMessages(t *testing.T) {
	m, _ := New().Show(strings.Repeat("x", 200), StyleError, time.Millisecond)

	for _, line := range strings.Split(m.View(), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), maxWidth)
	}
	assert.Contains(t, m.View(), "…")
}

func TestDismiss_OwnToast(t *testing.T) {
	m, cmd := New().Show("Hello", StyleSuccess, time.Millisecond)

	m = m.Update(cmd())
	assert.False(t, m.Visible())
}

func TestDismiss_StaleTimerKeepsNewerToast(t *testing.T) {
	m, first := New().Show("First", StyleSuccess, time.Millisecond)
	m, _ = m.Show("Second", StyleError, time.Millisecond)

	m = m.Update(first())
	assert.True(t, m.Visible())
	assert.Contains(t, m.View(), "Second")
	assert.NotContains(t, m.View(), "First")
}

func TestUpdate_IgnoresOtherMessages(t *testing.T) {
	m, _ := New().Show("Hello", StyleSuccess, time.Millisecond)

	m = m.Update("unrelated")
	assert.True(t, m.Visible())
}

func TestOverlay_NotVisibleReturnsBackground(t *testing.T) {
	bg := "Background\nContent"

	assert.Equal(t, bg, New().Overlay(bg, 20, 10))
}

func TestOverlay_PlacesNearBottom(t *testing.T) {
	m, _ := New().Show("Toast", StyleInfo, time.Millisecond)
	bg := strings.TrimSuffix(strings.Repeat(strings.Repeat(".", 20)+"\n", 10), "\n")

	lines := strings.Split(m.Overlay(bg, 20, 10), "\n")
	require.Len(t, lines, 10)

	// Three-row box, one row of padding below it.
	assert.Contains(t, lines[7], "Toast")
	assert.Equal(t, strings.Repeat(".", 20), lines[9])
}

func TestShow_ImmutableModel(t *testing.T) {
	m1 := New()
	m2, _ := m1.Show("Hello", StyleSuccess, time.Millisecond)

	assert.False(t, m1.Visible())
	assert.True(t, m2.Visible())
}
