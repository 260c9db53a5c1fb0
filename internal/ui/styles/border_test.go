package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"
)

func TestRenderWithTitleBorder_Dimensions(t *testing.T) {
	out := RenderWithTitleBorder("one\ntwo", "Todo", 12, 5, TextPrimaryColor, BorderDefaultColor)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 5)
	for i, line := range lines {
		require.Equal(t, 12, lipgloss.Width(line), "line %d", i)
	}
	require.Contains(t, lines[0], "Todo")
	require.Contains(t, lines[1], "one")
	require.Contains(t, lines[2], "two")
}

func TestRenderWithTitleBorder_TruncatesLongTitle(t *testing.T) {
	out := RenderWithTitleBorder("", "A very long column title", 12, 3, TextPrimaryColor, BorderDefaultColor)

	top := strings.Split(out, "\n")[0]
	require.Equal(t, 12, lipgloss.Width(top))
	require.Contains(t, top, "…")
}

func TestRenderWithTitleBorder_NarrowDropsTitle(t *testing.T) {
	out := RenderWithTitleBorder("", "Todo", 5, 3, TextPrimaryColor, BorderDefaultColor)
	require.NotContains(t, out, "Todo")
}

func TestTruncateString(t *testing.T) {
	require.Equal(t, "short", TruncateString("short", 10))
	require.Equal(t, "", TruncateString("anything", 0))

	got := TruncateString("Profile hit-test latency", 10)
	require.LessOrEqual(t, lipgloss.Width(got), 10)
	require.True(t, strings.HasSuffix(got, "…"))
}
