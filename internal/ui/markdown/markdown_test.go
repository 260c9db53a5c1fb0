package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	r, err := New(40)
	require.NoError(t, err)
	require.Equal(t, 40, r.Width())

	out, err := r.Render("## Columns\n\nDrop cards on **Done**.\n")
	require.NoError(t, err)
	require.Contains(t, out, "Columns")
	require.Contains(t, out, "Done")
	require.False(t, strings.HasSuffix(out, "\n"))
}

func TestStyleName(t *testing.T) {
	require.Equal(t, "dark", StyleName(true))
	require.Equal(t, "light", StyleName(false))
}
