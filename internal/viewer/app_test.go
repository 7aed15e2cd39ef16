package viewer

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_Figure(t *testing.T) {
	app := NewApp("results.csv", []byte("png-bytes"), nil)

	src := app.Figure()
	require.True(t, strings.HasPrefix(src, "data:image/png;base64,"))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(src, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(raw))
	assert.Equal(t, "results.csv", app.Title())
}

func TestApp_EmptyFigure(t *testing.T) {
	assert.Empty(t, NewApp("", nil, nil).Figure())
}

func TestApp_SummaryIsCopied(t *testing.T) {
	lines := []string{"a", "b"}
	app := NewApp("t", nil, lines)
	lines[0] = "changed"

	got := app.Summary()
	assert.Equal(t, []string{"a", "b"}, got)
	got[1] = "changed"
	assert.Equal(t, "b", app.Summary()[1])
}

func TestRun_RequiresFigure(t *testing.T) {
	assert.Error(t, Run(Options{}))
}

func TestAssetsEmbedded(t *testing.T) {
	data, err := assets.ReadFile("frontend/public/index.html")
	require.NoError(t, err)
	assert.Contains(t, string(data), "window.go.viewer.App")
}
