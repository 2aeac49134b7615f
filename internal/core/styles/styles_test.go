package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	assert.Contains(t, names, DefaultTheme)
	assert.IsIncreasing(t, names)
}

func TestSetThemeByName(t *testing.T) {
	t.Cleanup(func() { SetTheme(themes[DefaultTheme]) })

	require.True(t, SetThemeByName("gruvbox"))
	assert.Equal(t, themes["gruvbox"], CurrentPalette)

	assert.False(t, SetThemeByName("does-not-exist"))
	assert.Equal(t, themes["gruvbox"], CurrentPalette)
}

func TestGlamourStyle(t *testing.T) {
	t.Cleanup(func() { SetTheme(themes[DefaultTheme]) })

	SetTheme(themes["tokyo-night"])
	cfg := GlamourStyle()
	require.NotNil(t, cfg.Document.Color)
	assert.Equal(t, "#c0caf5", *cfg.Document.Color)

	SetTheme(themes["ansi"])
	cfg = GlamourStyle()
	assert.Nil(t, cfg.H2.Color)
}
