package vellum

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want Color
	}{
		{"red", Red},
		{"Bright-Cyan", BrightCyan},
		{" white ", White},
		{"default", DefaultColor()},
		{"214", PaletteColor(214)},
		{"#ff5500", Hex(0xFF5500)},
	}
	for _, tc := range cases {
		got, err := ParseColor(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseColorErrors(t *testing.T) {
	for _, in := range []string{"", "chartreuse", "#ff55", "#ff5500aa", "256", "-1"} {
		_, err := ParseColor(in)
		assert.Error(t, err, in)
	}
}

func TestParseThemeDefaults(t *testing.T) {
	// Unset fields keep the dark theme values.
	th, err := ParseTheme([]byte("accent: red\n"))
	require.NoError(t, err)
	assert.Equal(t, Red, th.Accent)
	assert.Equal(t, ThemeDark.Foreground, th.Foreground)
	assert.Equal(t, ThemeDark.Selection, th.Selection)
}

func TestParseThemeFull(t *testing.T) {
	src := `
foreground: black
background: white
accent: "#3366cc"
muted: bright-black
border: "240"
selection: cyan
`
	th, err := ParseTheme([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, Black, th.Foreground)
	assert.Equal(t, White, th.Background)
	assert.Equal(t, Hex(0x3366CC), th.Accent)
	assert.Equal(t, PaletteColor(240), th.Border)
	assert.Equal(t, Cyan, th.Selection)
}

func TestParseThemeBadColor(t *testing.T) {
	_, err := ParseTheme([]byte("accent: nonsense\n"))
	assert.Error(t, err)
}

func TestLoadTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")
	require.NoError(t, os.WriteFile(path, []byte("foreground: green\n"), 0o644))

	th, err := LoadTheme(path)
	require.NoError(t, err)
	assert.Equal(t, Green, th.Foreground)

	_, err = LoadTheme(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSaveThemeRoundTrip(t *testing.T) {
	src := Theme{
		Foreground: White,
		Background: DefaultColor(),
		Accent:     Hex(0x3366CC),
		Muted:      PaletteColor(240),
		Border:     BrightBlack,
		Selection:  Blue,
	}
	path := filepath.Join(t.TempDir(), "theme.yaml")
	require.NoError(t, SaveTheme(path, src))

	got, err := LoadTheme(path)
	require.NoError(t, err)
	assert.Equal(t, src, got)
}
