package vellum

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Theme provides the fallback colors a control resolves to when neither
// it nor its container chain overrides them.
type Theme struct {
	Foreground Color // default text
	Background Color // default fill
	Accent     Color // focused / highlighted elements
	Muted      Color // de-emphasized text, scroll indicators
	Border     Color // borders, rules, splitters
	Selection  Color // selection background
}

// ThemeDark is a dark theme with light text on the terminal background.
var ThemeDark = Theme{
	Foreground: White,
	Background: DefaultColor(),
	Accent:     BrightCyan,
	Muted:      BrightBlack,
	Border:     BrightBlack,
	Selection:  Blue,
}

// ThemeLight is a light theme with dark text.
var ThemeLight = Theme{
	Foreground: Black,
	Background: White,
	Accent:     Blue,
	Muted:      BrightBlack,
	Border:     White,
	Selection:  Cyan,
}

// themeFile is the on-disk YAML shape of a theme.
type themeFile struct {
	Foreground string `yaml:"foreground"`
	Background string `yaml:"background"`
	Accent     string `yaml:"accent"`
	Muted      string `yaml:"muted"`
	Border     string `yaml:"border"`
	Selection  string `yaml:"selection"`
}

// LoadTheme reads a theme from a YAML file. Unset fields keep the
// ThemeDark defaults.
func LoadTheme(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ThemeDark, fmt.Errorf("read theme: %w", err)
	}
	return ParseTheme(data)
}

// ParseTheme parses theme YAML. Unset fields keep the ThemeDark defaults.
func ParseTheme(data []byte) (Theme, error) {
	var tf themeFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return ThemeDark, fmt.Errorf("parse theme: %w", err)
	}

	th := ThemeDark
	fields := []struct {
		raw string
		dst *Color
	}{
		{tf.Foreground, &th.Foreground},
		{tf.Background, &th.Background},
		{tf.Accent, &th.Accent},
		{tf.Muted, &th.Muted},
		{tf.Border, &th.Border},
		{tf.Selection, &th.Selection},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		c, err := ParseColor(f.raw)
		if err != nil {
			return ThemeDark, err
		}
		*f.dst = c
	}
	return th, nil
}

// SaveTheme writes a theme to a YAML file in the shape LoadTheme reads.
func SaveTheme(path string, th Theme) error {
	tf := themeFile{
		Foreground: formatColor(th.Foreground),
		Background: formatColor(th.Background),
		Accent:     formatColor(th.Accent),
		Muted:      formatColor(th.Muted),
		Border:     formatColor(th.Border),
		Selection:  formatColor(th.Selection),
	}
	data, err := yaml.Marshal(&tf)
	if err != nil {
		return fmt.Errorf("encode theme: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write theme: %w", err)
	}
	return nil
}

// formatColor renders a color in a form ParseColor accepts.
func formatColor(c Color) string {
	switch c.Mode {
	case ColorDefault:
		return "default"
	case Color16:
		for name, nc := range namedColors {
			if nc.Mode == Color16 && nc.Index == c.Index {
				return name
			}
		}
		return strconv.Itoa(int(c.Index))
	case Color256:
		return strconv.Itoa(int(c.Index))
	default:
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
}

var namedColors = map[string]Color{
	"default":        DefaultColor(),
	"black":          Black,
	"red":            Red,
	"green":          Green,
	"yellow":         Yellow,
	"blue":           Blue,
	"magenta":        Magenta,
	"cyan":           Cyan,
	"white":          White,
	"bright-black":   BrightBlack,
	"bright-red":     BrightRed,
	"bright-green":   BrightGreen,
	"bright-yellow":  BrightYellow,
	"bright-blue":    BrightBlue,
	"bright-magenta": BrightMagenta,
	"bright-cyan":    BrightCyan,
	"bright-white":   BrightWhite,
}

// ParseColor accepts a color name ("bright-cyan"), a palette index
// ("214"), or a hex triplet ("#ff5500").
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") {
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil || len(s) != 7 {
			return Color{}, fmt.Errorf("bad hex color %q", s)
		}
		return Hex(uint32(v)), nil
	}
	if idx, err := strconv.Atoi(s); err == nil {
		if idx < 0 || idx > 255 {
			return Color{}, fmt.Errorf("palette index %d out of range", idx)
		}
		return PaletteColor(uint8(idx)), nil
	}
	return Color{}, fmt.Errorf("unknown color %q", s)
}
