package series

import (
	"fmt"
	"image/color"
)

// Color is an unpremultiplied 8-bit RGBA colour.
type Color [4]uint8

// IsZero reports whether the colour is unset.
func (c Color) IsZero() bool { return c == Color{} }

// Float32 returns the colour as normalised RGBA.
func (c Color) Float32() [4]float32 {
	return [4]float32{
		float32(c[0]) / 255,
		float32(c[1]) / 255,
		float32(c[2]) / 255,
		float32(c[3]) / 255,
	}
}

// ScaleAlpha returns c with its alpha multiplied by f.
func (c Color) ScaleAlpha(f float64) Color {
	a := float64(c[3]) * f
	if a > 255 {
		a = 255
	}
	if a < 0 {
		a = 0
	}
	c[3] = uint8(a)
	return c
}

// RGBA converts to the image/color type used by the export backends.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
}

// Hex returns "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// Palette is the 12-colour cycle assigned to series without a colour.
var Palette = [12]Color{
	{255, 0, 0, 255},     // red
	{0, 255, 0, 255},     // green
	{0, 0, 255, 255},     // blue
	{255, 255, 0, 255},   // yellow
	{255, 0, 255, 255},   // magenta
	{0, 255, 255, 255},   // cyan
	{255, 165, 0, 255},   // orange
	{128, 0, 128, 255},   // purple
	{0, 128, 0, 255},     // dark green
	{0, 0, 128, 255},     // navy
	{255, 192, 203, 255}, // pink
	{165, 42, 42, 255},   // brown
}

// ColorForIndex cycles through Palette.
func ColorForIndex(i int) Color {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}

// Theme selects the plot background and grid colours.
type Theme int

const (
	ThemeDark Theme = iota
	ThemeLight
)

// ParseTheme accepts "dark" or "light".
func ParseTheme(s string) (Theme, error) {
	switch s {
	case "dark", "":
		return ThemeDark, nil
	case "light":
		return ThemeLight, nil
	}
	return ThemeDark, fmt.Errorf("unknown theme %q", s)
}

// Toggle flips between dark and light.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

func (t Theme) String() string {
	if t == ThemeLight {
		return "Light"
	}
	return "Dark"
}

// Background returns the plot clear colour.
func (t Theme) Background() Color {
	if t == ThemeLight {
		return Color{255, 255, 255, 255}
	}
	return Color{20, 20, 20, 255}
}

// Grid returns the grid stroke colour.
func (t Theme) Grid() Color {
	if t == ThemeLight {
		return Color{180, 180, 180, 80}
	}
	return Color{100, 100, 100, 60}
}

// Text returns the colour for tick labels and legends.
func (t Theme) Text() Color {
	if t == ThemeLight {
		return Color{40, 40, 40, 255}
	}
	return Color{200, 200, 200, 255}
}
