package theme

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// HexToColor converts a hex color string (#RRGGBB or #RGB) to tcell.Color
func HexToColor(hexColor string) tcell.Color {
	hexColor = strings.TrimPrefix(hexColor, "#")

	if len(hexColor) == 3 {
		var b strings.Builder
		for _, r := range hexColor {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hexColor = b.String()
	}
	if len(hexColor) != 6 {
		return tcell.ColorDefault
	}

	c, err := colorful.Hex("#" + hexColor)
	if err != nil {
		return tcell.ColorDefault
	}
	return fromColorful(c)
}

func fromColorful(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// ParseColorString handles #RRGGBB, #RGB and rgb(r,g,b)
func ParseColorString(colorStr string) tcell.Color {
	colorStr = strings.TrimSpace(colorStr)

	if strings.HasPrefix(colorStr, "#") {
		return HexToColor(colorStr)
	}

	inner, ok := strings.CutPrefix(colorStr, "rgb(")
	if !ok {
		return tcell.ColorDefault
	}
	inner, ok = strings.CutSuffix(inner, ")")
	if !ok {
		return tcell.ColorDefault
	}
	parts := strings.Split(inner, ",")
	if len(parts) != 3 {
		return tcell.ColorDefault
	}

	var rgb [3]int32
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			return tcell.ColorDefault
		}
		rgb[i] = int32(v)
	}
	return tcell.NewRGBColor(rgb[0], rgb[1], rgb[2])
}

// Dim blends a color towards the background, used for the placeholder and
// collapsed rows. Non-RGB colors are returned unchanged.
func Dim(fg, bg tcell.Color, amount float64) tcell.Color {
	if !fg.IsRGB() || !bg.IsRGB() {
		return fg
	}
	fr, fgG, fb := fg.RGB()
	br, bgG, bb := bg.RGB()
	a := colorful.Color{R: float64(fr) / 255, G: float64(fgG) / 255, B: float64(fb) / 255}
	b := colorful.Color{R: float64(br) / 255, G: float64(bgG) / 255, B: float64(bb) / 255}
	return fromColorful(a.BlendLab(b, amount).Clamped())
}

// ColorToStyle creates a style with a specific foreground color
func ColorToStyle(fgColor tcell.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(fgColor)
}

// ColorPairToStyle creates a style with specific foreground and background colors
func ColorPairToStyle(fgColor, bgColor tcell.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(fgColor).Background(bgColor)
}
