package gradient

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// NormalizeColor renders a parseable CSS color as rgb(r,g,b) or rgba(r,g,b,a). Values that cannot
// be parsed (currentColor, var(--x), ...) are returned unchanged.
func NormalizeColor(input string) string {
	c, ok := ParseColor(input)
	if !ok {
		return input
	}
	if c.A == 255 {
		return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
	}
	alpha := math.Round(float64(c.A)/255*100) / 100
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", c.R, c.G, c.B, strconv.FormatFloat(alpha, 'f', -1, 64))
}

// HexColor formats c as #rrggbb, dropping alpha.
func HexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseColor understands named colors, hex notations and the rgb()/rgba()/hsl()/hsla() functions.
func ParseColor(input string) (color.NRGBA, bool) {
	value := strings.ToLower(strings.TrimSpace(input))
	if value == "" {
		return color.NRGBA{}, false
	}

	if value == "transparent" {
		return color.NRGBA{}, true
	}

	if strings.HasPrefix(value, "#") {
		return parseHex(value)
	}

	if open := strings.IndexByte(value, '('); open > 0 && strings.HasSuffix(value, ")") {
		name := strings.TrimSpace(value[:open])
		args := splitArgs(value[open+1 : len(value)-1])
		switch name {
		case "rgb", "rgba":
			return parseRGBFunc(args)
		case "hsl", "hsla":
			return parseHSLFunc(args)
		}
		return color.NRGBA{}, false
	}

	named, ok := colornames.Map[value]
	if !ok {
		return color.NRGBA{}, false
	}
	return color.NRGBA{R: named.R, G: named.G, B: named.B, A: named.A}, true
}

func parseHex(value string) (color.NRGBA, bool) {
	digits := strings.TrimPrefix(value, "#")
	alpha := uint8(255)

	switch len(digits) {
	case 4:
		a, err := strconv.ParseUint(strings.Repeat(digits[3:], 2), 16, 8)
		if err != nil {
			return color.NRGBA{}, false
		}
		alpha = uint8(a)
		digits = digits[:3]
	case 8:
		a, err := strconv.ParseUint(digits[6:], 16, 8)
		if err != nil {
			return color.NRGBA{}, false
		}
		alpha = uint8(a)
		digits = digits[:6]
	case 3, 6:
	default:
		return color.NRGBA{}, false
	}

	c, err := colorful.Hex("#" + digits)
	if err != nil {
		return color.NRGBA{}, false
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, true
}

func splitArgs(body string) []string {
	body = strings.ReplaceAll(body, "/", " ")
	body = strings.ReplaceAll(body, ",", " ")
	return strings.Fields(body)
}

func parseRGBFunc(args []string) (color.NRGBA, bool) {
	if len(args) != 3 && len(args) != 4 {
		return color.NRGBA{}, false
	}
	var channels [3]uint8
	for i := 0; i < 3; i++ {
		v, ok := parseChannel(args[i], 255)
		if !ok {
			return color.NRGBA{}, false
		}
		channels[i] = uint8(math.Round(v))
	}
	alpha := uint8(255)
	if len(args) == 4 {
		a, ok := parseChannel(args[3], 1)
		if !ok {
			return color.NRGBA{}, false
		}
		alpha = uint8(math.Round(a * 255))
	}
	return color.NRGBA{R: channels[0], G: channels[1], B: channels[2], A: alpha}, true
}

func parseHSLFunc(args []string) (color.NRGBA, bool) {
	if len(args) != 3 && len(args) != 4 {
		return color.NRGBA{}, false
	}
	hue, ok := parseHue(args[0])
	if !ok {
		return color.NRGBA{}, false
	}
	sat, ok := parseChannel(args[1], 1)
	if !ok {
		return color.NRGBA{}, false
	}
	light, ok := parseChannel(args[2], 1)
	if !ok {
		return color.NRGBA{}, false
	}
	alpha := uint8(255)
	if len(args) == 4 {
		a, ok := parseChannel(args[3], 1)
		if !ok {
			return color.NRGBA{}, false
		}
		alpha = uint8(math.Round(a * 255))
	}
	r, g, b := colorful.Hsl(hue, sat, light).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, true
}

// parseChannel reads a plain number (already in [0,max]) or a percentage of max, clamped.
func parseChannel(arg string, max float64) (float64, bool) {
	var (
		v   float64
		err error
	)
	if strings.HasSuffix(arg, "%") {
		v, err = strconv.ParseFloat(strings.TrimSuffix(arg, "%"), 64)
		v = v / 100 * max
	} else {
		v, err = strconv.ParseFloat(arg, 64)
	}
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return math.Max(0, math.Min(max, v)), true
}

func parseHue(arg string) (float64, bool) {
	angle, ok := parseAngle(arg)
	if !ok {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return 0, false
		}
		angle = v
	}
	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}
	return angle, true
}
