package gradient

import (
	"image/color"
	"math"
	"strconv"
	"strings"
)

var sideAngles = map[string]float64{
	"to top":          0,
	"to top right":    45,
	"to right top":    45,
	"to right":        90,
	"to bottom right": 135,
	"to right bottom": 135,
	"to bottom":       180,
	"to bottom left":  225,
	"to left bottom":  225,
	"to left":         270,
	"to top left":     315,
	"to left top":     315,
}

// DirectionAngle converts a linear direction to degrees, clockwise from "to top".
func DirectionAngle(direction string) (float64, bool) {
	value := strings.Join(strings.Fields(strings.ToLower(direction)), " ")
	if angle, ok := sideAngles[value]; ok {
		return angle, true
	}
	return parseAngle(value)
}

func parseAngle(arg string) (float64, bool) {
	units := []struct {
		suffix string
		scale  float64
	}{
		{"grad", 0.9},
		{"turn", 360},
		{"deg", 1},
		{"rad", 180 / math.Pi},
	}
	for _, unit := range units {
		if !strings.HasSuffix(arg, unit.suffix) {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSuffix(arg, unit.suffix), 64)
		if err != nil {
			return 0, false
		}
		return v * unit.scale, true
	}
	return 0, false
}

// ColorAt interpolates the gradient color at t in [0,1]. Stops whose color cannot be parsed are
// treated as transparent black. With no stops the result is transparent.
func (e *Engine) ColorAt(t float64) color.NRGBA {
	stops := e.state.Stops
	if len(stops) == 0 {
		return color.NRGBA{}
	}
	t = clampUnit(t)

	first := clampUnit(stops[0].Position)
	if t <= first {
		return parsedOrTransparent(stops[0].Color)
	}
	for i := 1; i < len(stops); i++ {
		lo, hi := clampUnit(stops[i-1].Position), clampUnit(stops[i].Position)
		if t > hi {
			continue
		}
		if hi <= lo {
			return parsedOrTransparent(stops[i].Color)
		}
		return lerp(parsedOrTransparent(stops[i-1].Color), parsedOrTransparent(stops[i].Color), (t-lo)/(hi-lo))
	}
	return parsedOrTransparent(stops[len(stops)-1].Color)
}

func parsedOrTransparent(value string) color.NRGBA {
	c, _ := ParseColor(value)
	return c
}

func lerp(a, b color.NRGBA, f float64) color.NRGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*f))
	}
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
