// Package colors holds the colour algorithms that turn fractal array values into pixels.
package colors

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	fractal "github.com/marben/fractal_gif"
)

var (
	black = color.RGBA{A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// inSet reports whether v is the in-set sentinel for precision.
func inSet(v float64, precision int) bool {
	return v >= float64(precision)
}

// Simple scales value/precision linearly onto a grey ramp.
type Simple struct{}

func (Simple) Name() string { return "simple" }

func (Simple) Color(v float64, precision int) color.RGBA {
	t := v / float64(precision)
	t = math.Max(0, math.Min(1, t))
	g := uint8(math.Round(t * 255))
	return color.RGBA{R: g, G: g, B: g, A: 255}
}

// BlackAndWhite paints in-set cells black and everything else white.
type BlackAndWhite struct{}

func (BlackAndWhite) Name() string { return "black_and_white" }

func (BlackAndWhite) Color(v float64, precision int) color.RGBA {
	if inSet(v, precision) {
		return black
	}
	return white
}

// HueRange spreads values linearly over the hue interval [StartDegree, EndDegree]
// at full saturation and half lightness. In-set cells are black.
type HueRange struct {
	StartDegree, EndDegree int
}

func (h HueRange) Name() string {
	return fmt.Sprintf("hue_range-%d-%d", h.StartDegree, h.EndDegree)
}

func (h HueRange) Color(v float64, precision int) color.RGBA {
	if inSet(v, precision) {
		return black
	}
	t := math.Max(0, v/float64(precision))
	hue := float64(h.StartDegree) + float64(h.EndDegree-h.StartDegree)*t
	return hsl(hue)
}

// HueCyclic cycles through ColorCount hues, ColorStepShift degrees apart,
// starting at StartDegree. Values ColorCount apart share a hue.
type HueCyclic struct {
	StartDegree    int
	ColorStepShift int
	ColorCount     int
}

func (h HueCyclic) Name() string {
	return fmt.Sprintf("hue_cyclic-%d-%d", h.StartDegree, h.ColorStepShift)
}

func (h HueCyclic) Color(v float64, precision int) color.RGBA {
	if inSet(v, precision) {
		return black
	}
	step := int(math.Floor(v)) % h.ColorCount
	if step < 0 {
		step += h.ColorCount
	}
	return hsl(float64(h.StartDegree + step*h.ColorStepShift))
}

// Validate checks that the cycle parameters are positive.
func (h HueCyclic) Validate() error {
	if h.ColorCount <= 0 {
		return fmt.Errorf("%w: color_count %d must be positive", fractal.ErrNumericDomain, h.ColorCount)
	}
	if h.ColorStepShift <= 0 {
		return fmt.Errorf("%w: hue_step_shift %d must be positive", fractal.ErrNumericDomain, h.ColorStepShift)
	}
	return nil
}

// normDegree takes d modulo 360 into [0, 360).
func normDegree(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

func hsl(hue float64) color.RGBA {
	r, g, b := colorful.Hsl(normDegree(hue), 1, 0.5).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

var (
	_ fractal.ColorAlgorithm = Simple{}
	_ fractal.ColorAlgorithm = BlackAndWhite{}
	_ fractal.ColorAlgorithm = HueRange{}
	_ fractal.ColorAlgorithm = HueCyclic{}
)
