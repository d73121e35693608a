package animation

import (
	"fmt"
	"math"
	"sort"

	fractal "github.com/marben/fractal_gif"
	"github.com/marben/fractal_gif/colors"
)

// Direction tags the pass a frame belongs to; it appears in frame filenames.
type Direction string

const (
	Forward  Direction = "forward"
	Backward Direction = "backward"
)

// ZoomFactor is how much each zoom frame shrinks the viewport.
const ZoomFactor = 0.9

// driftDivisor sets how far a constant drifts over one pass: c0/driftDivisor.
const driftDivisor = 60

// Track is what a trajectory needs to derive frame k.
type Track struct {
	Base  fractal.Config
	Start complex128 // probed starting constant, zero when the animation does not probe
	N     int
	Walk  []complex128 // per-frame constants of a random walk
}

// Trajectory derives the configuration of frame k of a pass.
type Trajectory func(t Track, k int, dir Direction) fractal.Config

// ProbeSpec selects the set rendered to find a starting constant and the band a
// candidate cell must fall in.
type ProbeSpec struct {
	Variant string
	Band    Band
}

// Animation describes one animation variant.
type Animation struct {
	Name string

	// Accepts restricts the colour algorithm; nil accepts any.
	Accepts func(fractal.ColorAlgorithm) bool

	// Probe, if set, searches for a starting constant before generating frames.
	Probe *ProbeSpec

	// Variant rendered for every frame; empty keeps the base variant.
	Variant string

	// Backward adds a second pass covering the return half of the trajectory.
	Backward bool
	// Mirror appends the frames in reverse order when assembling.
	Mirror bool
	// Recolor computes the fractal array once; frames only change the colour algorithm.
	Recolor bool
	// Walk precomputes a seeded random walk of the constant.
	Walk bool

	Trajectory Trajectory
}

func isHueRange(c fractal.ColorAlgorithm) bool {
	_, ok := c.(colors.HueRange)
	return ok
}

func isHueCyclic(c fractal.ColorAlgorithm) bool {
	_, ok := c.(colors.HueCyclic)
	return ok
}

// turn is frame k's share of a full hue rotation, in degrees.
func turn(k, n int) int {
	return k * 360 / n
}

func firstHueRotation(t Track, k int, _ Direction) fractal.Config {
	cfg := t.Base
	h := cfg.ColorAlgorithm.(colors.HueRange)
	h.StartDegree += turn(k, t.N)
	h.EndDegree += turn(k, t.N)
	cfg.SetColorAlgorithm(h)
	return cfg
}

func secondHueRotation(t Track, k int, _ Direction) fractal.Config {
	cfg := t.Base
	h := cfg.ColorAlgorithm.(colors.HueRange)
	h.EndDegree += turn(k, t.N)
	cfg.SetColorAlgorithm(h)
	return cfg
}

func hueCycle(t Track, k int, _ Direction) fractal.Config {
	cfg := t.Base
	h := cfg.ColorAlgorithm.(colors.HueCyclic)
	h.StartDegree += turn(k, t.N)
	cfg.SetColorAlgorithm(h)
	return cfg
}

// drift moves the constant linearly toward Start·(1-1/driftDivisor) on the forward pass
// and back toward Start on the backward pass.
func drift(t Track, k int, dir Direction) fractal.Config {
	cfg := t.Base
	step := t.Start / driftDivisor / complex(float64(t.N), 0)
	switch dir {
	case Backward:
		cfg.Constant = t.Start - complex(float64(t.N-k), 0)*step
	default:
		cfg.Constant = t.Start - complex(float64(k), 0)*step
	}
	return cfg
}

func walk(t Track, k int, _ Direction) fractal.Config {
	cfg := t.Base
	cfg.Constant = t.Walk[k]
	return cfg
}

func zoom(t Track, k int, _ Direction) fractal.Config {
	cfg := t.Base
	cfg.Viewport = t.Base.Viewport.Zoom(math.Pow(ZoomFactor, float64(k)))
	return cfg
}

var animations = map[string]Animation{
	"first_hue_rotation": {
		Accepts:    isHueRange,
		Recolor:    true,
		Trajectory: firstHueRotation,
	},
	"second_hue_rotation": {
		Accepts:    isHueRange,
		Recolor:    true,
		Mirror:     true,
		Trajectory: secondHueRotation,
	},
	"hue_cycle": {
		Accepts:    isHueCyclic,
		Recolor:    true,
		Trajectory: hueCycle,
	},
	"random_julia": {
		Probe:      &ProbeSpec{Variant: "mandelbrot", Band: Band{Low: 0.8, High: 1}},
		Variant:    "julia",
		Mirror:     true,
		Trajectory: drift,
	},
	"random_cubic_julia": {
		Probe:      &ProbeSpec{Variant: "cubic_mandelbrot", Band: Band{Low: 0.9, High: 1}},
		Variant:    "cubic_julia",
		Backward:   true,
		Trajectory: drift,
	},
	"random_phoenix_julia": {
		Probe:      &ProbeSpec{Variant: "phoenix_mandelbrot", Band: Band{Low: 0.8, High: 1}},
		Variant:    "phoenix_julia",
		Mirror:     true,
		Trajectory: drift,
	},
	"random_quartic_julia": {
		Probe:      &ProbeSpec{Variant: "quartic_mandelbrot", Band: Band{Low: 0.98, High: 1}},
		Variant:    "quartic_julia",
		Backward:   true,
		Trajectory: drift,
	},
	"random_walk_julia": {
		Probe:      &ProbeSpec{Variant: "mandelbrot", Band: Band{Low: 0.8, High: 1}},
		Variant:    "julia",
		Mirror:     true,
		Walk:       true,
		Trajectory: walk,
	},
	"zoom": {
		Mirror:     true,
		Trajectory: zoom,
	},
}

// Lookup returns the animation called name.
func Lookup(name string) (Animation, error) {
	a, ok := animations[name]
	if !ok {
		return Animation{}, fmt.Errorf("%w: unsupported animation %q", fractal.ErrConfiguration, name)
	}
	a.Name = name
	return a, nil
}

// Names lists every registered animation, sorted.
func Names() []string {
	names := make([]string, 0, len(animations))
	for n := range animations {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
