// Package render is the fractal evaluation engine: it turns a fractal.Config into a
// fractal array and, unless bypassed, a coloured image persisted through a FrameWriter.
package render

import (
	"fmt"
	"image"
	"math"
	"math/cmplx"
	"math/rand"

	fractal "github.com/marben/fractal_gif"
)

const tileSize = 64

// newtonTolerance is the distance to a root at which a Newton orbit counts as converged.
const newtonTolerance = 1e-6

var newtonRoots = [3]complex128{
	1,
	complex(-0.5, math.Sqrt(3)/2),
	complex(-0.5, -math.Sqrt(3)/2),
}

// Engine renders a single configuration. Build a new Engine for each configuration
// instead of reconfiguring one in place.
type Engine struct {
	cfg     fractal.Config
	variant Variant
	writer  fractal.FrameWriter

	// OnTileRender, if set, is called after each tile of the array has been computed.
	OnTileRender func(tile fractal.Tile)
}

// New validates cfg and binds it to its variant. writer may be nil when cfg bypasses
// image generation.
func New(cfg fractal.Config, writer fractal.FrameWriter) (*Engine, error) {
	v, err := Lookup(cfg.Variant)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.BypassImageGeneration && writer == nil {
		return nil, fmt.Errorf("%w: no frame writer for %q", fractal.ErrConfiguration, cfg.Filename)
	}
	return &Engine{cfg: cfg, variant: v, writer: writer}, nil
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() fractal.Config { return e.cfg }

// Render computes the fractal array. Unless image generation is bypassed it also colours
// the array and persists it as {Directory}/{Filename}; the returned artifact holds both
// the path and the pixels. In bypass mode the artifact is nil.
func (e *Engine) Render() (*fractal.Array, *fractal.Artifact, error) {
	arr := e.Compute()
	if e.cfg.BypassImageGeneration {
		return arr, nil, nil
	}

	img := Paint(arr, e.cfg, e.variant.Density())
	path, err := e.writer.WriteFrame(e.cfg.Directory, e.cfg.Filename, img)
	if err != nil {
		return nil, nil, fmt.Errorf("write %q: %w", e.cfg.Filename, err)
	}
	return arr, &fractal.Artifact{Path: path, Image: img}, nil
}

// Compute evaluates the recurrence for every pixel and returns the fresh array.
func (e *Engine) Compute() *fractal.Array {
	vp := e.cfg.Viewport
	arr := fractal.NewArray(vp.Width, vp.Height)

	if e.variant.kind == buddhabrot {
		e.accumulate(arr)
		if e.OnTileRender != nil {
			e.OnTileRender(fractal.Tile{W: vp.Width, H: vp.Height})
		}
		return arr
	}

	for _, tile := range fractal.SplitTiles(vp.Width, vp.Height, tileSize, tileSize) {
		for i := tile.X0; i < tile.X0+tile.W; i++ {
			for j := tile.Y0; j < tile.Y0+tile.H; j++ {
				arr.Set(i, j, float64(e.pixel(vp.Point(i, j))))
			}
		}
		if e.OnTileRender != nil {
			e.OnTileRender(tile)
		}
	}
	return arr
}

func (e *Engine) pixel(p complex128) int {
	if e.variant.kind == newton {
		return NewtonConvergence(p, e.cfg.Precision)
	}
	if e.variant.Julia {
		return EscapeTime(e.variant.Next, p, e.cfg.Constant, e.cfg.Precision)
	}
	return EscapeTime(e.variant.Next, 0, p, e.cfg.Precision)
}

// EscapeTime iterates next from z0 and returns the number of completed steps before
// |z| exceeds 2, or precision if it never does.
func EscapeTime(next Recurrence, z0, c complex128, precision int) int {
	z, prev := z0, complex128(0)

	for i := 0; i < precision; i++ {
		z, prev = next(z, prev, c), z
		if real(z)*real(z)+imag(z)*imag(z) > bailout {
			return i
		}
	}

	// Inside the set
	return precision
}

// NewtonConvergence returns how many Newton steps z^3-1 takes from z0 to land within
// newtonTolerance of a root, or precision if it does not converge.
func NewtonConvergence(z0 complex128, precision int) int {
	n, _ := newtonOrbit(z0, precision)
	return n
}

// NewtonRoot returns the index into the cube roots of unity that z0 converges to, or -1.
func NewtonRoot(z0 complex128, precision int) int {
	_, root := newtonOrbit(z0, precision)
	return root
}

func newtonOrbit(z0 complex128, precision int) (int, int) {
	z := z0
	for i := 0; i < precision; i++ {
		for r, root := range newtonRoots {
			if cmplx.Abs(z-root) < newtonTolerance {
				return i, r
			}
		}
		if z == 0 {
			break
		}
		z = newtonStep(z, 0, 0)
	}
	return precision, -1
}

// accumulate traces Samples random seeds and, for every seed that escapes, increments
// each in-viewport cell its orbit visits.
func (e *Engine) accumulate(arr *fractal.Array) {
	vp := e.cfg.Viewport
	samples := e.cfg.Samples
	if samples == 0 {
		samples = vp.Width * vp.Height
	}
	rng := rand.New(rand.NewSource(e.cfg.Seed))
	orbit := make([]complex128, 0, e.cfg.Precision)

	for s := 0; s < samples; s++ {
		p := complex(
			vp.LeftX+rng.Float64()*(vp.RightX-vp.LeftX),
			vp.BottomY+rng.Float64()*(vp.TopY-vp.BottomY),
		)
		z, c := complex128(0), p
		if e.variant.Julia {
			z, c = p, e.cfg.Constant
		}

		orbit = orbit[:0]
		escaped := false
		var prev complex128
		for i := 0; i < e.cfg.Precision; i++ {
			z, prev = e.variant.Next(z, prev, c), z
			if real(z)*real(z)+imag(z)*imag(z) > bailout {
				escaped = true
				break
			}
			orbit = append(orbit, z)
		}
		if !escaped {
			continue
		}
		for _, o := range orbit {
			if i, j, ok := vp.Pixel(o); ok {
				arr.Inc(i, j)
			}
		}
	}
}

// Paint colours arr with cfg's colour algorithm. Image row 0 is the top of the viewport.
// Density arrays are rescaled into [0, precision) first so no cell reads as in-set.
func Paint(arr *fractal.Array, cfg fractal.Config, density bool) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, arr.Width, arr.Height))
	scale := 1.0
	if density {
		if m := arr.Max(); m > 0 {
			scale = float64(cfg.Precision-1) / m
		}
	}

	for i := 0; i < arr.Width; i++ {
		for j := 0; j < arr.Height; j++ {
			v := arr.At(i, j)
			if density {
				v *= scale
			}
			img.SetRGBA(i, arr.Height-1-j, cfg.ColorAlgorithm.Color(v, cfg.Precision))
		}
	}
	return img
}

// Repaint colours an array previously computed for cfg's variant without recomputing it.
func Repaint(arr *fractal.Array, cfg fractal.Config) (*image.RGBA, error) {
	v, err := Lookup(cfg.Variant)
	if err != nil {
		return nil, err
	}
	if cfg.ColorAlgorithm == nil {
		return nil, fmt.Errorf("%w: no color algorithm set", fractal.ErrConfiguration)
	}
	return Paint(arr, cfg, v.Density()), nil
}
