package render

import (
	"fmt"
	"math/cmplx"
	"sort"

	fractal "github.com/marben/fractal_gif"
)

type kind int

const (
	escapeTime kind = iota
	newton
	buddhabrot
)

// Recurrence advances an orbit one step. prev is the iterate before z and is
// only used by the phoenix variants.
type Recurrence func(z, prev, c complex128) complex128

// Variant is one fractal family member: its recurrence and how its orbit is seeded.
type Variant struct {
	Name string
	Next Recurrence

	// Julia variants seed z at the pixel and take c from Config.Constant.
	// Mandelbrot variants seed z at 0 and take c from the pixel.
	Julia bool

	kind kind
}

// PhoenixP weighs the previous iterate in the phoenix recurrence.
const PhoenixP = -0.5

// bailout is the squared escape radius.
const bailout = 4

func quadratic(z, _, c complex128) complex128 { return z*z + c }
func cubic(z, _, c complex128) complex128     { return z*z*z + c }
func quartic(z, _, c complex128) complex128 {
	z2 := z * z
	return z2*z2 + c
}

func phoenix(z, prev, c complex128) complex128 { return z*z + c + PhoenixP*prev }

func burningShip(z, _, c complex128) complex128 {
	a := complex(abs(real(z)), abs(imag(z)))
	return a*a + c
}

// star is the tricorn: the conjugate of z squared.
func star(z, _, c complex128) complex128 {
	zc := cmplx.Conj(z)
	return zc*zc + c
}

func experimentalCubic(z, _, c complex128) complex128 { return z*z*z - z + c }

// newtonStep is one Newton-Raphson step on z^3 - 1.
func newtonStep(z, _, _ complex128) complex128 {
	return z - (z*z*z-1)/(3*z*z)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

var variants = map[string]Variant{
	"mandelbrot":               {Next: quadratic},
	"julia":                    {Next: quadratic, Julia: true},
	"burning_ship":             {Next: burningShip},
	"star":                     {Next: star},
	"newton":                   {Next: newtonStep, Julia: true, kind: newton},
	"phoenix_mandelbrot":       {Next: phoenix},
	"phoenix_julia":            {Next: phoenix, Julia: true},
	"cubic_mandelbrot":         {Next: cubic},
	"quartic_mandelbrot":       {Next: quartic},
	"cubic_julia":              {Next: cubic, Julia: true},
	"experimental_cubic_julia": {Next: experimentalCubic, Julia: true},
	"quartic_julia":            {Next: quartic, Julia: true},
	"buddhabrot":               {Next: quadratic, kind: buddhabrot},
	"buddhabrot_julia":         {Next: quadratic, Julia: true, kind: buddhabrot},
}

// Lookup returns the variant called name.
func Lookup(name string) (Variant, error) {
	v, ok := variants[name]
	if !ok {
		return Variant{}, fmt.Errorf("%w: unsupported fractal variant %q", fractal.ErrConfiguration, name)
	}
	v.Name = name
	return v, nil
}

// Names lists every registered variant, sorted.
func Names() []string {
	names := make([]string, 0, len(variants))
	for n := range variants {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Density reports whether the variant accumulates orbit visits instead of counting iterations.
func (v Variant) Density() bool { return v.kind == buddhabrot }

// JuliaRegion frames the Julia-family sets, which are centred on the origin.
var JuliaRegion = fractal.Region{LeftX: -1.8, RightX: 1.8, BottomY: -1.2, TopY: 1.2}

// DefaultRegion is the region a variant is framed in when no viewport is given.
func DefaultRegion(name string) fractal.Region {
	if v, ok := variants[name]; ok && v.Julia {
		return JuliaRegion
	}
	return fractal.DefaultRegion
}
