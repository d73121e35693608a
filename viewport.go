package fractal

import "fmt"

// Viewport is a rectangle of the complex plane mapped onto a Width x Height pixel grid.
// Pixel (0,0) is (LeftX, BottomY) and pixel (Width-1, Height-1) is (RightX, TopY).
type Viewport struct {
	LeftX, RightX float64
	TopY, BottomY float64
	Width, Height int
}

// Region is the bare rectangle of a viewport, without a pixel grid.
type Region struct {
	LeftX, RightX float64
	TopY, BottomY float64
}

// DefaultRegion covers the whole Mandelbrot set.
var DefaultRegion = Region{LeftX: -2, RightX: 1, TopY: 1, BottomY: -1}

// Classic regions / landmarks in the Mandelbrot set
var (
	// Seahorse Valley – dense filaments and repeating “seahorse” curls
	SeahorseValley = Region{LeftX: -0.8, RightX: -0.7, BottomY: 0.05, TopY: 0.15}

	// Elephant Valley – large bulb with trunk-like tendrils
	ElephantValley = Region{LeftX: -1.85, RightX: -1.75, BottomY: -0.10, TopY: -0.02}

	// Spiral Minibrot – small Mandelbrot copy with tight spiral arms
	SpiralMinibrot = Region{LeftX: -0.7435, RightX: -0.7420, BottomY: 0.1310, TopY: 0.1325}

	// Triple Spiral – threefold symmetric spiral structure
	TripleSpiral = Region{LeftX: -0.7480, RightX: -0.7450, BottomY: 0.0950, TopY: 0.0980}

	// Valley of the Dragon – deep, highly detailed spiral filaments
	ValleyOfTheDragon = Region{LeftX: -0.7400, RightX: -0.7350, BottomY: 0.1800, TopY: 0.1850}

	// Minibrot in a Mini-Spiral – self-similar Mandelbrot copy inside a spiral arm
	MinibrotInMiniSpiral = Region{LeftX: -1.7390, RightX: -1.7375, BottomY: -0.0235, TopY: -0.0220}
)

// Regions indexes the landmark presets by the name used on the command line.
var Regions = map[string]Region{
	"default":                 DefaultRegion,
	"seahorse_valley":         SeahorseValley,
	"elephant_valley":         ElephantValley,
	"spiral_minibrot":         SpiralMinibrot,
	"triple_spiral":           TripleSpiral,
	"valley_of_the_dragon":    ValleyOfTheDragon,
	"minibrot_in_mini_spiral": MinibrotInMiniSpiral,
}

// NewViewport places region r onto a width x height grid.
func NewViewport(r Region, width, height int) Viewport {
	return Viewport{
		LeftX: r.LeftX, RightX: r.RightX,
		TopY: r.TopY, BottomY: r.BottomY,
		Width: width, Height: height,
	}
}

// Region returns the complex-plane rectangle of v.
func (v Viewport) Region() Region {
	return Region{LeftX: v.LeftX, RightX: v.RightX, TopY: v.TopY, BottomY: v.BottomY}
}

// Validate checks the viewport invariants.
func (v Viewport) Validate() error {
	if v.Width <= 0 || v.Height <= 0 {
		return fmt.Errorf("%w: viewport size %dx%d", ErrNumericDomain, v.Width, v.Height)
	}
	if !(v.LeftX < v.RightX) {
		return fmt.Errorf("%w: left_x %g must be below right_x %g", ErrNumericDomain, v.LeftX, v.RightX)
	}
	if !(v.BottomY < v.TopY) {
		return fmt.Errorf("%w: bottom_y %g must be below top_y %g", ErrNumericDomain, v.BottomY, v.TopY)
	}
	return nil
}

// Real returns the real coordinate of pixel column i.
// Panics when i is outside [0, Width).
func (v Viewport) Real(i int) float64 {
	return linspace(v.LeftX, v.RightX, v.Width, i)
}

// Imag returns the imaginary coordinate of pixel row j.
// Panics when j is outside [0, Height).
func (v Viewport) Imag(j int) float64 {
	return linspace(v.BottomY, v.TopY, v.Height, j)
}

// Point maps pixel (i,j) to its complex coordinate.
func (v Viewport) Point(i, j int) complex128 {
	return complex(v.Real(i), v.Imag(j))
}

// Pixel is the inverse of Point, rounding to the nearest cell.
// ok is false when c lies outside the viewport.
func (v Viewport) Pixel(c complex128) (i, j int, ok bool) {
	i = nearest(v.LeftX, v.RightX, v.Width, real(c))
	j = nearest(v.BottomY, v.TopY, v.Height, imag(c))
	if i < 0 || i >= v.Width || j < 0 || j >= v.Height {
		return 0, 0, false
	}
	return i, j, true
}

// Zoom shrinks v toward its centre by factor, keeping the pixel grid.
func (v Viewport) Zoom(factor float64) Viewport {
	cx := (v.LeftX + v.RightX) / 2
	cy := (v.BottomY + v.TopY) / 2
	hw := (v.RightX - v.LeftX) / 2 * factor
	hh := (v.TopY - v.BottomY) / 2 * factor
	v.LeftX, v.RightX = cx-hw, cx+hw
	v.BottomY, v.TopY = cy-hh, cy+hh
	return v
}

// linspace returns element i of n evenly spaced samples over [start, stop].
// Each sample is computed directly from its index so large grids do not drift,
// and the last sample is exactly stop.
func linspace(start, stop float64, n, i int) float64 {
	if i < 0 || i >= n {
		panic(fmt.Sprintf("fractal: pixel index %d out of range [0,%d)", i, n))
	}
	if n == 1 {
		return start
	}
	if i == n-1 {
		return stop
	}
	step := (stop - start) / float64(n-1)
	return start + float64(i)*step
}

func nearest(start, stop float64, n int, x float64) int {
	if n == 1 {
		return 0
	}
	step := (stop - start) / float64(n-1)
	f := (x - start) / step
	if f < -0.5 {
		return -1
	}
	return int(f + 0.5)
}

// Tile is a rectangular block of pixels, the unit of engine traversal.
type Tile struct {
	X0, Y0 int // top-left pixel in global image
	W, H   int // tile width & height
}

// SplitTiles splits a width x height grid into tiles of size tileW × tileH.
// Tiles at the right and bottom edges are smaller if the grid is not divisible.
func SplitTiles(width, height, tileW, tileH int) []Tile {
	if tileW <= 0 || tileH <= 0 {
		panic("tile dimensions must be positive")
	}

	var tiles []Tile
	for oy := 0; oy < height; oy += tileH {
		th := tileH
		if oy+th > height {
			th = height - oy
		}

		for ox := 0; ox < width; ox += tileW {
			tw := tileW
			if ox+tw > width {
				tw = width - ox
			}
			tiles = append(tiles, Tile{X0: ox, Y0: oy, W: tw, H: th})
		}
	}
	return tiles
}
