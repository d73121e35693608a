package export

import (
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	fractal "github.com/marben/fractal_gif"
)

// DefaultDelay is the per-frame delay in 100ths of a second.
const DefaultDelay = 5

// GIF assembles frames into a looping animated GIF.
type GIF struct {
	// Delay per frame in 100ths of a second; 0 means DefaultDelay.
	Delay int
	// Scale resizes every frame before quantization; 0 or 1 keeps the original size.
	Scale float64
}

var errNoFrames = errors.New("no frames to export")

// Export implements fractal.Exporter.
func (g GIF) Export(path string, frames []image.Image) error {
	if len(frames) == 0 {
		return errNoFrames
	}
	delay := g.Delay
	if delay == 0 {
		delay = DefaultDelay
	}

	anim := &gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		anim.Image = append(anim.Image, g.paletted(frame))
		anim.Delay = append(anim.Delay, delay)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create animation: %w", err)
	}
	defer f.Close()

	if err := gif.EncodeAll(f, anim); err != nil {
		return fmt.Errorf("encode GIF %q: %w", path, err)
	}
	return f.Close()
}

// paletted scales src if requested and dithers it onto the Plan9 palette.
func (g GIF) paletted(src image.Image) *image.Paletted {
	if g.Scale > 0 && g.Scale != 1 {
		b := src.Bounds()
		w := max(1, int(float64(b.Dx())*g.Scale))
		h := max(1, int(float64(b.Dy())*g.Scale))
		scaled := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, b, draw.Src, nil)
		src = scaled
	}

	b := src.Bounds()
	dst := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), palette.Plan9)
	draw.FloydSteinberg.Draw(dst, dst.Bounds(), src, b.Min)
	return dst
}

var _ fractal.Exporter = GIF{}
