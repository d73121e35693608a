// Package export persists rendered frames and assembles frame sequences into animations.
package export

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	fractal "github.com/marben/fractal_gif"
)

// PNG writes and reads frames as PNG files.
type PNG struct{}

// WriteFrame implements fractal.FrameWriter. dir is created if missing.
func (PNG) WriteFrame(dir, name string, img image.Image) (string, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create directory: %w", err)
		}
	}
	path := filepath.Join(dir, name+".png")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create frame: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("encode PNG %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %q: %w", path, err)
	}
	return path, nil
}

// ReadFrame implements fractal.FrameReader.
func (PNG) ReadFrame(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frame: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode PNG %q: %w", path, err)
	}
	return img, nil
}

var (
	_ fractal.FrameWriter = PNG{}
	_ fractal.FrameReader = PNG{}
)
