package fractal

import (
	"image"
	"image/color"
)

// ColorAlgorithm maps one fractal array value to a pixel.
// Implementations are pure and may be shared by every frame of an animation.
type ColorAlgorithm interface {
	// Name identifies the algorithm and its parameters, e.g. "hue_range-0-240".
	Name() string
	Color(value float64, precision int) color.RGBA
}

// Artifact is one rendered frame: where it was persisted and the pixels themselves,
// so a sequencer can batch it without decoding the file again.
type Artifact struct {
	Path  string
	Image *image.RGBA
}

// FrameWriter persists a rendered image as {dir}/{name}.{ext} and returns the path written.
type FrameWriter interface {
	WriteFrame(dir, name string, img image.Image) (string, error)
}

// FrameReader reads back a frame written by a FrameWriter.
type FrameReader interface {
	ReadFrame(path string) (image.Image, error)
}

// Exporter assembles an ordered frame sequence into a single looping animation file.
type Exporter interface {
	Export(path string, frames []image.Image) error
}

// Reporter observes progress; it never influences control flow.
type Reporter interface {
	Report(step, total int)
}
