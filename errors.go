package fractal

import "errors"

var (
	// ErrConfiguration reports an unsupported variant, colour algorithm or animation,
	// or a colour algorithm the chosen animation cannot drive.
	ErrConfiguration = errors.New("configuration error")

	// ErrNumericDomain reports a precision, size or viewport outside its valid range.
	ErrNumericDomain = errors.New("numeric domain error")

	// ErrProbeExhausted reports a probe that rejected every candidate it was allowed to draw.
	ErrProbeExhausted = errors.New("probe exhausted")
)
