package animation

import (
	"context"
	"fmt"
	"math/rand"

	fractal "github.com/marben/fractal_gif"
)

// DefaultMaxProbeAttempts bounds the rejection loop of a probe.
const DefaultMaxProbeAttempts = 1_000_000

// probeCheckEvery is how many candidates are drawn between context checks.
const probeCheckEvery = 1024

// Band is a half-open range [Low, High) of fractions of the precision.
type Band struct {
	Low, High float64
}

// Contains reports whether v lies in [Low·precision, High·precision).
func (b Band) Contains(v float64, precision int) bool {
	p := float64(precision)
	return v >= b.Low*p && v < b.High*p
}

// Probe draws uniformly random cells of arr until one satisfies band and returns it.
// maxAttempts <= 0 removes the bound: with no satisfying cell the loop then only ends
// when ctx does.
func Probe(ctx context.Context, arr *fractal.Array, precision int, band Band, rng *rand.Rand, maxAttempts int) (i, j int, err error) {
	for attempt := 1; ; attempt++ {
		i, j = rng.Intn(arr.Width), rng.Intn(arr.Height)
		if band.Contains(arr.At(i, j), precision) {
			return i, j, nil
		}
		if maxAttempts > 0 && attempt >= maxAttempts {
			return 0, 0, fmt.Errorf("%w: no cell in [%g, %g)·%d after %d attempts",
				fractal.ErrProbeExhausted, band.Low, band.High, precision, attempt)
		}
		if attempt%probeCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return 0, 0, fmt.Errorf("probe: %w", err)
			}
		}
	}
}
