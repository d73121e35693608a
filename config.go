package fractal

import "fmt"

// Config is everything one render needs. It is a value type: animations derive a
// fresh Config per phase and per frame instead of mutating a shared engine.
type Config struct {
	Variant   string
	Viewport  Viewport
	Precision int // maximum iteration count, also the in-set sentinel

	// Constant is the Julia-family parameter (real_constant + imaginary_constant·i).
	Constant complex128

	ColorAlgorithmName string
	ColorAlgorithm     ColorAlgorithm

	Directory string
	Filename  string

	// BypassImageGeneration returns only the fractal array, skipping colouring and persistence.
	BypassImageGeneration bool

	// Samples is the number of orbit seeds for the Buddhabrot variants; 0 means Width*Height.
	Samples int
	// Seed drives Buddhabrot seed sampling.
	Seed int64
}

// DefaultConfig mirrors the defaults of the command interface.
func DefaultConfig() Config {
	return Config{
		Variant:   "mandelbrot",
		Viewport:  NewViewport(DefaultRegion, 600, 400),
		Precision: 100,
		Constant:  complex(-0.8, 0.156),
		Directory: "output",
		Filename:  "fractal",
	}
}

func (c Config) Width() int  { return c.Viewport.Width }
func (c Config) Height() int { return c.Viewport.Height }

// SetColorAlgorithm installs alg together with its display name.
func (c *Config) SetColorAlgorithm(alg ColorAlgorithm) {
	c.ColorAlgorithm = alg
	c.ColorAlgorithmName = alg.Name()
}

// Validate checks the numeric invariants. Variant names are checked by the engine,
// which owns the registry.
func (c Config) Validate() error {
	if c.Precision <= 0 {
		return fmt.Errorf("%w: precision %d must be positive", ErrNumericDomain, c.Precision)
	}
	if err := c.Viewport.Validate(); err != nil {
		return err
	}
	if c.Samples < 0 {
		return fmt.Errorf("%w: samples %d must not be negative", ErrNumericDomain, c.Samples)
	}
	if !c.BypassImageGeneration && c.ColorAlgorithm == nil {
		return fmt.Errorf("%w: no color algorithm set", ErrConfiguration)
	}
	if v, ok := c.ColorAlgorithm.(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}
