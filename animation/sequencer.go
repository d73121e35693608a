// Package animation drives the render engine across a parameter trajectory and
// assembles the frames into a looping animation.
package animation

import (
	"context"
	"fmt"
	"image"
	"log"
	"math/rand"
	"time"

	fractal "github.com/marben/fractal_gif"
	"github.com/marben/fractal_gif/render"
)

// Phase is a state of an animation run.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseProbe
	PhaseGenerate
	PhaseAssemble
	PhaseExport
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseProbe:
		return "probe"
	case PhaseGenerate:
		return "generate"
	case PhaseAssemble:
		return "assemble"
	case PhaseExport:
		return "export"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// Sequencer runs one animation. Writer, Exporter and Output are required;
// the rest have usable zero values.
type Sequencer struct {
	Animation  Animation
	Increments int

	Writer   fractal.FrameWriter
	Reader   fractal.FrameReader // used only for artifacts held on disk alone
	Exporter fractal.Exporter
	Progress fractal.Reporter

	// Output is the path of the assembled animation file.
	Output string

	// Rand drives the probe and random walks; nil seeds from the clock.
	Rand *rand.Rand
	// MaxProbeAttempts bounds the probe; 0 means DefaultMaxProbeAttempts and a
	// negative value removes the bound.
	MaxProbeAttempts int

	// OnPhase, if set, is called on entering every phase.
	OnPhase func(Phase)
}

// Result describes a finished run.
type Result struct {
	// Start is the probed starting constant; zero for animations that do not probe.
	Start  complex128
	Frames []fractal.Artifact // in render order
	Images []image.Image      // in export order, mirrored copy included
	Output string
}

type run struct {
	s     *Sequencer
	ctx   context.Context
	base  fractal.Config
	rng   *rand.Rand
	track Track
	res   Result
}

// Run animates base. base is copied; the caller's configuration is never touched.
// Any render or I/O failure aborts the whole run.
func (s *Sequencer) Run(ctx context.Context, base fractal.Config) (Result, error) {
	r := &run{s: s, ctx: ctx, base: base, rng: s.Rand}
	if r.rng == nil {
		r.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	steps := []struct {
		phase Phase
		fn    func() error
	}{
		{PhaseInit, r.init},
		{PhaseProbe, r.probe},
		{PhaseGenerate, r.generate},
		{PhaseAssemble, r.assemble},
		{PhaseExport, r.export},
	}
	for _, step := range steps {
		s.enter(step.phase)
		if err := step.fn(); err != nil {
			return Result{}, fmt.Errorf("%s %s: %w", s.Animation.Name, step.phase, err)
		}
	}
	s.enter(PhaseDone)
	return r.res, nil
}

func (s *Sequencer) enter(p Phase) {
	if s.OnPhase != nil {
		s.OnPhase(p)
	}
}

func (s *Sequencer) report(step, total int) {
	if s.Progress != nil {
		s.Progress.Report(step, total)
	}
}

// init rejects configurations that cannot run before anything is rendered.
func (r *run) init() error {
	a := r.s.Animation
	if a.Trajectory == nil {
		return fmt.Errorf("%w: animation %q has no trajectory", fractal.ErrConfiguration, a.Name)
	}
	if r.s.Increments <= 0 {
		return fmt.Errorf("%w: increments %d must be positive", fractal.ErrNumericDomain, r.s.Increments)
	}
	if r.base.ColorAlgorithm == nil {
		return fmt.Errorf("%w: no color algorithm set", fractal.ErrConfiguration)
	}
	if a.Accepts != nil && !a.Accepts(r.base.ColorAlgorithm) {
		return fmt.Errorf("%w: animation %q cannot use color algorithm %q",
			fractal.ErrConfiguration, a.Name, r.base.ColorAlgorithm.Name())
	}
	if r.s.Writer == nil || r.s.Exporter == nil || r.s.Output == "" {
		return fmt.Errorf("%w: writer, exporter and output are required", fractal.ErrConfiguration)
	}

	r.base.BypassImageGeneration = false
	if a.Variant != "" {
		r.base.Variant = a.Variant
		r.base.Viewport = fractal.NewViewport(render.DefaultRegion(a.Variant), r.base.Width(), r.base.Height())
	}
	if _, err := render.Lookup(r.base.Variant); err != nil {
		return err
	}
	if err := r.base.Validate(); err != nil {
		return err
	}
	r.track = Track{Base: r.base, N: r.s.Increments}
	return nil
}

func (r *run) probe() error {
	ps := r.s.Animation.Probe
	if ps == nil {
		return nil
	}

	cfg := r.base
	cfg.Variant = ps.Variant
	cfg.Viewport = fractal.NewViewport(render.DefaultRegion(ps.Variant), r.base.Width(), r.base.Height())
	cfg.BypassImageGeneration = true

	log.Printf("generating %s set", ps.Variant)
	e, err := render.New(cfg, nil)
	if err != nil {
		return err
	}
	arr, _, err := e.Render()
	if err != nil {
		return err
	}

	limit := r.s.MaxProbeAttempts
	if limit == 0 {
		limit = DefaultMaxProbeAttempts
	}
	log.Printf("searching for starting point")
	i, j, err := Probe(r.ctx, arr, cfg.Precision, ps.Band, r.rng, limit)
	if err != nil {
		return err
	}
	start := cfg.Viewport.Point(i, j)
	log.Printf("the %s value is %v at %v", ps.Variant, arr.At(i, j), start)

	r.res.Start = start
	r.track.Start = start
	r.track.Base.Constant = start
	if r.s.Animation.Walk {
		r.track.Walk = randomWalk(r.rng, start, r.s.Increments, r.base.Viewport)
	}
	return nil
}

// randomWalk takes n-1 gaussian steps from start, each about one pixel of vp wide.
func randomWalk(rng *rand.Rand, start complex128, n int, vp fractal.Viewport) []complex128 {
	sigma := (vp.RightX - vp.LeftX) / float64(vp.Width)
	walk := make([]complex128, n)
	walk[0] = start
	for k := 1; k < n; k++ {
		walk[k] = walk[k-1] + complex(rng.NormFloat64()*sigma, rng.NormFloat64()*sigma)
	}
	return walk
}

func (r *run) generate() error {
	a := r.s.Animation
	n := r.s.Increments
	dirs := []Direction{Forward}
	if a.Backward {
		dirs = append(dirs, Backward)
	}
	total := n * len(dirs)

	var arr *fractal.Array
	if a.Recolor {
		cfg := r.base
		cfg.BypassImageGeneration = true
		e, err := render.New(cfg, nil)
		if err != nil {
			return err
		}
		arr = e.Compute()
	}

	log.Printf("creating %d fractal images", total)
	step := 0
	for _, dir := range dirs {
		for k := 0; k < n; k++ {
			cfg := a.Trajectory(r.track, k, dir)
			cfg.Filename = fmt.Sprintf("%s_%d_%s", r.base.Filename, k, dir)

			art, err := r.frame(cfg, arr)
			if err != nil {
				return fmt.Errorf("frame %d %s: %w", k, dir, err)
			}
			r.res.Frames = append(r.res.Frames, art)
			step++
			r.s.report(step, total)
		}
	}
	return nil
}

// frame renders cfg, or only re-colours arr when the animation keeps the array fixed.
func (r *run) frame(cfg fractal.Config, arr *fractal.Array) (fractal.Artifact, error) {
	if arr == nil {
		e, err := render.New(cfg, r.s.Writer)
		if err != nil {
			return fractal.Artifact{}, err
		}
		_, art, err := e.Render()
		if err != nil {
			return fractal.Artifact{}, err
		}
		return *art, nil
	}

	img, err := render.Repaint(arr, cfg)
	if err != nil {
		return fractal.Artifact{}, err
	}
	path, err := r.s.Writer.WriteFrame(cfg.Directory, cfg.Filename, img)
	if err != nil {
		return fractal.Artifact{}, fmt.Errorf("write %q: %w", cfg.Filename, err)
	}
	return fractal.Artifact{Path: path, Image: img}, nil
}

func (r *run) assemble() error {
	images := make([]image.Image, 0, 2*len(r.res.Frames))
	for _, art := range r.res.Frames {
		if art.Image != nil {
			images = append(images, art.Image)
			continue
		}
		if r.s.Reader == nil {
			return fmt.Errorf("%w: frame %q has no pixels and no reader is set", fractal.ErrConfiguration, art.Path)
		}
		img, err := r.s.Reader.ReadFrame(art.Path)
		if err != nil {
			return err
		}
		images = append(images, img)
	}
	if r.s.Animation.Mirror {
		for i := len(images) - 1; i >= 0; i-- {
			images = append(images, images[i])
		}
	}
	r.res.Images = images
	return nil
}

func (r *run) export() error {
	log.Printf("writing %d frames to %q", len(r.res.Images), r.s.Output)
	if err := r.s.Exporter.Export(r.s.Output, r.res.Images); err != nil {
		return err
	}
	r.res.Output = r.s.Output
	return nil
}
