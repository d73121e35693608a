// fractal renders escape-time fractals to PNG and animates them into looping GIFs.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	fractal "github.com/marben/fractal_gif"
	"github.com/marben/fractal_gif/animation"
	"github.com/marben/fractal_gif/colors"
	"github.com/marben/fractal_gif/export"
	"github.com/marben/fractal_gif/preview"
	"github.com/marben/fractal_gif/progress"
	"github.com/marben/fractal_gif/render"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatalf("run: %v", err)
	}
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if opts.quiet {
		log.SetOutput(io.Discard)
	}

	cfg, err := opts.config()
	if err != nil {
		return err
	}

	var reporters progress.Multi
	if !opts.quiet {
		reporters = append(reporters, progress.NewBar(cfg.Filename, stderr))
	}
	if opts.progressAddr != "" {
		hub := progress.NewHub()
		srv := progress.Server(opts.progressAddr, cfg.Directory, hub)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("progress server: %v", err)
			}
		}()
		defer srv.Close()
		reporters = append(reporters, hub)
	}

	if opts.animation == "" {
		return still(cfg, opts, reporters)
	}
	return animate(ctx, cfg, opts, reporters)
}

func still(cfg fractal.Config, opts options, reporter fractal.Reporter) error {
	e, err := render.New(cfg, export.PNG{})
	if err != nil {
		return err
	}

	e.OnTileRender = tileProgress(cfg.Width()*cfg.Height(), reporter)

	log.Printf("rendering %s %dx%d, precision %d, colors %s",
		cfg.Variant, cfg.Width(), cfg.Height(), cfg.Precision, cfg.ColorAlgorithmName)
	_, art, err := e.Render()
	if err != nil {
		return err
	}
	log.Printf("saved %q", art.Path)

	if opts.preview {
		return preview.Terminal(art.Image)
	}
	return nil
}

// tileProgress reports rendered pixels out of total. Tiles come in whatever
// size the engine renders them, including a single whole-image tile.
func tileProgress(total int, reporter fractal.Reporter) func(fractal.Tile) {
	done := 0
	return func(t fractal.Tile) {
		done += t.W * t.H
		reporter.Report(min(done, total), total)
	}
}

func animate(ctx context.Context, cfg fractal.Config, opts options, reporter fractal.Reporter) error {
	a, err := animation.Lookup(opts.animation)
	if err != nil {
		return err
	}

	s := &animation.Sequencer{
		Animation:        a,
		Increments:       opts.increments,
		Writer:           export.PNG{},
		Reader:           export.PNG{},
		Exporter:         export.GIF{Delay: opts.delay, Scale: opts.scale},
		Progress:         reporter,
		Output:           filepath.Join(cfg.Directory, cfg.Filename+".gif"),
		Rand:             rand.New(rand.NewSource(opts.seed)),
		MaxProbeAttempts: opts.maxProbeAttempts,
		OnPhase:          func(p animation.Phase) { log.Printf("%s: %s", a.Name, p) },
	}
	res, err := s.Run(ctx, cfg)
	if err != nil {
		return err
	}
	log.Printf("saved %d frames to %q", len(res.Images), res.Output)
	return nil
}

type options struct {
	variant   string
	color     string
	region    string
	width     int
	height    int
	left      float64
	right     float64
	top       float64
	bot       float64
	realC     float64
	imagC     float64
	precision int

	hueStart, hueEnd, hueStep, colorCount int

	animation        string
	increments       int
	filename         string
	directory        string
	seed             int64
	samples          int
	delay            int
	scale            float64
	maxProbeAttempts int
	preview          bool
	progressAddr     string
	quiet            bool

	// set records the flags given explicitly.
	set map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	def := fractal.DefaultConfig()

	fs := flag.NewFlagSet("fractal", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.filename, "filename", def.Filename, "output name, without file extension")
	fs.StringVar(&o.directory, "directory", def.Directory, "directory for frames and animations")
	fs.StringVar(&o.variant, "fractal_algorithm", def.Variant, "fractal variant")
	fs.StringVar(&o.color, "color_algorithm", "simple", "simple, black_and_white, hue_range or hue_cyclic")
	fs.StringVar(&o.region, "region", "", "landmark viewport preset")
	fs.IntVar(&o.width, "width", def.Width(), "image width in pixels")
	fs.IntVar(&o.height, "height", def.Height(), "image height in pixels")
	fs.Float64Var(&o.left, "viewport_left", 0, "coordinate of left edge of view port")
	fs.Float64Var(&o.right, "viewport_right", 0, "coordinate of right edge of view port")
	fs.Float64Var(&o.top, "viewport_top", 0, "coordinate of top edge of view port")
	fs.Float64Var(&o.bot, "viewport_bottom", 0, "coordinate of bottom edge of view port")
	fs.Float64Var(&o.realC, "real_constant", real(def.Constant), "only useful for julia set based fractals")
	fs.Float64Var(&o.imagC, "imaginary_constant", imag(def.Constant), "only useful for julia set based fractals")
	fs.IntVar(&o.precision, "precision", def.Precision, "maximum iterations per pixel")
	fs.IntVar(&o.hueStart, "hue_start_degree", 0, "start of the hue range for hue_range and hue_cyclic")
	fs.IntVar(&o.hueEnd, "hue_end_degree", colors.DefaultEndDegree, "end of the hue range for hue_range")
	fs.IntVar(&o.hueStep, "hue_step_shift", colors.DefaultStepShift, "hue step in degrees for hue_cyclic")
	fs.IntVar(&o.colorCount, "color_count", colors.DefaultColorCount, "number of colors hue_cyclic cycles through")
	fs.StringVar(&o.animation, "fractal_animation", "", "animation to generate instead of a still")
	fs.IntVar(&o.increments, "increments", 40, "frames per animation pass")
	fs.Int64Var(&o.seed, "seed", time.Now().UnixNano(), "seed for probing, random walks and buddhabrot sampling")
	fs.IntVar(&o.samples, "samples", 0, "buddhabrot orbit seeds, 0 for width*height")
	fs.IntVar(&o.delay, "delay", export.DefaultDelay, "GIF frame delay in 100ths of a second")
	fs.Float64Var(&o.scale, "scale", 1, "GIF frame scale factor")
	fs.IntVar(&o.maxProbeAttempts, "max_probe_attempts", animation.DefaultMaxProbeAttempts, "probe attempt bound, negative for none")
	fs.BoolVar(&o.preview, "preview", false, "show a still in the terminal once rendered")
	fs.StringVar(&o.progressAddr, "progress_addr", "", "serve progress over websocket on this address, e.g. :8080")
	fs.BoolVar(&o.quiet, "quiet", false, "no logging or progress bar")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("%w: unexpected arguments %v", fractal.ErrConfiguration, fs.Args())
	}
	o.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o, nil
}

func (o options) intOpt(name string, v int) *int {
	if !o.set[name] {
		return nil
	}
	return &v
}

// config turns the flags into a validated render configuration.
func (o options) config() (fractal.Config, error) {
	cfg := fractal.DefaultConfig()
	cfg.Variant = o.variant
	if _, err := render.Lookup(cfg.Variant); err != nil {
		return cfg, err
	}

	region := render.DefaultRegion(cfg.Variant)
	if o.region != "" {
		r, ok := fractal.Regions[o.region]
		if !ok {
			return cfg, fmt.Errorf("%w: unknown region %q", fractal.ErrConfiguration, o.region)
		}
		region = r
	}
	if o.set["viewport_left"] {
		region.LeftX = o.left
	}
	if o.set["viewport_right"] {
		region.RightX = o.right
	}
	if o.set["viewport_top"] {
		region.TopY = o.top
	}
	if o.set["viewport_bottom"] {
		region.BottomY = o.bot
	}
	cfg.Viewport = fractal.NewViewport(region, o.width, o.height)
	cfg.Constant = complex(o.realC, o.imagC)
	cfg.Precision = o.precision
	cfg.Directory, cfg.Filename = o.directory, o.filename
	cfg.Seed, cfg.Samples = o.seed, o.samples

	alg, err := colors.New(o.color, colors.Options{
		StartDegree: o.intOpt("hue_start_degree", o.hueStart),
		EndDegree:   o.intOpt("hue_end_degree", o.hueEnd),
		StepShift:   o.intOpt("hue_step_shift", o.hueStep),
		ColorCount:  o.intOpt("color_count", o.colorCount),
	})
	if err != nil {
		return cfg, err
	}
	cfg.SetColorAlgorithm(alg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
