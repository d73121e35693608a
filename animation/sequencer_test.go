package animation

import (
	"context"
	"errors"
	"image"
	"math/rand"
	"path"
	"testing"
	"time"

	fractal "github.com/marben/fractal_gif"
	"github.com/marben/fractal_gif/colors"
)

type memWriter struct {
	names []string
	fail  error
}

func (m *memWriter) WriteFrame(dir, name string, img image.Image) (string, error) {
	if m.fail != nil {
		return "", m.fail
	}
	m.names = append(m.names, name)
	return path.Join(dir, name+".png"), nil
}

type memReader map[string]image.Image

func (m memReader) ReadFrame(p string) (image.Image, error) {
	img, ok := m[p]
	if !ok {
		return nil, errors.New("missing " + p)
	}
	return img, nil
}

type recExporter struct {
	path   string
	frames []image.Image
	calls  int
}

func (r *recExporter) Export(p string, frames []image.Image) error {
	r.calls++
	r.path, r.frames = p, frames
	return nil
}

func baseConfig(alg fractal.ColorAlgorithm) fractal.Config {
	cfg := fractal.DefaultConfig()
	cfg.Viewport = fractal.NewViewport(fractal.DefaultRegion, 40, 30)
	cfg.Precision = 20
	cfg.Directory, cfg.Filename = "out", "anim"
	cfg.SetColorAlgorithm(alg)
	return cfg
}

func newSequencer(t *testing.T, name string, n int) (*Sequencer, *memWriter, *recExporter) {
	t.Helper()
	a, err := Lookup(name)
	if err != nil {
		t.Fatal(err)
	}
	w, x := &memWriter{}, &recExporter{}
	return &Sequencer{
		Animation:  a,
		Increments: n,
		Writer:     w,
		Exporter:   x,
		Output:     "anim.gif",
		Rand:       rand.New(rand.NewSource(1)),
	}, w, x
}

func TestRandomJuliaFrameCount(t *testing.T) {
	s, w, x := newSequencer(t, "random_julia", 5)
	var phases []Phase
	s.OnPhase = func(p Phase) { phases = append(phases, p) }

	res, err := s.Run(context.Background(), baseConfig(colors.Simple{}))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Frames) != 5 {
		t.Errorf("frames = %d, want 5", len(res.Frames))
	}
	if len(res.Images) != 10 || len(x.frames) != 10 {
		t.Errorf("exported %d frames, want 10 (mirrored)", len(x.frames))
	}
	if res.Images[0] != res.Images[9] || res.Images[4] != res.Images[5] {
		t.Error("mirrored half is not the reverse of the forward half")
	}
	if x.path != "anim.gif" || res.Output != "anim.gif" || x.calls != 1 {
		t.Errorf("export path = %q, calls %d", x.path, x.calls)
	}
	if w.names[0] != "anim_0_forward" || w.names[4] != "anim_4_forward" {
		t.Errorf("frame names = %v", w.names)
	}
	want := []Phase{PhaseInit, PhaseProbe, PhaseGenerate, PhaseAssemble, PhaseExport, PhaseDone}
	if len(phases) != len(want) {
		t.Fatalf("phases = %v", phases)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Errorf("phase %d = %v, want %v", i, phases[i], want[i])
		}
	}
}

func TestBackwardPassDoublesFrames(t *testing.T) {
	s, w, x := newSequencer(t, "random_cubic_julia", 4)
	// widen the band so the coarse test grid always has candidates
	s.Animation.Probe = &ProbeSpec{Variant: "cubic_mandelbrot", Band: Band{Low: 0.1, High: 1}}

	res, err := s.Run(context.Background(), baseConfig(colors.Simple{}))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Frames) != 8 || len(x.frames) != 8 {
		t.Errorf("frames = %d, exported %d, want 8", len(res.Frames), len(x.frames))
	}
	if w.names[4] != "anim_0_backward" {
		t.Errorf("first backward frame = %q", w.names[4])
	}
}

func TestProbeStartIsReproducible(t *testing.T) {
	starts := make([]complex128, 2)
	for k := range starts {
		s, _, _ := newSequencer(t, "random_phoenix_julia", 2)
		res, err := s.Run(context.Background(), baseConfig(colors.Simple{}))
		if err != nil {
			t.Fatal(err)
		}
		starts[k] = res.Start
	}
	if starts[0] != starts[1] {
		t.Errorf("same seed, different starts: %v vs %v", starts[0], starts[1])
	}
}

func TestUnsatisfiableProbeNeverTerminates(t *testing.T) {
	s, w, x := newSequencer(t, "random_julia", 10)
	s.MaxProbeAttempts = -1
	cfg := baseConfig(colors.Simple{})
	cfg.Precision = 1 // values are 0 or 1, none in [0.8, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err := s.Run(ctx, cfg)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want the probe to still be running at the deadline", err)
	}
	if len(w.names) != 0 || x.calls != 0 {
		t.Error("frames rendered despite failed probe")
	}
}

func TestUnsatisfiableProbeBounded(t *testing.T) {
	s, _, _ := newSequencer(t, "random_julia", 10)
	s.MaxProbeAttempts = 500
	cfg := baseConfig(colors.Simple{})
	cfg.Precision = 1

	if _, err := s.Run(context.Background(), cfg); !errors.Is(err, fractal.ErrProbeExhausted) {
		t.Errorf("err = %v, want ErrProbeExhausted", err)
	}
}

func TestHueAnimationRejectsIncompatibleColor(t *testing.T) {
	tests := []struct {
		anim string
		alg  fractal.ColorAlgorithm
	}{
		{"first_hue_rotation", colors.Simple{}},
		{"second_hue_rotation", colors.HueCyclic{ColorStepShift: 10, ColorCount: 5}},
		{"hue_cycle", colors.HueRange{EndDegree: 100}},
	}
	for _, tt := range tests {
		s, w, _ := newSequencer(t, tt.anim, 3)
		_, err := s.Run(context.Background(), baseConfig(tt.alg))
		if !errors.Is(err, fractal.ErrConfiguration) {
			t.Errorf("%s: err = %v, want ErrConfiguration", tt.anim, err)
		}
		if len(w.names) != 0 {
			t.Errorf("%s: rendered before rejecting", tt.anim)
		}
	}
}

func TestHueRotationRecolors(t *testing.T) {
	s, _, x := newSequencer(t, "first_hue_rotation", 4)
	res, err := s.Run(context.Background(), baseConfig(colors.HueRange{StartDegree: 0, EndDegree: 120}))
	if err != nil {
		t.Fatal(err)
	}
	if len(x.frames) != 4 {
		t.Fatalf("frames = %d, want 4", len(x.frames))
	}
	if res.Start != 0 {
		t.Errorf("hue rotation probed a start %v", res.Start)
	}
	a, b := res.Frames[0].Image, res.Frames[1].Image
	if string(a.Pix) == string(b.Pix) {
		t.Error("consecutive hue frames are identical")
	}
}

func TestHueCycleMirrorless(t *testing.T) {
	s, _, x := newSequencer(t, "hue_cycle", 3)
	if _, err := s.Run(context.Background(), baseConfig(colors.HueCyclic{ColorStepShift: 20, ColorCount: 6})); err != nil {
		t.Fatal(err)
	}
	if len(x.frames) != 3 {
		t.Errorf("frames = %d, want 3", len(x.frames))
	}
}

func TestZoomKeepsBaseVariant(t *testing.T) {
	s, _, x := newSequencer(t, "zoom", 3)
	cfg := baseConfig(colors.BlackAndWhite{})
	cfg.Variant = "burning_ship"
	if _, err := s.Run(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}
	if len(x.frames) != 6 {
		t.Errorf("frames = %d, want 6", len(x.frames))
	}
	if cfg.Variant != "burning_ship" || cfg.Filename != "anim" {
		t.Error("caller configuration was modified")
	}
}

func TestRenderFailureAborts(t *testing.T) {
	s, w, x := newSequencer(t, "zoom", 3)
	w.fail = errors.New("disk full")
	_, err := s.Run(context.Background(), baseConfig(colors.Simple{}))
	if !errors.Is(err, w.fail) {
		t.Fatalf("err = %v, want %v", err, w.fail)
	}
	if x.calls != 0 {
		t.Error("exported a partial animation")
	}
}

func TestRunRejectsBadSetup(t *testing.T) {
	s, _, _ := newSequencer(t, "zoom", 0)
	if _, err := s.Run(context.Background(), baseConfig(colors.Simple{})); !errors.Is(err, fractal.ErrNumericDomain) {
		t.Errorf("zero increments: err = %v", err)
	}

	s, _, _ = newSequencer(t, "zoom", 2)
	cfg := baseConfig(colors.Simple{})
	cfg.Variant = "koch"
	if _, err := s.Run(context.Background(), cfg); !errors.Is(err, fractal.ErrConfiguration) {
		t.Errorf("unknown variant: err = %v", err)
	}

	if _, err := Lookup("spin"); !errors.Is(err, fractal.ErrConfiguration) {
		t.Errorf("unknown animation: err = %v", err)
	}
}

func TestAssembleReadsBackDiskOnlyFrames(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	r := &run{
		s: &Sequencer{Animation: Animation{Mirror: true}, Reader: memReader{"out/a.png": img}},
		res: Result{Frames: []fractal.Artifact{
			{Path: "out/a.png"},
			{Path: "out/b.png", Image: image.NewRGBA(image.Rect(0, 0, 2, 2))},
		}},
	}
	if err := r.assemble(); err != nil {
		t.Fatal(err)
	}
	if len(r.res.Images) != 4 || r.res.Images[0] != img || r.res.Images[3] != img {
		t.Errorf("images = %v", r.res.Images)
	}
}
