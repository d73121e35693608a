package preview

import (
	"image"
	"image/color"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func TestDrawFillsScreen(t *testing.T) {
	screen := newScreen(t, 20, 8)
	img := image.NewRGBA(image.Rect(0, 0, 100, 60))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+3] = 255, 255
	}

	Draw(screen, img)
	for y := 0; y < 8; y++ {
		for x := 0; x < 20; x++ {
			if r, _, _, _ := screen.GetContent(x, y); r != halfBlock {
				t.Fatalf("cell (%d,%d) = %q, want half block", x, y, r)
			}
		}
	}
}

func TestShowReturnsOnKey(t *testing.T) {
	screen := newScreen(t, 10, 4)
	img := image.NewUniform(color.White)

	screen.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	done := make(chan struct{})
	go func() {
		Show(screen, img)
		close(done)
	}()
	<-done
}
