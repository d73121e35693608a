// Package preview shows a rendered still in the terminal using half-block cells.
package preview

import (
	"fmt"
	"image"

	"github.com/gdamore/tcell/v2"
)

// halfBlock is drawn with the upper pixel as foreground and the lower as background,
// so every cell carries two image rows.
const halfBlock = '▀'

// Draw scales img onto the whole screen, nearest neighbour.
func Draw(screen tcell.Screen, img image.Image) {
	cols, rows := screen.Size()
	b := img.Bounds()
	if cols <= 0 || rows <= 0 || b.Empty() {
		return
	}

	sample := func(x, y int) tcell.Color {
		sx := b.Min.X + x*b.Dx()/cols
		sy := b.Min.Y + y*b.Dy()/(rows*2)
		r, g, bl, _ := img.At(sx, sy).RGBA()
		return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(bl>>8))
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			style := tcell.StyleDefault.Foreground(sample(x, 2*y)).Background(sample(x, 2*y+1))
			screen.SetContent(x, y, halfBlock, nil, style)
		}
	}
}

// Show displays img on screen until a key is pressed, redrawing on resize.
// The caller owns screen and must have initialised it.
func Show(screen tcell.Screen, img image.Image) {
	Draw(screen, img)
	screen.Show()
	for {
		switch screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
			Draw(screen, img)
			screen.Show()
		case *tcell.EventKey, nil:
			return
		}
	}
}

// Terminal opens the real terminal, shows img and restores the terminal afterwards.
func Terminal(img image.Image) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("tcell.NewScreen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("screen.Init: %w", err)
	}
	defer screen.Fini()

	Show(screen, img)
	return nil
}
