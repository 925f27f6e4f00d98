//go:build !tinygo && cgo

package hal

import (
	"image"
	"time"

	"chronos/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunWindow opens a desktop window showing the LCD framebuffer. The space
// bar is the user button. It blocks until the window closes.
func RunWindow(newApp func(HAL) (App, error)) error {
	h := New().(*hostHAL)
	app, err := newApp(h)
	if err != nil {
		return err
	}

	runErr := make(chan error, 1)
	go func() { runErr <- app.Run() }()

	g := &hostGame{h: h, runErr: runErr}
	ebiten.SetWindowTitle("chronos (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.fb.Width()*2, h.fb.Height()*2)
	ebiten.SetTPS(60)
	err = ebiten.RunGame(g)

	// The window is gone; keep ticking until the dispatcher returns.
	app.Stop()
	tk := time.NewTicker(time.Millisecond)
	defer tk.Stop()
	for {
		select {
		case rerr := <-runErr:
			if err != nil {
				return err
			}
			return rerr
		case now := <-tk.C:
			h.t.step(now)
		}
	}
}

type hostGame struct {
	h       *hostHAL
	runErr  chan error
	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
	shown   uint64
}

func (g *hostGame) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeySpace) {
		g.h.button.press()
	}
	g.h.t.step(time.Now())
	select {
	case err := <-g.runErr:
		// Put it back for RunWindow to collect.
		g.runErr <- err
		return ebiten.Termination
	default:
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	w, h := fb.Width(), fb.Height()
	if g.img == nil {
		g.img = image.NewRGBA(image.Rect(0, 0, w, h))
		g.scratch = make([]byte, len(fb.buf))
		g.fbImg = ebiten.NewImage(w, h)
	}

	if seq := fb.snapshotRGB565(g.scratch); seq != g.shown || g.shown == 0 {
		g.shown = seq
		src := g.scratch
		dst := g.img.Pix
		for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
			r, gg, b := rgb888From565(uint16(src[i]) | uint16(src[i+1])<<8)
			j := (i / 2) * 4
			dst[j+0] = r
			dst[j+1] = gg
			dst[j+2] = b
			dst[j+3] = 0xFF
		}
		g.fbImg.WritePixels(g.img.Pix)
	}
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.Width(), g.h.fb.Height()
}
