// Package lcd drives the board display through a hal.Framebuffer.
package lcd

import (
	"image/color"

	"chronos/hal"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

const (
	// LineWidth and LineHeight size the strip PrintLine clears before
	// drawing.
	LineWidth  = 220
	LineHeight = 10
)

var (
	Black = color.RGBA{A: 0xFF}
	White = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	Green = color.RGBA{G: 0xFF, A: 0xFF}
	Red   = color.RGBA{R: 0xFF, A: 0xFF}
)

// Gate pauses dispatch while a multi-step display update is in flight.
// *kernel.Kernel satisfies it.
type Gate interface {
	SuspendAll()
	ResumeAll() error
}

// Driver renders text lines on a framebuffer. It implements
// drivers.Displayer so tinyfont can draw into it.
type Driver struct {
	fb       hal.Framebuffer
	gate     Gate
	font     tinyfont.Fonter
	baseline int16
}

var _ drivers.Displayer = (*Driver)(nil)

// New returns a driver for fb. gate may be nil.
func New(fb hal.Framebuffer, gate Gate) *Driver {
	return &Driver{
		fb:       fb,
		gate:     gate,
		font:     &tinyfont.Org01,
		baseline: 7,
	}
}

func (d *Driver) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *Driver) SetPixel(x, y int16, c color.RGBA) {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	ix, iy := int(x), int(y)
	if ix < 0 || iy < 0 || ix >= d.fb.Width() || iy >= d.fb.Height() {
		return
	}
	buf := d.fb.Buffer()
	off := iy*d.fb.StrideBytes() + ix*2
	if off+1 >= len(buf) {
		return
	}
	p := hal.RGB565(c)
	buf[off] = byte(p)
	buf[off+1] = byte(p >> 8)
}

func (d *Driver) Display() error {
	if d.fb == nil {
		return nil
	}
	return d.fb.Present()
}

// Clear fills the whole screen with c.
func (d *Driver) Clear(c color.RGBA) error {
	if d.fb == nil {
		return nil
	}
	d.fb.ClearRGB(c.R, c.G, c.B)
	return d.fb.Present()
}

// FillRectangle paints a clipped rectangle.
func (d *Driver) FillRectangle(x, y, width, height int16, c color.RGBA) {
	for j := int16(0); j < height; j++ {
		for i := int16(0); i < width; i++ {
			d.SetPixel(x+i, y+j, c)
		}
	}
}

// DrawText draws s with its top edge at y. It does not clear or present.
func (d *Driver) DrawText(x, y int16, s string, c color.RGBA) {
	tinyfont.WriteLine(d, d.font, x, y+d.baseline, s, c)
}

// CharWidth returns the advance of one character cell.
func (d *Driver) CharWidth() int16 {
	_, outbox := tinyfont.LineWidth(d.font, "0")
	if outbox == 0 {
		return 1
	}
	return int16(outbox)
}

// PrintLine blanks the LineWidth x LineHeight strip at (x, y) and draws msg
// into it. The update runs with the gate raised so no other thread starts
// while the strip is half drawn.
func (d *Driver) PrintLine(x, y int16, msg string, c color.RGBA) (err error) {
	if d.gate != nil {
		d.gate.SuspendAll()
		defer func() {
			if rerr := d.gate.ResumeAll(); err == nil {
				err = rerr
			}
		}()
	}

	d.FillRectangle(x, y, LineWidth, LineHeight, Black)
	d.DrawText(x, y, msg, c)
	return d.Display()
}
