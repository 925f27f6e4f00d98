package lcd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chronos/hal"
)

type fakeGate struct {
	depth    int
	maxDepth int
	events   []string
	err      error
}

func (g *fakeGate) SuspendAll() {
	g.depth++
	if g.depth > g.maxDepth {
		g.maxDepth = g.depth
	}
	g.events = append(g.events, "suspend")
}

func (g *fakeGate) ResumeAll() error {
	g.depth--
	g.events = append(g.events, "resume")
	return g.err
}

type countingFB struct {
	*hal.MemFramebuffer
	gate     *fakeGate
	presents int
	heldOK   bool
}

func (f *countingFB) Present() error {
	f.presents++
	f.heldOK = f.gate.depth > 0
	return nil
}

// litPixels counts non-black pixels in the strip at (x, y).
func litPixels(fb hal.Framebuffer, x, y int) int {
	n := 0
	for j := 0; j < LineHeight; j++ {
		for i := 0; i < LineWidth; i++ {
			if hal.PixelAt(fb, x+i, y+j) != Black {
				n++
			}
		}
	}
	return n
}

func TestPrintLineBracketsWithGate(t *testing.T) {
	g := &fakeGate{}
	fb := &countingFB{MemFramebuffer: hal.NewMemFramebuffer(240, 320), gate: g}
	d := New(fb, g)

	require.NoError(t, d.PrintLine(10, 10, "Time: 16:00:01", White))

	assert.Equal(t, []string{"suspend", "resume"}, g.events)
	assert.Equal(t, 0, g.depth)
	assert.Equal(t, 1, fb.presents)
	assert.True(t, fb.heldOK, "present should happen with the gate raised")

	assert.Greater(t, litPixels(fb, 10, 10), 0)
}

func TestPrintLineClearsStrip(t *testing.T) {
	fb := hal.NewMemFramebuffer(240, 320)
	fb.ClearRGB(0xFF, 0xFF, 0xFF)
	d := New(fb, nil)

	require.NoError(t, d.PrintLine(0, 20, "", White))

	assert.Zero(t, litPixels(fb, 0, 20))
	assert.Equal(t, White, hal.PixelAt(fb, 0, 19))
	assert.Equal(t, White, hal.PixelAt(fb, LineWidth, 20))
	assert.Equal(t, White, hal.PixelAt(fb, 0, 20+LineHeight))
}

func TestPrintLineRedrawReplacesText(t *testing.T) {
	fb := hal.NewMemFramebuffer(240, 320)
	d := New(fb, nil)

	require.NoError(t, d.PrintLine(10, 10, "Time: 16:00:08", Green))
	first := append([]byte(nil), fb.Buffer()...)
	require.NoError(t, d.PrintLine(10, 10, "Time: 16:00:01", Green))
	assert.NotEqual(t, first, fb.Buffer())

	require.NoError(t, d.PrintLine(10, 10, "Time: 16:00:08", Green))
	assert.Equal(t, first, fb.Buffer())
}

func TestPrintLineReportsResumeError(t *testing.T) {
	g := &fakeGate{err: errors.New("unbalanced")}
	d := New(hal.NewMemFramebuffer(240, 320), g)
	assert.EqualError(t, d.PrintLine(0, 0, "x", White), "unbalanced")
}

func TestSetPixelClips(t *testing.T) {
	fb := hal.NewMemFramebuffer(4, 4)
	d := New(fb, nil)
	d.SetPixel(-1, 0, White)
	d.SetPixel(0, 4, White)
	d.SetPixel(3, 3, Red)

	x, y := d.Size()
	assert.Equal(t, int16(4), x)
	assert.Equal(t, int16(4), y)
	assert.Equal(t, Red, hal.PixelAt(fb, 3, 3))
	assert.Equal(t, Black, hal.PixelAt(fb, 0, 0))
}

func TestNilFramebuffer(t *testing.T) {
	d := New(nil, nil)
	x, y := d.Size()
	assert.Zero(t, x)
	assert.Zero(t, y)
	assert.NoError(t, d.PrintLine(0, 0, "x", White))
	assert.NoError(t, d.Clear(White))
}
