package hal

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

type lineLog struct {
	lines []string
}

func (l *lineLog) WriteLineString(s string) { l.lines = append(l.lines, s) }
func (l *lineLog) WriteLineBytes(b []byte)  { l.lines = append(l.lines, string(b)) }

func TestLineWriterSplitsLines(t *testing.T) {
	var l lineLog
	w := &LineWriter{Logger: &l}

	n, err := w.Write([]byte("one\ntw"))
	assert.NoError(t, err)
	assert.Equal(t, 6, n)
	_, _ = w.Write([]byte("o\nthree\n"))

	assert.Equal(t, []string{"one", "two", "three"}, l.lines)
}

func TestLineWriterWithoutLogger(t *testing.T) {
	w := &LineWriter{}
	n, err := w.Write([]byte("dropped\n"))
	assert.NoError(t, err)
	assert.Equal(t, 8, n)
}

func TestMemFramebufferRoundTrip(t *testing.T) {
	fb := NewMemFramebuffer(4, 3)
	assert.Equal(t, 8, fb.StrideBytes())
	fb.ClearRGB(0xFF, 0x00, 0x00)

	assert.Equal(t, color.RGBA{R: 0xFF, A: 0xFF}, PixelAt(fb, 3, 2))
	assert.Equal(t, color.RGBA{}, PixelAt(fb, 4, 0))
	assert.Equal(t, uint16(0xF800), RGB565(color.RGBA{R: 0xFF}))
}
