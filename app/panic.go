package app

import (
	"fmt"
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"

	"chronos/kernel"
	"chronos/services/lcd"
)

// onPanic reports a thread that died. The offending thread is already
// terminated; the rest keep running, so the screen shows the report until
// the next display update overwrites its first lines.
func (a *App) onPanic(info kernel.PanicInfo) {
	entry := a.log.WithFields(log.Fields{
		"thread": int(info.Handle),
		"name":   info.Name,
	})
	entry.Errorf("[app] panic: %v", info.Value)
	for _, line := range stackLines(info.Stack) {
		entry.Debug(line)
	}

	if a.h.Display() == nil || a.h.Display().Framebuffer() == nil {
		return
	}
	fb := a.h.Display().Framebuffer()
	d := lcd.New(fb, nil)

	fb.ClearRGB(0xFF, 0xFF, 0xFF)

	lines := []string{
		"PANIC",
		fmt.Sprintf("thread: %d %s", info.Handle, info.Name),
		fmt.Sprintf("panic: %v", info.Value),
	}
	if stack := stackLines(info.Stack); len(stack) > 0 {
		lines = append(lines, "stack:")
		lines = append(lines, stack...)
	} else {
		lines = append(lines, "stack: unavailable")
	}

	cols := int16(fb.Width()) / d.CharWidth()
	if cols <= 0 {
		cols = 1
	}
	y, maxY := int16(0), int16(fb.Height())
draw:
	for _, line := range lines {
		for len(line) > 0 {
			if y+lcd.LineHeight > maxY {
				break draw
			}
			chunk, rest := takeRunes(line, cols)
			d.DrawText(0, y, chunk, lcd.Black)
			y += lcd.LineHeight
			line = strings.TrimLeft(rest, " ")
		}
	}

	if err := fb.Present(); err != nil {
		a.log.WithError(err).Warn("[app] panic screen present failed")
	}
}

func stackLines(stack []byte) []string {
	var out []string
	for _, line := range strings.Split(string(stack), "\n") {
		if line = strings.TrimRight(line, " \t"); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// takeRunes splits s after at most n runes.
func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	var i int
	for count := int16(0); i < len(s) && count < n; count++ {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return s[:i], s[i:]
}
