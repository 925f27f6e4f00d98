package app

import (
	"chronos/internal/buildinfo"
	"chronos/services/lcd"
)

func (a *App) bootScreen() {
	if err := a.lcd.Clear(lcd.Black); err != nil {
		a.log.WithError(err).Warn("[app] lcd clear failed")
		return
	}
	title := "chronos " + buildinfo.Short()
	if err := a.lcd.PrintLine(timeX, titleY, title, lcd.White); err != nil {
		a.log.WithError(err).Warn("[app] lcd title failed")
	}
}
