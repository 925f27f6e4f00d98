//go:build tinygo && baremetal

package main

import (
	"chronos/app"
	"chronos/hal"
	"chronos/internal/config"
)

func main() {
	h := hal.New()
	a, err := app.New(h, config.Default())
	if err != nil {
		h.Logger().WriteLineString("chronos: " + err.Error())
		select {}
	}
	if err := a.Run(); err != nil {
		h.Logger().WriteLineString("chronos: " + err.Error())
	}
	select {}
}
