//go:build !tinygo

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"chronos/app"
	"chronos/hal"
	"chronos/internal/buildinfo"
	"chronos/internal/config"
)

func main() {
	var hcfg hal.HeadlessConfig
	var cfgPath string
	var version bool
	flag.BoolVar(&hcfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&hcfg.Hz, "hz", 250, "Runner loop rate in headless mode.")
	flag.Uint64Var(&hcfg.Ticks, "ticks", 0, "Stop after N kernel ticks in headless mode (0 = run forever).")
	flag.BoolVar(&hcfg.Button, "button", false, "Treat terminal key presses as the user button in headless mode.")
	flag.StringVar(&cfgPath, "config", "", "Starlark configuration file.")
	flag.BoolVar(&version, "version", false, "Print the build identifier and exit.")
	flag.Parse()

	if version {
		fmt.Println(buildinfo.Long())
		return
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	newApp := func(h hal.HAL) (hal.App, error) {
		return app.New(h, cfg)
	}

	if hcfg.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, newApp, hcfg); err != nil {
			if hal.IsCanceled(err) {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(newApp); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
