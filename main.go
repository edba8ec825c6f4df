package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rook-computer/doorcam/internal/app"
	"github.com/rook-computer/doorcam/internal/buttons"
	"github.com/rook-computer/doorcam/internal/config"
	"github.com/rook-computer/doorcam/internal/driver"
	"github.com/rook-computer/doorcam/internal/render"
	"github.com/rook-computer/doorcam/internal/scene"
	"github.com/rook-computer/doorcam/internal/state"
	"github.com/rook-computer/doorcam/internal/system"
	"github.com/rook-computer/doorcam/internal/web"
)

const defaultConfigPath = "doorcam.yaml"

func main() {
	fmt.Println("Door cam starting")

	configPath := flag.String("config", defaultConfigPath, "YAML config file")
	debug := flag.Bool("debug", false, "enable debug logging (log.file in the config)")
	stdioLog := flag.String("stdio-log", "", "redirect stdout+stderr (including panics) to this file; also configurable via "+config.EnvStdioLog)
	flag.Parse()

	// The default path may be absent; an explicit one must exist.
	cfg, err := config.Load(*configPath, ":80", *configPath == defaultConfigPath)
	if err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}
	if *stdioLog != "" {
		cfg.Log.Stdio = *stdioLog
	}
	if *debug {
		cfg.Log.Debug = true
	}

	// Best-effort: keep panic stack traces even when the console is in graphics mode.
	if cfg.Log.Stdio != "" {
		if err := redirectStdIO(cfg.Log.Stdio); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}

	var logger app.Logger = app.NoopLogger{}
	if cfg.Log.Debug {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			defer f.Close()
			logger = app.NewFileLogger(f)
			logger.Infof("main", "debug logging enabled")
		} else {
			fmt.Println("debug log open error:", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := driver.NewTickerScheduler(scene.FrameRate)
	if cfg.Log.Debug {
		scheduler.Logger = logger
	}
	pipeline := app.NewPipeline(cfg, scheduler, logger)

	presenter := render.NewFBPresenter(pipeline.Canvas.Image(), cfg.Display.Framebuffer)
	presenter.Logger = logger
	presenter.Debug = cfg.Log.Debug

	server := web.NewHTTPServer(web.ServerConfigFrom(cfg.Web), pipeline.WebDeps())
	server.Logger = logger

	if ip, err := system.LocalIPv4(); err == nil {
		pipeline.Store.UpdateNetwork(state.NetworkInfo{IP: ip, URL: system.ServerURL(ip, cfg.Web.Listen)})
		fmt.Println("Control page:", system.ServerURL(ip, cfg.Web.Listen))
	} else {
		logger.Errorf("main", "local address lookup failed: %v", err)
	}

	a := app.New(pipeline, scheduler, presenter, server, buttons.NewKeyboardButtons(logger))
	a.Logger = logger
	a.ConsoleGraphics = true

	if err := a.Start(ctx); err != nil && err != context.Canceled {
		fmt.Println("app error:", err)
		os.Exit(1)
	}
}
