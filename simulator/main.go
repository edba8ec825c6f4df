package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/rook-computer/doorcam/internal/app"
	"github.com/rook-computer/doorcam/internal/config"
	"github.com/rook-computer/doorcam/internal/driver"
	"github.com/rook-computer/doorcam/internal/scene"
	"github.com/rook-computer/doorcam/internal/web"
)

// window hosts the animation: ebiten's Update is the tick source and Draw
// shows the canvas.
type window struct {
	ctx      context.Context
	queue    *driver.FrameQueue
	pipeline *app.Pipeline
	logger   app.Logger

	// dirty is set by the driver after each rendered frame; Update and Draw
	// share ebiten's goroutine.
	dirty bool
}

func (w *window) Update() error {
	select {
	case <-w.ctx.Done():
		return ebiten.Termination
	default:
	}

	control := w.pipeline.Control
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		if _, err := control.StartRecording(); err != nil {
			w.logger.Errorf("sim", "record: %v", err)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		if _, _, err := control.StopRecording(); err != nil {
			w.logger.Errorf("sim", "stop: %v", err)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyF4), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	}

	w.queue.RunPending()
	return nil
}

func (w *window) Draw(screen *ebiten.Image) {
	if !w.dirty {
		return
	}
	screen.WritePixels(w.pipeline.Canvas.Image().Pix)
	w.dirty = false
}

func (w *window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.pipeline.Canvas.Size()
}

func main() {
	configPath := flag.String("config", "", "YAML config file (optional)")
	debug := flag.Bool("debug", false, "log to stdout")
	flag.Parse()

	cfg, err := config.Load(*configPath, ":8080", false)
	if err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}

	var logger app.Logger = app.NoopLogger{}
	if *debug || cfg.Log.Debug {
		logger = app.NewFileLogger(os.Stdout)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queue := &driver.FrameQueue{}
	pipeline := app.NewPipeline(cfg, queue, logger)
	defer pipeline.Close()

	server := web.NewHTTPServer(web.ServerConfigFrom(cfg.Web), pipeline.WebDeps())
	server.Logger = logger
	if err := server.Start(ctx); err != nil {
		fmt.Println("server start error:", err)
		os.Exit(1)
	}
	defer server.Stop()

	if err := pipeline.Mount(); err != nil {
		fmt.Println("mount error:", err)
	}

	fmt.Println("Door cam simulator, control page on", server.ListenAddr())
	fmt.Println("Keys: R record, S stop, F4/Esc quit")

	w, h := pipeline.Canvas.Size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Door Cam 1")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(scene.FrameRate)
	ebiten.SetScreenClearedEveryFrame(false)

	win := &window{ctx: ctx, queue: queue, pipeline: pipeline, logger: logger, dirty: true}
	pipeline.Driver.Observe(driver.FrameObserverFunc(func(int) { win.dirty = true }))
	if err := ebiten.RunGame(win); err != nil && !errors.Is(err, ebiten.Termination) {
		fmt.Println("simulator error:", err)
		os.Exit(1)
	}
}
