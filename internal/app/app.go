package app

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rook-computer/doorcam/internal/buttons"
	"github.com/rook-computer/doorcam/internal/driver"
	"github.com/rook-computer/doorcam/internal/render"
	"github.com/rook-computer/doorcam/internal/system"
	"github.com/rook-computer/doorcam/internal/web"
)

// Presenter shows rendered frames on a display.
type Presenter interface {
	Start() error
	Stop() error
	driver.FrameObserver
}

// WebServer is the control surface lifecycle; *web.HTTPServer satisfies it.
type WebServer interface {
	Start(ctx context.Context) error
	Stop() error
}

type noWebServer struct{}

func (noWebServer) Start(context.Context) error { return nil }
func (noWebServer) Stop() error                 { return nil }

// App runs the door cam on the device: ticker-driven animation, framebuffer
// presenter, web control surface and hardware keys.
type App struct {
	Pipeline  *Pipeline
	Scheduler *driver.TickerScheduler
	Presenter Presenter
	Web       WebServer
	Buttons   buttons.Buttons
	Logger    Logger

	// ConsoleGraphics toggles KD_GRAPHICS on the active VT while running.
	ConsoleGraphics bool

	exitOnce atomic.Bool
	exitCh   chan error
}

func New(pipeline *Pipeline, scheduler *driver.TickerScheduler, presenter Presenter, webServer WebServer, buttonDriver buttons.Buttons) *App {
	return &App{
		Pipeline:  pipeline,
		Scheduler: scheduler,
		Presenter: presenter,
		Web:       webServer,
		Buttons:   buttonDriver,
		Logger:    NoopLogger{},
		exitCh:    make(chan error, 1),
	}
}

// Exit requests the app to stop running.
func (app *App) Exit(err error) {
	if app.exitCh == nil {
		return
	}
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

func (app *App) Start(ctx context.Context) error {
	if app.exitCh == nil {
		app.exitCh = make(chan error, 1)
	}
	app.exitOnce.Store(false)
	if app.Logger == nil {
		app.Logger = NoopLogger{}
	}
	if app.Buttons == nil {
		app.Buttons = buttons.NewNoopButtons()
	}
	if app.Web == nil {
		app.Web = noWebServer{}
	}

	if app.Presenter != nil {
		if err := app.Presenter.Start(); err != nil {
			app.Logger.Errorf("app", "presenter start error: %v", err)
			return err
		}
		defer app.Presenter.Stop()
		app.Pipeline.Driver.Observe(app.Presenter)
	}

	if app.ConsoleGraphics {
		if err := system.SetGraphicsModeWithLog(app.Logger); err != nil {
			app.Logger.Errorf("tty", "set graphics mode failed: %v", err)
		}
		_ = system.HideCursorWithLog(app.Logger)
		defer func() { _ = system.ShowCursorWithLog(app.Logger); _ = system.RestoreTextModeWithLog(app.Logger) }()
	}

	// A missing surface leaves the driver idle; the web UI keeps working.
	_ = app.Pipeline.Mount()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := app.Web.Start(runCtx); err != nil {
		app.Logger.Errorf("app", "web server start error: %v", err)
		app.Pipeline.Store.Fail(err)
	}
	defer app.Web.Stop()

	if err := app.Buttons.Start(runCtx); err != nil {
		app.Logger.Errorf("app", "buttons start error: %v", err)
	}
	defer app.Buttons.Stop()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		app.Scheduler.Run(runCtx)
	}()
	go func() {
		defer wg.Done()
		app.handleButtons(runCtx)
	}()

	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case err = <-app.exitCh:
	}
	cancel()
	wg.Wait()
	app.Pipeline.Close()
	return err
}

func (app *App) handleButtons(ctx context.Context) {
	events := app.Buttons.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			app.HandleEvent(ev)
		}
	}
}

// HandleEvent maps a button press onto the recording controls.
func (app *App) HandleEvent(ev buttons.Event) {
	control := app.Pipeline.Control
	switch ev {
	case buttons.Record:
		if _, err := control.StartRecording(); err != nil {
			app.Logger.Errorf("buttons", "record: %v", err)
		}
	case buttons.Stop:
		if _, _, err := control.StopRecording(); err != nil {
			app.Logger.Errorf("buttons", "stop: %v", err)
		}
	case buttons.Exit:
		app.Logger.Infof("buttons", "exit requested")
		app.Exit(nil)
	}
}

var (
	_ Presenter = (*render.FBPresenter)(nil)
	_ WebServer = (*web.HTTPServer)(nil)
)
