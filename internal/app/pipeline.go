package app

import (
	"image/color"
	"time"

	"github.com/rook-computer/doorcam/internal/capture"
	"github.com/rook-computer/doorcam/internal/config"
	"github.com/rook-computer/doorcam/internal/driver"
	"github.com/rook-computer/doorcam/internal/render"
	"github.com/rook-computer/doorcam/internal/render/raster"
	"github.com/rook-computer/doorcam/internal/state"
	"github.com/rook-computer/doorcam/internal/web"
)

// Pipeline is everything between the scheduler and the displays:
// canvas, driver, capture sidecar and the shared status store.
// Hosts supply the scheduler and add their presenters as frame observers.
type Pipeline struct {
	Canvas   *raster.Canvas
	Driver   *driver.Driver
	Recorder *capture.Recorder
	Control  *RecordingController
	Store    *state.Store
	MQTT     *capture.MQTTNotifier
	Logger   Logger
}

func NewPipeline(cfg config.Config, scheduler driver.Scheduler, logger Logger) *Pipeline {
	if logger == nil {
		logger = NoopLogger{}
	}
	p := &Pipeline{
		Canvas: raster.New(cfg.Canvas.Width, cfg.Canvas.Height),
		Store:  state.NewStore(),
		Logger: logger,
	}
	// presenters may copy the canvas before the first tick
	p.Canvas.Clear(color.Black)
	p.Driver = driver.New(render.NewSceneRenderer(nil), scheduler)

	p.Control = &RecordingController{Store: p.Store, Logger: logger}
	p.Control.Ready = func() bool { return p.Driver.State() == driver.Running }
	p.Recorder = capture.NewRecorder(p.Canvas.Image(), capture.Options{
		Window:  time.Duration(cfg.Capture.Seconds * float64(time.Second)),
		FPS:     cfg.Capture.FPS,
		Scale:   cfg.Capture.Scale,
		OnChunk: p.Control.chunkCaptured,
		OnDone:  p.Control.recordingDone,
	})
	p.Control.Recorder = p.Recorder
	p.Driver.Observe(p.Recorder)

	if cfg.MQTT.Enabled() {
		p.MQTT = capture.NewMQTTNotifier(capture.MQTTConfig{
			URL:      cfg.MQTT.URL,
			Username: cfg.MQTT.Username,
			Password: cfg.MQTT.Password,
			Topic:    cfg.MQTT.Topic,
		}, logger)
		p.Control.Notifier = p.MQTT
	}
	return p
}

// Mount starts the animation on the canvas. On failure the driver stays idle
// and the rest of the process keeps running.
func (p *Pipeline) Mount() error {
	if err := p.Driver.Mount(p.Canvas); err != nil {
		p.Logger.Errorf("driver", "mount failed: %v", err)
		return err
	}
	w, h := p.Canvas.Size()
	p.Logger.Infof("driver", "animation mounted on %dx%d canvas", w, h)
	if p.MQTT != nil {
		go func() {
			if err := p.MQTT.Connect(); err != nil {
				p.Logger.Errorf("mqtt", "%v", err)
			}
		}()
	}
	return nil
}

func (p *Pipeline) WebDeps() web.APIV1Deps {
	return web.APIV1Deps{Recorder: p.Control, Status: p.Store, Frames: p.Driver}
}

// Close stops the animation and waits for clips still being assembled.
func (p *Pipeline) Close() {
	p.Driver.Unmount()
	if _, err := p.Recorder.Stop(); err == nil {
		p.Logger.Infof("capture", "capture finished during shutdown")
	}
	p.Recorder.Wait()
	if p.MQTT != nil {
		p.MQTT.Close()
	}
}
