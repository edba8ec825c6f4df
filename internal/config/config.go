// Package config loads the door cam's YAML configuration and environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

const (
	EnvListenAddr = "DOORCAM_LISTEN"
	EnvDevMode    = "DOORCAM_DEV"
	EnvStdioLog   = "DOORCAM_STDIO_LOG"
	EnvMQTTURL    = "DOORCAM_MQTT_URL"
)

type CanvasConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// DisplayConfig has no tick rate: the animation always advances at
// scene.FrameRate ticks per second.
type DisplayConfig struct {
	Framebuffer string `yaml:"framebuffer"`
}

type WebConfig struct {
	Listen    string `yaml:"listen"`
	StaticDir string `yaml:"staticDir"`
	DevMode   bool   `yaml:"devMode"`
}

type CaptureConfig struct {
	Seconds float64 `yaml:"seconds"`
	FPS     int     `yaml:"fps"`
	Scale   float64 `yaml:"scale"`
}

type MQTTConfig struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Topic    string `yaml:"topic"`
}

func (m MQTTConfig) Enabled() bool { return m.URL != "" }

type LogConfig struct {
	Debug bool   `yaml:"debug"`
	File  string `yaml:"file"`
	Stdio string `yaml:"stdio"`
}

type Config struct {
	Canvas  CanvasConfig  `yaml:"canvas"`
	Display DisplayConfig `yaml:"display"`
	Web     WebConfig     `yaml:"web"`
	Capture CaptureConfig `yaml:"capture"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	Log     LogConfig     `yaml:"log"`
}

// Default returns the built-in configuration. The listen address differs
// per binary: :80 on the device, :8080 in the simulator.
func Default(listen string) Config {
	return Config{
		Canvas:  CanvasConfig{Width: 960, Height: 540},
		Display: DisplayConfig{Framebuffer: "/dev/fb0"},
		Web:     WebConfig{Listen: listen},
		Capture: CaptureConfig{Seconds: 6, FPS: 30, Scale: 0.5},
		MQTT:    MQTTConfig{Topic: "doorcam/recordings"},
		Log:     LogConfig{File: "./doorcam-debug.log"},
	}
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error when optional is set. Unknown keys are
// rejected.
func Load(path, listen string, optional bool) (Config, error) {
	cfg := Default(listen)
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.UnmarshalStrict(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
		case optional && errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvListenAddr); v != "" {
		c.Web.Listen = v
	}
	if raw := getenv(EnvDevMode); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s must be a boolean (got %q): %w", EnvDevMode, raw, err)
		}
		c.Web.DevMode = parsed
	}
	if v := getenv(EnvStdioLog); v != "" {
		c.Log.Stdio = v
	}
	if v := getenv(EnvMQTTURL); v != "" {
		c.MQTT.URL = v
	}
	return nil
}

func (c Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas size must be positive (got %dx%d)", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Capture.Seconds <= 0 {
		return fmt.Errorf("capture.seconds must be positive (got %v)", c.Capture.Seconds)
	}
	if c.Capture.FPS <= 0 || c.Capture.FPS > 60 {
		return fmt.Errorf("capture.fps must be within 1..60 (got %d)", c.Capture.FPS)
	}
	if c.Capture.Scale <= 0 || c.Capture.Scale > 1 {
		return fmt.Errorf("capture.scale must be within (0, 1] (got %v)", c.Capture.Scale)
	}
	return nil
}
