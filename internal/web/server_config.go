package web

import "github.com/rook-computer/doorcam/internal/config"

// ServerConfig contains settings for running the HTTP server.
type ServerConfig struct {
	ListenAddr string
	StaticDir  string
	DevMode    bool
}

func ServerConfigFrom(cfg config.WebConfig) ServerConfig {
	return ServerConfig{ListenAddr: cfg.Listen, StaticDir: cfg.StaticDir, DevMode: cfg.DevMode}
}
