//go:build !linux

package system

import "context"

// WatchKeys is a no-op off Linux; there is no evdev to read.
func WatchKeys(ctx context.Context, logger keyLogger, keys []uint16, onKey func(code uint16)) {
	if logger != nil {
		logger.Infof("input", "key watching is only supported on linux")
	}
}
