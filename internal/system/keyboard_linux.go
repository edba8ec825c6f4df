//go:build linux

package system

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// WatchKeys watches Linux evdev devices under /dev/input/event* and calls
// onKey for every key press whose code is in keys.
//
// It is best-effort: if no input devices are available, it logs and returns.
func WatchKeys(ctx context.Context, logger keyLogger, keys []uint16, onKey func(code uint16)) {
	if onKey == nil {
		return
	}
	wanted := make(map[uint16]bool, len(keys))
	for _, k := range keys {
		wanted[k] = true
	}

	tvSize := binary.Size(unix.Timeval{})
	if tvSize <= 0 {
		tvSize = 16
	}

	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil || len(paths) == 0 {
		if logger != nil {
			logger.Infof("input", "no evdev devices found")
		}
		return
	}

	for _, path := range paths {
		go watchDevice(ctx, logger, path, tvSize, wanted, onKey)
	}
}

func watchDevice(ctx context.Context, logger keyLogger, path string, tvSize int, wanted map[uint16]bool, onKey func(uint16)) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return
	}
	f := os.NewFile(uintptr(fd), path)
	defer func() {
		_ = f.Close()
	}()

	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(pollFds, 250); err != nil {
			if err == unix.EINTR {
				continue
			}
			// Device might have gone away.
			if logger != nil {
				logger.Errorf("input", "%s: %v", path, err)
			}
			return
		}
		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}

		n, err := unix.Read(fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			return
		}
		for _, code := range keyPresses(buf[:n], tvSize) {
			if wanted[code] {
				onKey(code)
			}
		}
	}
}
