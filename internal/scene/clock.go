package scene

import (
	"math"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05"

// Elapsed converts a frame index to nominal wall time.
func Elapsed(frame int) time.Duration {
	return time.Duration(frame) * time.Second / FrameRate
}

// Timestamp renders the fake camera clock for a frame in start's location.
func Timestamp(start time.Time, frame int) string {
	return start.Add(Elapsed(frame)).Format(timestampLayout)
}

// RecLampOn reports whether the blinking REC lamp is lit on frame.
func RecLampOn(frame int) bool {
	return math.Sin(float64(frame)/12) > 0
}

// Shake is the camera-shake pseudo noise: a fixed blend of three sines.
func Shake(seed, t float64) float64 {
	return math.Sin(seed+t*1.7)*0.5 +
		math.Sin(seed*1.3+t*0.97)*0.3 +
		math.Sin(seed*2.1+t*2.31)*0.2
}
