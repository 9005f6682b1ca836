// globe/animation.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package globe

import (
	"time"

	"github.com/mmaddox93/qutescoop/math"
)

// ShutdownAnimation zooms the globe out while spinning it half a turn and
// leveling it, over a fixed duration. Progress is based on the time
// measured since the start so that dropped or repeated ticks neither skip
// ahead nor apply twice.
type ShutdownAnimation struct {
	from, to CameraState
	start    time.Time
	duration time.Duration
	elapsed  time.Duration
	active   bool
}

// NewShutdownAnimation returns an animation starting from cam at now.
func NewShutdownAnimation(cam CameraState, now time.Time, duration time.Duration) *ShutdownAnimation {
	to := cam
	to.Zoom = cam.clampZoom(max(cam.MaxZoom, cam.Zoom))
	to.RotationX = 0
	// Not normalized, so that interpolation turns through half a circle.
	to.RotationY = cam.RotationY + 180

	return &ShutdownAnimation{
		from:     cam,
		to:       to,
		start:    now,
		duration: duration,
		active:   true,
	}
}

// Tick returns the camera for time now.
func (a *ShutdownAnimation) Tick(now time.Time) CameraState {
	if a.active {
		a.elapsed = max(a.elapsed, now.Sub(a.start))
		if a.elapsed >= a.duration {
			a.active = false
		}
	}
	return a.state()
}

func (a *ShutdownAnimation) state() CameraState {
	t := 1.
	if a.duration > 0 {
		t = math.SmoothStep(float64(a.elapsed) / float64(a.duration))
	}

	c := a.from
	c.Zoom = math.Lerp(t, a.from.Zoom, a.to.Zoom)
	c.RotationX = math.Lerp(t, a.from.RotationX, a.to.RotationX)
	c.RotationY = math.NormalizeAngle(math.Lerp(t, a.from.RotationY, a.to.RotationY))
	return c
}

// Progress returns how far along the animation is, in [0,1].
func (a *ShutdownAnimation) Progress() float64 {
	if a.duration <= 0 {
		return 1
	}
	return math.Clamp(float64(a.elapsed)/float64(a.duration), 0, 1)
}

// Done reports whether the animation has finished or been cancelled.
func (a *ShutdownAnimation) Done() bool {
	return a == nil || !a.active
}

// Cancel stops the animation where it is.
func (a *ShutdownAnimation) Cancel() {
	if a != nil {
		a.active = false
	}
}
