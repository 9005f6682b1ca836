// globe/viewport.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package globe

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mmaddox93/qutescoop/config"
	"github.com/mmaddox93/qutescoop/log"
	"github.com/mmaddox93/qutescoop/math"
)

type MouseButton int

const (
	MouseButtonPrimary MouseButton = iota
	MouseButtonSecondary
	MouseButtonTertiary
)

type GestureKind int

const (
	GesturePress GestureKind = iota
	GestureMove
	GestureRelease
	GestureWheel
	GestureDoubleClick
)

// Gesture is a single pointer event in viewport coordinates. For wheel
// gestures, Wheel gives the number of notches, positive when scrolling
// away from the user.
type Gesture struct {
	Kind   GestureKind
	Button MouseButton
	Pos    ScreenPoint
	Wheel  float64
}

type InteractionMode int

const (
	ModeIdle InteractionMode = iota
	ModeRotating
	ModePanning
)

func (m InteractionMode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeRotating:
		return "rotating"
	case ModePanning:
		return "panning"
	default:
		return fmt.Sprintf("InteractionMode(%d)", int(m))
	}
}

// Pointer motion of at most this many pixels between press and release
// counts as a click rather than a drag.
const clickSlop = 3

// ViewportController turns pointer gestures and programmatic requests
// into camera changes. It is the only thing that modifies the camera.
type ViewportController struct {
	cam CameraState
	cfg config.Globe
	lg  *log.Logger

	mode     InteractionMode
	pressPos ScreenPoint
	lastPos  ScreenPoint
	dragged  bool
	// Geographic point grabbed when panning started.
	grab     math.Point2LL
	haveGrab bool

	bookmarks Bookmarks
	anim      *ShutdownAnimation

	newPositionListeners []func(CameraState)
	mapClickedListeners  []func(math.Point2LL)
	rightClickListeners  []func(ScreenPoint, math.Point2LL, bool)
}

func NewViewportController(cfg config.Globe, width, height float64, lg *log.Logger) *ViewportController {
	return &ViewportController{
		cam: NewCamera(cfg, width, height),
		cfg: cfg,
		lg:  lg,
	}
}

// Camera returns a copy of the current camera.
func (vc *ViewportController) Camera() CameraState {
	return vc.cam
}

func (vc *ViewportController) Mode() InteractionMode {
	return vc.mode
}

// OnNewPosition registers a callback that is called with the camera after
// each change to it.
func (vc *ViewportController) OnNewPosition(f func(CameraState)) {
	vc.newPositionListeners = append(vc.newPositionListeners, f)
}

// OnMapClicked registers a callback for primary clicks on the globe.
func (vc *ViewportController) OnMapClicked(f func(math.Point2LL)) {
	vc.mapClickedListeners = append(vc.mapClickedListeners, f)
}

// OnRightClick registers a callback for secondary clicks; the point and
// flag give the position under the cursor, if it is over the globe.
func (vc *ViewportController) OnRightClick(f func(ScreenPoint, math.Point2LL, bool)) {
	vc.rightClickListeners = append(vc.rightClickListeners, f)
}

// update applies f to the camera and notifies the listeners if the
// camera changed.
func (vc *ViewportController) update(f func(c *CameraState)) {
	prev := vc.cam
	f(&vc.cam)
	if vc.cam != prev {
		for _, l := range vc.newPositionListeners {
			l(vc.cam)
		}
	}
}

// HandleGesture applies a pointer event. Gestures are ignored while the
// shutdown animation runs.
func (vc *ViewportController) HandleGesture(g Gesture) {
	if vc.Animating() {
		vc.mode = ModeIdle
		return
	}

	switch g.Kind {
	case GesturePress:
		vc.pressPos, vc.lastPos = g.Pos, g.Pos
		vc.dragged = false
		switch g.Button {
		case MouseButtonPrimary:
			vc.mode = ModeRotating
		case MouseButtonSecondary, MouseButtonTertiary:
			vc.mode = ModePanning
			vc.grab, vc.haveGrab = vc.cam.UnprojectFromScreen(g.Pos)
		}
		vc.lg.Debug("gesture started", slog.String("mode", vc.mode.String()), slog.Any("pos", g.Pos))

	case GestureMove:
		if vc.mode == ModeIdle {
			return
		}
		if math.Distance2f(g.Pos, vc.pressPos) > clickSlop {
			vc.dragged = true
		}
		delta := math.Sub2f(g.Pos, vc.lastPos)
		vc.lastPos = g.Pos
		if !vc.dragged || delta == [2]float64{} {
			return
		}

		switch vc.mode {
		case ModeRotating:
			vc.rotateByPixels(delta)
		case ModePanning:
			vc.update(func(c *CameraState) {
				if !vc.haveGrab || !c.PinTo(vc.grab, g.Pos) {
					vc.rotateByPixelsLocked(c, delta)
				}
			})
		}

	case GestureRelease:
		wasClick := vc.mode != ModeIdle && !vc.dragged
		mode := vc.mode
		vc.mode = ModeIdle
		vc.haveGrab = false
		if !wasClick {
			return
		}

		p, onGlobe := vc.cam.UnprojectFromScreen(g.Pos)
		switch {
		case mode == ModeRotating && g.Button == MouseButtonPrimary:
			if onGlobe {
				for _, l := range vc.mapClickedListeners {
					l(p)
				}
			}
		case g.Button == MouseButtonSecondary:
			for _, l := range vc.rightClickListeners {
				l(g.Pos, p, onGlobe)
			}
		}

	case GestureWheel:
		if g.Wheel == 0 || !math.IsFinite(g.Wheel) {
			return
		}
		pos := g.Pos
		vc.update(func(c *CameraState) { c.ZoomBy(math.Pow(vc.cfg.WheelZoomFactor, g.Wheel), &pos) })

	case GestureDoubleClick:
		pos := g.Pos
		vc.update(func(c *CameraState) { c.ZoomBy(vc.cfg.ZoomStepFactor, &pos) })
	}
}

func (vc *ViewportController) rotateByPixels(delta [2]float64) {
	vc.update(func(c *CameraState) { vc.rotateByPixelsLocked(c, delta) })
}

func (vc *ViewportController) rotateByPixelsLocked(c *CameraState, delta [2]float64) {
	k := c.DegreesPerPixel() * vc.cfg.DragSensitivity
	c.RotateBy(delta[0]*k, delta[1]*k)
}

// Resize updates the viewport size.
func (vc *ViewportController) Resize(width, height float64) {
	vc.update(func(c *CameraState) { c.Resize(width, height) })
}

// SetMapPosition centers the view on (lat, lon) at the given zoom.
func (vc *ViewportController) SetMapPosition(lat, lon, zoom float64) {
	vc.update(func(c *CameraState) { c.SetPosition(lat, lon, zoom) })
}

// CurrentPosition returns the latitude and longitude at the center of the
// view and the zoom.
func (vc *ViewportController) CurrentPosition() (lat, lon, zoom float64) {
	p := vc.cam.Center()
	return p.Latitude(), p.Longitude(), vc.cam.Zoom
}

// ScrollBy moves the view by the given number of scroll steps; positive
// dx moves east and positive dy moves north.
func (vc *ViewportController) ScrollBy(dx, dy float64) {
	vc.update(func(c *CameraState) {
		deg := math.Degrees(c.Zoom) * vc.cfg.ScrollStep
		c.RotateBy(-dx*deg, dy*deg)
	})
}

// ZoomIn zooms in by factor about the center of the view; a factor of
// 0 uses the configured step.
func (vc *ViewportController) ZoomIn(factor float64) {
	if factor == 0 {
		factor = vc.cfg.ZoomStepFactor
	}
	vc.update(func(c *CameraState) { c.ZoomBy(factor, nil) })
}

// ZoomOut undoes a ZoomIn with the same factor.
func (vc *ViewportController) ZoomOut(factor float64) {
	if factor == 0 {
		factor = vc.cfg.ZoomStepFactor
	}
	if factor > 0 {
		vc.update(func(c *CameraState) { c.ZoomBy(1/factor, nil) })
	}
}

func (vc *ViewportController) ZoomBy(factor float64, anchor *ScreenPoint) {
	vc.update(func(c *CameraState) { c.ZoomBy(factor, anchor) })
}

func (vc *ViewportController) ResetZoom() {
	vc.update(func(c *CameraState) { c.ResetZoom() })
}

// RememberPosition stores the current camera in a bookmark slot.
func (vc *ViewportController) RememberPosition(slot int) {
	if !vc.bookmarks.Remember(slot, vc.cam) {
		vc.lg.Warnf("%d: invalid bookmark slot", slot)
	}
}

// RestorePosition returns to a remembered camera; the viewport size is
// kept. Empty or out of range slots are ignored.
func (vc *ViewportController) RestorePosition(slot int) {
	b, ok := vc.bookmarks.Get(slot)
	if !ok {
		return
	}
	vc.update(func(c *CameraState) {
		c.RotationX, c.RotationY, c.RotationZ = b.RotationX, b.RotationY, b.RotationZ
		c.Zoom = c.clampZoom(b.Zoom)
		c.check()
	})
}

// Bookmarks returns a copy of the bookmark table.
func (vc *ViewportController) Bookmarks() Bookmarks {
	return vc.bookmarks.Clone()
}

func (vc *ViewportController) SetBookmarks(b Bookmarks) {
	vc.bookmarks = b.Clone()
}

// StartShutdownAnimation begins the closing animation; it is a no-op if
// one is already running.
func (vc *ViewportController) StartShutdownAnimation(now time.Time) {
	if vc.Animating() {
		return
	}
	vc.mode = ModeIdle
	vc.anim = NewShutdownAnimation(vc.cam, now, vc.cfg.ShutdownDuration)
	vc.lg.Info("shutdown animation started", slog.Duration("duration", vc.cfg.ShutdownDuration))
}

// Tick advances any running animation to now.
func (vc *ViewportController) Tick(now time.Time) {
	if !vc.Animating() {
		return
	}
	cam := vc.anim.Tick(now)
	vc.update(func(c *CameraState) {
		// The viewport may have been resized while animating.
		cam.Width, cam.Height, cam.AspectRatio = c.Width, c.Height, c.AspectRatio
		*c = cam
		c.check()
	})
	if vc.anim.Done() {
		vc.lg.Info("shutdown animation finished")
	}
}

func (vc *ViewportController) Animating() bool {
	return vc.anim != nil && !vc.anim.Done()
}

// ShutdownComplete reports whether a shutdown animation has run to the
// end, at which point the host can close the window.
func (vc *ViewportController) ShutdownComplete() bool {
	return vc.anim != nil && vc.anim.Progress() >= 1
}

// CancelAnimation stops the shutdown animation, leaving the camera where
// the animation last put it.
func (vc *ViewportController) CancelAnimation() {
	if vc.anim != nil {
		vc.anim.Cancel()
		vc.anim = nil
	}
}
