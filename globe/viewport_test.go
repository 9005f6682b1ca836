// globe/viewport_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package globe

import (
	"testing"
	"time"

	"github.com/mmaddox93/qutescoop/math"
)

func newTestViewport() *ViewportController {
	vc := NewViewportController(testConfig(), 800, 600, nil)
	vc.SetMapPosition(40, -74, 0.3)
	return vc
}

func drag(vc *ViewportController, button MouseButton, from, to ScreenPoint, steps int) {
	vc.HandleGesture(Gesture{Kind: GesturePress, Button: button, Pos: from})
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		vc.HandleGesture(Gesture{Kind: GestureMove, Button: button,
			Pos: ScreenPoint{math.Lerp(t, from[0], to[0]), math.Lerp(t, from[1], to[1])}})
	}
	vc.HandleGesture(Gesture{Kind: GestureRelease, Button: button, Pos: to})
}

func TestBookmarks(t *testing.T) {
	vc := newTestViewport()
	saved := vc.Camera()

	vc.RememberPosition(3)
	vc.SetMapPosition(-33, 151, 0.05)
	vc.HandleGesture(Gesture{Kind: GestureWheel, Pos: ScreenPoint{100, 100}, Wheel: 2})
	vc.RestorePosition(3)
	if vc.Camera() != saved {
		t.Errorf("restored %s, expected %s", vc.Camera(), saved)
	}

	// Slots that were never set and invalid slots are ignored.
	vc.SetMapPosition(10, 10, 1)
	before := vc.Camera()
	for _, slot := range []int{7, -1, 10, 1000} {
		vc.RestorePosition(slot)
		if vc.Camera() != before {
			t.Errorf("restoring slot %d changed the camera", slot)
		}
	}
	vc.RememberPosition(12)

	// Restoring keeps the current viewport size.
	vc.Resize(1200, 400)
	vc.RestorePosition(3)
	if c := vc.Camera(); c.Width != 1200 || c.AspectRatio != 3 || c.Zoom != saved.Zoom || c.RotationY != saved.RotationY {
		t.Errorf("after resize and restore: %s", c)
	}

	// Copies of the table are independent.
	b := vc.Bookmarks()
	b[3].Zoom = 3
	if c, _ := vc.bookmarks.Get(3); c.Zoom != saved.Zoom {
		t.Errorf("bookmark copy aliases the controller's table")
	}
	vc.SetBookmarks(b)
	vc.RestorePosition(3)
	if vc.Camera().Zoom != 3 {
		t.Errorf("SetBookmarks didn't take effect")
	}
}

func TestRotateDrag(t *testing.T) {
	vc := newTestViewport()
	var clicks int
	vc.OnMapClicked(func(math.Point2LL) { clicks++ })

	lat0, lon0, _ := vc.CurrentPosition()
	drag(vc, MouseButtonPrimary, ScreenPoint{400, 300}, ScreenPoint{500, 350}, 10)
	lat, lon, _ := vc.CurrentPosition()

	// Dragging right and down brings terrain from the west and north
	// into view.
	if !(lon < lon0) || !(lat > lat0) {
		t.Errorf("(%f, %f) -> (%f, %f)", lat0, lon0, lat, lon)
	}
	if clicks != 0 {
		t.Errorf("drag reported as a click")
	}
	if vc.Mode() != ModeIdle {
		t.Errorf("mode %s after release", vc.Mode())
	}
}

func TestPanDrag(t *testing.T) {
	for _, button := range []MouseButton{MouseButtonSecondary, MouseButtonTertiary} {
		vc := newTestViewport()
		from, to := ScreenPoint{300, 250}, ScreenPoint{520, 380}
		grabbed, ok := vc.Camera().UnprojectFromScreen(from)
		if !ok {
			t.Fatalf("grab point off the globe")
		}

		vc.HandleGesture(Gesture{Kind: GesturePress, Button: button, Pos: from})
		if vc.Mode() != ModePanning {
			t.Errorf("button %d: mode %s", button, vc.Mode())
		}
		vc.HandleGesture(Gesture{Kind: GestureMove, Button: button, Pos: to})

		if sp, ok := vc.Camera().ProjectToScreen(grabbed); !ok || !nearScreen(sp, to, 1e-6) {
			t.Errorf("button %d: grabbed point at %v %v, expected %v", button, sp, ok, to)
		}
		vc.HandleGesture(Gesture{Kind: GestureRelease, Button: button, Pos: to})
		if vc.Mode() != ModeIdle {
			t.Errorf("mode %s after release", vc.Mode())
		}
	}
}

func TestClicks(t *testing.T) {
	vc := newTestViewport()

	var clicked []math.Point2LL
	var right []bool
	vc.OnMapClicked(func(p math.Point2LL) { clicked = append(clicked, p) })
	vc.OnRightClick(func(_ ScreenPoint, _ math.Point2LL, onGlobe bool) { right = append(right, onGlobe) })

	before := vc.Camera()
	// A small jitter is still a click.
	drag(vc, MouseButtonPrimary, ScreenPoint{400, 300}, ScreenPoint{401, 301}, 2)
	if len(clicked) != 1 || math.AngularDistance2LL(clicked[0], math.LL(40, -74)) > 0.1 {
		t.Errorf("clicked %v", clicked)
	}
	if vc.Camera() != before {
		t.Errorf("click moved the camera")
	}

	vc.SetMapPosition(0, 0, 4) // globe radius 75 pixels
	drag(vc, MouseButtonPrimary, ScreenPoint{5, 5}, ScreenPoint{5, 5}, 0)
	if len(clicked) != 1 {
		t.Errorf("click off the globe reported")
	}
	drag(vc, MouseButtonSecondary, ScreenPoint{5, 5}, ScreenPoint{5, 5}, 0)
	drag(vc, MouseButtonSecondary, ScreenPoint{400, 300}, ScreenPoint{400, 300}, 0)
	if len(right) != 2 || right[0] || !right[1] {
		t.Errorf("right clicks %v", right)
	}
}

func TestWheelAndDoubleClick(t *testing.T) {
	vc := newTestViewport()
	cursor := ScreenPoint{550, 200}
	p, _ := vc.Camera().UnprojectFromScreen(cursor)
	zoom := vc.Camera().Zoom

	vc.HandleGesture(Gesture{Kind: GestureWheel, Pos: cursor, Wheel: 3})
	cam := vc.Camera()
	if !near(cam.Zoom, zoom*math.Pow(0.9, 3), 1e-12) {
		t.Errorf("zoom %f after wheel", cam.Zoom)
	}
	if sp, ok := cam.ProjectToScreen(p); !ok || !nearScreen(sp, cursor, 1e-5) {
		t.Errorf("point under cursor moved to %v", sp)
	}

	vc.HandleGesture(Gesture{Kind: GestureWheel, Pos: cursor, Wheel: -3})
	if !near(vc.Camera().Zoom, zoom, 1e-12) {
		t.Errorf("zoom %f after wheel back", vc.Camera().Zoom)
	}

	vc.HandleGesture(Gesture{Kind: GestureDoubleClick, Pos: cursor})
	if !near(vc.Camera().Zoom, zoom*0.6, 1e-12) {
		t.Errorf("zoom %f after double click", vc.Camera().Zoom)
	}
}

func TestProgrammaticMoves(t *testing.T) {
	vc := newTestViewport()

	var notified int
	vc.OnNewPosition(func(CameraState) { notified++ })

	vc.ZoomIn(0)
	vc.ZoomOut(0)
	if _, _, z := vc.CurrentPosition(); !near(z, 0.3, 1e-12) {
		t.Errorf("zoom %f after in and out", z)
	}

	lat0, lon0, _ := vc.CurrentPosition()
	vc.ScrollBy(1, 1)
	lat, lon, _ := vc.CurrentPosition()
	if !(lat > lat0) || !(lon > lon0) {
		t.Errorf("scroll north-east went from (%f, %f) to (%f, %f)", lat0, lon0, lat, lon)
	}

	vc.ResetZoom()
	if lat, lon, z := vc.CurrentPosition(); lat != 0 || lon != 0 || z != 2 {
		t.Errorf("after reset (%f, %f) zoom %f", lat, lon, z)
	}

	if notified != 4 {
		t.Errorf("%d position notifications, expected 4", notified)
	}
	vc.ResetZoom()
	if notified != 4 {
		t.Errorf("notified without a change")
	}
}

func TestShutdownAnimation(t *testing.T) {
	vc := newTestViewport()
	start := vc.Camera()
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	vc.StartShutdownAnimation(t0)
	if !vc.Animating() {
		t.Fatalf("not animating")
	}

	vc.Tick(t0.Add(500 * time.Millisecond))
	mid := vc.Camera()
	if !(mid.Zoom > start.Zoom) || !(mid.Zoom < 4) {
		t.Errorf("midway zoom %f", mid.Zoom)
	}
	if !near(math.AngleDifference(start.RotationY, mid.RotationY), 90, 1e-9) {
		t.Errorf("midway yaw %f, started at %f", mid.RotationY, start.RotationY)
	}

	// Repeated and out-of-order ticks don't change anything.
	vc.Tick(t0.Add(500 * time.Millisecond))
	vc.Tick(t0.Add(200 * time.Millisecond))
	if vc.Camera() != mid {
		t.Errorf("repeated tick moved the camera")
	}

	// Gestures are ignored while animating.
	vc.HandleGesture(Gesture{Kind: GestureWheel, Pos: ScreenPoint{400, 300}, Wheel: 5})
	drag(vc, MouseButtonPrimary, ScreenPoint{400, 300}, ScreenPoint{600, 300}, 4)
	if vc.Camera() != mid {
		t.Errorf("gesture changed the camera during the animation")
	}

	// A long gap between ticks finishes the animation.
	vc.Tick(t0.Add(time.Hour))
	end := vc.Camera()
	if vc.Animating() || !vc.ShutdownComplete() {
		t.Errorf("animation should be complete")
	}
	if end.Zoom != 4 || end.RotationX != 0 || !near(math.Abs(math.AngleDifference(start.RotationY, end.RotationY)), 180, 1e-9) {
		t.Errorf("final camera %s", end)
	}
	vc.Tick(t0.Add(2 * time.Hour))
	if vc.Camera() != end {
		t.Errorf("tick after completion moved the camera")
	}
}

func TestCancelShutdownAnimation(t *testing.T) {
	vc := newTestViewport()
	t0 := time.Now()

	vc.StartShutdownAnimation(t0)
	vc.Tick(t0.Add(100 * time.Millisecond))
	cam := vc.Camera()
	vc.CancelAnimation()
	vc.CancelAnimation()
	vc.Tick(t0.Add(time.Second))

	if vc.Animating() || vc.ShutdownComplete() || vc.Camera() != cam {
		t.Errorf("animation continued after cancel")
	}

	// Interaction works again.
	vc.ZoomIn(0.5)
	if near(vc.Camera().Zoom, cam.Zoom, 1e-12) {
		t.Errorf("zoom ignored after cancel")
	}

	var a *ShutdownAnimation
	a.Cancel()
	if !a.Done() {
		t.Errorf("nil animation should be done")
	}
}

func TestInteractionModeString(t *testing.T) {
	for m, s := range map[InteractionMode]string{
		ModeIdle:            "idle",
		ModeRotating:        "rotating",
		ModePanning:         "panning",
		InteractionMode(7):  "InteractionMode(7)",
		InteractionMode(-1): "InteractionMode(-1)",
	} {
		if m.String() != s {
			t.Errorf("got %q, expected %q", m.String(), s)
		}
	}
}
