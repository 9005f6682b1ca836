// globe/camera.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package globe

import (
	"fmt"

	"github.com/mmaddox93/qutescoop/config"
	"github.com/mmaddox93/qutescoop/math"
)

// ScreenPoint is a position in pixels with the origin at the upper left
// of the viewport and +y down.
type ScreenPoint [2]float64

// CameraState describes the orthographic view of the unit globe.
//
// A point is first rotated by -longitude of the view center about the
// polar axis (RotationY), then by the view center's latitude about the
// screen x axis (RotationX) and finally rolled about the view axis
// (RotationZ). The rotated point's x and y then give its position on
// the screen and z > 0 means it is on the visible hemisphere.
type CameraState struct {
	RotationX, RotationY, RotationZ float64 // degrees
	// Zoom is half of the viewport's height, measured in globe radii.
	Zoom        float64
	AspectRatio float64
	// Viewport size in pixels
	Width, Height float64

	MinZoom, MaxZoom, DefaultZoom float64
}

// NewCamera returns a camera looking at (0,0) with the configured zoom
// for a viewport of the given size.
func NewCamera(c config.Globe, width, height float64) CameraState {
	cam := CameraState{
		Zoom:        c.DefaultZoom,
		AspectRatio: 1,
		MinZoom:     c.MinZoom,
		MaxZoom:     c.MaxZoom,
		DefaultZoom: c.DefaultZoom,
	}
	cam.Resize(width, height)
	cam.check()
	return cam
}

func (c CameraState) String() string {
	return fmt.Sprintf("rot (%.3f, %.3f, %.3f) zoom %.4f aspect %.3f %gx%g", c.RotationX, c.RotationY,
		c.RotationZ, c.Zoom, c.AspectRatio, c.Width, c.Height)
}

// check panics if the camera's invariants have been violated; it is
// called after every mutation.
func (c *CameraState) check() {
	if !(c.Zoom > 0) || !math.IsFinite(c.Zoom) {
		panic(fmt.Sprintf("camera: invalid zoom %f", c.Zoom))
	}
	if !(c.AspectRatio > 0) || !math.IsFinite(c.AspectRatio) {
		panic(fmt.Sprintf("camera: invalid aspect ratio %f", c.AspectRatio))
	}
	if !math.IsFinite(c.RotationX) || !math.IsFinite(c.RotationY) || !math.IsFinite(c.RotationZ) {
		panic(fmt.Sprintf("camera: invalid rotation %s", c))
	}
}

// viewFromWorld returns the rotation that takes points on the unit
// sphere to view space.
func (c CameraState) viewFromWorld() math.Matrix3 {
	return math.RotateZ(c.RotationZ).
		PostMultiply(math.RotateX(c.RotationX)).
		PostMultiply(math.RotateY(c.RotationY))
}

func (c CameraState) haveViewport() bool {
	return c.Width > 0 && c.Height > 0
}

// ProjectToScreen returns the screen position of p and whether it is on
// the visible hemisphere.
func (c CameraState) ProjectToScreen(p math.Point2LL) (ScreenPoint, bool) {
	if !c.haveViewport() || !p.IsValid() {
		return ScreenPoint{}, false
	}
	v := c.viewFromWorld().TransformVector(math.UnitVector(p))
	if v[2] <= 0 {
		return ScreenPoint{}, false
	}
	return c.screenFromView(v), true
}

func (c CameraState) screenFromView(v math.Vec3) ScreenPoint {
	return ScreenPoint{
		(1 + v[0]/(c.Zoom*c.AspectRatio)) * c.Width / 2,
		(1 - v[1]/c.Zoom) * c.Height / 2,
	}
}

// viewFromScreen returns the view-space point on the front of the globe
// under sp. It returns false if sp is outside the globe's silhouette.
func (c CameraState) viewFromScreen(sp ScreenPoint) (math.Vec3, bool) {
	if !c.haveViewport() || !math.IsFinite(sp[0]) || !math.IsFinite(sp[1]) {
		return math.Vec3{}, false
	}
	ndcx, ndcy := 2*sp[0]/c.Width-1, 1-2*sp[1]/c.Height
	vx, vy := ndcx*c.Zoom*c.AspectRatio, ndcy*c.Zoom
	r2 := vx*vx + vy*vy
	if r2 > 1 {
		return math.Vec3{}, false
	}
	return math.Vec3{vx, vy, math.Sqrt(1 - r2)}, true
}

// UnprojectFromScreen returns the geographic position under sp, if sp is
// on the globe.
func (c CameraState) UnprojectFromScreen(sp ScreenPoint) (math.Point2LL, bool) {
	v, ok := c.viewFromScreen(sp)
	if !ok {
		return math.Point2LL{}, false
	}
	w := c.viewFromWorld().Transpose().TransformVector(v)
	return math.Point2LLFromVector(w), true
}

// Center returns the geographic position at the center of the view.
func (c CameraState) Center() math.Point2LL {
	return math.LL(c.RotationX, -c.RotationY).Normalize()
}

// DegreesPerPixel returns the arc subtended by a pixel at the center of
// the view.
func (c CameraState) DegreesPerPixel() float64 {
	if c.Height <= 0 {
		return 0
	}
	return math.Degrees(2 * c.Zoom / c.Height)
}

// ScreenCenter returns the center of the viewport.
func (c CameraState) ScreenCenter() ScreenPoint {
	return ScreenPoint{c.Width / 2, c.Height / 2}
}

///////////////////////////////////////////////////////////////////////////
// Mutation

// Resize updates the viewport size; non-positive sizes are ignored so
// that a minimized window doesn't leave the camera in a bad state.
func (c *CameraState) Resize(width, height float64) {
	if !(width > 0) || !(height > 0) || !math.IsFinite(width) || !math.IsFinite(height) {
		return
	}
	c.Width, c.Height = width, height
	c.AspectRatio = width / height
	c.check()
}

// RotateBy turns the globe about the polar axis by dYaw degrees and tilts
// it by dPitch degrees. Pitch is limited to ±90 so the poles stay on top.
func (c *CameraState) RotateBy(dYaw, dPitch float64) {
	if !math.IsFinite(dYaw) || !math.IsFinite(dPitch) {
		return
	}
	c.RotationY = math.NormalizeAngle(c.RotationY + dYaw)
	c.RotationX = math.Clamp(c.RotationX+dPitch, -90, 90)
	c.check()
}

// Roll rotates the view about the view axis.
func (c *CameraState) Roll(d float64) {
	if !math.IsFinite(d) {
		return
	}
	c.RotationZ = math.NormalizeAngle(c.RotationZ + d)
	c.check()
}

// SetZoom sets the zoom, clamped to the camera's limits.
func (c *CameraState) SetZoom(z float64) {
	if !(z > 0) || !math.IsFinite(z) {
		return
	}
	c.Zoom = c.clampZoom(z)
	c.check()
}

func (c CameraState) clampZoom(z float64) float64 {
	if c.MinZoom > 0 {
		z = max(z, c.MinZoom)
	}
	if c.MaxZoom > 0 {
		z = min(z, c.MaxZoom)
	}
	return z
}

// ZoomBy multiplies the zoom by factor; factors less than one zoom in. If
// an anchor is given and it is over the globe, the geographic point
// under it stays under it.
func (c *CameraState) ZoomBy(factor float64, anchor *ScreenPoint) {
	if !(factor > 0) || !math.IsFinite(factor) {
		return
	}

	var pinned math.Point2LL
	havePin := false
	if anchor != nil {
		pinned, havePin = c.UnprojectFromScreen(*anchor)
	}

	c.Zoom = c.clampZoom(c.Zoom * factor)
	c.check()

	if havePin {
		c.PinTo(pinned, *anchor)
	}
}

// ResetZoom returns to the default zoom looking at (0,0) without roll.
func (c *CameraState) ResetZoom() {
	c.RotationX, c.RotationY, c.RotationZ = 0, 0, 0
	if c.DefaultZoom > 0 {
		c.Zoom = c.clampZoom(c.DefaultZoom)
	}
	c.check()
}

// SetPosition centers the view on the given point at the given zoom; a
// non-positive zoom leaves the zoom unchanged.
func (c *CameraState) SetPosition(lat, lon, zoom float64) {
	if !math.IsFinite(lat) || !math.IsFinite(lon) {
		return
	}
	c.RotationX = math.Clamp(lat, -90, 90)
	c.RotationY = math.NormalizeAngle(-lon)
	if zoom > 0 && math.IsFinite(zoom) {
		c.Zoom = c.clampZoom(zoom)
	}
	c.check()
}

// PinTo adjusts yaw and pitch, keeping roll and zoom, so that p appears
// at sp. It returns false and leaves the camera unchanged if sp is off
// the globe or no pitch in [-90,90] can bring p there.
func (c *CameraState) PinTo(p math.Point2LL, sp ScreenPoint) bool {
	u, ok := c.viewFromScreen(sp)
	if !ok || !p.IsValid() {
		return false
	}
	// Undo the roll; what remains is RotateX(pitch)*RotateY(yaw).
	w := math.RotateZ(-c.RotationZ).TransformVector(u)
	pv := math.UnitVector(p)

	// The yaw rotation leaves y alone and the pitch rotation leaves x
	// alone, so after the yaw the point must have x == w.x.
	rho2 := pv[0]*pv[0] + pv[2]*pv[2]
	const eps = 1e-12
	if w[0]*w[0] > rho2+eps {
		return false
	}
	qz := math.Sqrt(max(0, rho2-w[0]*w[0]))

	type solution struct{ pitch, yaw float64 }
	var cands []solution
	for _, z := range []float64{qz, -qz} {
		pitch := math.NormalizeAngle(math.Degrees(math.Atan2(w[2], w[1]) - math.Atan2(z, pv[1])))
		yaw := c.RotationY
		if rho2 > eps {
			yaw = math.NormalizeAngle(math.Degrees(math.Atan2(w[0], z) - math.Atan2(pv[0], pv[2])))
		}
		if math.Abs(pitch) <= 90+1e-9 {
			cands = append(cands, solution{pitch: math.Clamp(pitch, -90, 90), yaw: yaw})
		}
	}
	if len(cands) == 0 {
		return false
	}

	best := cands[0]
	cost := func(s solution) float64 {
		return math.Abs(math.AngleDifference(c.RotationX, s.pitch)) + math.Abs(math.AngleDifference(c.RotationY, s.yaw))
	}
	for _, s := range cands[1:] {
		if cost(s) < cost(best) {
			best = s
		}
	}

	c.RotationX, c.RotationY = best.pitch, best.yaw
	c.check()
	return true
}
