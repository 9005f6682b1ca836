// globe/pick.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package globe

import (
	"slices"
	"strings"

	"github.com/mmaddox93/qutescoop/aviation"
	"github.com/mmaddox93/qutescoop/math"
	"github.com/mmaddox93/qutescoop/util"
)

// Distances closer than this, in degrees of arc, are considered equal
// when ordering picked objects.
const pickDistanceEpsilon = 1e-9

type pickedEntity struct {
	e    aviation.Entity
	dist float64
}

// Labels are picked if sp is within this many pixels of their rectangle.
const labelPickSlop = 1

// ObjectsAt returns the entities within radius pixels of sp, nearest
// first. A radius of 0 uses the configured pick tolerance. They are
// followed by the entities of any of the given labels that are under
// sp, in label order. Nothing is returned if sp isn't over the globe.
func ObjectsAt(cam CameraState, entities []aviation.Entity, sp ScreenPoint, radius, tolerance float64,
	labels []LabelCandidate) []aviation.Entity {
	if radius <= 0 || !math.IsFinite(radius) {
		radius = tolerance
	}

	center, ok := cam.UnprojectFromScreen(sp)
	if !ok {
		return nil
	}
	threshold := pickThreshold(cam, sp, center, radius)

	var picked []pickedEntity
	for _, e := range entities {
		p, ok := e.Position()
		if !ok {
			continue
		}
		// Only things that are actually drawn can be picked.
		if _, ok := cam.ProjectToScreen(p); !ok {
			continue
		}
		if d := math.AngularDistance2LL(center, p); d <= threshold {
			picked = append(picked, pickedEntity{e: e, dist: d})
		}
	}
	result := sortPicked(picked)

	hits := util.FilterSlice(labels, func(l LabelCandidate) bool {
		return l.Entity != nil && l.Rect.Expand(labelPickSlop).Inside(sp)
	})
	for _, l := range hits {
		if !slices.Contains(result, l.Entity) {
			result = append(result, l.Entity)
		}
	}
	return result
}

// ObjectsNear returns the entities within radiusNM nautical miles of p,
// nearest first, regardless of what is visible.
func ObjectsNear(entities []aviation.Entity, p math.Point2LL, radiusNM float64) []aviation.Entity {
	if !p.IsValid() || !(radiusNM >= 0) {
		return nil
	}

	var picked []pickedEntity
	for _, e := range entities {
		if ep, ok := e.Position(); ok {
			if d := math.AngularDistance2LL(p, ep); d*math.NMPerLatitude <= radiusNM {
				picked = append(picked, pickedEntity{e: e, dist: d})
			}
		}
	}
	return sortPicked(picked)
}

// pickThreshold converts a pixel radius around sp into an angular
// distance on the globe. Near the limb a pixel covers much more of the
// surface than at the center, so the circle is sampled rather than
// using DegreesPerPixel directly.
func pickThreshold(cam CameraState, sp ScreenPoint, center math.Point2LL, radius float64) float64 {
	threshold := 0.
	n := 0
	for i := range 8 {
		d := math.Rotator2f(float64(i) * 45)([2]float64{radius, 0})
		if p, ok := cam.UnprojectFromScreen(ScreenPoint(math.Add2f(sp, d))); ok {
			threshold = max(threshold, math.AngularDistance2LL(center, p))
			n++
		}
	}
	if n == 0 {
		// The whole circle is off the globe; estimate from the local
		// foreshortening instead.
		v, _ := cam.viewFromScreen(sp)
		threshold = radius * cam.DegreesPerPixel() / max(v[2], 1e-3)
	}
	return threshold
}

func sortPicked(picked []pickedEntity) []aviation.Entity {
	slices.SortStableFunc(picked, func(a, b pickedEntity) int {
		if math.Abs(a.dist-b.dist) > pickDistanceEpsilon {
			if a.dist < b.dist {
				return -1
			}
			return 1
		}
		if pa, pb := a.e.DisplayPriority(), b.e.DisplayPriority(); pa != pb {
			return pb - pa
		}
		return strings.Compare(a.e.ID(), b.e.ID())
	})

	result := make([]aviation.Entity, len(picked))
	for i, p := range picked {
		result[i] = p.e
	}
	return result
}
