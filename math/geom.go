// math/geom.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

///////////////////////////////////////////////////////////////////////////
// Extent2D

// Extent2D represents a 2D bounding box with the two vertices at its
// opposite minimum and maximum corners.
type Extent2D struct {
	P0, P1 [2]float64
}

// EmptyExtent2D returns an Extent2D representing an empty bounding box.
func EmptyExtent2D() Extent2D {
	// Degenerate bounds
	return Extent2D{P0: [2]float64{1e30, 1e30}, P1: [2]float64{-1e30, -1e30}}
}

// Extent2DFromPoints returns an Extent2D that bounds all of the provided
// points.
func Extent2DFromPoints[P ~[2]float64](pts []P) Extent2D {
	e := EmptyExtent2D()
	for _, p := range pts {
		e = Union(e, p)
	}
	return e
}

// MakeExtent2D returns the extent with corners a and b, in whichever
// order they are given.
func MakeExtent2D(a, b [2]float64) Extent2D {
	return Extent2D{
		P0: [2]float64{min(a[0], b[0]), min(a[1], b[1])},
		P1: [2]float64{max(a[0], b[0]), max(a[1], b[1])},
	}
}

func (e Extent2D) Width() float64 {
	return e.P1[0] - e.P0[0]
}

func (e Extent2D) Height() float64 {
	return e.P1[1] - e.P0[1]
}

func (e Extent2D) Center() [2]float64 {
	return [2]float64{(e.P0[0] + e.P1[0]) / 2, (e.P0[1] + e.P1[1]) / 2}
}

// IsEmpty reports whether the extent bounds nothing, as with
// EmptyExtent2D.
func (e Extent2D) IsEmpty() bool {
	return e.P0[0] > e.P1[0] || e.P0[1] > e.P1[1]
}

// IsFinite reports whether all of the extent's coordinates are finite.
func (e Extent2D) IsFinite() bool {
	return IsFinite(e.P0[0]) && IsFinite(e.P0[1]) && IsFinite(e.P1[0]) && IsFinite(e.P1[1])
}

// Expand expands the extent by the given distance in all directions.
func (e Extent2D) Expand(d float64) Extent2D {
	return Extent2D{
		P0: [2]float64{e.P0[0] - d, e.P0[1] - d},
		P1: [2]float64{e.P1[0] + d, e.P1[1] + d}}
}

func (e Extent2D) Inside(p [2]float64) bool {
	return p[0] >= e.P0[0] && p[0] <= e.P1[0] && p[1] >= e.P0[1] && p[1] <= e.P1[1]
}

func (e Extent2D) Offset(p [2]float64) Extent2D {
	return Extent2D{P0: Add2f(e.P0, p), P1: Add2f(e.P1, p)}
}

// Overlaps returns true if the two provided Extent2Ds overlap. Extents
// that only touch along an edge or corner count as overlapping.
func Overlaps(a Extent2D, b Extent2D) bool {
	x := (a.P1[0] >= b.P0[0]) && (a.P0[0] <= b.P1[0])
	y := (a.P1[1] >= b.P0[1]) && (a.P0[1] <= b.P1[1])
	return x && y
}

func Union[P ~[2]float64](e Extent2D, p P) Extent2D {
	e.P0[0] = min(e.P0[0], p[0])
	e.P0[1] = min(e.P0[1], p[1])
	e.P1[0] = max(e.P1[0], p[0])
	e.P1[1] = max(e.P1[1], p[1])
	return e
}

///////////////////////////////////////////////////////////////////////////
// Geometry

// CrossesAntimeridian reports whether consecutive vertices of the polygon
// jump by more than 180 degrees of longitude, which for any sensibly-sized
// region means that it spans the ±180 meridian.
func CrossesAntimeridian(pts []Point2LL) bool {
	for i := range pts {
		p0, p1 := pts[i], pts[(i+1)%len(pts)]
		if Abs(p1[0]-p0[0]) > 180 {
			return true
		}
	}
	return false
}

// UnwrapLongitudes returns a copy of pts with negative longitudes shifted
// by +360 so that a polygon spanning the antimeridian becomes contiguous.
func UnwrapLongitudes(pts []Point2LL) []Point2LL {
	r := make([]Point2LL, len(pts))
	for i, p := range pts {
		if p[0] < 0 {
			p[0] += 360
		}
		r[i] = p
	}
	return r
}
