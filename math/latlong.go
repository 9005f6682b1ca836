// math/latlong.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"fmt"
	gomath "math"
	"regexp"
	"strconv"
)

const NMPerLatitude = 60

///////////////////////////////////////////////////////////////////////////
// Point2LL

// Point2LL represents a 2D point on the Earth in latitude-longitude.
// Important: 0 (x) is longitude, 1 (y) is latitude
type Point2LL [2]float64

// LL returns the point for the given latitude and longitude, in that
// order, which is the order most external data uses.
func LL(lat, lon float64) Point2LL {
	return Point2LL{lon, lat}
}

func (p Point2LL) Longitude() float64 {
	return p[0]
}

func (p Point2LL) Latitude() float64 {
	return p[1]
}

func (p Point2LL) IsZero() bool {
	return p[0] == 0 && p[1] == 0
}

func (p Point2LL) IsValid() bool {
	return IsFinite(p[0]) && IsFinite(p[1]) && p[1] >= -90 && p[1] <= 90
}

// Normalize clamps the latitude to [-90,90] and wraps the longitude to
// (-180,180].
func (p Point2LL) Normalize() Point2LL {
	return Point2LL{NormalizeAngle(p[0]), Clamp(p[1], -90, 90)}
}

// DDString returns the position in decimal degrees, e.g.:
// (39.860901, -75.274864)
func (p Point2LL) DDString() string {
	return fmt.Sprintf("(%f, %f)", p[1], p[0]) // latitude, longitude
}

// DMSString returns the position in degrees minutes, seconds, e.g.
// N039.51.39.243,W075.16.29.511
func (p Point2LL) DMSString() string {
	format := func(v float64) string {
		s := fmt.Sprintf("%03d", int(v))
		v -= Floor(v)
		v *= 60
		s += fmt.Sprintf(".%02d", int(v))
		v -= Floor(v)
		v *= 60
		s += fmt.Sprintf(".%02d", int(v))
		v -= Floor(v)
		v *= 1000
		s += fmt.Sprintf(".%03d", int(v))
		return s
	}

	var s string
	if p[1] >= 0 {
		s = "N"
	} else {
		s = "S"
	}
	s += format(Abs(p[1]))

	if p[0] >= 0 {
		s += ",E"
	} else {
		s += ",W"
	}
	s += format(Abs(p[0]))

	return s
}

var (
	// pair of floats (no exponents)
	reWaypointFloat = regexp.MustCompile(`^(\-?[0-9]+(?:\.[0-9]+)?), *(\-?[0-9]+(?:\.[0-9]+)?)$`)
	// N40.37.58.400, W073.46.17.000
	reWaypointDotted = regexp.MustCompile(`^([NS])([0-9]+)\.([0-9]+)\.([0-9]+)\.([0-9]+), *([EW])([0-9]+)\.([0-9]+)\.([0-9]+)\.([0-9]+)$`)
)

// ParseLatLong parses positions given either as a pair of decimal degrees
// ("40.6328888, -73.771385", latitude first) or in the dotted
// degrees-minutes-seconds form used by sector files
// ("N40.37.58.400, W073.46.17.000").
func ParseLatLong(llstr []byte) (Point2LL, error) {
	if strs := reWaypointDotted.FindStringSubmatch(string(llstr)); len(strs) == 11 {
		parse := func(hemi, deg, min, sec, frac string, neg string) (float64, error) {
			var v [4]int
			for i, s := range []string{deg, min, sec, frac} {
				n, err := strconv.Atoi(s)
				if err != nil {
					return 0, err
				}
				v[i] = n
			}
			// Treat the last set of digits as a decimal, so that
			// Nxx.yy.zz.1 is handled like Nxx.yy.zz.100.
			for j := len(frac); j < 3; j++ {
				v[3] *= 10
			}
			if v[1] >= 60 || v[2] >= 60 {
				return 0, fmt.Errorf("%s: invalid minutes/seconds", llstr)
			}
			d := float64(v[0]) + float64(v[1])/60 + float64(v[2])/3600 + float64(v[3])/3600000
			if hemi == neg {
				d = -d
			}
			return d, nil
		}

		lat, err := parse(strs[1], strs[2], strs[3], strs[4], strs[5], "S")
		if err != nil {
			return Point2LL{}, err
		}
		lon, err := parse(strs[6], strs[7], strs[8], strs[9], strs[10], "W")
		if err != nil {
			return Point2LL{}, err
		}
		return checkLatLong(Point2LL{lon, lat}, llstr)
	} else if strs := reWaypointFloat.FindStringSubmatch(string(llstr)); len(strs) == 3 {
		lat, err := strconv.ParseFloat(strs[1], 64)
		if err != nil {
			return Point2LL{}, err
		}
		lon, err := strconv.ParseFloat(strs[2], 64)
		if err != nil {
			return Point2LL{}, err
		}
		return checkLatLong(Point2LL{lon, lat}, llstr)
	}
	return Point2LL{}, fmt.Errorf("%s: invalid latlong string", llstr)
}

func checkLatLong(p Point2LL, s []byte) (Point2LL, error) {
	if p[1] < -90 || p[1] > 90 || p[0] < -180 || p[0] > 180 {
		return Point2LL{}, fmt.Errorf("%s: latlong out of range", s)
	}
	return p.Normalize(), nil
}

///////////////////////////////////////////////////////////////////////////
// Spherical geometry

// UnitVector returns the point on the unit sphere for p. +y is the north
// pole and +z passes through (0,0), so that east is +x.
func UnitVector(p Point2LL) Vec3 {
	lat, lon := Radians(p[1]), Radians(p[0])
	return Vec3{Cos(lat) * Sin(lon), Sin(lat), Cos(lat) * Cos(lon)}
}

// Point2LLFromVector is the inverse of UnitVector; v need not be
// normalized but must not be zero.
func Point2LLFromVector(v Vec3) Point2LL {
	l := Length3(v)
	if l == 0 {
		return Point2LL{}
	}
	lat := Degrees(SafeASin(v[1] / l))
	lon := Degrees(Atan2(v[0], v[2]))
	return Point2LL{lon, lat}.Normalize()
}

// AngularDistance2LL returns the great-circle distance between two
// points, in degrees of arc.
func AngularDistance2LL(a Point2LL, b Point2LL) float64 {
	// https://www.movable-type.co.uk/scripts/latlong.html
	lat1, lon1 := Radians(a[1]), Radians(a[0])
	lat2, lon2 := Radians(b[1]), Radians(b[0])
	dlat, dlon := lat2-lat1, lon2-lon1

	x := Sqr(Sin(dlat/2)) + Cos(lat1)*Cos(lat2)*Sqr(Sin(dlon/2))
	// Rounding can push x slightly outside [0,1] for antipodal points.
	x = Clamp(x, 0, 1)
	c := 2 * Atan2(Sqrt(x), Sqrt(1-x))
	return Degrees(c)
}

// NMDistance2LL returns the distance in nautical miles between two
// provided lat-long coordinates.
func NMDistance2LL(a Point2LL, b Point2LL) float64 {
	return AngularDistance2LL(a, b) * NMPerLatitude
}

// InitialBearing2LL returns the true course in degrees, [0,360), at a
// for the great circle from a to b.
func InitialBearing2LL(a Point2LL, b Point2LL) float64 {
	lat1, lat2 := Radians(a[1]), Radians(b[1])
	dlon := Radians(b[0] - a[0])
	y := Sin(dlon) * Cos(lat2)
	x := Cos(lat1)*Sin(lat2) - Sin(lat1)*Cos(lat2)*Cos(dlon)
	return NormalizeHeading(Degrees(Atan2(y, x)))
}

// Offset2LL returns the point reached by following the great circle with
// initial course hdg for dist nautical miles from p.
func Offset2LL(p Point2LL, hdg float64, dist float64) Point2LL {
	delta := Radians(dist / NMPerLatitude)
	theta := Radians(hdg)
	lat1, lon1 := Radians(p[1]), Radians(p[0])

	lat2 := SafeASin(Sin(lat1)*Cos(delta) + Cos(lat1)*Sin(delta)*Cos(theta))
	lon2 := lon1 + Atan2(Sin(theta)*Sin(delta)*Cos(lat1), Cos(delta)-Sin(lat1)*Sin(lat2))
	return Point2LL{Degrees(lon2), Degrees(lat2)}.Normalize()
}

// NormalizeHeading reduces a heading to [0,360).
func NormalizeHeading(h float64) float64 {
	h = gomath.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// ShortCompass converts a heading expressed in degrees into an abbreviated
// string corresponding to the closest compass direction.
func ShortCompass(heading float64) string {
	h := NormalizeHeading(heading + 22.5) // now [0,45] is north, etc...
	idx := int(h/45) % 8
	return [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}[idx]
}
