// math/sun.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import "time"

// Julian date of the J2000.0 epoch
const j2000 = 2451545.0

// JulianDate returns the Julian date for the given time.
func JulianDate(t time.Time) float64 {
	return float64(t.UTC().UnixNano())/(86400*1e9) + 2440587.5
}

// GMST returns Greenwich mean sidereal time in degrees, [0,360).
func GMST(t time.Time) float64 {
	n := JulianDate(t) - j2000
	return NormalizeHeading(280.46061837 + 360.98564736629*n)
}

// SubsolarPoint returns the point on the Earth where the sun is at the
// zenith at time t. The low-precision solar coordinates from the
// Astronomical Almanac are good to about 0.01 degrees, which is far more
// than the day/night shading needs.
func SubsolarPoint(t time.Time) Point2LL {
	n := JulianDate(t) - j2000

	// Mean longitude and mean anomaly
	L := NormalizeHeading(280.460 + 0.9856474*n)
	g := Radians(NormalizeHeading(357.528 + 0.9856003*n))

	// Ecliptic longitude and obliquity
	lambda := Radians(L + 1.915*Sin(g) + 0.020*Sin(2*g))
	epsilon := Radians(23.439 - 0.0000004*n)

	decl := SafeASin(Sin(epsilon) * Sin(lambda))
	ra := Degrees(Atan2(Cos(epsilon)*Sin(lambda), Cos(lambda)))

	return Point2LL{NormalizeAngle(ra - GMST(t)), Degrees(decl)}
}

// SolarZenithAngle returns the angle in degrees between the local
// vertical at p and the direction to the sun at time t.
func SolarZenithAngle(t time.Time, p Point2LL) float64 {
	return AngularDistance2LL(p, SubsolarPoint(t))
}

// Zenith angles of the sun's centre at which the various twilights end.
const (
	ZenithSunset        = 90.833 // includes refraction and the solar radius
	ZenithCivilTwilight = 96
)

// IsDaylight reports whether any part of the sun is above the horizon at
// p at time t.
func IsDaylight(t time.Time, p Point2LL) bool {
	return SolarZenithAngle(t, p) < ZenithSunset
}
