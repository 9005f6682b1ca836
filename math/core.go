// math/core.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"

	"golang.org/x/exp/constraints"
)

// Everything in this package works in float64; small differences of
// nearly-equal angles show up as visible jitter on the globe at high
// zoom when float32 is used.

// Degrees converts an angle expressed in radians to degrees.
func Degrees(r float64) float64 {
	return r * 180 / gomath.Pi
}

// Radians converts an angle expressed in degrees to radians.
func Radians(d float64) float64 {
	return d / 180 * gomath.Pi
}

func Sin(a float64) float64 { return gomath.Sin(a) }
func Cos(a float64) float64 { return gomath.Cos(a) }

func Atan2(y, x float64) float64 { return gomath.Atan2(y, x) }

func Sqrt(a float64) float64 { return gomath.Sqrt(a) }

func SafeASin(a float64) float64 {
	return gomath.Asin(Clamp(a, -1, 1))
}

func Mod(a, b float64) float64 {
	return gomath.Mod(a, b)
}

func Floor(v float64) float64 {
	return gomath.Floor(v)
}

func Pow(a, b float64) float64 {
	return gomath.Pow(a, b)
}

func Abs[V constraints.Integer | constraints.Float](x V) V {
	if x < 0 {
		return -x
	}
	return x
}

func Sqr[V constraints.Integer | constraints.Float](v V) V { return v * v }

func Clamp[T constraints.Ordered](x T, low T, high T) T {
	if x < low {
		return low
	} else if x > high {
		return high
	}
	return x
}

func Lerp(x, a, b float64) float64 {
	return (1-x)*a + x*b
}

// SmoothStep is the usual cubic ease-in/ease-out curve over [0,1].
func SmoothStep(x float64) float64 {
	x = Clamp(x, 0, 1)
	return x * x * (3 - 2*x)
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !gomath.IsNaN(v) && !gomath.IsInf(v, 0)
}

// NormalizeAngle reduces an angle in degrees to (-180,180].
func NormalizeAngle(a float64) float64 {
	a = gomath.Mod(a, 360)
	if a <= -180 {
		a += 360
	} else if a > 180 {
		a -= 360
	}
	return a
}

// AngleDifference returns the signed difference b-a in degrees, reduced
// to (-180,180].
func AngleDifference(a, b float64) float64 {
	return NormalizeAngle(b - a)
}
