// math/vecmat.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

///////////////////////////////////////////////////////////////////////////
// point 2f

// Various useful functions for arithmetic with 2D points/vectors.
// Names are brief in order to avoid clutter when they're used.

// a+b
func Add2f(a [2]float64, b [2]float64) [2]float64 {
	return [2]float64{a[0] + b[0], a[1] + b[1]}
}

// a-b
func Sub2f(a [2]float64, b [2]float64) [2]float64 {
	return [2]float64{a[0] - b[0], a[1] - b[1]}
}

// Length of v
func Length2f(v [2]float64) float64 {
	return Sqrt(v[0]*v[0] + v[1]*v[1])
}

// Distance between two points
func Distance2f(a [2]float64, b [2]float64) float64 {
	return Length2f(Sub2f(a, b))
}

// Rotator2f returns a function that rotates points by the specified angle
// (given in degrees), counter-clockwise in a y-up frame.
func Rotator2f(angle float64) func([2]float64) [2]float64 {
	s, c := Sin(Radians(angle)), Cos(Radians(angle))
	return func(p [2]float64) [2]float64 {
		return [2]float64{c*p[0] - s*p[1], s*p[0] + c*p[1]}
	}
}

///////////////////////////////////////////////////////////////////////////
// 3-vectors

type Vec3 [3]float64

func Dot3(a, b Vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func Length3(v Vec3) float64 {
	return Sqrt(Dot3(v, v))
}

///////////////////////////////////////////////////////////////////////////
// 3x3 matrix

type Matrix3 [3][3]float64

// RotateX returns the matrix for a rotation of the given number of
// degrees about the x axis; +y goes toward +z.
func RotateX(deg float64) Matrix3 {
	s, c := Sin(Radians(deg)), Cos(Radians(deg))
	return Matrix3{
		{1, 0, 0},
		{0, c, -s},
		{0, s, c}}
}

// RotateY returns the matrix for a rotation of the given number of
// degrees about the y axis; +z goes toward +x.
func RotateY(deg float64) Matrix3 {
	s, c := Sin(Radians(deg)), Cos(Radians(deg))
	return Matrix3{
		{c, 0, s},
		{0, 1, 0},
		{-s, 0, c}}
}

// RotateZ returns the matrix for a rotation of the given number of
// degrees about the z axis; +x goes toward +y.
func RotateZ(deg float64) Matrix3 {
	s, c := Sin(Radians(deg)), Cos(Radians(deg))
	return Matrix3{
		{c, -s, 0},
		{s, c, 0},
		{0, 0, 1}}
}

// PostMultiply returns m*m2, so m2 is applied to points first.
func (m Matrix3) PostMultiply(m2 Matrix3) Matrix3 {
	var result Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			result[i][j] = m[i][0]*m2[0][j] + m[i][1]*m2[1][j] + m[i][2]*m2[2][j]
		}
	}
	return result
}

// Transpose of a rotation matrix is its inverse.
func (m Matrix3) Transpose() Matrix3 {
	var r Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[j][i]
		}
	}
	return r
}

func (m Matrix3) TransformVector(v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}
