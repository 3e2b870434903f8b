// SPDX-License-Identifier: GPL-2.0-or-later

package camera

import (
	"fmt"

	"github.com/chewxy/math32"

	"quakeed/math/vec"
)

// Matrix is a row major 4x4 matrix.
type Matrix struct {
	m [16]float32
}

func (m *Matrix) String() string {
	return fmt.Sprintf("%v %v %v %v\n%v %v %v %v\n%v %v %v %v\n%v %v %v %v",
		m.m[0], m.m[1], m.m[2], m.m[3],
		m.m[4], m.m[5], m.m[6], m.m[7],
		m.m[8], m.m[9], m.m[10], m.m[11],
		m.m[12], m.m[13], m.m[14], m.m[15],
	)
}

func deg2rad(deg float32) float32 {
	return (deg / 180) * math32.Pi
}

func Identity() *Matrix {
	return &Matrix{
		m: [16]float32{
			1, 0, 0, 0, // 0 - 3
			0, 1, 0, 0, // 4 - 7
			0, 0, 1, 0, // 8 - 11
			0, 0, 0, 1, // 12 - 15
		},
	}
}

// Basis returns the matrix with the rows x, y and z.
func Basis(x, y, z vec.Vec3) *Matrix {
	return &Matrix{
		m: [16]float32{
			x.X, x.Y, x.Z, 0,
			y.X, y.Y, y.Z, 0,
			z.X, z.Y, z.Z, 0,
			0, 0, 0, 1,
		},
	}
}

func (m *Matrix) Copy() *Matrix {
	nm := &Matrix{}
	copy(nm.m[:], m.m[:])
	return nm
}

func (m *Matrix) Translate(x, y, z float32) {
	// 1, 0, 0, x
	// 0, 1, 0, y
	// 0, 0, 1, z
	// 0, 0, 0, 1
	// compute m*t
	n := [16]float32{
		m.m[0], m.m[1], m.m[2], x*m.m[0] + y*m.m[1] + z*m.m[2] + m.m[3],
		m.m[4], m.m[5], m.m[6], x*m.m[4] + y*m.m[5] + z*m.m[6] + m.m[7],
		m.m[8], m.m[9], m.m[10], x*m.m[8] + y*m.m[9] + z*m.m[10] + m.m[11],
		m.m[12], m.m[13], m.m[14], x*m.m[12] + y*m.m[13] + z*m.m[14] + m.m[15],
	}
	m.m = n
}

func (m *Matrix) RotateZ(degree float32) {
	sin, cos := math32.Sincos(deg2rad(degree))
	// cos, -sin, 0, 0
	// sin, cos, 0, 0
	// 0, 0, 1, 0
	// 0, 0, 0, 1
	// compute m*t
	n := [16]float32{
		cos*m.m[0] + sin*m.m[1], -sin*m.m[0] + cos*m.m[1], m.m[2], m.m[3],
		cos*m.m[4] + sin*m.m[5], -sin*m.m[4] + cos*m.m[5], m.m[6], m.m[7],
		cos*m.m[8] + sin*m.m[9], -sin*m.m[8] + cos*m.m[9], m.m[10], m.m[11],
		cos*m.m[12] + sin*m.m[13], -sin*m.m[12] + cos*m.m[13], m.m[14], m.m[15],
	}
	m.m = n
}

func (m *Matrix) Scale(x, y, z float32) {
	// x, 0, 0, 0
	// 0, y, 0, 0
	// 0, 0, z, 0
	// 0, 0, 0, 1
	// compute m*t
	n := [16]float32{
		x * m.m[0], y * m.m[1], z * m.m[2], m.m[3],
		x * m.m[4], y * m.m[5], z * m.m[6], m.m[7],
		x * m.m[8], y * m.m[9], z * m.m[10], m.m[11],
		x * m.m[12], y * m.m[13], z * m.m[14], m.m[15],
	}
	m.m = n
}

// Transform returns m*p for the point p. The result is not divided by w.
func (m *Matrix) Transform(p vec.Vec3) vec.Vec3 {
	return vec.Vec3{
		X: m.m[0]*p.X + m.m[1]*p.Y + m.m[2]*p.Z + m.m[3],
		Y: m.m[4]*p.X + m.m[5]*p.Y + m.m[6]*p.Z + m.m[7],
		Z: m.m[8]*p.X + m.m[9]*p.Y + m.m[10]*p.Z + m.m[11],
	}
}
