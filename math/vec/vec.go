// SPDX-License-Identifier: GPL-2.0-or-later

package vec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

type Vec3 struct {
	X, Y, Z float32
}

var (
	PosX = Vec3{1, 0, 0}
	PosY = Vec3{0, 1, 0}
	PosZ = Vec3{0, 0, 1}
)

func VFromA(a [3]float32) Vec3 {
	return Vec3{a[0], a[1], a[2]}
}

func (v Vec3) Array() [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

func (v Vec3) Idx(i int) float32 {
	switch i {
	default:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
}

func (v *Vec3) SetIdx(i int, f float32) {
	switch i {
	default:
		v.X = f
	case 1:
		v.Y = f
	case 2:
		v.Z = f
	}
}

// Length returns the length of the vector
func (v Vec3) Length() float32 {
	return math32.Sqrt(Dot(v, v))
}

// Add returns a + b
func Add(a, b Vec3) Vec3 {
	return Vec3{
		X: a.X + b.X,
		Y: a.Y + b.Y,
		Z: a.Z + b.Z,
	}
}

// Sub returns a - b
func Sub(a, b Vec3) Vec3 {
	return Vec3{
		X: a.X - b.X,
		Y: a.Y - b.Y,
		Z: a.Z - b.Z,
	}
}

// Scale returns the vector multiplied by the skalar s
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{
		X: v.X * s,
		Y: v.Y * s,
		Z: v.Z * s,
	}
}

func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Normalize returns the normalized vector
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Dot returns a dot b
func Dot(a Vec3, b Vec3) float32 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns a cross b
func Cross(a, b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Lerp computes a weighted average between two points
func Lerp(a, b Vec3, frac float32) Vec3 {
	fi := 1 - frac
	return Vec3{
		fi*a.X + frac*b.X,
		fi*a.Y + frac*b.Y,
		fi*a.Z + frac*b.Z,
	}
}

// Equal returns a == b
func Equal(a Vec3, b Vec3) bool {
	return a.X == b.X && a.Y == b.Y && a.Z == b.Z
}

// Near reports whether every component of a and b differs by at most eps.
func Near(a, b Vec3, eps float32) bool {
	return math32.Abs(a.X-b.X) <= eps &&
		math32.Abs(a.Y-b.Y) <= eps &&
		math32.Abs(a.Z-b.Z) <= eps
}

// Min returns the component wise minimum.
func Min(a, b Vec3) Vec3 {
	return Vec3{math32.Min(a.X, b.X), math32.Min(a.Y, b.Y), math32.Min(a.Z, b.Z)}
}

// Max returns the component wise maximum.
func Max(a, b Vec3) Vec3 {
	return Vec3{math32.Max(a.X, b.X), math32.Max(a.Y, b.Y), math32.Max(a.Z, b.Z)}
}

func minmax(a, b float32) (float32, float32) {
	if a < b {
		return a, b
	}
	return b, a
}

func MinMax(a, b Vec3) (Vec3, Vec3) {
	var r, s Vec3
	r.X, s.X = minmax(a.X, b.X)
	r.Y, s.Y = minmax(a.Y, b.Y)
	r.Z, s.Z = minmax(a.Z, b.Z)
	return r, s
}

// MajorAxis returns the index of the component with the largest magnitude.
func (v Vec3) MajorAxis() int {
	ax, ay, az := math32.Abs(v.X), math32.Abs(v.Y), math32.Abs(v.Z)
	switch {
	case ax >= ay && ax >= az:
		return 0
	case ay >= az:
		return 1
	default:
		return 2
	}
}

// Rotate rotates v around the unit axis by angle degrees (right handed).
func Rotate(v, axis Vec3, angle float32) Vec3 {
	s, c := math32.Sincos(angle * math32.Pi / 180)
	k := axis.Normalize()
	// Rodrigues: v*c + (k x v)*s + k*(k.v)*(1-c)
	r := Add(v.Scale(c), Cross(k, v).Scale(s))
	return Add(r, k.Scale(Dot(k, v)*(1-c)))
}

// Round snaps every component to the nearest integer if it is within eps.
func (v Vec3) Round(eps float32) Vec3 {
	r := func(f float32) float32 {
		n := math32.Floor(f + 0.5)
		if math32.Abs(n-f) <= eps {
			return n
		}
		return f
	}
	return Vec3{r(v.X), r(v.Y), r(v.Z)}
}

func (v Vec3) String() string {
	return fmt.Sprintf("%s %s %s", fmtFloat(v.X), fmtFloat(v.Y), fmtFloat(v.Z))
}

func fmtFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

// Parse reads a vector in the "x y z" notation used by entity properties.
func Parse(s string) (Vec3, error) {
	fs := strings.Fields(s)
	if len(fs) != 3 {
		return Vec3{}, errors.Errorf("vec: %q has %d components, want 3", s, len(fs))
	}
	var r [3]float32
	for i, f := range fs {
		p, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return Vec3{}, errors.Wrapf(err, "vec: bad component %q", f)
		}
		r[i] = float32(p)
	}
	return VFromA(r), nil
}
