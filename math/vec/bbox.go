// SPDX-License-Identifier: GPL-2.0-or-later

package vec

import (
	"github.com/chewxy/math32"
)

// BBox3 is an axis aligned bounding box. The zero value is the box
// containing only the origin, EmptyBox() contains nothing.
type BBox3 struct {
	Min, Max Vec3
}

func NewBBox(a, b Vec3) BBox3 {
	mi, ma := MinMax(a, b)
	return BBox3{mi, ma}
}

// Cube returns the box [min,max] on every axis.
func Cube(min, max float32) BBox3 {
	return BBox3{Vec3{min, min, min}, Vec3{max, max, max}}
}

// EmptyBox returns a box that merges as identity.
func EmptyBox() BBox3 {
	inf := math32.Inf(1)
	return BBox3{Vec3{inf, inf, inf}, Vec3{-inf, -inf, -inf}}
}

func (b BBox3) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

func (b BBox3) Merge(o BBox3) BBox3 {
	return BBox3{Min(b.Min, o.Min), Max(b.Max, o.Max)}
}

func (b BBox3) MergePoint(p Vec3) BBox3 {
	return BBox3{Min(b.Min, p), Max(b.Max, p)}
}

func (b BBox3) Translate(d Vec3) BBox3 {
	return BBox3{Add(b.Min, d), Add(b.Max, d)}
}

func (b BBox3) Center() Vec3 {
	return Lerp(b.Min, b.Max, 0.5)
}

func (b BBox3) Size() Vec3 {
	return Sub(b.Max, b.Min)
}

// SurfaceArea is used as insertion cost by the picker. Empty boxes have no area.
func (b BBox3) SurfaceArea() float32 {
	if b.IsEmpty() {
		return 0
	}
	s := b.Size()
	return 2 * (s.X*s.Y + s.Y*s.Z + s.Z*s.X)
}

func (b BBox3) ContainsPoint(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

func (b BBox3) Contains(o BBox3) bool {
	return b.ContainsPoint(o.Min) && b.ContainsPoint(o.Max)
}

func (b BBox3) Intersects(o BBox3) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// IntersectRay returns the distance along r to the first point of b, or
// to the exit point if the origin lies inside. It returns NaN if r misses b.
func (b BBox3) IntersectRay(r Ray3) float32 {
	if b.IsEmpty() {
		return math32.NaN()
	}
	tmin := math32.Inf(-1)
	tmax := math32.Inf(1)
	for i := 0; i < 3; i++ {
		o := r.Origin.Idx(i)
		d := r.Direction.Idx(i)
		lo := b.Min.Idx(i)
		hi := b.Max.Idx(i)
		if d == 0 {
			if o < lo || o > hi {
				return math32.NaN()
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return math32.NaN()
		}
	}
	if tmax < 0 {
		return math32.NaN()
	}
	if tmin < 0 {
		return tmax
	}
	return tmin
}

// Corners returns the eight corner points.
func (b BBox3) Corners() [8]Vec3 {
	return [8]Vec3{
		{b.Min.X, b.Min.Y, b.Min.Z},
		{b.Min.X, b.Min.Y, b.Max.Z},
		{b.Min.X, b.Max.Y, b.Min.Z},
		{b.Min.X, b.Max.Y, b.Max.Z},
		{b.Max.X, b.Min.Y, b.Min.Z},
		{b.Max.X, b.Min.Y, b.Max.Z},
		{b.Max.X, b.Max.Y, b.Min.Z},
		{b.Max.X, b.Max.Y, b.Max.Z},
	}
}
