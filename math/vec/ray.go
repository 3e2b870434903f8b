// SPDX-License-Identifier: GPL-2.0-or-later

package vec

import (
	"github.com/chewxy/math32"
)

// Ray3 is a half line. Direction is always of unit length so distances
// along the ray are euclidean.
type Ray3 struct {
	Origin    Vec3
	Direction Vec3
}

func NewRay(origin, direction Vec3) Ray3 {
	return Ray3{Origin: origin, Direction: direction.Normalize()}
}

func (r Ray3) PointAt(t float32) Vec3 {
	return Add(r.Origin, r.Direction.Scale(t))
}

// Plane is the set of points p with Dot(Normal, p) == Dist.
type Plane struct {
	Normal Vec3
	Dist   float32
}

// PlaneFromPoints builds the plane through three points using the map file
// winding: normal = (p2-p0) x (p1-p0). It fails for colinear points.
func PlaneFromPoints(p0, p1, p2 Vec3) (Plane, bool) {
	n := Cross(Sub(p2, p0), Sub(p1, p0))
	l := n.Length()
	if l < 1e-6 {
		return Plane{}, false
	}
	n = n.Scale(1 / l)
	return Plane{Normal: n, Dist: Dot(n, p0)}, true
}

// Distance is positive for points in front of the plane.
func (p Plane) Distance(v Vec3) float32 {
	return Dot(p.Normal, v) - p.Dist
}

// IntersectRay returns the distance along r to p or NaN if r is parallel.
func (p Plane) IntersectRay(r Ray3) float32 {
	d := Dot(p.Normal, r.Direction)
	if math32.Abs(d) < 1e-7 {
		return math32.NaN()
	}
	return -p.Distance(r.Origin) / d
}

func (p Plane) Translate(d Vec3) Plane {
	return Plane{Normal: p.Normal, Dist: p.Dist + Dot(p.Normal, d)}
}
