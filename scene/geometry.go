// SPDX-License-Identifier: GPL-2.0-or-later

package scene

import (
	"math"

	"quakeed/math/vec"
)

const (
	pointEpsilon = 0.01
	// geometry is computed in float64, map coordinates are large enough
	// for float32 plane intersections to drift
	geoEpsilon = 1e-3
)

type dvec [3]float64

func toD(v vec.Vec3) dvec {
	return dvec{float64(v.X), float64(v.Y), float64(v.Z)}
}

func (a dvec) vec() vec.Vec3 {
	return vec.Vec3{X: float32(a[0]), Y: float32(a[1]), Z: float32(a[2])}
}

func (a dvec) sub(b dvec) dvec {
	return dvec{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func (a dvec) add(b dvec) dvec {
	return dvec{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func (a dvec) scale(s float64) dvec {
	return dvec{a[0] * s, a[1] * s, a[2] * s}
}

func (a dvec) dot(b dvec) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func (a dvec) cross(b dvec) dvec {
	return dvec{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

type dplane struct {
	n dvec
	d float64
}

func dplaneFromPoints(p [3]vec.Vec3) (dplane, bool) {
	p0, p1, p2 := toD(p[0]), toD(p[1]), toD(p[2])
	n := p2.sub(p0).cross(p1.sub(p0))
	l := math.Sqrt(n.dot(n))
	if l < 1e-9 {
		return dplane{}, false
	}
	n = n.scale(1 / l)
	return dplane{n: n, d: n.dot(p0)}, true
}

func planeFromPoints(p [3]vec.Vec3) (vec.Plane, bool) {
	d, ok := dplaneFromPoints(p)
	if !ok {
		return vec.Plane{}, false
	}
	return vec.Plane{Normal: d.n.vec(), Dist: float32(d.d)}, true
}

func intersect3(a, b, c dplane) (dvec, bool) {
	bc := b.n.cross(c.n)
	den := a.n.dot(bc)
	if math.Abs(den) < 1e-9 {
		return dvec{}, false
	}
	p := bc.scale(a.d).add(c.n.cross(a.n).scale(b.d)).add(a.n.cross(b.n).scale(c.d))
	return p.scale(1 / den), true
}

// polyhedron returns the vertices of the intersection of the half spaces
// behind the face planes and the number of vertices on each face.
func polyhedron(faces []*BrushFace) ([]vec.Vec3, []int) {
	planes := make([]dplane, len(faces))
	for i, f := range faces {
		planes[i], _ = dplaneFromPoints(f.points)
	}
	var verts []dvec
	for i := 0; i < len(planes); i++ {
		for j := i + 1; j < len(planes); j++ {
			for k := j + 1; k < len(planes); k++ {
				p, ok := intersect3(planes[i], planes[j], planes[k])
				if !ok {
					continue
				}
				inside := true
				for _, pl := range planes {
					if pl.n.dot(p)-pl.d > geoEpsilon {
						inside = false
						break
					}
				}
				if !inside {
					continue
				}
				dup := false
				for _, v := range verts {
					d := v.sub(p)
					if d.dot(d) < geoEpsilon*geoEpsilon {
						dup = true
						break
					}
				}
				if !dup {
					verts = append(verts, p)
				}
			}
		}
	}
	counts := make([]int, len(planes))
	r := make([]vec.Vec3, len(verts))
	for i, v := range verts {
		for j, pl := range planes {
			if math.Abs(pl.n.dot(v)-pl.d) <= geoEpsilon {
				counts[j]++
			}
		}
		r[i] = snap(v).vec()
	}
	return r, counts
}

// snap removes float noise from vertices that are meant to be integral.
func snap(v dvec) dvec {
	for i, c := range v {
		if r := math.Round(c); math.Abs(r-c) < 1e-6 {
			v[i] = r
		}
	}
	return v
}
