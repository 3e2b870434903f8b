// SPDX-License-Identifier: GPL-2.0-or-later

package scene

import (
	"github.com/chewxy/math32"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	qmath "quakeed/math"
	"quakeed/math/vec"
)

var ErrInvalidBrush = errors.New("brush is not a closed convex solid")

// Brush is a convex solid bounded by its faces. Face normals point out.
type Brush struct {
	id       uuid.UUID
	entity   *Entity
	faces    []*BrushFace
	vertices []vec.Vec3
	bounds   vec.BBox3
}

func NewBrush(faces []*BrushFace) (*Brush, error) {
	b := &Brush{id: newID(), faces: faces}
	if err := b.updateGeometry(); err != nil {
		return nil, err
	}
	for _, f := range faces {
		f.brush = b
	}
	return b, nil
}

func (b *Brush) isObject() {}

func (b *Brush) ID() uuid.UUID {
	return b.id
}

func (b *Brush) Type() Type {
	return BrushType
}

func (b *Brush) Bounds() vec.BBox3 {
	return b.bounds
}

// Entity returns the owning entity or nil for a detached brush.
func (b *Brush) Entity() *Entity {
	return b.entity
}

func (b *Brush) Faces() []*BrushFace {
	return b.faces
}

func (b *Brush) Vertices() []vec.Vec3 {
	return b.vertices
}

func (b *Brush) updateGeometry() error {
	if len(b.faces) < 4 {
		return errors.Wrapf(ErrInvalidBrush, "%d faces", len(b.faces))
	}
	verts, counts := polyhedron(b.faces)
	used := 0
	for _, c := range counts {
		if c >= 3 {
			used++
		}
	}
	if len(verts) < 4 || used < 4 {
		return errors.Wrapf(ErrInvalidBrush, "%d vertices", len(verts))
	}
	b.vertices = verts
	bounds := vec.EmptyBox()
	for _, v := range verts {
		bounds = bounds.MergePoint(v)
	}
	b.bounds = bounds
	return nil
}

// Pick clips r against all face planes. A ray starting inside the brush
// hits the face it leaves through.
func (b *Brush) Pick(r vec.Ray3) (Hit, bool) {
	tEnter := math32.Inf(-1)
	tExit := math32.Inf(1)
	var enter, exit *BrushFace
	for _, f := range b.faces {
		den := vec.Dot(f.plane.Normal, r.Direction)
		dist := f.plane.Distance(r.Origin)
		if math32.Abs(den) < 1e-7 {
			if dist > pointEpsilon {
				return Hit{}, false
			}
			continue
		}
		t := -dist / den
		if den < 0 {
			if t > tEnter {
				tEnter = t
				enter = f
			}
		} else if t < tExit {
			tExit = t
			exit = f
		}
	}
	if tEnter > tExit || tExit < 0 {
		return Hit{}, false
	}
	h := Hit{Object: b, Face: enter, Distance: tEnter}
	if enter == nil || tEnter < 0 {
		h.Face = exit
		h.Distance = tExit
	}
	h.Point = r.PointAt(h.Distance)
	return h, true
}

func (b *Brush) Translate(d vec.Vec3, lockTextures bool) {
	for _, f := range b.faces {
		f.translate(d, lockTextures)
	}
	for i, v := range b.vertices {
		b.vertices[i] = vec.Add(v, d)
	}
	b.bounds = b.bounds.Translate(d)
}

// Rotate turns the brush by angle degrees around the axis through center.
// With lockTextures faces perpendicular to the axis keep their texture
// orientation.
func (b *Brush) Rotate(center, axis vec.Vec3, angle float32, lockTextures bool) error {
	snap := b.Snapshot()
	axis = axis.Normalize()
	for _, f := range b.faces {
		var p [3]vec.Vec3
		for i, v := range f.points {
			p[i] = vec.Add(vec.Rotate(vec.Sub(v, center), axis, angle), center).Round(1e-3)
		}
		if err := f.setPoints(p); err != nil {
			b.Restore(snap)
			return err
		}
		if lockTextures {
			if d := vec.Dot(f.plane.Normal, axis); d > 0.999 {
				f.attribs.Rotation = qmath.AngleMod32(f.attribs.Rotation + angle)
			} else if d < -0.999 {
				f.attribs.Rotation = qmath.AngleMod32(f.attribs.Rotation - angle)
			}
		}
	}
	if err := b.updateGeometry(); err != nil {
		b.Restore(snap)
		return err
	}
	return nil
}

func (b *Brush) indexOf(f *BrushFace) int {
	for i, o := range b.faces {
		if o == f {
			return i
		}
	}
	return -1
}

// MoveFace pushes f along its normal by dist. The brush is left unchanged
// if the result is not a valid brush or f would vanish.
func (b *Brush) MoveFace(f *BrushFace, dist float32) error {
	i := b.indexOf(f)
	if i < 0 {
		return errors.New("face does not belong to brush")
	}
	snap := b.Snapshot()
	f.translate(f.plane.Normal.Scale(dist), false)
	if err := b.updateGeometry(); err != nil {
		b.Restore(snap)
		return err
	}
	if len(f.Vertices()) < 3 {
		b.Restore(snap)
		return errors.Wrap(ErrInvalidBrush, "face would vanish")
	}
	return nil
}

// Clone returns a detached deep copy with a new id and no texture bindings.
func (b *Brush) Clone() *Brush {
	c := &Brush{
		id:       newID(),
		vertices: append([]vec.Vec3(nil), b.vertices...),
		bounds:   b.bounds,
	}
	for _, f := range b.faces {
		nf := f.clone()
		nf.brush = c
		c.faces = append(c.faces, nf)
	}
	return c
}

type faceState struct {
	points  [3]vec.Vec3
	attribs FaceAttributes
}

// BrushSnapshot records face planes and attributes so that a brush can be
// restored without replacing its faces.
type BrushSnapshot struct {
	faces []faceState
}

func (b *Brush) Snapshot() BrushSnapshot {
	s := BrushSnapshot{faces: make([]faceState, len(b.faces))}
	for i, f := range b.faces {
		s.faces[i] = faceState{points: f.points, attribs: f.attribs}
	}
	return s
}

func (b *Brush) Restore(s BrushSnapshot) error {
	if len(s.faces) != len(b.faces) {
		return errors.New("snapshot does not match brush")
	}
	for i, f := range b.faces {
		if err := f.setPoints(s.faces[i].points); err != nil {
			return err
		}
		f.SetAttributes(s.faces[i].attribs)
	}
	return b.updateGeometry()
}
