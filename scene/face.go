// SPDX-License-Identifier: GPL-2.0-or-later

package scene

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"quakeed/math/vec"
	"quakeed/texture"
)

// FaceAttributes are the texturing parameters of a face. Surface contents,
// flags and value are only written by formats supporting them.
type FaceAttributes struct {
	TextureName     string
	XOffset         float32
	YOffset         float32
	Rotation        float32
	XScale          float32
	YScale          float32
	SurfaceContents int32
	SurfaceFlags    int32
	SurfaceValue    float32
}

func DefaultFaceAttributes(textureName string) FaceAttributes {
	return FaceAttributes{TextureName: textureName, XScale: 1, YScale: 1}
}

// BrushFace is one boundary plane of a brush given by three points.
type BrushFace struct {
	brush   *Brush
	points  [3]vec.Vec3
	plane   vec.Plane
	attribs FaceAttributes

	// resolved from attribs.TextureName, nil if unresolved
	texture *texture.Texture
}

var ErrColinearPoints = errors.New("face points are colinear")

func NewBrushFace(p0, p1, p2 vec.Vec3, attribs FaceAttributes) (*BrushFace, error) {
	f := &BrushFace{attribs: attribs}
	if err := f.setPoints([3]vec.Vec3{p0, p1, p2}); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *BrushFace) setPoints(p [3]vec.Vec3) error {
	pl, ok := planeFromPoints(p)
	if !ok {
		return errors.Wrapf(ErrColinearPoints, "( %v ) ( %v ) ( %v )", p[0], p[1], p[2])
	}
	f.points = p
	f.plane = pl
	return nil
}

func (f *BrushFace) Brush() *Brush {
	return f.brush
}

func (f *BrushFace) Points() [3]vec.Vec3 {
	return f.points
}

func (f *BrushFace) Plane() vec.Plane {
	return f.plane
}

func (f *BrushFace) Normal() vec.Vec3 {
	return f.plane.Normal
}

func (f *BrushFace) Attributes() FaceAttributes {
	return f.attribs
}

// SetAttributes replaces the attributes. A new texture name drops the
// texture binding.
func (f *BrushFace) SetAttributes(a FaceAttributes) {
	if a.TextureName != f.attribs.TextureName {
		f.UnbindTexture()
	}
	f.attribs = a
}

func (f *BrushFace) TextureName() string {
	return f.attribs.TextureName
}

func (f *BrushFace) SetTextureName(name string) {
	a := f.attribs
	a.TextureName = name
	f.SetAttributes(a)
}

func (f *BrushFace) Texture() *texture.Texture {
	return f.texture
}

// BindTexture resolves the face to t, nil unbinds.
func (f *BrushFace) BindTexture(t *texture.Texture) {
	if f.texture == t {
		return
	}
	f.UnbindTexture()
	if t != nil {
		t.IncUsage()
	}
	f.texture = t
}

func (f *BrushFace) UnbindTexture() {
	if f.texture != nil {
		f.texture.DecUsage()
		f.texture = nil
	}
}

// Vertices returns the brush vertices lying on the face.
func (f *BrushFace) Vertices() []vec.Vec3 {
	if f.brush == nil {
		return nil
	}
	var r []vec.Vec3
	for _, v := range f.brush.vertices {
		if math32.Abs(f.plane.Distance(v)) <= pointEpsilon {
			r = append(r, v)
		}
	}
	return r
}

func (f *BrushFace) clone() *BrushFace {
	return &BrushFace{
		points:  f.points,
		plane:   f.plane,
		attribs: f.attribs,
	}
}

// Quake's paraxial texture projection: the first vector of every triple
// is the axis a face normal is matched against.
var baseAxes = [18]vec.Vec3{
	{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: -1, Z: 0}, // floor
	{X: 0, Y: 0, Z: -1}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: -1, Z: 0}, // ceiling
	{X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: -1}, // west wall
	{X: -1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: -1}, // east wall
	{X: 0, Y: 1, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 0, Z: -1}, // south wall
	{X: 0, Y: -1, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 0, Z: -1}, // north wall
}

func scaleOr1(s float32) float32 {
	if s == 0 {
		return 1
	}
	return s
}

// TextureAxes returns the projected texture axes including rotation but
// not scale.
func (f *BrushFace) TextureAxes() (vec.Vec3, vec.Vec3) {
	best := 0
	bestDot := float32(-2)
	for i := 0; i < 6; i++ {
		d := vec.Dot(f.plane.Normal, baseAxes[i*3])
		if d > bestDot {
			bestDot = d
			best = i
		}
	}
	x := baseAxes[best*3+1]
	y := baseAxes[best*3+2]
	s, c := math32.Sincos(f.attribs.Rotation * math32.Pi / 180)
	sv := x.MajorAxis()
	tv := y.MajorAxis()
	rot := func(v vec.Vec3) vec.Vec3 {
		ns := c*v.Idx(sv) - s*v.Idx(tv)
		nt := s*v.Idx(sv) + c*v.Idx(tv)
		v.SetIdx(sv, ns)
		v.SetIdx(tv, nt)
		return v
	}
	return rot(x), rot(y)
}

// TexCoords returns the texture coordinates of p in texels.
func (f *BrushFace) TexCoords(p vec.Vec3) (float32, float32) {
	x, y := f.TextureAxes()
	return vec.Dot(p, x)/scaleOr1(f.attribs.XScale) + f.attribs.XOffset,
		vec.Dot(p, y)/scaleOr1(f.attribs.YScale) + f.attribs.YOffset
}

func (f *BrushFace) translate(d vec.Vec3, lockTexture bool) {
	if lockTexture {
		x, y := f.TextureAxes()
		f.attribs.XOffset -= vec.Dot(d, x) / scaleOr1(f.attribs.XScale)
		f.attribs.YOffset -= vec.Dot(d, y) / scaleOr1(f.attribs.YScale)
	}
	for i := range f.points {
		f.points[i] = vec.Add(f.points[i], d)
	}
	f.plane = f.plane.Translate(d)
}
