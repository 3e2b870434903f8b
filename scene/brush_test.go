// SPDX-License-Identifier: GPL-2.0-or-later

package scene

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quakeed/math/vec"
	"quakeed/texture"
)

func cube(t *testing.T, min, max float32) *Brush {
	t.Helper()
	b, err := BuildCuboid(vec.Cube(min, max), "base")
	require.NoError(t, err)
	return b
}

func TestBuildCuboid(t *testing.T) {
	b := cube(t, -32, 32)
	assert.Len(t, b.Faces(), 6)
	assert.Len(t, b.Vertices(), 8)
	assert.Equal(t, vec.Cube(-32, 32), b.Bounds())
	for _, f := range b.Faces() {
		assert.Len(t, f.Vertices(), 4)
		assert.InDelta(t, 32, f.Plane().Dist, 1e-4)
		assert.Same(t, b, f.Brush())
	}
}

func TestInvalidBrush(t *testing.T) {
	b := cube(t, 0, 16)
	_, err := NewBrush(b.Faces()[:3])
	assert.ErrorIs(t, err, ErrInvalidBrush)

	_, err = NewBrushFace(vec.Vec3{}, vec.Vec3{}, vec.PosX, DefaultFaceAttributes("x"))
	assert.ErrorIs(t, err, ErrColinearPoints)
}

// slab is an independent float64 ray/box test.
func slab(o, d [3]float64, min, max float64) (float64, bool) {
	tmin, tmax := -1e300, 1e300
	for i := 0; i < 3; i++ {
		if d[i] == 0 {
			if o[i] < min || o[i] > max {
				return 0, false
			}
			continue
		}
		t1 := (min - o[i]) / d[i]
		t2 := (max - o[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	}
	if tmin > tmax || tmax < 0 {
		return 0, false
	}
	return tmin, true
}

func TestPickLattice(t *testing.T) {
	b := cube(t, -32, 32)
	coords := []float32{-64, 48, 96}
	for _, x := range coords {
		for _, y := range coords {
			for _, z := range coords {
				o := vec.Vec3{X: x, Y: y, Z: z}
				r := vec.NewRay(o, o.Neg())
				h, ok := b.Pick(r)
				require.True(t, ok, "ray from %v", o)

				d := r.Direction
				want, hit := slab(
					[3]float64{float64(x), float64(y), float64(z)},
					[3]float64{float64(d.X), float64(d.Y), float64(d.Z)}, -32, 32)
				require.True(t, hit)
				assert.InDelta(t, want, h.Distance, 1e-3, "ray from %v", o)
				assert.InDelta(t, want, b.Bounds().IntersectRay(r), 1e-3)
				assert.NotNil(t, h.Face)
			}
		}
	}

	r := vec.NewRay(vec.Vec3{Y: -33, Z: -33}, vec.PosY)
	_, ok := b.Pick(r)
	assert.False(t, ok)
	assert.True(t, math32.IsNaN(b.Bounds().IntersectRay(r)))
}

func TestPickFace(t *testing.T) {
	b := cube(t, -32, 32)
	h, ok := b.Pick(vec.NewRay(vec.Vec3{Z: 100}, vec.PosZ.Neg()))
	require.True(t, ok)
	assert.InDelta(t, 68, h.Distance, 1e-4)
	assert.True(t, vec.Near(vec.PosZ, h.Face.Normal(), 1e-6))

	// from inside the exit face is hit
	h, ok = b.Pick(vec.NewRay(vec.Vec3{}, vec.PosX))
	require.True(t, ok)
	assert.InDelta(t, 32, h.Distance, 1e-4)
	assert.True(t, vec.Near(vec.PosX, h.Face.Normal(), 1e-6))
}

func TestTranslateTextureLock(t *testing.T) {
	b := cube(t, 0, 64)
	var top *BrushFace
	for _, f := range b.Faces() {
		if vec.Near(f.Normal(), vec.PosZ, 1e-6) {
			top = f
		}
	}
	require.NotNil(t, top)
	p := vec.Vec3{X: 16, Y: 16, Z: 64}
	s0, t0 := top.TexCoords(p)

	b.Translate(vec.Vec3{X: 8, Y: 4}, true)
	s1, t1 := top.TexCoords(vec.Add(p, vec.Vec3{X: 8, Y: 4}))
	assert.InDelta(t, s0, s1, 1e-4)
	assert.InDelta(t, t0, t1, 1e-4)
	assert.Equal(t, vec.NewBBox(vec.Vec3{X: 8, Y: 4}, vec.Vec3{X: 72, Y: 68, Z: 64}), b.Bounds())

	off := top.Attributes().XOffset
	b.Translate(vec.Vec3{X: 8}, false)
	assert.Equal(t, off, top.Attributes().XOffset)
}

func TestRotate(t *testing.T) {
	b, err := BuildCuboid(vec.NewBBox(vec.Vec3{X: -16, Y: -8, Z: -8}, vec.Vec3{X: 16, Y: 8, Z: 8}), "base")
	require.NoError(t, err)
	require.NoError(t, b.Rotate(vec.Vec3{}, vec.PosZ, 90, true))
	want := vec.NewBBox(vec.Vec3{X: -8, Y: -16, Z: -8}, vec.Vec3{X: 8, Y: 16, Z: 8})
	assert.True(t, vec.Near(want.Min, b.Bounds().Min, 1e-3), "%v", b.Bounds())
	assert.True(t, vec.Near(want.Max, b.Bounds().Max, 1e-3), "%v", b.Bounds())
	for _, f := range b.Faces() {
		if vec.Near(f.Normal(), vec.PosZ, 1e-3) {
			assert.InDelta(t, 90, f.Attributes().Rotation, 1e-3)
		}
	}
}

func TestMoveFace(t *testing.T) {
	b := cube(t, 0, 32)
	var top *BrushFace
	for _, f := range b.Faces() {
		if vec.Near(f.Normal(), vec.PosZ, 1e-6) {
			top = f
		}
	}
	require.NotNil(t, top)
	require.NoError(t, b.MoveFace(top, 16))
	assert.Equal(t, float32(48), b.Bounds().Max.Z)

	// collapsing the brush is refused and leaves it untouched
	err := b.MoveFace(top, -64)
	assert.ErrorIs(t, err, ErrInvalidBrush)
	assert.Equal(t, float32(48), b.Bounds().Max.Z)
	assert.Len(t, b.Vertices(), 8)

	other := cube(t, 0, 8)
	assert.Error(t, b.MoveFace(other.Faces()[0], 1))
}

func TestSnapshotRestore(t *testing.T) {
	b := cube(t, 0, 32)
	faces := append([]*BrushFace(nil), b.Faces()...)
	s := b.Snapshot()
	b.Translate(vec.Vec3{X: 100}, false)
	b.Faces()[0].SetTextureName("other")
	require.NoError(t, b.Restore(s))
	assert.Equal(t, vec.Cube(0, 32), b.Bounds())
	assert.Equal(t, "base", b.Faces()[0].TextureName())
	for i, f := range b.Faces() {
		assert.Same(t, faces[i], f)
	}
}

func TestTextureBinding(t *testing.T) {
	b := cube(t, 0, 32)
	tex := texture.NewTexture("base", 16, 16, make([]byte, 256))
	for _, f := range b.Faces() {
		f.BindTexture(tex)
	}
	assert.Equal(t, 6, tex.Usage())
	b.Faces()[0].BindTexture(tex)
	assert.Equal(t, 6, tex.Usage())

	b.Faces()[0].SetTextureName("other")
	assert.Nil(t, b.Faces()[0].Texture())
	assert.Equal(t, 5, tex.Usage())

	c := b.Clone()
	assert.NotEqual(t, b.ID(), c.ID())
	assert.Nil(t, c.Faces()[1].Texture())
	assert.Equal(t, b.Bounds(), c.Bounds())
	assert.Same(t, c, c.Faces()[1].Brush())
}
