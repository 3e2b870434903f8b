// SPDX-License-Identifier: GPL-2.0-or-later

package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quakeed/math/vec"
)

const (
	e = 1.e-5
)

func eq(a, b [16]float32) bool {
	for i := range a {
		d := a[i] - b[i]
		if d > e || d < -e {
			return false
		}
	}
	return true
}

func TestTranslate(t *testing.T) {
	m := Identity()
	m.Translate(2, 3, 5)
	if !eq(m.m, [16]float32{
		1, 0, 0, 2,
		0, 1, 0, 3,
		0, 0, 1, 5,
		0, 0, 0, 1,
	}) {
		t.Errorf("Identity.Translate(2,3,5) = %v", m.m)
	}
}

func TestScale(t *testing.T) {
	m := Identity()
	m.Scale(2, 3, 5)
	if !eq(m.m, [16]float32{
		2, 0, 0, 0,
		0, 3, 0, 0,
		0, 0, 5, 0,
		0, 0, 0, 1,
	}) {
		t.Errorf("Identity.Scale(2,3,5) = %v", m.m)
	}
}

func TestRotateZ(t *testing.T) {
	m := Identity()
	m.RotateZ(90)
	got := m.Transform(vec.Vec3{X: 1})
	if !vec.Near(got, vec.Vec3{Y: 1}, e) {
		t.Errorf("RotateZ(90) * (1,0,0) = %v", got)
	}
	c := m.Copy()
	c.Translate(1, 0, 0)
	assert.True(t, vec.Near(vec.Vec3{Y: 1}, m.Transform(vec.Vec3{X: 1}), e))
	assert.True(t, vec.Near(vec.Vec3{Y: 2}, c.Transform(vec.Vec3{X: 1}), e))
}

func TestCenterRay(t *testing.T) {
	c := New()
	c.Position = vec.Vec3{X: -64}
	r := c.PickRay(320, 240)
	assert.Equal(t, c.Position, r.Origin)
	assert.True(t, vec.Near(vec.PosX, r.Direction, e), "got %v", r.Direction)

	c.Yaw = 90
	r = c.PickRay(320, 240)
	assert.True(t, vec.Near(vec.PosY, r.Direction, e), "got %v", r.Direction)
}

func TestCornerRay(t *testing.T) {
	c := New()
	require.NoError(t, c.SetViewport(100, 100))
	// 90 degrees field of view: the top left corner is 45 degrees off
	r := c.PickRay(0, 0)
	want := vec.Vec3{X: 1, Y: 1, Z: 1}.Normalize()
	assert.True(t, vec.Near(want, r.Direction, e), "got %v", r.Direction)
}

func TestProjectInvertsPickRay(t *testing.T) {
	c := New()
	c.Position = vec.Vec3{X: 16, Y: -32, Z: 48}
	c.Yaw = 30
	c.Pitch = -20
	for _, p := range [][2]float32{{0, 0}, {100, 400}, {639, 10}, {320, 240}} {
		r := c.PickRay(p[0], p[1])
		x, y, ok := c.Project(r.PointAt(200))
		require.True(t, ok)
		assert.InDelta(t, p[0], x, 1e-2)
		assert.InDelta(t, p[1], y, 1e-2)
	}
	_, _, ok := c.Project(vec.Sub(c.Position, c.Forward()))
	assert.False(t, ok)
}

func TestSetViewport(t *testing.T) {
	c := New()
	assert.Error(t, c.SetViewport(0, 10))
	assert.Equal(t, 640, c.Width)
	assert.Contains(t, Identity().String(), "1 0 0 0")
}

func TestSetAngles(t *testing.T) {
	c := New()
	c.SetAngles(-90, 120)
	assert.Equal(t, float32(270), c.Yaw)
	assert.Equal(t, float32(90), c.Pitch)
	c.SetAngles(45, -135)
	assert.Equal(t, float32(-90), c.Pitch)
	assert.True(t, vec.Near(vec.PosZ.Neg(), c.Forward(), e), "got %v", c.Forward())
}
