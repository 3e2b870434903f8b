// SPDX-License-Identifier: GPL-2.0-or-later

// Package camera turns viewport coordinates into pick rays.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	qmath "quakeed/math"
	"quakeed/math/vec"
)

// Camera is a perspective camera. Yaw turns around the z axis starting at
// +x, positive pitch looks up. FOV is the vertical field of view.
type Camera struct {
	Position      vec.Vec3
	Yaw, Pitch    float32
	FOV           float32
	Width, Height int
}

func New() *Camera {
	return &Camera{FOV: 90, Width: 640, Height: 480}
}

func (c *Camera) SetViewport(w, h int) error {
	if w <= 0 || h <= 0 {
		return errors.Errorf("invalid viewport %dx%d", w, h)
	}
	c.Width, c.Height = w, h
	return nil
}

// SetAngles turns the camera. Yaw is wrapped to [0, 360) and pitch is
// limited to straight up or down.
func (c *Camera) SetAngles(yaw, pitch float32) {
	c.Yaw = qmath.AngleMod32(yaw)
	c.Pitch = qmath.Clamp(-90, pitch, 90)
}

func (c *Camera) Forward() vec.Vec3 {
	sy, cy := math32.Sincos(deg2rad(c.Yaw))
	sp, cp := math32.Sincos(deg2rad(c.Pitch))
	return vec.Vec3{X: cp * cy, Y: cp * sy, Z: sp}
}

func (c *Camera) Right() vec.Vec3 {
	sy, cy := math32.Sincos(deg2rad(c.Yaw))
	return vec.Vec3{X: sy, Y: -cy}
}

func (c *Camera) Up() vec.Vec3 {
	return vec.Cross(c.Right(), c.Forward())
}

// View maps world coordinates to camera coordinates: x right, y up and
// z the distance in front of the camera.
func (c *Camera) View() *Matrix {
	m := Basis(c.Right(), c.Up(), c.Forward())
	m.Translate(-c.Position.X, -c.Position.Y, -c.Position.Z)
	return m
}

func (c *Camera) extent() (float32, float32) {
	t := math32.Tan(deg2rad(c.FOV) / 2)
	return t * float32(c.Width) / float32(c.Height), t
}

// PickRay returns the ray through the viewport pixel x, y. The origin of
// the viewport is the top left corner.
func (c *Camera) PickRay(x, y float32) vec.Ray3 {
	ex, ey := c.extent()
	nx := 2*x/float32(c.Width) - 1
	ny := 1 - 2*y/float32(c.Height)
	d := vec.Add(c.Forward(), vec.Add(c.Right().Scale(nx*ex), c.Up().Scale(ny*ey)))
	return vec.NewRay(c.Position, d)
}

// Project returns the viewport pixel showing p. It fails for points not in
// front of the camera.
func (c *Camera) Project(p vec.Vec3) (float32, float32, bool) {
	v := c.View().Transform(p)
	if v.Z <= 0 {
		return 0, 0, false
	}
	ex, ey := c.extent()
	nx := v.X / (v.Z * ex)
	ny := v.Y / (v.Z * ey)
	return (nx + 1) * float32(c.Width) / 2, (1 - ny) * float32(c.Height) / 2, true
}
