// SPDX-License-Identifier: GPL-2.0-or-later

package scene

import (
	"quakeed/math/vec"
)

// BuildCuboid returns a six sided brush filling bounds with every face
// textured with textureName.
func BuildCuboid(bounds vec.BBox3, textureName string) (*Brush, error) {
	mi, ma := bounds.Min, bounds.Max
	x := vec.Vec3{X: ma.X - mi.X}
	y := vec.Vec3{Y: ma.Y - mi.Y}
	z := vec.Vec3{Z: ma.Z - mi.Z}

	// points are p0, p1, p2 with the normal (p2-p0) x (p1-p0)
	top := vec.Vec3{X: mi.X, Y: mi.Y, Z: ma.Z}
	east := vec.Vec3{X: ma.X, Y: mi.Y, Z: mi.Z}
	north := vec.Vec3{X: mi.X, Y: ma.Y, Z: mi.Z}
	pts := [6][3]vec.Vec3{
		{top, vec.Add(top, y), vec.Add(top, x)},
		{mi, vec.Add(mi, x), vec.Add(mi, y)},
		{east, vec.Add(east, z), vec.Add(east, y)},
		{mi, vec.Add(mi, y), vec.Add(mi, z)},
		{north, vec.Add(north, x), vec.Add(north, z)},
		{mi, vec.Add(mi, z), vec.Add(mi, x)},
	}
	faces := make([]*BrushFace, 0, len(pts))
	for _, p := range pts {
		f, err := NewBrushFace(p[0], p[1], p[2], DefaultFaceAttributes(textureName))
		if err != nil {
			return nil, err
		}
		faces = append(faces, f)
	}
	return NewBrush(faces)
}
