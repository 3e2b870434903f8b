// SPDX-License-Identifier: GPL-2.0-or-later

package math

import "math"

// AngleMod32 wraps a rotation in degrees to [0, 360). Face rotations,
// entity angles and the camera yaw are kept in this range.
func AngleMod32(a float32) float32 {
	return float32(AngleMod(float64(a)))
}

func AngleMod(a float64) float64 {
	return a - math.Floor(a/360)*360
}
