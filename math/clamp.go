// SPDX-License-Identifier: GPL-2.0-or-later

package math

type Number interface {
	int64 | float64 | float32 | int
}

// Clamp limits val to [lo, hi]. lo wins if the range is empty.
func Clamp[K Number](lo, val, hi K) K {
	switch {
	case val < lo:
		return lo
	case val > hi:
		return hi
	}
	return val
}
