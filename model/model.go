// SPDX-License-Identifier: GPL-2.0-or-later

package model

import (
	"fmt"

	"quakeed/math/vec"
)

// Model is an entity model which can be shown in place of a point entity.
type Model interface {
	Name() string
	FrameCount() int
	SkinCount() int
	// Bounds returns the bounds of the given frame, frame 0 for
	// frames out of range.
	Bounds(frame int) vec.BBox3
}

// Specification selects a model file, a skin and a frame.
type Specification struct {
	Path  string
	Skin  int
	Frame int
}

func (s Specification) IsEmpty() bool {
	return s.Path == ""
}

func (s Specification) String() string {
	return fmt.Sprintf("%s:%d:%d", s.Path, s.Skin, s.Frame)
}
