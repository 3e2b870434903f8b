// SPDX-License-Identifier: GPL-2.0-or-later
package spr

const (
	Magic         = 'P'<<24 | 'S'<<16 | 'D'<<8 | 'I'
	spriteVersion = 1
)

const (
	SPR_VP_PARALLEL_UPRIGHT = iota
	SPR_FACING_UPRIGHT
	SPR_VP_PARALLEL
	SPR_ORIENTED
	SPR_VP_PARALLEL_ORIENTED
)

const (
	SPR_SINGLE = iota
	SPR_GROUP
)

type header struct { // dsprite_t
	ID             int32
	Version        int32
	Type           int32
	BoundingRadius float32
	MaxWidth       int32
	MaxHeight      int32
	FrameCount     int32
	BeamLength     float32
	SyncType       int32
}

type frame struct { // dspriteframe_t
	Origin [2]int32
	Width  int32
	Height int32
}
