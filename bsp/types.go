// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

const (
	bspVersion  = 29
	bsp2Version = 'B' | 'S'<<8 | 'P'<<16 | '2'<<24
)

// called lump_t in c
type directory struct {
	Offset int32
	Size   int32
}

type header struct {
	Version      int32
	Entities     directory
	Planes       directory
	Textures     directory
	Vertexes     directory
	Visibility   directory
	Nodes        directory
	Texinfo      directory
	Faces        directory
	Lighting     directory
	ClipNodes    directory
	Leafs        directory
	MarkSurfaces directory
	Edges        directory
	SurfaceEdges directory // SURFEDGES
	Models       directory
}

// Model, either a big zone, the level or parts inside that zone
type model struct {
	BoundingBox  [6]float32
	Origin       [3]float32
	HeadNode     [4]int32
	VisLeafCount int32 // not including the solid leaf 0
	FirstFace    int32
	FaceCount    int32
}

const modelSize = 64
