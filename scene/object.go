// SPDX-License-Identifier: GPL-2.0-or-later

// Package scene is the in memory map: entities owning brushes owning faces.
package scene

import (
	"github.com/google/uuid"

	"quakeed/math/vec"
)

type Type int

const (
	EntityType Type = iota
	BrushType
)

func (t Type) String() string {
	if t == BrushType {
		return "brush"
	}
	return "entity"
}

// Object is either an *Entity or a *Brush.
type Object interface {
	ID() uuid.UUID
	Type() Type
	Bounds() vec.BBox3
	// Pick intersects r with the object. Face is only set for brushes.
	Pick(r vec.Ray3) (Hit, bool)

	isObject()
}

// Hit is one intersection of a pick ray.
type Hit struct {
	Object   Object
	Face     *BrushFace
	Distance float32
	Point    vec.Vec3
}

func newID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// Subtree returns o followed by the brushes of o if it is an entity.
func Subtree(o Object) []Object {
	r := []Object{o}
	if e, ok := o.(*Entity); ok {
		for _, b := range e.brushes {
			r = append(r, b)
		}
	}
	return r
}
