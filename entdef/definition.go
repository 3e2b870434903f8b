// SPDX-License-Identifier: GPL-2.0-or-later

// Package entdef holds entity definitions, the classes an entity can be
// an instance of, and the parsers for the files describing them.
package entdef

import (
	"quakeed/math/vec"
	"quakeed/model"
)

type Type int

const (
	PointEntity Type = iota
	BrushEntity
)

func (t Type) String() string {
	if t == BrushEntity {
		return "brush"
	}
	return "point"
}

type Color struct {
	R, G, B float32
}

var DefaultColor = Color{1, 1, 1}

// DefaultBounds is used for point entities without own bounds.
var DefaultBounds = vec.Cube(-8, 8)

type PropertyType int

const (
	StringProperty PropertyType = iota
	IntegerProperty
	FloatProperty
	BooleanProperty
	TargetSourceProperty
	TargetDestinationProperty
	ChoiceProperty
	FlagsProperty
)

type Option struct {
	Value       string
	Description string
}

// PropertyDefinition describes one property an entity of the class may carry.
type PropertyDefinition struct {
	Key              string
	Type             PropertyType
	ShortDescription string
	LongDescription  string
	Default          string
	Options          []Option
}

// SpawnFlag is one bit of the spawnflags property.
type SpawnFlag struct {
	Value       int
	Name        string
	Description string
}

type Definition struct {
	Name        string
	Type        Type
	Color       Color
	Bounds      vec.BBox3
	Description string
	SpawnFlags  []SpawnFlag
	Properties  []PropertyDefinition
	// Model is nil for classes without a model.
	Model *model.Specification

	usage int
}

func (d *Definition) Usage() int {
	return d.usage
}

func (d *Definition) IncUsage() {
	d.usage++
}

func (d *Definition) DecUsage() {
	if d.usage > 0 {
		d.usage--
	}
}

func (d *Definition) Property(key string) (PropertyDefinition, bool) {
	for _, p := range d.Properties {
		if p.Key == key {
			return p, true
		}
	}
	return PropertyDefinition{}, false
}
