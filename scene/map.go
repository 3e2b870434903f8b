// SPDX-License-Identifier: GPL-2.0-or-later

package scene

import (
	"github.com/pkg/errors"
)

// Map is the root of the scene: an ordered list of entities of which the
// worldspawn entity holds the brushes not owned by any other entity.
type Map struct {
	format   string
	entities []*Entity
}

func NewMap(format string) *Map {
	return &Map{format: format}
}

func (m *Map) Format() string {
	return m.format
}

func (m *Map) SetFormat(f string) {
	m.format = f
}

func (m *Map) Entities() []*Entity {
	return m.entities
}

// Worldspawn returns the first worldspawn entity or nil.
func (m *Map) Worldspawn() *Entity {
	for _, e := range m.entities {
		if e.IsWorldspawn() {
			return e
		}
	}
	return nil
}

// CreateWorldspawn returns the worldspawn entity, adding one first if the
// map has none.
func (m *Map) CreateWorldspawn() *Entity {
	if w := m.Worldspawn(); w != nil {
		return w
	}
	w := NewEntity(Property{ClassnameKey, Worldspawn})
	m.InsertEntity(0, w)
	return w
}

func (m *Map) AddEntity(e *Entity) {
	m.entities = append(m.entities, e)
}

func (m *Map) InsertEntity(i int, e *Entity) {
	if i < 0 || i > len(m.entities) {
		i = len(m.entities)
	}
	m.entities = append(m.entities, nil)
	copy(m.entities[i+1:], m.entities[i:])
	m.entities[i] = e
}

func (m *Map) IndexOf(e *Entity) int {
	for i, o := range m.entities {
		if o == e {
			return i
		}
	}
	return -1
}

// RemoveEntity detaches e and returns its former index.
func (m *Map) RemoveEntity(e *Entity) (int, error) {
	i := m.IndexOf(e)
	if i < 0 {
		return -1, errors.Errorf("entity %v is not part of the map", e.ID())
	}
	m.entities = append(m.entities[:i:i], m.entities[i+1:]...)
	return i, nil
}

// Contains reports whether o is currently part of the map.
func (m *Map) Contains(o Object) bool {
	switch o := o.(type) {
	case *Entity:
		return m.IndexOf(o) >= 0
	case *Brush:
		return o.entity != nil && m.IndexOf(o.entity) >= 0
	}
	return false
}

// Objects returns every entity followed by its brushes.
func (m *Map) Objects() []Object {
	var r []Object
	for _, e := range m.entities {
		r = append(r, Subtree(e)...)
	}
	return r
}

func (m *Map) Brushes() []*Brush {
	var r []*Brush
	for _, e := range m.entities {
		r = append(r, e.brushes...)
	}
	return r
}

func (m *Map) Faces() []*BrushFace {
	var r []*BrushFace
	for _, e := range m.entities {
		for _, b := range e.brushes {
			r = append(r, b.faces...)
		}
	}
	return r
}
