// SPDX-License-Identifier: GPL-2.0-or-later

// Package selection tracks the selected objects and faces of a map.
package selection

import (
	"quakeed/scene"
)

// Selection holds either selected objects or selected faces, never both.
// Selection order is kept.
type Selection struct {
	objects []scene.Object
	faces   []*scene.BrushFace

	objectSet map[scene.Object]struct{}
	faceSet   map[*scene.BrushFace]struct{}
}

func New() *Selection {
	return &Selection{
		objectSet: make(map[scene.Object]struct{}),
		faceSet:   make(map[*scene.BrushFace]struct{}),
	}
}

func (s *Selection) IsSelected(o scene.Object) bool {
	_, ok := s.objectSet[o]
	return ok
}

func (s *Selection) IsFaceSelected(f *scene.BrushFace) bool {
	_, ok := s.faceSet[f]
	return ok
}

func (s *Selection) HasSelection() bool {
	return s.HasSelectedObjects() || s.HasSelectedFaces()
}

func (s *Selection) HasSelectedObjects() bool {
	return len(s.objects) > 0
}

func (s *Selection) HasSelectedEntities() bool {
	for _, o := range s.objects {
		if o.Type() == scene.EntityType {
			return true
		}
	}
	return false
}

func (s *Selection) HasSelectedBrushes() bool {
	for _, o := range s.objects {
		if o.Type() == scene.BrushType {
			return true
		}
	}
	return false
}

func (s *Selection) HasSelectedFaces() bool {
	return len(s.faces) > 0
}

// SelectedObjects returns the directly selected objects.
func (s *Selection) SelectedObjects() []scene.Object {
	return append([]scene.Object(nil), s.objects...)
}

func (s *Selection) SelectedEntities() []*scene.Entity {
	var r []*scene.Entity
	for _, o := range s.objects {
		if e, ok := o.(*scene.Entity); ok {
			r = append(r, e)
		}
	}
	return r
}

func (s *Selection) SelectedBrushes() []*scene.Brush {
	var r []*scene.Brush
	for _, o := range s.objects {
		if b, ok := o.(*scene.Brush); ok {
			r = append(r, b)
		}
	}
	return r
}

// SelectedFaces returns the directly selected faces.
func (s *Selection) SelectedFaces() []*scene.BrushFace {
	return append([]*scene.BrushFace(nil), s.faces...)
}

// AllSelectedBrushes returns the selected brushes and the brushes of the
// selected entities.
func (s *Selection) AllSelectedBrushes() []*scene.Brush {
	var r []*scene.Brush
	seen := map[*scene.Brush]bool{}
	add := func(b *scene.Brush) {
		if !seen[b] {
			seen[b] = true
			r = append(r, b)
		}
	}
	for _, o := range s.objects {
		switch o := o.(type) {
		case *scene.Brush:
			add(o)
		case *scene.Entity:
			for _, b := range o.Brushes() {
				add(b)
			}
		}
	}
	return r
}

// AllSelectedFaces returns the selected faces, or if objects are selected
// all faces of the effectively selected brushes.
func (s *Selection) AllSelectedFaces() []*scene.BrushFace {
	if len(s.faces) > 0 {
		return s.SelectedFaces()
	}
	var r []*scene.BrushFace
	for _, b := range s.AllSelectedBrushes() {
		r = append(r, b.Faces()...)
	}
	return r
}

func (s *Selection) addObject(o scene.Object, r *Result) {
	if s.IsSelected(o) {
		return
	}
	s.objectSet[o] = struct{}{}
	s.objects = append(s.objects, o)
	r.SelectedObjects = append(r.SelectedObjects, o)
}

func (s *Selection) removeObject(o scene.Object, r *Result) {
	if !s.IsSelected(o) {
		return
	}
	delete(s.objectSet, o)
	for i, so := range s.objects {
		if so == o {
			s.objects = append(s.objects[:i:i], s.objects[i+1:]...)
			break
		}
	}
	r.DeselectedObjects = append(r.DeselectedObjects, o)
}

func (s *Selection) addFace(f *scene.BrushFace, r *Result) {
	if s.IsFaceSelected(f) {
		return
	}
	s.faceSet[f] = struct{}{}
	s.faces = append(s.faces, f)
	r.SelectedFaces = append(r.SelectedFaces, f)
}

func (s *Selection) removeFace(f *scene.BrushFace, r *Result) {
	if !s.IsFaceSelected(f) {
		return
	}
	delete(s.faceSet, f)
	for i, sf := range s.faces {
		if sf == f {
			s.faces = append(s.faces[:i:i], s.faces[i+1:]...)
			break
		}
	}
	r.DeselectedFaces = append(r.DeselectedFaces, f)
}

func (s *Selection) deselectFaces(r *Result) {
	for _, f := range s.SelectedFaces() {
		s.removeFace(f, r)
	}
}

func (s *Selection) deselectObjects(r *Result) {
	for _, o := range s.SelectedObjects() {
		s.removeObject(o, r)
	}
}

// SelectObjects adds objs to the selection. Selected faces are deselected.
func (s *Selection) SelectObjects(objs []scene.Object) Result {
	var r Result
	if len(objs) == 0 {
		return r
	}
	s.deselectFaces(&r)
	for _, o := range objs {
		s.addObject(o, &r)
	}
	return r
}

func (s *Selection) DeselectObjects(objs []scene.Object) Result {
	var r Result
	for _, o := range objs {
		s.removeObject(o, &r)
	}
	return r
}

// SelectAllObjects selects every entity except worldspawn and the brushes of
// worldspawn.
func (s *Selection) SelectAllObjects(m *scene.Map) Result {
	var objs []scene.Object
	for _, e := range m.Entities() {
		if !e.IsWorldspawn() {
			objs = append(objs, e)
			continue
		}
		for _, b := range e.Brushes() {
			objs = append(objs, b)
		}
	}
	return s.SelectObjects(objs)
}

// SelectFaces adds faces to the selection. Selected objects are deselected.
func (s *Selection) SelectFaces(faces []*scene.BrushFace) Result {
	var r Result
	if len(faces) == 0 {
		return r
	}
	s.deselectObjects(&r)
	for _, f := range faces {
		s.addFace(f, &r)
	}
	return r
}

func (s *Selection) DeselectFaces(faces []*scene.BrushFace) Result {
	var r Result
	for _, f := range faces {
		s.removeFace(f, &r)
	}
	return r
}

// SelectAllFaces selects the faces of every brush in m.
func (s *Selection) SelectAllFaces(m *scene.Map) Result {
	return s.SelectFaces(m.Faces())
}

func (s *Selection) DeselectAll() Result {
	var r Result
	s.deselectObjects(&r)
	s.deselectFaces(&r)
	return r
}

// Apply replays r, used to undo a selection change with r.Inverse().
func (s *Selection) Apply(r Result) Result {
	var out Result
	for _, o := range r.DeselectedObjects {
		s.removeObject(o, &out)
	}
	for _, f := range r.DeselectedFaces {
		s.removeFace(f, &out)
	}
	for _, o := range r.SelectedObjects {
		s.addObject(o, &out)
	}
	for _, f := range r.SelectedFaces {
		s.addFace(f, &out)
	}
	return out
}

// Purge deselects o, its brushes and their faces. It is called before o
// leaves the map.
func (s *Selection) Purge(o scene.Object) Result {
	var r Result
	for _, so := range scene.Subtree(o) {
		s.removeObject(so, &r)
		if b, ok := so.(*scene.Brush); ok {
			for _, f := range b.Faces() {
				s.removeFace(f, &r)
			}
		}
	}
	return r
}

// Clear drops the selection without reporting a change.
func (s *Selection) Clear() {
	s.objects = nil
	s.faces = nil
	s.objectSet = make(map[scene.Object]struct{})
	s.faceSet = make(map[*scene.BrushFace]struct{})
}
