// SPDX-License-Identifier: GPL-2.0-or-later

// Package picker is the spatial index used for ray picking of scene objects.
package picker

import (
	"sort"

	"quakeed/math/vec"
	"quakeed/scene"
)

// Picker is a dynamic bounding volume hierarchy over the bounds of scene
// objects. The bounds of an object are captured when it is added, an
// object whose bounds change has to be added again.
type Picker struct {
	root   *node
	leaves map[scene.Object]*node
}

func New() *Picker {
	return &Picker{leaves: make(map[scene.Object]*node)}
}

// Build returns a picker over objs built top down, which gives a better
// tree than adding the objects one by one.
func Build(objs []scene.Object) *Picker {
	p := New()
	leaves := make([]*node, 0, len(objs))
	for _, o := range objs {
		if _, ok := p.leaves[o]; ok {
			continue
		}
		l := &node{bounds: o.Bounds(), object: o}
		p.leaves[o] = l
		leaves = append(leaves, l)
	}
	if len(leaves) > 0 {
		p.root = build(leaves)
	}
	return p
}

func (p *Picker) Len() int {
	return len(p.leaves)
}

func (p *Picker) Contains(o scene.Object) bool {
	_, ok := p.leaves[o]
	return ok
}

// Depth is the number of levels of the tree, 0 when it is empty.
func (p *Picker) Depth() int {
	return p.root.depth()
}

// Bounds returns the box containing all indexed objects.
func (p *Picker) Bounds() vec.BBox3 {
	if p.root == nil {
		return vec.EmptyBox()
	}
	return p.root.bounds
}

// AddObject indexes o with its current bounds. Adding an indexed object
// again updates its entry.
func (p *Picker) AddObject(o scene.Object) {
	if _, ok := p.leaves[o]; ok {
		p.RemoveObject(o)
	}
	l := &node{bounds: o.Bounds(), object: o}
	p.leaves[o] = l
	if p.root == nil {
		p.root = l
		return
	}
	s := chooseSibling(p.root, l.bounds)
	parent := &node{parent: s.parent, left: s, right: l}
	if s.parent == nil {
		p.root = parent
	} else if s.parent.left == s {
		s.parent.left = parent
	} else {
		s.parent.right = parent
	}
	s.parent = parent
	l.parent = parent
	for n := parent; n != nil; n = n.parent {
		n.refit()
	}
}

// RemoveObject drops the entry of o and reports whether there was one.
func (p *Picker) RemoveObject(o scene.Object) bool {
	l, ok := p.leaves[o]
	if !ok {
		return false
	}
	delete(p.leaves, o)
	if l.parent == nil {
		p.root = nil
		return true
	}
	parent := l.parent
	s := l.sibling()
	s.parent = parent.parent
	if parent.parent == nil {
		p.root = s
		return true
	}
	if parent.parent.left == parent {
		parent.parent.left = s
	} else {
		parent.parent.right = s
	}
	for n := s.parent; n != nil; n = n.parent {
		n.refit()
	}
	return true
}

// Pick returns all objects hit by r ordered by distance.
func (p *Picker) Pick(r vec.Ray3) Result {
	if p.root == nil {
		return Result{}
	}
	hits := p.root.pick(r, nil)
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return Result{hits: hits}
}
