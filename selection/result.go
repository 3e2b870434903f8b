// SPDX-License-Identifier: GPL-2.0-or-later

package selection

import (
	"quakeed/scene"
)

// Result lists the items whose selection state changed in one operation.
type Result struct {
	SelectedObjects   []scene.Object
	DeselectedObjects []scene.Object
	SelectedFaces     []*scene.BrushFace
	DeselectedFaces   []*scene.BrushFace
}

func (r Result) Empty() bool {
	return len(r.SelectedObjects) == 0 && len(r.DeselectedObjects) == 0 &&
		len(r.SelectedFaces) == 0 && len(r.DeselectedFaces) == 0
}

// Merge appends o to r. An item selected in one and deselected in the
// other cancels out.
func (r Result) Merge(o Result) Result {
	m := Result{}
	m.SelectedObjects, m.DeselectedObjects = mergeChanges(r.SelectedObjects, r.DeselectedObjects, o.SelectedObjects, o.DeselectedObjects)
	m.SelectedFaces, m.DeselectedFaces = mergeChanges(r.SelectedFaces, r.DeselectedFaces, o.SelectedFaces, o.DeselectedFaces)
	return m
}

// Inverse returns the result that undoes r.
func (r Result) Inverse() Result {
	return Result{
		SelectedObjects:   r.DeselectedObjects,
		DeselectedObjects: r.SelectedObjects,
		SelectedFaces:     r.DeselectedFaces,
		DeselectedFaces:   r.SelectedFaces,
	}
}

func mergeChanges[T comparable](sel, desel, osel, odesel []T) ([]T, []T) {
	state := map[T]bool{}
	seen := map[T]bool{}
	var order []T
	apply := func(items []T, selected bool) {
		for _, it := range items {
			if !seen[it] {
				seen[it] = true
				order = append(order, it)
			}
			prev, ok := state[it]
			if !ok {
				state[it] = selected
				continue
			}
			if prev != selected {
				delete(state, it)
			}
		}
	}
	apply(sel, true)
	apply(desel, false)
	apply(osel, true)
	apply(odesel, false)
	var rs, rd []T
	for _, it := range order {
		s, ok := state[it]
		if !ok {
			continue
		}
		if s {
			rs = append(rs, it)
		} else {
			rd = append(rd, it)
		}
	}
	return rs, rd
}
