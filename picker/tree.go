// SPDX-License-Identifier: GPL-2.0-or-later

package picker

import (
	"sort"

	"github.com/chewxy/math32"

	"quakeed/math/vec"
	"quakeed/scene"
)

// node of a bounding volume hierarchy. Leaves hold exactly one object,
// inner nodes exactly two children.
type node struct {
	bounds      vec.BBox3
	parent      *node
	left, right *node
	object      scene.Object
}

func (n *node) isLeaf() bool {
	return n.left == nil
}

func (n *node) refit() {
	n.bounds = n.left.bounds.Merge(n.right.bounds)
}

func (n *node) sibling() *node {
	if n.parent.left == n {
		return n.parent.right
	}
	return n.parent.left
}

// center of b, empty boxes sort as if they sat at the origin.
func center(b vec.BBox3) vec.Vec3 {
	if b.IsEmpty() {
		return vec.Vec3{}
	}
	return b.Center()
}

// insertionCost is the growth of n's surface when it has to contain b.
func insertionCost(n *node, b vec.BBox3) float32 {
	return n.bounds.Merge(b).SurfaceArea() - n.bounds.SurfaceArea()
}

// chooseSibling descends to the leaf whose box grows the least.
func chooseSibling(root *node, b vec.BBox3) *node {
	n := root
	for !n.isLeaf() {
		merged := n.bounds.Merge(b).SurfaceArea()
		// cost of pairing b with n itself
		here := merged
		inherit := merged - n.bounds.SurfaceArea()
		cl := insertionCost(n.left, b) + inherit
		if n.left.isLeaf() {
			cl = n.left.bounds.Merge(b).SurfaceArea() + inherit
		}
		cr := insertionCost(n.right, b) + inherit
		if n.right.isLeaf() {
			cr = n.right.bounds.Merge(b).SurfaceArea() + inherit
		}
		if here < cl && here < cr {
			break
		}
		if cl <= cr {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n
}

// build constructs a subtree over leaves splitting at the median of the
// longest axis of the leaf centers.
func build(leaves []*node) *node {
	if len(leaves) == 1 {
		return leaves[0]
	}
	cb := vec.EmptyBox()
	for _, l := range leaves {
		cb = cb.MergePoint(center(l.bounds))
	}
	axis := cb.Size().MajorAxis()
	sort.SliceStable(leaves, func(i, j int) bool {
		return center(leaves[i].bounds).Idx(axis) < center(leaves[j].bounds).Idx(axis)
	})
	mid := len(leaves) / 2
	n := &node{left: build(leaves[:mid]), right: build(leaves[mid:])}
	n.left.parent = n
	n.right.parent = n
	n.refit()
	return n
}

// hitsBox reports whether r touches b at a non negative distance.
func hitsBox(b vec.BBox3, r vec.Ray3) bool {
	return !math32.IsNaN(b.IntersectRay(r))
}

func (n *node) pick(r vec.Ray3, hits []scene.Hit) []scene.Hit {
	if !hitsBox(n.bounds, r) {
		return hits
	}
	if n.isLeaf() {
		if h, ok := n.object.Pick(r); ok {
			hits = append(hits, h)
		}
		return hits
	}
	hits = n.left.pick(r, hits)
	return n.right.pick(r, hits)
}

func (n *node) depth() int {
	if n == nil {
		return 0
	}
	if n.isLeaf() {
		return 1
	}
	l, r := n.left.depth(), n.right.depth()
	if l > r {
		return l + 1
	}
	return r + 1
}
