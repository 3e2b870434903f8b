// SPDX-License-Identifier: GPL-2.0-or-later

package picker

import (
	"quakeed/scene"
)

// Result is the ordered list of hits of one pick ray.
type Result struct {
	hits []scene.Hit
}

func (r Result) Empty() bool {
	return len(r.hits) == 0
}

func (r Result) Len() int {
	return len(r.hits)
}

// Hits returns the hits, nearest first.
func (r Result) Hits() []scene.Hit {
	return r.hits
}

// First returns the nearest hit.
func (r Result) First() (scene.Hit, bool) {
	if len(r.hits) == 0 {
		return scene.Hit{}, false
	}
	return r.hits[0], true
}

// FirstOf returns the nearest hit on an object of type t.
func (r Result) FirstOf(t scene.Type) (scene.Hit, bool) {
	for _, h := range r.hits {
		if h.Object.Type() == t {
			return h, true
		}
	}
	return scene.Hit{}, false
}

// Filter returns the hits accepted by f, keeping the order.
func (r Result) Filter(f func(scene.Hit) bool) Result {
	var hits []scene.Hit
	for _, h := range r.hits {
		if f(h) {
			hits = append(hits, h)
		}
	}
	return Result{hits: hits}
}
