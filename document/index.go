// SPDX-License-Identifier: GPL-2.0-or-later

package document

import (
	"sort"
	"strings"

	"quakeed/scene"
)

type QueryType int

const (
	QueryExact QueryType = iota
	QueryPrefix
	// QueryNumbered matches the pattern optionally followed by digits,
	// like target, target1 and target2.
	QueryNumbered
	QueryAny
)

// PropertyQuery matches property keys.
type PropertyQuery struct {
	Type    QueryType
	Pattern string
}

func ExactKey(k string) PropertyQuery    { return PropertyQuery{QueryExact, k} }
func KeyPrefix(p string) PropertyQuery   { return PropertyQuery{QueryPrefix, p} }
func NumberedKey(k string) PropertyQuery { return PropertyQuery{QueryNumbered, k} }
func AnyKey() PropertyQuery              { return PropertyQuery{Type: QueryAny} }

func (q PropertyQuery) Match(key string) bool {
	switch q.Type {
	case QueryExact:
		return key == q.Pattern
	case QueryPrefix:
		return strings.HasPrefix(key, q.Pattern)
	case QueryNumbered:
		rest, ok := strings.CutPrefix(key, q.Pattern)
		if !ok {
			return false
		}
		for _, c := range rest {
			if c < '0' || c > '9' {
				return false
			}
		}
		return true
	}
	return true
}

// PropertyIndex finds entities by property value, used to follow
// target and killtarget links.
type PropertyIndex struct {
	byValue map[string]map[*scene.Entity]int
	indexed map[*scene.Entity][]scene.Property
}

func NewPropertyIndex() *PropertyIndex {
	return &PropertyIndex{
		byValue: make(map[string]map[*scene.Entity]int),
		indexed: make(map[*scene.Entity][]scene.Property),
	}
}

// Add indexes the current properties of e. Adding an indexed entity again
// replaces its entries.
func (x *PropertyIndex) Add(e *scene.Entity) {
	x.Remove(e)
	props := e.Properties()
	x.indexed[e] = props
	for _, p := range props {
		m := x.byValue[p.Value]
		if m == nil {
			m = make(map[*scene.Entity]int)
			x.byValue[p.Value] = m
		}
		m[e]++
	}
}

// Remove drops the entries recorded when e was added.
func (x *PropertyIndex) Remove(e *scene.Entity) {
	props, ok := x.indexed[e]
	if !ok {
		return
	}
	delete(x.indexed, e)
	for _, p := range props {
		m := x.byValue[p.Value]
		if m[e]--; m[e] <= 0 {
			delete(m, e)
		}
		if len(m) == 0 {
			delete(x.byValue, p.Value)
		}
	}
}

func (x *PropertyIndex) Len() int {
	return len(x.indexed)
}

// Find returns the entities with a property matching q whose value is
// value, oldest entity first.
func (x *PropertyIndex) Find(q PropertyQuery, value string) []*scene.Entity {
	var r []*scene.Entity
	for e := range x.byValue[value] {
		for _, p := range x.indexed[e] {
			if p.Value == value && q.Match(p.Key) {
				r = append(r, e)
				break
			}
		}
	}
	sort.Slice(r, func(i, j int) bool {
		return r[i].ID().String() < r[j].ID().String()
	})
	return r
}

// FindEntities searches the property index of the document.
func (d *Document) FindEntities(q PropertyQuery, value string) []*scene.Entity {
	return d.index.Find(q, value)
}
