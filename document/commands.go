// SPDX-License-Identifier: GPL-2.0-or-later

package document

import (
	"github.com/pkg/errors"

	"quakeed/command"
	"quakeed/math/vec"
	"quakeed/scene"
	"quakeed/selection"
)

// errNoChange is returned by commands whose execution would change
// nothing, so that they are not recorded.
var errNoChange = errors.New("nothing to change")

// selectCommand changes the selection. The first Do records the diff
// which later redos and undos replay.
type selectCommand struct {
	d      *Document
	name   string
	op     func(*selection.Selection) selection.Result
	result selection.Result
	done   bool
}

func (c *selectCommand) Name() string           { return c.name }
func (c *selectCommand) ModifiesDocument() bool { return false }

func (c *selectCommand) Do() error {
	if !c.done {
		c.result = c.op(c.d.selection)
		c.done = true
		if c.result.Empty() {
			return errNoChange
		}
	} else {
		c.d.selection.Apply(c.result)
	}
	c.d.SelectionDidChange.Notify(c.result)
	return nil
}

func (c *selectCommand) Undo() error {
	inv := c.result.Inverse()
	c.d.selection.Apply(inv)
	c.d.SelectionDidChange.Notify(inv)
	return nil
}

// placement remembers where an object was attached.
type placement struct {
	obj    scene.Object
	parent *scene.Entity
	index  int
}

func (d *Document) attach(p placement) {
	switch o := p.obj.(type) {
	case *scene.Entity:
		d.m.InsertEntity(p.index, o)
		d.ObjectWasAdded.Notify(o)
	case *scene.Brush:
		d.ObjectWillChange.Notify(p.parent)
		p.parent.InsertBrush(p.index, o)
		d.ObjectWasAdded.Notify(o)
		d.ObjectDidChange.Notify(p.parent)
	}
}

func (d *Document) detach(o scene.Object) (placement, error) {
	switch o := o.(type) {
	case *scene.Entity:
		if o.IsWorldspawn() {
			return placement{}, errors.New("cannot remove worldspawn")
		}
		d.ObjectWillBeRemoved.Notify(o)
		i, err := d.m.RemoveEntity(o)
		if err != nil {
			return placement{}, err
		}
		return placement{obj: o, index: i}, nil
	case *scene.Brush:
		parent := o.Entity()
		if parent == nil {
			return placement{}, errors.New("brush is not part of the map")
		}
		d.ObjectWillBeRemoved.Notify(o)
		d.ObjectWillChange.Notify(parent)
		i := parent.RemoveBrush(o)
		d.ObjectDidChange.Notify(parent)
		return placement{obj: o, parent: parent, index: i}, nil
	}
	return placement{}, errors.Errorf("unknown object %T", o)
}

// addObjectsCommand appends entities to the map and brushes to parent.
type addObjectsCommand struct {
	d      *Document
	objs   []scene.Object
	parent *scene.Entity
	placed []placement
	// created is the worldspawn entity made to hold the brushes.
	created *scene.Entity
}

func (c *addObjectsCommand) Name() string           { return "Add Objects" }
func (c *addObjectsCommand) ModifiesDocument() bool { return true }

func (c *addObjectsCommand) Do() error {
	if len(c.objs) == 0 {
		return errNoChange
	}
	for _, o := range c.objs {
		if c.d.m.Contains(o) {
			return errors.Errorf("%s %s is already part of the map", o.Type(), o.ID())
		}
		if b, ok := o.(*scene.Brush); ok && b.Entity() != nil {
			return errors.Errorf("brush %s belongs to another entity", b.ID())
		}
	}
	parent := c.parent
	c.created = nil
	if parent == nil && hasBrush(c.objs) {
		if parent = c.d.m.Worldspawn(); parent == nil {
			parent = c.d.Worldspawn()
			c.created = parent
		}
	}
	c.placed = c.placed[:0]
	for _, o := range c.objs {
		p := placement{obj: o}
		if _, ok := o.(*scene.Entity); ok {
			p.index = len(c.d.m.Entities())
		} else {
			p.parent = parent
			p.index = len(parent.Brushes())
		}
		c.d.attach(p)
		c.placed = append(c.placed, p)
	}
	return nil
}

func (c *addObjectsCommand) Undo() error {
	for i := len(c.placed) - 1; i >= 0; i-- {
		if _, err := c.d.detach(c.placed[i].obj); err != nil {
			return err
		}
	}
	if w := c.created; w != nil {
		c.d.ObjectWillBeRemoved.Notify(w)
		if _, err := c.d.m.RemoveEntity(w); err != nil {
			return err
		}
		c.created = nil
	}
	return nil
}

func hasBrush(objs []scene.Object) bool {
	for _, o := range objs {
		if _, ok := o.(*scene.Brush); ok {
			return true
		}
	}
	return false
}

// removeObjectsCommand deselects and removes objects. Brushes of removed
// entities go with their entity.
type removeObjectsCommand struct {
	d        *Document
	objs     []scene.Object
	removed  []placement
	deselect selection.Result
}

func (c *removeObjectsCommand) Name() string           { return "Remove Objects" }
func (c *removeObjectsCommand) ModifiesDocument() bool { return true }

func (c *removeObjectsCommand) targets() ([]scene.Object, error) {
	entities := make(map[*scene.Entity]bool)
	for _, o := range c.objs {
		if e, ok := o.(*scene.Entity); ok {
			if e.IsWorldspawn() {
				return nil, errors.New("cannot remove worldspawn")
			}
			entities[e] = true
		}
	}
	var r []scene.Object
	seen := make(map[scene.Object]bool)
	for _, o := range c.objs {
		if seen[o] || !c.d.m.Contains(o) {
			continue
		}
		seen[o] = true
		if b, ok := o.(*scene.Brush); ok && entities[b.Entity()] {
			continue
		}
		r = append(r, o)
	}
	return r, nil
}

func (c *removeObjectsCommand) Do() error {
	objs, err := c.targets()
	if err != nil {
		return err
	}
	if len(objs) == 0 {
		return errNoChange
	}
	c.deselect = selection.Result{}
	for _, o := range objs {
		c.deselect = c.deselect.Merge(c.d.selection.Purge(o))
	}
	if !c.deselect.Empty() {
		c.d.SelectionDidChange.Notify(c.deselect)
	}
	c.removed = c.removed[:0]
	for _, o := range objs {
		p, err := c.d.detach(o)
		if err != nil {
			c.Undo()
			return err
		}
		c.removed = append(c.removed, p)
	}
	return nil
}

func (c *removeObjectsCommand) Undo() error {
	for i := len(c.removed) - 1; i >= 0; i-- {
		c.d.attach(c.removed[i])
	}
	c.removed = nil
	if !c.deselect.Empty() {
		inv := c.deselect.Inverse()
		c.d.selection.Apply(inv)
		c.d.SelectionDidChange.Notify(inv)
	}
	return nil
}

// reparentCommand moves brushes to another entity.
type reparentCommand struct {
	d       *Document
	brushes []*scene.Brush
	parent  *scene.Entity
	old     []placement
}

func (c *reparentCommand) Name() string           { return "Reparent Brushes" }
func (c *reparentCommand) ModifiesDocument() bool { return true }

func (c *reparentCommand) move(b *scene.Brush, to *scene.Entity, index int) {
	if from := b.Entity(); from != nil {
		c.d.ObjectWillChange.Notify(from)
		from.RemoveBrush(b)
		c.d.ObjectDidChange.Notify(from)
	}
	c.d.ObjectWillChange.Notify(to)
	to.InsertBrush(index, b)
	c.d.ObjectDidChange.Notify(to)
}

func (c *reparentCommand) Do() error {
	if !c.d.m.Contains(c.parent) {
		return errors.New("new parent is not part of the map")
	}
	var moving []*scene.Brush
	for _, b := range c.brushes {
		if !c.d.m.Contains(b) {
			return errors.Errorf("brush %s is not part of the map", b.ID())
		}
		if b.Entity() != c.parent {
			moving = append(moving, b)
		}
	}
	if len(moving) == 0 {
		return errNoChange
	}
	c.old = c.old[:0]
	for _, b := range moving {
		from := b.Entity()
		i := indexOfBrush(from, b)
		c.old = append(c.old, placement{obj: b, parent: from, index: i})
		c.move(b, c.parent, len(c.parent.Brushes()))
	}
	return nil
}

func (c *reparentCommand) Undo() error {
	for i := len(c.old) - 1; i >= 0; i-- {
		p := c.old[i]
		c.move(p.obj.(*scene.Brush), p.parent, p.index)
	}
	return nil
}

func indexOfBrush(e *scene.Entity, b *scene.Brush) int {
	for i, o := range e.Brushes() {
		if o == b {
			return i
		}
	}
	return -1
}

// objectState is the undo record of one object.
type objectState struct {
	obj    scene.Object
	entity scene.EntitySnapshot
	brush  scene.BrushSnapshot
	props  []scene.Property
}

// changeCommand edits objects in place. Undo restores snapshots taken just
// before Do. Entities are snapshot with their brushes only if geometry is
// set.
type changeCommand struct {
	d        *Document
	name     string
	objs     []scene.Object
	geometry bool
	apply    func() error
	states   []objectState
}

func (c *changeCommand) Name() string           { return c.name }
func (c *changeCommand) ModifiesDocument() bool { return true }

func (c *changeCommand) snapshot() {
	c.states = c.states[:0]
	for _, o := range c.objs {
		s := objectState{obj: o}
		switch o := o.(type) {
		case *scene.Entity:
			if c.geometry {
				s.entity = o.Snapshot()
			} else {
				s.props = o.Properties()
			}
		case *scene.Brush:
			s.brush = o.Snapshot()
		}
		c.states = append(c.states, s)
	}
}

func (c *changeCommand) restore() error {
	var first error
	for _, s := range c.states {
		var err error
		switch o := s.obj.(type) {
		case *scene.Entity:
			if c.geometry {
				err = o.Restore(s.entity)
			} else {
				o.SetProperties(s.props)
			}
		case *scene.Brush:
			err = o.Restore(s.brush)
		}
		if err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (c *changeCommand) willChange() {
	for _, o := range c.objs {
		c.d.ObjectWillChange.Notify(o)
	}
}

func (c *changeCommand) didChange() {
	for _, o := range c.objs {
		c.d.ObjectDidChange.Notify(o)
	}
}

func (c *changeCommand) Do() error {
	if len(c.objs) == 0 {
		return errNoChange
	}
	for _, o := range c.objs {
		if !c.d.m.Contains(o) {
			return errors.Errorf("%s %s is not part of the map", o.Type(), o.ID())
		}
	}
	c.snapshot()
	c.willChange()
	err := c.apply()
	if err != nil {
		c.restore()
	}
	c.didChange()
	return err
}

func (c *changeCommand) Undo() error {
	c.willChange()
	err := c.restore()
	c.didChange()
	return err
}

// moveCommand translates objects. Consecutive moves of the same objects
// are recorded as one.
type moveCommand struct {
	changeCommand
	delta vec.Vec3
	lock  bool
}

func newMoveCommand(d *Document, objs []scene.Object, delta vec.Vec3, lock bool) *moveCommand {
	c := &moveCommand{delta: delta, lock: lock}
	c.changeCommand = changeCommand{d: d, name: "Move Objects", objs: objs, geometry: true}
	c.apply = c.translate
	return c
}

func (c *moveCommand) translate() error {
	for _, o := range c.objs {
		switch o := o.(type) {
		case *scene.Entity:
			o.Translate(c.delta, c.lock)
		case *scene.Brush:
			o.Translate(c.delta, c.lock)
		}
	}
	return nil
}

func (c *moveCommand) Collate(next command.Command) bool {
	n, ok := next.(*moveCommand)
	if !ok || n.lock != c.lock || !sameObjects(c.objs, n.objs) {
		return false
	}
	c.delta = vec.Add(c.delta, n.delta)
	return true
}

func sameObjects(a, b []scene.Object) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[scene.Object]bool, len(a))
	for _, o := range a {
		set[o] = true
	}
	for _, o := range b {
		if !set[o] {
			return false
		}
	}
	return true
}

// transformRoots drops brushes whose entity is transformed as well and the
// worldspawn entity itself, whose brushes are transformed one by one.
func transformRoots(objs []scene.Object) []scene.Object {
	entities := make(map[*scene.Entity]bool)
	for _, o := range objs {
		if e, ok := o.(*scene.Entity); ok {
			entities[e] = true
		}
	}
	var r []scene.Object
	seen := make(map[scene.Object]bool)
	for _, o := range objs {
		if seen[o] {
			continue
		}
		seen[o] = true
		switch o := o.(type) {
		case *scene.Entity:
			if o.IsWorldspawn() {
				continue
			}
		case *scene.Brush:
			if entities[o.Entity()] && !o.Entity().IsWorldspawn() {
				continue
			}
		}
		r = append(r, o)
	}
	return r
}
