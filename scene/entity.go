// SPDX-License-Identifier: GPL-2.0-or-later

package scene

import (
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"

	qmath "quakeed/math"
	"quakeed/entdef"
	"quakeed/math/vec"
	"quakeed/model"
)

const (
	ClassnameKey  = "classname"
	OriginKey     = "origin"
	AngleKey      = "angle"
	ModelKey      = "model"
	SpawnflagsKey = "spawnflags"
	Worldspawn    = "worldspawn"
)

type Property struct {
	Key   string
	Value string
}

// Entity is a property bag which may own brushes. Keys are unique, the
// order of insertion is kept for writing.
type Entity struct {
	id         uuid.UUID
	properties []Property
	brushes    []*Brush

	// resolved from the classname and the model specification
	definition *entdef.Definition
	model      model.Model
}

func NewEntity(props ...Property) *Entity {
	e := &Entity{id: newID()}
	for _, p := range props {
		e.SetProperty(p.Key, p.Value)
	}
	return e
}

func (e *Entity) isObject() {}

func (e *Entity) ID() uuid.UUID {
	return e.id
}

func (e *Entity) Type() Type {
	return EntityType
}

func (e *Entity) index(key string) int {
	for i, p := range e.properties {
		if p.Key == key {
			return i
		}
	}
	return -1
}

// Properties returns a copy of all properties in order.
func (e *Entity) Properties() []Property {
	return append([]Property(nil), e.properties...)
}

func (e *Entity) Property(key string) (string, bool) {
	if i := e.index(key); i >= 0 {
		return e.properties[i].Value, true
	}
	return "", false
}

func (e *Entity) SetProperty(key, value string) {
	if i := e.index(key); i >= 0 {
		e.properties[i].Value = value
		return
	}
	e.properties = append(e.properties, Property{key, value})
}

func (e *Entity) RemoveProperty(key string) bool {
	i := e.index(key)
	if i < 0 {
		return false
	}
	e.properties = append(e.properties[:i:i], e.properties[i+1:]...)
	return true
}

// RenameProperty keeps the position of the property.
func (e *Entity) RenameProperty(oldKey, newKey string) error {
	i := e.index(oldKey)
	if i < 0 {
		return errors.Errorf("no property %q", oldKey)
	}
	if oldKey == newKey {
		return nil
	}
	if e.index(newKey) >= 0 {
		return errors.Errorf("property %q already exists", newKey)
	}
	e.properties[i].Key = newKey
	return nil
}

// SetProperties replaces all properties.
func (e *Entity) SetProperties(props []Property) {
	e.properties = append([]Property(nil), props...)
}

func (e *Entity) Classname() string {
	c, _ := e.Property(ClassnameKey)
	return c
}

func (e *Entity) IsWorldspawn() bool {
	return e.Classname() == Worldspawn
}

func (e *Entity) Origin() vec.Vec3 {
	o, ok := e.Property(OriginKey)
	if !ok {
		return vec.Vec3{}
	}
	v, err := vec.Parse(o)
	if err != nil {
		return vec.Vec3{}
	}
	return v
}

func (e *Entity) SetOrigin(v vec.Vec3) {
	e.SetProperty(OriginKey, v.String())
}

func (e *Entity) Angle() float32 {
	a, ok := e.Property(AngleKey)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(a), 32)
	if err != nil {
		return 0
	}
	return float32(f)
}

func (e *Entity) Brushes() []*Brush {
	return e.brushes
}

func (e *Entity) AddBrush(b *Brush) {
	e.InsertBrush(len(e.brushes), b)
}

func (e *Entity) InsertBrush(i int, b *Brush) {
	if i < 0 || i > len(e.brushes) {
		i = len(e.brushes)
	}
	e.brushes = append(e.brushes, nil)
	copy(e.brushes[i+1:], e.brushes[i:])
	e.brushes[i] = b
	b.entity = e
}

// RemoveBrush detaches b and returns its former index or -1.
func (e *Entity) RemoveBrush(b *Brush) int {
	for i, o := range e.brushes {
		if o == b {
			e.brushes = append(e.brushes[:i:i], e.brushes[i+1:]...)
			b.entity = nil
			return i
		}
	}
	return -1
}

func (e *Entity) Definition() *entdef.Definition {
	return e.definition
}

func (e *Entity) BindDefinition(d *entdef.Definition) {
	if e.definition == d {
		return
	}
	e.UnbindDefinition()
	if d != nil {
		d.IncUsage()
	}
	e.definition = d
}

func (e *Entity) UnbindDefinition() {
	if e.definition != nil {
		e.definition.DecUsage()
		e.definition = nil
	}
}

func (e *Entity) Model() model.Model {
	return e.model
}

func (e *Entity) BindModel(m model.Model) {
	e.model = m
}

func (e *Entity) UnbindModel() {
	e.model = nil
}

// ModelSpecification returns the model of the definition or the model
// file named by the model property. Brush model references like "*1" are
// not files.
func (e *Entity) ModelSpecification() (model.Specification, bool) {
	if e.definition != nil && e.definition.Model != nil {
		return *e.definition.Model, true
	}
	m, ok := e.Property(ModelKey)
	if !ok || m == "" || strings.HasPrefix(m, "*") {
		return model.Specification{}, false
	}
	return model.Specification{Path: strings.TrimPrefix(m, ":")}, true
}

// PointBounds are the bounds of the entity without brushes.
func (e *Entity) pointBounds() vec.BBox3 {
	b := entdef.DefaultBounds
	if e.definition != nil && e.definition.Type == entdef.PointEntity && !e.definition.Bounds.IsEmpty() {
		b = e.definition.Bounds
	} else if e.model != nil {
		spec, _ := e.ModelSpecification()
		if mb := e.model.Bounds(spec.Frame); !mb.IsEmpty() {
			b = mb
		}
	}
	return b.Translate(e.Origin())
}

// Bounds is the union of the brushes or the point bounds around the origin.
func (e *Entity) Bounds() vec.BBox3 {
	if len(e.brushes) == 0 {
		return e.pointBounds()
	}
	b := vec.EmptyBox()
	for _, br := range e.brushes {
		b = b.Merge(br.Bounds())
	}
	return b
}

// Pick only hits point entities, brush entities are hit through their
// brushes and worldspawn is never hit.
func (e *Entity) Pick(r vec.Ray3) (Hit, bool) {
	if len(e.brushes) > 0 || e.IsWorldspawn() {
		return Hit{}, false
	}
	d := e.Bounds().IntersectRay(r)
	if math32.IsNaN(d) {
		return Hit{}, false
	}
	return Hit{Object: e, Distance: d, Point: r.PointAt(d)}, true
}

func (e *Entity) Translate(d vec.Vec3, lockTextures bool) {
	for _, b := range e.brushes {
		b.Translate(d, lockTextures)
	}
	if _, ok := e.Property(OriginKey); ok || len(e.brushes) == 0 {
		e.SetOrigin(vec.Add(e.Origin(), d).Round(1e-3))
	}
}

// Rotate turns a point entity around center and adjusts its angle for
// rotations about the z axis. Brushes are rotated with it.
func (e *Entity) Rotate(center, axis vec.Vec3, angle float32, lockTextures bool) error {
	for i, b := range e.brushes {
		if err := b.Rotate(center, axis, angle, lockTextures); err != nil {
			for _, done := range e.brushes[:i] {
				done.Rotate(center, axis, -angle, lockTextures)
			}
			return err
		}
	}
	if _, ok := e.Property(OriginKey); ok || len(e.brushes) == 0 {
		o := vec.Add(vec.Rotate(vec.Sub(e.Origin(), center), axis, angle), center)
		e.SetOrigin(o.Round(1e-3))
	}
	if len(e.brushes) == 0 {
		if d := vec.Dot(axis.Normalize(), vec.PosZ); d > 0.999 || d < -0.999 {
			a := angle
			if d < 0 {
				a = -a
			}
			n := qmath.AngleMod32(e.Angle() + a)
			e.SetProperty(AngleKey, strconv.FormatFloat(float64(math32.Floor(n+0.5)), 'g', -1, 32))
		}
	}
	return nil
}

// Clone returns a detached deep copy with new ids and no bindings.
func (e *Entity) Clone() *Entity {
	c := &Entity{id: newID()}
	if err := copier.CopyWithOption(&c.properties, &e.properties, copier.Option{DeepCopy: true}); err != nil {
		c.properties = e.Properties()
	}
	for _, b := range e.brushes {
		c.AddBrush(b.Clone())
	}
	return c
}

// EntitySnapshot records the properties and brush geometry of an entity.
type EntitySnapshot struct {
	properties []Property
	brushes    []BrushSnapshot
}

func (e *Entity) Snapshot() EntitySnapshot {
	s := EntitySnapshot{properties: e.Properties()}
	for _, b := range e.brushes {
		s.brushes = append(s.brushes, b.Snapshot())
	}
	return s
}

func (e *Entity) Restore(s EntitySnapshot) error {
	if len(s.brushes) != len(e.brushes) {
		return errors.New("snapshot does not match entity")
	}
	e.SetProperties(s.properties)
	for i, b := range e.brushes {
		if err := b.Restore(s.brushes[i]); err != nil {
			return err
		}
	}
	return nil
}
