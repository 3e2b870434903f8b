// SPDX-License-Identifier: GPL-2.0-or-later

package document

import (
	"github.com/pkg/errors"

	"quakeed/command"
	"quakeed/math/vec"
	"quakeed/scene"
	"quakeed/selection"
)

// execute runs c. Commands which would change nothing are not an error.
func (d *Document) execute(c command.Command) error {
	err := d.processor.Execute(c)
	if errors.Is(err, errNoChange) {
		return nil
	}
	return err
}

func (d *Document) UndoLastCommand() bool {
	return d.processor.Undo()
}

func (d *Document) RedoNextCommand() bool {
	return d.processor.Redo()
}

func (d *Document) HasLastCommand() bool {
	return d.processor.HasLastCommand()
}

func (d *Document) HasNextCommand() bool {
	return d.processor.HasNextCommand()
}

func (d *Document) LastCommandName() string {
	return d.processor.LastCommandName()
}

func (d *Document) NextCommandName() string {
	return d.processor.NextCommandName()
}

func (d *Document) BeginUndoableGroup(name string) {
	d.processor.BeginUndoableGroup(name)
}

func (d *Document) BeginOneShotGroup(name string) {
	d.processor.BeginOneShotGroup(name)
}

func (d *Document) CloseGroup() error {
	return d.processor.CloseGroup()
}

func (d *Document) RollbackGroup() error {
	return d.processor.RollbackGroup()
}

// group runs fn inside an undoable group, rolling back if it fails.
func (d *Document) group(name string, fn func() error) error {
	d.processor.BeginUndoableGroup(name)
	if err := fn(); err != nil {
		if rerr := d.processor.RollbackGroup(); rerr != nil {
			d.log.Error().Err(rerr).Str("group", name).Msg("rollback failed")
		}
		return err
	}
	return d.processor.CloseGroup()
}

func (d *Document) checkObjects(objs []scene.Object) error {
	for _, o := range objs {
		if !d.m.Contains(o) {
			return errors.Errorf("%s %s is not part of the map", o.Type(), o.ID())
		}
	}
	return nil
}

func (d *Document) checkFaces(faces []*scene.BrushFace) error {
	for _, f := range faces {
		if f.Brush() == nil || !d.m.Contains(f.Brush()) {
			return errors.New("face is not part of the map")
		}
	}
	return nil
}

func (d *Document) changeSelection(name string, op func(*selection.Selection) selection.Result) (selection.Result, error) {
	c := &selectCommand{d: d, name: name, op: op}
	if err := d.execute(c); err != nil {
		return selection.Result{}, err
	}
	return c.result, nil
}

func (d *Document) SelectObjects(objs []scene.Object) (selection.Result, error) {
	if err := d.checkObjects(objs); err != nil {
		return selection.Result{}, err
	}
	return d.changeSelection("Select Objects", func(s *selection.Selection) selection.Result {
		return s.SelectObjects(objs)
	})
}

func (d *Document) SelectObject(o scene.Object) (selection.Result, error) {
	return d.SelectObjects([]scene.Object{o})
}

func (d *Document) DeselectObjects(objs []scene.Object) (selection.Result, error) {
	return d.changeSelection("Deselect Objects", func(s *selection.Selection) selection.Result {
		return s.DeselectObjects(objs)
	})
}

func (d *Document) SelectAllObjects() (selection.Result, error) {
	return d.changeSelection("Select All", func(s *selection.Selection) selection.Result {
		return s.SelectAllObjects(d.m)
	})
}

func (d *Document) DeselectAllAndSelectObjects(objs []scene.Object) (selection.Result, error) {
	if err := d.checkObjects(objs); err != nil {
		return selection.Result{}, err
	}
	return d.changeSelection("Select Objects", func(s *selection.Selection) selection.Result {
		r := s.DeselectAll()
		return r.Merge(s.SelectObjects(objs))
	})
}

func (d *Document) SelectFaces(faces []*scene.BrushFace) (selection.Result, error) {
	if err := d.checkFaces(faces); err != nil {
		return selection.Result{}, err
	}
	return d.changeSelection("Select Faces", func(s *selection.Selection) selection.Result {
		return s.SelectFaces(faces)
	})
}

func (d *Document) DeselectFaces(faces []*scene.BrushFace) (selection.Result, error) {
	return d.changeSelection("Deselect Faces", func(s *selection.Selection) selection.Result {
		return s.DeselectFaces(faces)
	})
}

func (d *Document) DeselectAllAndSelectFaces(faces []*scene.BrushFace) (selection.Result, error) {
	if err := d.checkFaces(faces); err != nil {
		return selection.Result{}, err
	}
	return d.changeSelection("Select Faces", func(s *selection.Selection) selection.Result {
		r := s.DeselectAll()
		return r.Merge(s.SelectFaces(faces))
	})
}

func (d *Document) SelectAllFaces() (selection.Result, error) {
	return d.changeSelection("Select All Faces", func(s *selection.Selection) selection.Result {
		return s.SelectAllFaces(d.m)
	})
}

func (d *Document) DeselectAll() (selection.Result, error) {
	return d.changeSelection("Select None", func(s *selection.Selection) selection.Result {
		return s.DeselectAll()
	})
}

// AddObjects appends entities to the map and brushes to parent, or to
// worldspawn if parent is nil.
func (d *Document) AddObjects(objs []scene.Object, parent *scene.Entity) error {
	if parent != nil && !d.m.Contains(parent) {
		return errors.New("parent is not part of the map")
	}
	return d.execute(&addObjectsCommand{d: d, objs: objs, parent: parent})
}

// RemoveObjects deselects and removes objs.
func (d *Document) RemoveObjects(objs []scene.Object) error {
	return d.execute(&removeObjectsCommand{d: d, objs: objs})
}

// DuplicateObjects adds a copy of every selected object next to the
// original and selects the copies.
func (d *Document) DuplicateObjects() error {
	objs := transformRoots(d.selection.SelectedObjects())
	if len(objs) == 0 {
		return nil
	}
	var entities []scene.Object
	byParent := make(map[*scene.Entity][]scene.Object)
	var parents []*scene.Entity
	var copies []scene.Object
	for _, o := range objs {
		switch o := o.(type) {
		case *scene.Entity:
			c := o.Clone()
			entities = append(entities, c)
			copies = append(copies, c)
		case *scene.Brush:
			c := o.Clone()
			p := o.Entity()
			if _, ok := byParent[p]; !ok {
				parents = append(parents, p)
			}
			byParent[p] = append(byParent[p], c)
			copies = append(copies, c)
		}
	}
	return d.group("Duplicate Objects", func() error {
		if err := d.AddObjects(entities, nil); err != nil {
			return err
		}
		for _, p := range parents {
			if err := d.AddObjects(byParent[p], p); err != nil {
				return err
			}
		}
		_, err := d.DeselectAllAndSelectObjects(copies)
		return err
	})
}

// ReparentBrushes moves brushes to parent.
func (d *Document) ReparentBrushes(brushes []*scene.Brush, parent *scene.Entity) error {
	return d.execute(&reparentCommand{d: d, brushes: brushes, parent: parent})
}

func entityObjects(entities []*scene.Entity) []scene.Object {
	r := make([]scene.Object, len(entities))
	for i, e := range entities {
		r[i] = e
	}
	return r
}

func (d *Document) changeProperties(name string, entities []*scene.Entity, fn func(*scene.Entity) error) error {
	c := &changeCommand{d: d, name: name, objs: entityObjects(entities)}
	c.apply = func() error {
		for _, e := range entities {
			if err := fn(e); err != nil {
				return err
			}
		}
		return nil
	}
	return d.execute(c)
}

func (d *Document) SetEntityProperty(entities []*scene.Entity, key, value string) error {
	return d.changeProperties("Set Property", entities, func(e *scene.Entity) error {
		e.SetProperty(key, value)
		return nil
	})
}

func (d *Document) RenameEntityProperty(entities []*scene.Entity, oldKey, newKey string) error {
	if oldKey == newKey {
		return nil
	}
	return d.changeProperties("Rename Property", entities, func(e *scene.Entity) error {
		return e.RenameProperty(oldKey, newKey)
	})
}

func (d *Document) RemoveEntityProperty(entities []*scene.Entity, key string) error {
	return d.changeProperties("Remove Property", entities, func(e *scene.Entity) error {
		if !e.RemoveProperty(key) {
			return errors.Errorf("entity has no property %q", key)
		}
		return nil
	})
}

// MoveObjects translates objs by delta. Moving the same objects again
// right after extends the last move instead of adding to the history.
func (d *Document) MoveObjects(objs []scene.Object, delta vec.Vec3) error {
	if delta == (vec.Vec3{}) {
		return nil
	}
	return d.execute(newMoveCommand(d, transformRoots(objs), delta, d.TextureLock()))
}

// RotateObjects turns objs by angle degrees around the axis through center.
func (d *Document) RotateObjects(objs []scene.Object, center, axis vec.Vec3, angle float32) error {
	roots := transformRoots(objs)
	lock := d.TextureLock()
	c := &changeCommand{d: d, name: "Rotate Objects", objs: roots, geometry: true}
	c.apply = func() error {
		for _, o := range roots {
			var err error
			switch o := o.(type) {
			case *scene.Entity:
				err = o.Rotate(center, axis, angle, lock)
			case *scene.Brush:
				err = o.Rotate(center, axis, angle, lock)
			}
			if err != nil {
				return err
			}
		}
		return nil
	}
	return d.execute(c)
}

func faceBrushes(faces []*scene.BrushFace) []scene.Object {
	var r []scene.Object
	seen := make(map[*scene.Brush]bool)
	for _, f := range faces {
		if b := f.Brush(); b != nil && !seen[b] {
			seen[b] = true
			r = append(r, b)
		}
	}
	return r
}

// ResizeBrushes pushes every face along its normal by delta. Nothing
// changes if any brush would become invalid.
func (d *Document) ResizeBrushes(faces []*scene.BrushFace, delta float32) error {
	if err := d.checkFaces(faces); err != nil {
		return err
	}
	c := &changeCommand{d: d, name: "Resize Brushes", objs: faceBrushes(faces), geometry: true}
	c.apply = func() error {
		for _, f := range faces {
			if err := f.Brush().MoveFace(f, delta); err != nil {
				return err
			}
		}
		return nil
	}
	return d.execute(c)
}

func (d *Document) changeFaces(name string, faces []*scene.BrushFace, fn func(*scene.FaceAttributes)) error {
	if err := d.checkFaces(faces); err != nil {
		return err
	}
	c := &changeCommand{d: d, name: name, objs: faceBrushes(faces)}
	c.apply = func() error {
		for _, f := range faces {
			a := f.Attributes()
			fn(&a)
			f.SetAttributes(a)
		}
		return nil
	}
	return d.execute(c)
}

func setOrAdd(v *float32, value float32, add bool) {
	if add {
		*v += value
	} else {
		*v = value
	}
}

func (d *Document) SetTexture(faces []*scene.BrushFace, name string) error {
	return d.changeFaces("Set Texture", faces, func(a *scene.FaceAttributes) {
		a.TextureName = name
	})
}

func (d *Document) SetFaceXOffset(faces []*scene.BrushFace, v float32, add bool) error {
	return d.changeFaces("Set X Offset", faces, func(a *scene.FaceAttributes) {
		setOrAdd(&a.XOffset, v, add)
	})
}

func (d *Document) SetFaceYOffset(faces []*scene.BrushFace, v float32, add bool) error {
	return d.changeFaces("Set Y Offset", faces, func(a *scene.FaceAttributes) {
		setOrAdd(&a.YOffset, v, add)
	})
}

func (d *Document) SetFaceRotation(faces []*scene.BrushFace, v float32, add bool) error {
	return d.changeFaces("Set Rotation", faces, func(a *scene.FaceAttributes) {
		setOrAdd(&a.Rotation, v, add)
	})
}

func (d *Document) SetFaceXScale(faces []*scene.BrushFace, v float32, add bool) error {
	return d.changeFaces("Set X Scale", faces, func(a *scene.FaceAttributes) {
		setOrAdd(&a.XScale, v, add)
	})
}

func (d *Document) SetFaceYScale(faces []*scene.BrushFace, v float32, add bool) error {
	return d.changeFaces("Set Y Scale", faces, func(a *scene.FaceAttributes) {
		setOrAdd(&a.YScale, v, add)
	})
}

func setBit(v *int32, bit int32, on bool) {
	if on {
		*v |= bit
	} else {
		*v &^= bit
	}
}

func (d *Document) SetSurfaceFlag(faces []*scene.BrushFace, flag int32, on bool) error {
	return d.changeFaces("Set Surface Flag", faces, func(a *scene.FaceAttributes) {
		setBit(&a.SurfaceFlags, flag, on)
	})
}

func (d *Document) SetContentFlag(faces []*scene.BrushFace, flag int32, on bool) error {
	return d.changeFaces("Set Content Flag", faces, func(a *scene.FaceAttributes) {
		setBit(&a.SurfaceContents, flag, on)
	})
}

func (d *Document) SetSurfaceValue(faces []*scene.BrushFace, v float32, add bool) error {
	return d.changeFaces("Set Surface Value", faces, func(a *scene.FaceAttributes) {
		setOrAdd(&a.SurfaceValue, v, add)
	})
}

// SetFaceAttributes copies every attribute of template to faces.
func (d *Document) SetFaceAttributes(faces []*scene.BrushFace, template scene.FaceAttributes) error {
	return d.changeFaces("Set Face Attributes", faces, func(a *scene.FaceAttributes) {
		*a = template
	})
}

// Paste adds the objects in s and selects them. If s holds faces instead,
// the attributes of the last one are copied to the selected faces.
func (d *Document) Paste(s string) error {
	if d.game == nil {
		return ErrNoGame
	}
	entities, brushes, err := d.game.ParseObjects(s, d.worldBounds)
	if err == nil && len(entities)+len(brushes) > 0 {
		var objs, all []scene.Object
		for _, e := range entities {
			objs = append(objs, e)
			all = append(all, scene.Subtree(e)...)
		}
		for _, b := range brushes {
			objs = append(objs, b)
			all = append(all, b)
		}
		return d.group("Paste", func() error {
			if err := d.AddObjects(objs, nil); err != nil {
				return err
			}
			_, err := d.DeselectAllAndSelectObjects(pasteSelection(all))
			return err
		})
	}
	faces, ferr := d.game.ParseFaces(s)
	if ferr != nil || len(faces) == 0 {
		if err == nil {
			err = ferr
		}
		if err == nil {
			err = errors.New("nothing to paste")
		}
		return errors.Wrap(err, "paste")
	}
	selected := d.selection.SelectedFaces()
	if len(selected) == 0 {
		return errors.New("paste: no faces selected")
	}
	return d.SetFaceAttributes(selected, faces[len(faces)-1].Attributes())
}

// pasteSelection selects pasted brush entities by their brushes.
func pasteSelection(objs []scene.Object) []scene.Object {
	var r []scene.Object
	for _, o := range objs {
		if e, ok := o.(*scene.Entity); ok && len(e.Brushes()) > 0 {
			continue
		}
		r = append(r, o)
	}
	return r
}

func (d *Document) updateWorldspawn(fn func(m *scene.Map)) {
	w := d.Worldspawn()
	d.ObjectWillChange.Notify(w)
	fn(d.m)
	d.ObjectDidChange.Notify(w)
}

// SetMods enables the mod directories mods, in increasing precedence.
func (d *Document) SetMods(mods []string) error {
	if d.game == nil {
		return ErrNoGame
	}
	old := d.Mods()
	return d.execute(&command.Func{
		Label:    "Set Mods",
		Modifies: true,
		DoFunc:   func() error { return d.applyMods(mods) },
		UndoFunc: func() error { return d.applyMods(old) },
	})
}

func (d *Document) applyMods(mods []string) error {
	d.updateWorldspawn(func(m *scene.Map) { d.game.UpdateMods(m, mods) })
	if err := d.game.SetMods(mods); err != nil {
		d.log.Warn().Err(err).Strs("mods", mods).Msg("could not enable mods")
	}
	d.ModsDidChange.Notify(append([]string(nil), mods...))
	return nil
}

// SetEntityDefinitionFile loads definitions from path and rebinds every
// entity.
func (d *Document) SetEntityDefinitionFile(path string) error {
	if d.game == nil {
		return ErrNoGame
	}
	old := d.game.ExtractEntityDefinitionFile(d.m)
	if old == path {
		return nil
	}
	return d.execute(&command.Func{
		Label:    "Set Entity Definitions",
		Modifies: true,
		DoFunc:   func() error { return d.applyEntityDefinitionFile(path) },
		UndoFunc: func() error { return d.applyEntityDefinitionFile(old) },
	})
}

func (d *Document) applyEntityDefinitionFile(path string) error {
	d.updateWorldspawn(func(m *scene.Map) { d.game.UpdateEntityDefinitionFile(m, path) })
	d.loadAndUpdateEntityDefinitions()
	d.refreshPicker()
	return nil
}

func (d *Document) syncTexturePaths() {
	paths := d.textures.ExternalCollectionPaths()
	d.updateWorldspawn(func(m *scene.Map) { d.game.UpdateTexturePaths(m, paths) })
	d.updateTextures()
}

func (d *Document) textureCommand(name string, do, undo func() error) error {
	if d.game == nil {
		return ErrNoGame
	}
	wrap := func(fn func() error) func() error {
		return func() error {
			if err := fn(); err != nil {
				return err
			}
			d.syncTexturePaths()
			return nil
		}
	}
	return d.execute(&command.Func{Label: name, Modifies: true, DoFunc: wrap(do), UndoFunc: wrap(undo)})
}

func (d *Document) AddTextureCollection(path string) error {
	return d.textureCommand("Add Texture Collection",
		func() error { return d.textures.AddTextureCollection(path) },
		func() error { return d.textures.RemoveTextureCollection(path) })
}

func (d *Document) RemoveTextureCollections(paths []string) error {
	old := d.textures.ExternalCollectionPaths()
	return d.textureCommand("Remove Texture Collections",
		func() error {
			for _, p := range paths {
				if err := d.textures.RemoveTextureCollection(p); err != nil {
					d.textures.SetExternalTextureCollections(old)
					return err
				}
			}
			return nil
		},
		func() error {
			d.textures.SetExternalTextureCollections(old)
			return nil
		})
}

func (d *Document) MoveTextureCollectionUp(path string) error {
	return d.textureCommand("Move Texture Collection Up",
		func() error { return d.textures.MoveTextureCollectionUp(path) },
		func() error { return d.textures.MoveTextureCollectionDown(path) })
}

func (d *Document) MoveTextureCollectionDown(path string) error {
	return d.textureCommand("Move Texture Collection Down",
		func() error { return d.textures.MoveTextureCollectionDown(path) },
		func() error { return d.textures.MoveTextureCollectionUp(path) })
}
