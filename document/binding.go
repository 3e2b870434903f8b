// SPDX-License-Identifier: GPL-2.0-or-later

package document

import (
	"os"
	"path/filepath"

	"quakeed/game"
	"quakeed/scene"
	"quakeed/texture"
)

func (d *Document) objectWasAdded(o scene.Object) {
	switch o := o.(type) {
	case *scene.Entity:
		d.bindEntity(o)
		d.index.Add(o)
		for _, b := range o.Brushes() {
			d.bindFaces(b)
		}
	case *scene.Brush:
		d.bindFaces(o)
	}
	for _, so := range scene.Subtree(o) {
		d.picker.AddObject(so)
	}
}

func (d *Document) objectWillBeRemoved(o scene.Object) {
	if r := d.selection.Purge(o); !r.Empty() {
		d.SelectionDidChange.Notify(r)
	}
	for _, so := range scene.Subtree(o) {
		d.picker.RemoveObject(so)
	}
	switch o := o.(type) {
	case *scene.Entity:
		d.index.Remove(o)
		o.UnbindDefinition()
		o.UnbindModel()
		for _, b := range o.Brushes() {
			unbindFaces(b)
		}
	case *scene.Brush:
		unbindFaces(o)
	}
}

// affected are the picker entries whose bounds depend on o.
func affected(o scene.Object) []scene.Object {
	r := scene.Subtree(o)
	if b, ok := o.(*scene.Brush); ok && b.Entity() != nil {
		r = append(r, b.Entity())
	}
	return r
}

func (d *Document) objectWillChange(o scene.Object) {
	for _, so := range affected(o) {
		d.picker.RemoveObject(so)
	}
}

func (d *Document) objectDidChange(o scene.Object) {
	switch o := o.(type) {
	case *scene.Entity:
		d.bindEntity(o)
		d.index.Remove(o)
		d.index.Add(o)
	case *scene.Brush:
		d.bindFaces(o)
	}
	for _, so := range affected(o) {
		if d.m.Contains(so) {
			d.picker.AddObject(so)
		}
	}
}

func (d *Document) modsDidChange([]string) {
	d.reloadGameResources()
}

func (d *Document) preferenceDidChange(key string) {
	if d.game != nil && key == d.gamePathPreference() {
		if err := d.game.SetGamePath(d.prefs.String(key)); err != nil {
			d.log.Warn().Err(err).Str("game", d.game.Name()).Msg("could not change game path")
		}
		d.reloadGameResources()
	}
	d.PreferenceDidChange.Notify(key)
}

func (d *Document) gamePathPreference() string {
	return game.GamePathPreference(d.game.Name())
}

// reloadGameResources rebinds everything found through the game file
// system after it changed.
func (d *Document) reloadGameResources() {
	if d.game == nil {
		return
	}
	d.loadPalette()
	d.models.Clear()
	d.updateEntityModels()
	d.loadBuiltinTextures()
	d.updateTextures()
	d.refreshPicker()
}

func (d *Document) refreshPicker() {
	for _, e := range d.m.Entities() {
		d.picker.AddObject(e)
	}
}

func (d *Document) bindEntity(e *scene.Entity) {
	e.BindDefinition(d.definitions.Definition(e.Classname()))
	d.bindModel(e)
}

func (d *Document) bindModel(e *scene.Entity) {
	spec, ok := e.ModelSpecification()
	if !ok {
		e.UnbindModel()
		return
	}
	if m := d.models.Model(spec); m != nil {
		e.BindModel(m)
	} else {
		e.UnbindModel()
	}
}

func (d *Document) bindFaces(b *scene.Brush) {
	for _, f := range b.Faces() {
		t := d.textures.Texture(f.TextureName())
		if t == nil && f.TextureName() != "" {
			d.log.Debug().Str("texture", f.TextureName()).Msg("unresolved texture")
		}
		f.BindTexture(t)
	}
}

func (d *Document) texturesCleared(struct{}) {
	for _, b := range d.m.Brushes() {
		unbindFaces(b)
	}
}

func unbindFaces(b *scene.Brush) {
	for _, f := range b.Faces() {
		f.UnbindTexture()
	}
}

func (d *Document) loadPalette() {
	p, err := d.game.LoadPalette()
	if err != nil {
		d.log.Debug().Err(err).Msg("no palette, textures cannot be prepared")
		d.textures.SetPalette(nil)
		return
	}
	d.textures.SetPalette(p)
}

func (d *Document) loadAndUpdateEntityDefinitions() {
	d.loadEntityDefinitions()
	d.models.Clear()
	d.updateEntityDefinitions()
	d.updateEntityModels()
}

func (d *Document) loadEntityDefinitions() {
	path := d.game.ExtractEntityDefinitionFile(d.m)
	if path == "" {
		d.definitions.Clear()
		return
	}
	if err := d.definitions.LoadDefinitions(path); err != nil {
		d.log.Warn().Err(err).Str("file", path).Msg("could not load entity definitions")
		return
	}
	d.log.Info().Str("file", path).Int("count", d.definitions.Count()).Msg("loaded entity definitions")
}

func (d *Document) updateEntityDefinitions() {
	for _, e := range d.m.Entities() {
		e.BindDefinition(d.definitions.Definition(e.Classname()))
	}
}

func (d *Document) updateEntityModels() {
	for _, e := range d.m.Entities() {
		d.bindModel(e)
	}
}

func (d *Document) loadAndUpdateTextures() {
	d.loadBuiltinTextures()
	d.loadExternalTextures()
	d.updateTextures()
}

func (d *Document) loadBuiltinTextures() {
	d.textures.SetBuiltinTextureCollections(d.game.FindBuiltinTextureCollections())
}

func (d *Document) loadExternalTextures() {
	paths := d.game.ExtractTexturePaths(d.m)
	if len(paths) == 0 {
		return
	}
	d.textures.SetExternalTextureCollections(paths)
	if n := len(d.textures.ExternalCollectionPaths()); n < len(paths) {
		d.log.Warn().Int("missing", len(paths)-n).Msg("some texture collections could not be loaded")
	}
}

func (d *Document) updateTextures() {
	for _, b := range d.m.Brushes() {
		d.bindFaces(b)
	}
}

// docTextureLoader looks for relative collection paths next to the
// document before asking the game.
type docTextureLoader struct {
	d *Document
}

func (d *Document) textureLoader() texture.Loader {
	return docTextureLoader{d}
}

func (l docTextureLoader) LoadTextureCollection(path string) (*texture.Collection, error) {
	g := l.d.game
	if !filepath.IsAbs(path) && filepath.IsAbs(l.d.path) {
		local := filepath.Join(filepath.Dir(l.d.path), path)
		if _, err := os.Stat(local); err == nil {
			c, err := g.LoadTextureCollection(local)
			if err != nil {
				return nil, err
			}
			return texture.NewCollection(path, c.Textures()), nil
		}
	}
	return g.LoadTextureCollection(path)
}
