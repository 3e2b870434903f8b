// SPDX-License-Identifier: GPL-2.0-or-later

// Package document owns an open map together with everything derived from
// it: the spatial index, the selection, the resource managers and the undo
// history. All edits go through the command processor.
package document

import (
	"io"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"quakeed/command"
	"quakeed/entdef"
	"quakeed/game"
	"quakeed/math/vec"
	"quakeed/model"
	"quakeed/notify"
	"quakeed/picker"
	"quakeed/prefs"
	"quakeed/scene"
	"quakeed/selection"
	"quakeed/texture"
)

// DefaultFilename names documents which were never saved.
const DefaultFilename = "unnamed.map"

var (
	ErrNoGame = errors.New("document has no game")
	ErrNoPath = errors.New("document has no path")
)

// Document is not safe for concurrent use. Notifiers are called on the
// goroutine doing the edit, and listeners must not edit the document from
// within a notification.
type Document struct {
	log   zerolog.Logger
	prefs *prefs.Preferences

	game        game.Game
	worldBounds vec.BBox3
	path        string
	m           *scene.Map

	picker      *picker.Picker
	selection   *selection.Selection
	index       *PropertyIndex
	textures    *texture.Manager
	definitions *entdef.Manager
	models      *model.Manager
	processor   *command.Processor

	modificationCount int

	ObjectWasAdded      notify.Notifier[scene.Object]
	ObjectWillBeRemoved notify.Notifier[scene.Object]
	ObjectWillChange    notify.Notifier[scene.Object]
	ObjectDidChange     notify.Notifier[scene.Object]
	ModsDidChange       notify.Notifier[[]string]
	PreferenceDidChange notify.Notifier[string]
	SelectionDidChange  notify.Notifier[selection.Result]
	CommandDone         notify.Notifier[command.Event]
	CommandUndone       notify.Notifier[command.Event]

	subs notify.Subscriptions
}

// New returns an empty document without a game. Call NewDocument or
// OpenDocument before editing.
func New(p *prefs.Preferences, log zerolog.Logger) *Document {
	d := &Document{
		log:         log.With().Str("component", "document").Logger(),
		prefs:       p,
		worldBounds: vec.Cube(-16384, 16384),
		m:           scene.NewMap(""),
		picker:      picker.New(),
		selection:   selection.New(),
		index:       NewPropertyIndex(),
		textures:    texture.NewManager(log),
		definitions: entdef.NewManager(log),
		models:      model.NewManager(log),
		processor:   command.NewProcessor(log),
	}
	d.bindObservers()
	return d
}

// The document's own listeners are registered first so that the derived
// state is consistent by the time other listeners run.
func (d *Document) bindObservers() {
	d.subs.Add(d.ObjectWasAdded.Subscribe(d.objectWasAdded))
	d.subs.Add(d.ObjectWillBeRemoved.Subscribe(d.objectWillBeRemoved))
	d.subs.Add(d.ObjectWillChange.Subscribe(d.objectWillChange))
	d.subs.Add(d.ObjectDidChange.Subscribe(d.objectDidChange))
	d.subs.Add(d.ModsDidChange.Subscribe(d.modsDidChange))
	d.subs.Add(d.processor.CommandDone.Subscribe(d.commandDone))
	d.subs.Add(d.processor.CommandUndone.Subscribe(d.commandUndone))
	d.subs.Add(d.textures.Cleared.Subscribe(d.texturesCleared))
	if d.prefs != nil {
		d.subs.Add(d.prefs.DidChange.Subscribe(d.preferenceDidChange))
	}
}

// Close detaches the document from the preferences and drops the undo
// history. The document must not be used afterwards.
func (d *Document) Close() {
	d.subs.UnsubscribeAll()
	d.processor.Clear()
	d.unbindAll()
}

func (d *Document) Game() game.Game {
	return d.game
}

func (d *Document) WorldBounds() vec.BBox3 {
	return d.worldBounds
}

func (d *Document) Path() string {
	return d.path
}

func (d *Document) Filename() string {
	if d.path == "" {
		return DefaultFilename
	}
	return filepath.Base(d.path)
}

func (d *Document) Map() *scene.Map {
	return d.m
}

func (d *Document) Picker() *picker.Picker {
	return d.picker
}

func (d *Document) Selection() *selection.Selection {
	return d.selection
}

func (d *Document) PropertyIndex() *PropertyIndex {
	return d.index
}

func (d *Document) TextureManager() *texture.Manager {
	return d.textures
}

func (d *Document) EntityDefinitionManager() *entdef.Manager {
	return d.definitions
}

func (d *Document) EntityModelManager() *model.Manager {
	return d.models
}

func (d *Document) Processor() *command.Processor {
	return d.processor
}

func (d *Document) Modified() bool {
	return d.modificationCount > 0
}

func (d *Document) ModificationCount() int {
	return d.modificationCount
}

func (d *Document) incModificationCount() {
	d.modificationCount++
}

func (d *Document) decModificationCount() {
	if d.modificationCount == 0 {
		d.log.Debug().Msg("modification count already zero")
		return
	}
	d.modificationCount--
}

func (d *Document) clearModificationCount() {
	d.modificationCount = 0
}

func (d *Document) commandDone(ev command.Event) {
	if ev.Command.ModifiesDocument() && !ev.Collated {
		d.incModificationCount()
	}
	d.CommandDone.Notify(ev)
}

func (d *Document) commandUndone(ev command.Event) {
	if ev.Command.ModifiesDocument() {
		d.decModificationCount()
	}
	d.CommandUndone.Notify(ev)
}

// NewDocument replaces the document with an empty map of g.
func (d *Document) NewDocument(worldBounds vec.BBox3, g game.Game, format string) {
	d.log.Info().Str("game", g.Name()).Msg("creating new document")
	d.replace(worldBounds, g, g.NewMap(format), "")
}

// OpenDocument replaces the document with the map at path. On error the
// document is left as it was.
func (d *Document) OpenDocument(worldBounds vec.BBox3, g game.Game, path string) error {
	d.log.Info().Str("game", g.Name()).Str("path", path).Msg("opening document")
	m, err := g.LoadMap(worldBounds, path)
	if err != nil {
		return err
	}
	d.replace(worldBounds, g, m, path)
	return nil
}

func (d *Document) replace(worldBounds vec.BBox3, g game.Game, m *scene.Map, path string) {
	d.processor.Clear()
	d.unbindAll()
	d.selection.Clear()

	d.game = g
	d.worldBounds = worldBounds
	d.m = m
	d.path = path
	d.clearModificationCount()

	d.definitions.Reset(g)
	d.models.Reset(g)
	d.textures.Reset(d.textureLoader())
	d.loadPalette()
	if err := g.SetMods(g.ExtractMods(m)); err != nil {
		d.log.Warn().Err(err).Msg("could not enable mods")
	}

	d.loadAndUpdateEntityDefinitions()
	d.loadAndUpdateTextures()

	d.index = NewPropertyIndex()
	for _, e := range m.Entities() {
		d.index.Add(e)
	}
	d.picker = picker.Build(m.Objects())
	d.log.Debug().Int("objects", d.picker.Len()).Int("depth", d.picker.Depth()).Msg("built picker")
}

// unbindAll releases every resource held by the current map.
func (d *Document) unbindAll() {
	for _, e := range d.m.Entities() {
		e.UnbindDefinition()
		e.UnbindModel()
	}
	for _, f := range d.m.Faces() {
		f.UnbindTexture()
	}
}

func (d *Document) SaveDocument() error {
	if d.path == "" {
		return ErrNoPath
	}
	return d.doSaveDocument(d.path)
}

func (d *Document) SaveDocumentAs(path string) error {
	return d.doSaveDocument(path)
}

func (d *Document) doSaveDocument(path string) error {
	if d.game == nil {
		return ErrNoGame
	}
	if err := d.game.WriteMap(d.m, path); err != nil {
		return err
	}
	d.clearModificationCount()
	d.processor.Seal()
	d.path = path
	d.log.Info().Str("path", path).Msg("saved document")
	return nil
}

// SaveBackup writes the map to path without marking the document saved.
func (d *Document) SaveBackup(path string) error {
	if d.game == nil {
		return ErrNoGame
	}
	return d.game.WriteMap(d.m, path)
}

// Worldspawn returns the worldspawn entity, creating it if the map has none.
func (d *Document) Worldspawn() *scene.Entity {
	if w := d.m.Worldspawn(); w != nil {
		return w
	}
	w := d.m.CreateWorldspawn()
	d.ObjectWasAdded.Notify(w)
	return w
}

func (d *Document) Mods() []string {
	if d.game == nil {
		return nil
	}
	return d.game.ExtractMods(d.m)
}

func (d *Document) EntityDefinitionFiles() []string {
	if d.game == nil {
		return nil
	}
	return d.game.AllEntityDefinitionFiles()
}

func (d *Document) ParseEntities(s string) ([]*scene.Entity, error) {
	if d.game == nil {
		return nil, ErrNoGame
	}
	return d.game.ParseEntities(s, d.worldBounds)
}

func (d *Document) ParseBrushes(s string) ([]*scene.Brush, error) {
	if d.game == nil {
		return nil, ErrNoGame
	}
	return d.game.ParseBrushes(s, d.worldBounds)
}

func (d *Document) ParseFaces(s string) ([]*scene.BrushFace, error) {
	if d.game == nil {
		return nil, ErrNoGame
	}
	return d.game.ParseFaces(s)
}

func (d *Document) WriteObjects(w io.Writer, objs []scene.Object) error {
	if d.game == nil {
		return ErrNoGame
	}
	return d.game.WriteObjects(w, objs)
}

func (d *Document) WriteFaces(w io.Writer, faces []*scene.BrushFace) error {
	if d.game == nil {
		return ErrNoGame
	}
	return d.game.WriteFaces(w, faces)
}

func (d *Document) Pick(r vec.Ray3) picker.Result {
	return d.picker.Pick(r)
}

// CurrentTextureName is the texture of the last selected face or "".
func (d *Document) CurrentTextureName() string {
	faces := d.selection.SelectedFaces()
	if len(faces) == 0 {
		return ""
	}
	return faces[len(faces)-1].TextureName()
}

func (d *Document) TextureLock() bool {
	if d.prefs == nil {
		return true
	}
	v, ok := d.prefs.Get(prefs.TextureLock)
	return !ok || v.Bool()
}

func (d *Document) SetTextureLock(on bool) {
	if d.prefs == nil {
		return
	}
	if v, ok := d.prefs.Get(prefs.TextureLock); ok {
		v.SetBool(on)
	}
}

// CommitPendingRenderStateChanges prepares resources loaded since the last
// call.
func (d *Document) CommitPendingRenderStateChanges() {
	d.textures.CommitChanges()
	d.definitions.CommitChanges()
	d.models.CommitChanges()
}
