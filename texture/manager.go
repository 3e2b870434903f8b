// SPDX-License-Identifier: GPL-2.0-or-later

package texture

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"quakeed/notify"
	"quakeed/palette"
)

// Loader reads texture collections, usually from the game file system.
type Loader interface {
	LoadTextureCollection(path string) (*Collection, error)
}

// Manager holds the builtin collections of the game and the external
// collections named by the map. Textures are looked up by name without
// regard to case. On a name clash the collection added last wins.
type Manager struct {
	log      zerolog.Logger
	loader   Loader
	palette  *palette.Palette
	builtin  []*Collection
	external []*Collection
	byName   map[string]*Texture
	pending  []*Texture

	// Cleared fires after Clear so owners can unbind their faces.
	Cleared notify.Notifier[struct{}]
}

func NewManager(log zerolog.Logger) *Manager {
	m := &Manager{log: log.With().Str("component", "textures").Logger()}
	m.Clear()
	return m
}

// Reset drops every collection and loads future ones through loader.
func (m *Manager) Reset(loader Loader) {
	m.Clear()
	m.loader = loader
}

// Clear drops every collection. Listeners of Cleared unbind the faces
// pointing at the dropped textures.
func (m *Manager) Clear() {
	m.builtin = nil
	m.external = nil
	m.pending = nil
	m.byName = make(map[string]*Texture)
	m.Cleared.Notify(struct{}{})
}

func (m *Manager) SetPalette(p *palette.Palette) {
	m.palette = p
}

func (m *Manager) load(path string) (*Collection, error) {
	if m.loader == nil {
		return nil, errors.Errorf("no texture loader for %s", path)
	}
	c, err := m.loader.LoadTextureCollection(path)
	if err != nil {
		return nil, err
	}
	m.pending = append(m.pending, c.Textures()...)
	return c, nil
}

// SetBuiltinTextureCollections replaces the builtin collections. Paths that
// fail to load are logged and skipped.
func (m *Manager) SetBuiltinTextureCollections(paths []string) {
	m.builtin = nil
	for _, p := range paths {
		c, err := m.load(p)
		if err != nil {
			m.log.Warn().Err(err).Str("collection", p).Msg("could not load builtin texture collection")
			continue
		}
		m.builtin = append(m.builtin, c)
	}
	m.updateTextures()
}

// AddExternalTextureCollections appends collections. Paths that fail to
// load are logged and skipped.
func (m *Manager) AddExternalTextureCollections(paths []string) {
	for _, p := range paths {
		if err := m.addExternal(p); err != nil {
			m.log.Warn().Err(err).Str("collection", p).Msg("could not load texture collection")
		}
	}
	m.updateTextures()
}

// AddTextureCollection appends one collection and reports load failures.
func (m *Manager) AddTextureCollection(path string) error {
	if err := m.addExternal(path); err != nil {
		return err
	}
	m.updateTextures()
	return nil
}

func (m *Manager) addExternal(path string) error {
	if m.indexOf(path) >= 0 {
		return errors.Errorf("texture collection %s already loaded", path)
	}
	c, err := m.load(path)
	if err != nil {
		return err
	}
	m.external = append(m.external, c)
	return nil
}

func (m *Manager) indexOf(path string) int {
	for i, c := range m.external {
		if c.Path() == path {
			return i
		}
	}
	return -1
}

func (m *Manager) RemoveTextureCollection(path string) error {
	i := m.indexOf(path)
	if i < 0 {
		return errors.Errorf("texture collection %s not loaded", path)
	}
	m.external = append(m.external[:i:i], m.external[i+1:]...)
	m.updateTextures()
	return nil
}

func (m *Manager) MoveTextureCollectionUp(path string) error {
	i := m.indexOf(path)
	if i <= 0 {
		return errors.Errorf("cannot move texture collection %s up", path)
	}
	m.external[i-1], m.external[i] = m.external[i], m.external[i-1]
	m.updateTextures()
	return nil
}

func (m *Manager) MoveTextureCollectionDown(path string) error {
	i := m.indexOf(path)
	if i < 0 || i == len(m.external)-1 {
		return errors.Errorf("cannot move texture collection %s down", path)
	}
	m.external[i+1], m.external[i] = m.external[i], m.external[i+1]
	m.updateTextures()
	return nil
}

// SetExternalTextureCollections makes paths the external collections in the
// given order. Already loaded collections are reused.
func (m *Manager) SetExternalTextureCollections(paths []string) {
	old := make(map[string]*Collection, len(m.external))
	for _, c := range m.external {
		old[c.Path()] = c
	}
	m.external = nil
	for _, p := range paths {
		if c, ok := old[p]; ok {
			m.external = append(m.external, c)
			continue
		}
		if err := m.addExternal(p); err != nil {
			m.log.Warn().Err(err).Str("collection", p).Msg("could not load texture collection")
		}
	}
	m.updateTextures()
}

func (m *Manager) ExternalCollectionPaths() []string {
	r := make([]string, 0, len(m.external))
	for _, c := range m.external {
		r = append(r, c.Path())
	}
	return r
}

func (m *Manager) Collections() []*Collection {
	r := make([]*Collection, 0, len(m.builtin)+len(m.external))
	r = append(r, m.builtin...)
	return append(r, m.external...)
}

func (m *Manager) updateTextures() {
	m.byName = make(map[string]*Texture)
	for _, c := range m.Collections() {
		for _, t := range c.Textures() {
			m.byName[strings.ToLower(t.Name())] = t
		}
	}
}

// Texture returns the texture named name or nil.
func (m *Manager) Texture(name string) *Texture {
	return m.byName[strings.ToLower(name)]
}

// Textures returns the visible textures sorted by name.
func (m *Manager) Textures() []*Texture {
	r := make([]*Texture, 0, len(m.byName))
	for _, t := range m.byName {
		r = append(r, t)
	}
	sort.Slice(r, func(i, j int) bool {
		return strings.ToLower(r[i].Name()) < strings.ToLower(r[j].Name())
	})
	return r
}

// CommitChanges converts every texture loaded since the last commit to
// RGBA. Without a palette the textures stay pending.
func (m *Manager) CommitChanges() {
	if m.palette == nil {
		if len(m.pending) > 0 {
			m.log.Debug().Int("pending", len(m.pending)).Msg("no palette, textures stay unprepared")
		}
		return
	}
	for _, t := range m.pending {
		t.rgba = m.palette.ToRGBA(int32(t.width), int32(t.height), t.data, t.Fence())
		t.prepared = true
	}
	m.pending = nil
}

func (m *Manager) PendingCount() int {
	return len(m.pending)
}
