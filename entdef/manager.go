// SPDX-License-Identifier: GPL-2.0-or-later

package entdef

import (
	"path"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Parse picks the parser by the extension of name.
func Parse(name string, data []byte) ([]*Definition, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".def":
		return ParseDef(name, data)
	case ".ent":
		return ParseEnt(name, data)
	}
	return nil, errors.Errorf("%s: unknown entity definition format", name)
}

// Loader reads and parses an entity definition file.
type Loader interface {
	LoadEntityDefinitions(path string) ([]*Definition, error)
}

type Manager struct {
	log         zerolog.Logger
	loader      Loader
	path        string
	definitions []*Definition
	byName      map[string]*Definition
}

func NewManager(log zerolog.Logger) *Manager {
	m := &Manager{log: log.With().Str("component", "entdefs").Logger()}
	m.Clear()
	return m
}

func (m *Manager) Reset(loader Loader) {
	m.Clear()
	m.loader = loader
}

// Clear drops all definitions. Entities keep the definition they are bound
// to until they are rebound.
func (m *Manager) Clear() {
	m.path = ""
	m.definitions = nil
	m.byName = make(map[string]*Definition)
}

// LoadDefinitions replaces all definitions with the ones in path. On error
// the manager is left empty.
func (m *Manager) LoadDefinitions(path string) error {
	m.Clear()
	if m.loader == nil {
		return errors.Errorf("no entity definition loader for %s", path)
	}
	defs, err := m.loader.LoadEntityDefinitions(path)
	if err != nil {
		return err
	}
	m.path = path
	m.definitions = defs
	for _, d := range defs {
		if _, ok := m.byName[d.Name]; ok {
			m.log.Warn().Str("classname", d.Name).Str("file", path).Msg("duplicate entity definition")
		}
		m.byName[d.Name] = d
	}
	m.log.Debug().Str("file", path).Int("count", len(defs)).Msg("loaded entity definitions")
	return nil
}

func (m *Manager) Path() string {
	return m.path
}

// Definition returns the definition for classname or nil.
func (m *Manager) Definition(classname string) *Definition {
	return m.byName[classname]
}

// Definitions returns the definitions of type t sorted by name.
func (m *Manager) Definitions(t Type) []*Definition {
	var r []*Definition
	for _, d := range m.byName {
		if d.Type == t {
			r = append(r, d)
		}
	}
	sort.Slice(r, func(i, j int) bool { return r[i].Name < r[j].Name })
	return r
}

func (m *Manager) Count() int {
	return len(m.byName)
}

// CommitChanges has nothing to flush, definitions need no preparation.
func (m *Manager) CommitChanges() {}
