// SPDX-License-Identifier: GPL-2.0-or-later

package model

import (
	"github.com/rs/zerolog"
)

// Loader resolves a model path, usually against the game file system.
type Loader interface {
	LoadModel(path string) (Model, error)
}

// Manager caches entity models by path. Failed loads are remembered so a
// missing model is only reported once per reset.
type Manager struct {
	log      zerolog.Logger
	loader   Loader
	models   map[string]Model
	misses   map[string]bool
	pending  []Model
	prepared map[Model]bool
}

func NewManager(log zerolog.Logger) *Manager {
	m := &Manager{log: log.With().Str("component", "models").Logger()}
	m.Clear()
	return m
}

// Reset drops every model and resolves future requests through loader.
func (m *Manager) Reset(loader Loader) {
	m.Clear()
	m.loader = loader
}

// Clear drops every cached model. Entities bound to one keep pointing at
// it until they are rebound.
func (m *Manager) Clear() {
	m.models = make(map[string]Model)
	m.misses = make(map[string]bool)
	m.prepared = make(map[Model]bool)
	m.pending = nil
}

// Model returns the model for spec or nil if it cannot be loaded.
func (m *Manager) Model(spec Specification) Model {
	if spec.IsEmpty() {
		return nil
	}
	if mdl, ok := m.models[spec.Path]; ok {
		return mdl
	}
	if m.misses[spec.Path] || m.loader == nil {
		return nil
	}
	mdl, err := m.loader.LoadModel(spec.Path)
	if err != nil || mdl == nil {
		m.misses[spec.Path] = true
		m.log.Warn().Err(err).Str("model", spec.Path).Msg("could not load entity model")
		return nil
	}
	m.models[spec.Path] = mdl
	m.pending = append(m.pending, mdl)
	m.log.Debug().Str("model", spec.Path).Int("frames", mdl.FrameCount()).Msg("loaded entity model")
	return mdl
}

// CommitChanges marks every model loaded since the last commit as prepared.
func (m *Manager) CommitChanges() {
	for _, mdl := range m.pending {
		m.prepared[mdl] = true
	}
	m.pending = nil
}

func (m *Manager) Prepared(mdl Model) bool {
	return m.prepared[mdl]
}

func (m *Manager) PendingCount() int {
	return len(m.pending)
}

func (m *Manager) Count() int {
	return len(m.models)
}
