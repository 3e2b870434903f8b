// SPDX-License-Identifier: GPL-2.0-or-later

// Package game knows the file formats and file system layout of the
// supported games.
package game

import (
	"io"

	"quakeed/entdef"
	"quakeed/filesystem"
	"quakeed/math/vec"
	"quakeed/model"
	"quakeed/palette"
	"quakeed/scene"
	"quakeed/texture"
)

// Game is the backend a document delegates all file format and resource
// location questions to.
type Game interface {
	texture.Loader
	entdef.Loader
	model.Loader

	Name() string
	Config() *Config
	WorldBounds() vec.BBox3

	GamePath() string
	// SetGamePath rebinds the file system. An empty path unbinds it.
	SetGamePath(path string) error
	Mods() []string
	SetMods(mods []string) error
	FileSystem() *filesystem.FS

	NewMap(format string) *scene.Map
	LoadMap(worldBounds vec.BBox3, path string) (*scene.Map, error)
	WriteMap(m *scene.Map, path string) error

	ParseEntities(s string, worldBounds vec.BBox3) ([]*scene.Entity, error)
	ParseBrushes(s string, worldBounds vec.BBox3) ([]*scene.Brush, error)
	ParseFaces(s string) ([]*scene.BrushFace, error)
	ParseObjects(s string, worldBounds vec.BBox3) ([]*scene.Entity, []*scene.Brush, error)
	WriteObjects(w io.Writer, objs []scene.Object) error
	WriteFaces(w io.Writer, faces []*scene.BrushFace) error

	FindBuiltinTextureCollections() []string
	ExtractTexturePaths(m *scene.Map) []string
	UpdateTexturePaths(m *scene.Map, paths []string)

	ExtractEntityDefinitionFile(m *scene.Map) string
	UpdateEntityDefinitionFile(m *scene.Map, path string)
	AllEntityDefinitionFiles() []string

	ExtractMods(m *scene.Map) []string
	UpdateMods(m *scene.Map, mods []string)

	LoadPalette() (*palette.Palette, error)
}
