// SPDX-License-Identifier: GPL-2.0-or-later

package game

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	_ "quakeed/bsp"
	"quakeed/entdef"
	"quakeed/filesystem"
	"quakeed/mapfile"
	"quakeed/math/vec"
	_ "quakeed/mdl"
	"quakeed/model"
	"quakeed/palette"
	"quakeed/scene"
	_ "quakeed/spr"
	"quakeed/texture"
	"quakeed/wad"
)

// pathSeparator splits the path lists stored in worldspawn properties.
const pathSeparator = ";"

// quakeGame implements Game for every configuration in the Quake family.
type quakeGame struct {
	log      zerolog.Logger
	config   *Config
	gamePath string
	mods     []string
	fs       *filesystem.FS
}

func newQuakeGame(c *Config, log zerolog.Logger) *quakeGame {
	return &quakeGame{
		log:    log.With().Str("component", "game").Str("game", c.Name).Logger(),
		config: c,
		fs:     filesystem.New(),
	}
}

func (g *quakeGame) Name() string {
	return g.config.Name
}

func (g *quakeGame) Config() *Config {
	return g.config
}

func (g *quakeGame) WorldBounds() vec.BBox3 {
	return g.config.WorldBounds()
}

func (g *quakeGame) GamePath() string {
	return g.gamePath
}

func (g *quakeGame) SetGamePath(path string) error {
	g.gamePath = path
	return g.rebind()
}

func (g *quakeGame) Mods() []string {
	return append([]string(nil), g.mods...)
}

func (g *quakeGame) SetMods(mods []string) error {
	g.mods = append([]string(nil), mods...)
	return g.rebind()
}

func (g *quakeGame) rebind() error {
	if g.gamePath == "" {
		return g.fs.Close()
	}
	if err := g.fs.UseGameDir(g.gamePath, g.config.FileSystem.SearchPath, g.mods); err != nil {
		g.fs.Close()
		return err
	}
	g.log.Debug().Strs("dirs", g.fs.Dirs()).Msg("file system bound")
	return nil
}

func (g *quakeGame) FileSystem() *filesystem.FS {
	return g.fs
}

func (g *quakeGame) format(f string) string {
	if f == "" || !g.config.SupportsFormat(f) {
		return g.config.FileFormats[0]
	}
	return f
}

// NewMap returns a map holding only an empty worldspawn.
func (g *quakeGame) NewMap(format string) *scene.Map {
	m := scene.NewMap(g.format(format))
	m.CreateWorldspawn()
	return m
}

func (g *quakeGame) LoadMap(worldBounds vec.BBox3, path string) (*scene.Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(path)
		}
		return nil, errors.Wrap(err, "load map")
	}
	h := mapfile.ReadHeader(data)
	return mapfile.ParseMap(path, data, g.format(h.Format), worldBounds)
}

func (g *quakeGame) WriteMap(m *scene.Map, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "write map")
	}
	if err := mapfile.WriteMap(f, m, g.Name()); err != nil {
		f.Close()
		return errors.Wrapf(err, "write map %s", path)
	}
	return errors.Wrapf(f.Close(), "write map %s", path)
}

func (g *quakeGame) defaultFormat() string {
	return g.config.FileFormats[0]
}

func (g *quakeGame) ParseEntities(s string, worldBounds vec.BBox3) ([]*scene.Entity, error) {
	return mapfile.ParseEntities(s, g.defaultFormat(), worldBounds)
}

func (g *quakeGame) ParseBrushes(s string, worldBounds vec.BBox3) ([]*scene.Brush, error) {
	return mapfile.ParseBrushes(s, g.defaultFormat(), worldBounds)
}

func (g *quakeGame) ParseFaces(s string) ([]*scene.BrushFace, error) {
	return mapfile.ParseFaces(s, g.defaultFormat())
}

func (g *quakeGame) ParseObjects(s string, worldBounds vec.BBox3) ([]*scene.Entity, []*scene.Brush, error) {
	return mapfile.ParseObjects(s, g.defaultFormat(), worldBounds)
}

func (g *quakeGame) WriteObjects(w io.Writer, objs []scene.Object) error {
	return mapfile.WriteObjects(w, objs, g.defaultFormat())
}

func (g *quakeGame) WriteFaces(w io.Writer, faces []*scene.BrushFace) error {
	return mapfile.WriteFaces(w, faces, g.defaultFormat())
}

func (g *quakeGame) FindBuiltinTextureCollections() []string {
	return append([]string(nil), g.config.Textures.Builtin...)
}

func splitPaths(v string) []string {
	var r []string
	for _, p := range strings.Split(v, pathSeparator) {
		if p = strings.TrimSpace(p); p != "" {
			r = append(r, p)
		}
	}
	return r
}

func worldProperty(m *scene.Map, key string) string {
	if key == "" {
		return ""
	}
	w := m.Worldspawn()
	if w == nil {
		return ""
	}
	v, _ := w.Property(key)
	return v
}

func setWorldProperty(m *scene.Map, key, value string) {
	if key == "" {
		return
	}
	w := m.CreateWorldspawn()
	if value == "" {
		w.RemoveProperty(key)
		return
	}
	w.SetProperty(key, value)
}

// ExtractTexturePaths returns the wad files named by worldspawn.
func (g *quakeGame) ExtractTexturePaths(m *scene.Map) []string {
	return splitPaths(worldProperty(m, g.config.Textures.Attribute))
}

func (g *quakeGame) UpdateTexturePaths(m *scene.Map, paths []string) {
	setWorldProperty(m, g.config.Textures.Attribute, strings.Join(paths, pathSeparator))
}

// ExtractEntityDefinitionFile returns the definition file named by
// worldspawn or the first definition file of the game.
func (g *quakeGame) ExtractEntityDefinitionFile(m *scene.Map) string {
	if v := worldProperty(m, g.config.DefAttribute); v != "" {
		return v
	}
	if defs := g.config.Entities.Definitions; len(defs) > 0 {
		return defs[0]
	}
	return ""
}

func (g *quakeGame) UpdateEntityDefinitionFile(m *scene.Map, path string) {
	if defs := g.config.Entities.Definitions; len(defs) > 0 && path == defs[0] {
		path = ""
	}
	setWorldProperty(m, g.config.DefAttribute, path)
}

func (g *quakeGame) AllEntityDefinitionFiles() []string {
	return append([]string(nil), g.config.Entities.Definitions...)
}

func (g *quakeGame) ExtractMods(m *scene.Map) []string {
	return splitPaths(worldProperty(m, g.config.ModAttribute))
}

func (g *quakeGame) UpdateMods(m *scene.Map, mods []string) {
	setWorldProperty(m, g.config.ModAttribute, strings.Join(mods, pathSeparator))
}

// readFile reads host paths directly and everything else through the game
// file system.
func (g *quakeGame) readFile(path string) ([]byte, error) {
	if isBuiltin(path) {
		return readBuiltin(path)
	}
	if filepath.IsAbs(path) {
		b, err := os.ReadFile(path)
		if err == nil {
			return b, nil
		}
		if !os.IsNotExist(err) {
			return nil, errors.WithStack(err)
		}
	}
	b, err := g.fs.ReadFile(path)
	if err != nil {
		if IsNotFound(err) {
			return nil, notFound(path)
		}
		return nil, err
	}
	return b, nil
}

func (g *quakeGame) LoadTextureCollection(path string) (*texture.Collection, error) {
	data, err := g.readFile(path)
	if err != nil {
		return nil, err
	}
	w, err := wad.Read(path, data)
	if err != nil {
		return nil, err
	}
	return texture.CollectionFromWad(path, w)
}

func (g *quakeGame) LoadEntityDefinitions(path string) ([]*entdef.Definition, error) {
	data, err := g.readFile(path)
	if err != nil {
		return nil, err
	}
	defs, err := entdef.Parse(path, data)
	if err != nil {
		return nil, err
	}
	// classes without a color of their own get the game's default color
	c := g.config.Entities.DefaultColor
	for _, d := range defs {
		if d.Color == entdef.DefaultColor && c != [3]float32{} {
			d.Color = entdef.Color{R: c[0], G: c[1], B: c[2]}
		}
	}
	return defs, nil
}

func (g *quakeGame) supportsModel(path string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, f := range g.config.Entities.ModelFormats {
		if strings.EqualFold(f, ext) {
			return true
		}
	}
	return false
}

func (g *quakeGame) LoadModel(path string) (model.Model, error) {
	if !g.supportsModel(path) {
		return nil, errors.Errorf("unsupported model format %s", path)
	}
	data, err := g.readFile(path)
	if err != nil {
		return nil, err
	}
	return model.Load(path, data)
}

func (g *quakeGame) LoadPalette() (*palette.Palette, error) {
	if g.config.Textures.Palette == "" {
		return nil, errors.New("no palette configured")
	}
	data, err := g.readFile(g.config.Textures.Palette)
	if err != nil {
		return nil, err
	}
	return palette.New(data)
}
