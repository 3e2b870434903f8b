// SPDX-License-Identifier: GPL-2.0-or-later

package game

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/godoc/vfs/mapfs"

	"quakeed/entdef"
	"quakeed/math/vec"
	"quakeed/scene"
	"quakeed/wad"
)

func testGame(t *testing.T, files map[string]string) *quakeGame {
	cs, err := builtinConfigs()
	require.NoError(t, err)
	g := newQuakeGame(cs[0], zerolog.Nop())
	if files != nil {
		g.FileSystem().Bind(mapfs.New(files))
	}
	return g
}

func TestNewMap(t *testing.T) {
	g := testGame(t, nil)
	m := g.NewMap("")
	assert.Equal(t, "Standard", m.Format())
	require.NotNil(t, m.Worldspawn())

	m = g.NewMap("Quake2")
	assert.Equal(t, "Standard", m.Format())
}

func TestWorldspawnPaths(t *testing.T) {
	g := testGame(t, nil)
	m := g.NewMap("")
	assert.Empty(t, g.ExtractTexturePaths(m))

	g.UpdateTexturePaths(m, []string{"gfx/base.wad", "gfx/start.wad"})
	v, _ := m.Worldspawn().Property("wad")
	assert.Equal(t, "gfx/base.wad;gfx/start.wad", v)
	assert.Equal(t, []string{"gfx/base.wad", "gfx/start.wad"}, g.ExtractTexturePaths(m))

	g.UpdateTexturePaths(m, nil)
	_, ok := m.Worldspawn().Property("wad")
	assert.False(t, ok)

	assert.Equal(t, "builtin:quake.def", g.ExtractEntityDefinitionFile(m))
	g.UpdateEntityDefinitionFile(m, "/home/q/custom.fgd")
	assert.Equal(t, "/home/q/custom.fgd", g.ExtractEntityDefinitionFile(m))
	g.UpdateEntityDefinitionFile(m, "builtin:quake.def")
	_, ok = m.Worldspawn().Property("_def")
	assert.False(t, ok)

	g.UpdateMods(m, []string{"hipnotic", " rogue "})
	assert.Equal(t, []string{"hipnotic", "rogue"}, g.ExtractMods(m))
}

func TestLoadBuiltinDefinitions(t *testing.T) {
	g := testGame(t, nil)
	defs, err := g.LoadEntityDefinitions("builtin:quake.def")
	require.NoError(t, err)
	byName := map[string]*entdef.Definition{}
	for _, d := range defs {
		byName[d.Name] = d
	}
	require.Contains(t, byName, "light")
	require.Contains(t, byName, "func_door")
	assert.Equal(t, entdef.PointEntity, byName["light"].Type)
	assert.Equal(t, entdef.BrushEntity, byName["func_door"].Type)

	_, err = g.LoadEntityDefinitions("builtin:missing.def")
	assert.True(t, IsNotFound(err))
}

func TestLoadTextureCollection(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, wad.WriteMipTextures(&buf, []wad.MipTex{
		{Name: "ground1_6", Width: 16, Height: 16, Data: make([]byte, 256)},
		{Name: "sky1", Width: 16, Height: 16, Data: make([]byte, 256)},
	}))
	g := testGame(t, map[string]string{"gfx/base.wad": buf.String()})

	c, err := g.LoadTextureCollection("gfx/base.wad")
	require.NoError(t, err)
	assert.Equal(t, "gfx/base.wad", c.Path())
	require.Len(t, c.Textures(), 2)
	assert.Equal(t, "ground1_6", c.Textures()[0].Name())

	_, err = g.LoadTextureCollection("gfx/none.wad")
	assert.True(t, IsNotFound(err))
}

func TestLoadPalette(t *testing.T) {
	g := testGame(t, map[string]string{"gfx/palette.lmp": strings.Repeat("\x10", 768)})
	p, err := g.LoadPalette()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x10), p.Table[0])

	g = testGame(t, nil)
	_, err = g.LoadPalette()
	assert.True(t, IsNotFound(err))
}

func TestLoadModelFormats(t *testing.T) {
	g := testGame(t, map[string]string{"progs/player.mdl": "junk"})
	_, err := g.LoadModel("progs/player.md2")
	assert.Error(t, err)
	_, err = g.LoadModel("progs/player.mdl")
	assert.Error(t, err)
	_, err = g.LoadModel("progs/missing.mdl")
	assert.True(t, IsNotFound(err))
}

func TestMapRoundTrip(t *testing.T) {
	g := testGame(t, nil)
	m := g.NewMap("")
	b, err := scene.BuildCuboid(vec.Cube(-64, 64), "ground1_6")
	require.NoError(t, err)
	m.Worldspawn().AddBrush(b)
	light := scene.NewEntity(
		scene.Property{Key: scene.ClassnameKey, Value: "light"},
		scene.Property{Key: scene.OriginKey, Value: "0 0 32"})
	m.AddEntity(light)

	p := filepath.Join(t.TempDir(), "start.map")
	require.NoError(t, g.WriteMap(m, p))

	loaded, err := g.LoadMap(g.WorldBounds(), p)
	require.NoError(t, err)
	require.Len(t, loaded.Entities(), 2)
	require.Len(t, loaded.Worldspawn().Brushes(), 1)
	assert.Equal(t, b.Bounds(), loaded.Worldspawn().Brushes()[0].Bounds())
	assert.Equal(t, vec.Vec3{X: 0, Y: 0, Z: 32}, loaded.Entities()[1].Origin())

	_, err = g.LoadMap(g.WorldBounds(), filepath.Join(t.TempDir(), "none.map"))
	assert.True(t, IsNotFound(err))
}

func TestPasteObjects(t *testing.T) {
	g := testGame(t, nil)
	b, err := scene.BuildCuboid(vec.Cube(0, 16), "sky1")
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, g.WriteObjects(&buf, []scene.Object{b}))

	ents, brushes, err := g.ParseObjects(buf.String(), g.WorldBounds())
	require.NoError(t, err)
	assert.Empty(t, ents)
	require.Len(t, brushes, 1)
	assert.Equal(t, b.Bounds(), brushes[0].Bounds())
}
