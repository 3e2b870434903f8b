// SPDX-License-Identifier: GPL-2.0-or-later

package editor

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quakeed/game"
	"quakeed/math/vec"
	"quakeed/prefs"
	"quakeed/scene"
	"quakeed/wad"
)

type fakePrompter struct {
	confirm   bool
	game      string
	confirmed []string
	asked     int
}

func (p *fakePrompter) Confirm(msg string) bool {
	p.confirmed = append(p.confirmed, msg)
	return p.confirm
}

func (p *fakePrompter) ChooseGame(games []string) (string, bool) {
	p.asked++
	return p.game, p.game != ""
}

func writeGameDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	gfx := filepath.Join(dir, "id1", "gfx")
	require.NoError(t, os.MkdirAll(gfx, 0755))
	var buf bytes.Buffer
	require.NoError(t, wad.WriteMipTextures(&buf, []wad.MipTex{
		{Name: "ground1_6", Width: 16, Height: 16, Data: make([]byte, 256)},
	}))
	require.NoError(t, os.WriteFile(filepath.Join(gfx, "base.wad"), buf.Bytes(), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(gfx, "palette.lmp"), make([]byte, 768), 0644))
	return dir
}

type fixture struct {
	prefs    *prefs.Preferences
	factory  *game.Factory
	prompter *fakePrompter
	editor   *Editor
	gameDir  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	p := prefs.New()
	f, err := game.NewFactory(p, zerolog.Nop())
	require.NoError(t, err)
	dir := writeGameDir(t)
	p.Set(game.GamePathPreference("Quake"), dir)
	pr := &fakePrompter{confirm: true}
	e := New(p, f, pr, zerolog.Nop())
	t.Cleanup(e.Close)
	return &fixture{prefs: p, factory: f, prompter: pr, editor: e, gameDir: dir}
}

// writeMap writes a map with a door and a light. Without header the game
// can not be detected.
func (f *fixture) writeMap(t *testing.T, header bool) string {
	t.Helper()
	g, err := f.factory.CreateGame("Quake")
	require.NoError(t, err)
	m := g.NewMap("")
	m.Worldspawn().SetProperty("wad", "gfx/base.wad")
	door := scene.NewEntity(scene.Property{Key: scene.ClassnameKey, Value: "func_door"},
		scene.Property{Key: "targetname", Value: "d1"})
	b, err := scene.BuildCuboid(vec.Cube(-32, 32), "ground1_6")
	require.NoError(t, err)
	door.AddBrush(b)
	m.AddEntity(door)
	m.AddEntity(scene.NewEntity(scene.Property{Key: scene.ClassnameKey, Value: "light"},
		scene.Property{Key: scene.OriginKey, Value: "128 0 0"}))

	var buf bytes.Buffer
	require.NoError(t, g.WriteObjects(&buf, []scene.Object{m.Entities()[0], door, m.Entities()[2]}))
	data := buf.Bytes()
	if header {
		data = append([]byte("// Game: Quake\n// Format: Standard\n"), data...)
	}
	path := filepath.Join(t.TempDir(), "e1m1.map")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestOpenDetectsGame(t *testing.T) {
	f := newFixture(t)
	path := f.writeMap(t, true)
	require.NoError(t, f.editor.OpenDocument(path))
	d := f.editor.Document()
	require.NotNil(t, d)
	assert.Equal(t, "Quake", d.Game().Name())
	assert.Len(t, d.Map().Entities(), 3)
	assert.Equal(t, []string{path}, f.editor.Recent().Entries())
	assert.Zero(t, f.prompter.asked)
	assert.NotNil(t, d.Map().Brushes()[0].Faces()[0].Texture())
}

func TestOpenAsksForGame(t *testing.T) {
	f := newFixture(t)
	path := f.writeMap(t, false)

	err := f.editor.OpenDocument(path)
	assert.ErrorIs(t, err, ErrCanceled)
	assert.Nil(t, f.editor.Document())
	assert.Equal(t, 1, f.prompter.asked)

	f.prompter.game = "quake"
	require.NoError(t, f.editor.OpenDocument(path))
	assert.Equal(t, "Quake", f.editor.Document().Game().Name())

	f.prompter.asked = 0
	require.NoError(t, f.editor.OpenDocumentWithGame(path, "Quake"))
	assert.Zero(t, f.prompter.asked)
}

func TestOpenMissingFile(t *testing.T) {
	f := newFixture(t)
	path := f.writeMap(t, true)
	require.NoError(t, f.editor.OpenDocument(path))
	d := f.editor.Document()

	missing := filepath.Join(t.TempDir(), "gone.map")
	f.editor.Recent().Add(missing)
	err := f.editor.OpenDocument(missing)
	require.Error(t, err)
	assert.True(t, game.IsNotFound(err))
	assert.Same(t, d, f.editor.Document())
	assert.Equal(t, []string{path}, f.editor.Recent().Entries())
}

func TestOpenReplacesDocument(t *testing.T) {
	f := newFixture(t)
	path := f.writeMap(t, true)
	require.NoError(t, f.editor.OpenDocument(path))
	old := f.editor.Document()
	light := old.Map().Entities()[2]
	require.NotNil(t, light.Definition())

	require.NoError(t, f.editor.NewDocument("Quake", ""))
	assert.NotSame(t, old, f.editor.Document())
	assert.Nil(t, light.Definition())
	assert.Len(t, f.editor.Document().Map().Entities(), 1)
}

func TestRecoverInvalidGamePath(t *testing.T) {
	f := newFixture(t)
	key := game.GamePathPreference("Quake")
	f.prefs.Set(key, filepath.Join(t.TempDir(), "nope"))

	f.prompter.confirm = false
	err := f.editor.NewDocument("Quake", "")
	_, ok := game.AsRecoverable(err)
	assert.True(t, ok)
	assert.Len(t, f.prompter.confirmed, 1)
	assert.NotEmpty(t, f.prefs.String(key))
	assert.Nil(t, f.editor.Document())

	f.prompter.confirm = true
	require.NoError(t, f.editor.NewDocument("Quake", ""))
	assert.Len(t, f.prompter.confirmed, 2)
	assert.Contains(t, f.prompter.confirmed[1], "Clear it?")
	assert.Empty(t, f.prefs.String(key))
	require.NotNil(t, f.editor.Document())
	assert.False(t, f.editor.recovering)
}

func TestRecoverOpen(t *testing.T) {
	f := newFixture(t)
	path := f.writeMap(t, true)
	key := game.GamePathPreference("Quake")
	f.prefs.Set(key, filepath.Join(t.TempDir(), "nope"))

	require.NoError(t, f.editor.OpenDocument(path))
	assert.Len(t, f.prompter.confirmed, 1)
	d := f.editor.Document()
	assert.Len(t, d.Map().Entities(), 3)
	// without game path the textures can not be found
	assert.Nil(t, d.Map().Brushes()[0].Faces()[0].Texture())
	assert.Equal(t, []string{path}, f.editor.Recent().Entries())
}

func TestUnknownGame(t *testing.T) {
	f := newFixture(t)
	err := f.editor.NewDocument("Doom", "")
	assert.ErrorIs(t, err, game.ErrUnknownGame)
	assert.Empty(t, f.prompter.confirmed)
}

func TestRecentFiles(t *testing.T) {
	f := newFixture(t)
	path := f.writeMap(t, true)
	require.NoError(t, f.editor.OpenDocument(path))
	file := filepath.Join(t.TempDir(), "recent.pb")
	require.NoError(t, f.editor.SaveRecent(file))

	e := New(f.prefs, f.factory, f.prompter, zerolog.Nop())
	require.NoError(t, e.LoadRecent(file))
	assert.Equal(t, []string{path}, e.Recent().Entries())
}
