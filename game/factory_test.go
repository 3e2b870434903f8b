// SPDX-License-Identifier: GPL-2.0-or-later

package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quakeed/prefs"
)

func testFactory(t *testing.T) (*Factory, *prefs.Preferences) {
	p := prefs.New()
	f, err := NewFactory(p, zerolog.Nop())
	require.NoError(t, err)
	return f, p
}

func TestGameNames(t *testing.T) {
	f, p := testFactory(t)
	assert.Equal(t, []string{"Quake"}, f.GameNames())
	_, ok := p.Get(GamePathPreference("Quake"))
	assert.True(t, ok)
	assert.True(t, IsGamePathPreference(GamePathPreference("Quake")))
	assert.False(t, IsGamePathPreference(prefs.TextureLock))
}

func TestLoadConfigs(t *testing.T) {
	f, _ := testFactory(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hexen.yaml"),
		[]byte("name: Hexen\nfileformats: [Standard]\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: [\n"), 0644))
	require.NoError(t, f.LoadConfigs(dir))
	assert.Equal(t, []string{"Hexen", "Quake"}, f.GameNames())
}

func TestCreateGame(t *testing.T) {
	f, _ := testFactory(t)
	g, err := f.CreateGame("quake")
	require.NoError(t, err)
	assert.Equal(t, "Quake", g.Name())
	assert.Equal(t, "", g.GamePath())

	_, err = f.CreateGame("doom")
	assert.True(t, errors.Is(err, ErrUnknownGame))
}

func TestCreateGameConfigIsCopied(t *testing.T) {
	f, _ := testFactory(t)
	g, err := f.CreateGame("Quake")
	require.NoError(t, err)
	g.Config().FileFormats[0] = "Valve"
	h, err := f.CreateGame("Quake")
	require.NoError(t, err)
	assert.Equal(t, "Standard", h.Config().FileFormats[0])
}

func TestCreateGameInvalidPath(t *testing.T) {
	f, p := testFactory(t)
	key := GamePathPreference("Quake")
	p.Set(key, filepath.Join(t.TempDir(), "missing"))

	_, err := f.CreateGame("Quake")
	require.Error(t, err)
	r, ok := AsRecoverable(err)
	require.True(t, ok)
	assert.NotEmpty(t, r.Query)
	require.NoError(t, r.Recover())
	assert.Equal(t, "", p.String(key))

	g, err := f.CreateGame("Quake")
	require.NoError(t, err)
	assert.Equal(t, "", g.GamePath())
}

func TestCreateGameWithPath(t *testing.T) {
	f, p := testFactory(t)
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "id1"), 0755))
	p.Set(GamePathPreference("Quake"), dir)

	g, err := f.CreateGame("Quake")
	require.NoError(t, err)
	assert.Equal(t, dir, g.GamePath())
	assert.Equal(t, []string{filepath.Join(dir, "id1")}, g.FileSystem().Dirs())
}

func TestDetectGame(t *testing.T) {
	f, _ := testFactory(t)
	dir := t.TempDir()
	p := filepath.Join(dir, "a.map")
	require.NoError(t, os.WriteFile(p, []byte("// Game: quake\n// Format: Standard\n{\n}\n"), 0644))
	game, format, err := f.DetectGame(p)
	require.NoError(t, err)
	assert.Equal(t, "Quake", game)
	assert.Equal(t, "Standard", format)

	p = filepath.Join(dir, "b.map")
	require.NoError(t, os.WriteFile(p, []byte("// Game: Unreal\n{\n}\n"), 0644))
	game, format, err = f.DetectGame(p)
	require.NoError(t, err)
	assert.Equal(t, "", game)
	assert.Equal(t, "", format)

	_, _, err = f.DetectGame(filepath.Join(dir, "c.map"))
	assert.True(t, IsNotFound(err))
	assert.True(t, errors.Is(err, ErrFileNotFound))
}
