// SPDX-License-Identifier: GPL-2.0-or-later

package texture

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quakeed/palette"
	"quakeed/wad"
)

type mapLoader map[string][]string

func (l mapLoader) LoadTextureCollection(path string) (*Collection, error) {
	names, ok := l[path]
	if !ok {
		return nil, errors.Errorf("no collection %s", path)
	}
	var ts []*Texture
	for _, n := range names {
		ts = append(ts, NewTexture(n, 1, 1, []byte{1}))
	}
	return NewCollection(path, ts), nil
}

func testManager() *Manager {
	m := NewManager(zerolog.Nop())
	m.Reset(mapLoader{
		"base.wad":   {"BRICK", "metal1"},
		"extra.wad":  {"brick", "sky1"},
		"fences.wad": {"{grate"},
	})
	return m
}

func TestLastCollectionWins(t *testing.T) {
	m := testManager()
	m.SetBuiltinTextureCollections([]string{"base.wad"})
	require.NotNil(t, m.Texture("brick"))
	assert.Equal(t, "base.wad", m.Texture("brick").Collection())

	m.AddExternalTextureCollections([]string{"extra.wad", "missing.wad"})
	assert.Equal(t, "extra.wad", m.Texture("BRICK").Collection())
	assert.Equal(t, []string{"extra.wad"}, m.ExternalCollectionPaths())
	assert.Len(t, m.Textures(), 3)

	require.NoError(t, m.RemoveTextureCollection("extra.wad"))
	assert.Equal(t, "base.wad", m.Texture("brick").Collection())
	assert.Nil(t, m.Texture("sky1"))
	assert.Error(t, m.RemoveTextureCollection("extra.wad"))
}

func TestMoveCollections(t *testing.T) {
	m := testManager()
	require.NoError(t, m.AddTextureCollection("base.wad"))
	require.NoError(t, m.AddTextureCollection("extra.wad"))
	assert.Error(t, m.AddTextureCollection("extra.wad"))
	assert.Error(t, m.AddTextureCollection("nothere.wad"))

	assert.Error(t, m.MoveTextureCollectionUp("base.wad"))
	assert.Error(t, m.MoveTextureCollectionDown("extra.wad"))
	require.NoError(t, m.MoveTextureCollectionUp("extra.wad"))
	assert.Equal(t, []string{"extra.wad", "base.wad"}, m.ExternalCollectionPaths())
	assert.Equal(t, "base.wad", m.Texture("brick").Collection())

	require.NoError(t, m.MoveTextureCollectionDown("extra.wad"))
	assert.Equal(t, []string{"base.wad", "extra.wad"}, m.ExternalCollectionPaths())
}

func TestSetExternalReuses(t *testing.T) {
	m := testManager()
	m.AddExternalTextureCollections([]string{"base.wad", "extra.wad"})
	brick := m.Texture("metal1")
	m.SetExternalTextureCollections([]string{"extra.wad", "base.wad", "fences.wad"})
	assert.Same(t, brick, m.Texture("metal1"))
	assert.Equal(t, []string{"extra.wad", "base.wad", "fences.wad"}, m.ExternalCollectionPaths())
}

func TestCommitChanges(t *testing.T) {
	m := testManager()
	m.AddExternalTextureCollections([]string{"fences.wad"})
	m.CommitChanges()
	assert.Equal(t, 1, m.PendingCount())

	pal := make([]byte, 256*3)
	p, err := palette.New(pal)
	require.NoError(t, err)
	m.SetPalette(p)
	m.CommitChanges()
	assert.Equal(t, 0, m.PendingCount())
	g := m.Texture("{grate")
	assert.True(t, g.Prepared())
	assert.Len(t, g.RGBA(), 4)
}

func TestCollectionFromWad(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, wad.WriteMipTextures(&buf, []wad.MipTex{
		{Name: "sky4", Width: 1, Height: 1, Data: []byte{3}},
	}))
	w, err := wad.Read("gfx/sky.wad", buf.Bytes())
	require.NoError(t, err)
	c, err := CollectionFromWad("gfx/sky.wad", w)
	require.NoError(t, err)
	require.Len(t, c.Textures(), 1)
	assert.Equal(t, "gfx/sky.wad", c.Textures()[0].Collection())
	assert.Equal(t, 1, c.Textures()[0].Width())
}

func TestUsage(t *testing.T) {
	tx := NewTexture("a", 1, 1, nil)
	tx.DecUsage()
	assert.Equal(t, 0, tx.Usage())
	tx.IncUsage()
	tx.IncUsage()
	tx.DecUsage()
	assert.Equal(t, 1, tx.Usage())
}

func TestClearNotifies(t *testing.T) {
	m := testManager()
	m.SetBuiltinTextureCollections([]string{"base.wad"})
	cleared := 0
	sub := m.Cleared.Subscribe(func(struct{}) { cleared++ })
	defer sub.Unsubscribe()
	m.Clear()
	assert.Equal(t, 1, cleared)
	assert.Nil(t, m.Texture("brick"))
	assert.Empty(t, m.Collections())
}
