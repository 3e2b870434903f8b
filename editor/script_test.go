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

	"quakeed/console"
	"quakeed/math/vec"
)

func scripted(t *testing.T) (*fixture, *console.Buffer, *bytes.Buffer) {
	t.Helper()
	f := newFixture(t)
	c := console.NewCommands()
	out := &bytes.Buffer{}
	f.editor.RegisterCommands(c, out)
	return f, console.NewBuffer(c, zerolog.Nop()), out
}

func TestScriptNeedsDocument(t *testing.T) {
	_, b, _ := scripted(t)
	b.AddText("selectall\n")
	assert.ErrorIs(t, b.Execute(), ErrNoDocument)
}

func TestScriptEdit(t *testing.T) {
	f, b, out := scripted(t)
	path := f.writeMap(t, true)
	b.AddText("open " + path + "\n")
	b.AddText("select classname light; move 16 0 0; setprop light 250\n")
	require.NoError(t, b.Execute())

	d := f.editor.Document()
	light := d.Map().Entities()[2]
	assert.Equal(t, vec.Vec3{X: 144}, light.Origin())
	v, _ := light.Property("light")
	assert.Equal(t, "250", v)
	assert.Equal(t, 2, d.ModificationCount())

	b.AddText("undo\nundo\n")
	require.NoError(t, b.Execute())
	assert.Equal(t, vec.Vec3{X: 128}, light.Origin())
	assert.Contains(t, out.String(), "undid Set Property")
	assert.Contains(t, out.String(), "undid Move Objects")
}

func TestScriptGroup(t *testing.T) {
	f, b, _ := scripted(t)
	b.AddText("open " + f.writeMap(t, true) + "\n")
	b.AddText(`begin "Edit Door"; select targetname d1; texture sky1; commit` + "\n")
	require.NoError(t, b.Execute())
	d := f.editor.Document()
	assert.Equal(t, "Edit Door", d.LastCommandName())
	door := d.Map().Entities()[1]
	assert.Equal(t, "sky1", door.Brushes()[0].Faces()[0].TextureName())
	assert.True(t, d.Selection().IsSelected(door.Brushes()[0]))

	b.AddText("undo\n")
	require.NoError(t, b.Execute())
	assert.Equal(t, "ground1_6", door.Brushes()[0].Faces()[0].TextureName())
	assert.False(t, d.Selection().HasSelection())
}

func TestScriptPick(t *testing.T) {
	f, b, out := scripted(t)
	b.AddText("open " + f.writeMap(t, true) + "\n")
	b.AddText("pick 0 0 100 0 0 -1\npick 0 0 100 0 0 1\n")
	require.NoError(t, b.Execute())
	assert.Contains(t, out.String(), "hit brush")
	assert.Contains(t, out.String(), "distance 68")
	assert.Contains(t, out.String(), "nothing hit")
	d := f.editor.Document()
	assert.Equal(t, d.Map().Entities()[1].Brushes()[0], d.Selection().SelectedObjects()[0])

	b.AddText("pick 0 0 x 0 0 1\n")
	assert.Error(t, b.Execute())
}

func TestScriptSaveAndInfo(t *testing.T) {
	f, b, out := scripted(t)
	b.AddText("new Quake\n")
	b.AddText("setprop message hello\ninfo\n")
	require.NoError(t, b.Execute())
	assert.Contains(t, out.String(), "unnamed.map: 1 entities, 0 brushes, 0 faces")
	assert.Contains(t, out.String(), "1 unsaved changes")

	b.AddText("save\n")
	assert.Error(t, b.Execute())

	path := filepath.Join(t.TempDir(), "new.map")
	b.AddText("saveas " + path + "\n")
	require.NoError(t, b.Execute())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message" "hello"`)
	assert.Equal(t, []string{path}, f.editor.Recent().Entries())
	assert.False(t, f.editor.Document().Modified())
}

func TestScriptInfoUnresolved(t *testing.T) {
	f, b, out := scripted(t)
	b.AddText("open " + f.writeMap(t, true) + "\n")
	b.AddText("removewad gfx/base.wad\nselect classname light; setprop classname monster_nope\ninfo\n")
	require.NoError(t, b.Execute())
	assert.Contains(t, out.String(), "unresolved textures: [ground1_6]")
	assert.Contains(t, out.String(), "entities without definition: [monster_nope]")
}

func TestScriptMods(t *testing.T) {
	f, b, _ := scripted(t)
	b.AddText("new Quake\nmods hipnotic quoth\n")
	require.NoError(t, b.Execute())
	assert.Equal(t, []string{"hipnotic", "quoth"}, f.editor.Document().Mods())
	b.AddText("mods\n")
	require.NoError(t, b.Execute())
	assert.Empty(t, f.editor.Document().Mods())
}

func TestScriptUsage(t *testing.T) {
	f, b, out := scripted(t)
	b.AddText("new Quake\nmove 1 2\n")
	assert.EqualError(t, b.Execute(), "move: usage: move <x> <y> <z>")

	b.AddText("echo hello there\ncmdlist sel\n")
	require.NoError(t, b.Execute())
	assert.Contains(t, out.String(), "hello there\n")
	assert.Contains(t, out.String(), "3 commands\n")

	b.AddText("pref Editor/TextureLock 0\n")
	require.NoError(t, b.Execute())
	assert.False(t, f.editor.Document().TextureLock())
}

func TestScriptClick(t *testing.T) {
	f, b, out := scripted(t)
	b.AddText("open " + f.writeMap(t, true) + "\n")
	b.AddText("viewport 200 100; camera 0 0 100 0 -90; click 100 50\n")
	require.NoError(t, b.Execute())
	assert.Contains(t, out.String(), "distance 68")
	d := f.editor.Document()
	assert.Equal(t, d.Map().Entities()[1].Brushes()[0], d.Selection().SelectedObjects()[0])
	assert.Equal(t, 200, f.editor.Camera().Width)

	b.AddText("viewport 0 0\n")
	assert.Error(t, b.Execute())
	b.AddText("camera 1 2\n")
	assert.Error(t, b.Execute())
}

func TestScriptExportTexture(t *testing.T) {
	f, b, _ := scripted(t)
	path := filepath.Join(t.TempDir(), "ground.png")
	b.AddText("open " + f.writeMap(t, true) + "\n")
	b.AddText("exporttexture ground1_6 " + path + "\n")
	require.NoError(t, b.Execute())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), data[:4])

	b.AddText("exporttexture nope " + path + "\n")
	assert.EqualError(t, b.Execute(), `exporttexture: unknown texture "nope"`)
}

func TestScriptCameraLimitsPitch(t *testing.T) {
	f, b, _ := scripted(t)
	b.AddText("camera 0 0 0 450 -200\n")
	require.NoError(t, b.Execute())
	assert.Equal(t, float32(90), f.editor.Camera().Yaw)
	assert.Equal(t, float32(-90), f.editor.Camera().Pitch)
}
