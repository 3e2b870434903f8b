// SPDX-License-Identifier: GPL-2.0-or-later

package entdef

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quakeed/math/vec"
)

func TestParseEntEmpty(t *testing.T) {
	defs, err := ParseEnt("empty.ent", []byte("     \n  \t \n  "))
	assert.NoError(t, err)
	assert.Empty(t, defs)
}

func TestParseEntMalformed(t *testing.T) {
	file := `<?xml version="1.0"?>
<classes>
    <point name="_skybox" color="0.77 0.88 1.0" box="-4 -4 -4 4 4 4">
</classes>`
	_, err := ParseEnt("bad.ent", []byte(file))
	assert.Error(t, err)
}

func TestParseEntPoint(t *testing.T) {
	file := `
<?xml version="1.0"?>
<!-- comment -->
<classes>
    <point name="_skybox" color="0.77 0.88 1.0" box="-4 -4 -4 4 4 4">
    -------- KEYS --------
    asdf<angle key="angle" name="Yaw Angle">Rotation angle of the sky surfaces.</angle>
    <real key="_scale" name="Scale" value="64">Scaling factor (default 64).</real>
    <real key="_bad" name="Bad" value="asdf" />
    -------- NOTES --------
    Compiler-only entity.
    </point>
</classes>
`
	defs, err := ParseEnt("q3.ent", []byte(file))
	require.NoError(t, err)
	require.Len(t, defs, 1)
	d := defs[0]
	assert.Equal(t, PointEntity, d.Type)
	assert.Equal(t, "-------- KEYS --------\nasdf\n-------- NOTES --------\nCompiler-only entity.", d.Description)
	assert.InDelta(t, 0.77, d.Color.R, 0.001)
	assert.Equal(t, vec.Cube(-4, 4), d.Bounds)
	require.Len(t, d.Properties, 3)

	a, ok := d.Property("angle")
	require.True(t, ok)
	assert.Equal(t, StringProperty, a.Type)
	assert.Equal(t, "Yaw Angle", a.ShortDescription)
	assert.Equal(t, "Rotation angle of the sky surfaces.", a.LongDescription)

	s, _ := d.Property("_scale")
	assert.Equal(t, FloatProperty, s.Type)
	assert.Equal(t, "64", s.Default)

	b, _ := d.Property("_bad")
	assert.Equal(t, StringProperty, b.Type)
}

func TestParseEntGroup(t *testing.T) {
	file := `<?xml version="1.0"?>
<classes>
<list name="colorIndex">
<item name="white" value="0"/>
<item name="red" value="1"/>
</list>
<group name="func_bobbing" color="0 .4 1">
Solid entity that oscillates.
<targetname key="targetname" name="Target Name">Used to attach.</targetname>
<integer key="_castshadows" name="Shadow Caster Level" value="0">Shadows.</integer>
<colorIndex key="count" name="Text Color" value="0">Color.</colorIndex>
<flag key="X_AXIS" name="X Axis" bit="0">Entity will bob along the X axis.</flag>
<flag key="Y_AXIS" name="Y Axis" bit="1">Entity will bob along the Y axis.</flag>
</group>
<point name="ammo_bfg" color=".3 .3 1" box="-16 -16 -16 16 16 16" model="models/powerups/ammo/bfgam.md3" />
</classes>`
	defs, err := ParseEnt("q3.ent", []byte(file))
	require.NoError(t, err)
	require.Len(t, defs, 2)

	g := defs[0]
	assert.Equal(t, BrushEntity, g.Type)
	assert.Len(t, g.Properties, 4)
	tn, _ := g.Property("targetname")
	assert.Equal(t, TargetSourceProperty, tn.Type)
	cs, _ := g.Property("_castshadows")
	assert.Equal(t, IntegerProperty, cs.Type)
	ci, _ := g.Property("count")
	assert.Equal(t, ChoiceProperty, ci.Type)
	assert.Equal(t, []Option{{"0", "white"}, {"1", "red"}}, ci.Options)
	sf, _ := g.Property("spawnflags")
	assert.Equal(t, FlagsProperty, sf.Type)
	assert.Equal(t, []SpawnFlag{
		{Value: 1, Name: "X_AXIS", Description: "X Axis"},
		{Value: 2, Name: "Y_AXIS", Description: "Y Axis"},
	}, g.SpawnFlags)

	p := defs[1]
	require.NotNil(t, p.Model)
	assert.Equal(t, "models/powerups/ammo/bfgam.md3", p.Model.Path)
}
