// SPDX-License-Identifier: GPL-2.0-or-later

package document

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"quakeed/scene"
)

func TestPropertyQuery(t *testing.T) {
	assert.True(t, ExactKey("target").Match("target"))
	assert.False(t, ExactKey("target").Match("target2"))
	assert.True(t, KeyPrefix("_").Match("_color"))
	assert.True(t, NumberedKey("target").Match("target"))
	assert.True(t, NumberedKey("target").Match("target12"))
	assert.False(t, NumberedKey("target").Match("targetname"))
	assert.True(t, AnyKey().Match("anything"))
}

func TestPropertyIndex(t *testing.T) {
	a := scene.NewEntity(scene.Property{Key: "targetname", Value: "t1"})
	b := scene.NewEntity(scene.Property{Key: "target", Value: "t1"},
		scene.Property{Key: "target2", Value: "t2"})
	x := NewPropertyIndex()
	x.Add(a)
	x.Add(b)
	assert.Equal(t, 2, x.Len())

	assert.Equal(t, []*scene.Entity{a, b}, x.Find(AnyKey(), "t1"))
	assert.Equal(t, []*scene.Entity{b}, x.Find(NumberedKey("target"), "t2"))
	assert.Empty(t, x.Find(ExactKey("target"), "t2"))

	b.SetProperty("target", "t3")
	x.Add(b)
	assert.Equal(t, 2, x.Len())
	assert.Equal(t, []*scene.Entity{a}, x.Find(AnyKey(), "t1"))
	assert.Equal(t, []*scene.Entity{b}, x.Find(ExactKey("target"), "t3"))

	x.Remove(b)
	x.Remove(b)
	assert.Equal(t, 1, x.Len())
	assert.Empty(t, x.Find(AnyKey(), "t3"))
}

func TestPropertyIndexDuplicateValues(t *testing.T) {
	e := scene.NewEntity(scene.Property{Key: "target", Value: "x"},
		scene.Property{Key: "killtarget", Value: "x"})
	x := NewPropertyIndex()
	x.Add(e)
	assert.Equal(t, []*scene.Entity{e}, x.Find(AnyKey(), "x"))
	x.Remove(e)
	assert.Empty(t, x.Find(AnyKey(), "x"))
	assert.Empty(t, x.byValue)
}
