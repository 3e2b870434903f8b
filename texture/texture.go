// SPDX-License-Identifier: GPL-2.0-or-later

package texture

import (
	"strings"

	"quakeed/wad"
)

// Texture is one named image of a texture collection.
type Texture struct {
	name       string
	width      int
	height     int
	collection string
	usage      int
	data       []byte // palette indices
	rgba       []byte
	prepared   bool
}

func NewTexture(name string, w, h int, data []byte) *Texture {
	return &Texture{
		name:   name,
		width:  w,
		height: h,
		data:   data,
	}
}

func (t *Texture) Name() string {
	return t.name
}

func (t *Texture) Width() int {
	return t.width
}

func (t *Texture) Height() int {
	return t.height
}

// Collection returns the path of the collection the texture was loaded from.
func (t *Texture) Collection() string {
	return t.collection
}

// Usage counts the faces currently bound to the texture.
func (t *Texture) Usage() int {
	return t.usage
}

func (t *Texture) IncUsage() {
	t.usage++
}

func (t *Texture) DecUsage() {
	if t.usage > 0 {
		t.usage--
	}
}

func (t *Texture) Data() []byte {
	return t.data
}

func (t *Texture) RGBA() []byte {
	return t.rgba
}

func (t *Texture) Prepared() bool {
	return t.prepared
}

// Fence textures use index 255 as transparent color.
func (t *Texture) Fence() bool {
	return strings.HasPrefix(t.name, "{")
}

// Collection is an ordered set of textures loaded from one file.
type Collection struct {
	path     string
	textures []*Texture
}

func NewCollection(path string, textures []*Texture) *Collection {
	c := &Collection{path: path, textures: textures}
	for _, t := range textures {
		t.collection = path
	}
	return c
}

// CollectionFromWad builds a collection out of every miptex of w.
func CollectionFromWad(path string, w *wad.Wad) (*Collection, error) {
	mips, err := w.MipTextures()
	if err != nil {
		return nil, err
	}
	ts := make([]*Texture, 0, len(mips))
	for _, m := range mips {
		ts = append(ts, NewTexture(m.Name, m.Width, m.Height, m.Data))
	}
	return NewCollection(path, ts), nil
}

func (c *Collection) Path() string {
	return c.path
}

func (c *Collection) Textures() []*Texture {
	return c.textures
}
