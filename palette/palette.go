// SPDX-License-Identifier: GPL-2.0-or-later

package palette

import (
	"github.com/pkg/errors"
)

// Palette maps the 256 color indices of Quake textures to RGBA.
type Palette struct {
	Table      [256 * 4]uint8
	TableFence [256 * 4]uint8
}

// New reads a palette from gfx/palette.lmp contents, 256 rgb triples.
func New(b []byte) (*Palette, error) {
	p := &Palette{}
	if 4*len(b) != 3*len(p.Table) {
		return nil, errors.Errorf("palette has wrong size: %v", len(b))
	}
	bi := 0
	pi := 0
	for i := 0; i < 256; i++ {
		p.Table[pi] = b[bi]
		p.Table[pi+1] = b[bi+1]
		p.Table[pi+2] = b[bi+2]
		p.Table[pi+3] = 255
		pi += 4
		bi += 3
	}
	copy(p.TableFence[:], p.Table[:])
	// index 255 is transparent in fence textures
	copy(p.TableFence[255*4:], []uint8{0, 0, 0, 0})
	return p, nil
}

// ToRGBA converts indexed pixels. Fence textures get a transparent
// index 255 with the colors of the transparent pixels smoothed.
func (p *Palette) ToRGBA(w, h int32, data []byte, fence bool) []byte {
	t := &p.Table
	if fence {
		t = &p.TableFence
	}
	r := make([]byte, len(data)*4)
	for i, c := range data {
		copy(r[i*4:i*4+4], t[int(c)*4:int(c)*4+4])
	}
	if fence && int(w*h) == len(data) {
		AlphaEdgeFix(w, h, r)
	}
	return r
}
