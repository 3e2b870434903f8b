// SPDX-License-Identifier: GPL-2.0-or-later

package spr

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"quakeed/math/vec"
	qm "quakeed/model"
)

func init() {
	qm.Register(Magic, func(name string, data []byte) (qm.Model, error) {
		return Load(name, data)
	})
}

// Model is a sprite. Sprites turn towards the viewer so the bounds of a
// frame cover every orientation around the z axis.
type Model struct {
	name   string
	typ    int32
	frames []vec.BBox3
}

func (m *Model) Name() string {
	return m.name
}

func (m *Model) FrameCount() int {
	return len(m.frames)
}

// SkinCount is always 0, sprites carry their pixels in the frames.
func (m *Model) SkinCount() int {
	return 0
}

// Type is one of the SPR_VP_* / SPR_FACING_* / SPR_ORIENTED constants.
func (m *Model) Type() int {
	return int(m.typ)
}

func (m *Model) Bounds(frame int) vec.BBox3 {
	if len(m.frames) == 0 {
		return vec.EmptyBox()
	}
	if frame < 0 || frame >= len(m.frames) {
		frame = 0
	}
	return m.frames[frame]
}

func (f frame) bounds() vec.BBox3 {
	left := float32(f.Origin[0])
	right := left + float32(f.Width)
	up := float32(f.Origin[1])
	down := up - float32(f.Height)
	r := math32.Max(math32.Abs(left), math32.Abs(right))
	return vec.BBox3{
		Min: vec.Vec3{X: -r, Y: -r, Z: down},
		Max: vec.Vec3{X: r, Y: r, Z: up},
	}
}

type reader struct {
	r   *bytes.Reader
	err error
}

func (r *reader) read(v any) {
	if r.err != nil {
		return
	}
	r.err = binary.Read(r.r, binary.LittleEndian, v)
}

func (r *reader) skip(n int64) {
	if r.err != nil {
		return
	}
	if n < 0 || n > int64(r.r.Len()) {
		r.err = io.ErrUnexpectedEOF
		return
	}
	_, r.err = r.r.Seek(n, io.SeekCurrent)
}

func (r *reader) frame() vec.BBox3 {
	var f frame
	r.read(&f)
	if r.err == nil && (f.Width < 0 || f.Height < 0) {
		r.err = errors.Errorf("invalid frame size %dx%d", f.Width, f.Height)
	}
	r.skip(int64(f.Width) * int64(f.Height))
	return f.bounds()
}

func Load(name string, data []byte) (*Model, error) {
	r := &reader{r: bytes.NewReader(data)}
	var h header
	r.read(&h)
	if r.err != nil {
		return nil, errors.Wrapf(r.err, "%s: reading header", name)
	}
	if h.ID != Magic {
		return nil, errors.Errorf("%s: not a sprite", name)
	}
	if h.Version != spriteVersion {
		return nil, errors.Errorf("%s: has wrong version number (%d should be %d)", name, h.Version, spriteVersion)
	}
	if h.FrameCount < 1 {
		return nil, errors.Errorf("%s: invalid # of frames: %d", name, h.FrameCount)
	}
	m := &Model{name: name, typ: h.Type}
	for i := int32(0); i < h.FrameCount && r.err == nil; i++ {
		var typ int32
		r.read(&typ)
		if typ == SPR_SINGLE {
			m.frames = append(m.frames, r.frame())
			continue
		}
		var n int32
		r.read(&n)
		if r.err == nil && n < 1 {
			r.err = errors.Errorf("invalid group size %d", n)
		}
		r.skip(int64(n) * 4)
		b := vec.EmptyBox()
		for j := int32(0); j < n && r.err == nil; j++ {
			b = b.Merge(r.frame())
		}
		m.frames = append(m.frames, b)
	}
	if r.err != nil {
		return nil, errors.Wrapf(r.err, "%s: truncated", name)
	}
	return m, nil
}
