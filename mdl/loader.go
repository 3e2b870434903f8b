// SPDX-License-Identifier: GPL-2.0-or-later

package mdl

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"quakeed/math/vec"
	qm "quakeed/model"
)

func init() {
	qm.Register(Magic, func(name string, data []byte) (qm.Model, error) {
		return Load(name, data)
	})
}

// Model is an alias model reduced to what an editor needs: the bounds of
// every frame.
type Model struct {
	name      string
	skinCount int
	frames    []vec.BBox3
	flags     int32
}

func (m *Model) Name() string {
	return m.name
}

func (m *Model) FrameCount() int {
	return len(m.frames)
}

func (m *Model) SkinCount() int {
	return m.skinCount
}

func (m *Model) Flags() int {
	return int(m.flags)
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

func Load(name string, data []byte) (*Model, error) {
	r := &reader{r: bytes.NewReader(data)}
	var h header
	r.read(&h)
	if r.err != nil {
		return nil, errors.Wrapf(r.err, "%s: reading header", name)
	}
	if h.ID != Magic {
		return nil, errors.Errorf("%s: not an alias model", name)
	}
	if h.Version != aliasVersion {
		return nil, errors.Errorf("%s: has wrong version number (%d should be %d)", name, h.Version, aliasVersion)
	}
	if h.SkinCount < 0 || h.VerticeCount <= 0 || h.TriangleCount < 0 || h.FrameCount <= 0 {
		return nil, errors.Errorf("%s: invalid header", name)
	}
	skinSize := int64(h.SkinWidth) * int64(h.SkinHeight)
	for i := int32(0); i < h.SkinCount; i++ {
		var typ int32
		r.read(&typ)
		if typ == ALIAS_SKIN_SINGLE {
			r.skip(skinSize)
			continue
		}
		var n int32
		r.read(&n)
		r.skip(int64(n) * (4 + skinSize))
	}
	r.skip(int64(h.VerticeCount) * 12)
	r.skip(int64(h.TriangleCount) * 16)

	m := &Model{name: name, skinCount: int(h.SkinCount), flags: h.Flags}
	bounds := func(min, max frameVertex) vec.BBox3 {
		p := func(v frameVertex) vec.Vec3 {
			return vec.Vec3{
				X: float32(v.PackedPosition[0])*h.Scale[0] + h.ScaleOrigin[0],
				Y: float32(v.PackedPosition[1])*h.Scale[1] + h.ScaleOrigin[1],
				Z: float32(v.PackedPosition[2])*h.Scale[2] + h.ScaleOrigin[2],
			}
		}
		return vec.NewBBox(p(min), p(max))
	}
	single := func() vec.BBox3 {
		var min, max frameVertex
		r.read(&min)
		r.read(&max)
		r.skip(16 + int64(h.VerticeCount)*4)
		return bounds(min, max)
	}
	for i := int32(0); i < h.FrameCount && r.err == nil; i++ {
		var typ int32
		r.read(&typ)
		if typ == ALIAS_SINGLE {
			m.frames = append(m.frames, single())
			continue
		}
		var n int32
		var min, max frameVertex
		r.read(&n)
		r.read(&min)
		r.read(&max)
		r.skip(int64(n) * 4)
		for j := int32(0); j < n; j++ {
			single()
		}
		m.frames = append(m.frames, bounds(min, max))
	}
	if r.err != nil {
		return nil, errors.Wrapf(r.err, "%s: truncated", name)
	}
	return m, nil
}
