// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"encoding/binary"
	"strings"

	"github.com/pkg/errors"

	"quakeed/math/vec"
	qm "quakeed/model"
)

func init() {
	load := func(name string, data []byte) (qm.Model, error) {
		return Load(name, data)
	}
	qm.Register(bspVersion, load)
	qm.Register(bsp2Version, load)
}

// Model is a compiled map used as entity model, e.g. the ammo boxes.
// Every sub model is exposed as a frame.
type Model struct {
	name      string
	subModels []vec.BBox3
	entities  string
}

func (m *Model) Name() string {
	return m.name
}

func (m *Model) FrameCount() int {
	return len(m.subModels)
}

func (m *Model) SkinCount() int {
	return 1
}

func (m *Model) Bounds(frame int) vec.BBox3 {
	if frame < 0 || frame >= len(m.subModels) {
		frame = 0
	}
	return m.subModels[frame]
}

// Entities returns the raw entity lump.
func (m *Model) Entities() string {
	return m.entities
}

func lump(data []byte, d directory) ([]byte, error) {
	if d.Offset < 0 || d.Size < 0 || int(d.Offset)+int(d.Size) > len(data) {
		return nil, errors.Errorf("lump out of range %d+%d", d.Offset, d.Size)
	}
	return data[d.Offset : d.Offset+d.Size], nil
}

func Load(name string, data []byte) (*Model, error) {
	var h header
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &h); err != nil {
		return nil, errors.Wrapf(err, "%s: reading header", name)
	}
	if h.Version != bspVersion && h.Version != bsp2Version {
		return nil, errors.Errorf("%s: has wrong version number (%d)", name, h.Version)
	}
	b, err := lump(data, h.Models)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: models", name)
	}
	if len(b) == 0 || len(b)%modelSize != 0 {
		return nil, errors.Errorf("%s: funny models lump size", name)
	}
	ms := make([]model, len(b)/modelSize)
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, ms); err != nil {
		return nil, errors.Wrapf(err, "%s: models", name)
	}
	m := &Model{name: name}
	for _, sm := range ms {
		bb := sm.BoundingBox
		// the compiler pads the stored box by one unit on every side
		m.subModels = append(m.subModels, vec.NewBBox(
			vec.Vec3{X: bb[0] + 1, Y: bb[1] + 1, Z: bb[2] + 1},
			vec.Vec3{X: bb[3] - 1, Y: bb[4] - 1, Z: bb[5] - 1}))
	}
	if e, err := lump(data, h.Entities); err == nil {
		m.entities = strings.TrimRight(string(e), "\x00")
	}
	return m, nil
}

// Write creates a minimal bsp containing only the models and entities
// lumps. Used to build game data for tests and tools.
func Write(entities string, bounds []vec.BBox3) []byte {
	var body bytes.Buffer
	hsize := int32(binary.Size(header{}))
	h := header{Version: bspVersion}
	h.Entities = directory{Offset: hsize, Size: int32(len(entities))}
	body.WriteString(entities)
	h.Models = directory{Offset: hsize + int32(body.Len()), Size: int32(len(bounds) * modelSize)}
	for _, b := range bounds {
		sm := model{BoundingBox: [6]float32{
			b.Min.X - 1, b.Min.Y - 1, b.Min.Z - 1,
			b.Max.X + 1, b.Max.Y + 1, b.Max.Z + 1,
		}}
		binary.Write(&body, binary.LittleEndian, &sm)
	}
	var out bytes.Buffer
	binary.Write(&out, binary.LittleEndian, &h)
	out.Write(body.Bytes())
	return out.Bytes()
}
