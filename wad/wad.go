// SPDX-License-Identifier: GPL-2.0-or-later

package wad

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"

	"github.com/pkg/errors"
)

const (
	typPalette    = 0x40
	typQPic       = 0x42 // 66
	typMipTex     = 0x44
	typConsolePic = 0x45
)

type header struct {
	M          [4]byte
	EntryCount uint32
	DirOffset  uint32
}

type lump struct {
	Offset      int32
	Dsize       int32
	Size        int32
	Typ         byte
	Compression byte
	Dummy       int16
	Name        [16]byte
}

type mipHeader struct {
	Name   [16]byte
	Width  uint32
	Height uint32
	Offset [4]uint32
}

// MipTex is the first mip level of a texture stored in palette indices.
type MipTex struct {
	Name   string
	Width  int
	Height int
	Data   []byte
}

// Wad is a parsed WAD2 file.
type Wad struct {
	name  string
	data  []byte
	lumps []lump
}

func lumpName(n [16]byte) string {
	i := bytes.IndexByte(n[:], 0)
	if i < 0 {
		i = len(n)
	}
	return string(n[:i])
}

func Read(name string, data []byte) (*Wad, error) {
	buf := bytes.NewReader(data)
	h := header{}
	if err := binary.Read(buf, binary.LittleEndian, &h); err != nil {
		return nil, errors.Wrapf(err, "%s: reading header", name)
	}
	if h.M != [4]byte{'W', 'A', 'D', '2'} {
		return nil, errors.Errorf("%s: wad file doesn't have WAD2 id", name)
	}
	if _, err := buf.Seek(int64(h.DirOffset), io.SeekStart); err != nil {
		return nil, errors.Wrapf(err, "%s: directory", name)
	}
	lumps := make([]lump, h.EntryCount)
	if err := binary.Read(buf, binary.LittleEndian, &lumps); err != nil {
		return nil, errors.Wrapf(err, "%s: directory", name)
	}
	for _, l := range lumps {
		if l.Offset < 0 || l.Size < 0 || int(l.Offset)+int(l.Size) > len(data) {
			return nil, errors.Errorf("%s: lump %q out of range", name, lumpName(l.Name))
		}
	}
	return &Wad{name: name, data: data, lumps: lumps}, nil
}

func (w *Wad) String() string {
	return w.name
}

func (w *Wad) Names() []string {
	n := make([]string, 0, len(w.lumps))
	for _, l := range w.lumps {
		n = append(n, lumpName(l.Name))
	}
	return n
}

// Lump returns the raw contents of the lump, names are case insensitive.
func (w *Wad) Lump(name string) ([]byte, bool) {
	for _, l := range w.lumps {
		if strings.EqualFold(lumpName(l.Name), name) {
			return w.data[l.Offset : l.Offset+l.Size], true
		}
	}
	return nil, false
}

// MipTextures decodes all miptex lumps in directory order.
func (w *Wad) MipTextures() ([]MipTex, error) {
	var r []MipTex
	for _, l := range w.lumps {
		if l.Typ != typMipTex {
			continue
		}
		m, err := decodeMipTex(w.data[l.Offset : l.Offset+l.Size])
		if err != nil {
			return nil, errors.Wrapf(err, "%s: %s", w.name, lumpName(l.Name))
		}
		if m.Name == "" {
			m.Name = lumpName(l.Name)
		}
		r = append(r, m)
	}
	return r, nil
}

func decodeMipTex(b []byte) (MipTex, error) {
	var h mipHeader
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, &h); err != nil {
		return MipTex{}, err
	}
	size := int(h.Width) * int(h.Height)
	start := int(h.Offset[0])
	if size <= 0 || start+size > len(b) {
		return MipTex{}, errors.Errorf("bad miptex size %dx%d", h.Width, h.Height)
	}
	return MipTex{
		Name:   lumpName(h.Name),
		Width:  int(h.Width),
		Height: int(h.Height),
		Data:   b[start : start+size],
	}, nil
}

// WriteMipTextures writes a WAD2 containing only the first mip level of
// every texture.
func WriteMipTextures(w io.Writer, texs []MipTex) error {
	var body bytes.Buffer
	lumps := make([]lump, 0, len(texs))
	offset := int32(12)
	for _, t := range texs {
		if len(t.Name) > 15 {
			return errors.Errorf("wad: name too long %q", t.Name)
		}
		if len(t.Data) != t.Width*t.Height {
			return errors.Errorf("wad: %s has %d bytes for %dx%d", t.Name, len(t.Data), t.Width, t.Height)
		}
		h := mipHeader{Width: uint32(t.Width), Height: uint32(t.Height)}
		copy(h.Name[:], t.Name)
		h.Offset[0] = 40 // sizeof(mipHeader)
		start := body.Len()
		if err := binary.Write(&body, binary.LittleEndian, &h); err != nil {
			return err
		}
		body.Write(t.Data)
		l := lump{Offset: offset + int32(start), Typ: typMipTex}
		l.Size = int32(body.Len() - start)
		l.Dsize = l.Size
		copy(l.Name[:], strings.ToLower(t.Name))
		lumps = append(lumps, l)
	}
	h := header{
		M:          [4]byte{'W', 'A', 'D', '2'},
		EntryCount: uint32(len(lumps)),
		DirOffset:  uint32(offset) + uint32(body.Len()),
	}
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return err
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, lumps)
}
