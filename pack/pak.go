// SPDX-License-Identifier: GPL-2.0-or-later

package pack

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

type header struct {
	ID     [4]byte
	Offset int32
	Size   int32
}

type entry struct {
	Name   [56]byte
	Offset int32
	Size   int32
}

const entrySize = 64

// Pack is a read only view of a Quake PAK archive.
type Pack struct {
	r     io.ReaderAt
	c     io.Closer
	files map[string]*qfile
	name  string
}

type qfile struct {
	offset int64
	size   int64
}

// Open returns a io.SectionReader for the entry with the provided name or
// an error wrapping os.ErrNotExist.
func (p *Pack) Open(name string) (*io.SectionReader, error) {
	q, ok := p.files[strings.ToLower(name)]
	if !ok {
		return nil, errors.Wrapf(os.ErrNotExist, "%s: no entry %q", p.name, name)
	}
	return io.NewSectionReader(p.r, q.offset, q.size), nil
}

// Size returns the size of the named entry.
func (p *Pack) Size(name string) (int64, bool) {
	q, ok := p.files[strings.ToLower(name)]
	if !ok {
		return 0, false
	}
	return q.size, true
}

// Names returns all entry names in sorted order.
func (p *Pack) Names() []string {
	n := make([]string, 0, len(p.files))
	for k := range p.files {
		n = append(n, k)
	}
	sort.Strings(n)
	return n
}

func (p *Pack) String() string {
	return p.name
}

func (p *Pack) Close() error {
	if p.c == nil {
		return nil
	}
	return p.c.Close()
}

func (p *Pack) init() error {
	var h header
	if err := binary.Read(io.NewSectionReader(p.r, 0, 12), binary.LittleEndian, &h); err != nil {
		return errors.Wrapf(err, "%s: reading header", p.name)
	}
	if !bytes.Equal([]byte("PACK"), h.ID[:]) {
		return errors.Errorf("%s: not a pack", p.name)
	}
	if h.Size%entrySize != 0 || h.Offset < 0 {
		return errors.Errorf("%s: bad directory", p.name)
	}
	filenum := h.Size / entrySize
	dir := io.NewSectionReader(p.r, int64(h.Offset), int64(h.Size))
	p.files = make(map[string]*qfile, filenum)
	for i := int32(0); i < filenum; i++ {
		var e entry
		if err := binary.Read(dir, binary.LittleEndian, &e); err != nil {
			return errors.Wrapf(err, "%s: directory too short", p.name)
		}
		n := bytes.IndexByte(e.Name[:], 0)
		if n < 0 {
			n = len(e.Name)
		}
		name := strings.ToLower(string(e.Name[:n]))
		if p.files[name] != nil {
			return errors.Errorf("%s: files in pack are not unique", p.name)
		}
		p.files[name] = &qfile{
			offset: int64(e.Offset),
			size:   int64(e.Size),
		}
	}
	return nil
}

// NewReader reads the directory of a pack which is accessible through r.
func NewReader(r io.ReaderAt, name string) (*Pack, error) {
	p := &Pack{r: r, name: name}
	if c, ok := r.(io.Closer); ok {
		p.c = c
	}
	if err := p.init(); err != nil {
		return nil, err
	}
	return p, nil
}

// OpenFile opens the pack file at path on the host file system.
func OpenFile(path string) (*Pack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	p, err := NewReader(f, path)
	if err != nil {
		f.Close()
		return nil, err
	}
	return p, nil
}

// Write creates a pack containing files. Used to build game data for tests
// and tools.
func Write(w io.Writer, files map[string][]byte) error {
	names := make([]string, 0, len(files))
	for n := range files {
		if len(n) >= 56 {
			return errors.Errorf("pack: name too long %q", n)
		}
		names = append(names, n)
	}
	sort.Strings(names)
	offset := int32(12)
	dir := make([]entry, 0, len(names))
	for _, n := range names {
		var e entry
		copy(e.Name[:], n)
		e.Offset = offset
		e.Size = int32(len(files[n]))
		offset += e.Size
		dir = append(dir, e)
	}
	h := header{Offset: offset, Size: int32(len(dir) * entrySize)}
	copy(h.ID[:], "PACK")
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return err
	}
	for _, n := range names {
		if _, err := w.Write(files[n]); err != nil {
			return err
		}
	}
	return binary.Write(w, binary.LittleEndian, dir)
}
