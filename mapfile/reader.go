// SPDX-License-Identifier: GPL-2.0-or-later

// Package mapfile reads and writes the Quake .map text format.
package mapfile

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"quakeed/conlog"
	"quakeed/math/vec"
	"quakeed/scene"
)

const (
	Standard = "Standard"
	Quake2   = "Quake2"
)

// Header is read from the leading comments written by WriteMap.
type Header struct {
	Game   string
	Format string
}

// ReadHeader looks for "// Game: x" and "// Format: y" in the comment
// lines at the start of data.
func ReadHeader(data []byte) Header {
	var h Header
	sc := bufio.NewScanner(strings.NewReader(string(data)))
	for sc.Scan() {
		l := strings.TrimSpace(sc.Text())
		if l == "" {
			continue
		}
		if !strings.HasPrefix(l, "//") {
			break
		}
		l = strings.TrimSpace(strings.TrimPrefix(l, "//"))
		if v, ok := strings.CutPrefix(l, "Game:"); ok {
			h.Game = strings.TrimSpace(v)
		} else if v, ok := strings.CutPrefix(l, "Format:"); ok {
			h.Format = strings.TrimSpace(v)
		}
	}
	return h
}

type parser struct {
	name   string
	format string
	// brushes outside of bounds are dropped, an empty box accepts all
	bounds vec.BBox3
	t      *tokenizer
}

func newParser(name, data, format string, bounds vec.BBox3) *parser {
	if format == "" {
		format = Standard
	}
	return &parser{name: name, format: format, bounds: bounds, t: newTokenizer(data)}
}

func (p *parser) errorf(tok token, format string, args ...interface{}) error {
	return errors.Errorf("%s:%d:%d: %s", p.name, tok.line, tok.col, fmt.Sprintf(format, args...))
}

func (p *parser) expect(typ tokenType) (token, error) {
	tok, err := p.t.next()
	if err != nil {
		return tok, errors.Wrap(err, p.name)
	}
	if tok.typ != typ {
		return tok, p.errorf(tok, "expected %v, got %v", typ, tok)
	}
	return tok, nil
}

func (p *parser) peekType() (tokenType, error) {
	tok, err := p.t.peek()
	if err != nil {
		return tEOF, errors.Wrap(err, p.name)
	}
	return tok.typ, nil
}

func (p *parser) float() (float32, error) {
	tok, err := p.expect(tWord)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(tok.text, 32)
	if err != nil {
		return 0, p.errorf(tok, "bad number %q", tok.text)
	}
	return float32(f), nil
}

func (p *parser) point() (vec.Vec3, error) {
	if _, err := p.expect(tOParen); err != nil {
		return vec.Vec3{}, err
	}
	var a [3]float32
	for i := range a {
		f, err := p.float()
		if err != nil {
			return vec.Vec3{}, err
		}
		a[i] = f
	}
	if _, err := p.expect(tCParen); err != nil {
		return vec.Vec3{}, err
	}
	return vec.VFromA(a), nil
}

// face reads one face line:
//
//	( x y z ) ( x y z ) ( x y z ) texture xoff yoff rotation xscale yscale [contents flags value]
func (p *parser) face() (*scene.BrushFace, error) {
	start, err := p.t.peek()
	if err != nil {
		return nil, errors.Wrap(err, p.name)
	}
	var pts [3]vec.Vec3
	for i := range pts {
		if pts[i], err = p.point(); err != nil {
			return nil, err
		}
	}
	tex, err := p.t.next()
	if err != nil {
		return nil, errors.Wrap(err, p.name)
	}
	if tex.typ != tWord && tex.typ != tString {
		return nil, p.errorf(tex, "expected texture name, got %v", tex)
	}
	a := scene.DefaultFaceAttributes(tex.text)
	for _, f := range []*float32{&a.XOffset, &a.YOffset, &a.Rotation, &a.XScale, &a.YScale} {
		if *f, err = p.float(); err != nil {
			return nil, err
		}
	}
	if p.format == Quake2 {
		// surface contents, flags and value are optional
		if typ, err := p.peekType(); err == nil && typ == tWord {
			var c, fl float32
			if c, err = p.float(); err != nil {
				return nil, err
			}
			if fl, err = p.float(); err != nil {
				return nil, err
			}
			if a.SurfaceValue, err = p.float(); err != nil {
				return nil, err
			}
			a.SurfaceContents, a.SurfaceFlags = int32(c), int32(fl)
		}
	}
	f, err := scene.NewBrushFace(pts[0], pts[1], pts[2], a)
	if err != nil {
		return nil, errors.Wrapf(err, "%s:%d:%d", p.name, start.line, start.col)
	}
	return f, nil
}

// brush reads "{ faces }". A nil brush without error is an invalid brush
// that was skipped.
func (p *parser) brush() (*scene.Brush, error) {
	open, err := p.expect(tOBrace)
	if err != nil {
		return nil, err
	}
	return p.brushBody(open)
}

func (p *parser) brushBody(open token) (*scene.Brush, error) {
	var faces []*scene.BrushFace
	skip := false
	for {
		typ, err := p.peekType()
		if err != nil {
			return nil, err
		}
		if typ == tCBrace {
			p.t.next()
			break
		}
		f, err := p.face()
		if err != nil {
			// the whole line has been read, keep going to find the end of the brush
			if errors.Is(err, scene.ErrColinearPoints) {
				conlog.Warnf("%v", err)
				skip = true
				continue
			}
			return nil, err
		}
		faces = append(faces, f)
	}
	if skip {
		conlog.Warnf("%s:%d: skipping brush with invalid face", p.name, open.line)
		return nil, nil
	}
	b, err := scene.NewBrush(faces)
	if err != nil {
		conlog.Warnf("%s:%d: skipping brush: %v", p.name, open.line, err)
		return nil, nil
	}
	if !p.bounds.IsEmpty() && !p.bounds.Contains(b.Bounds()) {
		conlog.Warnf("%s:%d: skipping brush outside of world bounds", p.name, open.line)
		return nil, nil
	}
	return b, nil
}

// entity reads "{ properties brushes }".
func (p *parser) entity() (*scene.Entity, error) {
	if _, err := p.expect(tOBrace); err != nil {
		return nil, err
	}
	return p.entityBody()
}

func (p *parser) entityBody() (*scene.Entity, error) {
	e := scene.NewEntity()
	for {
		tok, err := p.t.peek()
		if err != nil {
			return nil, errors.Wrap(err, p.name)
		}
		switch tok.typ {
		case tCBrace:
			p.t.next()
			return e, nil
		case tString:
			p.t.next()
			v, err := p.expect(tString)
			if err != nil {
				return nil, err
			}
			e.SetProperty(tok.text, v.text)
		case tOBrace:
			b, err := p.brush()
			if err != nil {
				return nil, err
			}
			if b != nil {
				e.AddBrush(b)
			}
		default:
			p.t.next()
			return nil, p.errorf(tok, "unexpected %v in entity", tok)
		}
	}
}

func (p *parser) entities() ([]*scene.Entity, error) {
	var r []*scene.Entity
	for {
		typ, err := p.peekType()
		if err != nil {
			return nil, err
		}
		if typ == tEOF {
			return r, nil
		}
		e, err := p.entity()
		if err != nil {
			return nil, err
		}
		r = append(r, e)
	}
}

// ParseMap reads a complete map. Brushes that are invalid or not inside
// worldBounds are dropped with a warning. A missing worldspawn is created.
func ParseMap(name string, data []byte, format string, worldBounds vec.BBox3) (*scene.Map, error) {
	p := newParser(name, string(data), format, worldBounds)
	es, err := p.entities()
	if err != nil {
		return nil, err
	}
	m := scene.NewMap(p.format)
	for _, e := range es {
		m.AddEntity(e)
	}
	m.CreateWorldspawn()
	return m, nil
}

// ParseEntities reads entities as stored in a map or on the clipboard.
func ParseEntities(data string, format string, worldBounds vec.BBox3) ([]*scene.Entity, error) {
	return newParser("entities", data, format, worldBounds).entities()
}

// ParseBrushes reads a sequence of "{ faces }" blocks.
func ParseBrushes(data string, format string, worldBounds vec.BBox3) ([]*scene.Brush, error) {
	p := newParser("brushes", data, format, worldBounds)
	var r []*scene.Brush
	for {
		typ, err := p.peekType()
		if err != nil {
			return nil, err
		}
		if typ == tEOF {
			return r, nil
		}
		b, err := p.brush()
		if err != nil {
			return nil, err
		}
		if b != nil {
			r = append(r, b)
		}
	}
}

// ParseFaces reads face lines without surrounding braces.
func ParseFaces(data string, format string) ([]*scene.BrushFace, error) {
	p := newParser("faces", data, format, vec.EmptyBox())
	var r []*scene.BrushFace
	for {
		typ, err := p.peekType()
		if err != nil {
			return nil, err
		}
		if typ == tEOF {
			return r, nil
		}
		f, err := p.face()
		if err != nil {
			return nil, err
		}
		r = append(r, f)
	}
}

// ParseObjects reads a mix of entities and bare brushes as written by
// WriteObjects.
func ParseObjects(data string, format string, worldBounds vec.BBox3) ([]*scene.Entity, []*scene.Brush, error) {
	p := newParser("objects", data, format, worldBounds)
	var es []*scene.Entity
	var bs []*scene.Brush
	for {
		typ, err := p.peekType()
		if err != nil {
			return nil, nil, err
		}
		if typ == tEOF {
			return es, bs, nil
		}
		open, err := p.expect(tOBrace)
		if err != nil {
			return nil, nil, err
		}
		if typ, err = p.peekType(); err != nil {
			return nil, nil, err
		}
		if typ == tOParen {
			b, err := p.brushBody(open)
			if err != nil {
				return nil, nil, err
			}
			if b != nil {
				bs = append(bs, b)
			}
			continue
		}
		e, err := p.entityBody()
		if err != nil {
			return nil, nil, err
		}
		es = append(es, e)
	}
}
