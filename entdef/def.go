// SPDX-License-Identifier: GPL-2.0-or-later

package entdef

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"quakeed/math/vec"
	"quakeed/model"
)

const quaked = "/*QUAKED"

// position returns the 1 based line and column of offset in s.
func position(s string, offset int) (int, int) {
	line := strings.Count(s[:offset], "\n") + 1
	col := offset - strings.LastIndexByte(s[:offset], '\n')
	return line, col
}

// ParseDef reads the QUAKED comments of a Quake .def file:
//
//	/*QUAKED classname (r g b) (minx miny minz) (maxx maxy maxz) FLAG1 FLAG2
//	description
//	*/
//
// Brush entities use ? instead of the bounds.
func ParseDef(name string, data []byte) ([]*Definition, error) {
	s := string(data)
	var defs []*Definition
	pos := 0
	for {
		i := strings.Index(s[pos:], quaked)
		if i < 0 {
			break
		}
		at := pos + i
		start := at + len(quaked)
		end := strings.Index(s[start:], "*/")
		if end < 0 {
			l, c := position(s, at)
			return nil, errors.Errorf("%s:%d:%d: unterminated definition", name, l, c)
		}
		d, err := parseQuaked(s[start : start+end])
		if err != nil {
			l, c := position(s, at)
			return nil, errors.Wrapf(err, "%s:%d:%d", name, l, c)
		}
		defs = append(defs, d)
		pos = start + end + 2
	}
	return defs, nil
}

// headerTokens splits words and parenthesized groups.
func headerTokens(s string) ([]string, error) {
	var r []string
	for {
		s = strings.TrimLeft(s, " \t\r")
		if s == "" {
			return r, nil
		}
		if s[0] == '(' {
			e := strings.IndexByte(s, ')')
			if e < 0 {
				return nil, errors.New("missing )")
			}
			r = append(r, s[:e+1])
			s = s[e+1:]
			continue
		}
		e := strings.IndexAny(s, " \t\r(")
		if e < 0 {
			e = len(s)
		}
		r = append(r, s[:e])
		s = s[e:]
	}
}

func parseFloats(group string, n int) ([]float32, error) {
	fs := strings.Fields(strings.Trim(group, "()"))
	if len(fs) != n {
		return nil, errors.Errorf("expected %d numbers in %s", n, group)
	}
	r := make([]float32, n)
	for i, f := range fs {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, errors.Errorf("bad number %q in %s", f, group)
		}
		r[i] = float32(v)
	}
	return r, nil
}

func parseQuaked(body string) (*Definition, error) {
	header, desc, _ := strings.Cut(body, "\n")
	ts, err := headerTokens(header)
	if err != nil {
		return nil, err
	}
	if len(ts) < 2 {
		return nil, errors.New("expected classname and color")
	}
	d := &Definition{Name: ts[0], Color: DefaultColor}
	c, err := parseFloats(ts[1], 3)
	if err != nil {
		return nil, err
	}
	d.Color = Color{c[0], c[1], c[2]}
	rest := ts[2:]
	switch {
	case len(rest) > 0 && rest[0] == "?":
		d.Type = BrushEntity
		d.Bounds = vec.EmptyBox()
		rest = rest[1:]
	case len(rest) > 1 && strings.HasPrefix(rest[0], "("):
		mi, err := parseFloats(rest[0], 3)
		if err != nil {
			return nil, err
		}
		ma, err := parseFloats(rest[1], 3)
		if err != nil {
			return nil, err
		}
		d.Type = PointEntity
		d.Bounds = vec.NewBBox(vec.VFromA([3]float32(mi)), vec.VFromA([3]float32(ma)))
		rest = rest[2:]
	default:
		return nil, errors.Errorf("%s: expected ? or bounds", d.Name)
	}
	for i, f := range rest {
		if f == "x" || f == "-" {
			continue
		}
		d.SpawnFlags = append(d.SpawnFlags, SpawnFlag{Value: 1 << i, Name: f})
	}

	var lines []string
	for _, l := range strings.Split(desc, "\n") {
		t := strings.TrimSpace(l)
		if strings.HasPrefix(t, "model(") {
			spec, err := parseModel(t)
			if err != nil {
				return nil, errors.Wrap(err, d.Name)
			}
			d.Model = &spec
			continue
		}
		lines = append(lines, strings.TrimRight(l, " \t\r"))
	}
	d.Description = strings.TrimSpace(strings.Join(lines, "\n"))
	return d, nil
}

// parseModel reads model("path" skin frame), skin and frame are optional.
func parseModel(s string) (model.Specification, error) {
	inner := strings.TrimPrefix(s, "model(")
	e := strings.LastIndexByte(inner, ')')
	if e < 0 {
		return model.Specification{}, errors.New("model: missing )")
	}
	inner = inner[:e]
	q0 := strings.IndexByte(inner, '"')
	q1 := strings.LastIndexByte(inner, '"')
	if q0 < 0 || q1 <= q0 {
		return model.Specification{}, errors.New("model: expected quoted path")
	}
	spec := model.Specification{Path: strings.TrimPrefix(inner[q0+1:q1], ":")}
	nums := strings.FieldsFunc(inner[q1+1:], func(r rune) bool { return r == ' ' || r == ',' || r == '\t' })
	for i, n := range nums {
		v, err := strconv.Atoi(n)
		if err != nil {
			return model.Specification{}, errors.Errorf("model: bad number %q", n)
		}
		switch i {
		case 0:
			spec.Skin = v
		case 1:
			spec.Frame = v
		}
	}
	return spec, nil
}
