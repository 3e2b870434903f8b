// SPDX-License-Identifier: GPL-2.0-or-later

package mapfile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"quakeed/scene"
)

func num(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

type writer struct {
	w      *bufio.Writer
	format string
}

func newWriter(w io.Writer, format string) *writer {
	if format == "" {
		format = Standard
	}
	return &writer{w: bufio.NewWriter(w), format: format}
}

func (w *writer) face(f *scene.BrushFace) {
	p := f.Points()
	a := f.Attributes()
	name := a.TextureName
	if name == "" || strings.ContainsAny(name, " \t\"") {
		name = quote(name)
	}
	fmt.Fprintf(w.w, "( %v ) ( %v ) ( %v ) %s %s %s %s %s %s",
		p[0], p[1], p[2], name,
		num(a.XOffset), num(a.YOffset), num(a.Rotation), num(a.XScale), num(a.YScale))
	if w.format == Quake2 && (a.SurfaceContents != 0 || a.SurfaceFlags != 0 || a.SurfaceValue != 0) {
		fmt.Fprintf(w.w, " %d %d %s", a.SurfaceContents, a.SurfaceFlags, num(a.SurfaceValue))
	}
	w.w.WriteString("\n")
}

func (w *writer) brush(i int, b *scene.Brush) {
	fmt.Fprintf(w.w, "// brush %d\n{\n", i)
	for _, f := range b.Faces() {
		w.face(f)
	}
	w.w.WriteString("}\n")
}

func (w *writer) entity(i int, e *scene.Entity, brushes []*scene.Brush) {
	fmt.Fprintf(w.w, "// entity %d\n{\n", i)
	for _, p := range e.Properties() {
		fmt.Fprintf(w.w, "%s %s\n", quote(p.Key), quote(p.Value))
	}
	for j, b := range brushes {
		w.brush(j, b)
	}
	w.w.WriteString("}\n")
}

// WriteMap writes m with a header naming game and format.
func WriteMap(out io.Writer, m *scene.Map, game string) error {
	w := newWriter(out, m.Format())
	fmt.Fprintf(w.w, "// Game: %s\n// Format: %s\n", game, w.format)
	for i, e := range m.Entities() {
		w.entity(i, e, e.Brushes())
	}
	return w.w.Flush()
}

// WriteObjects writes objs as entities. Brushes of worldspawn are written
// as bare brushes, a brush of another entity is written with a copy of its
// entity unless that entity is part of objs.
func WriteObjects(out io.Writer, objs []scene.Object, format string) error {
	w := newWriter(out, format)
	listed := map[*scene.Entity]bool{}
	for _, o := range objs {
		if e, ok := o.(*scene.Entity); ok {
			listed[e] = true
		}
	}
	var order []*scene.Entity
	partial := map[*scene.Entity][]*scene.Brush{}
	var bare []*scene.Brush
	for _, o := range objs {
		switch o := o.(type) {
		case *scene.Entity:
			order = append(order, o)
		case *scene.Brush:
			e := o.Entity()
			switch {
			case e == nil || e.IsWorldspawn():
				bare = append(bare, o)
			case listed[e]:
			default:
				if _, ok := partial[e]; !ok {
					order = append(order, e)
				}
				partial[e] = append(partial[e], o)
			}
		}
	}
	for i, e := range order {
		if listed[e] {
			w.entity(i, e, e.Brushes())
		} else {
			w.entity(i, e, partial[e])
		}
	}
	for i, b := range bare {
		w.brush(i, b)
	}
	return w.w.Flush()
}

// WriteFaces writes face lines without braces.
func WriteFaces(out io.Writer, faces []*scene.BrushFace, format string) error {
	w := newWriter(out, format)
	for _, f := range faces {
		w.face(f)
	}
	return w.w.Flush()
}
