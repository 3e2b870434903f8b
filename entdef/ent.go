// SPDX-License-Identifier: GPL-2.0-or-later

package entdef

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"quakeed/math/vec"
	"quakeed/model"
)

type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []xmlNode  `xml:",any"`
}

func (n *xmlNode) attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// ParseEnt reads a Radiant .ent file, an XML document with a classes root
// holding point and group elements.
func ParseEnt(name string, data []byte) ([]*Definition, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	var root xmlNode
	if err := dec.Decode(&root); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		l, c := dec.InputPos()
		return nil, errors.Wrapf(err, "%s:%d:%d", name, l, c)
	}
	if root.XMLName.Local != "classes" {
		return nil, errors.Errorf("%s: expected classes element, got %s", name, root.XMLName.Local)
	}
	lists := make(map[string][]Option)
	var defs []*Definition
	for i := range root.Children {
		c := &root.Children[i]
		switch c.XMLName.Local {
		case "list":
			ln, _ := c.attr("name")
			var opts []Option
			for j := range c.Children {
				it := &c.Children[j]
				if it.XMLName.Local != "item" {
					continue
				}
				v, _ := it.attr("value")
				d, _ := it.attr("name")
				opts = append(opts, Option{Value: v, Description: d})
			}
			lists[ln] = opts
		case "point", "group":
			d, err := parseEntClass(c, lists)
			if err != nil {
				return nil, errors.Wrap(err, name)
			}
			defs = append(defs, d)
		}
	}
	return defs, nil
}

func parseVector(s string, n int) ([]float32, error) {
	return parseFloats("("+s+")", n)
}

func parseEntClass(n *xmlNode, lists map[string][]Option) (*Definition, error) {
	name, ok := n.attr("name")
	if !ok || name == "" {
		return nil, errors.Errorf("%s element without name", n.XMLName.Local)
	}
	d := &Definition{Name: name, Color: DefaultColor, Type: BrushEntity, Bounds: vec.EmptyBox()}
	if c, ok := n.attr("color"); ok {
		v, err := parseVector(c, 3)
		if err != nil {
			return nil, errors.Wrap(err, name)
		}
		d.Color = Color{v[0], v[1], v[2]}
	}
	if n.XMLName.Local == "point" {
		d.Type = PointEntity
		d.Bounds = DefaultBounds
		if b, ok := n.attr("box"); ok {
			v, err := parseVector(b, 6)
			if err != nil {
				return nil, errors.Wrap(err, name)
			}
			d.Bounds = vec.NewBBox(vec.Vec3{X: v[0], Y: v[1], Z: v[2]}, vec.Vec3{X: v[3], Y: v[4], Z: v[5]})
		}
		if m, ok := n.attr("model"); ok && m != "" && !strings.Contains(m, "{{") {
			d.Model = &model.Specification{Path: strings.TrimPrefix(m, ":")}
		}
	}
	var lines []string
	for _, l := range strings.Split(n.Text, "\n") {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}
	d.Description = strings.Join(lines, "\n")

	var flags []Option
	for i := range n.Children {
		c := &n.Children[i]
		key, _ := c.attr("key")
		short, _ := c.attr("name")
		value, hasValue := c.attr("value")
		long := strings.TrimSpace(c.Text)
		if c.XMLName.Local == "flag" {
			bit, err := strconv.Atoi(mustAttr(c, "bit"))
			if err != nil || bit < 0 || bit > 30 {
				return nil, errors.Errorf("%s: flag %s has a bad bit", name, key)
			}
			f := SpawnFlag{Value: 1 << bit, Name: key, Description: short}
			d.SpawnFlags = append(d.SpawnFlags, f)
			flags = append(flags, Option{Value: strconv.Itoa(f.Value), Description: key})
			continue
		}
		if key == "" {
			continue
		}
		p := PropertyDefinition{Key: key, ShortDescription: short, LongDescription: long, Default: value}
		switch c.XMLName.Local {
		case "integer":
			p.Type = IntegerProperty
			if _, err := strconv.Atoi(value); hasValue && err != nil {
				p.Type = StringProperty
			}
		case "real":
			p.Type = FloatProperty
			if _, err := strconv.ParseFloat(value, 32); hasValue && err != nil {
				p.Type = StringProperty
			}
		case "boolean":
			p.Type = BooleanProperty
		case "target":
			p.Type = TargetDestinationProperty
		case "targetname":
			p.Type = TargetSourceProperty
		default:
			if opts, ok := lists[c.XMLName.Local]; ok {
				p.Type = ChoiceProperty
				p.Options = opts
			} else {
				p.Type = StringProperty
			}
		}
		d.Properties = append(d.Properties, p)
	}
	if len(flags) > 0 {
		d.Properties = append(d.Properties, PropertyDefinition{
			Key:     "spawnflags",
			Type:    FlagsProperty,
			Default: "0",
			Options: flags,
		})
	}
	return d, nil
}

func mustAttr(n *xmlNode, name string) string {
	v, _ := n.attr(name)
	return v
}
