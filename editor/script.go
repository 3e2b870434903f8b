// SPDX-License-Identifier: GPL-2.0-or-later

package editor

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"quakeed/console"
	"quakeed/document"
	qimage "quakeed/image"
	"quakeed/math/vec"
	"quakeed/scene"
)

var ErrNoDocument = errors.New("no document open")

func (e *Editor) document() (*document.Document, error) {
	if e.doc == nil {
		return nil, ErrNoDocument
	}
	return e.doc, nil
}

// withDocument adapts f to a console function requiring an open document
// and at least n arguments after the command name.
func (e *Editor) withDocument(n int, usage string, f func(d *document.Document, a console.Arguments) error) console.Func {
	return func(a console.Arguments) error {
		if len(a.Args())-1 < n {
			return errors.Errorf("usage: %s %s", a.Argv(0), usage)
		}
		d, err := e.document()
		if err != nil {
			return err
		}
		return f(d, a)
	}
}

func parseFloats(a console.Arguments, from, n int) ([]float32, error) {
	r := make([]float32, n)
	for i := range r {
		s := a.Argv(from + i).String()
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, errors.Errorf("%q is not a number", s)
		}
		r[i] = float32(f)
	}
	return r, nil
}

// selectedEntities are the selected entities and the entities owning
// selected brushes. Without a selection it is the worldspawn entity.
func selectedEntities(d *document.Document) []*scene.Entity {
	var r []*scene.Entity
	seen := make(map[*scene.Entity]bool)
	add := func(e *scene.Entity) {
		if e != nil && !seen[e] {
			seen[e] = true
			r = append(r, e)
		}
	}
	for _, o := range d.Selection().SelectedObjects() {
		switch o := o.(type) {
		case *scene.Entity:
			add(o)
		case *scene.Brush:
			add(o.Entity())
		}
	}
	if len(r) == 0 {
		add(d.Worldspawn())
	}
	return r
}

// selectionCenter is the center of the bounds of the selected objects.
func selectionCenter(d *document.Document) vec.Vec3 {
	b := vec.EmptyBox()
	for _, o := range d.Selection().SelectedObjects() {
		b = b.Merge(o.Bounds())
	}
	if b.IsEmpty() {
		return vec.Vec3{}
	}
	return b.Center()
}

// entitySelection selects brush entities by their brushes.
func entitySelection(entities []*scene.Entity) []scene.Object {
	var r []scene.Object
	for _, e := range entities {
		if bs := e.Brushes(); len(bs) > 0 {
			for _, b := range bs {
				r = append(r, b)
			}
		} else if !e.IsWorldspawn() {
			r = append(r, e)
		}
	}
	return r
}

// RegisterCommands adds the editing commands to c. Command output is
// written to out.
func pickAndSelect(d *document.Document, r vec.Ray3, out io.Writer) error {
	h, ok := d.Pick(r).First()
	if !ok {
		fmt.Fprintln(out, "nothing hit")
		return nil
	}
	fmt.Fprintf(out, "hit %s %s at %v distance %s\n", h.Object.Type(), h.Object.ID(), h.Point,
		strconv.FormatFloat(float64(h.Distance), 'g', 6, 32))
	_, err := d.DeselectAllAndSelectObjects([]scene.Object{h.Object})
	return err
}

func (e *Editor) RegisterCommands(c *console.Commands, out io.Writer) {
	c.Must("echo", "print the arguments", func(a console.Arguments) error {
		fmt.Fprintln(out, a.ArgumentString())
		return nil
	})
	c.Must("cmdlist", "list the commands, optionally by prefix", func(a console.Arguments) error {
		l := c.List(a.Argv(1).String())
		for _, n := range l {
			fmt.Fprintf(out, "  %-12s %s\n", n, c.Help(n))
		}
		fmt.Fprintf(out, "%d commands\n", len(l))
		return nil
	})
	c.Must("pref", "set a preference: pref <key> <value>", func(a console.Arguments) error {
		if len(a.Args()) < 3 {
			return errors.New("usage: pref <key> <value>")
		}
		e.prefs.Set(a.Argv(1).String(), a.Argv(2).String())
		return nil
	})

	c.Must("new", "create a map: new <game> [format]", func(a console.Arguments) error {
		if len(a.Args()) < 2 {
			return errors.New("usage: new <game> [format]")
		}
		return e.NewDocument(a.Argv(1).String(), a.Argv(2).String())
	})
	c.Must("open", "open a map: open <path> [game]", func(a console.Arguments) error {
		if len(a.Args()) < 2 {
			return errors.New("usage: open <path> [game]")
		}
		if g := a.Argv(2).String(); g != "" {
			return e.OpenDocumentWithGame(a.Argv(1).String(), g)
		}
		return e.OpenDocument(a.Argv(1).String())
	})
	c.Must("save", "save the map", e.withDocument(0, "", func(d *document.Document, _ console.Arguments) error {
		return d.SaveDocument()
	}))
	c.Must("saveas", "save the map: saveas <path>", e.withDocument(1, "<path>", func(d *document.Document, a console.Arguments) error {
		err := d.SaveDocumentAs(a.Argv(1).String())
		if err == nil {
			e.recent.Add(d.Path())
		}
		return err
	}))
	c.Must("backup", "write a copy: backup <path>", e.withDocument(1, "<path>", func(d *document.Document, a console.Arguments) error {
		return d.SaveBackup(a.Argv(1).String())
	}))
	c.Must("info", "print a summary of the map", e.withDocument(0, "", func(d *document.Document, _ console.Arguments) error {
		e.printInfo(out, d)
		return nil
	}))

	c.Must("undo", "undo the last command", e.withDocument(0, "", func(d *document.Document, _ console.Arguments) error {
		name := d.LastCommandName()
		if !d.UndoLastCommand() {
			return errors.New("nothing to undo")
		}
		fmt.Fprintf(out, "undid %s\n", name)
		return nil
	}))
	c.Must("redo", "redo the last undone command", e.withDocument(0, "", func(d *document.Document, _ console.Arguments) error {
		name := d.NextCommandName()
		if !d.RedoNextCommand() {
			return errors.New("nothing to redo")
		}
		fmt.Fprintf(out, "redid %s\n", name)
		return nil
	}))
	c.Must("begin", "open a command group: begin <name>", e.withDocument(1, "<name>", func(d *document.Document, a console.Arguments) error {
		d.BeginUndoableGroup(a.ArgumentString())
		return nil
	}))
	c.Must("commit", "close the command group", e.withDocument(0, "", func(d *document.Document, _ console.Arguments) error {
		return d.CloseGroup()
	}))
	c.Must("rollback", "undo and drop the command group", e.withDocument(0, "", func(d *document.Document, _ console.Arguments) error {
		return d.RollbackGroup()
	}))

	c.Must("selectall", "select all objects", e.withDocument(0, "", func(d *document.Document, _ console.Arguments) error {
		_, err := d.SelectAllObjects()
		return err
	}))
	c.Must("selectnone", "clear the selection", e.withDocument(0, "", func(d *document.Document, _ console.Arguments) error {
		_, err := d.DeselectAll()
		return err
	}))
	c.Must("select", "select entities by property: select <key> <value>", e.withDocument(2, "<key> <value>", func(d *document.Document, a console.Arguments) error {
		ents := d.FindEntities(document.ExactKey(a.Argv(1).String()), a.Argv(2).String())
		if len(ents) == 0 {
			return errors.Errorf("no entity with %s %q", a.Argv(1), a.Argv(2))
		}
		_, err := d.DeselectAllAndSelectObjects(entitySelection(ents))
		return err
	}))
	c.Must("pick", "select the first object hit: pick <ox> <oy> <oz> <dx> <dy> <dz>", e.withDocument(6, "<ox> <oy> <oz> <dx> <dy> <dz>", func(d *document.Document, a console.Arguments) error {
		f, err := parseFloats(a, 1, 6)
		if err != nil {
			return err
		}
		return pickAndSelect(d, vec.NewRay(vec.Vec3{X: f[0], Y: f[1], Z: f[2]}, vec.Vec3{X: f[3], Y: f[4], Z: f[5]}), out)
	}))
	c.Must("camera", "place the camera: camera <x> <y> <z> <yaw> <pitch>", func(a console.Arguments) error {
		if len(a.Args()) < 6 {
			return errors.New("usage: camera <x> <y> <z> <yaw> <pitch>")
		}
		f, err := parseFloats(a, 1, 5)
		if err != nil {
			return err
		}
		e.camera.Position = vec.Vec3{X: f[0], Y: f[1], Z: f[2]}
		e.camera.SetAngles(f[3], f[4])
		return nil
	})
	c.Must("viewport", "set the viewport size: viewport <width> <height>", func(a console.Arguments) error {
		if len(a.Args()) < 3 {
			return errors.New("usage: viewport <width> <height>")
		}
		return e.camera.SetViewport(a.Argv(1).Int(), a.Argv(2).Int())
	})
	c.Must("click", "select the first object under a viewport pixel: click <x> <y>", e.withDocument(2, "<x> <y>", func(d *document.Document, a console.Arguments) error {
		f, err := parseFloats(a, 1, 2)
		if err != nil {
			return err
		}
		return pickAndSelect(d, e.camera.PickRay(f[0], f[1]), out)
	}))

	c.Must("move", "move the selection: move <x> <y> <z>", e.withDocument(3, "<x> <y> <z>", func(d *document.Document, a console.Arguments) error {
		f, err := parseFloats(a, 1, 3)
		if err != nil {
			return err
		}
		return d.MoveObjects(d.Selection().SelectedObjects(), vec.Vec3{X: f[0], Y: f[1], Z: f[2]})
	}))
	c.Must("rotate", "rotate the selection around z: rotate <degrees>", e.withDocument(1, "<degrees>", func(d *document.Document, a console.Arguments) error {
		f, err := parseFloats(a, 1, 1)
		if err != nil {
			return err
		}
		return d.RotateObjects(d.Selection().SelectedObjects(), selectionCenter(d), vec.PosZ, f[0])
	}))
	c.Must("duplicate", "duplicate the selection", e.withDocument(0, "", func(d *document.Document, _ console.Arguments) error {
		return d.DuplicateObjects()
	}))
	c.Must("delete", "remove the selection", e.withDocument(0, "", func(d *document.Document, _ console.Arguments) error {
		return d.RemoveObjects(d.Selection().SelectedObjects())
	}))

	c.Must("setprop", "set a property of the selected entities: setprop <key> <value>", e.withDocument(2, "<key> <value>", func(d *document.Document, a console.Arguments) error {
		return d.SetEntityProperty(selectedEntities(d), a.Argv(1).String(), a.Argv(2).String())
	}))
	c.Must("removeprop", "remove a property: removeprop <key>", e.withDocument(1, "<key>", func(d *document.Document, a console.Arguments) error {
		return d.RemoveEntityProperty(selectedEntities(d), a.Argv(1).String())
	}))
	c.Must("renameprop", "rename a property: renameprop <old> <new>", e.withDocument(2, "<old> <new>", func(d *document.Document, a console.Arguments) error {
		return d.RenameEntityProperty(selectedEntities(d), a.Argv(1).String(), a.Argv(2).String())
	}))
	c.Must("texture", "texture the selected faces: texture <name>", e.withDocument(1, "<name>", func(d *document.Document, a console.Arguments) error {
		faces := d.Selection().AllSelectedFaces()
		if len(faces) == 0 {
			return errors.New("no faces selected")
		}
		return d.SetTexture(faces, a.Argv(1).String())
	}))

	c.Must("addwad", "add a texture collection: addwad <path>", e.withDocument(1, "<path>", func(d *document.Document, a console.Arguments) error {
		return d.AddTextureCollection(a.Argv(1).String())
	}))
	c.Must("removewad", "remove texture collections: removewad <path>...", e.withDocument(1, "<path>...", func(d *document.Document, a console.Arguments) error {
		return d.RemoveTextureCollections(a.Strings())
	}))
	c.Must("exporttexture", "write a texture as png: exporttexture <name> <path>", e.withDocument(2, "<name> <path>", func(d *document.Document, a console.Arguments) error {
		d.CommitPendingRenderStateChanges()
		t := d.TextureManager().Texture(a.Argv(1).String())
		if t == nil {
			return errors.Errorf("unknown texture %q", a.Argv(1))
		}
		if !t.Prepared() {
			return errors.Errorf("texture %s is not prepared", t.Name())
		}
		return qimage.WriteFile(a.Argv(2).String(), t.RGBA(), t.Width(), t.Height())
	}))
	c.Must("mods", "set the mods: mods [name]...", e.withDocument(0, "[name]...", func(d *document.Document, a console.Arguments) error {
		return d.SetMods(a.Strings())
	}))
	c.Must("entdef", "set the entity definition file: entdef <path>", e.withDocument(1, "<path>", func(d *document.Document, a console.Arguments) error {
		return d.SetEntityDefinitionFile(a.Argv(1).String())
	}))
}

func (e *Editor) printInfo(out io.Writer, d *document.Document) {
	m := d.Map()
	fmt.Fprintf(out, "%s: %d entities, %d brushes, %d faces\n", d.Filename(), len(m.Entities()), len(m.Brushes()), len(m.Faces()))
	unresolved := make(map[string]bool)
	var names []string
	for _, f := range m.Faces() {
		if f.Texture() == nil && !unresolved[f.TextureName()] {
			unresolved[f.TextureName()] = true
			names = append(names, f.TextureName())
		}
	}
	if len(names) > 0 {
		fmt.Fprintf(out, "unresolved textures: %v\n", names)
	}
	var classes []string
	missing := make(map[string]bool)
	for _, ent := range m.Entities() {
		if ent.Definition() == nil && !missing[ent.Classname()] {
			missing[ent.Classname()] = true
			classes = append(classes, ent.Classname())
		}
	}
	if len(classes) > 0 {
		fmt.Fprintf(out, "entities without definition: %v\n", classes)
	}
	if d.Modified() {
		fmt.Fprintf(out, "%d unsaved changes\n", d.ModificationCount())
	}
}
