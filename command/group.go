// SPDX-License-Identifier: GPL-2.0-or-later

package command

import (
	"github.com/pkg/errors"
)

// Group is a sequence of commands that is undone and redone as one.
type Group struct {
	name     string
	undoable bool
	commands []Command
}

func (g *Group) Name() string {
	return g.name
}

func (g *Group) Commands() []Command {
	return g.commands
}

func (g *Group) Len() int {
	return len(g.commands)
}

func (g *Group) ModifiesDocument() bool {
	for _, c := range g.commands {
		if c.ModifiesDocument() {
			return true
		}
	}
	return false
}

// Do redoes all commands in order. If one fails the ones before it are
// undone again.
func (g *Group) Do() error {
	for i, c := range g.commands {
		if err := c.Do(); err != nil {
			if uerr := undoAll(g.commands[:i]); uerr != nil {
				return errors.Wrapf(uerr, "reverting %q after %v", g.name, err)
			}
			return errors.Wrapf(err, "redo %q", c.Name())
		}
	}
	return nil
}

// Undo undoes all commands in reverse order.
func (g *Group) Undo() error {
	return undoAll(g.commands)
}

func undoAll(cs []Command) error {
	for i := len(cs) - 1; i >= 0; i-- {
		if err := cs[i].Undo(); err != nil {
			return errors.Wrapf(err, "undo %q", cs[i].Name())
		}
	}
	return nil
}

func (g *Group) add(c Command) {
	if n := len(g.commands); n > 0 {
		if col, ok := g.commands[n-1].(Collater); ok && col.Collate(c) {
			return
		}
	}
	g.commands = append(g.commands, c)
}
