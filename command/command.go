// SPDX-License-Identifier: GPL-2.0-or-later

// Package command runs reversible edits and keeps the undo history.
package command

// Command is one reversible edit. Do is called for the first execution and
// for every redo, Undo reverts the effect of the last Do. A failing Do must
// leave the state unchanged.
type Command interface {
	Name() string
	Do() error
	Undo() error
	// ModifiesDocument is false for edits that do not need saving, like
	// selection changes.
	ModifiesDocument() bool
}

// Collater is implemented by commands that can absorb a following command
// of the same kind, for example consecutive moves of the same objects.
type Collater interface {
	// Collate merges next, which has already been done, into the receiver
	// and reports whether it did.
	Collate(next Command) bool
}

// Func is a Command built from closures.
type Func struct {
	Label    string
	Modifies bool
	DoFunc   func() error
	UndoFunc func() error
}

func (f *Func) Name() string {
	return f.Label
}

func (f *Func) Do() error {
	if f.DoFunc == nil {
		return nil
	}
	return f.DoFunc()
}

func (f *Func) Undo() error {
	if f.UndoFunc == nil {
		return nil
	}
	return f.UndoFunc()
}

func (f *Func) ModifiesDocument() bool {
	return f.Modifies
}
