// SPDX-License-Identifier: GPL-2.0-or-later

package command

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counter is the state edited by the test commands.
type counter struct {
	value int
}

type add struct {
	c *counter
	n int
}

func (a *add) Name() string           { return "add" }
func (a *add) ModifiesDocument() bool { return true }
func (a *add) Do() error              { a.c.value += a.n; return nil }
func (a *add) Undo() error            { a.c.value -= a.n; return nil }

// Collate merges consecutive adds.
func (a *add) Collate(next Command) bool {
	o, ok := next.(*add)
	if !ok || o.c != a.c {
		return false
	}
	a.n += o.n
	return true
}

func set(c *counter, v int) Command {
	var old int
	return &Func{
		Label:    "set",
		Modifies: true,
		DoFunc:   func() error { old = c.value; c.value = v; return nil },
		UndoFunc: func() error { c.value = old; return nil },
	}
}

type recorder struct {
	done, undone []Event
}

func newProcessor() (*Processor, *recorder) {
	p := NewProcessor(zerolog.Nop())
	r := &recorder{}
	p.CommandDone.Subscribe(func(e Event) { r.done = append(r.done, e) })
	p.CommandUndone.Subscribe(func(e Event) { r.undone = append(r.undone, e) })
	return p, r
}

func TestExecuteUndoRedo(t *testing.T) {
	p, r := newProcessor()
	c := &counter{}
	assert.Equal(t, NoHistory, p.State())
	assert.False(t, p.Undo())
	assert.False(t, p.Redo())

	require.NoError(t, p.Execute(set(c, 5)))
	assert.Equal(t, 5, c.value)
	assert.Equal(t, HasUndo, p.State())
	assert.Equal(t, "set", p.LastCommandName())

	require.True(t, p.Undo())
	assert.Equal(t, 0, c.value)
	assert.Equal(t, HasRedo, p.State())
	assert.Equal(t, "set", p.NextCommandName())

	require.True(t, p.Redo())
	assert.Equal(t, 5, c.value)
	assert.Len(t, r.done, 2)
	assert.True(t, r.done[1].Redo)
	assert.Len(t, r.undone, 1)

	p.Undo()
	require.NoError(t, p.Execute(set(c, 7)))
	assert.False(t, p.HasNextCommand(), "execute drops the redo tail")
	assert.Equal(t, "", p.NextCommandName())
}

func TestFailingCommand(t *testing.T) {
	p, r := newProcessor()
	boom := errors.New("boom")
	err := p.Execute(&Func{Label: "fail", DoFunc: func() error { return boom }})
	assert.ErrorIs(t, err, boom)
	assert.False(t, p.HasLastCommand())
	assert.Empty(t, r.done)
	assert.Error(t, p.Execute(nil))
}

func TestUndoableGroup(t *testing.T) {
	p, r := newProcessor()
	c := &counter{}
	p.BeginUndoableGroup("both")
	require.NoError(t, p.Execute(set(c, 1)))
	require.NoError(t, p.Execute(set(c, 2)))
	assert.Equal(t, 2, c.value, "grouped commands take effect at once")
	assert.Empty(t, r.done)
	assert.False(t, p.Undo(), "no undo while a group is open")
	require.NoError(t, p.CloseGroup())

	require.Len(t, r.done, 1)
	assert.Equal(t, "both", r.done[0].Command.Name())
	assert.True(t, r.done[0].Command.ModifiesDocument())

	require.True(t, p.Undo())
	assert.Equal(t, 0, c.value)
	assert.Len(t, r.undone, 1)
	assert.False(t, p.HasLastCommand())

	require.True(t, p.Redo())
	assert.Equal(t, 2, c.value)
}

func TestNestedGroups(t *testing.T) {
	p, r := newProcessor()
	c := &counter{}
	p.BeginUndoableGroup("outer")
	require.NoError(t, p.Execute(set(c, 1)))
	p.BeginUndoableGroup("inner")
	require.NoError(t, p.Execute(set(c, 2)))
	require.NoError(t, p.CloseGroup())
	assert.Empty(t, r.done)
	require.NoError(t, p.CloseGroup())
	assert.Len(t, r.done, 1)

	g := p.undoStack[0].(*Group)
	assert.Equal(t, 2, g.Len())
	require.True(t, p.Undo())
	assert.Equal(t, 0, c.value)
}

func TestRollbackGroup(t *testing.T) {
	p, r := newProcessor()
	c := &counter{}
	require.NoError(t, p.Execute(set(c, 3)))
	p.BeginUndoableGroup("aborted")
	for i := 0; i < 4; i++ {
		require.NoError(t, p.Execute(set(c, 10+i)))
	}
	require.NoError(t, p.RollbackGroup())
	assert.Equal(t, 3, c.value)
	assert.False(t, p.InGroup())
	assert.Equal(t, "set", p.LastCommandName())
	assert.Len(t, p.undoStack, 1)
	assert.Len(t, r.done, 1)
	assert.Empty(t, r.undone)

	assert.ErrorIs(t, p.RollbackGroup(), ErrNoGroup)
	assert.ErrorIs(t, p.CloseGroup(), ErrNoGroup)
}

func TestOneShotGroup(t *testing.T) {
	p, r := newProcessor()
	c := &counter{}
	p.BeginOneShotGroup("tool")
	require.NoError(t, p.Execute(set(c, 4)))
	require.NoError(t, p.CloseGroup())
	assert.Equal(t, 4, c.value)
	assert.False(t, p.HasLastCommand())
	assert.Len(t, r.done, 1)
}

func TestEmptyGroup(t *testing.T) {
	p, r := newProcessor()
	p.BeginUndoableGroup("nothing")
	require.NoError(t, p.CloseGroup())
	assert.False(t, p.HasLastCommand())
	assert.Empty(t, r.done)
}

func TestCollate(t *testing.T) {
	p, r := newProcessor()
	c := &counter{}
	require.NoError(t, p.Execute(&add{c, 1}))
	require.NoError(t, p.Execute(&add{c, 2}))
	assert.Equal(t, 3, c.value)
	assert.Len(t, p.undoStack, 1)
	require.Len(t, r.done, 2)
	assert.True(t, r.done[1].Collated)

	require.True(t, p.Undo())
	assert.Equal(t, 0, c.value)
	assert.False(t, p.Undo())
}

func TestSealStopsCollate(t *testing.T) {
	p, r := newProcessor()
	c := &counter{}
	require.NoError(t, p.Execute(&add{c, 1}))
	p.Seal()
	require.NoError(t, p.Execute(&add{c, 2}))
	assert.Len(t, p.undoStack, 2)
	require.Len(t, r.done, 2)
	assert.False(t, r.done[1].Collated)

	// only the command right after the seal is kept apart
	require.NoError(t, p.Execute(&add{c, 4}))
	assert.Len(t, p.undoStack, 2)

	require.True(t, p.Undo())
	assert.Equal(t, 1, c.value)
}

func TestOneShotGroupInsideUndoableGroup(t *testing.T) {
	p, r := newProcessor()
	c := &counter{}
	p.BeginUndoableGroup("outer")
	require.NoError(t, p.Execute(&add{c, 1}))
	p.BeginOneShotGroup("tool")
	require.NoError(t, p.Execute(&add{c, 1}))
	require.NoError(t, p.CloseGroup())
	require.NoError(t, p.RollbackGroup())
	assert.Equal(t, 0, c.value)
	assert.False(t, p.HasLastCommand())
	assert.Empty(t, r.done)

	p.BeginUndoableGroup("outer")
	require.NoError(t, p.Execute(&add{c, 1}))
	p.BeginOneShotGroup("tool")
	require.NoError(t, p.Execute(&add{c, 1}))
	require.NoError(t, p.CloseGroup())
	require.NoError(t, p.CloseGroup())
	assert.Equal(t, 2, c.value)
	require.True(t, p.Undo())
	assert.Equal(t, 0, c.value)
}

func TestReentrancy(t *testing.T) {
	p, _ := newProcessor()
	c := &counter{}
	var nested error
	sub := p.CommandDone.Subscribe(func(Event) {
		nested = p.Execute(set(c, 9))
	})
	require.NoError(t, p.Execute(set(c, 1)))
	assert.ErrorIs(t, nested, ErrReentrant)
	assert.Equal(t, 1, c.value)
	sub.Unsubscribe()

	p.CommandUndone.Subscribe(func(Event) {
		assert.False(t, p.Redo())
	})
	assert.True(t, p.Undo())
}

func TestUndoFailure(t *testing.T) {
	p, _ := newProcessor()
	require.NoError(t, p.Execute(&Func{Label: "stuck", UndoFunc: func() error { return errors.New("no") }}))
	assert.False(t, p.Undo())
	assert.True(t, p.HasLastCommand())
}
