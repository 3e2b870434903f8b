// SPDX-License-Identifier: GPL-2.0-or-later

package command

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"quakeed/notify"
)

var (
	ErrNoGroup    = errors.New("no command group open")
	ErrReentrant  = errors.New("command processor is busy")
	ErrGroupOpen  = errors.New("command group is open")
	errNilCommand = errors.New("nil command")
)

// Event is passed to the done and undone notifiers.
type Event struct {
	Command Command
	// Redo is set when a previously undone command was done again.
	Redo bool
	// Collated is set when the command was merged into the last one.
	Collated bool
}

type State int

const (
	NoHistory State = iota
	HasUndo
	HasRedo
	HasUndoAndRedo
)

// Processor executes commands and keeps the linear undo history. Commands
// run inside a group take effect immediately but are undone and reported as
// a single command when the outermost group closes.
type Processor struct {
	log zerolog.Logger

	undoStack []Command
	redoStack []Command
	groups    []*Group
	busy      bool
	// sealed keeps the next command from collating into the last one.
	sealed bool

	CommandDone   notify.Notifier[Event]
	CommandUndone notify.Notifier[Event]
}

func NewProcessor(log zerolog.Logger) *Processor {
	return &Processor{log: log.With().Str("component", "commands").Logger()}
}

func (p *Processor) enter() error {
	if p.busy {
		return ErrReentrant
	}
	p.busy = true
	return nil
}

func (p *Processor) leave() {
	p.busy = false
}

// Execute does c and records it. The redo history is dropped. Nothing is
// recorded if c fails.
func (p *Processor) Execute(c Command) error {
	if c == nil {
		return errNilCommand
	}
	if err := p.enter(); err != nil {
		return err
	}
	defer p.leave()

	if err := c.Do(); err != nil {
		p.log.Debug().Err(err).Str("command", c.Name()).Msg("command failed")
		return errors.Wrapf(err, "%s", c.Name())
	}
	if g := p.openGroup(); g != nil {
		g.add(c)
		return nil
	}
	p.redoStack = nil
	collated := false
	if n := len(p.undoStack); n > 0 && !p.sealed {
		if col, ok := p.undoStack[n-1].(Collater); ok {
			collated = col.Collate(c)
		}
	}
	if !collated {
		p.undoStack = append(p.undoStack, c)
		p.sealed = false
	}
	p.CommandDone.Notify(Event{Command: c, Collated: collated})
	return nil
}

// Undo reverts the last command. It returns false if there is none, a
// group is open or the command failed to undo.
func (p *Processor) Undo() bool {
	if len(p.undoStack) == 0 || len(p.groups) > 0 || p.enter() != nil {
		return false
	}
	defer p.leave()

	n := len(p.undoStack) - 1
	c := p.undoStack[n]
	if err := c.Undo(); err != nil {
		p.log.Error().Err(err).Str("command", c.Name()).Msg("undo failed")
		return false
	}
	p.undoStack = p.undoStack[:n]
	p.redoStack = append(p.redoStack, c)
	p.CommandUndone.Notify(Event{Command: c})
	return true
}

// Redo does the last undone command again.
func (p *Processor) Redo() bool {
	if len(p.redoStack) == 0 || len(p.groups) > 0 || p.enter() != nil {
		return false
	}
	defer p.leave()

	n := len(p.redoStack) - 1
	c := p.redoStack[n]
	if err := c.Do(); err != nil {
		p.log.Error().Err(err).Str("command", c.Name()).Msg("redo failed")
		return false
	}
	p.redoStack = p.redoStack[:n]
	p.undoStack = append(p.undoStack, c)
	p.CommandDone.Notify(Event{Command: c, Redo: true})
	return true
}

func (p *Processor) HasLastCommand() bool {
	return len(p.undoStack) > 0
}

func (p *Processor) HasNextCommand() bool {
	return len(p.redoStack) > 0
}

func (p *Processor) LastCommandName() string {
	if n := len(p.undoStack); n > 0 {
		return p.undoStack[n-1].Name()
	}
	return ""
}

func (p *Processor) NextCommandName() string {
	if n := len(p.redoStack); n > 0 {
		return p.redoStack[n-1].Name()
	}
	return ""
}

func (p *Processor) State() State {
	s := NoHistory
	if p.HasLastCommand() {
		s = HasUndo
	}
	if p.HasNextCommand() {
		s |= HasRedo
	}
	return s
}

func (p *Processor) openGroup() *Group {
	if n := len(p.groups); n > 0 {
		return p.groups[n-1]
	}
	return nil
}

func (p *Processor) InGroup() bool {
	return len(p.groups) > 0
}

// BeginUndoableGroup starts a group that is recorded as one command.
// Groups nest, an inner group becomes one command of the outer group.
func (p *Processor) BeginUndoableGroup(name string) {
	p.groups = append(p.groups, &Group{name: name, undoable: true})
}

// BeginOneShotGroup starts a group whose commands are applied and reported
// but not recorded for undo. Nested in another group it becomes one command
// of that group.
func (p *Processor) BeginOneShotGroup(name string) {
	p.groups = append(p.groups, &Group{name: name})
}

// CloseGroup ends the innermost group. An empty group is dropped.
func (p *Processor) CloseGroup() error {
	g := p.openGroup()
	if g == nil {
		return ErrNoGroup
	}
	if err := p.enter(); err != nil {
		return err
	}
	defer p.leave()

	p.groups = p.groups[:len(p.groups)-1]
	if g.Len() == 0 {
		return nil
	}
	if outer := p.openGroup(); outer != nil {
		// the outer group undoes and rolls back a nested one shot group too
		outer.add(g)
		return nil
	}
	p.redoStack = nil
	if g.undoable {
		p.undoStack = append(p.undoStack, g)
		p.sealed = false
	}
	p.CommandDone.Notify(Event{Command: g})
	return nil
}

// RollbackGroup undoes every command of the innermost group and drops it.
// Nothing is recorded or reported.
func (p *Processor) RollbackGroup() error {
	g := p.openGroup()
	if g == nil {
		return ErrNoGroup
	}
	if err := p.enter(); err != nil {
		return err
	}
	defer p.leave()

	p.groups = p.groups[:len(p.groups)-1]
	return errors.Wrapf(g.Undo(), "rollback %q", g.name)
}

// Clear forgets the history. Open groups are dropped without undoing them.
func (p *Processor) Clear() {
	p.undoStack = nil
	p.redoStack = nil
	p.groups = nil
	p.sealed = false
}

// Seal stops the next command from being merged into the last recorded
// one. The document seals its history when it is saved.
func (p *Processor) Seal() {
	p.sealed = true
}
