// SPDX-License-Identifier: GPL-2.0-or-later

package console

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ErrUnknownCommand is returned for lines naming no registered command.
var ErrUnknownCommand = errors.New("unknown command")

// Buffer holds script text not yet executed. A wait command stops
// execution until the next call to Execute.
type Buffer struct {
	log  zerolog.Logger
	cmds *Commands
	text string
	wait bool
	// ContinueOnError keeps executing after a failing line.
	ContinueOnError bool
}

// NewBuffer returns a buffer running cmds. It registers the wait command.
func NewBuffer(cmds *Commands, log zerolog.Logger) *Buffer {
	b := &Buffer{log: log.With().Str("component", "console").Logger(), cmds: cmds}
	if !cmds.Exists("wait") {
		cmds.Must("wait", "continue the script on the next run", func(Arguments) error {
			b.wait = true
			return nil
		})
	}
	return b
}

func (b *Buffer) AddText(text string) {
	b.text += text
}

// InsertText puts text in front of the pending text.
func (b *Buffer) InsertText(text string) {
	b.text = text + "\n" + b.text
}

func (b *Buffer) Pending() bool {
	return b.text != ""
}

// nextLine cuts the text up to the first newline or unquoted semicolon.
func (b *Buffer) nextLine() string {
	quote := false
	i := 0
LineLoop:
	for ; i < len(b.text); i++ {
		switch b.text[i] {
		case '"':
			quote = !quote
		case ';':
			if !quote {
				break LineLoop
			}
		case '\n':
			break LineLoop
		}
	}
	line := b.text[:i]
	if i < len(b.text) {
		i++
	}
	b.text = b.text[i:]
	return line
}

// Execute runs lines until the buffer is empty or a wait command is hit.
// Unless ContinueOnError is set the first error stops execution and the
// rest of the text stays pending.
func (b *Buffer) Execute() error {
	var first error
	for b.text != "" {
		line := b.nextLine()
		if err := b.run(line); err != nil {
			if !b.ContinueOnError {
				return err
			}
			b.log.Error().Err(err).Str("line", line).Msg("script command failed")
			if first == nil {
				first = err
			}
		}
		if b.wait {
			b.wait = false
			break
		}
	}
	return first
}

func (b *Buffer) run(line string) error {
	a, err := Parse(line)
	if err != nil {
		return errors.Wrapf(err, "parse %q", line)
	}
	if len(a.Args()) == 0 {
		return nil
	}
	ok, err := b.cmds.Execute(a)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(ErrUnknownCommand, "%q", a.Argv(0).String())
	}
	return nil
}
