// SPDX-License-Identifier: GPL-2.0-or-later

package console

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
)

type Arg struct {
	a string
}

func (a Arg) String() string {
	return a.a
}

func (a Arg) Int() int {
	r, err := strconv.ParseInt(a.a, 10, 0)
	if err != nil {
		return 0
	}
	return int(r)
}

func (a Arg) Float32() float32 {
	r, err := strconv.ParseFloat(a.a, 32)
	if err != nil {
		return 0
	}
	return float32(r)
}

func (a Arg) Bool() bool {
	switch strings.ToLower(a.a) {
	case "1", "t", "true", "on", "yes":
		return true
	default:
		return false
	}
}

// Arguments is one parsed script line.
type Arguments struct {
	args []Arg
	// the trimmed line
	full string
}

// Argv returns the i-th argument or an empty one.
func (c Arguments) Argv(i int) Arg {
	if i < 0 || i >= len(c.args) {
		return Arg{}
	}
	return c.args[i]
}

func (c Arguments) Full() string {
	return c.full
}

func (c Arguments) Args() []Arg {
	return c.args
}

// Strings returns the arguments after the command name.
func (c Arguments) Strings() []string {
	if len(c.args) < 2 {
		return nil
	}
	r := make([]string, 0, len(c.args)-1)
	for _, a := range c.args[1:] {
		r = append(r, a.a)
	}
	return r
}

// ArgumentString is the line without the command name. Surrounding
// quotes are removed.
func (c Arguments) ArgumentString() string {
	if len(c.args) < 2 {
		return ""
	}
	r := strings.TrimPrefix(c.full, c.args[0].String())
	r = strings.TrimLeftFunc(r, unicode.IsSpace)
	if len(r) > 1 && r[0] == '"' {
		r = strings.Trim(r, "\"\t\n\v\f\r ")
	}
	return r
}

// Parse splits s into arguments. Double quotes group words, // starts a
// comment running to the end of the line.
func Parse(s string) (Arguments, error) {
	args := Arguments{full: strings.TrimFunc(s, unicode.IsSpace)}
	l := &lexer{input: args.full}
	for state := lexAction; state != nil; {
		state = state(l)
	}
	if l.err != nil {
		return Arguments{}, l.err
	}
	for _, i := range l.items {
		switch i.typ {
		case itemWord:
			args.args = append(args.args, Arg{i.val})
		case itemString:
			args.args = append(args.args, Arg{strings.TrimSuffix(strings.TrimPrefix(i.val, `"`), `"`)})
		}
	}
	return args, nil
}

type itemType int

const (
	itemString itemType = iota // quoted string includes quotes
	itemWord
)

const eof = -1

type item struct {
	typ itemType
	val string
}

type stateFn func(*lexer) stateFn

type lexer struct {
	input string
	start int
	pos   int
	width int
	items []item
	err   error
}

func (l *lexer) emit(t itemType) {
	l.items = append(l.items, item{t, l.input[l.start:l.pos]})
	l.start = l.pos
}

func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += l.width
	return r
}

func (l *lexer) ignore() {
	l.start = l.pos
}

func (l *lexer) backup() {
	l.pos -= l.width
}

func (l *lexer) errorf(format string, args ...interface{}) stateFn {
	l.err = errors.Errorf(format, args...)
	return nil
}

func lexAction(l *lexer) stateFn {
	switch r := l.next(); {
	case r == eof || r == '\n' || r == '\r':
		return nil
	case r == ' ' || r == '\t':
		l.ignore()
		return lexAction
	case r == '"':
		return lexQuote
	case r == '/' && strings.HasPrefix(l.input[l.pos:], "/"):
		return nil
	case r > ' ':
		l.backup()
		return lexWord
	default:
		return l.errorf("unhandled char: %#U", r)
	}
}

func lexWord(l *lexer) stateFn {
	for {
		if r := l.next(); r <= ' ' || r == '"' {
			if r != eof {
				l.backup()
			}
			l.emit(itemWord)
			return lexAction
		}
	}
}

func lexQuote(l *lexer) stateFn {
	for {
		switch l.next() {
		case '"':
			l.emit(itemString)
			return lexAction
		case eof, '\n':
			return l.errorf("unterminated string")
		}
	}
}
