// SPDX-License-Identifier: GPL-2.0-or-later

package mapfile

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type tokenType int

const (
	tEOF tokenType = iota
	tOBrace
	tCBrace
	tOParen
	tCParen
	tString
	tWord
)

func (t tokenType) String() string {
	switch t {
	case tOBrace:
		return "'{'"
	case tCBrace:
		return "'}'"
	case tOParen:
		return "'('"
	case tCParen:
		return "')'"
	case tString:
		return "string"
	case tWord:
		return "word"
	}
	return "end of file"
}

type token struct {
	typ  tokenType
	text string
	line int
	col  int
}

func (t token) String() string {
	if t.typ == tString || t.typ == tWord {
		return fmt.Sprintf("%v %q", t.typ, t.text)
	}
	return t.typ.String()
}

// tokenizer splits map text. Comments start with // and run to the end
// of the line.
type tokenizer struct {
	data   string
	pos    int
	line   int
	col    int
	peeked *token
}

func newTokenizer(data string) *tokenizer {
	return &tokenizer{data: data, line: 1, col: 1}
}

func (t *tokenizer) advance() {
	if t.data[t.pos] == '\n' {
		t.line++
		t.col = 1
	} else {
		t.col++
	}
	t.pos++
}

func (t *tokenizer) skipSpace() {
	for t.pos < len(t.data) {
		c := t.data[t.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			t.advance()
		case strings.HasPrefix(t.data[t.pos:], "//"):
			for t.pos < len(t.data) && t.data[t.pos] != '\n' {
				t.advance()
			}
		default:
			return
		}
	}
}

func (t *tokenizer) peek() (token, error) {
	if t.peeked == nil {
		tok, err := t.scan()
		if err != nil {
			return token{}, err
		}
		t.peeked = &tok
	}
	return *t.peeked, nil
}

func (t *tokenizer) next() (token, error) {
	if t.peeked != nil {
		tok := *t.peeked
		t.peeked = nil
		return tok, nil
	}
	return t.scan()
}

func (t *tokenizer) scan() (token, error) {
	t.skipSpace()
	tok := token{line: t.line, col: t.col}
	if t.pos >= len(t.data) {
		return tok, nil
	}
	switch c := t.data[t.pos]; c {
	case '{':
		tok.typ = tOBrace
	case '}':
		tok.typ = tCBrace
	case '(':
		tok.typ = tOParen
	case ')':
		tok.typ = tCParen
	case '"':
		t.advance()
		start := t.pos
		for t.pos < len(t.data) && t.data[t.pos] != '"' {
			if t.data[t.pos] == '\\' && t.pos+1 < len(t.data) && t.data[t.pos+1] == '"' {
				t.advance()
			}
			t.advance()
		}
		if t.pos >= len(t.data) {
			return tok, errors.Errorf("%d:%d: unterminated string", tok.line, tok.col)
		}
		tok.typ = tString
		tok.text = strings.ReplaceAll(t.data[start:t.pos], `\"`, `"`)
		t.advance()
		return tok, nil
	default:
		start := t.pos
		for t.pos < len(t.data) && !strings.ContainsRune(" \t\r\n{}()\"", rune(t.data[t.pos])) {
			t.advance()
		}
		tok.typ = tWord
		tok.text = t.data[start:t.pos]
		return tok, nil
	}
	t.advance()
	return tok, nil
}
