// Package lexer provides a lexical scanner for MARS request text.
package lexer

import (
	"sync"

	"github.com/metquery/marslang/token"
)

// Lexer tokenizes MARS request text: verb,key=value/value,key=value ...
type Lexer struct {
	input   string
	start   int        // start position of current token
	pos     int        // current position in input
	line    int        // current line number (1-indexed)
	linePos int        // position of current line start
	item    token.Item // most recently scanned item
	peeked  bool       // whether item contains a peeked token
}

var lexerPool = sync.Pool{
	New: func() any { return &Lexer{} },
}

// New creates a new Lexer for the input string.
func New(input string) *Lexer {
	return &Lexer{
		input: input,
		line:  1,
	}
}

// Get returns a Lexer from the pool, initialized with the input.
func Get(input string) *Lexer {
	l := lexerPool.Get().(*Lexer)
	l.Reset(input)
	return l
}

// Put returns the Lexer to the pool.
func Put(l *Lexer) {
	lexerPool.Put(l)
}

// Reset resets the lexer to scan new input.
func (l *Lexer) Reset(input string) {
	l.input = input
	l.start = 0
	l.pos = 0
	l.line = 1
	l.linePos = 0
	l.item = token.Item{}
	l.peeked = false
}

// Next returns the next token, consuming it.
func (l *Lexer) Next() token.Item {
	if l.peeked {
		l.peeked = false
		return l.item
	}
	l.item = l.scan()
	return l.item
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() token.Item {
	if !l.peeked {
		l.item = l.scan()
		l.peeked = true
	}
	return l.item
}

// scan performs the actual lexical analysis, skipping comments.
func (l *Lexer) scan() token.Item {
	for {
		it := l.scanOne()
		if it.Tok == token.COMMENT {
			continue
		}
		return it
	}
}

func (l *Lexer) scanOne() token.Item {
	l.skipBlank()
	l.start = l.pos

	if l.pos >= len(l.input) {
		return l.makeItem(token.EOF, "")
	}

	ch := l.input[l.pos]

	switch ch {
	case '=':
		l.pos++
		return l.makeItem(token.EQUALS, "=")
	case '/':
		l.pos++
		return l.makeItem(token.SLASH, "/")
	case ',':
		l.pos++
		return l.makeItem(token.COMMA, ",")
	case '.':
		l.pos++
		return l.makeItem(token.DOT, ".")
	case '\n':
		l.pos++
		tok := l.makeItem(token.NEWLINE, "\n")
		l.line++
		l.linePos = l.pos
		return tok
	case '#':
		return l.scanComment()
	case '"':
		return l.scanString()
	}

	return l.scanIdent()
}

func (l *Lexer) makeItem(tok token.Token, val string) token.Item {
	return token.Item{
		Tok: tok,
		Val: val,
		Pos: token.Pos{
			Line:   l.line,
			Column: l.start - l.linePos + 1,
		},
	}
}

// skipBlank skips spaces and tabs and carriage returns, but not newlines:
// newlines are significant (they terminate a request).
func (l *Lexer) skipBlank() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\r':
			l.pos++
		default:
			return
		}
	}
}

func (l *Lexer) scanComment() token.Item {
	for l.pos < len(l.input) && l.input[l.pos] != '\n' {
		l.pos++
	}
	return l.makeItem(token.COMMENT, l.input[l.start:l.pos])
}

func (l *Lexer) scanString() token.Item {
	l.pos++ // opening quote
	start := l.pos
	for l.pos < len(l.input) && l.input[l.pos] != '"' {
		if l.input[l.pos] == '\n' {
			l.line++
			l.linePos = l.pos + 1
		}
		l.pos++
	}
	val := l.input[start:l.pos]
	if l.pos < len(l.input) {
		l.pos++ // closing quote
	}
	return l.makeItem(token.STRING, val)
}

func (l *Lexer) scanIdent() token.Item {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '.' {
			// A dot only continues the current token when it sits between two
			// digits, e.g. the 'table.param' form of a param literal (128.128).
			// Anywhere else (including a trailing request terminator) it is
			// its own DOT token.
			if l.pos > l.start && isDigit(l.input[l.pos-1]) && l.pos+1 < len(l.input) && isDigit(l.input[l.pos+1]) {
				l.pos++
				continue
			}
			break
		}
		if !isTokenChar(ch) {
			break
		}
		l.pos++
	}
	if l.pos == l.start {
		// a character we don't recognise at all
		l.pos++
		return l.makeItem(token.ILLEGAL, l.input[l.start:l.pos])
	}
	return l.makeItem(token.IDENT, l.input[l.start:l.pos])
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// isTokenChar reports whether ch may appear inside an unquoted value or
// keyword: anything that is not whitespace, a structural delimiter, or the
// start of a comment/string.
func isTokenChar(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\n', '=', '/', ',', '.', '#', '"':
		return false
	}
	return true
}
