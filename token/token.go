// Package token defines the lexical tokens of MARS request text.
package token

import "fmt"

// Token identifies the lexical class of an Item.
type Token int

const (
	ILLEGAL Token = iota
	EOF
	COMMENT

	IDENT  // bare word: class, od, t, 1000, o640 ...
	STRING // "quoted string"

	EQUALS  // =
	SLASH   // /
	COMMA   // ,
	DOT     // .
	NEWLINE // end of a request (newline in the source text)
)

var names = map[Token]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",
	COMMENT: "COMMENT",
	IDENT:   "IDENT",
	STRING:  "STRING",
	EQUALS:  "=",
	SLASH:   "/",
	COMMA:   ",",
	DOT:     ".",
	NEWLINE: "NEWLINE",
}

func (t Token) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return fmt.Sprintf("Token(%d)", int(t))
}

// Pos is a 1-indexed source position used for diagnostics.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Item is a single scanned token together with its literal text and position.
type Item struct {
	Tok Token
	Val string
	Pos Pos
}

func (it Item) String() string {
	switch it.Tok {
	case EOF:
		return "EOF"
	case ILLEGAL:
		return fmt.Sprintf("illegal %q at %s", it.Val, it.Pos)
	}
	return fmt.Sprintf("%s(%q)", it.Tok, it.Val)
}
