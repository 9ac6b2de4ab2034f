// Package parser provides a recursive descent parser for MARS request
// text: a sequence of requests of the form
//
//	verb,key=value/value,key=value ... (. | newline)
package parser

import (
	"fmt"
	"sync"

	"github.com/metquery/marslang/lexer"
	"github.com/metquery/marslang/request"
	"github.com/metquery/marslang/token"
)

// Parser is a recursive descent parser over MARS request text.
type Parser struct {
	lexer  *lexer.Lexer
	errors []ParseError
	cur    token.Item
	line   int // line the request currently being parsed started on
}

// ParseError represents a parse error with its source position.
type ParseError struct {
	Pos     token.Pos
	Message string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// New creates a new parser for the given input.
func New(input string) *Parser {
	p := &Parser{lexer: lexer.New(input)}
	p.advance()
	return p
}

var parserPool = sync.Pool{
	New: func() any { return &Parser{} },
}

// Get returns a Parser from the pool for the given input. Call Put(p)
// when done to return it to the pool.
func Get(input string) *Parser {
	p := parserPool.Get().(*Parser)
	p.lexer = lexer.Get(input)
	p.errors = p.errors[:0]
	p.cur = token.Item{}
	p.advance()
	return p
}

// Put returns the parser and its lexer to the pool.
func Put(p *Parser) {
	if p.lexer != nil {
		lexer.Put(p.lexer)
		p.lexer = nil
	}
	parserPool.Put(p)
}

// Parse parses a single request, up to and including its terminator.
// It returns nil, nil at end of input.
func (p *Parser) Parse() (*request.ParsedRequest, error) {
	p.skipBlankLines()
	if p.curIs(token.EOF) {
		return nil, nil
	}
	req := p.parseRequest()
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	return req, nil
}

// ParseAll parses every request in the input until EOF.
func (p *Parser) ParseAll() ([]*request.ParsedRequest, error) {
	var reqs []*request.ParsedRequest
	for {
		req, err := p.Parse()
		if err != nil {
			return reqs, err
		}
		if req == nil {
			break
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func (p *Parser) advance() {
	p.cur = p.lexer.Next()
}

func (p *Parser) curIs(t token.Token) bool {
	return p.cur.Tok == t
}

func (p *Parser) expect(t token.Token) bool {
	if p.curIs(t) {
		p.advance()
		return true
	}
	p.errorf("expected %v, got %v", t, p.cur.Tok)
	return false
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errors = append(p.errors, ParseError{
		Pos:     p.cur.Pos,
		Message: fmt.Sprintf(format, args...),
	})
}

// skipBlankLines consumes leading terminators (newlines, stray dots)
// between requests.
func (p *Parser) skipBlankLines() {
	for p.curIs(token.NEWLINE) || p.curIs(token.DOT) {
		p.advance()
	}
}

// parseRequest parses: verb (',' key '=' value ('/' value)*)* ('.' | NEWLINE | EOF)
func (p *Parser) parseRequest() *request.ParsedRequest {
	startLine := p.cur.Pos.Line

	if !p.curIs(token.IDENT) {
		p.errorf("expected a verb, got %v", p.cur.Tok)
		p.advance()
		return nil
	}
	verb := p.cur.Val
	p.advance()

	req := request.New(verb)

	for p.curIs(token.COMMA) {
		p.advance()
		key, values := p.parsePair()
		if len(p.errors) > 0 {
			return nil
		}
		req.SetValues(key, values)
	}

	p.consumeTerminator()

	return request.NewParsed(req, startLine)
}

// parsePair parses: key '=' value ('/' value)*
func (p *Parser) parsePair() (string, []string) {
	if !p.curIs(token.IDENT) {
		p.errorf("expected a keyword, got %v", p.cur.Tok)
		return "", nil
	}
	key := p.cur.Val
	p.advance()

	if !p.expect(token.EQUALS) {
		return key, nil
	}

	values := []string{p.parseValue()}
	for p.curIs(token.SLASH) {
		p.advance()
		values = append(values, p.parseValue())
	}
	return key, values
}

// parseValue parses a single value token: a quoted string or a bare
// identifier (numbers, dates, table.param literals and negative offsets
// all lex as IDENT).
func (p *Parser) parseValue() string {
	switch p.cur.Tok {
	case token.STRING, token.IDENT:
		v := p.cur.Val
		p.advance()
		return v
	default:
		p.errorf("expected a value, got %v", p.cur.Tok)
		p.advance()
		return ""
	}
}

// consumeTerminator accepts the end of a request: a '.', a newline, or
// EOF. Anything else is an error; it does not advance past EOF so
// ParseAll can detect the end of input.
func (p *Parser) consumeTerminator() {
	switch p.cur.Tok {
	case token.DOT, token.NEWLINE:
		p.advance()
	case token.EOF:
		// nothing to consume
	default:
		p.errorf("expected end of request ('.' or newline), got %v", p.cur.Tok)
		p.advance()
	}
}
