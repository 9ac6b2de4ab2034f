// Package format renders Request values back into MARS request text,
// the inverse of the lexer/parser pipeline.
package format

import (
	"bytes"
	"strings"

	"github.com/metquery/marslang/request"
)

// Options controls rendering.
type Options struct {
	Uppercase  bool // uppercase the verb and keywords
	Terminator string
}

// DefaultOptions matches the canonical form used by diagnostics and by
// the parse-print-parse round trip.
var DefaultOptions = Options{
	Uppercase:  false,
	Terminator: ".",
}

// Formatter renders a Request to MARS request text.
type Formatter struct {
	buf  bytes.Buffer
	opts Options
}

// New creates a Formatter with the given options.
func New(opts Options) *Formatter {
	return &Formatter{opts: opts}
}

// String renders req with the default options.
func String(req *request.Request) string {
	f := New(DefaultOptions)
	f.Format(req)
	return f.String()
}

// Format renders req into the formatter's internal buffer.
func (f *Formatter) Format(req *request.Request) {
	if req == nil {
		return
	}
	f.writeWord(req.Verb())
	for _, key := range req.Params() {
		f.buf.WriteString(",")
		f.writeWord(key)
		f.buf.WriteString("=")
		values := req.ValuesOrEmpty(key)
		for i, v := range values {
			if i > 0 {
				f.buf.WriteString("/")
			}
			f.writeValue(v)
		}
	}
	f.buf.WriteString(f.opts.Terminator)
}

// String returns the buffer rendered so far.
func (f *Formatter) String() string {
	return f.buf.String()
}

func (f *Formatter) writeWord(w string) {
	if f.opts.Uppercase {
		f.buf.WriteString(strings.ToUpper(w))
	} else {
		f.buf.WriteString(strings.ToLower(w))
	}
}

// writeValue quotes a value if it contains characters that would not
// round-trip through the lexer unquoted (whitespace, the structural
// delimiters, or a '#' that would start a comment).
func (f *Formatter) writeValue(v string) {
	if needsQuoting(v) {
		f.buf.WriteByte('"')
		f.buf.WriteString(v)
		f.buf.WriteByte('"')
		return
	}
	f.buf.WriteString(v)
}

func needsQuoting(v string) bool {
	if v == "" {
		return true
	}
	for i := 0; i < len(v); i++ {
		switch v[i] {
		case ' ', '\t', '\r', '\n', '=', '/', ',', '#', '"':
			return true
		case '.':
			// A bare dot is only safe unquoted when it sits between two
			// digits (the table.param literal form); anywhere else it
			// would be read back as the request terminator.
			if i == 0 || i == len(v)-1 || !isDigit(v[i-1]) || !isDigit(v[i+1]) {
				return true
			}
		}
	}
	return false
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
