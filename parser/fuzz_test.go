package parser

import (
	"testing"

	"github.com/metquery/marslang/format"
)

// FuzzParse checks that the parser never panics and that whatever it
// successfully parses round-trips through the formatter: format(parse(s))
// reparses to an equal request.
func FuzzParse(f *testing.F) {
	seeds := []string{
		"retrieve,class=od,stream=oper,param=129/130.",
		"retrieve,class=od,date=-1/to/0,time=1200.",
		"archive,class=rd,expver=0001,param=128.167.",
		"list,param=t/z\n",
		"",
		" ",
		"...",
		"retrieve,target=\"with space\".",
		"retrieve,grid=O640.",
		"retrieve,levelist=1/to/10/by/2.",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("Parse panicked on %q: %v", input, r)
			}
		}()

		p := New(input)
		parsed, err := p.Parse()
		if err != nil || parsed == nil {
			return
		}

		formatted := format.String(parsed.Request)
		reparsed, err := New(formatted).Parse()
		if err != nil {
			t.Fatalf("reparse of formatted output failed: %q -> %q: %v", input, formatted, err)
		}
		if reparsed == nil {
			t.Fatalf("reparse of formatted output returned nil: %q -> %q", input, formatted)
		}
		if !parsed.Equal(reparsed.Request) {
			t.Fatalf("round-trip mismatch: %q -> %q -> %q", input, formatted, format.String(reparsed.Request))
		}
	})
}
