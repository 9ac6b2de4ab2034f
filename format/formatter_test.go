package format

import (
	"testing"

	"github.com/metquery/marslang/request"
)

func TestFormatBasicRequest(t *testing.T) {
	req := request.New("retrieve")
	req.SetValues("class", []string{"od"})
	req.SetValues("param", []string{"129", "130"})

	got := String(req)
	want := "retrieve,class=od,param=129/130."
	if got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestFormatQuotesValuesThatWouldNotRoundTrip(t *testing.T) {
	req := request.New("retrieve")
	req.SetValue("target", "my file.grib")

	got := String(req)
	want := `retrieve,target="my file.grib".`
	if got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestFormatLeavesDottedParamLiteralUnquoted(t *testing.T) {
	req := request.New("retrieve")
	req.SetValue("param", "128.128")

	got := String(req)
	want := "retrieve,param=128.128."
	if got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestFormatUppercaseOption(t *testing.T) {
	req := request.New("retrieve")
	req.SetValue("class", "od")

	f := New(Options{Uppercase: true, Terminator: "."})
	f.Format(req)

	want := "RETRIEVE,CLASS=od."
	if got := f.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
