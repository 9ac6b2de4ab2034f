package parser

import "testing"

func TestParserBasicRequest(t *testing.T) {
	p := New("retrieve,class=od,date=20240101,param=129/130.")
	req, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req == nil {
		t.Fatalf("expected a request")
	}
	if req.Verb() != "retrieve" {
		t.Fatalf("verb = %q, want retrieve", req.Verb())
	}
	if v, _ := req.Values("class"); v[0] != "od" {
		t.Fatalf("class = %v", v)
	}
	pv, _ := req.Values("param")
	if len(pv) != 2 || pv[0] != "129" || pv[1] != "130" {
		t.Fatalf("param = %v", pv)
	}
}

func TestParserMultipleRequestsNewlineTerminated(t *testing.T) {
	input := "retrieve,class=od\nretrieve,class=rd\n"
	p := New(input)
	reqs, err := p.ParseAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reqs) != 2 {
		t.Fatalf("got %d requests, want 2", len(reqs))
	}
	if v, _ := reqs[0].Values("class"); v[0] != "od" {
		t.Fatalf("first request class = %v", v)
	}
	if v, _ := reqs[1].Values("class"); v[0] != "rd" {
		t.Fatalf("second request class = %v", v)
	}
}

func TestParserQuotedTarget(t *testing.T) {
	p := New(`retrieve,target="my file.grib",param=2t.`)
	req, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := req.Values("target"); v[0] != "my file.grib" {
		t.Fatalf("target = %v", v)
	}
	if v, _ := req.Values("param"); v[0] != "2t" {
		t.Fatalf("param = %v", v)
	}
}

func TestParserDottedParamLiteral(t *testing.T) {
	p := New("retrieve,param=128.128.")
	req, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := req.Values("param"); v[0] != "128.128" {
		t.Fatalf("param = %v", v)
	}
}

func TestParserDateRangeWithNegativeOffsets(t *testing.T) {
	p := New("retrieve,date=-5/to/-1.")
	req, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := req.Values("date")
	want := []string{"-5", "to", "-1"}
	if len(v) != len(want) {
		t.Fatalf("date = %v, want %v", v, want)
	}
	for i := range want {
		if v[i] != want[i] {
			t.Fatalf("date = %v, want %v", v, want)
		}
	}
}

func TestParserLineNumbers(t *testing.T) {
	input := "retrieve,class=od\nretrieve,class=rd\n"
	p := New(input)
	reqs, err := p.ParseAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reqs[0].Line != 1 {
		t.Fatalf("first request line = %d, want 1", reqs[0].Line)
	}
	if reqs[1].Line != 2 {
		t.Fatalf("second request line = %d, want 2", reqs[1].Line)
	}
}

func TestParserMissingEqualsIsError(t *testing.T) {
	p := New("retrieve,class.")
	if _, err := p.Parse(); err == nil {
		t.Fatalf("expected a parse error for missing '='")
	}
}

func TestParserGetPutPool(t *testing.T) {
	p := Get("retrieve,class=od.")
	req, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := req.Values("class"); v[0] != "od" {
		t.Fatalf("class = %v", v)
	}
	Put(p)

	p2 := Get("retrieve,class=rd.")
	req2, err := p2.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := req2.Values("class"); v[0] != "rd" {
		t.Fatalf("pooled parser not reset, class = %v", v)
	}
	Put(p2)
}
