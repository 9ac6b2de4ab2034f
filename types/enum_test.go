package types

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/metquery/marslang/grammar"
	"github.com/metquery/marslang/request"
)

func testContext(strict bool) Context {
	return NewContext(request.New("retrieve"), FixedClock{Year: 2026, Month: 1, Day: 15}, strict)
}

func TestEnumExpandValue(t *testing.T) {
	cfg := grammar.KeywordConfig{
		Values:       grammar.StringList{"od", "rd", "e2", "ti"},
		ValueAliases: map[string]string{"operational": "od", "research": "rd"},
	}
	e := NewEnum("class", cfg)
	ctx := testContext(false)

	testCases := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "exact", in: "rd", want: "rd"},
		{name: "prefix", in: "r", want: "rd"},
		{name: "alias", in: "operational", want: "od"},
		{name: "unknown", in: "xx", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := e.ExpandValue(ctx, tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEnumExpandRangeExpandsGroups(t *testing.T) {
	cfg := grammar.KeywordConfig{
		Multiple: boolPtr(true),
		Values:   grammar.StringList{"trmm", "qscat"},
		Groups: map[string]grammar.StringList{
			"trmm":  {"129", "130"},
			"qscat": {"137", "138"},
		},
	}
	e := NewEnum("obstype", cfg)

	out, err := e.ExpandRange(testContext(false), []string{"trmm"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"129", "130"}, out)
}

func TestEnumAmbiguousPrefix(t *testing.T) {
	cfg := grammar.KeywordConfig{Values: grammar.StringList{"oper", "operod"}}
	e := NewEnum("stream", cfg)

	_, err := e.ExpandValue(testContext(false), "ope")
	assert.Error(t, err)
}

func boolPtr(b bool) *bool { return &b }
