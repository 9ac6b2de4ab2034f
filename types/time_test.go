package types

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/metquery/marslang/grammar"
)

func TestTimeExpandValue(t *testing.T) {
	tt := NewTime("time", grammar.KeywordConfig{})

	testCases := []struct {
		name, in, want string
		wantErr        bool
	}{
		{name: "single digit hour", in: "6", want: "0600"},
		{name: "two digit hour", in: "12", want: "1200"},
		{name: "hhmm", in: "1230", want: "1230"},
		{name: "colon form", in: "6:30", want: "0630"},
		{name: "full colon form", in: "18:00:00", want: "1800"},
		{name: "minutes suffix", in: "90m", want: "0130"},
		{name: "nonzero seconds rejected", in: "12:00:30", wantErr: true},
		{name: "hour out of range", in: "24:00", wantErr: true},
		{name: "garbage", in: "midnight", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tt.ExpandValue(nil, tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
