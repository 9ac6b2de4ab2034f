package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/metquery/marslang/grammar"
)

// Time accepts H, HH, HHMM, H:MM, HH:MM:SS and NNm (minutes since
// midnight), rejecting non-zero seconds and hours >= 24; canonical
// output is always HHMM.
type Time struct {
	Base
}

// NewTime builds a Time type for the given keyword.
func NewTime(name string, cfg grammar.KeywordConfig) *Time {
	t := &Time{Base: NewBase(name, cfg, false, true, true)}
	t.BindExpandValue(t.ExpandValue)
	return t
}

func (t *Time) ExpandValue(_ Context, value string) (string, error) {
	v := strings.TrimSpace(value)

	if strings.HasSuffix(v, "m") || strings.HasSuffix(v, "M") {
		mins, err := strconv.Atoi(v[:len(v)-1])
		if err != nil {
			return "", fmt.Errorf("%s: %q is not a valid minutes offset", t.Name(), value)
		}
		h, m := mins/60, mins%60
		if h >= 24 {
			return "", fmt.Errorf("%s: %q is not within a single day", t.Name(), value)
		}
		return fmt.Sprintf("%02d%02d", h, m), nil
	}

	if strings.Contains(v, ":") {
		parts := strings.Split(v, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return "", fmt.Errorf("%s: %q is not a recognised time form", t.Name(), value)
		}
		h, err := strconv.Atoi(parts[0])
		if err != nil {
			return "", fmt.Errorf("%s: %q is not a recognised time form", t.Name(), value)
		}
		m, err := strconv.Atoi(parts[1])
		if err != nil {
			return "", fmt.Errorf("%s: %q is not a recognised time form", t.Name(), value)
		}
		sec := 0
		if len(parts) == 3 {
			sec, err = strconv.Atoi(parts[2])
			if err != nil {
				return "", fmt.Errorf("%s: %q is not a recognised time form", t.Name(), value)
			}
		}
		if sec != 0 {
			return "", fmt.Errorf("%s: %q carries non-zero seconds", t.Name(), value)
		}
		return formatHHMM(t.Name(), h, m)
	}

	// bare digits: H, HH, or HHMM
	switch len(v) {
	case 1, 2:
		h, err := strconv.Atoi(v)
		if err != nil {
			return "", fmt.Errorf("%s: %q is not a recognised time form", t.Name(), value)
		}
		return formatHHMM(t.Name(), h, 0)
	case 3, 4:
		h, err1 := strconv.Atoi(v[:len(v)-2])
		m, err2 := strconv.Atoi(v[len(v)-2:])
		if err1 != nil || err2 != nil {
			return "", fmt.Errorf("%s: %q is not a recognised time form", t.Name(), value)
		}
		return formatHHMM(t.Name(), h, m)
	}

	return "", fmt.Errorf("%s: %q is not a recognised time form", t.Name(), value)
}

func formatHHMM(keyword string, h, m int) (string, error) {
	if h < 0 || h >= 24 {
		return "", fmt.Errorf("%s: hour %d is out of range", keyword, h)
	}
	if m < 0 || m > 59 {
		return "", fmt.Errorf("%s: minute %d is out of range", keyword, m)
	}
	return fmt.Sprintf("%02d%02d", h, m), nil
}
