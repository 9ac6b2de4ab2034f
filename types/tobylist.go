package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/metquery/marslang/grammar"
)

// ToByList expands "a to b [by c]" into a, a+c, a+2c, ... up to and
// including b (stopping once a further step would pass it), over an
// element type of integer, float, date or time. Both signs of c are
// supported; c == 0 is an error, and the sign of c must agree with the
// sign of b-a.
type ToByList struct {
	Base

	element Type
	kind    string
}

// NewToByList builds a ToByList type for the given keyword, delegating
// single-value parsing and canonicalisation to an element type chosen
// by cfg.Element ("integer" by default, or "float", "date", "time").
func NewToByList(name string, cfg grammar.KeywordConfig) (*ToByList, error) {
	kind := cfg.Element
	if kind == "" {
		kind = "integer"
	}

	var element Type
	switch kind {
	case "integer":
		element = NewInteger(name, cfg)
	case "float":
		element = NewFloat(name, cfg)
	case "date":
		element = NewDate(name, cfg)
	case "time":
		element = NewTime(name, cfg)
	default:
		return nil, fmt.Errorf("%s: unsupported to-by-list element type %q", name, kind)
	}

	r := &ToByList{
		Base:    NewBase(name, cfg, true, true, true),
		element: element,
		kind:    kind,
	}
	r.BindExpandValue(r.expandSingle)
	return r, nil
}

func (r *ToByList) expandSingle(ctx Context, value string) (string, error) {
	return r.element.ExpandValue(ctx, value)
}

// ExpandRange overrides the Base default because a to-by-list range
// spans several tokens ("1", "to", "10", "by", "2") rather than one
// token per value, so it cannot be expanded element-by-element.
func (r *ToByList) ExpandRange(ctx Context, values []string) ([]string, error) {
	var out []string
	i := 0
	for i < len(values) {
		if strings.EqualFold(values[i], "to") {
			return nil, fmt.Errorf("%s: 'to' with no preceding value", r.Name())
		}

		if i+2 < len(values) && strings.EqualFold(values[i+1], "to") {
			fromTok, toTok := values[i], values[i+2]
			byTok := ""
			consumed := 3
			if i+4 < len(values) && strings.EqualFold(values[i+3], "by") {
				byTok = values[i+4]
				consumed = 5
			}
			seq, err := r.generateSequence(ctx, fromTok, toTok, byTok)
			if err != nil {
				return nil, err
			}
			out = append(out, seq...)
			i += consumed
			continue
		}

		v, err := r.element.ExpandValue(ctx, values[i])
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		i++
	}
	return out, nil
}

func (r *ToByList) generateSequence(ctx Context, fromTok, toTok, byTok string) ([]string, error) {
	switch e := r.element.(type) {
	case *Integer:
		return generateIntSequence(r.Name(), e, fromTok, toTok, byTok)
	case *Float:
		return generateFloatSequence(r.Name(), e, fromTok, toTok, byTok)
	case *Date:
		return generateDateSequence(ctx, r.Name(), e, fromTok, toTok, byTok)
	case *Time:
		return generateTimeSequence(r.Name(), e, fromTok, toTok, byTok)
	default:
		return nil, fmt.Errorf("%s: to-by-list not supported for element kind %q", r.Name(), r.kind)
	}
}

func generateIntSequence(keyword string, e *Integer, fromTok, toTok, byTok string) ([]string, error) {
	from, err := e.AsInt(fromTok)
	if err != nil {
		return nil, fmt.Errorf("%s: %q is not an integer", keyword, fromTok)
	}
	to, err := e.AsInt(toTok)
	if err != nil {
		return nil, fmt.Errorf("%s: %q is not an integer", keyword, toTok)
	}
	by := int64(1)
	if byTok != "" {
		by, err = e.AsInt(byTok)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not an integer", keyword, byTok)
		}
	}
	if by == 0 {
		return nil, fmt.Errorf("%s: a 'by' step of 0 is not allowed", keyword)
	}
	if (to-from > 0 && by < 0) || (to-from < 0 && by > 0) {
		return nil, fmt.Errorf("%s: 'by' step %d contradicts the direction of %d to %d", keyword, by, from, to)
	}

	var out []string
	if by > 0 {
		for n := from; n <= to; n += by {
			out = append(out, e.FormatInt(n))
		}
	} else {
		for n := from; n >= to; n += by {
			out = append(out, e.FormatInt(n))
		}
	}
	return out, nil
}

func generateFloatSequence(keyword string, e *Float, fromTok, toTok, byTok string) ([]string, error) {
	from, err := e.AsFloat(fromTok)
	if err != nil {
		return nil, fmt.Errorf("%s: %q is not a number", keyword, fromTok)
	}
	to, err := e.AsFloat(toTok)
	if err != nil {
		return nil, fmt.Errorf("%s: %q is not a number", keyword, toTok)
	}
	by := 1.0
	if byTok != "" {
		by, err = e.AsFloat(byTok)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a number", keyword, byTok)
		}
	}
	if by == 0 {
		return nil, fmt.Errorf("%s: a 'by' step of 0 is not allowed", keyword)
	}
	if (to-from > 0 && by < 0) || (to-from < 0 && by > 0) {
		return nil, fmt.Errorf("%s: 'by' step %v contradicts the direction of %v to %v", keyword, by, from, to)
	}

	const epsilon = 1e-9
	var out []string
	if by > 0 {
		for n := from; n <= to+epsilon; n += by {
			out = append(out, e.FormatFloat(n))
		}
	} else {
		for n := from; n >= to-epsilon; n += by {
			out = append(out, e.FormatFloat(n))
		}
	}
	return out, nil
}

func generateDateSequence(ctx Context, keyword string, e *Date, fromTok, toTok, byTok string) ([]string, error) {
	from, err := e.ExpandValue(ctx, fromTok)
	if err != nil {
		return nil, err
	}
	to, err := e.ExpandValue(ctx, toTok)
	if err != nil {
		return nil, err
	}
	if len(from) != 8 || len(to) != 8 {
		return nil, fmt.Errorf("%s: to-by-list stepping requires absolute dates", keyword)
	}
	by := 1
	if byTok != "" {
		by, err = strconv.Atoi(byTok)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a whole number of days", keyword, byTok)
		}
	}
	if by == 0 {
		return nil, fmt.Errorf("%s: a 'by' step of 0 is not allowed", keyword)
	}
	if (to > from && by < 0) || (to < from && by > 0) {
		return nil, fmt.Errorf("%s: 'by' step %d contradicts the direction of %s to %s", keyword, by, from, to)
	}

	y, _ := strconv.Atoi(from[0:4])
	m, _ := strconv.Atoi(from[4:6])
	d, _ := strconv.Atoi(from[6:8])

	var out []string
	for {
		cur := fmt.Sprintf("%04d%02d%02d", y, m, d)
		if by > 0 && cur > to {
			break
		}
		if by < 0 && cur < to {
			break
		}
		out = append(out, cur)
		y, m, d = addDays(y, m, d, by)
		if len(out) > 100000 {
			return nil, fmt.Errorf("%s: to-by-list range too large", keyword)
		}
	}
	return out, nil
}

func generateTimeSequence(keyword string, e *Time, fromTok, toTok, byTok string) ([]string, error) {
	from, err := e.ExpandValue(nil, fromTok)
	if err != nil {
		return nil, err
	}
	to, err := e.ExpandValue(nil, toTok)
	if err != nil {
		return nil, err
	}
	fromMin := hhmmToMinutes(from)
	toMin := hhmmToMinutes(to)
	by := 100 // one hour, expressed in HHMM units
	if byTok != "" {
		n, err := strconv.Atoi(byTok)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a valid step", keyword, byTok)
		}
		by = n
	}
	byMin := hhmmToMinutes(fmt.Sprintf("%04d", by))
	if byMin == 0 {
		return nil, fmt.Errorf("%s: a 'by' step of 0 is not allowed", keyword)
	}
	if (toMin-fromMin > 0 && byMin < 0) || (toMin-fromMin < 0 && byMin > 0) {
		return nil, fmt.Errorf("%s: 'by' step contradicts the direction of %s to %s", keyword, from, to)
	}

	var out []string
	if byMin > 0 {
		for n := fromMin; n <= toMin; n += byMin {
			out = append(out, minutesToHHMM(n))
		}
	} else {
		for n := fromMin; n >= toMin; n += byMin {
			out = append(out, minutesToHHMM(n))
		}
	}
	return out, nil
}

func hhmmToMinutes(hhmm string) int {
	n, _ := strconv.Atoi(hhmm)
	return (n/100)*60 + n%100
}

func minutesToHHMM(mins int) string {
	return fmt.Sprintf("%02d%02d", mins/60, mins%60)
}

func (r *ToByList) Tidy(value string) string {
	return r.element.Tidy(value)
}
