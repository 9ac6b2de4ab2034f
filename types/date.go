package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/metquery/marslang/grammar"
)

// Date accepts YYYYMMDD, ISO YYYY-MM-DD, ISO year + day-of-year
// (YYYY-DDD), a month name/number or month-day pair (the "climate"
// forms, output without a year), and relative offsets (0 or negative
// integers, resolved against a pluggable Clock as "today + offset").
type Date struct {
	Base
}

var monthAbbrevs = [...]string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}

// NewDate builds a Date type for the given keyword.
func NewDate(name string, cfg grammar.KeywordConfig) *Date {
	t := &Date{Base: NewBase(name, cfg, true, true, true)}
	t.BindExpandValue(t.ExpandValue)
	return t
}

// ExpandRange overrides the Base default to recognise an inline
// "a to b [by c]" range spanning several tokens before falling back to
// per-value expansion - the date keyword is configured as plain
// "type: date" in every verb's grammar, never as to-by-list with
// element: date, so the to/by handling has to live here rather than
// being reached through ToByList. Mirrors TypeDate::expand's own
// 3-token/5-token tokenised-list branch, which falls back to
// Type::expand (per-value expansion) otherwise.
func (t *Date) ExpandRange(ctx Context, values []string) ([]string, error) {
	if len(values) == 3 && strings.EqualFold(values[1], "to") {
		return generateDateSequence(ctx, t.Name(), t, values[0], values[2], "")
	}
	if len(values) == 5 && strings.EqualFold(values[1], "to") && strings.EqualFold(values[3], "by") {
		return generateDateSequence(ctx, t.Name(), t, values[0], values[2], values[4])
	}
	return t.Base.ExpandRange(ctx, values)
}

func (t *Date) ExpandValue(ctx Context, value string) (string, error) {
	v := strings.TrimSpace(value)

	if y, m, d, ok := parseAbsoluteDigits(v); ok {
		if !validCalendarDate(y, m, d) {
			return "", fmt.Errorf("%s: %q is not a valid calendar date", t.Name(), value)
		}
		return fmt.Sprintf("%04d%02d%02d", y, m, d), nil
	}

	if strings.Contains(v, "-") {
		parts := strings.Split(v, "-")
		switch len(parts) {
		case 3:
			y, err1 := strconv.Atoi(parts[0])
			m, err2 := strconv.Atoi(parts[1])
			d, err3 := strconv.Atoi(parts[2])
			if err1 == nil && err2 == nil && err3 == nil && len(parts[0]) == 4 {
				if !validCalendarDate(y, m, d) {
					return "", fmt.Errorf("%s: %q is not a valid calendar date", t.Name(), value)
				}
				return fmt.Sprintf("%04d%02d%02d", y, m, d), nil
			}
		case 2:
			if len(parts[0]) == 4 {
				if y, err1 := strconv.Atoi(parts[0]); err1 == nil {
					if doy, err2 := strconv.Atoi(parts[1]); err2 == nil && len(parts[1]) == 3 {
						m, d, ok := dayOfYearToMonthDay(y, doy)
						if !ok {
							return "", fmt.Errorf("%s: day-of-year %d is out of range for %d", t.Name(), doy, y)
						}
						return fmt.Sprintf("%04d%02d%02d", y, m, d), nil
					}
				}
			}
			// otherwise a climate month-day pair, e.g. "jan-15" or "1-15"
			mon, ok := resolveMonth(parts[0])
			if !ok {
				return "", fmt.Errorf("%s: %q is not a recognised month", t.Name(), parts[0])
			}
			day, err := strconv.Atoi(parts[1])
			if err != nil || day < 1 || day > 31 {
				return "", fmt.Errorf("%s: %q is not a valid day", t.Name(), parts[1])
			}
			return fmt.Sprintf("%s-%02d", monthAbbrevs[mon-1], day), nil
		}
		return "", fmt.Errorf("%s: %q is not a recognised date form", t.Name(), value)
	}

	if n, err := strconv.Atoi(v); err == nil {
		if n <= 0 {
			y, m, d := ctx.Clock().Today()
			y, m, d = addDays(y, m, d, n)
			return fmt.Sprintf("%04d%02d%02d", y, m, d), nil
		}
		if n >= 1 && n <= 12 {
			return monthAbbrevs[n-1], nil
		}
		return "", fmt.Errorf("%s: %q is not a valid relative offset or month number", t.Name(), value)
	}

	if mon, ok := resolveMonth(v); ok {
		return monthAbbrevs[mon-1], nil
	}

	return "", fmt.Errorf("%s: %q is not a recognised date form", t.Name(), value)
}

func (t *Date) Tidy(value string) string {
	return value
}

// FilterByDay drops any fully-expanded (YYYYMMDD) value whose day-of-
// month component is not in days.
func (t *Date) FilterByDay(values []string, days map[int]bool) []string {
	if len(days) == 0 {
		return values
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if len(v) == 8 {
			if d, err := strconv.Atoi(v[6:8]); err == nil && !days[d] {
				continue
			}
		}
		out = append(out, v)
	}
	return out
}

func parseAbsoluteDigits(v string) (year, month, day int, ok bool) {
	if len(v) != 8 {
		return 0, 0, 0, false
	}
	for _, c := range v {
		if c < '0' || c > '9' {
			return 0, 0, 0, false
		}
	}
	y, _ := strconv.Atoi(v[0:4])
	m, _ := strconv.Atoi(v[4:6])
	d, _ := strconv.Atoi(v[6:8])
	return y, m, d, true
}

func resolveMonth(s string) (int, bool) {
	s = strings.ToLower(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= 12 {
			return n, true
		}
		return 0, false
	}
	if len(s) < 3 {
		return 0, false
	}
	prefix := s[:3]
	for i, a := range monthAbbrevs {
		if a == prefix {
			return i + 1, true
		}
	}
	return 0, false
}

func isLeapYear(y int) bool {
	return (y%4 == 0 && y%100 != 0) || y%400 == 0
}

func daysInMonth(y, m int) int {
	switch m {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeapYear(y) {
			return 29
		}
		return 28
	}
	return 0
}

func validCalendarDate(y, m, d int) bool {
	if m < 1 || m > 12 {
		return false
	}
	return d >= 1 && d <= daysInMonth(y, m)
}

func dayOfYearToMonthDay(y, doy int) (month, day int, ok bool) {
	if doy < 1 {
		return 0, 0, false
	}
	remaining := doy
	for m := 1; m <= 12; m++ {
		dim := daysInMonth(y, m)
		if remaining <= dim {
			return m, remaining, true
		}
		remaining -= dim
	}
	return 0, 0, false
}

// addDays adds n (possibly negative or zero) days to y-m-d using the
// proleptic Gregorian calendar, without relying on time.Time so that
// the pluggable Clock stays the sole source of "now".
func addDays(y, m, d, n int) (int, int, int) {
	for n < 0 {
		d--
		if d < 1 {
			m--
			if m < 1 {
				m = 12
				y--
			}
			d = daysInMonth(y, m)
		}
		n++
	}
	for n > 0 {
		d++
		if d > daysInMonth(y, m) {
			d = 1
			m++
			if m > 12 {
				m = 1
				y++
			}
		}
		n--
	}
	return y, m, d
}
