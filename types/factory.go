package types

import "github.com/metquery/marslang/grammar"

// New builds the concrete Type variant named by cfg.Type for the given
// keyword. It is the single place that maps a grammar document's
// "type:" string onto a constructor, used both when building a verb's
// keyword set and when a mixed keyword builds its subtype arms.
func New(name string, cfg grammar.KeywordConfig) (Type, error) {
	switch cfg.Type {
	case "any":
		return NewAny(name, cfg), nil
	case "lowercase":
		return NewLowercase(name, cfg), nil
	case "enum":
		return NewEnum(name, cfg), nil
	case "regex":
		return NewRegex(name, cfg)
	case "expver":
		return NewExpver(name, cfg), nil
	case "integer":
		return NewInteger(name, cfg), nil
	case "float":
		return NewFloat(name, cfg), nil
	case "date":
		return NewDate(name, cfg), nil
	case "time":
		return NewTime(name, cfg), nil
	case "range":
		return NewStepRange(name, cfg), nil
	case "to-by-list":
		return NewToByList(name, cfg)
	case "quantile":
		return NewQuantile(name, cfg)
	case "mixed":
		return NewMixed(name, cfg)
	case "param":
		return NewParam(name, cfg), nil
	default:
		return nil, unknownTypeError(name, cfg.Type)
	}
}

func unknownTypeError(name, typ string) error {
	return &UnknownTypeError{Keyword: name, Type: typ}
}

// UnknownTypeError reports a keyword configured with an unrecognised
// type name.
type UnknownTypeError struct {
	Keyword string
	Type    string
}

func (e *UnknownTypeError) Error() string {
	return e.Keyword + ": unknown type " + e.Type
}
