package loader

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// ErrInvalidValue is returned when a key holds a value of the wrong shape.
var ErrInvalidValue = errors.New("invalid configuration value")

var (
	ruleType    = reflect.TypeOf(domain.Rule{})
	rulesType   = reflect.TypeOf([]domain.Rule{})
	statesType  = reflect.TypeOf([]domain.State{})
	symbolsType = reflect.TypeOf([]domain.Symbol{})
)

// Decode converts a loose map (from YAML, JSON or document frontmatter) into a
// Config. Missing required keys fail with domain.ErrMissingKey.
func Decode(raw map[string]any) (domain.Config, error) {
	for _, k := range requiredKeys {
		v, ok := raw[k]
		if !ok || v == nil {
			return domain.Config{}, fmt.Errorf("key %q: %w", k, domain.ErrMissingKey)
		}
	}

	var cfg domain.Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			rulesFromText,
			ruleFromValue,
			statesFromText,
			symbolsFromText,
		),
		WeaklyTypedInput: true,
		ErrorUnused:      false,
		Result:           &cfg,
	})
	if err != nil {
		return domain.Config{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return domain.Config{}, fmt.Errorf("failed to decode machine: %w: %w", ErrInvalidValue, err)
	}
	return cfg, nil
}

// rulesFromText accepts a whole rule table written one tuple per line.
func rulesFromText(f reflect.Type, t reflect.Type, data any) (any, error) {
	if f.Kind() != reflect.String || t != rulesType {
		return data, nil
	}
	var out []any
	for _, line := range strings.Split(reflect.ValueOf(data).String(), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, strings.TrimRight(line, "\r"))
	}
	return out, nil
}

// ruleFromValue accepts "q0,1,1,R,q0" and [q0, 1, 1, R, q0].
func ruleFromValue(f reflect.Type, t reflect.Type, data any) (any, error) {
	if t != ruleType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return domain.ParseRule(v)
	case []any:
		fields := make([]string, len(v))
		for i, x := range v {
			if x != nil {
				fields[i] = fmt.Sprint(x)
			}
		}
		return domain.RuleFromTuple(fields)
	case []string:
		return domain.RuleFromTuple(v)
	}
	return data, nil
}

// statesFromText accepts "a, b" and a bare "qh".
func statesFromText(f reflect.Type, t reflect.Type, data any) (any, error) {
	if f.Kind() != reflect.String || t != statesType {
		return data, nil
	}
	return splitList(reflect.ValueOf(data).String()), nil
}

// symbolsFromText accepts "0,1,_" and "0110". Without commas every rune is
// one symbol. Numbers are rejected: by the time they reach the decoder a tape
// such as 0110 has already lost its leading zero, so it must be quoted.
func symbolsFromText(f reflect.Type, t reflect.Type, data any) (any, error) {
	if t != symbolsType {
		return data, nil
	}
	switch f.Kind() {
	case reflect.String:
	case reflect.Int, reflect.Int64, reflect.Uint64, reflect.Float64:
		return nil, fmt.Errorf("%w: numeric symbol list %v, quote it as a string", ErrInvalidValue, data)
	default:
		return data, nil
	}
	s := reflect.ValueOf(data).String()
	if strings.Contains(s, ",") && utf8.RuneCountInString(s) > 1 {
		return splitSymbols(s), nil
	}
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitSymbols is splitList for symbols: a field made only of whitespace is a
// symbol of its own and is kept verbatim.
func splitSymbols(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		switch trimmed := strings.TrimSpace(p); {
		case trimmed != "":
			out = append(out, trimmed)
		case p != "":
			out = append(out, p)
		}
	}
	return out
}
