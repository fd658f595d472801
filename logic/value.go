package logic

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Truthiness selects the truthiness rule applied by operators such as
// and/or/if/!!.
type Truthiness int

const (
	// TruthinessJavaScript is the default: null is false, bools pass
	// through, nonzero-and-not-NaN numbers are true, non-empty
	// strings/arrays/objects are true.
	TruthinessJavaScript Truthiness = iota
	// TruthinessPython behaves identically to TruthinessJavaScript for
	// the value shapes this engine supports.
	TruthinessPython
	// TruthinessStrict treats only null and false as falsy.
	TruthinessStrict
	// TruthinessCustom defers to a user-supplied predicate.
	TruthinessCustom
)

// TruthyFunc is a user-supplied truthiness predicate for TruthinessCustom.
type TruthyFunc func(v any) bool

// NumericCoercionConfig controls how non-numeric values are coerced to
// numbers. Each field is independent.
type NumericCoercionConfig struct {
	// EmptyStringToZero coerces "" to 0 instead of failing.
	EmptyStringToZero bool
	// NullToZero coerces null to 0 instead of failing.
	NullToZero bool
	// BoolToNumber coerces true/false to 1/0 instead of failing.
	BoolToNumber bool
	// StrictNumeric disables string-to-number coercion entirely.
	StrictNumeric bool
	// UndefinedToZero is stored but no operator reads it: a missing
	// value reaches numeric coercion as null, which NullToZero governs.
	UndefinedToZero bool
}

// DefaultNumericCoercion matches the engine's default: strings parse,
// bools and null coerce, nothing is strict.
func DefaultNumericCoercion() NumericCoercionConfig {
	return NumericCoercionConfig{
		EmptyStringToZero: true,
		NullToZero:        true,
		BoolToNumber:      true,
		UndefinedToZero:   true,
	}
}

// isTruthy reports the truthiness of v under the given rule.
func isTruthy(v any, t Truthiness, fn TruthyFunc) bool {
	switch t {
	case TruthinessCustom:
		if fn != nil {
			return fn(v)
		}

		return isTruthyJS(v)
	case TruthinessStrict:
		if v == nil {
			return false
		}

		if b, ok := v.(bool); ok {
			return b
		}

		return true
	case TruthinessJavaScript, TruthinessPython:
		return isTruthyJS(v)
	default:
		return isTruthyJS(v)
	}
}

func isTruthyJS(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case int64:
		return t != 0
	case float64:
		return t != 0 && t == t // t == t is false for NaN
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

// coerceToNumber coerces v to a float64, honoring the numeric coercion
// config's independent toggles. ok is false when no
// coercion rule applies.
func coerceToNumber(v any, cfg NumericCoercionConfig) (float64, bool) {
	switch t := v.(type) {
	case int64:
		return float64(t), true
	case float64:
		return t, true
	case string:
		if cfg.StrictNumeric {
			return 0, false
		}

		if t == "" {
			if cfg.EmptyStringToZero {
				return 0, true
			}

			return 0, false
		}

		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}

		return f, true
	case bool:
		if !cfg.BoolToNumber {
			return 0, false
		}

		if t {
			return 1, true
		}

		return 0, true
	case nil:
		if cfg.NullToZero {
			return 0, true
		}

		return 0, false
	default:
		return 0, false
	}
}

// coerceToInteger coerces v to an int64 if it represents an exact integral
// value, used to decide whether arithmetic should stay integer-typed.
func coerceToInteger(v any, cfg NumericCoercionConfig) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case float64:
		if t == float64(int64(t)) {
			return int64(t), true
		}

		return 0, false
	case string:
		if cfg.StrictNumeric {
			return 0, false
		}

		if t == "" {
			if cfg.EmptyStringToZero {
				return 0, true
			}

			return 0, false
		}

		i, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err == nil {
			return i, true
		}

		return 0, false
	case bool:
		if !cfg.BoolToNumber {
			return 0, false
		}

		if t {
			return 1, true
		}

		return 0, true
	case nil:
		if cfg.NullToZero {
			return 0, true
		}

		return 0, false
	default:
		return 0, false
	}
}

// coerceToString stringifies v using the engine's standard rules: strings
// pass through, null becomes "", booleans and numbers use their JSON
// text, and arrays and objects use Go's %v formatting.
func coerceToString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	case bool:
		if t {
			return "true"
		}

		return "false"
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return formatFloat(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func formatFloat(f float64) string {
	if f == float64(int64(f)) && !isInfOrNaN(f) {
		return strconv.FormatInt(int64(f), 10)
	}

	return strconv.FormatFloat(f, 'g', -1, 64)
}

func isInfOrNaN(f float64) bool {
	return f != f || f > maxFinite || f < -maxFinite
}

const maxFinite = 1.7976931348623157e+308

// looseEquals implements JavaScript-style ==.
func looseEquals(a, b any, cfg NumericCoercionConfig) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		if bv, ok := b.(bool); ok {
			return av == bv
		}

		return looseEqualsCoerced(a, b, cfg)
	case int64, float64:
		switch b.(type) {
		case int64, float64:
			af, _ := coerceToNumber(a, cfg)
			bf, _ := coerceToNumber(b, cfg)

			return af == bf
		default:
			return looseEqualsCoerced(a, b, cfg)
		}
	case string:
		if bv, ok := b.(string); ok {
			return av == bv
		}

		return looseEqualsCoerced(a, b, cfg)
	default:
		return deepEqual(a, b)
	}
}

// looseEqualsCoerced handles cross-type comparisons among
// {number,string,bool} by coercing both sides to numbers. If either side
// fails to coerce, the values are unequal (not an error).
func looseEqualsCoerced(a, b any, cfg NumericCoercionConfig) bool {
	af, aok := coerceToNumber(a, cfg)
	bf, bok := coerceToNumber(b, cfg)

	if !aok || !bok {
		return false
	}

	return af == bf
}

// strictEquals implements JavaScript-style === (same type, structural
// equality).
func strictEquals(a, b any) bool {
	switch a.(type) {
	case int64, float64:
		switch b.(type) {
		case int64, float64:
		default:
			return false
		}
	default:
		if fmt.Sprintf("%T", a) != fmt.Sprintf("%T", b) {
			return false
		}
	}

	return deepEqual(a, b)
}

func deepEqual(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)

		return ok && av == bv
	case int64:
		switch bv := b.(type) {
		case int64:
			return av == bv
		case float64:
			return float64(av) == bv
		}

		return false
	case float64:
		switch bv := b.(type) {
		case int64:
			return av == float64(bv)
		case float64:
			return av == bv
		}

		return false
	case string:
		bv, ok := b.(string)

		return ok && av == bv
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}

		for i := range av {
			if !deepEqual(av[i], bv[i]) {
				return false
			}
		}

		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}

		for k, v := range av {
			bvv, ok := bv[k]
			if !ok || !deepEqual(v, bvv) {
				return false
			}
		}

		return true
	default:
		return a == b
	}
}

// accessPath resolves a dot-separated path against root: numeric segments
// index arrays, backslash-escaped dots are literal in keys, an empty path
// returns root itself, and a nonexistent path reports ok=false.
func accessPath(root any, path string) (any, bool) {
	if path == "" {
		return root, true
	}

	segments := splitPath(path)
	cur := root

	for _, seg := range segments {
		switch c := cur.(type) {
		case map[string]any:
			v, ok := c[seg]
			if !ok {
				return nil, false
			}

			cur = v
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(c) {
				return nil, false
			}

			cur = c[idx]
		default:
			return nil, false
		}
	}

	return cur, true
}

// splitPath splits a dot-separated path, treating "\." as a literal dot
// within a segment.
func splitPath(path string) []string {
	var (
		segments []string
		cur      strings.Builder
	)

	for i := 0; i < len(path); i++ {
		switch {
		case path[i] == '\\' && i+1 < len(path) && path[i+1] == '.':
			cur.WriteByte('.')
			i++
		case path[i] == '.':
			segments = append(segments, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(path[i])
		}
	}

	segments = append(segments, cur.String())

	return segments
}

// typeName implements the type opcode's structural classification,
// including heuristic datetime/duration detection.
func typeName(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case int64, float64:
		return "number"
	case string:
		if _, ok := ParseDateTime(t); ok {
			return "datetime"
		}

		if _, ok := ParseDuration(t); ok {
			return "duration"
		}

		return "string"
	case []any:
		return "array"
	case map[string]any:
		if isDatetimeObject(v) {
			return "datetime"
		}

		if isDurationObject(v) {
			return "duration"
		}

		return "object"
	default:
		return "object"
	}
}

func isDatetimeObject(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}

	_, ok = m["datetime"].(string)

	return ok
}

func isDurationObject(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}

	_, ok = m["timestamp"].(string)

	return ok
}

// sortKeys returns m's keys in a deterministic order, used when a
// StructuredObject or tracer payload needs stable iteration.
func sortKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
