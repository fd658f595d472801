package logic

import (
	"regexp"
	"strings"
)

// opCat implements variadic string concatenation.
func (e *Engine) opCat(args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	var sb strings.Builder

	for _, arg := range args {
		v, err := e.evalChild(arg, ctx, tc)
		if err != nil {
			return nil, err
		}

		sb.WriteString(coerceToString(v))
	}

	return sb.String(), nil
}

// opSubstr implements substr with negative start/length semantics: a
// negative start counts from the end; a negative length trims that many
// characters from the end.
func (e *Engine) opSubstr(args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	if len(args) < 2 {
		return nil, ErrInvalidArguments
	}

	v, err := e.evalChild(args[0], ctx, tc)
	if err != nil {
		return nil, err
	}

	s := []rune(coerceToString(v))

	startV, err := e.evalChild(args[1], ctx, tc)
	if err != nil {
		return nil, err
	}

	start, _ := coerceToInteger(startV, e.cfg.NumericCoercion)

	n := len(s)
	begin := normalizeIndex(int(start), n)

	end := n

	if len(args) >= 3 {
		lenV, err := e.evalChild(args[2], ctx, tc)
		if err != nil {
			return nil, err
		}

		length, _ := coerceToInteger(lenV, e.cfg.NumericCoercion)
		if length < 0 {
			end = n + int(length)
		} else {
			end = begin + int(length)
		}
	}

	if begin < 0 {
		begin = 0
	}

	if end > n {
		end = n
	}

	if begin > end {
		return "", nil
	}

	return string(s[begin:end]), nil
}

func normalizeIndex(i, n int) int {
	if i < 0 {
		i += n
	}

	return i
}

// opIn implements in: substring test for a string haystack, membership
// test for an array haystack.
func (e *Engine) opIn(args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	if len(args) != 2 {
		return nil, ErrInvalidArguments
	}

	needle, err := e.evalChild(args[0], ctx, tc)
	if err != nil {
		return nil, err
	}

	haystack, err := e.evalChild(args[1], ctx, tc)
	if err != nil {
		return nil, err
	}

	switch h := haystack.(type) {
	case string:
		return strings.Contains(h, coerceToString(needle)), nil
	case []any:
		for _, item := range h {
			if looseEquals(needle, item, e.cfg.NumericCoercion) {
				return true, nil
			}
		}

		return false, nil
	default:
		return false, nil
	}
}

func (e *Engine) opStartsEnds(starts bool, args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	if len(args) != 2 {
		return nil, ErrInvalidArguments
	}

	a, err := e.evalChild(args[0], ctx, tc)
	if err != nil {
		return nil, err
	}

	b, err := e.evalChild(args[1], ctx, tc)
	if err != nil {
		return nil, err
	}

	s, prefix := coerceToString(a), coerceToString(b)
	if starts {
		return strings.HasPrefix(s, prefix), nil
	}

	return strings.HasSuffix(s, prefix), nil
}

func (e *Engine) opCase(upper bool, args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	if len(args) != 1 {
		return nil, ErrInvalidArguments
	}

	v, err := e.evalChild(args[0], ctx, tc)
	if err != nil {
		return nil, err
	}

	s := coerceToString(v)
	if upper {
		return strings.ToUpper(s), nil
	}

	return strings.ToLower(s), nil
}

func (e *Engine) opTrim(args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	if len(args) != 1 {
		return nil, ErrInvalidArguments
	}

	v, err := e.evalChild(args[0], ctx, tc)
	if err != nil {
		return nil, err
	}

	return strings.TrimSpace(coerceToString(v)), nil
}

// opSplit implements split with a delimiter string or a regex (named
// groups produce an object of captures instead of an array).
func (e *Engine) opSplit(args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	if len(args) != 2 {
		return nil, ErrInvalidArguments
	}

	v, err := e.evalChild(args[0], ctx, tc)
	if err != nil {
		return nil, err
	}

	delimV, err := e.evalChild(args[1], ctx, tc)
	if err != nil {
		return nil, err
	}

	s := coerceToString(v)
	delim := coerceToString(delimV)

	if re, err := regexp.Compile(delim); err == nil && isRegexLike(delim) {
		names := re.SubexpNames()
		if hasNamedGroups(names) {
			m := re.FindStringSubmatch(s)
			out := make(map[string]any, len(names))

			for i, name := range names {
				if name == "" || i >= len(m) {
					continue
				}

				out[name] = m[i]
			}

			return out, nil
		}

		parts := re.Split(s, -1)
		out := make([]any, len(parts))

		for i, p := range parts {
			out[i] = p
		}

		return out, nil
	}

	parts := strings.Split(s, delim)
	out := make([]any, len(parts))

	for i, p := range parts {
		out[i] = p
	}

	return out, nil
}

func hasNamedGroups(names []string) bool {
	for _, n := range names {
		if n != "" {
			return true
		}
	}

	return false
}

// isRegexLike guards against treating an ordinary literal delimiter (a
// comma, a pipe) as a regex just because it happens to compile; only
// strings containing a regex metacharacter take the regex path.
func isRegexLike(s string) bool {
	return strings.ContainsAny(s, `\.[]()*+?{}^$|`)
}
