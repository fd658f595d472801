package logic

import "time"

// opParseTemporal implements datetime and timestamp: parse an ISO-8601
// datetime string or a duration string into the engine's structural
// representation.
func (e *Engine) opParseTemporal(op Opcode, args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	if len(args) != 1 {
		return nil, ErrInvalidArguments
	}

	v, err := e.evalChild(args[0], ctx, tc)
	if err != nil {
		return nil, err
	}

	s := coerceToString(v)

	if op == OpDatetime {
		t, ok := ParseDateTime(s)
		if !ok {
			return nil, ErrInvalidArguments
		}

		return datetimeValue(t), nil
	}

	d, ok := ParseDuration(s)
	if !ok {
		return nil, ErrInvalidArguments
	}

	return durationValue(d), nil
}

// opParseDate parses a datetime string using an explicit Go reference
// layout given as the second argument.
func (e *Engine) opParseDate(args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	if len(args) < 1 {
		return nil, ErrInvalidArguments
	}

	v, err := e.evalChild(args[0], ctx, tc)
	if err != nil {
		return nil, err
	}

	s := coerceToString(v)

	if len(args) >= 2 {
		layoutV, err := e.evalChild(args[1], ctx, tc)
		if err != nil {
			return nil, err
		}

		t, parseErr := time.Parse(coerceToString(layoutV), s)
		if parseErr != nil {
			return nil, ErrInvalidArguments
		}

		return datetimeValue(t), nil
	}

	t, ok := ParseDateTime(s)
	if !ok {
		return nil, ErrInvalidArguments
	}

	return datetimeValue(t), nil
}

// opFormatDate formats a datetime value using a Go reference layout.
func (e *Engine) opFormatDate(args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	if len(args) != 2 {
		return nil, ErrInvalidArguments
	}

	v, err := e.evalChild(args[0], ctx, tc)
	if err != nil {
		return nil, err
	}

	t, ok := extractDatetime(v)
	if !ok {
		return nil, ErrInvalidArguments
	}

	layoutV, err := e.evalChild(args[1], ctx, tc)
	if err != nil {
		return nil, err
	}

	return t.Format(coerceToString(layoutV)), nil
}

// opDateDiff computes a whole-unit difference between two datetimes,
// truncating toward zero.
func (e *Engine) opDateDiff(args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	if len(args) < 2 {
		return nil, ErrInvalidArguments
	}

	av, err := e.evalChild(args[0], ctx, tc)
	if err != nil {
		return nil, err
	}

	bv, err := e.evalChild(args[1], ctx, tc)
	if err != nil {
		return nil, err
	}

	a, ok := extractDatetime(av)
	if !ok {
		return nil, ErrInvalidArguments
	}

	b, ok := extractDatetime(bv)
	if !ok {
		return nil, ErrInvalidArguments
	}

	unit := "seconds"

	if len(args) >= 3 {
		unitV, err := e.evalChild(args[2], ctx, tc)
		if err != nil {
			return nil, err
		}

		unit = coerceToString(unitV)
	}

	d := a.Sub(b)

	switch unit {
	case "days":
		return int64(d.Hours() / 24), nil
	case "hours":
		return int64(d.Hours()), nil
	case "minutes":
		return int64(d.Minutes()), nil
	case "seconds":
		return int64(d.Seconds()), nil
	default:
		return int64(d.Seconds()), nil
	}
}

// opNow returns the current UTC time. It is never folded as a constant.
func (e *Engine) opNow(args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	return datetimeValue(time.Now().UTC()), nil
}

// extractDatetime accepts either a structural datetime object or a bare
// ISO-8601 string.
func extractDatetime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case map[string]any:
		if s, ok := t["datetime"].(string); ok {
			return ParseDateTime(s)
		}

		return time.Time{}, false
	case string:
		return ParseDateTime(t)
	default:
		return time.Time{}, false
	}
}
