package logic

import "math"

// opMathUnary implements abs, ceil, floor. Each accepts
// one number, or multiple numbers (returning an array of results).
func (e *Engine) opMathUnary(op Opcode, args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	if len(args) == 0 {
		return nil, ErrInvalidArguments
	}

	if len(args) == 1 {
		v, err := e.evalChild(args[0], ctx, tc)
		if err != nil {
			return nil, err
		}

		return e.mathUnaryOne(op, v)
	}

	out := make([]any, len(args))

	for i, arg := range args {
		v, err := e.evalChild(arg, ctx, tc)
		if err != nil {
			return nil, err
		}

		r, err := e.mathUnaryOne(op, v)
		if err != nil {
			return nil, err
		}

		out[i] = r
	}

	return out, nil
}

func (e *Engine) mathUnaryOne(op Opcode, v any) (any, error) {
	if i, ok := coerceToInteger(v, e.cfg.NumericCoercion); ok {
		switch op {
		case OpAbs:
			if i < 0 {
				return -i, nil
			}

			return i, nil
		case OpCeil, OpFloor:
			return i, nil
		}
	}

	f, ok := coerceToNumber(v, e.cfg.NumericCoercion)
	if !ok {
		return e.numericFailure()
	}

	switch op {
	case OpAbs:
		return math.Abs(f), nil
	case OpCeil:
		return int64(math.Ceil(f)), nil
	case OpFloor:
		return int64(math.Floor(f)), nil
	default:
		return nil, ErrCompile
	}
}
