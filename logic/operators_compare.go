package logic

// opLooseEq implements == and !=.
func (e *Engine) opLooseEq(op Opcode, args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
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

	eq := looseEquals(a, b, e.cfg.NumericCoercion)
	if op == OpNotEq {
		return !eq, nil
	}

	return eq, nil
}

// opStrictEq implements === and !==.
func (e *Engine) opStrictEq(op Opcode, args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
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

	eq := strictEquals(a, b)
	if op == OpStrictNotEq {
		return !eq, nil
	}

	return eq, nil
}

// opCompare implements >, >=, <, <=. < and <= chain variadically
// (a < b < c means a<b AND b<c); > and >= take exactly two arguments,
// intentionally asymmetric for non-numeric operands.
func (e *Engine) opCompare(op Opcode, args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	switch op {
	case OpGt, OpGte:
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

		return compareTwo(op, a, b, e.cfg.NumericCoercion), nil

	case OpLt, OpLte:
		if len(args) < 2 {
			return nil, ErrInvalidArguments
		}

		values := make([]any, len(args))

		for i, arg := range args {
			v, err := e.evalChild(arg, ctx, tc)
			if err != nil {
				return nil, err
			}

			values[i] = v
		}

		for i := 0; i+1 < len(values); i++ {
			if !compareTwo(op, values[i], values[i+1], e.cfg.NumericCoercion) {
				return false, nil
			}
		}

		return true, nil

	default:
		return nil, ErrCompile
	}
}

// compareTwo coerces both operands to numbers and compares. Failure to
// coerce yields false, not an error.
func compareTwo(op Opcode, a, b any, cfg NumericCoercionConfig) bool {
	af, aok := coerceToNumber(a, cfg)
	bf, bok := coerceToNumber(b, cfg)

	if !aok || !bok {
		return false
	}

	switch op {
	case OpGt:
		return af > bf
	case OpGte:
		return af >= bf
	case OpLt:
		return af < bf
	case OpLte:
		return af <= bf
	default:
		return false
	}
}
