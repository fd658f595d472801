package logic

import "math"

// opArithmetic implements +, -, *, /, %. It follows the
// engine's integer-preservation rule: if every operand coerces
// to an exact integer, the result stays integer-typed. For + a float64
// operand makes the result float64 even when its value is integral;
// -, *, / and % treat an integral float64 such as 2.0 as an integer.
func (e *Engine) opArithmetic(op Opcode, args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	switch op {
	case OpAdd:
		return e.opAdd(args, ctx, tc)
	case OpSub:
		return e.opSub(args, ctx, tc)
	case OpMul:
		return e.opMul(args, ctx, tc)
	case OpDiv:
		return e.opDiv(args, ctx, tc)
	case OpMod:
		return e.opMod(args, ctx, tc)
	default:
		return nil, ErrCompile
	}
}

func (e *Engine) opAdd(args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	if len(args) == 0 {
		return int64(0), nil
	}

	allInt := true

	var (
		intSum     int64
		floatSum   float64
		overflowed bool
	)

	for _, arg := range args {
		v, err := e.evalChild(arg, ctx, tc)
		if err != nil {
			return nil, err
		}

		// A float64 operand keeps the sum float-typed even when its value
		// is integral, so 1.0 + 2 yields 3.0.
		_, isFloat := v.(float64)
		if i, ok := coerceToInteger(v, e.cfg.NumericCoercion); ok && !isFloat {
			if allInt && !overflowed {
				s := intSum + i
				if (i > 0 && s < intSum) || (i < 0 && s > intSum) {
					overflowed = true
					floatSum = float64(intSum) + float64(i)
				} else {
					intSum = s
				}
			} else {
				floatSum += float64(i)
			}

			continue
		}

		if f, ok := coerceToNumber(v, e.cfg.NumericCoercion); ok {
			if allInt {
				floatSum = float64(intSum) + f
			} else {
				floatSum += f
			}

			allInt = false

			continue
		}

		return e.numericFailure()
	}

	if allInt && !overflowed {
		return intSum, nil
	}

	return safeAdd(0, floatSum), nil
}

func (e *Engine) opSub(args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	if len(args) == 0 {
		return int64(0), nil
	}

	first, err := e.evalChild(args[0], ctx, tc)
	if err != nil {
		return nil, err
	}

	if len(args) == 1 {
		if i, ok := coerceToInteger(first, e.cfg.NumericCoercion); ok {
			return -i, nil
		}

		f, ok := coerceToNumber(first, e.cfg.NumericCoercion)
		if !ok {
			return e.numericFailure()
		}

		return -f, nil
	}

	second, err := e.evalChild(args[1], ctx, tc)
	if err != nil {
		return nil, err
	}

	if i1, ok1 := coerceToInteger(first, e.cfg.NumericCoercion); ok1 {
		if i2, ok2 := coerceToInteger(second, e.cfg.NumericCoercion); ok2 {
			return i1 - i2, nil
		}
	}

	f1, ok1 := coerceToNumber(first, e.cfg.NumericCoercion)
	f2, ok2 := coerceToNumber(second, e.cfg.NumericCoercion)

	if !ok1 || !ok2 {
		return e.numericFailure()
	}

	return safeSubtract(f1, f2), nil
}

func (e *Engine) opMul(args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	if len(args) == 0 {
		return int64(1), nil
	}

	allInt := true

	var (
		intProduct   int64 = 1
		floatProduct       = 1.0
		overflowed   bool
	)

	for _, arg := range args {
		v, err := e.evalChild(arg, ctx, tc)
		if err != nil {
			return nil, err
		}

		if i, ok := coerceToInteger(v, e.cfg.NumericCoercion); ok {
			if allInt && !overflowed {
				p := intProduct * i
				if intProduct != 0 && p/intProduct != i {
					overflowed = true
					floatProduct = float64(intProduct) * float64(i)
				} else {
					intProduct = p
				}
			} else {
				floatProduct *= float64(i)
			}

			continue
		}

		if f, ok := coerceToNumber(v, e.cfg.NumericCoercion); ok {
			if allInt {
				floatProduct = float64(intProduct) * f
			} else {
				floatProduct *= f
			}

			allInt = false

			continue
		}

		return e.numericFailure()
	}

	if allInt && !overflowed {
		return intProduct, nil
	}

	return safeMultiply(0, floatProduct, true), nil
}

func (e *Engine) opDiv(args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	if len(args) < 2 {
		return nil, ErrInvalidArguments
	}

	first, err := e.evalChild(args[0], ctx, tc)
	if err != nil {
		return nil, err
	}

	second, err := e.evalChild(args[1], ctx, tc)
	if err != nil {
		return nil, err
	}

	if i1, ok1 := coerceToInteger(first, e.cfg.NumericCoercion); ok1 {
		if i2, ok2 := coerceToInteger(second, e.cfg.NumericCoercion); ok2 {
			if i2 == 0 {
				return e.divisionByZero(float64(i1))
			}

			if i1%i2 == 0 {
				return i1 / i2, nil
			}
		}
	}

	f1, ok1 := coerceToNumber(first, e.cfg.NumericCoercion)
	f2, ok2 := coerceToNumber(second, e.cfg.NumericCoercion)

	if !ok1 || !ok2 {
		return e.numericFailure()
	}

	if f2 == 0 {
		return e.divisionByZero(f1)
	}

	return safeDivide(f1, f2, false), nil
}

func (e *Engine) opMod(args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	if len(args) < 2 {
		return nil, ErrInvalidArguments
	}

	first, err := e.evalChild(args[0], ctx, tc)
	if err != nil {
		return nil, err
	}

	second, err := e.evalChild(args[1], ctx, tc)
	if err != nil {
		return nil, err
	}

	if i1, ok1 := coerceToInteger(first, e.cfg.NumericCoercion); ok1 {
		if i2, ok2 := coerceToInteger(second, e.cfg.NumericCoercion); ok2 {
			if i2 == 0 {
				return e.divisionByZero(float64(i1))
			}

			return i1 % i2, nil
		}
	}

	f1, ok1 := coerceToNumber(first, e.cfg.NumericCoercion)
	f2, ok2 := coerceToNumber(second, e.cfg.NumericCoercion)

	if !ok1 || !ok2 {
		return e.numericFailure()
	}

	if f2 == 0 {
		return e.divisionByZero(f1)
	}

	r := math.Mod(f1, f2)
	if r != r {
		return 0.0, nil
	}

	return r, nil
}

func (e *Engine) opMinMax(op Opcode, args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	if len(args) == 0 {
		return nil, nil
	}

	var (
		best    any
		bestNum float64
		found   bool
	)

	for _, arg := range args {
		v, err := e.evalChild(arg, ctx, tc)
		if err != nil {
			return nil, err
		}

		n, ok := coerceToNumber(v, e.cfg.NumericCoercion)
		if !ok {
			continue
		}

		if !found {
			best, bestNum, found = v, n, true

			continue
		}

		if op == OpMax && n > bestNum || op == OpMin && n < bestNum {
			best, bestNum = v, n
		}
	}

	if !found {
		return nil, nil
	}

	return best, nil
}

// numericFailure applies the engine's NaNHandling policy when a value
// required to be numeric could not be coerced.
func (e *Engine) numericFailure() (any, error) {
	switch e.cfg.NaNHandling {
	case NaNIgnore:
		return math.NaN(), nil
	case NaNCoerceToZero:
		return int64(0), nil
	case NaNReturnNull:
		return nil, nil
	case NaNThrow:
		return nil, ErrNumericCoercion
	default:
		return nil, ErrNumericCoercion
	}
}

// divisionByZero applies the engine's DivisionByZero policy. dividend is
// used to pick the saturation direction for DivisionReturnBounds.
func (e *Engine) divisionByZero(dividend float64) (any, error) {
	switch e.cfg.DivisionByZero {
	case DivisionThrow:
		return nil, ErrDivisionByZero
	case DivisionReturnNull:
		return nil, nil
	case DivisionReturnInfinity:
		if dividend > 0 {
			return math.Inf(1), nil
		} else if dividend < 0 {
			return math.Inf(-1), nil
		}

		return 0.0, nil
	case DivisionReturnBounds:
		if dividend > 0 {
			return math.MaxFloat64, nil
		} else if dividend < 0 {
			return -math.MaxFloat64, nil
		}

		return 0.0, nil
	default:
		return nil, ErrDivisionByZero
	}
}

// safeAdd, safeSubtract, safeMultiply, safeDivide saturate overflow to
// +/-math.MaxFloat64 and collapse NaN to 0.
func safeAdd(_ float64, result float64) float64 {
	return saturate(result)
}

func safeSubtract(a, b float64) float64 {
	return saturate(a - b)
}

func safeMultiply(_ float64, result float64, _ bool) float64 {
	return saturate(result)
}

func safeDivide(a, b float64, _ bool) float64 {
	return saturate(a / b)
}

func saturate(f float64) float64 {
	switch {
	case f != f:
		return 0
	case math.IsInf(f, 1):
		return math.MaxFloat64
	case math.IsInf(f, -1):
		return -math.MaxFloat64
	default:
		return f
	}
}
