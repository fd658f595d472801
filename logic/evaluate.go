package logic

// eval is the total evaluator dispatch. tc may
// be nil, meaning tracing is disabled.
func (e *Engine) eval(node *CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	switch node.Kind {
	case KindLiteral:
		return node.Literal, nil

	case KindArray:
		out := make([]any, len(node.Items))

		for i, item := range node.Items {
			v, err := e.eval(item, ctx, tc)
			if err != nil {
				return nil, err
			}

			out[i] = v
		}

		return out, nil

	case KindBuiltinOp:
		return e.evalTraced(node, ctx, tc, func() (any, error) {
			return e.evalBuiltin(node.Opcode, node.Args, ctx, tc)
		})

	case KindCustomOp:
		return e.evalTraced(node, ctx, tc, func() (any, error) {
			return e.evalCustom(node.Name, node.CustomArg, ctx, tc)
		})

	case KindStructuredObject:
		out := make(map[string]any, len(node.Fields))

		for _, f := range node.Fields {
			v, err := e.eval(f.Node, ctx, tc)
			if err != nil {
				return nil, err
			}

			out[f.Name] = v
		}

		return out, nil

	default:
		return nil, ErrCompile
	}
}

// evalTraced records an ExecutionStep around fn when tracing is enabled,
// otherwise calls fn directly.
func (e *Engine) evalTraced(node *CompiledNode, ctx *ContextStack, tc *traceCollector, fn func() (any, error)) (any, error) {
	if tc == nil {
		return fn()
	}

	result, err := fn()
	tc.record(node, ctx, result, err)

	return result, err
}

// evalChild evaluates one argument node under ctx. Operators call this
// (directly or via the EvalFunc passed to custom operators) rather than
// reimplementing dispatch.
func (e *Engine) evalChild(node *CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	return e.eval(node, ctx, tc)
}

func (e *Engine) evalCustom(name string, args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	op, ok := e.custom[name]
	if !ok {
		return nil, ErrUnknownOperator
	}

	evalFn := func(node *CompiledNode, c *ContextStack) (any, error) {
		return e.eval(node, c, tc)
	}

	return op(args, ctx, evalFn)
}

func (e *Engine) evalBuiltin(op Opcode, args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	switch op {
	case OpVar:
		return e.opVar(args, ctx, tc)
	case OpVal:
		return e.opVal(args, ctx, tc)
	case OpExists:
		return e.opExists(args, ctx, tc)
	case OpMissing:
		return e.opMissing(args, ctx, tc)
	case OpMissingSome:
		return e.opMissingSome(args, ctx, tc)

	case OpAdd, OpSub, OpMul, OpDiv, OpMod:
		return e.opArithmetic(op, args, ctx, tc)
	case OpMin, OpMax:
		return e.opMinMax(op, args, ctx, tc)
	case OpAbs, OpCeil, OpFloor:
		return e.opMathUnary(op, args, ctx, tc)

	case OpEq, OpNotEq:
		return e.opLooseEq(op, args, ctx, tc)
	case OpStrictEq, OpStrictNotEq:
		return e.opStrictEq(op, args, ctx, tc)
	case OpGt, OpGte, OpLt, OpLte:
		return e.opCompare(op, args, ctx, tc)

	case OpNot, OpNotNot:
		return e.opNegate(op, args, ctx, tc)
	case OpAnd, OpOr:
		return e.opAndOr(op, args, ctx, tc)

	case OpIf:
		return e.opIf(args, ctx, tc)
	case OpTernary:
		return e.opTernary(args, ctx, tc)
	case OpCoalesce:
		return e.opCoalesce(args, ctx, tc)
	case OpTry:
		return e.opTry(args, ctx, tc)
	case OpThrow:
		return e.opThrow(args, ctx, tc)

	case OpCat:
		return e.opCat(args, ctx, tc)
	case OpSubstr:
		return e.opSubstr(args, ctx, tc)
	case OpIn:
		return e.opIn(args, ctx, tc)
	case OpStartsWith:
		return e.opStartsEnds(true, args, ctx, tc)
	case OpEndsWith:
		return e.opStartsEnds(false, args, ctx, tc)
	case OpUpper:
		return e.opCase(true, args, ctx, tc)
	case OpLower:
		return e.opCase(false, args, ctx, tc)
	case OpTrim:
		return e.opTrim(args, ctx, tc)
	case OpSplit:
		return e.opSplit(args, ctx, tc)

	case OpMap:
		return e.opMap(args, ctx, tc)
	case OpFilter:
		return e.opFilter(args, ctx, tc)
	case OpReduce:
		return e.opReduce(args, ctx, tc)
	case OpAll:
		return e.opAllSomeNone(op, args, ctx, tc)
	case OpSome:
		return e.opAllSomeNone(op, args, ctx, tc)
	case OpNone:
		return e.opAllSomeNone(op, args, ctx, tc)
	case OpMerge:
		return e.opMerge(args, ctx, tc)
	case OpLength:
		return e.opLength(args, ctx, tc)
	case OpSort:
		return e.opSort(args, ctx, tc)
	case OpSlice:
		return e.opSlice(args, ctx, tc)

	case OpType:
		return e.opType(args, ctx, tc)

	case OpDatetime, OpTimestamp:
		return e.opParseTemporal(op, args, ctx, tc)
	case OpParseDate:
		return e.opParseDate(args, ctx, tc)
	case OpFormatDate:
		return e.opFormatDate(args, ctx, tc)
	case OpDateDiff:
		return e.opDateDiff(args, ctx, tc)
	case OpNow:
		return e.opNow(args, ctx, tc)

	default:
		return nil, ErrCompile
	}
}

// truthy applies the engine's configured truthiness rule.
func (e *Engine) truthy(v any) bool {
	return isTruthy(v, e.cfg.Truthiness, e.cfg.TruthyFunc)
}
