package logic

import "sort"

// iterable normalizes a source value into an ordered list of (element,
// key) pairs. map/filter additionally iterate objects, carrying the
// field name as key metadata.
func iterable(v any) ([]any, []string, bool) {
	switch t := v.(type) {
	case []any:
		return t, nil, true
	case map[string]any:
		keys := sortKeys(t)
		items := make([]any, len(keys))

		for i, k := range keys {
			items[i] = t[k]
		}

		return items, keys, true
	default:
		return nil, nil, false
	}
}

// opMap implements map: evaluates the body once per element under a
// pushed frame with {index, key?} metadata. Empty source yields [].
func (e *Engine) opMap(args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	if len(args) != 2 {
		return nil, ErrInvalidArguments
	}

	srcV, err := e.evalChild(args[0], ctx, tc)
	if err != nil {
		return nil, err
	}

	items, keys, ok := iterable(srcV)
	if !ok {
		return []any{}, nil
	}

	out := make([]any, len(items))

	for i, item := range items {
		f := Frame{Data: item, HasIndex: true, Index: i}
		if keys != nil {
			f.HasKey, f.Key = true, keys[i]
		}

		ctx.Push(f)
		tc.pushIteration(i, len(items))
		v, err := e.evalChild(args[1], ctx, tc)
		tc.popIteration()
		ctx.Pop()

		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	return out, nil
}

// opFilter implements filter: keeps elements whose body evaluates
// truthy.
func (e *Engine) opFilter(args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	if len(args) != 2 {
		return nil, ErrInvalidArguments
	}

	srcV, err := e.evalChild(args[0], ctx, tc)
	if err != nil {
		return nil, err
	}

	items, keys, ok := iterable(srcV)
	if !ok {
		return []any{}, nil
	}

	out := make([]any, 0, len(items))

	for i, item := range items {
		f := Frame{Data: item, HasIndex: true, Index: i}
		if keys != nil {
			f.HasKey, f.Key = true, keys[i]
		}

		ctx.Push(f)
		tc.pushIteration(i, len(items))
		v, err := e.evalChild(args[1], ctx, tc)
		tc.popIteration()
		ctx.Pop()

		if err != nil {
			return nil, err
		}

		if e.truthy(v) {
			out = append(out, item)
		}
	}

	return out, nil
}

// opReduce implements reduce: the body runs under a frame whose data is
// {current, accumulator}; the initial accumulator is evaluated under the
// OUTER context. Empty source returns the initial value unchanged.
func (e *Engine) opReduce(args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	if len(args) != 3 {
		return nil, ErrInvalidArguments
	}

	srcV, err := e.evalChild(args[0], ctx, tc)
	if err != nil {
		return nil, err
	}

	initial, err := e.evalChild(args[2], ctx, tc)
	if err != nil {
		return nil, err
	}

	items, _, ok := iterable(srcV)
	if !ok {
		return initial, nil
	}

	acc := initial

	for i, item := range items {
		ctx.Push(Frame{
			Data:     map[string]any{"current": item, "accumulator": acc},
			HasIndex: true,
			Index:    i,
		})
		tc.pushIteration(i, len(items))
		v, err := e.evalChild(args[1], ctx, tc)
		tc.popIteration()
		ctx.Pop()

		if err != nil {
			return nil, err
		}

		acc = v
	}

	return acc, nil
}

// opAllSomeNone implements all/some/none with the required short-circuit
// and empty-source boundary behaviors:
// all([]) == false, some([]) == false, none([]) == true.
func (e *Engine) opAllSomeNone(op Opcode, args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	if len(args) != 2 {
		return nil, ErrInvalidArguments
	}

	srcV, err := e.evalChild(args[0], ctx, tc)
	if err != nil {
		return nil, err
	}

	items, keys, ok := iterable(srcV)
	if !ok || len(items) == 0 {
		return op == OpNone, nil
	}

	for i, item := range items {
		f := Frame{Data: item, HasIndex: true, Index: i}
		if keys != nil {
			f.HasKey, f.Key = true, keys[i]
		}

		ctx.Push(f)
		tc.pushIteration(i, len(items))
		v, err := e.evalChild(args[1], ctx, tc)
		tc.popIteration()
		ctx.Pop()

		if err != nil {
			return nil, err
		}

		t := e.truthy(v)

		switch op {
		case OpAll:
			if !t {
				return false, nil
			}
		case OpSome:
			if t {
				return true, nil
			}
		case OpNone:
			if t {
				return false, nil
			}
		}
	}

	switch op {
	case OpAll:
		return true, nil
	case OpSome:
		return false, nil
	default:
		return true, nil
	}
}

// opMerge implements merge: flattens literal-array children but keeps
// preserve-wrapped or operator-produced arrays intact. Bare scalars are
// appended as single elements.
func (e *Engine) opMerge(args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	out := make([]any, 0, len(args))

	for _, arg := range args {
		v, err := e.evalChild(arg, ctx, tc)
		if err != nil {
			return nil, err
		}

		if arr, ok := v.([]any); ok && arg.literalArray {
			out = append(out, arr...)

			continue
		}

		out = append(out, v)
	}

	return out, nil
}

// opLength returns string rune-length or array/object element count.
func (e *Engine) opLength(args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	if len(args) != 1 {
		return nil, ErrInvalidArguments
	}

	v, err := e.evalChild(args[0], ctx, tc)
	if err != nil {
		return nil, err
	}

	switch t := v.(type) {
	case string:
		return int64(len([]rune(t))), nil
	case []any:
		return int64(len(t)), nil
	case map[string]any:
		return int64(len(t)), nil
	case nil:
		return int64(0), nil
	default:
		return int64(0), nil
	}
}

// opSort implements sort: stable, ascending by default, accepting an
// optional {"var": ...}-style key selector evaluated per element.
func (e *Engine) opSort(args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	if len(args) < 1 {
		return nil, ErrInvalidArguments
	}

	srcV, err := e.evalChild(args[0], ctx, tc)
	if err != nil {
		return nil, err
	}

	items, _, ok := iterable(srcV)
	if !ok {
		return []any{}, nil
	}

	out := make([]any, len(items))
	copy(out, items)

	keyOf := func(v any) (any, error) { return v, nil }

	if len(args) >= 2 {
		keyOf = func(v any) (any, error) {
			ctx.Push(Frame{Data: v})
			k, err := e.evalChild(args[1], ctx, tc)
			ctx.Pop()

			return k, err
		}
	}

	var sortErr error

	sort.SliceStable(out, func(i, j int) bool {
		if sortErr != nil {
			return false
		}

		ki, err := keyOf(out[i])
		if err != nil {
			sortErr = err

			return false
		}

		kj, err := keyOf(out[j])
		if err != nil {
			sortErr = err

			return false
		}

		return lessValue(ki, kj, e.cfg.NumericCoercion)
	})

	if sortErr != nil {
		return nil, sortErr
	}

	return out, nil
}

func lessValue(a, b any, cfg NumericCoercionConfig) bool {
	af, aok := coerceToNumber(a, cfg)
	bf, bok := coerceToNumber(b, cfg)

	if aok && bok {
		return af < bf
	}

	return coerceToString(a) < coerceToString(b)
}

// opSlice implements slice with the same negative-index semantics as
// substr.
func (e *Engine) opSlice(args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	if len(args) < 2 {
		return nil, ErrInvalidArguments
	}

	srcV, err := e.evalChild(args[0], ctx, tc)
	if err != nil {
		return nil, err
	}

	items, _, ok := iterable(srcV)
	if !ok {
		return []any{}, nil
	}

	n := len(items)

	startV, err := e.evalChild(args[1], ctx, tc)
	if err != nil {
		return nil, err
	}

	startI, _ := coerceToInteger(startV, e.cfg.NumericCoercion)
	begin := normalizeIndex(int(startI), n)

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
		return []any{}, nil
	}

	out := make([]any, end-begin)
	copy(out, items[begin:end])

	return out, nil
}
