package logic

// opVar implements var: a path (string/number) and optional default; an
// empty path returns the current frame data; a missing path returns the
// default (or null).
func (e *Engine) opVar(args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	if len(args) == 0 {
		return ctx.Current(), nil
	}

	pathV, err := e.evalChild(args[0], ctx, tc)
	if err != nil {
		return nil, err
	}

	path := coerceToString(pathV)

	v, ok := accessPath(ctx.Current(), path)
	if ok {
		return v, nil
	}

	if len(args) >= 2 {
		return e.evalChild(args[1], ctx, tc)
	}

	return nil, nil
}

// opVal implements val: like var, but a sub-array argument steps one key
// per segment instead of splitting a dot-path.
func (e *Engine) opVal(args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	if len(args) == 0 {
		return ctx.Current(), nil
	}

	pathV, err := e.evalChild(args[0], ctx, tc)
	if err != nil {
		return nil, err
	}

	cur := ctx.Current()

	if segs, ok := pathV.([]any); ok {
		for _, seg := range segs {
			next, ok := stepInto(cur, seg)
			if !ok {
				if len(args) >= 2 {
					return e.evalChild(args[1], ctx, tc)
				}

				return nil, nil
			}

			cur = next
		}

		return cur, nil
	}

	path := coerceToString(pathV)

	v, ok := accessPath(cur, path)
	if ok {
		return v, nil
	}

	if len(args) >= 2 {
		return e.evalChild(args[1], ctx, tc)
	}

	return nil, nil
}

func stepInto(cur any, key any) (any, bool) {
	switch c := cur.(type) {
	case map[string]any:
		v, ok := c[coerceToString(key)]

		return v, ok
	case []any:
		idx, ok := key.(int64)
		if !ok {
			if f, ok := key.(float64); ok {
				idx = int64(f)
			} else {
				return nil, false
			}
		}

		if idx < 0 || int(idx) >= len(c) {
			return nil, false
		}

		return c[idx], true
	default:
		return nil, false
	}
}

// opExists implements exists: same addressing as val, returns a boolean.
func (e *Engine) opExists(args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	if len(args) == 0 {
		return true, nil
	}

	pathV, err := e.evalChild(args[0], ctx, tc)
	if err != nil {
		return nil, err
	}

	cur := ctx.Current()

	if segs, ok := pathV.([]any); ok {
		for _, seg := range segs {
			next, ok := stepInto(cur, seg)
			if !ok {
				return false, nil
			}

			cur = next
		}

		return true, nil
	}

	_, ok := accessPath(cur, coerceToString(pathV))

	return ok, nil
}

// opMissing implements missing: returns the subset of listed paths not
// found in the current context.
func (e *Engine) opMissing(args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	paths, err := e.collectPaths(args, ctx, tc)
	if err != nil {
		return nil, err
	}

	out := make([]any, 0, len(paths))

	for _, p := range paths {
		if _, ok := accessPath(ctx.Current(), p); !ok {
			out = append(out, p)
		}
	}

	return out, nil
}

// opMissingSome implements missing_some: returns [] if at least N of the
// listed paths are present, else the list of missing ones.
func (e *Engine) opMissingSome(args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	if len(args) < 2 {
		return []any{}, nil
	}

	minV, err := e.evalChild(args[0], ctx, tc)
	if err != nil {
		return nil, err
	}

	minPresent, _ := coerceToInteger(minV, e.cfg.NumericCoercion)

	pathsV, err := e.evalChild(args[1], ctx, tc)
	if err != nil {
		return nil, err
	}

	arr, _ := pathsV.([]any)

	missing := make([]any, 0, len(arr))
	present := 0

	for _, p := range arr {
		path, ok := p.(string)
		if !ok {
			continue
		}

		if _, found := accessPath(ctx.Current(), path); found {
			present++
		} else {
			missing = append(missing, path)
		}
	}

	if int64(present) >= minPresent {
		return []any{}, nil
	}

	return missing, nil
}

// collectPaths evaluates each argument to missing and flattens any
// array-valued arguments into a single path list.
func (e *Engine) collectPaths(args []*CompiledNode, ctx *ContextStack, tc *traceCollector) ([]string, error) {
	var paths []string

	for _, arg := range args {
		v, err := e.evalChild(arg, ctx, tc)
		if err != nil {
			return nil, err
		}

		switch t := v.(type) {
		case string:
			paths = append(paths, t)
		case []any:
			for _, item := range t {
				if s, ok := item.(string); ok {
					paths = append(paths, s)
				}
			}
		}
	}

	return paths, nil
}
