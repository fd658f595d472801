package logic

// opType returns one of {null, boolean, number, string, datetime,
// duration, array, object} using structural heuristics for
// datetime/duration strings. Its output is advisory for edge-case
// strings.
func (e *Engine) opType(args []*CompiledNode, ctx *ContextStack, tc *traceCollector) (any, error) {
	if len(args) != 1 {
		return nil, ErrInvalidArguments
	}

	v, err := e.evalChild(args[0], ctx, tc)
	if err != nil {
		return nil, err
	}

	return typeName(v), nil
}
