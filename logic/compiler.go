package logic

// compilerState threads the owning engine through the recursive compile.
// It is a short-lived helper created fresh for each top-level Compile
// call; it carries no state of its own beyond the engine reference.
type compilerState struct {
	engine *Engine
}

// compileNode lowers one raw JSON value into a CompiledNode.
func (c *compilerState) compileNode(raw any) (*CompiledNode, error) {
	switch v := raw.(type) {
	case map[string]any:
		return c.compileObject(v)
	case []any:
		return c.compileArray(v)
	default:
		return newLiteral(raw), nil
	}
}

func (c *compilerState) compileArray(items []any) (*CompiledNode, error) {
	nodes := make([]*CompiledNode, 0, len(items))

	for _, item := range items {
		n, err := c.compileNode(item)
		if err != nil {
			return nil, err
		}

		nodes = append(nodes, n)
	}

	node := &CompiledNode{Kind: KindArray, Items: nodes, literalArray: true}

	return c.fold(node), nil
}

func (c *compilerState) compileObject(obj map[string]any) (*CompiledNode, error) {
	if len(obj) != 1 {
		if c.engine.cfg.PreserveStructure {
			return c.compileStructured(obj)
		}

		return nil, ErrCompile
	}

	var (
		key string
		val any
	)

	for k, v := range obj {
		key, val = k, v
	}

	op, known := lookupOpcode(key)
	if !known {
		if c.engine.cfg.PreserveStructure {
			if _, registered := c.engine.custom[key]; !registered {
				return c.compileStructured(obj)
			}
		}

		return c.compileCustomOp(key, val)
	}

	if op == OpPreserve {
		return newLiteral(val), nil
	}

	return c.compileBuiltin(op, val)
}

// compileStructured builds a StructuredObject: one field per key, in the
// order produced by sortKeys (Go maps have no source order of their own;
// sorting gives a deterministic, reproducible field order).
func (c *compilerState) compileStructured(obj map[string]any) (*CompiledNode, error) {
	fields := make([]Field, 0, len(obj))

	for _, k := range sortKeys(obj) {
		n, err := c.compileNode(obj[k])
		if err != nil {
			return nil, err
		}

		fields = append(fields, Field{Name: k, Node: n})
	}

	return &CompiledNode{Kind: KindStructuredObject, Fields: fields}, nil
}

func (c *compilerState) compileCustomOp(name string, val any) (*CompiledNode, error) {
	args, err := c.compileArgList(val)
	if err != nil {
		return nil, err
	}

	node := &CompiledNode{Kind: KindCustomOp, Name: name, CustomArg: args}

	return node, nil
}

func (c *compilerState) compileBuiltin(op Opcode, val any) (*CompiledNode, error) {
	var args []*CompiledNode

	if requiresArrayArg(op) {
		arr, ok := val.([]any)
		if !ok {
			args = []*CompiledNode{invalidArgsSentinel(val)}

			node := &CompiledNode{Kind: KindBuiltinOp, Opcode: op, Args: args}

			return node, nil
		}

		compiled, err := c.compileArgList(arr)
		if err != nil {
			return nil, err
		}

		args = compiled
	} else {
		compiled, err := c.compileArgList(val)
		if err != nil {
			return nil, err
		}

		args = compiled
	}

	node := &CompiledNode{Kind: KindBuiltinOp, Opcode: op, Args: args}

	return c.fold(node), nil
}

// compileArgList normalizes an operator's raw value into a list of
// compiled argument nodes: a JSON array compiles element-by-element, any
// other value compiles as a single-element argument list.
func (c *compilerState) compileArgList(val any) ([]*CompiledNode, error) {
	arr, ok := val.([]any)
	if !ok {
		n, err := c.compileNode(val)
		if err != nil {
			return nil, err
		}

		return []*CompiledNode{n}, nil
	}

	nodes := make([]*CompiledNode, 0, len(arr))

	for _, item := range arr {
		n, err := c.compileNode(item)
		if err != nil {
			return nil, err
		}

		nodes = append(nodes, n)
	}

	return nodes, nil
}

// fold attempts constant folding: if node is static, it is evaluated
// once against an empty context and replaced by a Literal. Any
// evaluation failure aborts folding silently, leaving the node unfolded
// so the error can surface normally at evaluate time.
func (c *compilerState) fold(node *CompiledNode) *CompiledNode {
	if !c.isStatic(node) {
		return node
	}

	ctx := NewContextStack(nil)

	result, err := c.engine.eval(node, ctx, nil)
	if err != nil {
		return node
	}

	folded := newLiteral(result)
	folded.literalArray = node.literalArray

	return folded
}

// isStatic reports whether node's evaluation depends only on its own
// literal content.
func (c *compilerState) isStatic(node *CompiledNode) bool {
	switch node.Kind {
	case KindLiteral:
		return true
	case KindArray:
		for _, item := range node.Items {
			if !c.isStatic(item) {
				return false
			}
		}

		return true
	case KindBuiltinOp:
		if !isPureOpcode(node.Opcode) {
			return false
		}

		for _, arg := range node.Args {
			if !c.isStatic(arg) {
				return false
			}
		}

		return true
	default:
		return false
	}
}
