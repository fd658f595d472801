package logic

// NaNHandling selects the policy applied when an operator cannot coerce
// a value it needs as a number.
type NaNHandling int

const (
	// NaNThrow raises ErrNumericCoercion.
	NaNThrow NaNHandling = iota
	// NaNIgnore makes the operator return NaN without raising.
	NaNIgnore
	// NaNCoerceToZero makes the operator return 0 as its whole result.
	NaNCoerceToZero
	// NaNReturnNull makes the operator return null as its whole result.
	NaNReturnNull
)

// DivisionByZeroPolicy selects the behavior of / and % on a zero divisor.
type DivisionByZeroPolicy int

const (
	// DivisionReturnBounds saturates to +/-math.MaxFloat64 (or 0 for a
	// zero dividend).
	DivisionReturnBounds DivisionByZeroPolicy = iota
	// DivisionThrow raises ErrDivisionByZero.
	DivisionThrow
	// DivisionReturnNull returns null.
	DivisionReturnNull
	// DivisionReturnInfinity returns +/-Inf as a float (or 0 for a zero
	// dividend).
	DivisionReturnInfinity
)

// Config is the engine's evaluation configuration. All fields have
// documented defaults; build one with
// [NewEngine] and functional [Option]s rather than constructing it
// directly.
type Config struct {
	PreserveStructure bool
	Truthiness        Truthiness
	TruthyFunc        TruthyFunc
	NaNHandling       NaNHandling
	DivisionByZero    DivisionByZeroPolicy
	NumericCoercion   NumericCoercionConfig
}

// defaultConfig returns the engine's documented defaults.
func defaultConfig() Config {
	return Config{
		PreserveStructure: false,
		Truthiness:        TruthinessJavaScript,
		NaNHandling:       NaNThrow,
		DivisionByZero:    DivisionReturnBounds,
		NumericCoercion:   DefaultNumericCoercion(),
	}
}

// Option configures an Engine at construction time, following the
// functional-options idiom.
type Option func(*Engine)

// WithPreserveStructure enables preserve-structure mode: multi-key
// objects compile to StructuredObject rather than a compile error, and
// unknown single-key objects become a one-field StructuredObject unless
// the key names a registered custom operator.
func WithPreserveStructure(enabled bool) Option {
	return func(e *Engine) { e.cfg.PreserveStructure = enabled }
}

// WithTruthiness selects the truthiness rule used by and/or/if/!!.
func WithTruthiness(t Truthiness) Option {
	return func(e *Engine) { e.cfg.Truthiness = t }
}

// WithCustomTruthy installs a user predicate and selects
// TruthinessCustom.
func WithCustomTruthy(fn TruthyFunc) Option {
	return func(e *Engine) {
		e.cfg.Truthiness = TruthinessCustom
		e.cfg.TruthyFunc = fn
	}
}

// WithNaNHandling selects the numeric-coercion-failure policy.
func WithNaNHandling(h NaNHandling) Option {
	return func(e *Engine) { e.cfg.NaNHandling = h }
}

// WithDivisionByZero selects the zero-divisor policy for / and %.
func WithDivisionByZero(p DivisionByZeroPolicy) Option {
	return func(e *Engine) { e.cfg.DivisionByZero = p }
}

// WithNumericCoercion replaces the whole numeric coercion config.
func WithNumericCoercion(c NumericCoercionConfig) Option {
	return func(e *Engine) { e.cfg.NumericCoercion = c }
}

// WithEmptyStringToZero toggles NumericCoercionConfig.EmptyStringToZero.
func WithEmptyStringToZero(enabled bool) Option {
	return func(e *Engine) { e.cfg.NumericCoercion.EmptyStringToZero = enabled }
}

// WithNullToZero toggles NumericCoercionConfig.NullToZero.
func WithNullToZero(enabled bool) Option {
	return func(e *Engine) { e.cfg.NumericCoercion.NullToZero = enabled }
}

// WithBoolToNumber toggles NumericCoercionConfig.BoolToNumber.
func WithBoolToNumber(enabled bool) Option {
	return func(e *Engine) { e.cfg.NumericCoercion.BoolToNumber = enabled }
}

// WithStrictNumeric toggles NumericCoercionConfig.StrictNumeric.
func WithStrictNumeric(enabled bool) Option {
	return func(e *Engine) { e.cfg.NumericCoercion.StrictNumeric = enabled }
}

// WithUndefinedToZero toggles NumericCoercionConfig.UndefinedToZero.
func WithUndefinedToZero(enabled bool) Option {
	return func(e *Engine) { e.cfg.NumericCoercion.UndefinedToZero = enabled }
}

// EvalFunc is the callback a [CustomOperator] uses to evaluate one of its
// argument nodes under the caller's context, choosing lazy or eager
// evaluation.
type EvalFunc func(node *CompiledNode, ctx *ContextStack) (any, error)

// CustomOperator is a user-registered operator. It receives its raw
// (compiled) argument nodes, the live context stack, and an evaluator
// callback.
type CustomOperator func(args []*CompiledNode, ctx *ContextStack, eval EvalFunc) (any, error)

// Engine compiles and evaluates rules. A zero-value Engine is not usable;
// construct one with [NewEngine]. Once a rule is compiled, the
// CompiledNode is immutable and may be evaluated concurrently across
// goroutines, provided each call uses its own ContextStack.
type Engine struct {
	cfg    Config
	custom map[string]CustomOperator
}

// NewEngine constructs an Engine with the documented defaults, applying
// opts in order.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		cfg:    defaultConfig(),
		custom: make(map[string]CustomOperator),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Register adds a custom operator under name. It fails with
// [ErrOperatorCollision] if name matches a built-in opcode.
func (e *Engine) Register(name string, op CustomOperator) error {
	if _, ok := lookupOpcode(name); ok {
		return ErrOperatorCollision
	}

	e.custom[name] = op

	return nil
}

// Compile lowers raw (a generic JSON value: nil, bool, int64/float64,
// string, []any, or map[string]any) into a CompiledNode, folding static
// subtrees where possible.
func (e *Engine) Compile(raw any) (*CompiledNode, error) {
	c := &compilerState{engine: e}

	return c.compileNode(raw)
}

// Evaluate runs a compiled rule against data and returns the resulting
// JSON-shaped value, or an error. It is safe to call concurrently with
// other Evaluate/EvaluateWithTrace calls against the same compiled node.
func (e *Engine) Evaluate(node *CompiledNode, data any) (any, error) {
	ctx := NewContextStack(data)

	return e.eval(node, ctx, nil)
}

// EvaluateWithTrace runs node against data exactly like Evaluate, plus
// recording a step-per-node replay stream.
func (e *Engine) EvaluateWithTrace(node *CompiledNode, data any) (TraceResult, error) {
	tree := BuildExpressionTree(node)
	tc := newTraceCollector(tree)
	ctx := NewContextStack(data)

	result, err := e.eval(node, ctx, tc)

	return TraceResult{
		Result: result,
		Err:    err,
		Tree:   tree,
		Steps:  tc.steps,
	}, err
}
