// Package logic implements an embeddable rule engine that interprets a
// JSON-encoded expression language (commonly called JSONLogic) over
// arbitrary JSON data and returns a JSON value. A rule is a JSON document
// whose operator-keyed objects denote computation; plain JSON values are
// literals.
//
// # Pipeline
//
// [Engine.Compile] lowers a raw JSON rule (nil, bool, int64/float64,
// string, []any, or map[string]any — the shape produced by
// encoding/json's generic Unmarshal, or by [github.com/macropower/jsonlogic/logic/yamlrule])
// into a [*CompiledNode]: a typed expression tree tagged with an
// [Opcode] for recognized operators, with static subtrees folded to
// literals at compile time. [Engine.Evaluate] walks the compiled tree
// against a [*ContextStack] built from the data payload and returns a
// JSON-shaped result, or an error.
//
// A compiled rule is immutable and safe to evaluate concurrently against
// independent data, provided each call uses its own ContextStack — which
// Evaluate and EvaluateWithTrace both arrange automatically.
//
// # Design Principles
//
//  1. Total evaluator: evaluate is defined on every CompiledNode variant
//     and never panics on legal input; malformed argument shapes are
//     deferred to evaluate time as an InvalidArguments error rather than
//     failing compilation.
//
//  2. Configurable coercion, not configurable semantics: truthiness,
//     numeric coercion, and failure policy are all [Option]s, but the
//     operator set and its contracts are fixed.
//
//  3. Extensible by registration, not by forking: [Engine.Register] adds
//     a [CustomOperator] under a name; [WithPreserveStructure] turns
//     unrecognized single-key objects into output-shape fields instead
//     of operator calls, for JSON templating use cases.
//
// # Basic Usage
//
//	eng := logic.NewEngine()
//	node, err := eng.Compile(rule)
//	result, err := eng.Evaluate(node, data)
//
// # With Options
//
//	eng := logic.NewEngine(
//	    logic.WithTruthiness(logic.TruthinessStrict),
//	    logic.WithDivisionByZero(logic.DivisionReturnNull),
//	)
//
// # Tracing
//
//	trace, err := eng.EvaluateWithTrace(node, data)
//	// trace.Tree holds stable per-node IDs; trace.Steps holds the
//	// step-per-node replay stream.
package logic
