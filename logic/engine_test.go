package logic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/jsonlogic/logic"
)

func mustCompile(t *testing.T, eng *logic.Engine, rule any) *logic.CompiledNode {
	t.Helper()

	node, err := eng.Compile(rule)
	require.NoError(t, err)

	return node
}

// TestScenarios covers six concrete end-to-end scenarios spanning
// comparison, conditional arithmetic, map, reduce, try/throw, and merge.
func TestScenarios(t *testing.T) {
	eng := logic.NewEngine()

	t.Run("S1 age gate", func(t *testing.T) {
		rule := map[string]any{">=": []any{map[string]any{"var": "age"}, int64(18)}}
		data := map[string]any{"age": int64(25)}

		node := mustCompile(t, eng, rule)
		result, err := eng.Evaluate(node, data)
		require.NoError(t, err)
		assert.Equal(t, true, result)
	})

	t.Run("S2 discount", func(t *testing.T) {
		rule := map[string]any{
			"if": []any{
				map[string]any{"and": []any{
					map[string]any{">": []any{map[string]any{"var": "c.t"}, int64(100)}},
					map[string]any{"==": []any{map[string]any{"var": "u.m"}, "premium"}},
				}},
				map[string]any{"*": []any{map[string]any{"var": "c.t"}, 0.75}},
				map[string]any{"var": "c.t"},
			},
		}
		data := map[string]any{
			"c": map[string]any{"t": int64(120)},
			"u": map[string]any{"m": "premium"},
		}

		node := mustCompile(t, eng, rule)
		result, err := eng.Evaluate(node, data)
		require.NoError(t, err)
		assert.InDelta(t, 90.0, result, 0.0001)
	})

	t.Run("S3 map doubling", func(t *testing.T) {
		rule := map[string]any{"map": []any{
			[]any{int64(1), int64(2), int64(3)},
			map[string]any{"*": []any{map[string]any{"var": ""}, int64(2)}},
		}}

		node := mustCompile(t, eng, rule)
		result, err := eng.Evaluate(node, map[string]any{})
		require.NoError(t, err)
		assert.Equal(t, []any{int64(2), int64(4), int64(6)}, result)
	})

	t.Run("S4 reduce sum", func(t *testing.T) {
		rule := map[string]any{"reduce": []any{
			[]any{int64(1), int64(2), int64(3), int64(4)},
			map[string]any{"+": []any{map[string]any{"var": "accumulator"}, map[string]any{"var": "current"}}},
			int64(0),
		}}

		node := mustCompile(t, eng, rule)
		result, err := eng.Evaluate(node, map[string]any{})
		require.NoError(t, err)
		assert.Equal(t, int64(10), result)
	})

	t.Run("S5 try catches throw", func(t *testing.T) {
		rule := map[string]any{"try": []any{
			map[string]any{"throw": "BOOM"},
			map[string]any{"cat": []any{"caught:", map[string]any{"var": "type"}}},
		}}

		node := mustCompile(t, eng, rule)
		result, err := eng.Evaluate(node, map[string]any{})
		require.NoError(t, err)
		assert.Equal(t, "caught:BOOM", result)
	})

	t.Run("S6 merge keeps preserved arrays intact", func(t *testing.T) {
		rule := map[string]any{"merge": []any{
			[]any{int64(1), int64(2)},
			map[string]any{"preserve": []any{int64(3), int64(4)}},
			int64(5),
		}}

		node := mustCompile(t, eng, rule)
		result, err := eng.Evaluate(node, map[string]any{})
		require.NoError(t, err)
		assert.Equal(t, []any{int64(1), int64(2), []any{int64(3), int64(4)}, int64(5)}, result)
	})
}

// TestBoundaryEmptyArrays covers all/some/none/map/filter/reduce against
// an empty source array.
func TestBoundaryEmptyArrays(t *testing.T) {
	eng := logic.NewEngine()
	data := map[string]any{}

	cases := []struct {
		name string
		rule any
		want any
	}{
		{"all empty", map[string]any{"all": []any{[]any{}, map[string]any{"var": ""}}}, false},
		{"some empty", map[string]any{"some": []any{[]any{}, map[string]any{"var": ""}}}, false},
		{"none empty", map[string]any{"none": []any{[]any{}, map[string]any{"var": ""}}}, true},
		{"map empty", map[string]any{"map": []any{[]any{}, map[string]any{"var": ""}}}, []any{}},
		{"filter empty", map[string]any{"filter": []any{[]any{}, map[string]any{"var": ""}}}, []any{}},
		{"reduce empty", map[string]any{"reduce": []any{[]any{}, map[string]any{"var": ""}, int64(7)}}, int64(7)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			node := mustCompile(t, eng, tc.rule)
			result, err := eng.Evaluate(node, data)
			require.NoError(t, err)
			assert.Equal(t, tc.want, result)
		})
	}
}

// TestMissingSome covers missing_some's minimum-required-count semantics.
func TestMissingSome(t *testing.T) {
	eng := logic.NewEngine()
	data := map[string]any{"a": int64(1), "b": int64(2)}

	rule := map[string]any{"missing_some": []any{int64(1), []any{"a", "z"}}}

	node := mustCompile(t, eng, rule)
	result, err := eng.Evaluate(node, data)
	require.NoError(t, err)
	assert.Equal(t, []any{}, result)
}

// TestIntegerPreservation covers the int64-vs-float64 type preservation
// invariant through arithmetic.
func TestIntegerPreservation(t *testing.T) {
	eng := logic.NewEngine()

	intRule := map[string]any{"+": []any{int64(1), int64(2)}}
	node := mustCompile(t, eng, intRule)
	result, err := eng.Evaluate(node, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result)

	floatRule := map[string]any{"+": []any{1.0, int64(2)}}
	node = mustCompile(t, eng, floatRule)
	result, err = eng.Evaluate(node, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, 3.0, result)
}

// TestPreserveRoundTrip covers preserve returning its argument unchanged
// across every JSON value shape.
func TestPreserveRoundTrip(t *testing.T) {
	eng := logic.NewEngine()

	inputs := []any{
		int64(1), "str", true, nil,
		[]any{int64(1), "x"},
		map[string]any{"k": int64(1)},
	}

	for _, in := range inputs {
		rule := map[string]any{"preserve": in}
		node := mustCompile(t, eng, rule)
		result, err := eng.Evaluate(node, map[string]any{})
		require.NoError(t, err)
		assert.Equal(t, in, result)
	}
}

// TestStaticFolding covers a pure sub-rule folding to a literal at
// compile time and evaluating identically regardless of data.
func TestStaticFolding(t *testing.T) {
	eng := logic.NewEngine()

	rule := map[string]any{"+": []any{int64(1), int64(2)}}
	node := mustCompile(t, eng, rule)

	require.Equal(t, logic.KindLiteral, node.Kind)

	result1, err := eng.Evaluate(node, map[string]any{"unrelated": true})
	require.NoError(t, err)

	result2, err := eng.Evaluate(node, nil)
	require.NoError(t, err)

	assert.Equal(t, result1, result2)
	assert.Equal(t, int64(3), result1)
}

// TestFrameBalance covers an error raised partway through an iteration
// not leaving stray frames behind, so a later, independent evaluation
// against the same engine behaves identically to one that never saw the
// error.
func TestFrameBalance(t *testing.T) {
	eng := logic.NewEngine()

	failing := mustCompile(t, eng, map[string]any{"map": []any{
		[]any{int64(1), int64(2)},
		map[string]any{"throw": "boom"},
	}})

	_, err := eng.Evaluate(failing, map[string]any{})
	require.Error(t, err)

	ok := mustCompile(t, eng, map[string]any{"var": ""})
	result, err := eng.Evaluate(ok, map[string]any{"a": int64(1)})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": int64(1)}, result)
}

// TestShortCircuit covers and's required short-circuit via a custom
// operator that records calls.
func TestShortCircuit(t *testing.T) {
	eng := logic.NewEngine()

	var calls int

	err := eng.Register("record", func(args []*logic.CompiledNode, ctx *logic.ContextStack, eval logic.EvalFunc) (any, error) {
		calls++

		return true, nil
	})
	require.NoError(t, err)

	rule := map[string]any{"and": []any{
		false,
		map[string]any{"record": []any{}},
	}}

	node := mustCompile(t, eng, rule)
	result, err := eng.Evaluate(node, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, false, result)
	assert.Equal(t, 0, calls)
}

func TestDivisionByZero(t *testing.T) {
	eng := logic.NewEngine(logic.WithDivisionByZero(logic.DivisionThrow))

	node := mustCompile(t, eng, map[string]any{"/": []any{int64(1), int64(0)}})
	_, err := eng.Evaluate(node, map[string]any{})
	require.ErrorIs(t, err, logic.ErrDivisionByZero)
}

func TestUnknownOperator(t *testing.T) {
	eng := logic.NewEngine()

	node := mustCompile(t, eng, map[string]any{"does_not_exist": []any{int64(1)}})
	_, err := eng.Evaluate(node, map[string]any{})
	require.ErrorIs(t, err, logic.ErrUnknownOperator)
}

func TestRegisterCollision(t *testing.T) {
	eng := logic.NewEngine()

	err := eng.Register("+", func(args []*logic.CompiledNode, ctx *logic.ContextStack, eval logic.EvalFunc) (any, error) {
		return nil, nil
	})
	require.ErrorIs(t, err, logic.ErrOperatorCollision)
}

func TestPreserveStructureMode(t *testing.T) {
	eng := logic.NewEngine(logic.WithPreserveStructure(true))

	rule := map[string]any{
		"name": map[string]any{"var": "user.name"},
		"age":  map[string]any{"var": "user.age"},
	}

	node := mustCompile(t, eng, rule)
	result, err := eng.Evaluate(node, map[string]any{
		"user": map[string]any{"name": "Ada", "age": int64(36)},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Ada", "age": int64(36)}, result)
}

func TestTrace(t *testing.T) {
	eng := logic.NewEngine()

	rule := map[string]any{"map": []any{
		[]any{int64(1), int64(2)},
		map[string]any{"*": []any{map[string]any{"var": ""}, int64(2)}},
	}}

	node := mustCompile(t, eng, rule)
	trace, err := eng.EvaluateWithTrace(node, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, []any{int64(2), int64(4)}, trace.Result)
	assert.NotEmpty(t, trace.Steps)
	assert.NotEmpty(t, trace.Tree.Nodes)
}
