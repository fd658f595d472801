package logic_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/jsonlogic/logic"
)

func evalRule(t *testing.T, eng *logic.Engine, rule, data any) any {
	t.Helper()

	node := mustCompile(t, eng, rule)
	result, err := eng.Evaluate(node, data)
	require.NoError(t, err)

	return result
}

func TestStringOperators(t *testing.T) {
	eng := logic.NewEngine()
	data := map[string]any{}

	assert.Equal(t, "foobar", evalRule(t, eng, map[string]any{"cat": []any{"foo", "bar"}}, data))
	assert.Equal(t, "oob", evalRule(t, eng, map[string]any{"substr": []any{"foobar", int64(1), int64(3)}}, data))
	assert.Equal(t, "bar", evalRule(t, eng, map[string]any{"substr": []any{"foobar", int64(-3)}}, data))
	assert.Equal(t, true, evalRule(t, eng, map[string]any{"in": []any{"oo", "foobar"}}, data))
	assert.Equal(t, true, evalRule(t, eng, map[string]any{"in": []any{int64(2), []any{int64(1), int64(2), int64(3)}}}, data))
	assert.Equal(t, true, evalRule(t, eng, map[string]any{"starts_with": []any{"foobar", "foo"}}, data))
	assert.Equal(t, true, evalRule(t, eng, map[string]any{"ends_with": []any{"foobar", "bar"}}, data))
	assert.Equal(t, "FOO", evalRule(t, eng, map[string]any{"upper": "foo"}, data))
	assert.Equal(t, "foo", evalRule(t, eng, map[string]any{"lower": "FOO"}, data))
	assert.Equal(t, "foo", evalRule(t, eng, map[string]any{"trim": "  foo  "}, data))
	assert.Equal(t, []any{"a", "b", "c"}, evalRule(t, eng, map[string]any{"split": []any{"a,b,c", ","}}, data))
}

func TestArrayOperators(t *testing.T) {
	eng := logic.NewEngine()
	data := map[string]any{}

	assert.Equal(t, int64(3), evalRule(t, eng, map[string]any{"length": []any{[]any{int64(1), int64(2), int64(3)}}}, data))
	assert.Equal(t, int64(3), evalRule(t, eng, map[string]any{"length": "foo"}, data))

	sorted := evalRule(t, eng, map[string]any{"sort": []any{[]any{int64(3), int64(1), int64(2)}}}, data)
	assert.Equal(t, []any{int64(1), int64(2), int64(3)}, sorted)

	sliced := evalRule(t, eng, map[string]any{"slice": []any{[]any{int64(1), int64(2), int64(3), int64(4)}, int64(1), int64(2)}}, data)
	assert.Equal(t, []any{int64(2), int64(3)}, sliced)

	filtered := evalRule(t, eng, map[string]any{"filter": []any{
		[]any{int64(1), int64(2), int64(3), int64(4)},
		map[string]any{">": []any{map[string]any{"var": ""}, int64(2)}},
	}}, data)
	assert.Equal(t, []any{int64(3), int64(4)}, filtered)

	assert.Equal(t, true, evalRule(t, eng, map[string]any{"all": []any{
		[]any{int64(1), int64(2)},
		map[string]any{">": []any{map[string]any{"var": ""}, int64(0)}},
	}}, data))

	assert.Equal(t, false, evalRule(t, eng, map[string]any{"some": []any{
		[]any{int64(-1), int64(-2)},
		map[string]any{">": []any{map[string]any{"var": ""}, int64(0)}},
	}}, data))
}

func TestCompareOperators(t *testing.T) {
	eng := logic.NewEngine()
	data := map[string]any{}

	assert.Equal(t, true, evalRule(t, eng, map[string]any{"==": []any{int64(1), "1"}}, data))
	assert.Equal(t, false, evalRule(t, eng, map[string]any{"===": []any{int64(1), "1"}}, data))
	assert.Equal(t, true, evalRule(t, eng, map[string]any{"!=": []any{int64(1), int64(2)}}, data))
	assert.Equal(t, true, evalRule(t, eng, map[string]any{"!==": []any{int64(1), "1"}}, data))

	// Variadic chained comparison: 1 < 2 < 3 is true.
	assert.Equal(t, true, evalRule(t, eng, map[string]any{"<": []any{int64(1), int64(2), int64(3)}}, data))
	assert.Equal(t, false, evalRule(t, eng, map[string]any{"<": []any{int64(1), int64(3), int64(2)}}, data))
}

func TestArithmeticIntegerPreservingAndSaturating(t *testing.T) {
	eng := logic.NewEngine()
	data := map[string]any{}

	assert.Equal(t, int64(6), evalRule(t, eng, map[string]any{"*": []any{int64(2), int64(3)}}, data))
	assert.Equal(t, int64(1), evalRule(t, eng, map[string]any{"%": []any{int64(7), int64(3)}}, data))

	// Default division-by-zero policy saturates rather than erroring.
	result := evalRule(t, eng, map[string]any{"/": []any{int64(1), int64(0)}}, data)
	assert.Equal(t, math.MaxFloat64, result)
}

func TestDatetimeOperators(t *testing.T) {
	eng := logic.NewEngine()
	data := map[string]any{}

	dt := evalRule(t, eng, map[string]any{"datetime": "2024-01-15T00:00:00Z"}, data)
	assert.Equal(t, map[string]any{"datetime": "2024-01-15T00:00:00Z"}, dt)

	diff := evalRule(t, eng, map[string]any{"date_diff": []any{
		"2024-01-16T00:00:00Z", "2024-01-15T00:00:00Z", "days",
	}}, data)
	assert.Equal(t, int64(1), diff)
}

func TestVarAndMissing(t *testing.T) {
	eng := logic.NewEngine()
	data := map[string]any{"a": int64(1), "b": map[string]any{"c": int64(2)}}

	assert.Equal(t, int64(1), evalRule(t, eng, map[string]any{"var": "a"}, data))
	assert.Equal(t, int64(2), evalRule(t, eng, map[string]any{"var": "b.c"}, data))
	assert.Equal(t, "fallback", evalRule(t, eng, map[string]any{"var": []any{"missing", "fallback"}}, data))
	assert.Equal(t, []any{"z"}, evalRule(t, eng, map[string]any{"missing": []any{"z"}}, data))
	assert.Equal(t, false, evalRule(t, eng, map[string]any{"exists": []any{"z"}}, data))
	assert.Equal(t, true, evalRule(t, eng, map[string]any{"exists": []any{"a"}}, data))
}
