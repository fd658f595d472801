// Package yamlrule lets rules and data be authored in YAML instead of
// JSON, for human ergonomics. It decodes YAML into the same generic
// value shape [github.com/macropower/jsonlogic/logic] expects from
// encoding/json (map[string]any, []any, string, bool, int64, float64,
// nil), so rule and data files in either format can be passed to
// [*logic.Engine] interchangeably.
package yamlrule

import (
	"github.com/goccy/go-yaml"
)

// Parse decodes a YAML document into the engine's generic value shape.
func Parse(b []byte) (any, error) {
	var v any

	if err := yaml.Unmarshal(b, &v); err != nil {
		return nil, err
	}

	return normalize(v), nil
}

// normalize walks a decoded YAML value, converting integer kinds other
// than int64 (goccy/go-yaml may decode unsigned or small-width integers)
// into the int64/float64 pair the engine's coercion rules expect.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}

		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}

		return out
	case uint64:
		return int64(t)
	case uint:
		return int64(t)
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case uint32:
		return int64(t)
	case float32:
		return float64(t)
	default:
		return v
	}
}
