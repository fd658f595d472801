package logic

import (
	"bytes"
	"encoding/json"
)

// ParseJSON decodes raw JSON into the engine's generic value shape,
// preserving the integer/float distinction from the wire format (plain
// [encoding/json.Unmarshal] into `any` always produces float64, which
// would defeat the integer-preservation rule). A JSON number with no
// fractional part or exponent decodes to int64; anything else decodes to
// float64.
func ParseJSON(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	return normalizeJSON(v), nil
}

func normalizeJSON(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeJSON(val)
		}

		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeJSON(val)
		}

		return out
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}

		f, _ := t.Float64()

		return f
	default:
		return v
	}
}
