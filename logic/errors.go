package logic

import (
	"errors"
	"fmt"
)

// Sentinel errors for the engine's error taxonomy. Use [errors.Is] to test
// for a kind; use [errors.As] to recover a [*ThrownError] payload.
var (
	// ErrUnknownOperator indicates a CustomOp name with no registry entry
	// at evaluate time.
	ErrUnknownOperator = errors.New("unknown operator")
	// ErrInvalidArguments indicates an arity or shape mismatch for a
	// built-in operator, including the compile-time sentinel marker.
	ErrInvalidArguments = errors.New("invalid arguments")
	// ErrNumericCoercion indicates a value required to be numeric could
	// not be coerced, under a policy that treats this as fatal.
	ErrNumericCoercion = errors.New("numeric coercion failed")
	// ErrDivisionByZero indicates / or % with a zero divisor, under a
	// policy that treats this as fatal.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrType indicates incomparable types under loose equality. No
	// engine option enables this check: looseEquals reports such values
	// as unequal, and no operator returns ErrType.
	ErrType = errors.New("type error")
	// ErrOperatorCollision indicates an attempt to register a custom
	// operator whose name collides with a built-in opcode.
	ErrOperatorCollision = errors.New("operator name collides with a builtin")
	// ErrInvalidOption indicates an invalid engine configuration value.
	ErrInvalidOption = errors.New("invalid option")
	// ErrCompile indicates a structural compile error (e.g. a multi-key
	// object outside preserve-structure mode).
	ErrCompile = errors.New("compile error")
)

// ThrownError is raised by the throw operator. It carries the user's
// payload object (already normalized: strings become {"type": s}, objects
// pass through, anything else is stringified into "type").
type ThrownError struct {
	Payload any
}

func (e *ThrownError) Error() string {
	if m, ok := e.Payload.(map[string]any); ok {
		if t, ok := m["type"].(string); ok {
			return fmt.Sprintf("thrown: %s", t)
		}
	}

	return fmt.Sprintf("thrown: %v", e.Payload)
}

// NewThrown builds a ThrownError from a throw argument, applying the
// control-flow normalization rule for throw.
func NewThrown(v any) *ThrownError {
	switch t := v.(type) {
	case map[string]any:
		return &ThrownError{Payload: t}
	case string:
		return &ThrownError{Payload: map[string]any{"type": t}}
	default:
		return &ThrownError{Payload: map[string]any{"type": fmt.Sprintf("%v", t)}}
	}
}

// asPayload normalizes any error into the value exposed to a try fallback
// frame: a ThrownError exposes its Payload; everything else is stringified
// into {"type": err.Error()}.
func asPayload(err error) any {
	var thrown *ThrownError
	if errors.As(err, &thrown) {
		return thrown.Payload
	}

	return map[string]any{"type": err.Error()}
}
