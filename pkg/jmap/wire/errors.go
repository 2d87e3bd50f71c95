package wire

import "fmt"

// ValidationError reports a value that violates a scalar invariant, such
// as an out-of-range integer or a malformed Id.
type ValidationError struct {
	Type   string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Type, e.Value, e.Reason)
}

// DecodeError reports data whose shape does not match the target
// descriptor.
type DecodeError struct {
	Expected string
	Value    any
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("expected %s, got %T (%v)", e.Expected, e.Value, e.Value)
}

// UnsupportedTypeError reports a descriptor the codec refuses to handle,
// such as a multi-alternative union or a non-primitive map key.
type UnsupportedTypeError struct {
	Reason string
}

func (e *UnsupportedTypeError) Error() string {
	return "unsupported type: " + e.Reason
}
