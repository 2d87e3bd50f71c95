package wire

// Conversion helpers between canonical codec values and the typed fields
// of record structs. The As side is used in set closures, the From side in
// get closures. All of them treat nil as absent and preserve it.

// As returns v as T, or T's zero value when v is nil.
func As[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}

// AsPtr boxes an optional scalar: nil stays nil, anything else becomes *T.
func AsPtr[T any](v any) *T {
	if v == nil {
		return nil
	}
	t := v.(T)
	return &t
}

// AsSlice converts a canonical []any into []T. Null elements become T's
// zero value.
func AsSlice[T any](v any) []T {
	if v == nil {
		return nil
	}
	xs := v.([]any)
	out := make([]T, len(xs))
	for i, x := range xs {
		if x == nil {
			continue
		}
		out[i] = x.(T)
	}
	return out
}

// AsSet converts a canonical []any into a set of T, dropping duplicates.
func AsSet[T comparable](v any) map[T]struct{} {
	if v == nil {
		return nil
	}
	xs := v.([]any)
	out := make(map[T]struct{}, len(xs))
	for _, x := range xs {
		out[x.(T)] = struct{}{}
	}
	return out
}

// AsMap converts a canonical map[string]any into a map with string-like
// keys and typed values. Null values become V's zero value.
func AsMap[K ~string, V any](v any) map[K]V {
	if v == nil {
		return nil
	}
	m := v.(map[string]any)
	out := make(map[K]V, len(m))
	for k, x := range m {
		if x == nil {
			var zero V
			out[K(k)] = zero
			continue
		}
		out[K(k)] = x.(V)
	}
	return out
}

// FromPtr unboxes an optional scalar: nil pointer encodes as absent.
func FromPtr[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// FromRecordPtr projects an optional nested record. A typed nil pointer
// must become an untyped nil here, or the codec would try to walk it.
func FromRecordPtr[T any](p *T) any {
	if p == nil {
		return nil
	}
	return p
}

// FromSlice projects a typed slice into canonical []any.
func FromSlice[T any](xs []T) any {
	if xs == nil {
		return nil
	}
	out := make([]any, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}

// FromSet projects a set into canonical []any. Iteration order is not
// specified, matching the unordered wire semantics.
func FromSet[T comparable](s map[T]struct{}) any {
	if s == nil {
		return nil
	}
	out := make([]any, 0, len(s))
	for x := range s {
		out = append(out, x)
	}
	return out
}

// FromMap projects a typed map into canonical map[string]any.
func FromMap[K ~string, V any](m map[K]V) any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, x := range m {
		out[string(k)] = x
	}
	return out
}
