package wire

import (
	"encoding/json"
	"fmt"
	"math"
)

// Decode converts a JSON value tree, as produced by encoding/json into
// any, to the canonical value for t. Scalars come back as their validated
// wire types, records as the concrete pointers their tables allocate, and
// containers as []any or map[string]any with canonical elements.
func Decode(v any, t *Type) (any, error) {
	return decodeValue(v, t, nil)
}

// DecodeRecord decodes a wire object into a record of rt's shape.
func DecodeRecord(v any, rt *RecordType) (Record, error) {
	out, err := decodeValue(v, rt.Type(), nil)
	if err != nil {
		return nil, err
	}
	return out.(Record), nil
}

func resolveType(t *Type, args []*Type) (*Type, error) {
	if t == nil {
		return nil, &UnsupportedTypeError{Reason: "nil type descriptor"}
	}
	if t.Kind != KindParam {
		return t, nil
	}
	if t.Param < 0 || t.Param >= len(args) {
		return nil, &UnsupportedTypeError{Reason: fmt.Sprintf("unbound type parameter %d", t.Param)}
	}
	bound := args[t.Param]
	if t.Optional && !bound.Optional {
		bound = Optional(bound)
	}
	return bound, nil
}

func decodeValue(v any, t *Type, args []*Type) (any, error) {
	t, err := resolveType(t, args)
	if err != nil {
		return nil, err
	}
	if t.Kind == KindUnion {
		if len(t.Alts) == 1 {
			alt := t.Alts[0]
			if t.Optional && !alt.Optional {
				alt = Optional(alt)
			}
			return decodeValue(v, alt, args)
		}
		return nil, &UnsupportedTypeError{Reason: "union of multiple alternatives"}
	}
	if v == nil {
		if t.Optional || t.Kind == KindAny {
			return nil, nil
		}
		return nil, &DecodeError{Expected: t.describe(), Value: nil}
	}

	switch t.Kind {
	case KindAny:
		return v, nil
	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, &DecodeError{Expected: "Boolean", Value: v}
		}
		return b, nil
	case KindString:
		s, ok := v.(string)
		if !ok {
			return nil, &DecodeError{Expected: "String", Value: v}
		}
		return s, nil
	case KindInt:
		n, err := decodeInt64(v)
		if err != nil {
			return nil, err
		}
		i, err := ParseInt(n)
		if err != nil {
			return nil, err
		}
		return i, nil
	case KindUnsignedInt:
		n, err := decodeInt64(v)
		if err != nil {
			return nil, err
		}
		u, err := ParseUnsignedInt(n)
		if err != nil {
			return nil, err
		}
		return u, nil
	case KindFloat:
		switch n := v.(type) {
		case json.Number:
			f, err := n.Float64()
			if err != nil {
				return nil, &DecodeError{Expected: "number", Value: v}
			}
			return f, nil
		case float64:
			return n, nil
		default:
			return nil, &DecodeError{Expected: "number", Value: v}
		}
	case KindID:
		s, ok := v.(string)
		if !ok {
			return nil, &DecodeError{Expected: "Id", Value: v}
		}
		id, err := ParseID(s)
		if err != nil {
			return nil, err
		}
		return id, nil
	case KindDate:
		s, ok := v.(string)
		if !ok {
			return nil, &DecodeError{Expected: "Date", Value: v}
		}
		d, err := ParseDate(s)
		if err != nil {
			return nil, err
		}
		return d, nil
	case KindUTCDate:
		s, ok := v.(string)
		if !ok {
			return nil, &DecodeError{Expected: "UTCDate", Value: v}
		}
		d, err := ParseUTCDate(s)
		if err != nil {
			return nil, err
		}
		return d, nil
	case KindRecord:
		return decodeRecord(v, t.Record)
	case KindList, KindSet:
		xs, ok := v.([]any)
		if !ok {
			return nil, &DecodeError{Expected: t.describe(), Value: v}
		}
		out := make([]any, len(xs))
		for i, x := range xs {
			cv, err := decodeValue(x, t.Elem, args)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = cv
		}
		return out, nil
	case KindTuple:
		xs, ok := v.([]any)
		if !ok {
			return nil, &DecodeError{Expected: "tuple", Value: v}
		}
		if len(xs) != len(t.Items) {
			return nil, &DecodeError{Expected: fmt.Sprintf("tuple of %d items", len(t.Items)), Value: v}
		}
		out := make([]any, len(xs))
		for i, x := range xs {
			cv, err := decodeValue(x, t.Items[i], args)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = cv
		}
		return out, nil
	case KindMap:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, &DecodeError{Expected: t.describe(), Value: v}
		}
		if err := checkMapKeyType(t.Key); err != nil {
			return nil, err
		}
		out := make(map[string]any, len(m))
		for k, x := range m {
			if err := validateMapKey(k, t.Key); err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			cv, err := decodeValue(x, t.Value, args)
			if err != nil {
				return nil, fmt.Errorf("%q: %w", k, err)
			}
			out[k] = cv
		}
		return out, nil
	default:
		return nil, &UnsupportedTypeError{Reason: t.Kind.String()}
	}
}

func decodeRecord(v any, rt *RecordType) (Record, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &DecodeError{Expected: rt.Name + " object", Value: v}
	}
	rec := rt.newFn()
	for i := range rt.Fields {
		f := &rt.Fields[i]
		wv, present := m[f.Key]
		if !present {
			if f.Type.Optional {
				continue
			}
			return nil, &DecodeError{Expected: "required field " + rt.Name + "." + f.Key, Value: nil}
		}
		cv, err := decodeValue(wv, f.Type, rt.TypeArgs)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", rt.Name, f.Key, err)
		}
		f.set(rec, cv)
	}
	return rec, nil
}

func decodeInt64(v any) (int64, error) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, &DecodeError{Expected: "integer", Value: v}
		}
		return i, nil
	case float64:
		if n != math.Trunc(n) {
			return 0, &DecodeError{Expected: "integer", Value: v}
		}
		if n < -(1<<62) || n > 1<<62 {
			return 0, &ValidationError{Type: "Int", Value: v, Reason: "outside [-(2^53-1), 2^53-1]"}
		}
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	default:
		return 0, &DecodeError{Expected: "number", Value: v}
	}
}

// checkMapKeyType enforces the primitive-key restriction on maps. Keys
// ride in JSON object position, so only kinds with a defined text
// projection qualify.
func checkMapKeyType(kt *Type) error {
	if kt == nil {
		return &UnsupportedTypeError{Reason: "map with nil key type"}
	}
	switch kt.Kind {
	case KindString, KindID, KindInt, KindUnsignedInt, KindDate, KindUTCDate:
		return nil
	default:
		return &UnsupportedTypeError{Reason: "map key must be a primitive type, not " + kt.Kind.String()}
	}
}

func validateMapKey(k string, kt *Type) error {
	switch kt.Kind {
	case KindString:
		return nil
	case KindID:
		_, err := ParseID(k)
		return err
	case KindInt:
		_, err := ParseIntString(k)
		return err
	case KindUnsignedInt:
		_, err := ParseUnsignedIntString(k)
		return err
	case KindDate:
		_, err := ParseDate(k)
		return err
	case KindUTCDate:
		_, err := ParseUTCDate(k)
		return err
	default:
		return &UnsupportedTypeError{Reason: "map key must be a primitive type, not " + kt.Kind.String()}
	}
}
