package wire

import "fmt"

// Encode projects a record into a JSON-ready object tree. Every declared
// field is written, with explicit nulls for absent optionals, unless the
// record's table is Sparse, in which case absent fields are omitted.
func Encode(r Record) (map[string]any, error) {
	if r == nil {
		return nil, &DecodeError{Expected: "record", Value: nil}
	}
	return encodeRecord(r, r.RecordType())
}

// EncodeValue projects any canonical value for t into its wire form.
func EncodeValue(v any, t *Type) (any, error) {
	return encodeValue(v, t, nil)
}

func encodeValue(v any, t *Type, args []*Type) (any, error) {
	t, err := resolveType(t, args)
	if err != nil {
		return nil, err
	}
	if t.Kind == KindUnion {
		if len(t.Alts) == 1 {
			return encodeValue(v, t.Alts[0], args)
		}
		return nil, &UnsupportedTypeError{Reason: "union of multiple alternatives"}
	}
	if v == nil {
		return nil, nil
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
		n, err := encodeInt64(v)
		if err != nil {
			return nil, err
		}
		i, err := ParseInt(n)
		if err != nil {
			return nil, err
		}
		return int64(i), nil
	case KindUnsignedInt:
		n, err := encodeInt64(v)
		if err != nil {
			return nil, err
		}
		u, err := ParseUnsignedInt(n)
		if err != nil {
			return nil, err
		}
		return int64(u), nil
	case KindFloat:
		f, ok := v.(float64)
		if !ok {
			return nil, &DecodeError{Expected: "Float", Value: v}
		}
		return f, nil
	case KindID:
		var s string
		switch x := v.(type) {
		case ID:
			s = string(x)
		case string:
			s = x
		default:
			return nil, &DecodeError{Expected: "Id", Value: v}
		}
		id, err := ParseID(s)
		if err != nil {
			return nil, err
		}
		return string(id), nil
	case KindDate:
		switch x := v.(type) {
		case Date:
			return x.String(), nil
		case UTCDate:
			return x.String(), nil
		default:
			return nil, &DecodeError{Expected: "Date", Value: v}
		}
	case KindUTCDate:
		d, ok := v.(UTCDate)
		if !ok {
			return nil, &DecodeError{Expected: "UTCDate", Value: v}
		}
		return d.String(), nil
	case KindRecord:
		rec, ok := v.(Record)
		if !ok {
			return nil, &DecodeError{Expected: t.describe(), Value: v}
		}
		return encodeRecord(rec, rec.RecordType())
	case KindList, KindSet:
		xs, ok := v.([]any)
		if !ok {
			return nil, &DecodeError{Expected: t.describe(), Value: v}
		}
		out := make([]any, len(xs))
		for i, x := range xs {
			cv, err := encodeValue(x, t.Elem, args)
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
			cv, err := encodeValue(x, t.Items[i], args)
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
			cv, err := encodeValue(x, t.Value, args)
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

func encodeRecord(rec Record, rt *RecordType) (map[string]any, error) {
	out := make(map[string]any, len(rt.Fields))
	for i := range rt.Fields {
		f := &rt.Fields[i]
		cv, err := encodeValue(f.get(rec), f.Type, rt.TypeArgs)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", rt.Name, f.Key, err)
		}
		if cv == nil && rt.Sparse {
			continue
		}
		out[f.Key] = cv
	}
	return out, nil
}

func encodeInt64(v any) (int64, error) {
	switch n := v.(type) {
	case Int:
		return int64(n), nil
	case UnsignedInt:
		return int64(n), nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	default:
		return 0, &DecodeError{Expected: "integer", Value: v}
	}
}
