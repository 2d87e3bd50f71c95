package wire

// Type is a codec type descriptor. Descriptors are assembled once when a
// record table is registered and never mutated afterwards, so they are
// safe to share between goroutines.
type Type struct {
	Kind     Kind
	Optional bool

	Elem   *Type   // List, Set element
	Key    *Type   // Map key, must be a primitive kind
	Value  *Type   // Map value
	Items  []*Type // Tuple members, fixed arity
	Alts   []*Type // Union alternatives
	Record *RecordType
	Param  int // index into the owning record's TypeArgs
}

// Primitive descriptors, shared by all field tables.
var (
	TBool        = &Type{Kind: KindBool}
	TString      = &Type{Kind: KindString}
	TInt         = &Type{Kind: KindInt}
	TUnsignedInt = &Type{Kind: KindUnsignedInt}
	TFloat       = &Type{Kind: KindFloat}
	TID          = &Type{Kind: KindID}
	TDate        = &Type{Kind: KindDate}
	TUTCDate     = &Type{Kind: KindUTCDate}
	TAny         = &Type{Kind: KindAny}
)

// Optional returns a copy of t that tolerates null and absent values.
func Optional(t *Type) *Type {
	c := *t
	c.Optional = true
	return &c
}

// ListOf describes an ordered sequence of elem.
func ListOf(elem *Type) *Type {
	return &Type{Kind: KindList, Elem: elem}
}

// SetOf describes an unordered collection of elem, carried on the wire as
// an array.
func SetOf(elem *Type) *Type {
	return &Type{Kind: KindSet, Elem: elem}
}

// MapOf describes a JSON object keyed by a primitive type.
func MapOf(key, value *Type) *Type {
	return &Type{Kind: KindMap, Key: key, Value: value}
}

// TupleOf describes a fixed-arity heterogeneous array.
func TupleOf(items ...*Type) *Type {
	return &Type{Kind: KindTuple, Items: items}
}

// TypeParam refers to the i-th type argument of the enclosing record.
func TypeParam(i int) *Type {
	return &Type{Kind: KindParam, Param: i}
}

// UnionOf describes a union of alternatives. The codec resolves a
// single-alternative union to that alternative and fails fast on anything
// wider, since picking a branch by shape would be guesswork.
func UnionOf(alts ...*Type) *Type {
	return &Type{Kind: KindUnion, Alts: alts}
}

func (t *Type) describe() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindRecord:
		if t.Record != nil {
			return t.Record.Name
		}
	case KindList, KindSet:
		return t.Kind.String() + "[" + t.Elem.describe() + "]"
	case KindMap:
		return "Map[" + t.Key.describe() + "]" + t.Value.describe()
	}
	return t.Kind.String()
}
