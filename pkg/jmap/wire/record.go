package wire

// Record is implemented by schema-defined aggregates. The returned table
// tells the codec how to project fields to and from wire objects.
type Record interface {
	RecordType() *RecordType
}

// Field describes one record member: the in-memory snake_case name, the
// derived camelCase wire key, the value shape, and accessor closures.
type Field struct {
	Name string
	Key  string
	Type *Type

	get func(Record) any
	set func(Record, any)
}

// F builds the Field for one member of record type R. The set closure
// receives canonical decoded values: scalars as their validated types,
// nested records as their concrete pointers, containers as []any or
// map[string]any. The get closure returns the same shapes for encoding.
func F[R Record](name string, t *Type, get func(R) any, set func(R, any)) Field {
	return Field{
		Name: name,
		Key:  WireKey(name),
		Type: t,
		get:  func(r Record) any { return get(r.(R)) },
		set:  func(r Record, v any) { set(r.(R), v) },
	}
}

// RecordType is the registration-time field table for one record shape.
type RecordType struct {
	Name     string
	Fields   []Field
	TypeArgs []*Type // bound generic parameters, nil for plain records

	// Sparse switches encoding from null-preserving to omission: absent
	// optional fields leave no wire key at all. Filter conditions encode
	// this way so an empty condition is {}.
	Sparse bool

	newFn func() Record
	typ   *Type
}

// NewRecordType registers a field table. Wire keys are derived once here.
func NewRecordType(name string, newFn func() Record, fields ...Field) *RecordType {
	rt := &RecordType{Name: name, Fields: fields, newFn: newFn}
	rt.typ = &Type{Kind: KindRecord, Record: rt}
	return rt
}

// NewSparseRecordType registers a filter-condition table whose absent
// fields are omitted on encode instead of written as null.
func NewSparseRecordType(name string, newFn func() Record, fields ...Field) *RecordType {
	rt := NewRecordType(name, newFn, fields...)
	rt.Sparse = true
	return rt
}

// NewGenericRecordType registers one instantiation of a generic record,
// binding TypeParam descriptors in the field list to args.
func NewGenericRecordType(name string, args []*Type, newFn func() Record, fields ...Field) *RecordType {
	rt := NewRecordType(name, newFn, fields...)
	rt.TypeArgs = args
	return rt
}

// Type returns the descriptor for values of this record shape.
func (rt *RecordType) Type() *Type {
	return rt.typ
}

// New allocates a zero value of the record.
func (rt *RecordType) New() Record {
	return rt.newFn()
}

// FieldByKey looks a field up by its wire key.
func (rt *RecordType) FieldByKey(key string) (*Field, bool) {
	for i := range rt.Fields {
		if rt.Fields[i].Key == key {
			return &rt.Fields[i], true
		}
	}
	return nil, false
}
