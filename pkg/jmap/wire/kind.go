package wire

import "fmt"

// Kind identifies the wire shape a type descriptor drives the codec with.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindString
	KindInt
	KindUnsignedInt
	KindFloat
	KindID
	KindDate
	KindUTCDate
	KindAny
	KindRecord
	KindList
	KindSet
	KindMap
	KindTuple
	KindParam
	KindUnion
)

var kindNames = map[Kind]string{
	KindInvalid:     "Invalid",
	KindBool:        "Boolean",
	KindString:      "String",
	KindInt:         "Int",
	KindUnsignedInt: "UnsignedInt",
	KindFloat:       "Float",
	KindID:          "Id",
	KindDate:        "Date",
	KindUTCDate:     "UTCDate",
	KindAny:         "Any",
	KindRecord:      "Record",
	KindList:        "List",
	KindSet:         "Set",
	KindMap:         "Map",
	KindTuple:       "Tuple",
	KindParam:       "Param",
	KindUnion:       "Union",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsPrimitive reports whether values of this kind are JSON scalars.
func (k Kind) IsPrimitive() bool {
	switch k {
	case KindBool, KindString, KindInt, KindUnsignedInt, KindFloat, KindID, KindDate, KindUTCDate:
		return true
	default:
		return false
	}
}
