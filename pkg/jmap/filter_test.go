package jmap

import (
	"reflect"
	"testing"

	"go.mau.fi/util/ptr"

	"github.com/beeper/jmap-go/pkg/jmap/wire"
)

type testMatch struct {
	Text     *string
	MinLines *wire.UnsignedInt
}

var testMatchType = wire.NewSparseRecordType("TestMatch",
	func() wire.Record { return &testMatch{} },
	wire.F("text", wire.Optional(wire.TString),
		func(r *testMatch) any { return wire.FromPtr(r.Text) },
		func(r *testMatch, v any) { r.Text = wire.AsPtr[string](v) }),
	wire.F("min_lines", wire.Optional(wire.TUnsignedInt),
		func(r *testMatch) any { return wire.FromPtr(r.MinLines) },
		func(r *testMatch, v any) { r.MinLines = wire.AsPtr[wire.UnsignedInt](v) }),
)

func (r *testMatch) RecordType() *wire.RecordType { return testMatchType }

func TestFilterOperatorTree(t *testing.T) {
	f := And(
		Condition(&testMatch{Text: ptr.Ptr("invoice")}),
		Not(Condition(&testMatch{MinLines: ptr.Ptr(wire.UnsignedInt(3))})),
	)

	got, err := f.FilterMap()
	if err != nil {
		t.Fatalf("FilterMap error: %v", err)
	}
	want := map[string]any{
		"operator": "AND",
		"conditions": []any{
			map[string]any{"text": "invoice"},
			map[string]any{
				"operator":   "NOT",
				"conditions": []any{map[string]any{"minLines": int64(3)}},
			},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FilterMap = %v, want %v", got, want)
	}
}

func TestFilterConditionSparse(t *testing.T) {
	got, err := Condition(&testMatch{}).FilterMap()
	if err != nil {
		t.Fatalf("FilterMap error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("empty condition encoded as %v, want {}", got)
	}
}

func TestFilterOperatorUnknown(t *testing.T) {
	_, err := FilterOperator{Operator: "XOR"}.FilterMap()
	if err == nil {
		t.Fatal("unknown operator accepted")
	}
}

func TestQueryFilterWiring(t *testing.T) {
	inv, err := testResource.Query("c0", QueryArgs{
		AccountID: "a1",
		Filter:    Or(Condition(&testMatch{Text: ptr.Ptr("hello")})),
	})
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	filter := inv.Args["filter"].(map[string]any)
	if filter["operator"] != "OR" {
		t.Fatalf("filter = %v", filter)
	}
}

func TestQueryFilterError(t *testing.T) {
	_, err := testResource.Query("c0", QueryArgs{
		AccountID: "a1",
		Filter:    FilterOperator{Operator: "NAND"},
	})
	if err == nil {
		t.Fatal("invalid filter accepted")
	}
}
