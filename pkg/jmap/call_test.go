package jmap

import (
	"reflect"
	"testing"

	"go.mau.fi/util/ptr"

	"github.com/beeper/jmap-go/pkg/jmap/wire"
)

var testResource = Resource{Type: "Mailbox", Using: []string{CapabilityCore, CapabilityMail}}

func TestResourceGetOmitsAbsentArgs(t *testing.T) {
	inv := testResource.Get("c0", GetArgs{AccountID: "a1"})
	if inv.Name != "Mailbox/get" || inv.CallID != "c0" {
		t.Fatalf("invocation = %+v", inv)
	}
	want := map[string]any{"accountId": "a1"}
	if !reflect.DeepEqual(inv.Args, want) {
		t.Fatalf("args = %v, want %v", inv.Args, want)
	}

	inv = testResource.Get("c1", GetArgs{
		AccountID:  "a1",
		IDs:        []wire.ID{"m1", "m2"},
		Properties: []string{"name", "role"},
	})
	if !reflect.DeepEqual(inv.Args["ids"], []string{"m1", "m2"}) {
		t.Fatalf("ids = %v", inv.Args["ids"])
	}
	if !reflect.DeepEqual(inv.Args["properties"], []string{"name", "role"}) {
		t.Fatalf("properties = %v", inv.Args["properties"])
	}
}

func TestResourceGetEmptyIDsStaysExplicit(t *testing.T) {
	inv := testResource.Get("c0", GetArgs{AccountID: "a1", IDs: []wire.ID{}})
	ids, present := inv.Args["ids"]
	if !present {
		t.Fatal("empty ids slice was dropped")
	}
	if got := ids.([]string); len(got) != 0 {
		t.Fatalf("ids = %v", got)
	}
}

func TestResourceQueryArgs(t *testing.T) {
	inv, err := testResource.Query("c0", QueryArgs{
		AccountID:      "a1",
		Sort:           []SortComparator{SortDesc("sortOrder"), SortAsc("name")},
		Limit:          ptr.Ptr(wire.UnsignedInt(10)),
		CalculateTotal: true,
	})
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if inv.Name != "Mailbox/query" {
		t.Fatalf("name = %q", inv.Name)
	}
	if inv.Args["limit"] != int64(10) || inv.Args["calculateTotal"] != true {
		t.Fatalf("args = %v", inv.Args)
	}
	if _, present := inv.Args["position"]; present {
		t.Fatal("zero position was sent")
	}
	if _, present := inv.Args["anchor"]; present {
		t.Fatal("empty anchor was sent")
	}
	sorts := inv.Args["sort"].([]any)
	first := sorts[0].(map[string]any)
	if first["property"] != "sortOrder" || first["isAscending"] != false {
		t.Fatalf("sort[0] = %v", first)
	}
}

func TestResourceSetArgs(t *testing.T) {
	inv := testResource.Set("c0", SetArgs{
		AccountID: "a1",
		IfInState: "s3",
		Create: map[wire.ID]map[string]any{
			"new1": {"name": "Drafts"},
		},
		Destroy: []wire.ID{"m9"},
	})
	if inv.Name != "Mailbox/set" {
		t.Fatalf("name = %q", inv.Name)
	}
	if inv.Args["ifInState"] != "s3" {
		t.Fatalf("ifInState = %v", inv.Args["ifInState"])
	}
	create := inv.Args["create"].(map[string]any)
	if create["new1"].(map[string]any)["name"] != "Drafts" {
		t.Fatalf("create = %v", create)
	}
	if _, present := inv.Args["update"]; present {
		t.Fatal("nil update was sent")
	}
	if !reflect.DeepEqual(inv.Args["destroy"], []string{"m9"}) {
		t.Fatalf("destroy = %v", inv.Args["destroy"])
	}
}

func TestResourceChangesArgs(t *testing.T) {
	inv := testResource.Changes("c0", ChangesArgs{AccountID: "a1", SinceState: "s1"})
	want := map[string]any{"accountId": "a1", "sinceState": "s1"}
	if !reflect.DeepEqual(inv.Args, want) {
		t.Fatalf("args = %v, want %v", inv.Args, want)
	}

	inv = testResource.Changes("c1", ChangesArgs{AccountID: "a1", SinceState: "s1", MaxChanges: 50})
	if inv.Args["maxChanges"] != int64(50) {
		t.Fatalf("maxChanges = %v", inv.Args["maxChanges"])
	}
}

func TestNewCreationID(t *testing.T) {
	seen := map[wire.ID]bool{}
	for range 64 {
		id := NewCreationID()
		if _, err := wire.ParseID(string(id)); err != nil {
			t.Fatalf("NewCreationID produced invalid id %q: %v", id, err)
		}
		if seen[id] {
			t.Fatalf("duplicate creation id %q", id)
		}
		seen[id] = true
	}
}
