package jmap

import (
	"fmt"

	"github.com/beeper/jmap-go/pkg/jmap/wire"
)

// Resource binds a record type name to the capabilities governing its
// methods. Method names and capability URNs are spelled out explicitly
// per resource; nothing is derived from Go type names.
type Resource struct {
	Type  string
	Using []string
}

func (r Resource) method(op string) string {
	return r.Type + "/" + op
}

// GetArgs shape a */get call. Nil IDs means all records; nil Properties
// means all properties. Absent arguments are omitted from the wire so
// the server applies its own defaults, unlike record encoding, which
// writes explicit nulls.
type GetArgs struct {
	AccountID  wire.ID
	IDs        []wire.ID
	Properties []string
}

// Get builds a */get invocation.
func (r Resource) Get(callID string, args GetArgs) Invocation {
	m := map[string]any{"accountId": string(args.AccountID)}
	if args.IDs != nil {
		m["ids"] = idStrings(args.IDs)
	}
	if args.Properties != nil {
		m["properties"] = args.Properties
	}
	return Invocation{Name: r.method("get"), Args: m, CallID: callID}
}

// SortComparator orders query results by one property.
type SortComparator struct {
	Property    string
	IsAscending bool
	Collation   string
}

// SortAsc sorts by property in ascending order.
func SortAsc(property string) SortComparator {
	return SortComparator{Property: property, IsAscending: true}
}

// SortDesc sorts by property in descending order.
func SortDesc(property string) SortComparator {
	return SortComparator{Property: property}
}

func (s SortComparator) wireMap() map[string]any {
	m := map[string]any{
		"property":    s.Property,
		"isAscending": s.IsAscending,
	}
	if s.Collation != "" {
		m["collation"] = s.Collation
	}
	return m
}

// QueryArgs shape a */query call. Zero values are treated as absent and
// omitted, except CalculateTotal, which is only sent when true.
type QueryArgs struct {
	AccountID      wire.ID
	Filter         Filter
	Sort           []SortComparator
	Position       wire.Int
	Anchor         wire.ID
	AnchorOffset   wire.Int
	Limit          *wire.UnsignedInt
	CalculateTotal bool
}

// Query builds a */query invocation.
func (r Resource) Query(callID string, args QueryArgs) (Invocation, error) {
	m := map[string]any{"accountId": string(args.AccountID)}
	if args.Filter != nil {
		fm, err := args.Filter.FilterMap()
		if err != nil {
			return Invocation{}, fmt.Errorf("jmap: invalid filter: %w", err)
		}
		m["filter"] = fm
	}
	if args.Sort != nil {
		sorts := make([]any, len(args.Sort))
		for i, s := range args.Sort {
			sorts[i] = s.wireMap()
		}
		m["sort"] = sorts
	}
	if args.Position != 0 {
		m["position"] = int64(args.Position)
	}
	if args.Anchor != "" {
		m["anchor"] = string(args.Anchor)
		if args.AnchorOffset != 0 {
			m["anchorOffset"] = int64(args.AnchorOffset)
		}
	}
	if args.Limit != nil {
		m["limit"] = int64(*args.Limit)
	}
	if args.CalculateTotal {
		m["calculateTotal"] = true
	}
	return Invocation{Name: r.method("query"), Args: m, CallID: callID}, nil
}

// SetArgs shape a */set call. Create and Update values are wire-ready
// record objects; creation ids in Create come from NewCreationID.
type SetArgs struct {
	AccountID wire.ID
	IfInState string
	Create    map[wire.ID]map[string]any
	Update    map[wire.ID]map[string]any
	Destroy   []wire.ID
}

// Set builds a */set invocation.
func (r Resource) Set(callID string, args SetArgs) Invocation {
	m := map[string]any{"accountId": string(args.AccountID)}
	if args.IfInState != "" {
		m["ifInState"] = args.IfInState
	}
	if args.Create != nil {
		m["create"] = idKeyedObjects(args.Create)
	}
	if args.Update != nil {
		m["update"] = idKeyedObjects(args.Update)
	}
	if args.Destroy != nil {
		m["destroy"] = idStrings(args.Destroy)
	}
	return Invocation{Name: r.method("set"), Args: m, CallID: callID}
}

// ChangesArgs shape a */changes call.
type ChangesArgs struct {
	AccountID  wire.ID
	SinceState string
	MaxChanges wire.UnsignedInt
}

// Changes builds a */changes invocation.
func (r Resource) Changes(callID string, args ChangesArgs) Invocation {
	m := map[string]any{
		"accountId":  string(args.AccountID),
		"sinceState": args.SinceState,
	}
	if args.MaxChanges > 0 {
		m["maxChanges"] = int64(args.MaxChanges)
	}
	return Invocation{Name: r.method("changes"), Args: m, CallID: callID}
}

func idStrings(ids []wire.ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func idKeyedObjects(m map[wire.ID]map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for id, obj := range m {
		out[string(id)] = obj
	}
	return out
}
