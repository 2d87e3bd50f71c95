package jmap

import (
	"github.com/beeper/jmap-go/pkg/jmap/wire"
)

// GetResult is the */get response shape, generic over the record type
// being fetched. Tables are built once per instantiation with
// NewGetResultType; the instantiated table travels with the value so the
// codec never inspects Go types at runtime.
type GetResult[T wire.Record] struct {
	AccountID wire.ID
	State     string
	List      []T
	NotFound  []wire.ID

	rt *wire.RecordType
}

func (r *GetResult[T]) RecordType() *wire.RecordType { return r.rt }

// NewGetResultType builds the */get result table for one record type.
func NewGetResultType[T wire.Record](item *wire.RecordType) *wire.RecordType {
	var rt *wire.RecordType
	rt = wire.NewGenericRecordType(item.Name+"GetResult", []*wire.Type{item.Type()},
		func() wire.Record { return &GetResult[T]{rt: rt} },
		wire.F("account_id", wire.TID,
			func(r *GetResult[T]) any { return r.AccountID },
			func(r *GetResult[T], v any) { r.AccountID = wire.As[wire.ID](v) }),
		wire.F("state", wire.TString,
			func(r *GetResult[T]) any { return r.State },
			func(r *GetResult[T], v any) { r.State = wire.As[string](v) }),
		wire.F("list", wire.ListOf(wire.TypeParam(0)),
			func(r *GetResult[T]) any { return wire.FromSlice(r.List) },
			func(r *GetResult[T], v any) { r.List = wire.AsSlice[T](v) }),
		wire.F("not_found", wire.Optional(wire.ListOf(wire.TID)),
			func(r *GetResult[T]) any { return wire.FromSlice(r.NotFound) },
			func(r *GetResult[T], v any) { r.NotFound = wire.AsSlice[wire.ID](v) }),
	)
	return rt
}

// DecodeGetResult decodes */get response arguments with the instantiated
// table from NewGetResultType.
func DecodeGetResult[T wire.Record](args map[string]any, rt *wire.RecordType) (*GetResult[T], error) {
	rec, err := wire.DecodeRecord(args, rt)
	if err != nil {
		return nil, err
	}
	return rec.(*GetResult[T]), nil
}

// QueryResult is the */query response shape.
type QueryResult struct {
	AccountID           wire.ID
	QueryState          string
	CanCalculateChanges bool
	Position            wire.UnsignedInt
	IDs                 []wire.ID
	Total               *wire.UnsignedInt
	Limit               *wire.UnsignedInt
}

var queryResultType = wire.NewRecordType("QueryResult",
	func() wire.Record { return new(QueryResult) },
	wire.F("account_id", wire.TID,
		func(r *QueryResult) any { return r.AccountID },
		func(r *QueryResult, v any) { r.AccountID = wire.As[wire.ID](v) }),
	wire.F("query_state", wire.TString,
		func(r *QueryResult) any { return r.QueryState },
		func(r *QueryResult, v any) { r.QueryState = wire.As[string](v) }),
	wire.F("can_calculate_changes", wire.TBool,
		func(r *QueryResult) any { return r.CanCalculateChanges },
		func(r *QueryResult, v any) { r.CanCalculateChanges = wire.As[bool](v) }),
	wire.F("position", wire.TUnsignedInt,
		func(r *QueryResult) any { return r.Position },
		func(r *QueryResult, v any) { r.Position = wire.As[wire.UnsignedInt](v) }),
	wire.F("ids", wire.ListOf(wire.TID),
		func(r *QueryResult) any { return wire.FromSlice(r.IDs) },
		func(r *QueryResult, v any) { r.IDs = wire.AsSlice[wire.ID](v) }),
	wire.F("total", wire.Optional(wire.TUnsignedInt),
		func(r *QueryResult) any { return wire.FromPtr(r.Total) },
		func(r *QueryResult, v any) { r.Total = wire.AsPtr[wire.UnsignedInt](v) }),
	wire.F("limit", wire.Optional(wire.TUnsignedInt),
		func(r *QueryResult) any { return wire.FromPtr(r.Limit) },
		func(r *QueryResult, v any) { r.Limit = wire.AsPtr[wire.UnsignedInt](v) }),
)

func (*QueryResult) RecordType() *wire.RecordType { return queryResultType }

// DecodeQueryResult decodes */query response arguments.
func DecodeQueryResult(args map[string]any) (*QueryResult, error) {
	rec, err := wire.DecodeRecord(args, queryResultType)
	if err != nil {
		return nil, err
	}
	return rec.(*QueryResult), nil
}

// SetError describes why one create, update, or destroy in a */set call
// was rejected.
type SetError struct {
	Type        string
	Description *string
	Properties  []string
}

var setErrorType = wire.NewRecordType("SetError",
	func() wire.Record { return new(SetError) },
	wire.F("type", wire.TString,
		func(r *SetError) any { return r.Type },
		func(r *SetError, v any) { r.Type = wire.As[string](v) }),
	wire.F("description", wire.Optional(wire.TString),
		func(r *SetError) any { return wire.FromPtr(r.Description) },
		func(r *SetError, v any) { r.Description = wire.AsPtr[string](v) }),
	wire.F("properties", wire.Optional(wire.ListOf(wire.TString)),
		func(r *SetError) any { return wire.FromSlice(r.Properties) },
		func(r *SetError, v any) { r.Properties = wire.AsSlice[string](v) }),
)

func (*SetError) RecordType() *wire.RecordType { return setErrorType }

// SetResult is the */set response shape. Created and Updated carry the
// server-set properties per id; an update with no server-set changes maps
// to a nil object.
type SetResult struct {
	AccountID    wire.ID
	OldState     *string
	NewState     string
	Created      map[wire.ID]map[string]any
	Updated      map[wire.ID]map[string]any
	Destroyed    []wire.ID
	NotCreated   map[wire.ID]*SetError
	NotUpdated   map[wire.ID]*SetError
	NotDestroyed map[wire.ID]*SetError
}

var setResultObjectType = wire.Optional(wire.MapOf(wire.TString, wire.TAny))

var setResultType = wire.NewRecordType("SetResult",
	func() wire.Record { return new(SetResult) },
	wire.F("account_id", wire.TID,
		func(r *SetResult) any { return r.AccountID },
		func(r *SetResult, v any) { r.AccountID = wire.As[wire.ID](v) }),
	wire.F("old_state", wire.Optional(wire.TString),
		func(r *SetResult) any { return wire.FromPtr(r.OldState) },
		func(r *SetResult, v any) { r.OldState = wire.AsPtr[string](v) }),
	wire.F("new_state", wire.TString,
		func(r *SetResult) any { return r.NewState },
		func(r *SetResult, v any) { r.NewState = wire.As[string](v) }),
	wire.F("created", wire.Optional(wire.MapOf(wire.TID, setResultObjectType)),
		func(r *SetResult) any { return wire.FromMap(r.Created) },
		func(r *SetResult, v any) { r.Created = wire.AsMap[wire.ID, map[string]any](v) }),
	wire.F("updated", wire.Optional(wire.MapOf(wire.TID, setResultObjectType)),
		func(r *SetResult) any { return wire.FromMap(r.Updated) },
		func(r *SetResult, v any) { r.Updated = wire.AsMap[wire.ID, map[string]any](v) }),
	wire.F("destroyed", wire.Optional(wire.ListOf(wire.TID)),
		func(r *SetResult) any { return wire.FromSlice(r.Destroyed) },
		func(r *SetResult, v any) { r.Destroyed = wire.AsSlice[wire.ID](v) }),
	wire.F("not_created", wire.Optional(wire.MapOf(wire.TID, setErrorType.Type())),
		func(r *SetResult) any { return wire.FromMap(r.NotCreated) },
		func(r *SetResult, v any) { r.NotCreated = wire.AsMap[wire.ID, *SetError](v) }),
	wire.F("not_updated", wire.Optional(wire.MapOf(wire.TID, setErrorType.Type())),
		func(r *SetResult) any { return wire.FromMap(r.NotUpdated) },
		func(r *SetResult, v any) { r.NotUpdated = wire.AsMap[wire.ID, *SetError](v) }),
	wire.F("not_destroyed", wire.Optional(wire.MapOf(wire.TID, setErrorType.Type())),
		func(r *SetResult) any { return wire.FromMap(r.NotDestroyed) },
		func(r *SetResult, v any) { r.NotDestroyed = wire.AsMap[wire.ID, *SetError](v) }),
)

func (*SetResult) RecordType() *wire.RecordType { return setResultType }

// DecodeSetResult decodes */set response arguments.
func DecodeSetResult(args map[string]any) (*SetResult, error) {
	rec, err := wire.DecodeRecord(args, setResultType)
	if err != nil {
		return nil, err
	}
	return rec.(*SetResult), nil
}

// ChangesResult is the */changes response shape.
type ChangesResult struct {
	AccountID      wire.ID
	OldState       string
	NewState       string
	HasMoreChanges bool
	Created        []wire.ID
	Updated        []wire.ID
	Destroyed      []wire.ID
}

var changesResultType = wire.NewRecordType("ChangesResult",
	func() wire.Record { return new(ChangesResult) },
	wire.F("account_id", wire.TID,
		func(r *ChangesResult) any { return r.AccountID },
		func(r *ChangesResult, v any) { r.AccountID = wire.As[wire.ID](v) }),
	wire.F("old_state", wire.TString,
		func(r *ChangesResult) any { return r.OldState },
		func(r *ChangesResult, v any) { r.OldState = wire.As[string](v) }),
	wire.F("new_state", wire.TString,
		func(r *ChangesResult) any { return r.NewState },
		func(r *ChangesResult, v any) { r.NewState = wire.As[string](v) }),
	wire.F("has_more_changes", wire.TBool,
		func(r *ChangesResult) any { return r.HasMoreChanges },
		func(r *ChangesResult, v any) { r.HasMoreChanges = wire.As[bool](v) }),
	wire.F("created", wire.ListOf(wire.TID),
		func(r *ChangesResult) any { return wire.FromSlice(r.Created) },
		func(r *ChangesResult, v any) { r.Created = wire.AsSlice[wire.ID](v) }),
	wire.F("updated", wire.ListOf(wire.TID),
		func(r *ChangesResult) any { return wire.FromSlice(r.Updated) },
		func(r *ChangesResult, v any) { r.Updated = wire.AsSlice[wire.ID](v) }),
	wire.F("destroyed", wire.ListOf(wire.TID),
		func(r *ChangesResult) any { return wire.FromSlice(r.Destroyed) },
		func(r *ChangesResult, v any) { r.Destroyed = wire.AsSlice[wire.ID](v) }),
)

func (*ChangesResult) RecordType() *wire.RecordType { return changesResultType }

// DecodeChangesResult decodes */changes response arguments.
func DecodeChangesResult(args map[string]any) (*ChangesResult, error) {
	rec, err := wire.DecodeRecord(args, changesResultType)
	if err != nil {
		return nil, err
	}
	return rec.(*ChangesResult), nil
}
