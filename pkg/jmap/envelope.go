package jmap

import (
	"encoding/json"
	"fmt"

	"github.com/beeper/jmap-go/pkg/jmap/wire"
)

// Invocation is one method call or method response: a
// [name, arguments, callId] triple on the wire.
type Invocation struct {
	Name   string
	Args   map[string]any
	CallID string
}

func (inv Invocation) MarshalJSON() ([]byte, error) {
	args := inv.Args
	if args == nil {
		args = map[string]any{}
	}
	return json.Marshal([]any{inv.Name, args, inv.CallID})
}

func (inv *Invocation) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 3 {
		return fmt.Errorf("invocation must have exactly 3 elements, got %d", len(parts))
	}
	if err := json.Unmarshal(parts[0], &inv.Name); err != nil {
		return fmt.Errorf("invocation name: %w", err)
	}
	if err := json.Unmarshal(parts[1], &inv.Args); err != nil {
		return fmt.Errorf("invocation arguments: %w", err)
	}
	if err := json.Unmarshal(parts[2], &inv.CallID); err != nil {
		return fmt.Errorf("invocation call id: %w", err)
	}
	return nil
}

// WithRef copies the invocation and adds a back-reference argument under
// "#"+arg, replacing any literal argument of the same name. The server
// substitutes the referenced slice of the earlier result before running
// the method.
func (inv Invocation) WithRef(arg string, ref ResultReference) Invocation {
	encoded, _ := wire.Encode(&ref)
	args := make(map[string]any, len(inv.Args)+1)
	for k, v := range inv.Args {
		args[k] = v
	}
	delete(args, arg)
	args["#"+arg] = encoded
	inv.Args = args
	return inv
}

// ResultReference points into the result of an earlier call in the same
// request: the originating call id, its method name, and a JSON pointer
// into the result arguments.
type ResultReference struct {
	ResultOf string
	Name     string
	Path     string
}

var resultReferenceType = wire.NewRecordType("ResultReference",
	func() wire.Record { return new(ResultReference) },
	wire.F("result_of", wire.TString,
		func(r *ResultReference) any { return r.ResultOf },
		func(r *ResultReference, v any) { r.ResultOf = wire.As[string](v) }),
	wire.F("name", wire.TString,
		func(r *ResultReference) any { return r.Name },
		func(r *ResultReference, v any) { r.Name = wire.As[string](v) }),
	wire.F("path", wire.TString,
		func(r *ResultReference) any { return r.Path },
		func(r *ResultReference, v any) { r.Path = wire.As[string](v) }),
)

func (*ResultReference) RecordType() *wire.RecordType { return resultReferenceType }

// Ref builds a ResultReference.
func Ref(resultOf, name, path string) ResultReference {
	return ResultReference{ResultOf: resultOf, Name: name, Path: path}
}

var invocationTupleType = wire.TupleOf(wire.TString, wire.MapOf(wire.TString, wire.TAny), wire.TString)

func invocationsOut(invs []Invocation) any {
	if invs == nil {
		return nil
	}
	out := make([]any, len(invs))
	for i, inv := range invs {
		args := inv.Args
		if args == nil {
			args = map[string]any{}
		}
		out[i] = []any{inv.Name, args, inv.CallID}
	}
	return out
}

func invocationsIn(v any) []Invocation {
	if v == nil {
		return nil
	}
	xs := v.([]any)
	out := make([]Invocation, len(xs))
	for i, x := range xs {
		tup := x.([]any)
		args, _ := tup[1].(map[string]any)
		out[i] = Invocation{
			Name:   tup[0].(string),
			Args:   args,
			CallID: tup[2].(string),
		}
	}
	return out
}

// Request is the top-level API request envelope.
type Request struct {
	Using       []string
	MethodCalls []Invocation
	CreatedIDs  map[wire.ID]wire.ID
}

var requestType = wire.NewRecordType("Request",
	func() wire.Record { return new(Request) },
	wire.F("using", wire.ListOf(wire.TString),
		func(r *Request) any { return wire.FromSlice(r.Using) },
		func(r *Request, v any) { r.Using = wire.AsSlice[string](v) }),
	wire.F("method_calls", wire.ListOf(invocationTupleType),
		func(r *Request) any { return invocationsOut(r.MethodCalls) },
		func(r *Request, v any) { r.MethodCalls = invocationsIn(v) }),
	wire.F("created_ids", wire.Optional(wire.MapOf(wire.TID, wire.TID)),
		func(r *Request) any { return wire.FromMap(r.CreatedIDs) },
		func(r *Request, v any) { r.CreatedIDs = wire.AsMap[wire.ID, wire.ID](v) }),
)

func (*Request) RecordType() *wire.RecordType { return requestType }

// Response is the top-level API response envelope. SessionState is the
// server's current session fingerprint; a change relative to the cached
// session triggers a background re-discovery.
type Response struct {
	MethodResponses []Invocation
	SessionState    string
	CreatedIDs      map[wire.ID]wire.ID
}

var responseType = wire.NewRecordType("Response",
	func() wire.Record { return new(Response) },
	wire.F("method_responses", wire.ListOf(invocationTupleType),
		func(r *Response) any { return invocationsOut(r.MethodResponses) },
		func(r *Response, v any) { r.MethodResponses = invocationsIn(v) }),
	wire.F("session_state", wire.TString,
		func(r *Response) any { return r.SessionState },
		func(r *Response, v any) { r.SessionState = wire.As[string](v) }),
	wire.F("created_ids", wire.Optional(wire.MapOf(wire.TID, wire.TID)),
		func(r *Response) any { return wire.FromMap(r.CreatedIDs) },
		func(r *Response, v any) { r.CreatedIDs = wire.AsMap[wire.ID, wire.ID](v) }),
)

func (*Response) RecordType() *wire.RecordType { return responseType }

// ResultFor returns the arguments of the response invocation matching
// callID. The answered method name must equal method; an "error"
// pseudo-method or any other mismatch is a MethodError. A call may have
// several responses, so mismatches only count when no match exists.
func (r *Response) ResultFor(callID, method string) (map[string]any, error) {
	var mismatch *MethodError
	for _, inv := range r.MethodResponses {
		if inv.CallID != callID {
			continue
		}
		if inv.Name == method {
			return inv.Args, nil
		}
		if mismatch == nil {
			mismatch = &MethodError{CallID: callID, Method: inv.Name, Want: method, Args: inv.Args}
		}
	}
	if mismatch != nil {
		return nil, mismatch
	}
	return nil, fmt.Errorf("%w: %s", ErrResultMissing, callID)
}
