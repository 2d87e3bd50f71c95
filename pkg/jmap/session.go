package jmap

import (
	"fmt"
	"strings"

	"github.com/beeper/jmap-go/pkg/jmap/wire"
)

// WellKnownPath is the session discovery path from RFC 8620.
const WellKnownPath = "/.well-known/jmap"

// DiscoveryURL resolves the well-known session URL for a domain. A bare
// domain gets https; an explicit http(s) origin is kept as-is so local
// servers stay reachable.
func DiscoveryURL(domain string) string {
	base := strings.TrimRight(domain, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	return base + WellKnownPath
}

// Account describes one account the credentials can act on.
type Account struct {
	Name                string
	IsPersonal          bool
	IsReadOnly          bool
	AccountCapabilities map[string]any
}

var accountType = wire.NewRecordType("Account",
	func() wire.Record { return new(Account) },
	wire.F("name", wire.TString,
		func(r *Account) any { return r.Name },
		func(r *Account, v any) { r.Name = wire.As[string](v) }),
	wire.F("is_personal", wire.TBool,
		func(r *Account) any { return r.IsPersonal },
		func(r *Account, v any) { r.IsPersonal = wire.As[bool](v) }),
	wire.F("is_read_only", wire.TBool,
		func(r *Account) any { return r.IsReadOnly },
		func(r *Account, v any) { r.IsReadOnly = wire.As[bool](v) }),
	wire.F("account_capabilities", wire.MapOf(wire.TString, wire.TAny),
		func(r *Account) any { return r.AccountCapabilities },
		func(r *Account, v any) { r.AccountCapabilities = wire.As[map[string]any](v) }),
)

func (*Account) RecordType() *wire.RecordType { return accountType }

// Session is the discovered server snapshot: capabilities, accounts, and
// the endpoints every later exchange uses. State is the fingerprint that
// invalidates this snapshot when it changes.
type Session struct {
	Capabilities    map[string]any
	Accounts        map[wire.ID]*Account
	PrimaryAccounts map[string]wire.ID
	Username        string
	APIURL          string
	DownloadURL     string
	UploadURL       string
	EventSourceURL  string
	State           string
}

var sessionType = wire.NewRecordType("Session",
	func() wire.Record { return new(Session) },
	wire.F("capabilities", wire.MapOf(wire.TString, wire.TAny),
		func(r *Session) any { return r.Capabilities },
		func(r *Session, v any) { r.Capabilities = wire.As[map[string]any](v) }),
	wire.F("accounts", wire.MapOf(wire.TID, accountType.Type()),
		func(r *Session) any { return wire.FromMap(r.Accounts) },
		func(r *Session, v any) { r.Accounts = wire.AsMap[wire.ID, *Account](v) }),
	wire.F("primary_accounts", wire.MapOf(wire.TString, wire.TID),
		func(r *Session) any { return wire.FromMap(r.PrimaryAccounts) },
		func(r *Session, v any) { r.PrimaryAccounts = wire.AsMap[string, wire.ID](v) }),
	wire.F("username", wire.TString,
		func(r *Session) any { return r.Username },
		func(r *Session, v any) { r.Username = wire.As[string](v) }),
	wire.F("api_url", wire.TString,
		func(r *Session) any { return r.APIURL },
		func(r *Session, v any) { r.APIURL = wire.As[string](v) }),
	wire.F("download_url", wire.TString,
		func(r *Session) any { return r.DownloadURL },
		func(r *Session, v any) { r.DownloadURL = wire.As[string](v) }),
	wire.F("upload_url", wire.TString,
		func(r *Session) any { return r.UploadURL },
		func(r *Session, v any) { r.UploadURL = wire.As[string](v) }),
	wire.F("event_source_url", wire.TString,
		func(r *Session) any { return r.EventSourceURL },
		func(r *Session, v any) { r.EventSourceURL = wire.As[string](v) }),
	wire.F("state", wire.TString,
		func(r *Session) any { return r.State },
		func(r *Session, v any) { r.State = wire.As[string](v) }),
)

func (*Session) RecordType() *wire.RecordType { return sessionType }

// PrimaryAccount resolves the acting account for a capability, falling
// back to the core capability's primary account.
func (s *Session) PrimaryAccount(capability string) (wire.ID, bool) {
	if id, ok := s.PrimaryAccounts[capability]; ok {
		return id, true
	}
	if id, ok := s.PrimaryAccounts[CapabilityCore]; ok {
		return id, true
	}
	return "", false
}

// HasCapability reports whether the server advertises the capability.
func (s *Session) HasCapability(capability string) bool {
	_, ok := s.Capabilities[capability]
	return ok
}

// CoreCapability is the urn:ietf:params:jmap:core object: the server's
// request limits.
type CoreCapability struct {
	MaxSizeUpload         wire.UnsignedInt
	MaxConcurrentUpload   wire.UnsignedInt
	MaxSizeRequest        wire.UnsignedInt
	MaxConcurrentRequests wire.UnsignedInt
	MaxCallsInRequest     wire.UnsignedInt
	MaxObjectsInGet       wire.UnsignedInt
	MaxObjectsInSet       wire.UnsignedInt
	CollationAlgorithms   []string
}

var coreCapabilityType = wire.NewRecordType("CoreCapability",
	func() wire.Record { return new(CoreCapability) },
	wire.F("max_size_upload", wire.TUnsignedInt,
		func(r *CoreCapability) any { return r.MaxSizeUpload },
		func(r *CoreCapability, v any) { r.MaxSizeUpload = wire.As[wire.UnsignedInt](v) }),
	wire.F("max_concurrent_upload", wire.TUnsignedInt,
		func(r *CoreCapability) any { return r.MaxConcurrentUpload },
		func(r *CoreCapability, v any) { r.MaxConcurrentUpload = wire.As[wire.UnsignedInt](v) }),
	wire.F("max_size_request", wire.TUnsignedInt,
		func(r *CoreCapability) any { return r.MaxSizeRequest },
		func(r *CoreCapability, v any) { r.MaxSizeRequest = wire.As[wire.UnsignedInt](v) }),
	wire.F("max_concurrent_requests", wire.TUnsignedInt,
		func(r *CoreCapability) any { return r.MaxConcurrentRequests },
		func(r *CoreCapability, v any) { r.MaxConcurrentRequests = wire.As[wire.UnsignedInt](v) }),
	wire.F("max_calls_in_request", wire.TUnsignedInt,
		func(r *CoreCapability) any { return r.MaxCallsInRequest },
		func(r *CoreCapability, v any) { r.MaxCallsInRequest = wire.As[wire.UnsignedInt](v) }),
	wire.F("max_objects_in_get", wire.TUnsignedInt,
		func(r *CoreCapability) any { return r.MaxObjectsInGet },
		func(r *CoreCapability, v any) { r.MaxObjectsInGet = wire.As[wire.UnsignedInt](v) }),
	wire.F("max_objects_in_set", wire.TUnsignedInt,
		func(r *CoreCapability) any { return r.MaxObjectsInSet },
		func(r *CoreCapability, v any) { r.MaxObjectsInSet = wire.As[wire.UnsignedInt](v) }),
	wire.F("collation_algorithms", wire.ListOf(wire.TString),
		func(r *CoreCapability) any { return wire.FromSlice(r.CollationAlgorithms) },
		func(r *CoreCapability, v any) { r.CollationAlgorithms = wire.AsSlice[string](v) }),
)

func (*CoreCapability) RecordType() *wire.RecordType { return coreCapabilityType }

// Core decodes the core capability object from the session.
func (s *Session) Core() (*CoreCapability, error) {
	raw, ok := s.Capabilities[CapabilityCore]
	if !ok {
		return nil, fmt.Errorf("jmap: session lacks %s", CapabilityCore)
	}
	rec, err := wire.DecodeRecord(raw, coreCapabilityType)
	if err != nil {
		return nil, fmt.Errorf("jmap: invalid core capability: %w", err)
	}
	return rec.(*CoreCapability), nil
}
