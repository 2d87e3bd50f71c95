package mail

import (
	"github.com/beeper/jmap-go/pkg/jmap/wire"
)

// EmailFilterCondition is the Email/query leaf filter, RFC 8621 §4.4.1.
// Conditions combine with AND; use the query operators for anything else.
// Header is the raw header-field match form: one element matches presence,
// two match name and value.
type EmailFilterCondition struct {
	InMailbox               *wire.ID
	InMailboxOtherThan      []wire.ID
	Before                  *wire.UTCDate
	After                   *wire.UTCDate
	MinSize                 *wire.UnsignedInt
	MaxSize                 *wire.UnsignedInt
	AllInThreadHaveKeyword  *string
	SomeInThreadHaveKeyword *string
	NoneInThreadHaveKeyword *string
	HasKeyword              *string
	NotKeyword              *string
	HasAttachment           *bool
	Text                    *string
	From                    *string
	To                      *string
	Cc                      *string
	Bcc                     *string
	Subject                 *string
	Body                    *string
	Header                  []string
}

var EmailFilterConditionType = wire.NewSparseRecordType("EmailFilterCondition",
	func() wire.Record { return new(EmailFilterCondition) },
	wire.F("in_mailbox", wire.Optional(wire.TID),
		func(r *EmailFilterCondition) any { return wire.FromPtr(r.InMailbox) },
		func(r *EmailFilterCondition, v any) { r.InMailbox = wire.AsPtr[wire.ID](v) }),
	wire.F("in_mailbox_other_than", wire.Optional(wire.ListOf(wire.TID)),
		func(r *EmailFilterCondition) any { return wire.FromSlice(r.InMailboxOtherThan) },
		func(r *EmailFilterCondition, v any) { r.InMailboxOtherThan = wire.AsSlice[wire.ID](v) }),
	wire.F("before", wire.Optional(wire.TUTCDate),
		func(r *EmailFilterCondition) any { return wire.FromPtr(r.Before) },
		func(r *EmailFilterCondition, v any) { r.Before = wire.AsPtr[wire.UTCDate](v) }),
	wire.F("after", wire.Optional(wire.TUTCDate),
		func(r *EmailFilterCondition) any { return wire.FromPtr(r.After) },
		func(r *EmailFilterCondition, v any) { r.After = wire.AsPtr[wire.UTCDate](v) }),
	wire.F("min_size", wire.Optional(wire.TUnsignedInt),
		func(r *EmailFilterCondition) any { return wire.FromPtr(r.MinSize) },
		func(r *EmailFilterCondition, v any) { r.MinSize = wire.AsPtr[wire.UnsignedInt](v) }),
	wire.F("max_size", wire.Optional(wire.TUnsignedInt),
		func(r *EmailFilterCondition) any { return wire.FromPtr(r.MaxSize) },
		func(r *EmailFilterCondition, v any) { r.MaxSize = wire.AsPtr[wire.UnsignedInt](v) }),
	wire.F("all_in_thread_have_keyword", wire.Optional(wire.TString),
		func(r *EmailFilterCondition) any { return wire.FromPtr(r.AllInThreadHaveKeyword) },
		func(r *EmailFilterCondition, v any) { r.AllInThreadHaveKeyword = wire.AsPtr[string](v) }),
	wire.F("some_in_thread_have_keyword", wire.Optional(wire.TString),
		func(r *EmailFilterCondition) any { return wire.FromPtr(r.SomeInThreadHaveKeyword) },
		func(r *EmailFilterCondition, v any) { r.SomeInThreadHaveKeyword = wire.AsPtr[string](v) }),
	wire.F("none_in_thread_have_keyword", wire.Optional(wire.TString),
		func(r *EmailFilterCondition) any { return wire.FromPtr(r.NoneInThreadHaveKeyword) },
		func(r *EmailFilterCondition, v any) { r.NoneInThreadHaveKeyword = wire.AsPtr[string](v) }),
	wire.F("has_keyword", wire.Optional(wire.TString),
		func(r *EmailFilterCondition) any { return wire.FromPtr(r.HasKeyword) },
		func(r *EmailFilterCondition, v any) { r.HasKeyword = wire.AsPtr[string](v) }),
	wire.F("not_keyword", wire.Optional(wire.TString),
		func(r *EmailFilterCondition) any { return wire.FromPtr(r.NotKeyword) },
		func(r *EmailFilterCondition, v any) { r.NotKeyword = wire.AsPtr[string](v) }),
	wire.F("has_attachment", wire.Optional(wire.TBool),
		func(r *EmailFilterCondition) any { return wire.FromPtr(r.HasAttachment) },
		func(r *EmailFilterCondition, v any) { r.HasAttachment = wire.AsPtr[bool](v) }),
	wire.F("text", wire.Optional(wire.TString),
		func(r *EmailFilterCondition) any { return wire.FromPtr(r.Text) },
		func(r *EmailFilterCondition, v any) { r.Text = wire.AsPtr[string](v) }),
	wire.F("from_", wire.Optional(wire.TString),
		func(r *EmailFilterCondition) any { return wire.FromPtr(r.From) },
		func(r *EmailFilterCondition, v any) { r.From = wire.AsPtr[string](v) }),
	wire.F("to", wire.Optional(wire.TString),
		func(r *EmailFilterCondition) any { return wire.FromPtr(r.To) },
		func(r *EmailFilterCondition, v any) { r.To = wire.AsPtr[string](v) }),
	wire.F("cc", wire.Optional(wire.TString),
		func(r *EmailFilterCondition) any { return wire.FromPtr(r.Cc) },
		func(r *EmailFilterCondition, v any) { r.Cc = wire.AsPtr[string](v) }),
	wire.F("bcc", wire.Optional(wire.TString),
		func(r *EmailFilterCondition) any { return wire.FromPtr(r.Bcc) },
		func(r *EmailFilterCondition, v any) { r.Bcc = wire.AsPtr[string](v) }),
	wire.F("subject", wire.Optional(wire.TString),
		func(r *EmailFilterCondition) any { return wire.FromPtr(r.Subject) },
		func(r *EmailFilterCondition, v any) { r.Subject = wire.AsPtr[string](v) }),
	wire.F("body", wire.Optional(wire.TString),
		func(r *EmailFilterCondition) any { return wire.FromPtr(r.Body) },
		func(r *EmailFilterCondition, v any) { r.Body = wire.AsPtr[string](v) }),
	wire.F("header", wire.Optional(wire.ListOf(wire.TString)),
		func(r *EmailFilterCondition) any { return wire.FromSlice(r.Header) },
		func(r *EmailFilterCondition, v any) { r.Header = wire.AsSlice[string](v) }),
)

func (*EmailFilterCondition) RecordType() *wire.RecordType { return EmailFilterConditionType }

// FilterMap renders the condition with absent fields omitted.
func (f *EmailFilterCondition) FilterMap() (map[string]any, error) {
	return wire.Encode(f)
}

// MailboxFilterCondition is the Mailbox/query leaf filter, RFC 8621 §2.3.
type MailboxFilterCondition struct {
	ParentID     *wire.ID
	Name         *string
	Role         *string
	HasAnyRole   *bool
	IsSubscribed *bool
}

var MailboxFilterConditionType = wire.NewSparseRecordType("MailboxFilterCondition",
	func() wire.Record { return new(MailboxFilterCondition) },
	wire.F("parent_id", wire.Optional(wire.TID),
		func(r *MailboxFilterCondition) any { return wire.FromPtr(r.ParentID) },
		func(r *MailboxFilterCondition, v any) { r.ParentID = wire.AsPtr[wire.ID](v) }),
	wire.F("name", wire.Optional(wire.TString),
		func(r *MailboxFilterCondition) any { return wire.FromPtr(r.Name) },
		func(r *MailboxFilterCondition, v any) { r.Name = wire.AsPtr[string](v) }),
	wire.F("role", wire.Optional(wire.TString),
		func(r *MailboxFilterCondition) any { return wire.FromPtr(r.Role) },
		func(r *MailboxFilterCondition, v any) { r.Role = wire.AsPtr[string](v) }),
	wire.F("has_any_role", wire.Optional(wire.TBool),
		func(r *MailboxFilterCondition) any { return wire.FromPtr(r.HasAnyRole) },
		func(r *MailboxFilterCondition, v any) { r.HasAnyRole = wire.AsPtr[bool](v) }),
	wire.F("is_subscribed", wire.Optional(wire.TBool),
		func(r *MailboxFilterCondition) any { return wire.FromPtr(r.IsSubscribed) },
		func(r *MailboxFilterCondition, v any) { r.IsSubscribed = wire.AsPtr[bool](v) }),
)

func (*MailboxFilterCondition) RecordType() *wire.RecordType { return MailboxFilterConditionType }

// FilterMap renders the condition with absent fields omitted.
func (f *MailboxFilterCondition) FilterMap() (map[string]any, error) {
	return wire.Encode(f)
}
