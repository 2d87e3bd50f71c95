// Package mail carries the RFC 8621 record schemas and typed call
// wrappers for the mail, submission, and vacation-response capabilities.
// The schemas are plain data fed to the wire codec; the protocol
// machinery lives in the parent package.
package mail

import (
	"github.com/beeper/jmap-go/pkg/jmap/wire"
)

// MailboxRights is the ACL summary the server reports per mailbox.
type MailboxRights struct {
	MayReadItems   bool
	MayAddItems    bool
	MayRemoveItems bool
	MaySetSeen     bool
	MaySetKeywords bool
	MayCreateChild bool
	MayRename      bool
	MayDelete      bool
	MaySubmit      bool
}

var MailboxRightsType = wire.NewRecordType("MailboxRights",
	func() wire.Record { return new(MailboxRights) },
	wire.F("may_read_items", wire.TBool,
		func(r *MailboxRights) any { return r.MayReadItems },
		func(r *MailboxRights, v any) { r.MayReadItems = wire.As[bool](v) }),
	wire.F("may_add_items", wire.TBool,
		func(r *MailboxRights) any { return r.MayAddItems },
		func(r *MailboxRights, v any) { r.MayAddItems = wire.As[bool](v) }),
	wire.F("may_remove_items", wire.TBool,
		func(r *MailboxRights) any { return r.MayRemoveItems },
		func(r *MailboxRights, v any) { r.MayRemoveItems = wire.As[bool](v) }),
	wire.F("may_set_seen", wire.TBool,
		func(r *MailboxRights) any { return r.MaySetSeen },
		func(r *MailboxRights, v any) { r.MaySetSeen = wire.As[bool](v) }),
	wire.F("may_set_keywords", wire.TBool,
		func(r *MailboxRights) any { return r.MaySetKeywords },
		func(r *MailboxRights, v any) { r.MaySetKeywords = wire.As[bool](v) }),
	wire.F("may_create_child", wire.TBool,
		func(r *MailboxRights) any { return r.MayCreateChild },
		func(r *MailboxRights, v any) { r.MayCreateChild = wire.As[bool](v) }),
	wire.F("may_rename", wire.TBool,
		func(r *MailboxRights) any { return r.MayRename },
		func(r *MailboxRights, v any) { r.MayRename = wire.As[bool](v) }),
	wire.F("may_delete", wire.TBool,
		func(r *MailboxRights) any { return r.MayDelete },
		func(r *MailboxRights, v any) { r.MayDelete = wire.As[bool](v) }),
	wire.F("may_submit", wire.TBool,
		func(r *MailboxRights) any { return r.MaySubmit },
		func(r *MailboxRights, v any) { r.MaySubmit = wire.As[bool](v) }),
)

func (*MailboxRights) RecordType() *wire.RecordType { return MailboxRightsType }

// Mailbox is a named set of emails, RFC 8621 §2.
type Mailbox struct {
	ID            wire.ID
	Name          string
	ParentID      *wire.ID
	Role          *string
	SortOrder     wire.UnsignedInt
	TotalEmails   wire.UnsignedInt
	UnreadEmails  wire.UnsignedInt
	TotalThreads  wire.UnsignedInt
	UnreadThreads wire.UnsignedInt
	MyRights      *MailboxRights
	IsSubscribed  bool
}

var MailboxType = wire.NewRecordType("Mailbox",
	func() wire.Record { return new(Mailbox) },
	wire.F("id", wire.TID,
		func(r *Mailbox) any { return r.ID },
		func(r *Mailbox, v any) { r.ID = wire.As[wire.ID](v) }),
	wire.F("name", wire.TString,
		func(r *Mailbox) any { return r.Name },
		func(r *Mailbox, v any) { r.Name = wire.As[string](v) }),
	wire.F("parent_id", wire.Optional(wire.TID),
		func(r *Mailbox) any { return wire.FromPtr(r.ParentID) },
		func(r *Mailbox, v any) { r.ParentID = wire.AsPtr[wire.ID](v) }),
	wire.F("role", wire.Optional(wire.TString),
		func(r *Mailbox) any { return wire.FromPtr(r.Role) },
		func(r *Mailbox, v any) { r.Role = wire.AsPtr[string](v) }),
	wire.F("sort_order", wire.TUnsignedInt,
		func(r *Mailbox) any { return r.SortOrder },
		func(r *Mailbox, v any) { r.SortOrder = wire.As[wire.UnsignedInt](v) }),
	wire.F("total_emails", wire.TUnsignedInt,
		func(r *Mailbox) any { return r.TotalEmails },
		func(r *Mailbox, v any) { r.TotalEmails = wire.As[wire.UnsignedInt](v) }),
	wire.F("unread_emails", wire.TUnsignedInt,
		func(r *Mailbox) any { return r.UnreadEmails },
		func(r *Mailbox, v any) { r.UnreadEmails = wire.As[wire.UnsignedInt](v) }),
	wire.F("total_threads", wire.TUnsignedInt,
		func(r *Mailbox) any { return r.TotalThreads },
		func(r *Mailbox, v any) { r.TotalThreads = wire.As[wire.UnsignedInt](v) }),
	wire.F("unread_threads", wire.TUnsignedInt,
		func(r *Mailbox) any { return r.UnreadThreads },
		func(r *Mailbox, v any) { r.UnreadThreads = wire.As[wire.UnsignedInt](v) }),
	wire.F("my_rights", MailboxRightsType.Type(),
		func(r *Mailbox) any { return wire.FromRecordPtr(r.MyRights) },
		func(r *Mailbox, v any) { r.MyRights = wire.As[*MailboxRights](v) }),
	wire.F("is_subscribed", wire.TBool,
		func(r *Mailbox) any { return r.IsSubscribed },
		func(r *Mailbox, v any) { r.IsSubscribed = wire.As[bool](v) }),
)

func (*Mailbox) RecordType() *wire.RecordType { return MailboxType }

// Thread groups emails by conversation, RFC 8621 §3.
type Thread struct {
	ID       wire.ID
	EmailIDs []wire.ID
}

var ThreadType = wire.NewRecordType("Thread",
	func() wire.Record { return new(Thread) },
	wire.F("id", wire.TID,
		func(r *Thread) any { return r.ID },
		func(r *Thread, v any) { r.ID = wire.As[wire.ID](v) }),
	wire.F("email_ids", wire.ListOf(wire.TID),
		func(r *Thread) any { return wire.FromSlice(r.EmailIDs) },
		func(r *Thread, v any) { r.EmailIDs = wire.AsSlice[wire.ID](v) }),
)

func (*Thread) RecordType() *wire.RecordType { return ThreadType }

// EmailAddress is a display name plus address.
type EmailAddress struct {
	Name  *string
	Email string
}

var EmailAddressType = wire.NewRecordType("EmailAddress",
	func() wire.Record { return new(EmailAddress) },
	wire.F("name", wire.Optional(wire.TString),
		func(r *EmailAddress) any { return wire.FromPtr(r.Name) },
		func(r *EmailAddress, v any) { r.Name = wire.AsPtr[string](v) }),
	wire.F("email", wire.TString,
		func(r *EmailAddress) any { return r.Email },
		func(r *EmailAddress, v any) { r.Email = wire.As[string](v) }),
)

func (*EmailAddress) RecordType() *wire.RecordType { return EmailAddressType }

// EmailAddressGroup is a named list of addresses.
type EmailAddressGroup struct {
	Name      *string
	Addresses []*EmailAddress
}

var EmailAddressGroupType = wire.NewRecordType("EmailAddressGroup",
	func() wire.Record { return new(EmailAddressGroup) },
	wire.F("name", wire.Optional(wire.TString),
		func(r *EmailAddressGroup) any { return wire.FromPtr(r.Name) },
		func(r *EmailAddressGroup, v any) { r.Name = wire.AsPtr[string](v) }),
	wire.F("addresses", wire.ListOf(EmailAddressType.Type()),
		func(r *EmailAddressGroup) any { return wire.FromSlice(r.Addresses) },
		func(r *EmailAddressGroup, v any) { r.Addresses = wire.AsSlice[*EmailAddress](v) }),
)

func (*EmailAddressGroup) RecordType() *wire.RecordType { return EmailAddressGroupType }

// EmailHeader is one raw header field.
type EmailHeader struct {
	Name  string
	Value string
}

var EmailHeaderType = wire.NewRecordType("EmailHeader",
	func() wire.Record { return new(EmailHeader) },
	wire.F("name", wire.TString,
		func(r *EmailHeader) any { return r.Name },
		func(r *EmailHeader, v any) { r.Name = wire.As[string](v) }),
	wire.F("value", wire.TString,
		func(r *EmailHeader) any { return r.Value },
		func(r *EmailHeader, v any) { r.Value = wire.As[string](v) }),
)

func (*EmailHeader) RecordType() *wire.RecordType { return EmailHeaderType }

// Email is the metadata view of a message, RFC 8621 §4. Body parts and
// attachments are out of scope; the fields here are the header and
// keyword projection used for listing and triage.
type Email struct {
	ID         wire.ID
	BlobID     wire.ID
	ThreadID   wire.ID
	MailboxIDs map[wire.ID]bool
	Keywords   map[string]bool
	Size       wire.UnsignedInt
	ReceivedAt wire.UTCDate
	MessageID  []string
	InReplyTo  []string
	References []string
	Sender     []*EmailAddress
	From       []*EmailAddress
	To         []*EmailAddress
	Cc         []*EmailAddress
	Bcc        []*EmailAddress
	ReplyTo    []*EmailAddress
	Subject    *string
	SentAt     *wire.Date
}

var addressListType = wire.Optional(wire.ListOf(EmailAddressType.Type()))

var EmailType = wire.NewRecordType("Email",
	func() wire.Record { return new(Email) },
	wire.F("id", wire.TID,
		func(r *Email) any { return r.ID },
		func(r *Email, v any) { r.ID = wire.As[wire.ID](v) }),
	wire.F("blob_id", wire.TID,
		func(r *Email) any { return r.BlobID },
		func(r *Email, v any) { r.BlobID = wire.As[wire.ID](v) }),
	wire.F("thread_id", wire.TID,
		func(r *Email) any { return r.ThreadID },
		func(r *Email, v any) { r.ThreadID = wire.As[wire.ID](v) }),
	wire.F("mailbox_ids", wire.MapOf(wire.TID, wire.TBool),
		func(r *Email) any { return wire.FromMap(r.MailboxIDs) },
		func(r *Email, v any) { r.MailboxIDs = wire.AsMap[wire.ID, bool](v) }),
	wire.F("keywords", wire.MapOf(wire.TString, wire.TBool),
		func(r *Email) any { return wire.FromMap(r.Keywords) },
		func(r *Email, v any) { r.Keywords = wire.AsMap[string, bool](v) }),
	wire.F("size", wire.TUnsignedInt,
		func(r *Email) any { return r.Size },
		func(r *Email, v any) { r.Size = wire.As[wire.UnsignedInt](v) }),
	wire.F("received_at", wire.TUTCDate,
		func(r *Email) any { return r.ReceivedAt },
		func(r *Email, v any) { r.ReceivedAt = wire.As[wire.UTCDate](v) }),
	wire.F("message_id", wire.Optional(wire.ListOf(wire.TString)),
		func(r *Email) any { return wire.FromSlice(r.MessageID) },
		func(r *Email, v any) { r.MessageID = wire.AsSlice[string](v) }),
	wire.F("in_reply_to", wire.Optional(wire.ListOf(wire.TString)),
		func(r *Email) any { return wire.FromSlice(r.InReplyTo) },
		func(r *Email, v any) { r.InReplyTo = wire.AsSlice[string](v) }),
	wire.F("references", wire.Optional(wire.ListOf(wire.TString)),
		func(r *Email) any { return wire.FromSlice(r.References) },
		func(r *Email, v any) { r.References = wire.AsSlice[string](v) }),
	wire.F("sender", addressListType,
		func(r *Email) any { return wire.FromSlice(r.Sender) },
		func(r *Email, v any) { r.Sender = wire.AsSlice[*EmailAddress](v) }),
	wire.F("from_", addressListType,
		func(r *Email) any { return wire.FromSlice(r.From) },
		func(r *Email, v any) { r.From = wire.AsSlice[*EmailAddress](v) }),
	wire.F("to", addressListType,
		func(r *Email) any { return wire.FromSlice(r.To) },
		func(r *Email, v any) { r.To = wire.AsSlice[*EmailAddress](v) }),
	wire.F("cc", addressListType,
		func(r *Email) any { return wire.FromSlice(r.Cc) },
		func(r *Email, v any) { r.Cc = wire.AsSlice[*EmailAddress](v) }),
	wire.F("bcc", addressListType,
		func(r *Email) any { return wire.FromSlice(r.Bcc) },
		func(r *Email, v any) { r.Bcc = wire.AsSlice[*EmailAddress](v) }),
	wire.F("reply_to", addressListType,
		func(r *Email) any { return wire.FromSlice(r.ReplyTo) },
		func(r *Email, v any) { r.ReplyTo = wire.AsSlice[*EmailAddress](v) }),
	wire.F("subject", wire.Optional(wire.TString),
		func(r *Email) any { return wire.FromPtr(r.Subject) },
		func(r *Email, v any) { r.Subject = wire.AsPtr[string](v) }),
	wire.F("sent_at", wire.Optional(wire.TDate),
		func(r *Email) any { return wire.FromPtr(r.SentAt) },
		func(r *Email, v any) { r.SentAt = wire.AsPtr[wire.Date](v) }),
)

func (*Email) RecordType() *wire.RecordType { return EmailType }

// SearchSnippet is the highlighted match context for one email,
// RFC 8621 §5.
type SearchSnippet struct {
	EmailID wire.ID
	Subject *string
	Preview *string
}

var SearchSnippetType = wire.NewRecordType("SearchSnippet",
	func() wire.Record { return new(SearchSnippet) },
	wire.F("email_id", wire.TID,
		func(r *SearchSnippet) any { return r.EmailID },
		func(r *SearchSnippet, v any) { r.EmailID = wire.As[wire.ID](v) }),
	wire.F("subject", wire.Optional(wire.TString),
		func(r *SearchSnippet) any { return wire.FromPtr(r.Subject) },
		func(r *SearchSnippet, v any) { r.Subject = wire.AsPtr[string](v) }),
	wire.F("preview", wire.Optional(wire.TString),
		func(r *SearchSnippet) any { return wire.FromPtr(r.Preview) },
		func(r *SearchSnippet, v any) { r.Preview = wire.AsPtr[string](v) }),
)

func (*SearchSnippet) RecordType() *wire.RecordType { return SearchSnippetType }

// SearchSnippetResult is the SearchSnippet/get response shape. Unlike
// the generic */get result it carries no state property.
type SearchSnippetResult struct {
	AccountID wire.ID
	List      []*SearchSnippet
	NotFound  []wire.ID
}

var searchSnippetResultType = wire.NewRecordType("SearchSnippetResult",
	func() wire.Record { return new(SearchSnippetResult) },
	wire.F("account_id", wire.TID,
		func(r *SearchSnippetResult) any { return r.AccountID },
		func(r *SearchSnippetResult, v any) { r.AccountID = wire.As[wire.ID](v) }),
	wire.F("list", wire.ListOf(SearchSnippetType.Type()),
		func(r *SearchSnippetResult) any { return wire.FromSlice(r.List) },
		func(r *SearchSnippetResult, v any) { r.List = wire.AsSlice[*SearchSnippet](v) }),
	wire.F("not_found", wire.Optional(wire.ListOf(wire.TID)),
		func(r *SearchSnippetResult) any { return wire.FromSlice(r.NotFound) },
		func(r *SearchSnippetResult, v any) { r.NotFound = wire.AsSlice[wire.ID](v) }),
)

func (*SearchSnippetResult) RecordType() *wire.RecordType { return searchSnippetResultType }

// Identity is a from-address the account may send as, RFC 8621 §6.
type Identity struct {
	ID            wire.ID
	Name          string
	Email         string
	ReplyTo       []string
	Bcc           []string
	TextSignature string
	HTMLSignature string
	MayDelete     bool
}

var IdentityType = wire.NewRecordType("Identity",
	func() wire.Record { return new(Identity) },
	wire.F("id", wire.TID,
		func(r *Identity) any { return r.ID },
		func(r *Identity, v any) { r.ID = wire.As[wire.ID](v) }),
	wire.F("name", wire.TString,
		func(r *Identity) any { return r.Name },
		func(r *Identity, v any) { r.Name = wire.As[string](v) }),
	wire.F("email", wire.TString,
		func(r *Identity) any { return r.Email },
		func(r *Identity, v any) { r.Email = wire.As[string](v) }),
	wire.F("reply_to", wire.Optional(wire.ListOf(wire.TString)),
		func(r *Identity) any { return wire.FromSlice(r.ReplyTo) },
		func(r *Identity, v any) { r.ReplyTo = wire.AsSlice[string](v) }),
	wire.F("bcc", wire.Optional(wire.ListOf(wire.TString)),
		func(r *Identity) any { return wire.FromSlice(r.Bcc) },
		func(r *Identity, v any) { r.Bcc = wire.AsSlice[string](v) }),
	wire.F("text_signature", wire.TString,
		func(r *Identity) any { return r.TextSignature },
		func(r *Identity, v any) { r.TextSignature = wire.As[string](v) }),
	wire.F("html_signature", wire.TString,
		func(r *Identity) any { return r.HTMLSignature },
		func(r *Identity, v any) { r.HTMLSignature = wire.As[string](v) }),
	wire.F("may_delete", wire.TBool,
		func(r *Identity) any { return r.MayDelete },
		func(r *Identity, v any) { r.MayDelete = wire.As[bool](v) }),
)

func (*Identity) RecordType() *wire.RecordType { return IdentityType }
