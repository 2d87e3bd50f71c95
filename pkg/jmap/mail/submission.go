package mail

import (
	"github.com/beeper/jmap-go/pkg/jmap/wire"
)

// Address is one SMTP recipient with optional esmtp parameters,
// RFC 8621 §7.
type Address struct {
	Email      string
	Parameters any
}

var AddressType = wire.NewRecordType("Address",
	func() wire.Record { return new(Address) },
	wire.F("email", wire.TString,
		func(r *Address) any { return r.Email },
		func(r *Address, v any) { r.Email = wire.As[string](v) }),
	wire.F("parameters", wire.Optional(wire.TAny),
		func(r *Address) any { return r.Parameters },
		func(r *Address, v any) { r.Parameters = v }),
)

func (*Address) RecordType() *wire.RecordType { return AddressType }

// Envelope is the SMTP envelope a submission is sent with.
type Envelope struct {
	MailFrom *Address
	RcptTo   []*Address
}

var EnvelopeType = wire.NewRecordType("Envelope",
	func() wire.Record { return new(Envelope) },
	wire.F("mail_from", AddressType.Type(),
		func(r *Envelope) any { return wire.FromRecordPtr(r.MailFrom) },
		func(r *Envelope, v any) { r.MailFrom = wire.As[*Address](v) }),
	wire.F("rcpt_to", wire.ListOf(AddressType.Type()),
		func(r *Envelope) any { return wire.FromSlice(r.RcptTo) },
		func(r *Envelope, v any) { r.RcptTo = wire.AsSlice[*Address](v) }),
)

func (*Envelope) RecordType() *wire.RecordType { return EnvelopeType }

// DeliveryStatus is the per-recipient delivery outcome. Delivered is one
// of "queued", "yes", "no", "unknown"; Displayed is "yes" or "unknown".
type DeliveryStatus struct {
	SMTPReply string
	Delivered string
	Displayed string
}

var DeliveryStatusType = wire.NewRecordType("DeliveryStatus",
	func() wire.Record { return new(DeliveryStatus) },
	wire.F("smtp_reply", wire.TString,
		func(r *DeliveryStatus) any { return r.SMTPReply },
		func(r *DeliveryStatus, v any) { r.SMTPReply = wire.As[string](v) }),
	wire.F("delivered", wire.TString,
		func(r *DeliveryStatus) any { return r.Delivered },
		func(r *DeliveryStatus, v any) { r.Delivered = wire.As[string](v) }),
	wire.F("displayed", wire.TString,
		func(r *DeliveryStatus) any { return r.Displayed },
		func(r *DeliveryStatus, v any) { r.Displayed = wire.As[string](v) }),
)

func (*DeliveryStatus) RecordType() *wire.RecordType { return DeliveryStatusType }

// EmailSubmission tracks one message handed to the outbound mail queue,
// RFC 8621 §7. UndoStatus is "pending" while the server still accepts
// cancellation, then "final" or "canceled".
type EmailSubmission struct {
	ID             wire.ID
	IdentityID     wire.ID
	EmailID        wire.ID
	ThreadID       wire.ID
	Envelope       *Envelope
	SendAt         wire.UTCDate
	UndoStatus     string
	DeliveryStatus map[string]*DeliveryStatus
	DSNBlobIDs     []wire.ID
	MDNBlobIDs     []wire.ID
}

var EmailSubmissionType = wire.NewRecordType("EmailSubmission",
	func() wire.Record { return new(EmailSubmission) },
	wire.F("id", wire.TID,
		func(r *EmailSubmission) any { return r.ID },
		func(r *EmailSubmission, v any) { r.ID = wire.As[wire.ID](v) }),
	wire.F("identity_id", wire.TID,
		func(r *EmailSubmission) any { return r.IdentityID },
		func(r *EmailSubmission, v any) { r.IdentityID = wire.As[wire.ID](v) }),
	wire.F("email_id", wire.TID,
		func(r *EmailSubmission) any { return r.EmailID },
		func(r *EmailSubmission, v any) { r.EmailID = wire.As[wire.ID](v) }),
	wire.F("thread_id", wire.TID,
		func(r *EmailSubmission) any { return r.ThreadID },
		func(r *EmailSubmission, v any) { r.ThreadID = wire.As[wire.ID](v) }),
	wire.F("envelope", wire.Optional(EnvelopeType.Type()),
		func(r *EmailSubmission) any { return wire.FromRecordPtr(r.Envelope) },
		func(r *EmailSubmission, v any) { r.Envelope = wire.As[*Envelope](v) }),
	wire.F("send_at", wire.TUTCDate,
		func(r *EmailSubmission) any { return r.SendAt },
		func(r *EmailSubmission, v any) { r.SendAt = wire.As[wire.UTCDate](v) }),
	wire.F("undo_status", wire.TString,
		func(r *EmailSubmission) any { return r.UndoStatus },
		func(r *EmailSubmission, v any) { r.UndoStatus = wire.As[string](v) }),
	wire.F("delivery_status", wire.Optional(wire.MapOf(wire.TString, DeliveryStatusType.Type())),
		func(r *EmailSubmission) any { return wire.FromMap(r.DeliveryStatus) },
		func(r *EmailSubmission, v any) { r.DeliveryStatus = wire.AsMap[string, *DeliveryStatus](v) }),
	wire.F("dsn_blob_ids", wire.Optional(wire.ListOf(wire.TID)),
		func(r *EmailSubmission) any { return wire.FromSlice(r.DSNBlobIDs) },
		func(r *EmailSubmission, v any) { r.DSNBlobIDs = wire.AsSlice[wire.ID](v) }),
	wire.F("mdn_blob_ids", wire.Optional(wire.ListOf(wire.TID)),
		func(r *EmailSubmission) any { return wire.FromSlice(r.MDNBlobIDs) },
		func(r *EmailSubmission, v any) { r.MDNBlobIDs = wire.AsSlice[wire.ID](v) }),
)

func (*EmailSubmission) RecordType() *wire.RecordType { return EmailSubmissionType }

// VacationResponse is the singleton auto-reply setting, RFC 8621 §8. Its
// id is always "singleton".
type VacationResponse struct {
	ID        wire.ID
	IsEnabled bool
	FromDate  *wire.UTCDate
	ToDate    *wire.UTCDate
	Subject   *string
	TextBody  *string
	HTMLBody  *string
}

var VacationResponseType = wire.NewRecordType("VacationResponse",
	func() wire.Record { return new(VacationResponse) },
	wire.F("id", wire.TID,
		func(r *VacationResponse) any { return r.ID },
		func(r *VacationResponse, v any) { r.ID = wire.As[wire.ID](v) }),
	wire.F("is_enabled", wire.TBool,
		func(r *VacationResponse) any { return r.IsEnabled },
		func(r *VacationResponse, v any) { r.IsEnabled = wire.As[bool](v) }),
	wire.F("from_date", wire.Optional(wire.TUTCDate),
		func(r *VacationResponse) any { return wire.FromPtr(r.FromDate) },
		func(r *VacationResponse, v any) { r.FromDate = wire.AsPtr[wire.UTCDate](v) }),
	wire.F("to_date", wire.Optional(wire.TUTCDate),
		func(r *VacationResponse) any { return wire.FromPtr(r.ToDate) },
		func(r *VacationResponse, v any) { r.ToDate = wire.AsPtr[wire.UTCDate](v) }),
	wire.F("subject", wire.Optional(wire.TString),
		func(r *VacationResponse) any { return wire.FromPtr(r.Subject) },
		func(r *VacationResponse, v any) { r.Subject = wire.AsPtr[string](v) }),
	wire.F("text_body", wire.Optional(wire.TString),
		func(r *VacationResponse) any { return wire.FromPtr(r.TextBody) },
		func(r *VacationResponse, v any) { r.TextBody = wire.AsPtr[string](v) }),
	wire.F("html_body", wire.Optional(wire.TString),
		func(r *VacationResponse) any { return wire.FromPtr(r.HTMLBody) },
		func(r *VacationResponse, v any) { r.HTMLBody = wire.AsPtr[string](v) }),
)

func (*VacationResponse) RecordType() *wire.RecordType { return VacationResponseType }
