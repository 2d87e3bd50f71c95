package mail

import (
	"reflect"
	"testing"
	"time"

	"go.mau.fi/util/ptr"

	"github.com/beeper/jmap-go/pkg/jmap"
	"github.com/beeper/jmap-go/pkg/jmap/wire"
)

func TestEmailDecode(t *testing.T) {
	in := map[string]any{
		"id":         "e1",
		"blobId":     "b1",
		"threadId":   "t1",
		"mailboxIds": map[string]any{"mb1": true},
		"keywords":   map[string]any{"$seen": true, "$flagged": false},
		"size":       float64(13579),
		"receivedAt": "2014-10-30T14:12:00Z",
		"messageId":  []any{"<mid-1@example.com>"},
		"inReplyTo":  nil,
		"references": nil,
		"sender":     nil,
		"from":       []any{map[string]any{"name": "Alice", "email": "alice@example.com"}},
		"to":         []any{map[string]any{"name": nil, "email": "bob@example.com"}},
		"cc":         nil,
		"bcc":        nil,
		"replyTo":    nil,
		"subject":    "Dinner plans",
		"sentAt":     "2014-10-30T13:02:11-05:00",
	}
	rec, err := wire.DecodeRecord(in, EmailType)
	if err != nil {
		t.Fatalf("DecodeRecord error: %v", err)
	}
	got := rec.(*Email)
	if got.ID != "e1" || got.BlobID != "b1" || got.ThreadID != "t1" {
		t.Fatalf("ids = %q, %q, %q", got.ID, got.BlobID, got.ThreadID)
	}
	if !got.MailboxIDs["mb1"] {
		t.Fatalf("MailboxIDs = %v", got.MailboxIDs)
	}
	if !got.Keywords["$seen"] || got.Keywords["$flagged"] {
		t.Fatalf("Keywords = %v", got.Keywords)
	}
	if got.Size != 13579 {
		t.Fatalf("Size = %d", got.Size)
	}
	if got.ReceivedAt.String() != "2014-10-30T14:12:00Z" {
		t.Fatalf("ReceivedAt = %s", got.ReceivedAt)
	}
	if len(got.From) != 1 || got.From[0].Email != "alice@example.com" {
		t.Fatalf("From = %+v", got.From)
	}
	if got.From[0].Name == nil || *got.From[0].Name != "Alice" {
		t.Fatalf("From[0].Name = %v", got.From[0].Name)
	}
	if len(got.To) != 1 || got.To[0].Name != nil || got.To[0].Email != "bob@example.com" {
		t.Fatalf("To = %+v", got.To)
	}
	if got.Sender != nil || got.Cc != nil || got.Bcc != nil || got.ReplyTo != nil {
		t.Fatalf("absent address lists decoded non-nil")
	}
	if !reflect.DeepEqual(got.MessageID, []string{"<mid-1@example.com>"}) {
		t.Fatalf("MessageID = %v", got.MessageID)
	}
	if got.Subject == nil || *got.Subject != "Dinner plans" {
		t.Fatalf("Subject = %v", got.Subject)
	}
	if got.SentAt == nil || got.SentAt.String() != "2014-10-30T13:02:11-05:00" {
		t.Fatalf("SentAt = %v", got.SentAt)
	}
}

func TestEmailEncodeWritesNullsForAbsent(t *testing.T) {
	e := &Email{
		ID:         "e1",
		BlobID:     "b1",
		ThreadID:   "t1",
		MailboxIDs: map[wire.ID]bool{"mb1": true},
		Keywords:   map[string]bool{"$seen": true},
		Size:       42,
		ReceivedAt: wire.MustUTCDate(time.Date(2014, 10, 30, 14, 12, 0, 0, time.UTC)),
	}
	m, err := wire.Encode(e)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if m["receivedAt"] != "2014-10-30T14:12:00Z" {
		t.Fatalf("receivedAt = %v", m["receivedAt"])
	}
	if !reflect.DeepEqual(m["mailboxIds"], map[string]any{"mb1": true}) {
		t.Fatalf("mailboxIds = %v", m["mailboxIds"])
	}
	for _, key := range []string{"from", "to", "subject", "sentAt", "messageId"} {
		v, present := m[key]
		if !present {
			t.Fatalf("absent optional %q omitted, want explicit null", key)
		}
		if v != nil {
			t.Fatalf("%q = %v, want nil", key, v)
		}
	}
}

func TestMailboxDecode(t *testing.T) {
	in := map[string]any{
		"id":            "mb1",
		"name":          "Inbox",
		"parentId":      nil,
		"role":          "inbox",
		"sortOrder":     float64(10),
		"totalEmails":   float64(128),
		"unreadEmails":  float64(3),
		"totalThreads":  float64(90),
		"unreadThreads": float64(2),
		"myRights": map[string]any{
			"mayReadItems":   true,
			"mayAddItems":    true,
			"mayRemoveItems": true,
			"maySetSeen":     true,
			"maySetKeywords": true,
			"mayCreateChild": false,
			"mayRename":      false,
			"mayDelete":      false,
			"maySubmit":      true,
		},
		"isSubscribed": true,
	}
	rec, err := wire.DecodeRecord(in, MailboxType)
	if err != nil {
		t.Fatalf("DecodeRecord error: %v", err)
	}
	got := rec.(*Mailbox)
	if got.ID != "mb1" || got.Name != "Inbox" {
		t.Fatalf("mailbox = %+v", got)
	}
	if got.ParentID != nil {
		t.Fatalf("ParentID = %v, want nil", got.ParentID)
	}
	if got.Role == nil || *got.Role != "inbox" {
		t.Fatalf("Role = %v", got.Role)
	}
	if got.TotalEmails != 128 || got.UnreadEmails != 3 {
		t.Fatalf("counts = %d, %d", got.TotalEmails, got.UnreadEmails)
	}
	if got.MyRights == nil || !got.MyRights.MayAddItems || got.MyRights.MayDelete {
		t.Fatalf("MyRights = %+v", got.MyRights)
	}
	if !got.IsSubscribed {
		t.Fatal("IsSubscribed = false")
	}
}

func TestEmailFilterConditionKeys(t *testing.T) {
	f := &EmailFilterCondition{
		Text:       ptr.Ptr("dinner"),
		HasKeyword: ptr.Ptr("$flagged"),
		From:       ptr.Ptr("alice@example.com"),
	}
	m, err := f.FilterMap()
	if err != nil {
		t.Fatalf("FilterMap error: %v", err)
	}
	want := map[string]any{
		"text":       "dinner",
		"hasKeyword": "$flagged",
		"from":       "alice@example.com",
	}
	if !reflect.DeepEqual(m, want) {
		t.Fatalf("got %v, want %v", m, want)
	}

	m, err = (&EmailFilterCondition{}).FilterMap()
	if err != nil {
		t.Fatalf("FilterMap error: %v", err)
	}
	if len(m) != 0 {
		t.Fatalf("empty condition encoded to %v, want {}", m)
	}
}

func TestMailboxFilterConditionKeys(t *testing.T) {
	f := &MailboxFilterCondition{ParentID: ptr.Ptr(wire.ID("mb0")), HasAnyRole: ptr.Ptr(true)}
	m, err := f.FilterMap()
	if err != nil {
		t.Fatalf("FilterMap error: %v", err)
	}
	want := map[string]any{"parentId": "mb0", "hasAnyRole": true}
	if !reflect.DeepEqual(m, want) {
		t.Fatalf("got %v, want %v", m, want)
	}
}

func TestEmailFilterInOperatorTree(t *testing.T) {
	f := jmap.And(
		&EmailFilterCondition{InMailbox: ptr.Ptr(wire.ID("mb1"))},
		jmap.Not(&EmailFilterCondition{Text: ptr.Ptr("invoice")}),
	)
	m, err := f.FilterMap()
	if err != nil {
		t.Fatalf("FilterMap error: %v", err)
	}
	want := map[string]any{
		"operator": "AND",
		"conditions": []any{
			map[string]any{"inMailbox": "mb1"},
			map[string]any{
				"operator":   "NOT",
				"conditions": []any{map[string]any{"text": "invoice"}},
			},
		},
	}
	if !reflect.DeepEqual(m, want) {
		t.Fatalf("got %v, want %v", m, want)
	}
}

func TestSearchSnippetResultDecode(t *testing.T) {
	in := map[string]any{
		"accountId": "a1",
		"list": []any{
			map[string]any{
				"emailId": "e1",
				"subject": "Re: <mark>dinner</mark>",
				"preview": nil,
			},
		},
		"notFound": []any{"e9"},
	}
	rec, err := wire.DecodeRecord(in, searchSnippetResultType)
	if err != nil {
		t.Fatalf("DecodeRecord error: %v", err)
	}
	got := rec.(*SearchSnippetResult)
	if got.AccountID != "a1" || len(got.List) != 1 {
		t.Fatalf("result = %+v", got)
	}
	if got.List[0].EmailID != "e1" || got.List[0].Preview != nil {
		t.Fatalf("snippet = %+v", got.List[0])
	}
	if got.List[0].Subject == nil || *got.List[0].Subject != "Re: <mark>dinner</mark>" {
		t.Fatalf("Subject = %v", got.List[0].Subject)
	}
	if !reflect.DeepEqual(got.NotFound, []wire.ID{"e9"}) {
		t.Fatalf("NotFound = %v", got.NotFound)
	}
}

func TestEmailSubmissionDecode(t *testing.T) {
	in := map[string]any{
		"id":         "s1",
		"identityId": "i1",
		"emailId":    "e1",
		"threadId":   "t1",
		"envelope": map[string]any{
			"mailFrom": map[string]any{"email": "alice@example.com", "parameters": nil},
			"rcptTo": []any{
				map[string]any{"email": "bob@example.com", "parameters": nil},
			},
		},
		"sendAt":     "2014-10-30T14:12:00Z",
		"undoStatus": "final",
		"deliveryStatus": map[string]any{
			"bob@example.com": map[string]any{
				"smtpReply": "250 2.0.0 OK",
				"delivered": "yes",
				"displayed": "unknown",
			},
		},
		"dsnBlobIds": nil,
		"mdnBlobIds": nil,
	}
	rec, err := wire.DecodeRecord(in, EmailSubmissionType)
	if err != nil {
		t.Fatalf("DecodeRecord error: %v", err)
	}
	got := rec.(*EmailSubmission)
	if got.ID != "s1" || got.IdentityID != "i1" || got.UndoStatus != "final" {
		t.Fatalf("submission = %+v", got)
	}
	if got.Envelope == nil || got.Envelope.MailFrom == nil || got.Envelope.MailFrom.Email != "alice@example.com" {
		t.Fatalf("Envelope = %+v", got.Envelope)
	}
	if len(got.Envelope.RcptTo) != 1 || got.Envelope.RcptTo[0].Email != "bob@example.com" {
		t.Fatalf("RcptTo = %+v", got.Envelope.RcptTo)
	}
	ds := got.DeliveryStatus["bob@example.com"]
	if ds == nil || ds.SMTPReply != "250 2.0.0 OK" || ds.Delivered != "yes" {
		t.Fatalf("DeliveryStatus = %+v", got.DeliveryStatus)
	}
	if got.SendAt.String() != "2014-10-30T14:12:00Z" {
		t.Fatalf("SendAt = %s", got.SendAt)
	}
	if got.DSNBlobIDs != nil || got.MDNBlobIDs != nil {
		t.Fatalf("blob id lists = %v, %v", got.DSNBlobIDs, got.MDNBlobIDs)
	}
}

func TestIdentityDecode(t *testing.T) {
	in := map[string]any{
		"id":            "i1",
		"name":          "Alice",
		"email":         "alice@example.com",
		"replyTo":       nil,
		"bcc":           []any{"archive@example.com"},
		"textSignature": "-- \nAlice",
		"htmlSignature": "",
		"mayDelete":     false,
	}
	rec, err := wire.DecodeRecord(in, IdentityType)
	if err != nil {
		t.Fatalf("DecodeRecord error: %v", err)
	}
	got := rec.(*Identity)
	if got.Name != "Alice" || got.Email != "alice@example.com" {
		t.Fatalf("identity = %+v", got)
	}
	if got.ReplyTo != nil {
		t.Fatalf("ReplyTo = %v, want nil", got.ReplyTo)
	}
	if !reflect.DeepEqual(got.Bcc, []string{"archive@example.com"}) {
		t.Fatalf("Bcc = %v", got.Bcc)
	}
	if got.MayDelete {
		t.Fatal("MayDelete = true")
	}
}

func TestVacationResponseRoundTrip(t *testing.T) {
	from := wire.MustUTCDate(time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC))
	v := &VacationResponse{
		ID:        "singleton",
		IsEnabled: true,
		FromDate:  &from,
		Subject:   ptr.Ptr("Out of office"),
	}
	m, err := wire.Encode(v)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if m["fromDate"] != "2014-01-01T00:00:00Z" {
		t.Fatalf("fromDate = %v", m["fromDate"])
	}
	if v, present := m["toDate"]; !present || v != nil {
		t.Fatalf("toDate = %v, present = %v", v, present)
	}
	rec, err := wire.DecodeRecord(m, VacationResponseType)
	if err != nil {
		t.Fatalf("DecodeRecord error: %v", err)
	}
	back := rec.(*VacationResponse)
	if back.ID != "singleton" || !back.IsEnabled {
		t.Fatalf("round trip = %+v", back)
	}
	if back.FromDate == nil || !back.FromDate.Equal(from.Date) {
		t.Fatalf("FromDate = %v", back.FromDate)
	}
	if back.ToDate != nil || back.TextBody != nil || back.HTMLBody != nil {
		t.Fatalf("absent fields decoded non-nil: %+v", back)
	}
	if back.Subject == nil || *back.Subject != "Out of office" {
		t.Fatalf("Subject = %v", back.Subject)
	}
}
