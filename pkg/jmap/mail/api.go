package mail

import (
	"context"
	"fmt"

	"github.com/beeper/jmap-go/pkg/jmap"
	"github.com/beeper/jmap-go/pkg/jmap/wire"
)

// Resource bindings: each pairs the wire type name with the capability
// URNs its methods are called under.
var (
	MailboxResource = jmap.Resource{
		Type:  "Mailbox",
		Using: []string{jmap.CapabilityCore, jmap.CapabilityMail},
	}
	ThreadResource = jmap.Resource{
		Type:  "Thread",
		Using: []string{jmap.CapabilityCore, jmap.CapabilityMail},
	}
	EmailResource = jmap.Resource{
		Type:  "Email",
		Using: []string{jmap.CapabilityCore, jmap.CapabilityMail},
	}
	SearchSnippetResource = jmap.Resource{
		Type:  "SearchSnippet",
		Using: []string{jmap.CapabilityCore, jmap.CapabilityMail},
	}
	IdentityResource = jmap.Resource{
		Type:  "Identity",
		Using: []string{jmap.CapabilityCore, jmap.CapabilitySubmission},
	}
	EmailSubmissionResource = jmap.Resource{
		Type:  "EmailSubmission",
		Using: []string{jmap.CapabilityCore, jmap.CapabilityMail, jmap.CapabilitySubmission},
	}
	VacationResponseResource = jmap.Resource{
		Type:  "VacationResponse",
		Using: []string{jmap.CapabilityCore, jmap.CapabilityVacationResponse},
	}
)

var (
	mailboxGetResultType    = jmap.NewGetResultType[*Mailbox](MailboxType)
	threadGetResultType     = jmap.NewGetResultType[*Thread](ThreadType)
	emailGetResultType      = jmap.NewGetResultType[*Email](EmailType)
	identityGetResultType   = jmap.NewGetResultType[*Identity](IdentityType)
	submissionGetResultType = jmap.NewGetResultType[*EmailSubmission](EmailSubmissionType)
	vacationGetResultType   = jmap.NewGetResultType[*VacationResponse](VacationResponseType)
)

// resourceAPI carries the pieces shared by every typed wrapper: the
// client, the resource, the capability the account is resolved under,
// and an optional fixed account id. An empty account id resolves to the
// session's primary account on each call, so wrappers built before
// discovery still work.
type resourceAPI struct {
	client     *jmap.Client
	resource   jmap.Resource
	capability string
	accountID  wire.ID
}

func (a *resourceAPI) account() (wire.ID, error) {
	if a.accountID != "" {
		return a.accountID, nil
	}
	session := a.client.Session()
	if session == nil {
		return "", jmap.ErrNoSession
	}
	id, ok := session.PrimaryAccount(a.capability)
	if !ok {
		return "", fmt.Errorf("mail: no primary account for %s", a.capability)
	}
	return id, nil
}

func (a *resourceAPI) call(ctx context.Context, inv jmap.Invocation) (map[string]any, error) {
	return a.client.Call(ctx, a.resource.Using, inv)
}

func (a *resourceAPI) get(ctx context.Context, args jmap.GetArgs) (map[string]any, error) {
	if args.AccountID == "" {
		id, err := a.account()
		if err != nil {
			return nil, err
		}
		args.AccountID = id
	}
	return a.call(ctx, a.resource.Get("0", args))
}

func (a *resourceAPI) query(ctx context.Context, args jmap.QueryArgs) (*jmap.QueryResult, error) {
	if args.AccountID == "" {
		id, err := a.account()
		if err != nil {
			return nil, err
		}
		args.AccountID = id
	}
	inv, err := a.resource.Query("0", args)
	if err != nil {
		return nil, err
	}
	raw, err := a.call(ctx, inv)
	if err != nil {
		return nil, err
	}
	return jmap.DecodeQueryResult(raw)
}

func (a *resourceAPI) set(ctx context.Context, args jmap.SetArgs) (*jmap.SetResult, error) {
	if args.AccountID == "" {
		id, err := a.account()
		if err != nil {
			return nil, err
		}
		args.AccountID = id
	}
	raw, err := a.call(ctx, a.resource.Set("0", args))
	if err != nil {
		return nil, err
	}
	return jmap.DecodeSetResult(raw)
}

func (a *resourceAPI) changes(ctx context.Context, args jmap.ChangesArgs) (*jmap.ChangesResult, error) {
	if args.AccountID == "" {
		id, err := a.account()
		if err != nil {
			return nil, err
		}
		args.AccountID = id
	}
	raw, err := a.call(ctx, a.resource.Changes("0", args))
	if err != nil {
		return nil, err
	}
	return jmap.DecodeChangesResult(raw)
}

// MailboxAPI wraps the Mailbox/* methods.
type MailboxAPI struct {
	resourceAPI
}

// NewMailboxAPI binds the Mailbox methods to an account. An empty
// account id means the session's primary mail account.
func NewMailboxAPI(client *jmap.Client, accountID wire.ID) *MailboxAPI {
	return &MailboxAPI{resourceAPI{
		client:     client,
		resource:   MailboxResource,
		capability: jmap.CapabilityMail,
		accountID:  accountID,
	}}
}

func (a *MailboxAPI) Get(ctx context.Context, args jmap.GetArgs) (*jmap.GetResult[*Mailbox], error) {
	raw, err := a.get(ctx, args)
	if err != nil {
		return nil, err
	}
	return jmap.DecodeGetResult[*Mailbox](raw, mailboxGetResultType)
}

func (a *MailboxAPI) Query(ctx context.Context, args jmap.QueryArgs) (*jmap.QueryResult, error) {
	return a.query(ctx, args)
}

func (a *MailboxAPI) Set(ctx context.Context, args jmap.SetArgs) (*jmap.SetResult, error) {
	return a.set(ctx, args)
}

func (a *MailboxAPI) Changes(ctx context.Context, args jmap.ChangesArgs) (*jmap.ChangesResult, error) {
	return a.changes(ctx, args)
}

// ThreadAPI wraps the Thread/* methods. Threads are server-computed, so
// only get and changes exist.
type ThreadAPI struct {
	resourceAPI
}

// NewThreadAPI binds the Thread methods to an account.
func NewThreadAPI(client *jmap.Client, accountID wire.ID) *ThreadAPI {
	return &ThreadAPI{resourceAPI{
		client:     client,
		resource:   ThreadResource,
		capability: jmap.CapabilityMail,
		accountID:  accountID,
	}}
}

func (a *ThreadAPI) Get(ctx context.Context, args jmap.GetArgs) (*jmap.GetResult[*Thread], error) {
	raw, err := a.get(ctx, args)
	if err != nil {
		return nil, err
	}
	return jmap.DecodeGetResult[*Thread](raw, threadGetResultType)
}

func (a *ThreadAPI) Changes(ctx context.Context, args jmap.ChangesArgs) (*jmap.ChangesResult, error) {
	return a.changes(ctx, args)
}

// EmailAPI wraps the Email/* methods plus SearchSnippet/get, which is
// keyed by email ids and shares the mail capability.
type EmailAPI struct {
	resourceAPI
}

// NewEmailAPI binds the Email methods to an account.
func NewEmailAPI(client *jmap.Client, accountID wire.ID) *EmailAPI {
	return &EmailAPI{resourceAPI{
		client:     client,
		resource:   EmailResource,
		capability: jmap.CapabilityMail,
		accountID:  accountID,
	}}
}

func (a *EmailAPI) Get(ctx context.Context, args jmap.GetArgs) (*jmap.GetResult[*Email], error) {
	raw, err := a.get(ctx, args)
	if err != nil {
		return nil, err
	}
	return jmap.DecodeGetResult[*Email](raw, emailGetResultType)
}

func (a *EmailAPI) Query(ctx context.Context, args jmap.QueryArgs) (*jmap.QueryResult, error) {
	return a.query(ctx, args)
}

func (a *EmailAPI) Set(ctx context.Context, args jmap.SetArgs) (*jmap.SetResult, error) {
	return a.set(ctx, args)
}

func (a *EmailAPI) Changes(ctx context.Context, args jmap.ChangesArgs) (*jmap.ChangesResult, error) {
	return a.changes(ctx, args)
}

// SearchSnippets fetches match highlights for the given emails. The
// filter should be the one the email list was queried with; nil fetches
// plain previews.
func (a *EmailAPI) SearchSnippets(ctx context.Context, filter jmap.Filter, emailIDs ...wire.ID) (*SearchSnippetResult, error) {
	accountID, err := a.account()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(emailIDs))
	for i, id := range emailIDs {
		ids[i] = string(id)
	}
	args := map[string]any{
		"accountId": string(accountID),
		"emailIds":  ids,
	}
	if filter != nil {
		fm, err := filter.FilterMap()
		if err != nil {
			return nil, fmt.Errorf("mail: invalid filter: %w", err)
		}
		args["filter"] = fm
	}
	inv := jmap.Invocation{Name: SearchSnippetResource.Type + "/get", Args: args, CallID: "0"}
	raw, err := a.client.Call(ctx, SearchSnippetResource.Using, inv)
	if err != nil {
		return nil, err
	}
	rec, err := wire.DecodeRecord(raw, searchSnippetResultType)
	if err != nil {
		return nil, err
	}
	return rec.(*SearchSnippetResult), nil
}

// IdentityAPI wraps the Identity/* methods.
type IdentityAPI struct {
	resourceAPI
}

// NewIdentityAPI binds the Identity methods to an account.
func NewIdentityAPI(client *jmap.Client, accountID wire.ID) *IdentityAPI {
	return &IdentityAPI{resourceAPI{
		client:     client,
		resource:   IdentityResource,
		capability: jmap.CapabilitySubmission,
		accountID:  accountID,
	}}
}

func (a *IdentityAPI) Get(ctx context.Context, args jmap.GetArgs) (*jmap.GetResult[*Identity], error) {
	raw, err := a.get(ctx, args)
	if err != nil {
		return nil, err
	}
	return jmap.DecodeGetResult[*Identity](raw, identityGetResultType)
}

func (a *IdentityAPI) Set(ctx context.Context, args jmap.SetArgs) (*jmap.SetResult, error) {
	return a.set(ctx, args)
}

func (a *IdentityAPI) Changes(ctx context.Context, args jmap.ChangesArgs) (*jmap.ChangesResult, error) {
	return a.changes(ctx, args)
}

// EmailSubmissionAPI wraps the EmailSubmission/* methods.
type EmailSubmissionAPI struct {
	resourceAPI
}

// NewEmailSubmissionAPI binds the EmailSubmission methods to an account.
func NewEmailSubmissionAPI(client *jmap.Client, accountID wire.ID) *EmailSubmissionAPI {
	return &EmailSubmissionAPI{resourceAPI{
		client:     client,
		resource:   EmailSubmissionResource,
		capability: jmap.CapabilitySubmission,
		accountID:  accountID,
	}}
}

func (a *EmailSubmissionAPI) Get(ctx context.Context, args jmap.GetArgs) (*jmap.GetResult[*EmailSubmission], error) {
	raw, err := a.get(ctx, args)
	if err != nil {
		return nil, err
	}
	return jmap.DecodeGetResult[*EmailSubmission](raw, submissionGetResultType)
}

func (a *EmailSubmissionAPI) Set(ctx context.Context, args jmap.SetArgs) (*jmap.SetResult, error) {
	return a.set(ctx, args)
}

func (a *EmailSubmissionAPI) Changes(ctx context.Context, args jmap.ChangesArgs) (*jmap.ChangesResult, error) {
	return a.changes(ctx, args)
}

// VacationResponseAPI wraps the VacationResponse/* methods. The record
// is a singleton, so only get and set exist.
type VacationResponseAPI struct {
	resourceAPI
}

// NewVacationResponseAPI binds the VacationResponse methods to an account.
func NewVacationResponseAPI(client *jmap.Client, accountID wire.ID) *VacationResponseAPI {
	return &VacationResponseAPI{resourceAPI{
		client:     client,
		resource:   VacationResponseResource,
		capability: jmap.CapabilityVacationResponse,
		accountID:  accountID,
	}}
}

func (a *VacationResponseAPI) Get(ctx context.Context, args jmap.GetArgs) (*jmap.GetResult[*VacationResponse], error) {
	raw, err := a.get(ctx, args)
	if err != nil {
		return nil, err
	}
	return jmap.DecodeGetResult[*VacationResponse](raw, vacationGetResultType)
}

func (a *VacationResponseAPI) Set(ctx context.Context, args jmap.SetArgs) (*jmap.SetResult, error) {
	return a.set(ctx, args)
}

// APIs bundles every typed wrapper for one client and account.
type APIs struct {
	Mailbox          *MailboxAPI
	Thread           *ThreadAPI
	Email            *EmailAPI
	Identity         *IdentityAPI
	EmailSubmission  *EmailSubmissionAPI
	VacationResponse *VacationResponseAPI
}

// NewAPIs builds the full wrapper set. An empty account id resolves each
// resource against the primary account of its own capability.
func NewAPIs(client *jmap.Client, accountID wire.ID) *APIs {
	return &APIs{
		Mailbox:          NewMailboxAPI(client, accountID),
		Thread:           NewThreadAPI(client, accountID),
		Email:            NewEmailAPI(client, accountID),
		Identity:         NewIdentityAPI(client, accountID),
		EmailSubmission:  NewEmailSubmissionAPI(client, accountID),
		VacationResponse: NewVacationResponseAPI(client, accountID),
	}
}
