package jmap

// Capability URNs negotiated during discovery and echoed in the using
// list of every request.
const (
	CapabilityCore             = "urn:ietf:params:jmap:core"
	CapabilityMail             = "urn:ietf:params:jmap:mail"
	CapabilitySubmission       = "urn:ietf:params:jmap:submission"
	CapabilityVacationResponse = "urn:ietf:params:jmap:vacationresponse"
	CapabilityContacts         = "urn:ietf:params:jmap:contacts"
	CapabilityCalendars        = "urn:ietf:params:jmap:calendars"
	CapabilityWebSocket        = "urn:ietf:params:jmap:websocket"
)
