package domain

import "time"

// Workflow side an activity belongs to.
type Category string

const (
	CategoryAP Category = "ap"
	CategoryAR Category = "ar"
)

// Scripted event kinds the engine branches on. Scenario authors may use
// additional free-form event types; only these carry engine semantics.
const (
	EventAuditComplete   = "audit_complete"
	EventApprovalGranted = "approval_granted"
)

// Reference to a pre-authored demo document attached to an activity.
type DocumentRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// A single entry in the append-only activity log. Activities are
// prepended (newest first) as scripted steps fire and are never edited.
type Activity struct {
	ID               string       `json:"id"`
	ShipmentRef      string       `json:"shipment_ref"`
	Category         Category     `json:"category"`
	Event            string       `json:"event"`
	Title            string       `json:"title"`
	Detail           string       `json:"detail"`
	OccurredAt       time.Time    `json:"occurred_at"`
	Document         *DocumentRef `json:"document,omitempty"`
	AwaitingApproval bool         `json:"awaiting_approval,omitempty"`
}
