package domain

// Server-push event published to connected dashboard clients as state
// changes. Exactly one payload field is set per kind.
type Event struct {
	Kind        EventKind     `json:"kind"`
	ShipmentRef string        `json:"shipment_ref,omitempty"`
	Activity    *Activity     `json:"activity,omitempty"`
	Shipment    *Shipment     `json:"shipment,omitempty"`
	Phase       SimPhase      `json:"phase,omitempty"`
	Draft       *PendingDraft `json:"draft,omitempty"`
}

type EventKind string

const (
	EventKindActivity         EventKind = "activity"
	EventKindStatus           EventKind = "status"
	EventKindPhase            EventKind = "phase"
	EventKindApprovalRequired EventKind = "approval_required"
)
