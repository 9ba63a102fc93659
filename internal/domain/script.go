package domain

import "time"

// Draft email produced by an approval-gated step. The draft sits with the
// shipment until a human approves it; nothing is ever actually sent.
type EmailDraft struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// One authored entry in a shipment's playback script. Steps are composed
// per shipment at reset (placeholders already substituted) and are
// immutable during playback.
type SimStep struct {
	Delay            time.Duration
	Event            string
	Title            string
	Detail           string
	Status           string // applied to APStatus or ARStatus depending on the script
	Document         *DocumentRef
	RequiresApproval bool
	Draft            *EmailDraft
}

// The composed, immutable scripts for one shipment.
type Script struct {
	ShipmentRef string
	AP          []SimStep
	AR          []SimStep
}

// A gated draft waiting on human approval, surfaced to the dashboard.
type PendingDraft struct {
	ShipmentRef string     `json:"shipment_ref"`
	Category    Category   `json:"category"`
	Draft       EmailDraft `json:"draft"`
	CreatedAt   time.Time  `json:"created_at"`
}
