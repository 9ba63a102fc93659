package dto

import "time"

type PlaybackResponse struct {
	ShipmentRef string `json:"shipment_ref"`
	Category    string `json:"category"`
	State       string `json:"state"`
	NextStep    int    `json:"next_step"`
}

type DraftResponse struct {
	ShipmentRef string    `json:"shipment_ref"`
	Category    string    `json:"category"`
	To          string    `json:"to"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

type SimulationStateResponse struct {
	Running   bool               `json:"running"`
	Phase     string             `json:"phase"`
	StepCount int                `json:"step_count"`
	Shipments []PlaybackResponse `json:"shipments"`
	Drafts    []DraftResponse    `json:"drafts"`
}

type ApproveRequest struct {
	ShipmentRef string `json:"shipment_ref"`
}
