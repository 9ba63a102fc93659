package dto

import "time"

type DocumentResponse struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type ActivityResponse struct {
	ID               string            `json:"id"`
	ShipmentRef      string            `json:"shipment_ref"`
	Category         string            `json:"category"`
	Event            string            `json:"event"`
	Title            string            `json:"title"`
	Detail           string            `json:"detail"`
	OccurredAt       time.Time         `json:"occurred_at"`
	Document         *DocumentResponse `json:"document,omitempty"`
	AwaitingApproval bool              `json:"awaiting_approval,omitempty"`
}

type ListActivitiesResponse struct {
	Activities []ActivityResponse `json:"activities"`
}

type DocumentListingResponse struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	ShipmentRef string `json:"shipment_ref"`
}

type ListDocumentsResponse struct {
	Documents []DocumentListingResponse `json:"documents"`
}
