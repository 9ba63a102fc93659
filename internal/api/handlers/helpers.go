package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"broker-demo-service/internal/api/dto"
	"broker-demo-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func toShipmentResponse(sh domain.Shipment) dto.ShipmentResponse {
	return dto.ShipmentResponse{
		Ref:                  sh.Ref,
		Origin:               sh.Origin,
		Destination:          sh.Destination,
		Carrier:              sh.Carrier,
		Shipper:              sh.Shipper,
		CarrierRateCents:     int64(sh.CarrierRate),
		InvoiceAmountCents:   int64(sh.InvoiceAmount),
		DetentionChargeCents: int64(sh.DetentionCharge),
		APStatus:             string(sh.APStatus),
		ARStatus:             string(sh.ARStatus),
		PendingAction:        sh.PendingAction,
	}
}

func toActivityResponse(a domain.Activity) dto.ActivityResponse {
	res := dto.ActivityResponse{
		ID:               a.ID,
		ShipmentRef:      a.ShipmentRef,
		Category:         string(a.Category),
		Event:            a.Event,
		Title:            a.Title,
		Detail:           a.Detail,
		OccurredAt:       a.OccurredAt,
		AwaitingApproval: a.AwaitingApproval,
	}
	if a.Document != nil {
		res.Document = &dto.DocumentResponse{Name: a.Document.Name, URL: a.Document.URL}
	}
	return res
}
