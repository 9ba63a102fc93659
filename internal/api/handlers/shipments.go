package handlers

import (
	"errors"
	"net/http"
	"strings"

	"broker-demo-service/internal/api/dto"
	"broker-demo-service/internal/domain"
	"broker-demo-service/internal/services"
)

// ShipmentHandler exposes read-only shipment views derived from the
// engine: the filtered board list with status-bucket counts, and a
// per-shipment detail with its activity history.
type ShipmentHandler struct {
	Engine *services.Engine
}

func (h *ShipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	apFilter := domain.APStatus(strings.TrimSpace(r.URL.Query().Get("ap_status")))
	arFilter := domain.ARStatus(strings.TrimSpace(r.URL.Query().Get("ar_status")))

	shipments, counts := h.Engine.Shipments(apFilter, arFilter)

	res := dto.ListShipmentsResponse{
		Shipments: make([]dto.ShipmentResponse, 0, len(shipments)),
		APCounts:  make(map[string]int, len(counts.AP)),
		ARCounts:  make(map[string]int, len(counts.AR)),
	}
	for _, sh := range shipments {
		res.Shipments = append(res.Shipments, toShipmentResponse(sh))
	}
	for s, n := range counts.AP {
		res.APCounts[string(s)] = n
	}
	for s, n := range counts.AR {
		res.ARCounts[string(s)] = n
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *ShipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ref := strings.TrimPrefix(r.URL.Path, "/api/shipments/")
	if ref == "" || strings.Contains(ref, "/") {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}

	sh, acts, err := h.Engine.Shipment(ref)
	if err != nil {
		if errors.Is(err, services.ErrUnknownShipment) {
			writeError(w, r, http.StatusNotFound, "unknown shipment")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ShipmentDetailResponse{
		Shipment:   toShipmentResponse(sh),
		Activities: make([]dto.ActivityResponse, 0, len(acts)),
	}
	for _, a := range acts {
		res.Activities = append(res.Activities, toActivityResponse(a))
	}

	writeJSON(w, r, http.StatusOK, res)
}
