package handlers

import (
	"net/http"
	"strings"

	"broker-demo-service/internal/api/dto"
	"broker-demo-service/internal/domain"
	"broker-demo-service/internal/services"
)

// ActivityHandler exposes the newest-first activity feed and the
// documents view derived from it.
type ActivityHandler struct {
	Engine *services.Engine
}

func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ref := strings.TrimSpace(r.URL.Query().Get("shipment"))
	cat := strings.TrimSpace(r.URL.Query().Get("category"))
	if cat != "" && cat != string(domain.CategoryAP) && cat != string(domain.CategoryAR) {
		writeError(w, r, http.StatusBadRequest, "category must be \"ap\" or \"ar\"")
		return
	}

	acts := h.Engine.Activities(ref, domain.Category(cat))

	res := dto.ListActivitiesResponse{
		Activities: make([]dto.ActivityResponse, 0, len(acts)),
	}
	for _, a := range acts {
		res.Activities = append(res.Activities, toActivityResponse(a))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *ActivityHandler) Documents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	docs := h.Engine.Documents()

	res := dto.ListDocumentsResponse{
		Documents: make([]dto.DocumentListingResponse, 0, len(docs)),
	}
	for _, d := range docs {
		res.Documents = append(res.Documents, dto.DocumentListingResponse{
			Name:        d.Name,
			URL:         d.URL,
			ShipmentRef: d.ShipmentRef,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
