package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"broker-demo-service/internal/api/dto"
	"broker-demo-service/internal/domain"
	"broker-demo-service/internal/platform/obs"
	"broker-demo-service/internal/services"
)

// SimulationHandler is the control surface of the demo: read the
// playback state and apply the start/pause/resume/approve/reset
// commands. Every command responds with the resulting state snapshot.
type SimulationHandler struct {
	Engine *services.Engine
}

func (h *SimulationHandler) State(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, r, http.StatusOK, toStateResponse(h.Engine.Snapshot()))
}

func (h *SimulationHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, "simulation.start", h.Engine.Start)
}

func (h *SimulationHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, "simulation.pause", h.Engine.Pause)
}

func (h *SimulationHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, "simulation.resume", h.Engine.Resume)
}

func (h *SimulationHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, "simulation.reset", func() error {
		h.Engine.Reset()
		return nil
	})
}

func (h *SimulationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.ApproveRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	ref := strings.TrimSpace(req.ShipmentRef)
	if ref == "" {
		writeError(w, r, http.StatusBadRequest, "shipment_ref is required")
		return
	}

	var err error
	done := obs.Time(r.Context(), "simulation.approve")
	err = h.Engine.Approve(ref)
	done(&err)

	if err != nil {
		writeCommandError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toStateResponse(h.Engine.Snapshot()))
}

func (h *SimulationHandler) command(w http.ResponseWriter, r *http.Request, name string, run func() error) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var err error
	done := obs.Time(r.Context(), name)
	err = run()
	done(&err)

	if err != nil {
		writeCommandError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toStateResponse(h.Engine.Snapshot()))
}

func writeCommandError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrUnknownShipment):
		writeError(w, r, http.StatusNotFound, "unknown shipment")
	case errors.Is(err, services.ErrAlreadyRunning),
		errors.Is(err, services.ErrNotPaused),
		errors.Is(err, services.ErrNotStarted),
		errors.Is(err, services.ErrNoPendingDraft):
		writeError(w, r, http.StatusConflict, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func toStateResponse(st domain.SimulationState) dto.SimulationStateResponse {
	res := dto.SimulationStateResponse{
		Running:   st.Running,
		Phase:     string(st.Phase),
		StepCount: st.StepCount,
		Shipments: make([]dto.PlaybackResponse, 0, len(st.Shipments)),
		Drafts:    make([]dto.DraftResponse, 0, len(st.Drafts)),
	}
	for _, p := range st.Shipments {
		res.Shipments = append(res.Shipments, dto.PlaybackResponse{
			ShipmentRef: p.ShipmentRef,
			Category:    string(p.Category),
			State:       string(p.State),
			NextStep:    p.NextStep,
		})
	}
	for _, d := range st.Drafts {
		res.Drafts = append(res.Drafts, dto.DraftResponse{
			ShipmentRef: d.ShipmentRef,
			Category:    string(d.Category),
			To:          d.Draft.To,
			Subject:     d.Draft.Subject,
			Body:        d.Draft.Body,
			CreatedAt:   d.CreatedAt,
		})
	}
	return res
}
