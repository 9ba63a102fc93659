package services

import (
	"sort"

	"broker-demo-service/internal/domain"
)

// Per-status shipment counts for the dashboard's filter chips. Counts
// always cover the whole board, independent of any active filter.
type StatusCounts struct {
	AP map[domain.APStatus]int `json:"ap"`
	AR map[domain.ARStatus]int `json:"ar"`
}

// A document surfaced by a fired activity, for the documents view.
type DocumentListing struct {
	domain.DocumentRef
	ShipmentRef string `json:"shipment_ref"`
}

// Snapshot returns the full simulation state for the dashboard.
func (e *Engine) Snapshot() domain.SimulationState {
	e.mu.Lock()
	defer e.mu.Unlock()

	playbacks := make([]domain.ShipmentPlayback, 0, 2*len(e.shipments))
	for _, sh := range e.shipments {
		tracks := e.tracks[sh.Ref]
		playbacks = append(playbacks,
			domain.ShipmentPlayback{
				ShipmentRef: sh.Ref,
				Category:    domain.CategoryAP,
				State:       tracks.ap.state,
				NextStep:    tracks.ap.next,
			},
			domain.ShipmentPlayback{
				ShipmentRef: sh.Ref,
				Category:    domain.CategoryAR,
				State:       tracks.ar.state,
				NextStep:    tracks.ar.next,
			},
		)
	}

	return domain.SimulationState{
		Running:   e.running,
		Phase:     e.phase,
		StepCount: e.stepCount,
		Shipments: playbacks,
		Drafts:    e.draftsLocked(),
	}
}

// Shipments returns the (optionally filtered) shipment list in seed
// order plus unfiltered per-status counts.
func (e *Engine) Shipments(apFilter domain.APStatus, arFilter domain.ARStatus) ([]domain.Shipment, StatusCounts) {
	e.mu.Lock()
	defer e.mu.Unlock()

	counts := StatusCounts{
		AP: make(map[domain.APStatus]int),
		AR: make(map[domain.ARStatus]int),
	}

	out := make([]domain.Shipment, 0, len(e.shipments))
	for _, sh := range e.shipments {
		counts.AP[sh.APStatus]++
		counts.AR[sh.ARStatus]++

		if apFilter != "" && sh.APStatus != apFilter {
			continue
		}
		if arFilter != "" && sh.ARStatus != arFilter {
			continue
		}
		out = append(out, *sh)
	}
	return out, counts
}

// Shipment returns one shipment with its activities (newest first).
func (e *Engine) Shipment(ref string) (domain.Shipment, []domain.Activity, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sh, ok := e.byRef[ref]
	if !ok {
		return domain.Shipment{}, nil, ErrUnknownShipment
	}

	acts := make([]domain.Activity, 0, 8)
	for _, a := range e.activities {
		if a.ShipmentRef == ref {
			acts = append(acts, a)
		}
	}
	return *sh, acts, nil
}

// Activities returns the newest-first feed, optionally filtered by
// shipment and/or category.
func (e *Engine) Activities(ref string, cat domain.Category) []domain.Activity {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]domain.Activity, 0, len(e.activities))
	for _, a := range e.activities {
		if ref != "" && a.ShipmentRef != ref {
			continue
		}
		if cat != "" && a.Category != cat {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Documents lists every document referenced by a fired activity, newest
// first, deduplicated per shipment.
func (e *Engine) Documents() []DocumentListing {
	e.mu.Lock()
	defer e.mu.Unlock()

	seen := map[string]struct{}{}
	out := make([]DocumentListing, 0, len(e.activities))
	for _, a := range e.activities {
		if a.Document == nil {
			continue
		}
		key := a.ShipmentRef + "|" + a.Document.URL
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, DocumentListing{
			DocumentRef: *a.Document,
			ShipmentRef: a.ShipmentRef,
		})
	}
	return out
}

// Drafts lists gated drafts waiting on approval, oldest first.
func (e *Engine) Drafts() []domain.PendingDraft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draftsLocked()
}

func (e *Engine) draftsLocked() []domain.PendingDraft {
	out := make([]domain.PendingDraft, 0, len(e.drafts))
	for _, d := range e.drafts {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ShipmentRef < out[j].ShipmentRef
	})
	return out
}
