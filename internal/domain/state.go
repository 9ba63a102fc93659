package domain

// Overall phase of the demo playback.
type SimPhase string

const (
	PhaseIdle     SimPhase = "idle"
	PhaseAP       SimPhase = "ap"
	PhaseAR       SimPhase = "ar"
	PhaseComplete SimPhase = "complete"
)

// Per-shipment, per-script playback state.
type PlaybackState string

const (
	PlaybackIdle     PlaybackState = "idle"
	PlaybackRunning  PlaybackState = "running"
	PlaybackAwaiting PlaybackState = "awaiting_approval"
	PlaybackComplete PlaybackState = "complete"
)

// Playback position of one shipment, as seen by the dashboard.
type ShipmentPlayback struct {
	ShipmentRef string        `json:"shipment_ref"`
	Category    Category      `json:"category"`
	State       PlaybackState `json:"state"`
	NextStep    int           `json:"next_step"`
}

// Snapshot of the whole simulation for the dashboard.
type SimulationState struct {
	Running   bool               `json:"running"`
	Phase     SimPhase           `json:"phase"`
	StepCount int                `json:"step_count"`
	Shipments []ShipmentPlayback `json:"shipments"`
	Drafts    []PendingDraft     `json:"drafts"`
}
