package services

import (
	"container/heap"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"broker-demo-service/internal/domain"
	"broker-demo-service/internal/ports"
	"broker-demo-service/internal/scenario"
)

var (
	ErrAlreadyRunning  = errors.New("simulation already running")
	ErrNotPaused       = errors.New("simulation is not paused")
	ErrNotStarted      = errors.New("simulation has not been started")
	ErrUnknownShipment = errors.New("unknown shipment")
	ErrNoPendingDraft  = errors.New("shipment has no pending draft")
)

type Config struct {
	Scenario *scenario.Scenario
	Clock    ports.Clock
	Sink     ports.EventSink

	// TimeScale divides authored step delays for faster demos. Zero means 1.
	TimeScale float64
}

// Engine owns all simulation state behind one mutex and plays the
// scenario scripts: one state machine per shipment per workflow side,
// advanced by a single due-time queue. Commands (start, pause, resume,
// approve, reset) and read-side queries are all entry points on Engine;
// the real-time driver lives in Run.
type Engine struct {
	mu    sync.Mutex
	scn   *scenario.Scenario
	clock ports.Clock
	sink  ports.EventSink
	scale float64

	shipments  []*domain.Shipment // seed order
	byRef      map[string]*domain.Shipment
	scripts    map[string]domain.Script
	tracks     map[string]*shipmentTracks
	activities []domain.Activity // newest first
	drafts     map[string]domain.PendingDraft

	queue     stepQueue
	seq       int
	phase     domain.SimPhase
	running   bool
	stepCount int

	wake chan struct{}
}

// Playback machines for one shipment. AP and AR can overlap briefly:
// the handoff fires on the audit-complete event while the AP script may
// still have a payment step left.
type shipmentTracks struct {
	ap track
	ar track
}

type track struct {
	state domain.PlaybackState
	next  int // index of the next step to fire; after a gate, the recorded resume index
}

func (t *shipmentTracks) byCategory(c domain.Category) *track {
	if c == domain.CategoryAP {
		return &t.ap
	}
	return &t.ar
}

func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Scenario == nil {
		return nil, errors.New("new engine: scenario must not be nil")
	}
	if cfg.Clock == nil {
		return nil, errors.New("new engine: clock must not be nil")
	}

	scale := cfg.TimeScale
	if scale == 0 {
		scale = 1
	}
	if scale < 0 {
		return nil, fmt.Errorf("new engine: time scale must be positive, got %v", scale)
	}

	sink := cfg.Sink
	if sink == nil {
		sink = nopSink{}
	}

	e := &Engine{
		scn:   cfg.Scenario,
		clock: cfg.Clock,
		sink:  sink,
		scale: scale,
		wake:  make(chan struct{}, 1),
	}
	e.seed()
	return e, nil
}

type nopSink struct{}

func (nopSink) Publish(domain.Event) {}

// seed rebuilds all mutable state wholesale from the scenario.
// Caller holds the lock (or the engine is not yet shared).
func (e *Engine) seed() {
	e.shipments = e.scn.Seeds()
	e.byRef = make(map[string]*domain.Shipment, len(e.shipments))
	e.scripts = make(map[string]domain.Script, len(e.shipments))
	e.tracks = make(map[string]*shipmentTracks, len(e.shipments))
	for _, sh := range e.shipments {
		e.byRef[sh.Ref] = sh
		e.scripts[sh.Ref] = e.scn.Compose(sh)
		e.tracks[sh.Ref] = &shipmentTracks{
			ap: track{state: domain.PlaybackIdle},
			ar: track{state: domain.PlaybackIdle},
		}
	}
	e.activities = nil
	e.drafts = make(map[string]domain.PendingDraft)
	e.queue = nil
	e.phase = domain.PhaseIdle
	e.running = false
	e.stepCount = 0
}

// Start re-seeds from the scenario and begins AP playback for every
// shipment, staggered by the scenario's fixed offset.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return ErrAlreadyRunning
	}

	e.seed()
	e.running = true
	e.setPhase(domain.PhaseAP)

	now := e.clock.Now()
	for i, sh := range e.shipments {
		script := e.scripts[sh.Ref]
		if len(script.AP) == 0 {
			continue
		}
		tr := e.tracks[sh.Ref].byCategory(domain.CategoryAP)
		tr.state = domain.PlaybackRunning
		tr.next = 0

		offset := time.Duration(i) * e.scaled(e.scn.Stagger())
		e.schedule(sh.Ref, domain.CategoryAP, 0, now.Add(offset+e.scaled(script.AP[0].Delay)))
	}

	log.Printf("simulation started shipments=%d stagger=%s", len(e.shipments), e.scn.Stagger())
	return nil
}

// Pause stops playback and drains the whole queue. Cancellation is
// deliberately coarse: no per-shipment selective cancellation exists.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return ErrNotStarted
	}

	e.running = false
	e.queue = nil
	e.notify()

	log.Printf("simulation paused step_count=%d", e.stepCount)
	return nil
}

// Resume restarts playback after Pause. Every track that was mid-script
// gets its next step rescheduled from its authored delay; shipments
// awaiting approval stay halted until approved.
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return ErrAlreadyRunning
	}
	if e.phase == domain.PhaseIdle || e.phase == domain.PhaseComplete {
		return ErrNotPaused
	}

	e.running = true
	now := e.clock.Now()
	for _, sh := range e.shipments {
		e.rescheduleTrack(sh.Ref, domain.CategoryAP, now)
		e.rescheduleTrack(sh.Ref, domain.CategoryAR, now)
	}

	log.Printf("simulation resumed step_count=%d", e.stepCount)
	return nil
}

func (e *Engine) rescheduleTrack(ref string, cat domain.Category, now time.Time) {
	tr := e.tracks[ref].byCategory(cat)
	if tr.state != domain.PlaybackRunning {
		return
	}
	steps := e.steps(ref, cat)
	if tr.next >= len(steps) {
		return
	}
	e.schedule(ref, cat, tr.next, now.Add(e.scaled(steps[tr.next].Delay)))
}

// Approve releases a gated draft: the draft is discarded, an approval
// activity is logged and playback resumes at the recorded resume index
// (the step immediately following the gate), never from the start.
func (e *Engine) Approve(shipmentRef string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	sh, ok := e.byRef[shipmentRef]
	if !ok {
		return fmt.Errorf("approve %q: %w", shipmentRef, ErrUnknownShipment)
	}
	draft, ok := e.drafts[shipmentRef]
	if !ok {
		return fmt.Errorf("approve %q: %w", shipmentRef, ErrNoPendingDraft)
	}

	delete(e.drafts, shipmentRef)
	sh.PendingAction = false

	tr := e.tracks[shipmentRef].byCategory(draft.Category)
	tr.state = domain.PlaybackRunning

	now := e.clock.Now()
	e.appendActivity(domain.Activity{
		ID:          uuid.NewString(),
		ShipmentRef: shipmentRef,
		Category:    draft.Category,
		Event:       domain.EventApprovalGranted,
		Title:       "Draft approved",
		Detail:      fmt.Sprintf("Human approved the drafted email %q.", draft.Draft.Subject),
		OccurredAt:  now,
	})

	// A gated audit-complete step defers the handoff until approval.
	steps := e.steps(shipmentRef, draft.Category)
	if draft.Category == domain.CategoryAP && tr.next > 0 && steps[tr.next-1].Event == domain.EventAuditComplete {
		e.startAR(shipmentRef, now)
	}

	if tr.next >= len(steps) {
		// The gate was the script's last step; nothing is left to schedule.
		tr.state = domain.PlaybackComplete
		e.checkComplete()
	} else if e.running {
		// When paused, the track stays marked running and Resume reschedules it.
		e.rescheduleTrack(shipmentRef, draft.Category, now)
	}

	log.Printf("draft approved shipment=%s category=%s resume_step=%d", shipmentRef, draft.Category, tr.next)
	return nil
}

// Reset drops everything and replaces state wholesale from the seeds.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.seed()
	e.notify()
	e.sink.Publish(domain.Event{Kind: domain.EventKindPhase, Phase: e.phase})
	log.Printf("simulation reset shipments=%d", len(e.shipments))
}

// Advance fires every queued step due at or before now. The run loop
// calls this on timer expiry; tests call it directly with a manual clock.
func (e *Engine) Advance(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for len(e.queue) > 0 && !e.queue[0].due.After(now) {
		item := heap.Pop(&e.queue).(scheduledStep)
		e.fire(item, now)
	}
}

// nextDue reports the earliest queued due time, if any.
func (e *Engine) nextDue() (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return time.Time{}, false
	}
	return e.queue[0].due, true
}

func (e *Engine) fire(item scheduledStep, now time.Time) {
	sh := e.byRef[item.shipmentRef]
	tr := e.tracks[item.shipmentRef].byCategory(item.category)
	steps := e.steps(item.shipmentRef, item.category)

	// Stale queue entries cannot survive a drain, but the machine is the
	// source of truth: only the expected next step of a running track fires.
	if tr.state != domain.PlaybackRunning || item.index != tr.next || item.index >= len(steps) {
		return
	}

	step := steps[item.index]
	e.stepCount++

	e.appendActivity(domain.Activity{
		ID:               uuid.NewString(),
		ShipmentRef:      sh.Ref,
		Category:         item.category,
		Event:            step.Event,
		Title:            step.Title,
		Detail:           step.Detail,
		OccurredAt:       now,
		Document:         step.Document,
		AwaitingApproval: step.RequiresApproval,
	})

	if step.Status != "" {
		e.applyStatus(sh, item.category, step.Status)
	}

	if step.RequiresApproval {
		draft := domain.PendingDraft{
			ShipmentRef: sh.Ref,
			Category:    item.category,
			Draft:       *step.Draft,
			CreatedAt:   now,
		}
		e.drafts[sh.Ref] = draft
		sh.PendingAction = true
		tr.state = domain.PlaybackAwaiting
		tr.next = item.index + 1 // recorded resume index; the gate never replays
		e.sink.Publish(domain.Event{Kind: domain.EventKindApprovalRequired, ShipmentRef: sh.Ref, Draft: &draft})
		return
	}

	tr.next = item.index + 1
	if tr.next < len(steps) {
		e.schedule(sh.Ref, item.category, tr.next, now.Add(e.scaled(steps[tr.next].Delay)))
	} else {
		tr.state = domain.PlaybackComplete
	}

	// AP→AR handoff: one-way, fired by the audit-complete event, after a
	// fixed extra delay. The AP script may keep playing past this point.
	if item.category == domain.CategoryAP && step.Event == domain.EventAuditComplete {
		e.startAR(sh.Ref, now)
	}

	e.checkComplete()
}

func (e *Engine) startAR(ref string, now time.Time) {
	arTr := e.tracks[ref].byCategory(domain.CategoryAR)
	if arTr.state != domain.PlaybackIdle {
		return
	}
	script := e.scripts[ref]
	if len(script.AR) == 0 {
		arTr.state = domain.PlaybackComplete
		return
	}

	arTr.state = domain.PlaybackRunning
	arTr.next = 0
	// When paused (approval granted mid-pause), Resume does the scheduling.
	if e.running {
		e.schedule(ref, domain.CategoryAR, 0, now.Add(e.scaled(e.scn.ARHandoffDelay())+e.scaled(script.AR[0].Delay)))
	}

	if e.phase == domain.PhaseAP {
		e.setPhase(domain.PhaseAR)
	}
}

func (e *Engine) checkComplete() {
	for _, tracks := range e.tracks {
		if tracks.ap.state != domain.PlaybackComplete || tracks.ar.state != domain.PlaybackComplete {
			return
		}
	}
	e.running = false
	e.setPhase(domain.PhaseComplete)
	log.Printf("simulation complete step_count=%d", e.stepCount)
}

func (e *Engine) applyStatus(sh *domain.Shipment, cat domain.Category, status string) {
	if cat == domain.CategoryAP {
		sh.APStatus = domain.APStatus(status)
	} else {
		sh.ARStatus = domain.ARStatus(status)
	}
	snap := *sh
	e.sink.Publish(domain.Event{Kind: domain.EventKindStatus, ShipmentRef: sh.Ref, Shipment: &snap})
}

func (e *Engine) appendActivity(a domain.Activity) {
	// Newest first: the dashboard renders the feed top-down.
	e.activities = append([]domain.Activity{a}, e.activities...)
	e.sink.Publish(domain.Event{Kind: domain.EventKindActivity, ShipmentRef: a.ShipmentRef, Activity: &a})
}

func (e *Engine) setPhase(p domain.SimPhase) {
	e.phase = p
	e.sink.Publish(domain.Event{Kind: domain.EventKindPhase, Phase: p})
}

func (e *Engine) schedule(ref string, cat domain.Category, index int, due time.Time) {
	e.seq++
	heap.Push(&e.queue, scheduledStep{
		due:         due,
		seq:         e.seq,
		shipmentRef: ref,
		category:    cat,
		index:       index,
	})
	e.notify()
}

// notify wakes the run loop so it re-reads the queue head.
func (e *Engine) notify() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

func (e *Engine) steps(ref string, cat domain.Category) []domain.SimStep {
	script := e.scripts[ref]
	if cat == domain.CategoryAP {
		return script.AP
	}
	return script.AR
}

func (e *Engine) scaled(d time.Duration) time.Duration {
	if e.scale == 1 {
		return d
	}
	return time.Duration(float64(d) / e.scale)
}
