package svc

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/z2hue/bridge/internal/model"
)

// ShutdownTimeout bounds how long Shutdown waits, in total, for every
// registered service to report Stopped before forcing an abort.
const ShutdownTimeout = 3 * time.Second

// ServiceFunc is the contract a registered service's goroutine fulfills: run
// until ctx is canceled, observing cmd for target-state requests (Running to
// start doing real work, Stopped to wind down) and reporting every state
// transition it makes on events. The closure decides when to read cmd; only
// states it sends on events are authoritative.
type ServiceFunc func(ctx context.Context, id uuid.UUID, cmd <-chan ServiceState, events chan<- Event)

// Event reports a service's own observation of its state.
type Event struct {
	ID    uuid.UUID
	State ServiceState
}

// Handle identifies a registered service, either by its UUID or by the
// unique name it was registered under.
type Handle struct {
	id     uuid.UUID
	name   string
	byName bool
}

// ByID builds a Handle addressing a service by its UUID.
func ByID(id uuid.UUID) Handle { return Handle{id: id} }

// ByName builds a Handle addressing a service by its registered name.
func ByName(name string) Handle { return Handle{name: name, byName: true} }

// ListEntry is one row of Manager.List's result.
type ListEntry struct {
	ID   uuid.UUID
	Name string
}

type instance struct {
	name   string
	state  ServiceState
	cmd    chan ServiceState
	cancel context.CancelFunc
}

// Recorder observes every service state transition the Manager applies, for
// audit logging. RecordTransition must not block meaningfully; the Manager
// calls it inline on its own goroutine.
type Recorder interface {
	RecordTransition(id uuid.UUID, name string, from, to ServiceState)
}

// Manager supervises a set of registered services from a single owning
// goroutine: all registry mutation and state bookkeeping happens on that
// goroutine, driven by requests arriving over control (capacity 32) and
// service-reported events arriving over events (capacity 32). Callers use a
// Client to talk to a running Manager.
type Manager struct {
	control chan request
	events  chan Event

	svcs  map[uuid.UUID]*instance
	names map[string]uuid.UUID

	parentCtx context.Context
	shutdown  bool
	recorder  Recorder
}

// New creates a Manager. ctx is the parent context every registered
// service's goroutine is derived from; canceling it tears down every
// service without going through an orderly Shutdown.
func New(ctx context.Context) *Manager {
	return &Manager{
		control:   make(chan request, 32),
		events:    make(chan Event, 32),
		svcs:      make(map[uuid.UUID]*instance),
		names:     make(map[string]uuid.UUID),
		parentCtx: ctx,
	}
}

// SetRecorder installs r to observe every subsequent state transition. Not
// safe to call concurrently with Run.
func (m *Manager) SetRecorder(r Recorder) { m.recorder = r }

// Client returns a handle for submitting requests to this Manager. Safe to
// share across goroutines; each call blocks until Run has consumed the
// request and replied.
func (m *Manager) Client() *Client { return &Client{control: m.control} }

// Run drives the main loop until Shutdown is requested or ctx is canceled.
// It must run on its own goroutine; every registry mutation happens here.
func (m *Manager) Run(ctx context.Context) error {
	for !m.shutdown {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-m.control:
			req.apply(m)
		case ev := <-m.events:
			m.handleEvent(ev)
		}
	}
	return nil
}

func (m *Manager) handleEvent(ev Event) {
	svc, ok := m.svcs[ev.ID]
	if !ok {
		return
	}
	log.Trace().Str("service", svc.name).Str("state", ev.State.String()).Msg("service state changed")
	from := svc.state
	svc.state = ev.State
	if m.recorder != nil {
		m.recorder.RecordTransition(ev.ID, svc.name, from, ev.State)
	}
}

func (m *Manager) resolve(h Handle) (uuid.UUID, error) {
	if h.byName {
		id, ok := m.names[h.name]
		if !ok {
			return uuid.UUID{}, model.ServiceNotFound(h.name)
		}
		return id, nil
	}
	if _, ok := m.svcs[h.id]; !ok {
		return uuid.UUID{}, model.ServiceNotFound(h.id.String())
	}
	return h.id, nil
}

func (m *Manager) register(name string, fn ServiceFunc) (uuid.UUID, error) {
	if _, exists := m.names[name]; exists {
		return uuid.UUID{}, model.ServiceAlreadyExists(name)
	}

	id := uuid.New()
	runCtx, cancel := context.WithCancel(m.parentCtx)
	cmd := make(chan ServiceState, 4)

	m.svcs[id] = &instance{name: name, state: Registered, cmd: cmd, cancel: cancel}
	m.names[name] = id

	events := m.events
	go fn(runCtx, id, cmd, events)

	log.Debug().Str("service", name).Str("id", id.String()).Msg("service registered")
	return id, nil
}

func (m *Manager) start(id uuid.UUID) error {
	svc := m.svcs[id]
	log.Debug().Str("service", svc.name).Msg("starting service")
	svc.cmd <- Running
	return nil
}

func (m *Manager) stop(id uuid.UUID) error {
	svc := m.svcs[id]
	if svc.state == Stopped {
		return nil
	}
	log.Debug().Str("service", svc.name).Msg("stopping service")
	svc.cmd <- Stopped
	return nil
}

func (m *Manager) status(id uuid.UUID) ServiceState {
	return m.svcs[id].state
}

func (m *Manager) list() []ListEntry {
	out := make([]ListEntry, 0, len(m.names))
	for name, id := range m.names {
		out = append(out, ListEntry{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (m *Manager) abort(id uuid.UUID) {
	svc, ok := m.svcs[id]
	if !ok {
		return
	}
	svc.cancel()
	delete(m.svcs, id)
	delete(m.names, svc.name)
}

// waitForTargets blocks the Manager's own goroutine, processing events until
// every id in ids has reached target or reported Failed. Used only from
// within request handling (shutdown), where reentrant event processing is
// safe because no other control request can run concurrently.
func (m *Manager) waitForTargets(ids []uuid.UUID, target ServiceState, deadline <-chan time.Time) bool {
	remaining := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		remaining[id] = struct{}{}
	}

	for len(remaining) > 0 {
		for id := range remaining {
			svc, ok := m.svcs[id]
			if !ok {
				delete(remaining, id)
				continue
			}
			if svc.state == target {
				delete(remaining, id)
			}
		}
		if len(remaining) == 0 {
			break
		}

		select {
		case ev := <-m.events:
			m.handleEvent(ev)
		case <-deadline:
			return false
		}
	}
	return true
}
