package svc

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// request is one control-plane message: a payload paired with a reply
// channel, applied on the Manager's own goroutine so the main loop never
// awaits anything other than its two incoming channels.
type request interface {
	apply(m *Manager)
}

type registerRequest struct {
	name  string
	fn    ServiceFunc
	reply chan<- registerReply
}

type registerReply struct {
	id  uuid.UUID
	err error
}

func (r *registerRequest) apply(m *Manager) {
	id, err := m.register(r.name, r.fn)
	r.reply <- registerReply{id: id, err: err}
}

type startRequest struct {
	handle Handle
	reply  chan<- error
}

func (r *startRequest) apply(m *Manager) {
	id, err := m.resolve(r.handle)
	if err != nil {
		r.reply <- err
		return
	}
	r.reply <- m.start(id)
}

type stopRequest struct {
	handle Handle
	reply  chan<- error
}

func (r *stopRequest) apply(m *Manager) {
	id, err := m.resolve(r.handle)
	if err != nil {
		r.reply <- err
		return
	}
	r.reply <- m.stop(id)
}

type statusRequest struct {
	handle Handle
	reply  chan<- statusReply
}

type statusReply struct {
	state ServiceState
	err   error
}

func (r *statusRequest) apply(m *Manager) {
	id, err := m.resolve(r.handle)
	if err != nil {
		r.reply <- statusReply{err: err}
		return
	}
	r.reply <- statusReply{state: m.status(id)}
}

type listRequest struct {
	reply chan<- []ListEntry
}

func (r *listRequest) apply(m *Manager) {
	r.reply <- m.list()
}

type shutdownRequest struct {
	reply chan<- struct{}
}

func (r *shutdownRequest) apply(m *Manager) {
	log.Info().Msg("service manager shutting down")

	ids := make([]uuid.UUID, 0, len(m.svcs))
	for id := range m.svcs {
		ids = append(ids, id)
	}
	for _, id := range ids {
		_ = m.stop(id)
	}

	deadline := time.NewTimer(ShutdownTimeout)
	defer deadline.Stop()

	if !m.waitForTargets(ids, Stopped, deadline.C) {
		log.Error().Msg("service shutdown timed out, aborting remaining tasks")
		for _, id := range ids {
			if svc, ok := m.svcs[id]; ok && svc.state != Stopped {
				m.abort(id)
			}
		}
	}

	log.Debug().Msg("all services stopped")
	m.shutdown = true
	r.reply <- struct{}{}
}
