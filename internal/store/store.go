// Package store owns the resource graph: an in-memory, persisted,
// strongly-typed object store holding every CLIP v2 resource, cross-linked
// by stable identifiers, with atomic mutation, derived-update synthesis, and
// a broadcast event stream. See §3 and §4.1 of the design.
package store

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/z2hue/bridge/internal/model"
)

// MaxScenesPerRoom bounds the number of scenes that may be indexed against a
// single room; scene indices within a room must stay distinct.
const MaxScenesPerRoom = 100

// Store is the single-owner holder of every resource. One exclusive lock is
// held across a full mutation (including event broadcast) so that
// subscribers observe a total order consistent with applied mutations; reads
// take the same lock, since the workload is low-rate and the semantic
// simplicity of total-order mutations is worth the throughput cost.
type Store struct {
	mu  sync.Mutex
	res map[uuid.UUID]model.Resource
	aux map[uuid.UUID]model.AuxData

	bus        *broadcaster
	persist    Persister
	bootstrapped bool
}

// New creates an empty store. persist may be nil to disable snapshotting
// (useful for tests).
func New(persist Persister) *Store {
	return &Store{
		res:     make(map[uuid.UUID]model.Resource),
		aux:     make(map[uuid.UUID]model.AuxData),
		bus:     newBroadcaster(),
		persist: persist,
	}
}

// Subscribe registers a new listener on the store's event stream. The
// returned cancel func must be called once the subscriber is done.
func (s *Store) Subscribe() (<-chan model.EventBlock, func()) {
	return s.bus.Subscribe()
}

// Init creates the deterministic Bridge, BridgeHome, and their backing
// Device resources. It is idempotent only before any user mutation has
// occurred; calling it again afterwards re-adds the bootstrap resources
// under the same (deterministic) identifiers, which is harmless but wasteful
// -- callers should guard on first-run.
func (s *Store) Init(bridgeID string) error {
	linkBridge := model.DeterministicLink(model.RTBridge, bridgeID)
	linkBridgeHome := model.DeterministicLink(model.RTBridgeHome, bridgeID+"HOME")
	linkBridgeDev := model.DeterministicLink(model.RTDevice, linkBridge.RID.String())
	linkBridgeHomeDev := model.DeterministicLink(model.RTDevice, linkBridgeHome.RID.String())
	linkGroupedLight := model.DeterministicLink(model.RTGroupedLight, linkBridgeHome.RID.String())

	bridgeDev := model.Device{
		ProductData: model.HueBridgeV2ProductData(),
		Metadata:    model.Metadata{Name: "z2hue bridge", Archetype: "bridge_v2"},
		Services:    []model.ResourceLink{linkBridge},
	}
	bridge := model.Bridge{
		Owner:    linkBridgeDev,
		BridgeID: bridgeID,
		TimeZone: model.TimeZone{TimeZone: "UTC"},
	}
	bridgeHomeDev := model.Device{
		ProductData: model.HueBridgeV2ProductData(),
		Metadata:    model.Metadata{Name: "z2hue bridge home", Archetype: "bridge_v2"},
		Services:    []model.ResourceLink{linkBridge},
	}
	bridgeHome := model.BridgeHome{
		Children: []model.ResourceLink{linkBridgeDev},
		Services: []model.ResourceLink{linkGroupedLight},
	}

	if err := s.Add(linkBridgeDev, model.Of(bridgeDev)); err != nil {
		return err
	}
	if err := s.Add(linkBridge, model.Of(bridge)); err != nil {
		return err
	}
	if err := s.Add(linkBridgeHomeDev, model.Of(bridgeHomeDev)); err != nil {
		return err
	}
	if err := s.Add(linkBridgeHome, model.Of(bridgeHome)); err != nil {
		return err
	}

	s.mu.Lock()
	s.bootstrapped = true
	s.mu.Unlock()

	return nil
}

// Add inserts obj under link, fails if the link's type tag disagrees with
// the object's own type, snapshots to disk best-effort, and broadcasts an
// Add event carrying the resource as JSON.
//
// Mismatched link/object types indicate a programming error in the caller
// and panic rather than returning an error, matching the store's documented
// contract that invariant violations are not recoverable failures.
func (s *Store) Add(link model.ResourceLink, obj model.Resource) error {
	if link.RType != obj.Type() {
		panic("store: link type mismatch: " + string(link.RType) + " != " + string(obj.Type()))
	}

	s.mu.Lock()
	s.res[link.RID] = obj
	s.snapshotLocked()
	evt, err := model.NewAddEvent(link.RID, obj)
	if err == nil {
		s.bus.Publish(evt)
	}
	s.mu.Unlock()
	return err
}

// Delete removes link's entry, failing with NotFound if absent, and
// broadcasts a Delete event.
func (s *Store) Delete(link model.ResourceLink) error {
	s.mu.Lock()
	_, ok := s.res[link.RID]
	if !ok {
		s.mu.Unlock()
		return model.NotFound(link.RID)
	}
	delete(s.res, link.RID)
	s.snapshotLocked()
	s.bus.Publish(model.NewDeleteEvent(link))
	s.mu.Unlock()
	return nil
}

// Get performs a typed lookup: NotFound if missing, WrongType if the stored
// variant disagrees with T.
func Get[T model.Variant](s *Store, link model.ResourceLink) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	obj, ok := s.res[link.RID]
	if !ok || obj.Type() != link.RType {
		return zero, model.NotFound(link.RID)
	}
	return model.As[T](obj)
}

// GetResource returns the ResourceRecord for id if it has type ty.
func (s *Store) GetResource(ty model.ResourceType, id uuid.UUID) (model.ResourceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.res[id]
	if !ok || obj.Type() != ty {
		return model.ResourceRecord{}, model.NotFound(id)
	}
	return model.ResourceRecord{ID: id, Obj: obj}, nil
}

// GetResourceByID returns the ResourceRecord for id regardless of type.
func (s *Store) GetResourceByID(id uuid.UUID) (model.ResourceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.res[id]
	if !ok {
		return model.ResourceRecord{}, model.NotFound(id)
	}
	return model.ResourceRecord{ID: id, Obj: obj}, nil
}

// GetResources returns every resource in the store.
func (s *Store) GetResources() []model.ResourceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.ResourceRecord, 0, len(s.res))
	for id, obj := range s.res {
		out = append(out, model.ResourceRecord{ID: id, Obj: obj})
	}
	return out
}

// GetResourcesByType returns every resource whose type tag is ty.
func (s *Store) GetResourcesByType(ty model.ResourceType) []model.ResourceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.ResourceRecord
	for id, obj := range s.res {
		if obj.Type() == ty {
			out = append(out, model.ResourceRecord{ID: id, Obj: obj})
		}
	}
	return out
}

// AuxGet returns the aux metadata for link, or AuxNotFound.
func (s *Store) AuxGet(link model.ResourceLink) (model.AuxData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	aux, ok := s.aux[link.RID]
	if !ok {
		return model.AuxData{}, model.AuxNotFound(link)
	}
	return aux, nil
}

// AuxSet stores aux metadata for link, replacing any previous value, and
// snapshots to disk best-effort.
func (s *Store) AuxSet(link model.ResourceLink, aux model.AuxData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aux[link.RID] = aux
	s.snapshotLocked()
}

// GetNextSceneID scans the auxiliary indices of every scene whose group is
// room and returns the smallest integer in [0, MaxScenesPerRoom) not yet
// taken, or Full(Scene) when all slots are used.
func (s *Store) GetNextSceneID(room model.ResourceLink) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	taken := make(map[int]bool)
	for id, obj := range s.res {
		scn, ok := obj.Data.(model.Scene)
		if !ok || scn.Group != room {
			continue
		}
		if aux, ok := s.aux[id]; ok && aux.Index != nil {
			taken[*aux.Index] = true
		}
	}

	for i := 0; i < MaxScenesPerRoom; i++ {
		if !taken[i] {
			return i, nil
		}
	}
	return 0, model.Full(model.RTScene)
}

// snapshotLocked writes the current state to disk. Failures are logged, not
// propagated: the callers (Add, Delete, AuxSet) treat persistence as
// best-effort. Must be
// called with s.mu held.
func (s *Store) snapshotLocked() {
	if s.persist == nil {
		return
	}
	if err := s.persist.Save(s.res, s.aux); err != nil {
		log.Error().Err(err).Msg("store: snapshot failed")
	}
}

// Save forces a synchronous snapshot, propagating any error to the caller
// (unlike the best-effort snapshot taken implicitly by Add).
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.persist == nil {
		return nil
	}
	return s.persist.Save(s.res, s.aux)
}

// Load replaces the store's contents with a previously saved snapshot.
func (s *Store) Load() error {
	if s.persist == nil {
		return nil
	}
	res, aux, err := s.persist.Load()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.res = res
	s.aux = aux
	return nil
}
