package store

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/z2hue/bridge/internal/model"
)

// broadcastCapacity bounds how many events a lagging subscriber can fall
// behind by before the oldest ones are dropped out from under it.
const broadcastCapacity = 100

// broadcaster is a fixed-capacity, lossy fan-out of EventBlocks. Producers
// never block: a subscriber that can't keep up loses its oldest buffered
// events rather than stalling the mutation that's holding the store lock.
// Subscribers are expected to tolerate loss by resyncing (re-reading the full
// store) on reconnect.
type broadcaster struct {
	mu   sync.Mutex
	subs map[int]chan model.EventBlock
	next int
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[int]chan model.EventBlock)}
}

// Subscribe registers a new listener and returns its channel along with an
// unsubscribe function. Late subscribers only observe events published after
// they join.
func (b *broadcaster) Subscribe() (<-chan model.EventBlock, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan model.EventBlock, broadcastCapacity)
	b.subs[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
}

// Publish fans ev out to every live subscriber. It silently drops the event
// when there are no subscribers, and never blocks: a full subscriber channel
// has its oldest entry evicted to make room.
func (b *broadcaster) Publish(ev model.EventBlock) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- ev:
			default:
				log.Warn().Int("subscriber", id).Msg("store: dropping event, subscriber too far behind")
			}
		}
	}
}
