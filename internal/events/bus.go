package events

import (
	"sync"

	"nexusjob_backend/internal/logger"
)

const subscriberBuffer = 256

// Bus is an in-process publish/subscribe channel between the services
// that commit state and the consumers that push it out (coordinator, ws
// hub). Delivery is in publish order within one subscription; ordering
// across subscriptions is not defined.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
}

func NewBus() *Bus {
	return &Bus{
		subs: make(map[int]chan Event),
	}
}

// Subscription is one consumer's view of the bus. C is closed by
// Unsubscribe; ranging over it is the intended consumption pattern.
type Subscription struct {
	bus  *Bus
	id   int
	C    <-chan Event
	once sync.Once
}

func (b *Bus) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch

	return &Subscription{bus: b, id: id, C: ch}
}

// Unsubscribe detaches the consumer and closes C. Safe to call multiple
// times; once it returns, no further events are delivered on C.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		ch, ok := s.bus.subs[s.id]
		delete(s.bus.subs, s.id)
		s.bus.mu.Unlock()
		if ok {
			close(ch)
		}
	})
}

// Publish fans the event out to every subscriber. A subscriber that
// cannot keep up loses the event rather than blocking publishers; the
// consumers here re-fetch authoritative state on demand, so a dropped
// event degrades freshness, not correctness.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subs {
		select {
		case ch <- e:
		default:
			logger.Warn("event subscriber buffer full, dropping event",
				"subscriber", id, "event_type", string(e.Type))
		}
	}
}
