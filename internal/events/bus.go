package events

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/pocketbank/pocketbank-cli/internal/logging"
)

// ActiveAccountChanged is published after the active-account snapshot is
// overwritten or cleared. No payload; listeners re-run their own refresh.
const ActiveAccountChanged = "active-account-changed"

type Handler func()

// Bus is an in-process synchronous publish/subscribe channel, owned by the
// application root and injected. Delivery is in registration order; a
// panicking listener is logged and must not prevent delivery to the others.
type Bus struct {
	mu     sync.Mutex
	log    *logrus.Logger
	nextID uint64
	subs   map[string][]*Subscription
}

// Subscription is a scoped listener registration; Close unregisters it.
type Subscription struct {
	bus     *Bus
	signal  string
	id      uint64
	handler Handler
}

func NewBus(log *logrus.Logger) *Bus {
	if log == nil {
		log = logging.Discard()
	}

	return &Bus{
		log:  log,
		subs: map[string][]*Subscription{},
	}
}

func (b *Bus) Subscribe(signal string, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{
		bus:     b,
		signal:  signal,
		id:      b.nextID,
		handler: handler,
	}
	b.subs[signal] = append(b.subs[signal], sub)

	return sub
}

// Publish runs every currently registered listener before returning.
func (b *Bus) Publish(signal string) {
	b.mu.Lock()
	listeners := make([]*Subscription, len(b.subs[signal]))
	copy(listeners, b.subs[signal])
	b.mu.Unlock()

	for _, sub := range listeners {
		b.invoke(sub)
	}
}

func (b *Bus) invoke(sub *Subscription) {
	defer func() {
		if r := recover(); r != nil {
			b.log.WithFields(logrus.Fields{
				"signal": sub.signal,
				"panic":  r,
			}).Error("event listener panicked")
		}
	}()

	sub.handler()
}

func (s *Subscription) Close() {
	if s == nil || s.bus == nil {
		return
	}

	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()

	listeners := s.bus.subs[s.signal]
	for i, sub := range listeners {
		if sub.id == s.id {
			s.bus.subs[s.signal] = append(listeners[:i], listeners[i+1:]...)
			break
		}
	}

	s.bus = nil
}
