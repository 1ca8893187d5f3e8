// Package events carries signals that cross layers without the lower
// layer knowing who listens. The remote client publishes SessionExpired;
// the session service and the active console screen subscribe.
package events

import (
	"sync"
	"time"
)

// SessionExpired reports that a non-authentication call was rejected with
// 401, i.e. the token it carried is no longer valid.
type SessionExpired struct {
	// Operation names the client call that was rejected ("list", "create", ...).
	Operation string
	// Token is the bearer token the rejected request was sent with ("" for
	// none). Listeners holding a different token ignore the signal.
	Token string
	At    time.Time
}

// Broker fans SessionExpired signals out to subscribers. Handlers run
// synchronously on the publishing goroutine in subscription order.
// The zero value is ready to use.
type Broker struct {
	mu       sync.Mutex
	next     int
	handlers map[int]func(SessionExpired)
	order    []int
}

func NewBroker() *Broker {
	return &Broker{}
}

// Subscribe registers fn and returns a function that removes it.
func (b *Broker) Subscribe(fn func(SessionExpired)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers == nil {
		b.handlers = make(map[int]func(SessionExpired))
	}
	id := b.next
	b.next++
	b.handlers[id] = fn
	b.order = append(b.order, id)

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

// Publish delivers ev to every current subscriber.
func (b *Broker) Publish(ev SessionExpired) {
	b.mu.Lock()
	fns := make([]func(SessionExpired), 0, len(b.order))
	for _, id := range b.order {
		fns = append(fns, b.handlers[id])
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (b *Broker) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.handlers, id)
	for i, v := range b.order {
		if v == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}
