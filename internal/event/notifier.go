package event

import "sync"

// Observer is called with the payload of a published event.
type Observer func(payload any)

// Subscription represents an active observer registration.
type Subscription struct {
	id       uint64
	topic    Topic
	notifier *Notifier
}

// Unsubscribe removes this subscription.
func (s *Subscription) Unsubscribe() {
	if s.notifier != nil {
		s.notifier.unsubscribe(s.topic, s.id)
	}
}

// Notifier delivers events to topic observers synchronously, in
// registration order. Observer panics are recovered so one misbehaving
// listener cannot take down a publisher; publishing is fire-and-forget.
type Notifier struct {
	mu        sync.RWMutex
	observers map[Topic]map[uint64]Observer
	nextID    uint64
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{
		observers: make(map[Topic]map[uint64]Observer),
	}
}

// Subscribe registers an observer for a topic.
func (n *Notifier) Subscribe(topic Topic, fn Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := n.nextID

	if n.observers[topic] == nil {
		n.observers[topic] = make(map[uint64]Observer)
	}
	n.observers[topic][id] = fn

	return &Subscription{id: id, topic: topic, notifier: n}
}

// Publish delivers payload to every observer of topic. Observer errors
// and panics are swallowed; there is no response and no retry.
func (n *Notifier) Publish(topic Topic, payload any) {
	n.mu.RLock()
	fns := make([]Observer, 0, len(n.observers[topic]))
	for _, fn := range n.observers[topic] {
		fns = append(fns, fn)
	}
	n.mu.RUnlock()

	for _, fn := range fns {
		deliver(fn, payload)
	}
}

// deliver invokes one observer with panic recovery.
func deliver(fn Observer, payload any) {
	defer func() {
		_ = recover()
	}()
	fn(payload)
}

// unsubscribe removes an observer registration.
func (n *Notifier) unsubscribe(topic Topic, id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if obs, ok := n.observers[topic]; ok {
		delete(obs, id)
		if len(obs) == 0 {
			delete(n.observers, topic)
		}
	}
}
