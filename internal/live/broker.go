// Package live fans change notifications out to in-process subscribers.
// Notifications carry no document payload: subscribers recompute their view
// from the stores, so a dropped notification only delays a recomputation that
// the next one triggers anyway.
package live

import (
	"context"
	"sync"
)

type ChangeKind string

const (
	ChangeApplications  ChangeKind = "applications"
	ChangeConversations ChangeKind = "conversations"
	ChangeProjects      ChangeKind = "projects"
)

type Change struct {
	Kind ChangeKind
}

const subscriberBuffer = 8

type subscriber struct {
	ch chan Change
}

// Broker keys subscriptions by topic (one topic per user id). Publish never
// blocks: a subscriber whose buffer is full misses that notification.
type Broker struct {
	mu     sync.RWMutex
	topics map[string]map[*subscriber]bool
}

func NewBroker() *Broker {
	return &Broker{topics: make(map[string]map[*subscriber]bool)}
}

// Subscribe registers for changes on topic. The returned channel is closed
// when ctx is cancelled, which also releases the registration.
func (b *Broker) Subscribe(ctx context.Context, topic string) <-chan Change {
	sub := &subscriber{ch: make(chan Change, subscriberBuffer)}

	b.mu.Lock()
	if b.topics[topic] == nil {
		b.topics[topic] = make(map[*subscriber]bool)
	}
	b.topics[topic][sub] = true
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		if m := b.topics[topic]; m != nil {
			delete(m, sub)
			if len(m) == 0 {
				delete(b.topics, topic)
			}
		}
		// Closed under the write lock so no Publish can be mid-send.
		close(sub.ch)
		b.mu.Unlock()
	}()

	return sub.ch
}

func (b *Broker) Publish(topic string, change Change) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for s := range b.topics[topic] {
		select {
		case s.ch <- change:
		default:
		}
	}
}

// Notify publishes the same change to several topics, typically the user ids
// on both sides of a write.
func (b *Broker) Notify(change Change, topics ...string) {
	for _, t := range topics {
		if t != "" {
			b.Publish(t, change)
		}
	}
}
