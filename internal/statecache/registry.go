package statecache

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/walletkeeper/internal/logging"
	"github.com/google/uuid"
)

// Topic names a category of state change.
type Topic string

const (
	TopicPayees Topic = "payees"
	TopicBoards Topic = "boards"
	TopicChat   Topic = "chat"
	TopicCall   Topic = "call"
)

// Observer is invoked after the cached view of its topic was replaced.
// A returned error is logged and does not affect other observers.
type Observer func(ctx context.Context) error

// Subscription identifies one registered observer.
type Subscription struct {
	ID    uuid.UUID
	Topic Topic
}

type subscriber struct {
	id uuid.UUID
	fn Observer
}

// Registry fans notifications out to observers, synchronously and in
// registration order.
type Registry struct {
	mu   sync.Mutex
	subs map[Topic][]subscriber
	log  logging.Logger
}

func NewRegistry(log logging.Logger) *Registry {
	if log == nil {
		log = logging.NewNop()
	}
	return &Registry{subs: make(map[Topic][]subscriber), log: log}
}

func (r *Registry) Subscribe(topic Topic, fn Observer) Subscription {
	id := uuid.New()

	r.mu.Lock()
	r.subs[topic] = append(r.subs[topic], subscriber{id: id, fn: fn})
	r.mu.Unlock()

	return Subscription{ID: id, Topic: topic}
}

// Unsubscribe reports whether sub was registered.
func (r *Registry) Unsubscribe(sub Subscription) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.subs[sub.Topic]
	i := slices.IndexFunc(list, func(s subscriber) bool { return s.id == sub.ID })
	if i < 0 {
		return false
	}
	r.subs[sub.Topic] = slices.Delete(slices.Clone(list), i, i+1)
	return true
}

// Notify runs every observer of topic and returns how many failed.
// Observers run outside the lock, so they may subscribe, unsubscribe or
// read the cache.
func (r *Registry) Notify(ctx context.Context, topic Topic) int {
	r.mu.Lock()
	list := r.subs[topic]
	r.mu.Unlock()

	failed := 0
	for _, s := range list {
		if err := r.call(ctx, s); err != nil {
			failed++
			r.log.Error(ctx, "observer failed", "topic", string(topic), "id", s.id.String(), "error", err)
		}
	}
	return failed
}

func (r *Registry) call(ctx context.Context, s subscriber) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("observer panic: %v", p)
		}
	}()
	return s.fn(ctx)
}

// Len returns the number of observers of topic.
func (r *Registry) Len(topic Topic) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs[topic])
}

// Close drops every subscription.
func (r *Registry) Close() {
	r.mu.Lock()
	r.subs = make(map[Topic][]subscriber)
	r.mu.Unlock()
}
