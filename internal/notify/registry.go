// Package notify tracks server-sent-event subscribers per attendance key and
// the background refresh task that feeds them.
package notify

import (
	"context"
	"sync"
	"time"

	"albion-tracker/internal/config"
	"albion-tracker/internal/constants"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Event struct {
	Name string
	Data []byte
}

type Subscriber struct {
	ID       string
	Key      string
	events   chan Event
	lastSeen time.Time
}

// Events is closed when the subscriber is removed from the registry.
func (s *Subscriber) Events() <-chan Event {
	return s.events
}

type task struct {
	id     string
	cancel context.CancelFunc
}

type Registry struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	subs   map[string]map[string]*Subscriber
	tasks  map[string]task
	logger zerolog.Logger
}

func NewRegistry(cfg *config.Config, logger zerolog.Logger) *Registry {
	ttl := cfg.SubscriberTTL
	if ttl <= 0 {
		ttl = constants.SubscriberTTL
	}
	return &Registry{
		ttl:    ttl,
		now:    time.Now,
		subs:   make(map[string]map[string]*Subscriber),
		tasks:  make(map[string]task),
		logger: logger,
	}
}

func (r *Registry) Subscribe(key string) *Subscriber {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub := &Subscriber{
		ID:       uuid.New().String(),
		Key:      key,
		events:   make(chan Event, constants.SubscriberQueueSize),
		lastSeen: r.now(),
	}
	if r.subs[key] == nil {
		r.subs[key] = make(map[string]*Subscriber)
	}
	r.subs[key][sub.ID] = sub

	r.logger.Debug().Str("key", key).Str("subscriber", sub.ID).Int("subscribers", len(r.subs[key])).Msg("subscriber added")
	return sub
}

// Unsubscribe removes sub. Removing the last subscriber for a key cancels
// that key's background task.
func (r *Registry) Unsubscribe(sub *Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(sub)
}

func (r *Registry) removeLocked(sub *Subscriber) {
	subs, ok := r.subs[sub.Key]
	if !ok {
		return
	}
	if _, ok := subs[sub.ID]; !ok {
		return
	}
	delete(subs, sub.ID)
	close(sub.events)

	if len(subs) > 0 {
		return
	}
	delete(r.subs, sub.Key)
	if t, ok := r.tasks[sub.Key]; ok {
		t.cancel()
		delete(r.tasks, sub.Key)
		r.logger.Debug().Str("key", sub.Key).Msg("last subscriber left, refresh cancelled")
	}
}

// Touch marks sub as alive so eviction skips it.
func (r *Registry) Touch(sub *Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub.lastSeen = r.now()
}

// Publish delivers ev to every subscriber of key without blocking. A
// subscriber whose queue is full misses the event. It returns the number of
// subscribers that received it.
func (r *Registry) Publish(key string, ev Event) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	delivered := 0
	for _, sub := range r.subs[key] {
		select {
		case sub.events <- ev:
			delivered++
		default:
			r.logger.Warn().Str("key", key).Str("subscriber", sub.ID).Msg("subscriber queue full, event dropped")
		}
	}
	return delivered
}

func (r *Registry) HasSubscribers(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs[key]) > 0
}

// EvictStale drops subscribers not seen within the TTL and returns how many
// were removed.
func (r *Registry) EvictStale() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	var stale []*Subscriber
	for _, subs := range r.subs {
		for _, sub := range subs {
			if sub.lastSeen.Before(cutoff) {
				stale = append(stale, sub)
			}
		}
	}
	for _, sub := range stale {
		r.removeLocked(sub)
	}
	if len(stale) > 0 {
		r.logger.Info().Int("evicted", len(stale)).Msg("stale subscribers evicted")
	}
	return len(stale)
}

// StartTask registers a background task for key. It returns false when key
// has no subscribers or a task is already running. The returned context is
// cancelled when the last subscriber leaves; done must be called when the
// task finishes.
func (r *Registry) StartTask(parent context.Context, key string) (ctx context.Context, done func(), ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.subs[key]) == 0 {
		return nil, nil, false
	}
	if _, running := r.tasks[key]; running {
		return nil, nil, false
	}

	ctx, cancel := context.WithCancel(parent)
	id := uuid.New().String()
	r.tasks[key] = task{id: id, cancel: cancel}

	done = func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if t, ok := r.tasks[key]; ok && t.id == id {
			delete(r.tasks, key)
		}
		cancel()
	}
	return ctx, done, true
}

// Count returns the number of live subscribers across all keys.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, subs := range r.subs {
		n += len(subs)
	}
	return n
}
