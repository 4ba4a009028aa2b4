package registry

import (
	"time"

	"github.com/sasha-s/go-deadlock"
	"github.com/zeebo/xxh3"
	"go.uber.org/atomic"
)

const shardCount = 32

// Registry tracks the connections of a pacer instance and the identities banned from it. Entries are spread
// over shards by the xxh3 hash of their identity so that connections joining and leaving do not contend on
// a single lock. Per connection state never lives here.
type Registry[T comparable] struct {
	shards [shardCount]shard[T]
	count  atomic.Int64
}

type shard[T comparable] struct {
	mu      deadlock.RWMutex
	entries map[uint64]T
	bans    map[uint64]time.Time
}

// New returns an empty Registry.
func New[T comparable]() *Registry[T] {
	r := &Registry[T]{}
	for i := range r.shards {
		r.shards[i].entries = make(map[uint64]T)
		r.shards[i].bans = make(map[uint64]time.Time)
	}
	return r
}

// Key returns the hash an identity is stored under.
func Key(identity string) uint64 {
	return xxh3.HashString(identity)
}

func (r *Registry[T]) shard(key uint64) *shard[T] {
	return &r.shards[key%shardCount]
}

// Add adds v under identity. It returns false if the identity is already connected.
func (r *Registry[T]) Add(identity string, v T) bool {
	key := Key(identity)
	s := r.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; ok {
		return false
	}
	s.entries[key] = v
	r.count.Inc()
	return true
}

// Remove removes identity if it is still held by v.
func (r *Registry[T]) Remove(identity string, v T) {
	key := Key(identity)
	s := r.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.entries[key]; ok && cur == v {
		delete(s.entries, key)
		r.count.Dec()
	}
}

// Get returns the entry of identity.
func (r *Registry[T]) Get(identity string) (T, bool) {
	key := Key(identity)
	s := r.shard(key)
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.entries[key]
	return v, ok
}

// Len returns the amount of entries.
func (r *Registry[T]) Len() int {
	return int(r.count.Load())
}

// Range calls f for every entry until f returns false. f must not call back into the registry.
func (r *Registry[T]) Range(f func(v T) bool) {
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.RLock()
		for _, v := range s.entries {
			if !f(v) {
				s.mu.RUnlock()
				return
			}
		}
		s.mu.RUnlock()
	}
}

// Ban refuses identity until the time passed.
func (r *Registry[T]) Ban(identity string, until time.Time) {
	key := Key(identity)
	s := r.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bans[key] = until
}

// Banned returns the remaining ban time of identity at now, and true if identity is banned. Expired bans
// are forgotten.
func (r *Registry[T]) Banned(identity string, now time.Time) (time.Duration, bool) {
	key := Key(identity)
	s := r.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.bans[key]
	if !ok {
		return 0, false
	}
	if !now.Before(until) {
		delete(s.bans, key)
		return 0, false
	}
	return until.Sub(now), true
}
