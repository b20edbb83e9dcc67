package refpool

import "sync"

// SafePool is a mutex-protected wrapper around Pool for concurrent
// access. Every operation that touches reference counts, the tail or
// the free list runs under one exclusive lock, which also gives readers
// of a count transition visibility of the writer's payload writes.
//
// The lock covers slot acquisition and bookkeeping only. Payload writes
// through two live Refs to the same slot are still unserialized and are
// the caller's responsibility to coordinate.
type SafePool[T any] struct {
	mu sync.Mutex
	p  *Pool[T]
}

// NewSafePool constructs a goroutine-safe pool of T over buf.
func NewSafePool[T any](buf []byte, opts ...Option) *SafePool[T] {
	return &SafePool[T]{p: NewPool[T](buf, opts...)}
}

// Alloc thread-safely claims a slot and returns a reference with a
// count of 1. Returns ErrOutOfMemory when the pool is exhausted.
func (s *SafePool[T]) Alloc() (Ref[T], error) {
	s.mu.Lock()
	index, err := s.p.claim()
	if err != nil {
		s.mu.Unlock()
		return Ref[T]{}, err
	}
	gen := s.p.gens[index]
	s.mu.Unlock()
	return Ref[T]{arena: s, index: index, gen: gen}, nil
}

// AllocFrom thread-safely claims a slot, then byte-copies the source
// payload into it. The copy itself runs outside the lock: the freshly
// claimed slot is exclusively ours, and payload access is never
// serialized by the pool. This also keeps a source Ref from this same
// SafePool from deadlocking against us.
func (s *SafePool[T]) AllocFrom(src Ref[T]) (Ref[T], error) {
	s.mu.Lock()
	index, err := s.p.claim()
	if err != nil {
		s.mu.Unlock()
		return Ref[T]{}, err
	}
	gen := s.p.gens[index]
	s.mu.Unlock()

	copy(s.p.payloadBytes(index), src.bytes())
	return Ref[T]{arena: s, index: index, gen: gen}, nil
}

// Retain thread-safely increments the count of the slot at index.
// Raw-index escape hatch; see Pool.Retain for the pairing obligation.
func (s *SafePool[T]) Retain(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.Retain(index)
}

// Release thread-safely decrements the count of the slot at index.
// Panics on a zero count, exactly as Pool.Release does.
func (s *SafePool[T]) Release(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.Release(index)
}

// LiveCount thread-safely returns the number of live slots.
func (s *SafePool[T]) LiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.LiveCount()
}

// Clear thread-safely zero-fills the backing buffer. As destructive
// and unchecked as Pool.Clear.
func (s *SafePool[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.Clear()
}

// slotArena implementation: lock, then delegate to the inner pool's
// checked access paths.

func (s *SafePool[T]) retainSlot(index int, gen uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.retainSlot(index, gen)
}

func (s *SafePool[T]) releaseSlot(index int, gen uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.releaseSlot(index, gen)
}

func (s *SafePool[T]) slotValue(index int, gen uint32) *T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.slotValue(index, gen)
}

func (s *SafePool[T]) slotPayload(index int, gen uint32) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.slotPayload(index, gen)
}

func (s *SafePool[T]) slotCount(index int) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.slotCount(index)
}
