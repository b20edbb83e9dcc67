package refpool

// Capacity returns the total number of slots the backing buffer holds.
func (p *Pool[T]) Capacity() int {
	return p.capacity
}

// SlotSize returns the size in bytes of one slot (header plus payload).
func (p *Pool[T]) SlotSize() int {
	return p.slotSize
}

// Utilization returns the ratio of live slots to capacity (0.0 to 1.0).
// Returns 0.0 if the pool has no capacity.
func (p *Pool[T]) Utilization() float64 {
	if p.capacity == 0 {
		return 0
	}
	return float64(p.LiveCount()) / float64(p.capacity)
}

// Stats returns a snapshot of pool statistics.
func (p *Pool[T]) Stats() PoolStats {
	return PoolStats{
		Capacity:    p.capacity,
		SlotSize:    p.slotSize,
		Tail:        p.tail,
		FreeSlots:   len(p.free),
		Live:        p.LiveCount(),
		Utilization: p.Utilization(),
	}
}

// PoolStats contains statistical information about a pool.
type PoolStats struct {
	Capacity    int     // Total slots in the backing buffer
	SlotSize    int     // Bytes per slot (header + payload)
	Tail        int     // Slots ever claimed from virgin space
	FreeSlots   int     // Claimed slots currently on the free list
	Live        int     // Slots reachable through outstanding references
	Utilization float64 // Ratio of live slots to capacity (0.0-1.0)
}

// Thread-safe metrics for SafePool

// Capacity thread-safely returns the total number of slots.
func (s *SafePool[T]) Capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Capacity()
}

// SlotSize thread-safely returns the size in bytes of one slot.
func (s *SafePool[T]) SlotSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.SlotSize()
}

// Utilization thread-safely returns the ratio of live slots to capacity.
func (s *SafePool[T]) Utilization() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Utilization()
}

// Stats thread-safely returns a snapshot of pool statistics.
func (s *SafePool[T]) Stats() PoolStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Stats()
}
