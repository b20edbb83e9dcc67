package refpool

import "fmt"

// slotArena is the slot store a Ref points into. Pool implements it
// directly; SafePool implements it by taking its lock first, so a
// reference minted by a SafePool can never bypass the mutex.
type slotArena[T any] interface {
	retainSlot(index int, gen uint32)
	releaseSlot(index int, gen uint32)
	slotValue(index int, gen uint32) *T
	slotPayload(index int, gen uint32) []byte
	slotCount(index int) uint64
}

// Ref is the only sanctioned way to access a pooled value. It is
// returned by Alloc/AllocFrom and accounts for exactly one unit of its
// slot's reference count. Clone a Ref to share the slot; call Release
// exactly once per Ref (typically deferred) when done.
//
// Two Refs compare equal with == iff they reference the same pool and
// the same slot index. The payload value and the reference count play
// no part in equality.
//
// The zero Ref is not valid; Refs are created only by pool allocation.
type Ref[T any] struct {
	arena slotArena[T]
	index int
	gen   uint32
}

// Get returns a pointer to the slot's payload. The pointer aliases the
// pool's backing buffer: using it after this Ref (or the slot's last
// reference) has been released reads recycled memory, so do not store
// it beyond the Ref's lifetime. Panics if the Ref is stale.
func (r Ref[T]) Get() *T {
	return r.arena.slotValue(r.index, r.gen)
}

// Clone increments the slot's reference count and returns a second Ref
// with the same identity. The clone must be released independently.
func (r Ref[T]) Clone() Ref[T] {
	r.arena.retainSlot(r.index, r.gen)
	return Ref[T]{arena: r.arena, index: r.index, gen: r.gen}
}

// Release gives up this Ref's unit of the reference count. When the
// count reaches zero the slot returns to the pool's free list. Each
// Ref must be released exactly once; a second Release panics.
func (r Ref[T]) Release() {
	r.arena.releaseSlot(r.index, r.gen)
}

// Retain is the manual escape hatch: it adds a unit of reference count
// without creating a new Ref, for callers that need to keep the slot
// alive outside the Ref protocol (e.g. handing Index() to code that
// cannot carry a Ref value). Every manual Retain must be paired with
// exactly one extra Release; mismatches either leak the slot or panic.
func (r Ref[T]) Retain() {
	r.arena.retainSlot(r.index, r.gen)
}

// Index returns the slot index this Ref points at, for use with the
// pool-level Retain/Release escape hatch.
func (r Ref[T]) Index() int {
	return r.index
}

// String exposes the slot index and current reference count for
// diagnostics.
func (r Ref[T]) String() string {
	return fmt.Sprintf("Ref{index: %d, refs: %d}", r.index, r.arena.slotCount(r.index))
}

// bytes returns the payload window for copy operations.
func (r Ref[T]) bytes() []byte {
	return r.arena.slotPayload(r.index, r.gen)
}
