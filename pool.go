// Package refpool implements a fixed-capacity, reference-counted object
// pool over a caller-supplied byte buffer. See doc.go for an overview.
package refpool

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unsafe"

	"go.uber.org/zap"
)

// ErrOutOfMemory is returned by Alloc and AllocFrom when no freed slot
// is available and every virgin slot has been claimed. The condition is
// recoverable: release other references or construct the pool over a
// larger buffer.
var ErrOutOfMemory = errors.New("refpool: out of memory")

// headerSize is the per-slot bookkeeping prefix: one native-endian
// unsigned 64-bit reference count at offset 0 of every slot.
const headerSize = int(unsafe.Sizeof(uint64(0)))

// Pool carves a caller-owned byte buffer into capacity = len(buf)/slotSize
// fixed-size slots, each holding a reference count followed by one T.
// Slots are packed with no padding; trailing bytes that do not fit a
// whole slot are never addressed. The pool neither allocates nor frees
// the buffer, and the buffer never grows.
//
// Pool is not goroutine-safe. Use SafePool for concurrent access.
type Pool[T any] struct {
	buf      []byte
	slotSize int
	capacity int

	// tail is the high-water mark: the number of slots ever claimed
	// from virgin space. Monotonically non-decreasing.
	tail int

	// free holds indices whose reference count is zero, in FIFO order:
	// released slots append to the back, allocation pops the front.
	free []int

	// gens holds one generation per slot, bumped when a slot returns
	// to the free list. Stale references are detected by comparing
	// their generation against this slice.
	gens []uint32

	log *zap.Logger
}

// NewPool constructs a pool of T over buf. A buffer smaller than one
// slot yields a pool with capacity zero; that is not an error here but
// surfaces as ErrOutOfMemory on the first Alloc.
func NewPool[T any](buf []byte, opts ...Option) *Pool[T] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	var zero T
	slotSize := headerSize + int(unsafe.Sizeof(zero))
	capacity := len(buf) / slotSize

	p := &Pool[T]{
		buf:      buf,
		slotSize: slotSize,
		capacity: capacity,
		free:     nil,
		gens:     make([]uint32, capacity),
		log:      cfg.logger,
	}
	p.log.Debug("pool created",
		zap.Int("capacity", capacity),
		zap.Int("slot_size", slotSize),
		zap.Int("buffer_size", len(buf)))
	return p
}

// Alloc claims a slot and returns a reference to it with a count of 1.
// The payload bytes are not initialized; they hold whatever the slot
// held before. Returns ErrOutOfMemory when the pool is exhausted.
func (p *Pool[T]) Alloc() (Ref[T], error) {
	index, err := p.claim()
	if err != nil {
		return Ref[T]{}, err
	}
	return Ref[T]{arena: p, index: index, gen: p.gens[index]}, nil
}

// AllocFrom claims a slot exactly as Alloc does, then byte-copies the
// source reference's payload (not its header) into it. The source's
// reference count is untouched. The source may belong to another pool
// of the same payload type.
func (p *Pool[T]) AllocFrom(src Ref[T]) (Ref[T], error) {
	index, err := p.claim()
	if err != nil {
		return Ref[T]{}, err
	}
	copy(p.payloadBytes(index), src.bytes())
	return Ref[T]{arena: p, index: index, gen: p.gens[index]}, nil
}

// Retain increments the reference count of the slot at index. This is
// the raw-index escape hatch for code that cannot carry a Ref; every
// Retain must be paired with exactly one Release or the slot leaks.
// The index is not validated against live slots.
func (p *Pool[T]) Retain(index int) {
	p.setCount(index, p.count(index)+1)
}

// Release decrements the reference count of the slot at index. On the
// transition to zero the slot's generation is bumped and the index is
// appended to the free list for reuse.
//
// Calling Release on a slot with zero references is a double release
// and panics: the invariant violation cannot be continued from safely.
func (p *Pool[T]) Release(index int) {
	n := p.count(index)
	if n == 0 {
		panic(fmt.Sprintf("refpool: release of slot %d with zero references", index))
	}
	p.setCount(index, n-1)
	if n == 1 {
		p.gens[index]++
		p.free = append(p.free, index)
	}
}

// LiveCount returns the number of slots reachable through at least one
// outstanding reference. O(1).
func (p *Pool[T]) LiveCount() int {
	return p.tail - len(p.free)
}

// Clear zero-fills the entire backing buffer. It is destructive and
// unchecked: reference counts are wiped regardless of outstanding
// references, and tail, free list and generations are left as they
// are. Intended as a bulk reset between unrelated uses of the same
// backing memory, not as a safe "free everything".
func (p *Pool[T]) Clear() {
	clear(p.buf)
	p.log.Debug("buffer cleared", zap.Int("buffer_size", len(p.buf)))
}

// claim produces a zero-reference slot index and retains it once.
// The free list is consulted before virgin space.
func (p *Pool[T]) claim() (int, error) {
	var index int
	if len(p.free) > 0 {
		index = p.free[0]
		p.free = p.free[1:]
	} else {
		if p.tail >= p.capacity {
			p.log.Debug("allocation failed, pool exhausted",
				zap.Int("capacity", p.capacity))
			return 0, ErrOutOfMemory
		}
		index = p.tail
		p.tail++
	}
	p.Retain(index)
	return index, nil
}

// count reads the reference count of the slot at index.
func (p *Pool[T]) count(index int) uint64 {
	off := index * p.slotSize
	return binary.NativeEndian.Uint64(p.buf[off : off+headerSize])
}

// setCount writes the reference count of the slot at index.
func (p *Pool[T]) setCount(index int, n uint64) {
	off := index * p.slotSize
	binary.NativeEndian.PutUint64(p.buf[off:off+headerSize], n)
}

// payloadBytes returns the payload window of the slot at index. The
// subslice is bounds-checked against the backing buffer but not against
// tail or the free list.
func (p *Pool[T]) payloadBytes(index int) []byte {
	start := index*p.slotSize + headerSize
	return p.buf[start : start+p.slotSize-headerSize]
}

// at returns a typed view of the slot's payload. The pointer aliases
// the backing buffer directly; holding it across a Release of the last
// reference reads recycled memory.
func (p *Pool[T]) at(index int) *T {
	b := p.payloadBytes(index)
	return (*T)(unsafe.Pointer(&b[0]))
}

// checkGen panics if gen no longer matches the slot's current
// generation, i.e. the reference outlived its slot.
func (p *Pool[T]) checkGen(index int, gen uint32) {
	if p.gens[index] != gen {
		panic(fmt.Sprintf("refpool: stale reference to slot %d", index))
	}
}

// slotArena implementation. These are the checked, Ref-mediated access
// paths; the exported Retain/Release above stay unchecked.

func (p *Pool[T]) retainSlot(index int, gen uint32) {
	p.checkGen(index, gen)
	p.Retain(index)
}

func (p *Pool[T]) releaseSlot(index int, gen uint32) {
	p.checkGen(index, gen)
	p.Release(index)
}

func (p *Pool[T]) slotValue(index int, gen uint32) *T {
	p.checkGen(index, gen)
	return p.at(index)
}

func (p *Pool[T]) slotPayload(index int, gen uint32) []byte {
	p.checkGen(index, gen)
	return p.payloadBytes(index)
}

func (p *Pool[T]) slotCount(index int) uint64 {
	return p.count(index)
}
