// Package refpool implements a fixed-capacity, reference-counted object
// pool backed by a single contiguous byte buffer, paired with a Ref
// handle that manages slot lifetime.
//
// # Overview
//
// The pool partitions a caller-supplied buffer into uniformly-sized
// slots, each holding a small header (the reference count) and one
// value of type T. Allocation hands out a Ref behaving like a
// shared-ownership pointer: cloning a Ref increments the slot's count,
// releasing decrements it, and a count reaching zero returns the slot
// to a free list for reuse. No slot is ever moved or resized and the
// buffer never grows. This is useful for:
//
//   - Pre-allocated object storage with deterministic memory bounds
//   - Sharing pooled values across owners without GC-managed pointers
//   - Reducing allocation churn for hot, fixed-size value types
//
// # Basic Usage
//
//	buf := make([]byte, 64*1024)
//	pool := refpool.NewPool[Order](buf)
//
//	ref, err := pool.Alloc()
//	if err != nil {
//		// refpool.ErrOutOfMemory: every slot is claimed
//	}
//	defer ref.Release()
//
//	ref.Get().Price = 100 // deref through the handle
//
//	other := ref.Clone() // shares the slot, bumps the count
//	defer other.Release()
//
// # Memory Layout
//
// Each slot is [count: uint64][payload: T], packed back to back with no
// padding. The count is stored in native byte order at slot offset 0;
// the payload starts 8 bytes in. Capacity is len(buf) divided by the
// slot size; trailing bytes beyond the last whole slot are never
// addressed. Payload bytes are NOT initialized on allocation - they
// hold whatever the slot held before.
//
// # Thread Safety
//
// Pool is not goroutine-safe: reference counts, the tail and the free
// list are all plain state. For concurrent use, SafePool serializes
// every bookkeeping operation under one mutex:
//
//	pool := refpool.NewSafePool[Order](buf)
//	ref, err := pool.Alloc() // safe from any goroutine
//
// Even under SafePool the pool only guarantees exclusivity of slot
// acquisition. Concurrent payload writes through two live Refs to the
// same slot are the caller's responsibility to coordinate.
//
// # Important Notes
//
//   - Release each Ref exactly once; a double release panics.
//   - A Ref used after its slot was recycled panics ("stale reference").
//   - Pointers obtained from Ref.Get must not outlive the Ref.
//   - Pool.Retain/Pool.Release are an advanced raw-index escape hatch
//     with a strict pairing obligation; prefer Clone/Release on Refs.
//   - Clear wipes the whole buffer unconditionally, including the
//     counts of live slots; it is a bulk reset, not a safe free.
//
// # Monitoring
//
// Stats returns a point-in-time snapshot of capacity, live and free
// slots, and NewCollector adapts any pool into a prometheus.Collector:
//
//	reg := prometheus.NewRegistry()
//	reg.MustRegister(refpool.NewCollector(pool, "orders"))
package refpool
