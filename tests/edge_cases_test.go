package refpool_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/pavanmanishd/refpool"
)

// TestEdgeCases covers boundary conditions and misuse scenarios
// through the public API only.
func TestEdgeCases(t *testing.T) {
	t.Run("TrailingBytesUnused", func(t *testing.T) {
		// 99 bytes over 12-byte slots: 8 whole slots, 3 dead bytes.
		p := refpool.NewPool[uint32](make([]byte, 99))
		if got := p.Capacity(); got != 8 {
			t.Fatalf("capacity = %d, want 8", got)
		}
		refs := make([]refpool.Ref[uint32], 0, 8)
		for i := 0; i < 8; i++ {
			r, err := p.Alloc()
			if err != nil {
				t.Fatalf("Alloc() %d error = %v", i, err)
			}
			refs = append(refs, r)
		}
		if _, err := p.Alloc(); !errors.Is(err, refpool.ErrOutOfMemory) {
			t.Errorf("Alloc() past capacity error = %v, want ErrOutOfMemory", err)
		}
		for _, r := range refs {
			r.Release()
		}
	})

	t.Run("ZeroCapacityPool", func(t *testing.T) {
		for _, size := range []int{0, 1, 11} {
			p := refpool.NewPool[uint32](make([]byte, size))
			if got := p.Capacity(); got != 0 {
				t.Errorf("capacity over %d bytes = %d, want 0", size, got)
			}
			if _, err := p.Alloc(); !errors.Is(err, refpool.ErrOutOfMemory) {
				t.Errorf("Alloc() over %d bytes error = %v, want ErrOutOfMemory", size, err)
			}
			if got := p.LiveCount(); got != 0 {
				t.Errorf("LiveCount() = %d, want 0", got)
			}
		}
	})

	t.Run("StructPayload", func(t *testing.T) {
		type order struct {
			ID    uint64
			Price int64
			Qty   int32
			Side  byte
		}
		p := refpool.NewPool[order](make([]byte, 4096))

		a, err := p.Alloc()
		if err != nil {
			t.Fatalf("Alloc() error = %v", err)
		}
		*a.Get() = order{ID: 1, Price: 1050, Qty: 3, Side: 'B'}

		b, err := p.AllocFrom(a)
		if err != nil {
			t.Fatalf("AllocFrom() error = %v", err)
		}
		if *b.Get() != *a.Get() {
			t.Errorf("copied struct = %+v, want %+v", *b.Get(), *a.Get())
		}
		b.Get().Side = 'S'
		if a.Get().Side != 'B' {
			t.Error("writing the copy mutated the source")
		}
		a.Release()
		b.Release()
	})

	t.Run("LargeArrayPayload", func(t *testing.T) {
		p := refpool.NewPool[[256]byte](make([]byte, 3*(8+256)))
		if got := p.Capacity(); got != 3 {
			t.Fatalf("capacity = %d, want 3", got)
		}
		r, err := p.Alloc()
		if err != nil {
			t.Fatalf("Alloc() error = %v", err)
		}
		for i := range r.Get() {
			r.Get()[i] = byte(i)
		}
		for i, v := range r.Get() {
			if v != byte(i) {
				t.Fatalf("payload byte %d = %d, want %d", i, v, byte(i))
			}
		}
		r.Release()
	})

	t.Run("FIFOReuseOrder", func(t *testing.T) {
		p := refpool.NewPool[uint32](make([]byte, 120))
		a, _ := p.Alloc() // 0
		b, _ := p.Alloc() // 1
		c, _ := p.Alloc() // 2

		// Release out of index order; reuse follows release order.
		b.Release()
		a.Release()
		c.Release()

		for _, want := range []int{1, 0, 2} {
			r, err := p.Alloc()
			if err != nil {
				t.Fatalf("Alloc() error = %v", err)
			}
			if got := r.Index(); got != want {
				t.Errorf("reuse index = %d, want %d", got, want)
			}
		}
	})

	t.Run("RepeatedCycles", func(t *testing.T) {
		p := refpool.NewPool[uint64](make([]byte, 16))
		for i := 0; i < 1000; i++ {
			r, err := p.Alloc()
			if err != nil {
				t.Fatalf("cycle %d: Alloc() error = %v", i, err)
			}
			if r.Index() != 0 {
				t.Fatalf("cycle %d: index = %d, want 0", i, r.Index())
			}
			*r.Get() = uint64(i)
			r.Release()
		}
		if got := p.Stats().Tail; got != 1 {
			t.Errorf("tail after 1000 cycles = %d, want 1", got)
		}
	})

	t.Run("PayloadIndependence", func(t *testing.T) {
		p := refpool.NewPool[uint64](make([]byte, 10*16))
		refs := make([]refpool.Ref[uint64], 10)
		for i := range refs {
			r, err := p.Alloc()
			if err != nil {
				t.Fatalf("Alloc() %d error = %v", i, err)
			}
			*r.Get() = 0x0101010101010101 * uint64(i+1)
			refs[i] = r
		}
		for i, r := range refs {
			if got, want := *r.Get(), 0x0101010101010101*uint64(i+1); got != want {
				t.Errorf("slot %d payload = %#x, want %#x", i, got, want)
			}
			r.Release()
		}
	})

	t.Run("StaleRefAfterRecycle", func(t *testing.T) {
		p := refpool.NewPool[uint32](make([]byte, 100))
		old, err := p.Alloc()
		if err != nil {
			t.Fatalf("Alloc() error = %v", err)
		}
		old.Release()

		fresh, err := p.Alloc() // recycles slot 0
		if err != nil {
			t.Fatalf("Alloc() error = %v", err)
		}
		defer fresh.Release()

		defer func() {
			if recover() == nil {
				t.Error("expected panic dereferencing a stale ref to a recycled slot")
			}
		}()
		old.Get()
	})

	t.Run("DoubleReleasePanics", func(t *testing.T) {
		p := refpool.NewPool[uint32](make([]byte, 100))
		r, err := p.Alloc()
		if err != nil {
			t.Fatalf("Alloc() error = %v", err)
		}
		r.Release()
		defer func() {
			if recover() == nil {
				t.Error("expected panic on double release")
			}
		}()
		r.Release()
	})

	t.Run("SafePoolHammer", func(t *testing.T) {
		const workers = 8
		s := refpool.NewSafePool[uint64](make([]byte, workers*2*16))

		var wg sync.WaitGroup
		wg.Add(workers)
		for w := 0; w < workers; w++ {
			go func(w int) {
				defer wg.Done()
				for i := 0; i < 500; i++ {
					r, err := s.Alloc()
					if err != nil {
						t.Errorf("worker %d: Alloc() error = %v", w, err)
						return
					}
					*r.Get() = uint64(w)<<32 | uint64(i)
					c := r.Clone()
					if got := *c.Get(); got != uint64(w)<<32|uint64(i) {
						t.Errorf("worker %d: payload = %#x", w, got)
					}
					c.Release()
					r.Release()
				}
			}(w)
		}
		wg.Wait()

		if got := s.LiveCount(); got != 0 {
			t.Errorf("LiveCount() after hammer = %d, want 0", got)
		}
	})
}
