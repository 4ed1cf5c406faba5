// SPDX-License-Identifier: Unlicense OR MIT

// Package pool provides a generational slot pool. Values are named by
// Handles that expire when their slot is freed, so a stale reference
// is detected by an explicit liveness check instead of keeping the
// value alive.
package pool

// Handle names a value in a Pool. The zero Handle is never live.
type Handle struct {
	idx uint32
	gen uint32
}

type slot[T any] struct {
	val  T
	gen  uint32
	live bool
}

// Pool is a generational slot pool. The zero value is an empty pool.
type Pool[T any] struct {
	slots []slot[T]
	free  []uint32
}

// Insert stores v and returns its Handle.
func (p *Pool[T]) Insert(v T) Handle {
	if n := len(p.free); n > 0 {
		idx := p.free[n-1]
		p.free = p.free[:n-1]
		s := &p.slots[idx]
		s.val = v
		s.live = true
		return Handle{idx: idx, gen: s.gen}
	}
	p.slots = append(p.slots, slot[T]{val: v, gen: 1, live: true})
	return Handle{idx: uint32(len(p.slots) - 1), gen: 1}
}

// Get returns the value named by h. It reports false when h has
// expired or was never live.
func (p *Pool[T]) Get(h Handle) (T, bool) {
	if s := p.lookup(h); s != nil {
		return s.val, true
	}
	var zero T
	return zero, false
}

// Free expires h and returns its value. Freeing an expired handle
// reports false and has no effect.
func (p *Pool[T]) Free(h Handle) (T, bool) {
	s := p.lookup(h)
	if s == nil {
		var zero T
		return zero, false
	}
	v := s.val
	var zero T
	s.val = zero
	s.live = false
	s.gen++
	p.free = append(p.free, h.idx)
	return v, true
}

// Len returns the number of live values.
func (p *Pool[T]) Len() int {
	return len(p.slots) - len(p.free)
}

func (p *Pool[T]) lookup(h Handle) *slot[T] {
	if int(h.idx) >= len(p.slots) {
		return nil
	}
	s := &p.slots[h.idx]
	if !s.live || s.gen != h.gen {
		return nil
	}
	return s
}
