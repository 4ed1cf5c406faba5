// SPDX-License-Identifier: Unlicense OR MIT

package pool

import "testing"

func TestPool(t *testing.T) {
	var p Pool[string]
	h1 := p.Insert("one")
	h2 := p.Insert("two")
	if got, ok := p.Get(h1); !ok || got != "one" {
		t.Fatalf("Get(h1) = %q, %v, expected \"one\", true", got, ok)
	}
	if got, ok := p.Get(h2); !ok || got != "two" {
		t.Fatalf("Get(h2) = %q, %v, expected \"two\", true", got, ok)
	}
	if got := p.Len(); got != 2 {
		t.Fatalf("Len() = %d, expected 2", got)
	}
}

func TestPoolExpiry(t *testing.T) {
	var p Pool[int]
	h := p.Insert(1)
	if v, ok := p.Free(h); !ok || v != 1 {
		t.Fatalf("Free = %d, %v, expected 1, true", v, ok)
	}
	if _, ok := p.Get(h); ok {
		t.Error("Get succeeded on a freed handle")
	}
	if _, ok := p.Free(h); ok {
		t.Error("double Free succeeded")
	}
	// The slot is reused, but the stale handle must not see the new
	// occupant.
	h2 := p.Insert(2)
	if _, ok := p.Get(h); ok {
		t.Error("stale handle resolved after slot reuse")
	}
	if v, ok := p.Get(h2); !ok || v != 2 {
		t.Fatalf("Get(h2) = %d, %v, expected 2, true", v, ok)
	}
}

func TestPoolZeroHandle(t *testing.T) {
	var p Pool[int]
	p.Insert(1)
	if _, ok := p.Get(Handle{}); ok {
		t.Error("zero Handle resolved")
	}
}
