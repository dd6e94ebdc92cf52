package gc

import "testing"

func newTestHeader() *header {
	return &header{state: stateActive}
}

func TestRegistryAppendPreservesInsertionOrder(t *testing.T) {
	r := newRegistry()
	a, b, c := newTestHeader(), newTestHeader(), newTestHeader()
	r.append(a)
	r.append(b)
	r.append(c)

	var order []*header
	r.walk(func(h *header) { order = append(order, h) })

	if len(order) != 3 || order[0] != a || order[1] != b || order[2] != c {
		t.Fatalf("expected insertion order a,b,c, got %v", order)
	}
}

func TestRegistryUnlinkSplicesNeighbors(t *testing.T) {
	r := newRegistry()
	a, b, c := newTestHeader(), newTestHeader(), newTestHeader()
	r.append(a)
	r.append(b)
	r.append(c)

	r.unlink(b)

	var order []*header
	r.walk(func(h *header) { order = append(order, h) })
	if len(order) != 2 || order[0] != a || order[1] != c {
		t.Fatalf("expected a,c after unlinking b, got %v", order)
	}
	if b.next != nil || b.prev != nil {
		t.Fatalf("expected unlinked header's links cleared, got next=%v prev=%v", b.next, b.prev)
	}
}

func TestRegistryUnlinkIsNoOpOnAlreadyDetachedHeader(t *testing.T) {
	r := newRegistry()
	a := newTestHeader()
	r.append(a)
	r.unlink(a)

	// A second unlink on an already-detached header must not touch the
	// sentinels or panic.
	r.unlink(a)
	if !r.empty() {
		t.Fatalf("expected registry to remain empty after double unlink")
	}
}

func TestRegistryStealDetachesEverythingInReverseOrder(t *testing.T) {
	r := newRegistry()
	a, b, c := newTestHeader(), newTestHeader(), newTestHeader()
	r.append(a)
	r.append(b)
	r.append(c)

	out := r.steal()
	if len(out) != 3 || out[0] != c || out[1] != b || out[2] != a {
		t.Fatalf("expected reverse insertion order c,b,a, got %v", out)
	}
	if !r.empty() {
		t.Fatalf("expected registry empty after steal")
	}
	for _, h := range out {
		if h.next != nil || h.prev != nil {
			t.Fatalf("expected stolen header fully detached, got next=%v prev=%v", h.next, h.prev)
		}
	}
}

func TestRegistryStealOnEmptyRegistryReturnsNil(t *testing.T) {
	r := newRegistry()
	if out := r.steal(); out != nil {
		t.Fatalf("expected nil from stealing an empty registry, got %v", out)
	}
}
