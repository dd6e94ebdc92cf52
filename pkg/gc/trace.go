package gc

// Tracer is implemented by any payload type a Context can manage. Trace
// must report every Weak/WeakThin handle reachable through the receiver's
// own storage by calling tok.Accept once per handle. It must not report
// Strong handles — those already keep their target alive through
// rootCount — and it must not mutate graph structure: no handles may be
// dropped and no new objects may be allocated while Trace runs.
type Tracer interface {
	Trace(tok *Token)
}

// Destroyer is an optional payload hook run exactly once, synchronously,
// when the collector determines a payload is unreachable. Payloads that
// don't need cleanup beyond letting Go's own garbage collector reclaim
// their memory need not implement it.
type Destroyer interface {
	Destroy()
}

// WeakRef is satisfied by Weak[T] and WeakThin. It exists only so Token can
// accept either shape without the generic handle types needing to know
// about Token's internals; user code never implements it directly.
type WeakRef interface {
	gcTarget() *header
}

// Token is the worklist passed to Trace during a sweep. It is only valid
// for the duration of a single Trace call and must not be retained.
//
// dump, when non-nil, switches Accept into unconditional snapshot-collection
// mode: used only by Context.DumpRegistry, never during a real sweep.
type Token struct {
	worklist *header
	dump     *[]*header
}

// Accept reports a weak edge discovered while tracing a payload. If the
// edge's target is still provisionally unreachable (Untracked), it is
// promoted to reachable (Tracked) and queued for its own trace; otherwise
// the call is a no-op.
func (t *Token) Accept(w WeakRef) {
	if w == nil {
		return
	}
	h := w.gcTarget()
	if h == nil {
		return
	}
	if t.dump != nil {
		*t.dump = append(*t.dump, h)
		return
	}
	if h.state == stateUntracked {
		h.state = stateTracked
		h.next = t.worklist
		t.worklist = h
	}
}

func (t *Token) pop() *header {
	h := t.worklist
	if h == nil {
		return nil
	}
	t.worklist = h.next
	return h
}
