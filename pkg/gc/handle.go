package gc

import (
	"fmt"
	"runtime/debug"
)

// Strong is a root handle: it owns one unit of the target's rootCount and
// guarantees the payload is alive — constructed, not yet destroyed — for as
// long as the handle itself is alive. The zero Strong[T] is not associated
// with any object; Release and Clone on a zero value are no-ops.
type Strong[T Tracer] struct {
	h   *header
	val T
}

// Value returns the managed payload. It is always safe to call: a Strong
// handle can never observe a destroyed payload.
func (s Strong[T]) Value() T {
	return s.val
}

// Clone acquires another Strong handle to the same object, incrementing
// rootCount.
func (s Strong[T]) Clone() Strong[T] {
	if s.h == nil {
		return s
	}
	acquireRoot(s.h)
	return Strong[T]{h: s.h, val: s.val}
}

// Downgrade produces a Weak handle to the same object without changing
// rootCount.
func (s Strong[T]) Downgrade() Weak[T] {
	if s.h == nil {
		return Weak[T]{}
	}
	acquireWeak(s.h)
	return Weak[T]{h: s.h}
}

// Thin erases s to a header-only handle, consuming s in the process — s no
// longer refers to anything after the call. The conversion carries the
// existing rootCount unit forward; it does not acquire a new one.
func (s *Strong[T]) Thin() StrongThin {
	if s == nil || s.h == nil {
		return StrongThin{}
	}
	h := s.h
	s.h = nil
	return StrongThin{h: h}
}

// Release drops this handle's unit of rootCount and runs the eager
// reclamation check. Calling Release more than once on the same Strong
// value is a no-op after the first call. Copying a Strong value instead of
// calling Clone, then releasing both copies, is a caller bug: the extra
// release panics as a contract violation only when it finds rootCount
// already zero; while other units remain it goes undetected.
func (s *Strong[T]) Release() {
	if s == nil || s.h == nil {
		return
	}
	h := s.h
	s.h = nil
	releaseRoot(h)
}

// Weak is an object handle: it owns one unit of the target's weakCount but
// does not keep the payload alive. It is the only handle shape payloads may
// store in their own fields to form a graph, including cycles — reference
// counting alone can never leak a cycle built from Weak edges because a
// cycle of Weak edges never holds rootCount above zero on its own.
type Weak[T Tracer] struct {
	h *header
}

func (w Weak[T]) gcTarget() *header { return w.h }

// Clone acquires another Weak handle to the same object, incrementing
// weakCount.
func (w Weak[T]) Clone() Weak[T] {
	if w.h == nil {
		return w
	}
	acquireWeak(w.h)
	return Weak[T]{h: w.h}
}

// Upgrade produces a Strong handle if the target has not been destroyed —
// state is Active or Tracked — incrementing rootCount on success. It
// returns false for a target that is Dropped or, transiently during a
// sweep, Untracked: the collector never resurrects an object the current
// sweep has already decided to reclaim. A target whose rootCount reaches
// zero while Weak handles remain is not destroyed eagerly: it stays Active,
// and Upgrade keeps succeeding, until either the last Weak handle releases
// or a sweep finds it unreachable from every rooted object.
func (w Weak[T]) Upgrade() (Strong[T], bool) {
	if w.h == nil {
		return Strong[T]{}, false
	}
	if w.h.state != stateActive && w.h.state != stateTracked {
		return Strong[T]{}, false
	}
	val, ok := w.h.payload.(T)
	if !ok {
		return Strong[T]{}, false
	}
	acquireRoot(w.h)
	return Strong[T]{h: w.h, val: val}, true
}

// Thin erases w to a header-only handle, consuming w.
func (w *Weak[T]) Thin() WeakThin {
	if w == nil || w.h == nil {
		return WeakThin{}
	}
	h := w.h
	w.h = nil
	return WeakThin{h: h}
}

// Release drops this handle's unit of weakCount and runs the eager
// reclamation check.
func (w *Weak[T]) Release() {
	if w == nil || w.h == nil {
		return
	}
	h := w.h
	w.h = nil
	releaseWeak(h)
}

// StrongThin is the header-only form of Strong: it drops the static type
// parameter and keeps only the header pointer. It can be cloned, downgraded
// and released without knowing the payload's concrete type; reading the
// payload needs a conversion back through FatStrong.
type StrongThin struct {
	h *header
}

func (s StrongThin) Clone() StrongThin {
	if s.h == nil {
		return s
	}
	acquireRoot(s.h)
	return StrongThin{h: s.h}
}

func (s StrongThin) Downgrade() WeakThin {
	if s.h == nil {
		return WeakThin{}
	}
	acquireWeak(s.h)
	return WeakThin{h: s.h}
}

func (s *StrongThin) Release() {
	if s == nil || s.h == nil {
		return
	}
	h := s.h
	s.h = nil
	releaseRoot(h)
}

// WeakThin is the header-only form of Weak.
type WeakThin struct {
	h *header
}

func (w WeakThin) gcTarget() *header { return w.h }

func (w WeakThin) Clone() WeakThin {
	if w.h == nil {
		return w
	}
	acquireWeak(w.h)
	return WeakThin{h: w.h}
}

func (w *WeakThin) Release() {
	if w == nil || w.h == nil {
		return
	}
	h := w.h
	w.h = nil
	releaseWeak(h)
}

// FatStrong recovers a typed Strong[T] from a thin handle, consuming s. It
// fails (returning false, leaving s untouched) if T does not match the
// handle's concrete payload type.
func FatStrong[T Tracer](s *StrongThin) (Strong[T], bool) {
	if s == nil || s.h == nil {
		return Strong[T]{}, false
	}
	val, ok := s.h.payload.(T)
	if !ok {
		return Strong[T]{}, false
	}
	h := s.h
	s.h = nil
	return Strong[T]{h: h, val: val}, true
}

// FatWeak recovers a typed Weak[T] from a thin handle, consuming w.
func FatWeak[T Tracer](w *WeakThin) (Weak[T], bool) {
	if w == nil || w.h == nil {
		return Weak[T]{}, false
	}
	h := w.h
	w.h = nil
	return Weak[T]{h: h}, true
}

// acquireRoot and acquireWeak are the only places the two counters are
// incremented; release{Root,Weak} are the only places they decrement. Every
// clone/downgrade/release above funnels through these four functions so the
// count laws hold regardless of which handle shape the caller used.
func acquireRoot(h *header) {
	h.rootCount++
}

func acquireWeak(h *header) {
	h.weakCount++
}

func releaseRoot(h *header) {
	if h.rootCount == 0 {
		contractViolation("release of a Strong handle with rootCount already zero")
	}
	h.rootCount--
	eagerCheck(h)
}

func releaseWeak(h *header) {
	if h.weakCount == 0 {
		contractViolation("release of a Weak handle with weakCount already zero")
	}
	h.weakCount--
	eagerCheck(h)
}

// eagerCheck implements the eager reclamation rule run on every handle
// release. Tracked/Untracked headers are owned by an in-progress sweep and
// are left untouched here regardless of their counters.
func eagerCheck(h *header) {
	switch h.state {
	case stateActive:
		if h.rootCount == 0 && h.weakCount == 0 {
			runDestroy(h)
			h.state = stateDropped
			if h.ctx != nil {
				h.ctx.reg.unlink(h)
			}
		}
	case stateDropped:
		if h.rootCount == 0 && h.weakCount == 0 && h.ctx != nil {
			h.ctx.reg.unlink(h)
		}
	case stateTracked, stateUntracked:
		// The sweep owns h; it performs any reclamation at end-of-sweep.
	}
}

func runDestroy(h *header) {
	if h.ctx != nil && h.ctx.debug {
		h.ctx.guardDoubleFree(h)
	}
	if h.destroy != nil {
		h.destroy()
	}
	if h.ctx != nil {
		h.ctx.metrics.observeDestroy()
	}
	h.payload = nil
	h.trace = nil
	h.destroy = nil
}

func contractViolation(msg string) {
	panic(fmt.Sprintf("gc: contract violation: %s\n%s", msg, debug.Stack()))
}
