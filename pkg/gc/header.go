// Package gc implements a single-threaded, hybrid reference-counting and
// tracing collector for an embeddable arena of managed objects. Ordinary
// references are plain reference counts, reclaimed the instant they drop to
// zero; cyclic references are expressed as weak edges and are only ever
// reclaimed by a cooperative mark/trace/reclaim sweep (see Context.GC).
package gc

// objState is the per-header lifecycle state.
type objState uint8

const (
	stateActive objState = iota
	stateTracked
	stateUntracked
	stateDropped
)

func (s objState) String() string {
	switch s {
	case stateActive:
		return "active"
	case stateTracked:
		return "tracked"
	case stateUntracked:
		return "untracked"
	case stateDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// header is the intrusive registry node shared by every managed object. It
// carries the type-erased trace/destroy dispatch installed once at
// allocation, the doubly-linked registry pointers, the lifecycle state, and
// the two handle counters. header.next doubles as the sweep worklist link
// once the registry has been detached (Token.Accept, Context.runSweep) —
// that reuse is only valid while the owning registry's interior is stolen.
type header struct {
	next, prev *header
	ctx        *Context

	state     objState
	rootCount uint32
	weakCount uint32

	payload any
	trace   func(tok *Token)
	destroy func()
}

// isSentinel reports whether h anchors a registry rather than holding a
// user payload. Sentinels carry rootCount == 1 permanently so the eager
// check never fires on them and they are never offered to a trace. It also
// reports true for a header whose payload has been destroyed, since
// runDestroy clears the same three fields it checks.
func (h *header) isSentinel() bool {
	return h.trace == nil && h.destroy == nil && h.payload == nil
}
