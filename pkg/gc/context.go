package gc

import (
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/coachpo/arenagc/config"
	"github.com/coachpo/arenagc/diag"
)

// sweepPhase tracks whether a Context is currently running a sweep.
// Re-entrant allocation and re-entrant GC() calls are both contract
// violations; GC() suppresses the re-entrant call instead of panicking
// since a cooperative trace hook calling gc() is easy to write by accident
// and has a well-defined, harmless response (no-op).
type sweepPhase uint8

const (
	phaseNormal sweepPhase = iota
	phaseInSweep
)

// Context owns one registry of managed objects and the collector state
// machine that reclaims them. A Context and every handle derived from it
// belong to exactly one logical thread: there is no internal
// synchronization and sharing a Context across goroutines is forbidden.
type Context struct {
	id  string
	reg registry

	phase sweepPhase

	allocCount      uint64
	autoGCThreshold uint64
	limiter         *rate.Limiter

	debug   bool
	tracker map[*header]struct{}

	metrics *Metrics
}

// Option configures a Context at construction time.
type Option func(*Context)

// WithAutoGCThreshold is equivalent to calling SetAutoGC(n) immediately
// after construction.
func WithAutoGCThreshold(n uint) Option {
	return func(ctx *Context) { ctx.SetAutoGC(n) }
}

// WithAutoGCInterval is equivalent to calling SetAutoGCInterval(d)
// immediately after construction.
func WithAutoGCInterval(d time.Duration) Option {
	return func(ctx *Context) { ctx.SetAutoGCInterval(d) }
}

// WithDebug enables double-destroy detection: with it on, destroying the
// same header a second time panics as a contract violation.
func WithDebug(enabled bool) Option {
	return func(ctx *Context) { ctx.setDebug(enabled) }
}

// WithMetrics attaches a pre-built Metrics instance, e.g. one created
// against a test-local prometheus.Registry, in place of the Metrics that
// NewContext registers against a fresh private registry.
func WithMetrics(m *Metrics) Option {
	return func(ctx *Context) { ctx.metrics = m }
}

// WithSettings applies process-wide default tunables loaded via
// config.Default or config.FromEnv. Options run in argument order, so an
// Option listed after WithSettings overrides it and one listed before it is
// overridden.
func WithSettings(s config.Settings) Option {
	return func(ctx *Context) {
		ctx.SetAutoGC(s.AutoGCThreshold)
		if s.AutoGCIntervalSeconds > 0 {
			ctx.SetAutoGCInterval(time.Duration(s.AutoGCIntervalSeconds * float64(time.Second)))
		}
		ctx.setDebug(s.DebugPoisoning)
	}
}

// NewContext constructs an empty collector context.
func NewContext(opts ...Option) *Context {
	ctx := &Context{
		id:      uuid.NewString(),
		reg:     newRegistry(),
		metrics: NewMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(ctx)
		}
	}
	return ctx
}

// ID returns the Context's identifier, carried in its leak diagnostics so
// multiple independent collectors remain distinguishable in logs.
func (ctx *Context) ID() string { return ctx.id }

// SetAutoGC arranges for a sweep to run every n allocations. Setting n
// resets the internal allocation counter; n == 0 disables the
// allocation-count trigger.
func (ctx *Context) SetAutoGC(n uint) {
	ctx.autoGCThreshold = uint64(n)
	ctx.allocCount = 0
}

// SetAutoGCInterval paces sweeps by wall-clock time in addition to (or
// instead of) the allocation-count threshold. Unlike a timer-driven
// scheduler, the interval is only ever consulted cooperatively — inside
// Alloc and Tick, on the caller's own goroutine — so the Context never
// spawns a goroutine of its own. d <= 0 disables the interval trigger.
func (ctx *Context) SetAutoGCInterval(d time.Duration) {
	if d <= 0 {
		ctx.limiter = nil
		return
	}
	ctx.limiter = rate.NewLimiter(rate.Every(d), 1)
}

func (ctx *Context) setDebug(enabled bool) {
	ctx.debug = enabled
	if enabled && ctx.tracker == nil {
		ctx.tracker = make(map[*header]struct{})
	}
	if !enabled {
		ctx.tracker = nil
	}
}

// Tick gives the Context a chance to run a wall-clock-paced sweep even
// between allocations. A host with its own event loop can call this once
// per iteration to get SetAutoGCInterval's cadence without ever allocating.
func (ctx *Context) Tick() {
	if ctx.limiter != nil && ctx.limiter.Allow() {
		ctx.GC()
	}
}

// checkAutoGC runs a sweep if either auto-GC trigger has armed, and resets
// the allocation counter so the threshold trigger fires on a fixed cadence
// (every N allocations) rather than on every allocation once N is reached.
func (ctx *Context) checkAutoGC() {
	if ctx.autoGCThreshold > 0 && ctx.allocCount >= ctx.autoGCThreshold {
		ctx.GC()
		ctx.allocCount = 0
		return
	}
	if ctx.limiter != nil && ctx.limiter.Allow() {
		ctx.GC()
	}
}

// Alloc constructs a managed object from payload, links it into ctx's
// registry, and returns a Strong handle owning its first unit of
// rootCount. If an auto-GC trigger has fired, a sweep runs before the new
// header is linked in, so the allocation never itself becomes sweep bait.
//
// Alloc is a package-level generic function, not a method, because Go
// methods cannot carry their own type parameters.
func Alloc[T Tracer](ctx *Context, payload T) Strong[T] {
	if ctx.phase == phaseInSweep {
		contractViolation("allocation from inside a trace hook (Context is mid-sweep)")
	}

	ctx.checkAutoGC()

	h := &header{
		ctx:       ctx,
		state:     stateActive,
		rootCount: 1,
		payload:   payload,
	}
	h.trace = func(tok *Token) { payload.Trace(tok) }
	if d, ok := any(payload).(Destroyer); ok {
		h.destroy = func() { d.Destroy() }
	}

	ctx.reg.append(h)
	ctx.allocCount++
	ctx.metrics.observeAlloc()
	return Strong[T]{h: h, val: payload}
}

// GC runs a sweep synchronously. It is a no-op if a sweep is already in
// progress (re-entrant gc() calls from inside a trace hook are suppressed,
// not rejected, since that is the one re-entrancy case a host can trigger
// without meaning to).
func (ctx *Context) GC() {
	if ctx.phase == phaseInSweep {
		return
	}
	ctx.runSweep()
}

// LeakedObject describes a header that was still reachable — and so never
// destroyed — when its Context was closed. A non-empty leak report always
// indicates a bug in the host: either a handle was never released, or a
// cycle was formed without ever dropping every external Strong handle into
// it.
type LeakedObject struct {
	TypeName  string
	RootCount uint32
	WeakCount uint32
}

// Close runs a final sweep, then inspects whatever remains linked in the
// registry. Anything still present survived that sweep only because a
// Strong handle into it was never released — a host bug. Per the
// lifecycle's safety guarantee such objects are never destroyed outright:
// Close detaches them, pins their rootCount so they can never reach zero,
// and leaks them rather than risk running a destructor while some Strong
// handle still thinks the object is alive. The leaked set is logged as a
// diagnostic and returned so a host can act on it programmatically.
func (ctx *Context) Close() []LeakedObject {
	ctx.GC()

	var leaks []LeakedObject
	for h := ctx.reg.head.next; h != &ctx.reg.tail; {
		next := h.next
		ctx.reg.unlink(h)
		typeName := "unknown"
		if h.payload != nil {
			typeName = typeNameOf(h.payload)
		}
		leaks = append(leaks, LeakedObject{
			TypeName:  typeName,
			RootCount: h.rootCount,
			WeakCount: h.weakCount,
		})
		h.rootCount++
		h.ctx = nil
		h = next
	}

	if len(leaks) > 0 {
		report := diag.New(
			ctx.id,
			diag.CodeCycleLeak,
			diag.WithObjectCount(len(leaks)),
			diag.WithMessage("objects remained reachable at context teardown"),
			diag.WithRemediation("release every Strong handle before closing the context"),
		)
		log.Printf("gc: %s", report.Error())
		ctx.metrics.observeLeak(len(leaks))
	}

	return leaks
}

func (ctx *Context) guardDoubleFree(h *header) {
	if _, seen := ctx.tracker[h]; seen {
		ctx.metrics.observeDoubleFree()
		contractViolation("double-destroy detected for the same header")
	}
	ctx.tracker[h] = struct{}{}
}
