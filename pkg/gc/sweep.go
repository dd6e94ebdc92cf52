package gc

// runSweep implements the mark/trace/reclaim pass. It assumes the caller
// (GC) has already rejected the re-entrant case.
func (ctx *Context) runSweep() {
	ctx.phase = phaseInSweep
	defer func() { ctx.phase = phaseNormal }()

	interior := ctx.reg.steal()
	if len(interior) == 0 {
		return
	}

	tok := &Token{}

	// Initial marking: every header starts the sweep Active. Anything with
	// an outstanding root is reachable by definition and seeds the trace
	// worklist; everything else is only provisionally unreachable.
	for _, h := range interior {
		if h.state != stateActive {
			contractViolation("sweep encountered a header outside the Active state before marking")
		}
		if h.rootCount > 0 {
			h.state = stateTracked
			h.next = tok.worklist
			tok.worklist = h
		} else {
			h.state = stateUntracked
		}
	}

	// Closure: drain the worklist, tracing each Tracked header's payload.
	// Token.Accept promotes any Untracked target it reaches to Tracked and
	// re-queues it, so this converges once every header reachable from a
	// rooted header has been visited exactly once.
	for {
		h := tok.pop()
		if h == nil {
			break
		}
		if h.trace != nil {
			h.trace(tok)
		}
	}

	// Reclamation and relink: survivors (Tracked) go back into the
	// registry and return to Active; victims (Untracked) are destroyed only
	// now that the whole closure has run, so any victim's destructor that
	// upgrades a Weak to another victim correctly observes it as no longer
	// live, while a destructor that upgrades a Weak to a survivor correctly
	// observes it as alive.
	reclaimed := 0
	for _, h := range interior {
		switch h.state {
		case stateTracked:
			h.state = stateActive
			ctx.reg.append(h)
		case stateUntracked:
			// steal already cleared h's links and only Tracked headers are
			// ever queued on the worklist, so both fields are nil here; they
			// are cleared again so a later eagerCheck (once the last
			// outstanding Weak handle releases) finds unlink a safe no-op.
			h.next = nil
			h.prev = nil
			runDestroy(h)
			h.state = stateDropped
			reclaimed++
		default:
			contractViolation("sweep found a header in an unexpected state during reclamation")
		}
	}

	ctx.metrics.observeSweep(len(interior), reclaimed)
}
