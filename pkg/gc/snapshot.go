package gc

import "gopkg.in/yaml.v3"

// objectSnapshot is one header's state as rendered by DumpRegistry.
type objectSnapshot struct {
	Index     int    `yaml:"index"`
	Type      string `yaml:"type"`
	State     string `yaml:"state"`
	RootCount uint32 `yaml:"rootCount"`
	WeakCount uint32 `yaml:"weakCount"`
	Edges     []int  `yaml:"weakEdges,omitempty"`
}

// registrySnapshot is the root document produced by DumpRegistry.
type registrySnapshot struct {
	ContextID string           `yaml:"contextId"`
	Objects   []objectSnapshot `yaml:"objects"`
}

// DumpRegistry renders every header currently linked in ctx's registry as
// YAML: its lifecycle state, its two counters, and the indices of the
// objects it reaches through Weak edges. It must not be called while a
// sweep is in progress — the registry is detached during a sweep and has
// nothing to walk.
//
// This is a debugging aid, not part of the collector's reclamation
// contract: it traces every payload through a dump-mode Token that records
// every edge unconditionally, without mutating lifecycle state, so calling
// it never perturbs a subsequent real sweep.
func (ctx *Context) DumpRegistry() ([]byte, error) {
	if ctx.phase == phaseInSweep {
		contractViolation("DumpRegistry called while a sweep is in progress")
	}

	index := make(map[*header]int)
	var order []*header
	ctx.reg.walk(func(h *header) {
		index[h] = len(order)
		order = append(order, h)
	})

	doc := registrySnapshot{ContextID: ctx.id}
	for i, h := range order {
		snap := objectSnapshot{
			Index:     i,
			Type:      typeNameOf(h.payload),
			State:     h.state.String(),
			RootCount: h.rootCount,
			WeakCount: h.weakCount,
		}
		if h.trace != nil {
			var edges []*header
			tok := &Token{dump: &edges}
			h.trace(tok)
			for _, target := range edges {
				if idx, ok := index[target]; ok {
					snap.Edges = append(snap.Edges, idx)
				}
			}
		}
		doc.Objects = append(doc.Objects, snap)
	}

	return yaml.Marshal(doc)
}
