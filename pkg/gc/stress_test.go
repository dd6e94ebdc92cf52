package gc_test

import (
	"testing"

	concpool "github.com/sourcegraph/conc/pool"
	"go.uber.org/goleak"

	"github.com/coachpo/arenagc/pkg/gc"
)

// fanNode is a small cyclic payload used purely to give each independent
// Context something nontrivial to reclaim under concurrent load.
type fanNode struct {
	peer      *gc.Cell[gc.Weak[*fanNode]]
	destroyed *int
}

func (n *fanNode) Trace(tok *gc.Token) {
	tok.Accept(n.peer.Get())
}

func (n *fanNode) Destroy() {
	*n.destroyed++
}

// TestIndependentContextsUnderConcurrentLoadDoNotLeakGoroutines drives many
// Contexts in parallel, each confined to its own goroutine for its entire
// lifetime as the single-threaded-per-Context contract requires — no
// Context, Strong, or Weak value is ever shared across a goroutine boundary.
func TestIndependentContextsUnderConcurrentLoadDoNotLeakGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t)

	const contexts = 32
	const cyclesPerContext = 200

	p := concpool.New().WithMaxGoroutines(8)
	for i := 0; i < contexts; i++ {
		p.Go(func() {
			ctx := gc.NewContext(gc.WithAutoGCThreshold(16))

			var destroyed int
			for j := 0; j < cyclesPerContext; j++ {
				a := gc.Alloc(ctx, &fanNode{peer: gc.NewCell(gc.Weak[*fanNode]{}), destroyed: &destroyed})
				b := gc.Alloc(ctx, &fanNode{peer: gc.NewCell(gc.Weak[*fanNode]{}), destroyed: &destroyed})

				aWeak := a.Downgrade()
				bWeak := b.Downgrade()
				a.Value().peer.Set(bWeak)
				b.Value().peer.Set(aWeak)

				a.Release()
				b.Release()
			}

			leaks := ctx.Close()
			if len(leaks) != 0 {
				t.Errorf("expected no leaks in an independent context, got %v", leaks)
			}
			if destroyed != cyclesPerContext*2 {
				t.Errorf("expected all %d cycle members destroyed, got %d", cyclesPerContext*2, destroyed)
			}
		})
	}
	p.Wait()
}
