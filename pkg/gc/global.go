package gc

import (
	"sync"
	"sync/atomic"
)

var (
	globalInstance atomic.Pointer[Context]
	globalOnce     sync.Once
)

// InitGlobal initializes the process-wide default Context. Subsequent
// calls are no-ops — exactly one global Context can ever exist per process,
// matching the single-threaded, single-owner model every Context follows.
func InitGlobal(opts ...Option) {
	globalOnce.Do(func() {
		globalInstance.Store(NewContext(opts...))
	})
}

// Global returns the initialized process-wide default Context. It panics
// if InitGlobal has not been called first.
func Global() *Context {
	ctx := globalInstance.Load()
	if ctx == nil {
		panic("gc: global context not initialized")
	}
	return ctx
}
