package node

import (
	"fmt"
	"sync/atomic"

	"github.com/petermattis/goid"
)

var strictAffinity atomic.Bool

// SetStrictAffinity enables a debug check: every pin access panics with
// ErrAffinity unless it runs on the goroutine that created the node.
// Only nodes created while the check is enabled are checked.
func SetStrictAffinity(on bool) {
	strictAffinity.Store(on)
}

// currentOwner returns the goroutine id to pin a new node to, or 0.
func currentOwner() int64 {
	if !strictAffinity.Load() {
		return 0
	}
	return goid.Get()
}

func (n *instance[T]) checkAffinity() {
	if n.owner == 0 {
		return
	}
	if id := goid.Get(); id != n.owner {
		panic(fmt.Errorf("%w: node %s owned by goroutine %d, accessed from %d",
			ErrAffinity, n.desc.name, n.owner, id))
	}
}
