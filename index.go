package icache

import (
	"fmt"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"

	"github.com/openscap-go/icache/value"
)

// internedChain is a small, append-only list of items sharing one
// fingerprint. Invariant: no two items in a chain are DeepEqual (spec
// §3). Chains are expected to stay short (typically length 1); a hash
// collision between structurally distinct items grows a chain to
// length 2 or more, at which point a linear scan resolves lookups.
type internedChain struct {
	items []*value.Item
}

// index maps a 64-bit fingerprint to at most one internedChain. It is
// touched only by the worker goroutine, so it needs no locking of its
// own (spec §5). Backed by an ecosystem balanced ordered map rather
// than a hand-rolled tree, per spec §4.3's "implementation is a
// balanced ordered map" note — ordering itself is not user-visible.
type index struct {
	tree *treemap.Map
}

func newIndex() *index {
	return &index{tree: treemap.NewWith(utils.Int64Comparator)}
}

func fingerprintKey(fp uint64) int64 {
	// reinterprets the bit pattern, not a numeric truncation: preserves
	// uniqueness while giving treemap's Int64Comparator something
	// ordered to sort on. Ordering is not user-visible (spec §4.3).
	return int64(fp)
}

func (x *index) lookup(fp uint64) (*internedChain, bool) {
	v, ok := x.tree.Get(fingerprintKey(fp))
	if !ok {
		return nil, false
	}
	return v.(*internedChain), true
}

// insert adds a new chain for fp. It panics if fp is already present:
// per spec §4.3/§7, only the worker goroutine ever touches the index,
// so a collision here indicates a broken invariant (e.g. insert called
// after a lookup that should have hit), not a race to recover from.
func (x *index) insert(fp uint64, chain *internedChain) {
	if _, exists := x.tree.Get(fingerprintKey(fp)); exists {
		panic(fmt.Sprintf("icache: index: fingerprint %#x already present", fp))
	}
	x.tree.Put(fingerprintKey(fp), chain)
}

// drain enumerates every chain, for teardown (Free releases every
// interned item exactly once).
func (x *index) drain(visit func(*internedChain)) {
	x.tree.Each(func(_ interface{}, v interface{}) {
		visit(v.(*internedChain))
	})
}
