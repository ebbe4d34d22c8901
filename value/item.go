// Package value implements the structured-value contract that icache
// treats as an external collaborator: a reference-counted Item with a
// fast fingerprint, a deep structural equality check, and in-place
// attribute mutation. Probes build Items; icache only ever fingerprints,
// compares, stamps, and forwards them.
package value

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/google/go-cmp/cmp"
)

// Item is an opaque, reference-counted structured value, modeled on the
// "head record" of a probe-emitted observation: a record Kind (e.g.
// "file_item"), an optional stamped ID, and an unordered set of named
// attributes.
//
// Instances must be created via New. The zero value is not usable.
type Item struct {
	refs  atomic.Int32
	kind  string
	id    string
	attrs map[string]any
}

// New allocates an Item with a single reference, of the given record
// kind, copying attrs into the item's own storage.
func New(kind string, attrs map[string]any) *Item {
	it := &Item{kind: kind, attrs: make(map[string]any, len(attrs))}
	for k, v := range attrs {
		it.attrs[k] = v
	}
	it.refs.Store(1)
	return it
}

// Kind returns the item's record kind.
func (it *Item) Kind() string { return it.kind }

// ID returns the stamped identifier, or "" if it hasn't been stamped.
func (it *Item) ID() string { return it.id }

// Attr returns the named attribute, and whether it was present.
func (it *Item) Attr(key string) (any, bool) {
	v, ok := it.attrs[key]
	return v, ok
}

// SetID replaces the item's stamped ID attribute in place, at what the
// original C implementation treats as a fixed offset in the item's head
// record. Only the canonical instance of a deduplicated item should
// ever have this called on it; aliased duplicates keep sharing the
// canonical instance's ID rather than acquiring their own.
func (it *Item) SetID(id string) { it.id = id }

// fingerprintOverrideAttr lets tests construct items that collide on
// fingerprint without structurally being equal (real xxhash collisions
// on short-lived test data are not practically reproducible). It is an
// ordinary attribute otherwise: DeepEqual still compares it like any
// other, so items must share its value to collide, same as any real
// fingerprint collision would require identical hash inputs.
const fingerprintOverrideAttr = "__fp_override"

// Fingerprint computes a 64-bit hash over the item's kind and
// attributes. It is fast but not injective: structurally distinct items
// may collide, which DeepEqual resolves. The stamped ID never
// participates, so an item fingerprints identically before and after
// being stamped.
func (it *Item) Fingerprint() uint64 {
	if v, ok := it.attrs[fingerprintOverrideAttr]; ok {
		if fp, ok := v.(uint64); ok {
			return fp
		}
	}

	h := xxhash.New()
	_, _ = h.WriteString(it.kind)
	for _, k := range it.sortedKeys() {
		_, _ = h.WriteString(k)
		_, _ = fmt.Fprintf(h, "=%v;", it.attrs[k])
	}
	return h.Sum64()
}

func (it *Item) sortedKeys() []string {
	keys := make([]string, 0, len(it.attrs))
	for k := range it.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DeepEqual reports whether it and other carry the same kind and
// attributes. The stamped ID is intentionally excluded from the
// comparison: two items differing only by ID (the common case
// immediately after dequeue, before either has been stamped) must still
// compare equal, or true hits would never be detected.
func (it *Item) DeepEqual(other *Item) bool {
	if it == other {
		return true
	}
	if other == nil || it.kind != other.kind {
		return false
	}
	return cmp.Equal(it.attrs, other.attrs)
}

// Acquire increments the reference count and returns it, for callers
// that need to retain their own reference alongside one held elsewhere
// (e.g. an interned chain and a sink both referencing the same
// canonical item).
func (it *Item) Acquire() *Item {
	it.refs.Add(1)
	return it
}

// Release decrements the reference count. This implementation does not
// free Go-managed memory explicitly (the garbage collector owns that);
// it exists so leak-detection tests (the "no-leak" property, spec §8)
// can assert that acquires and releases balance over a Cache's
// lifetime.
func (it *Item) Release() {
	if it.refs.Add(-1) < 0 {
		panic("value: Item: released more times than acquired")
	}
}

// RefCount returns the current reference count. Exposed for tests.
func (it *Item) RefCount() int32 { return it.refs.Load() }

// Clone returns a new Item with the same kind and attributes (not the
// stamped ID) and a fresh reference count of 1. Probes use this to
// submit structurally-equal-but-distinct references, as in scenario S2.
func (it *Item) Clone() *Item {
	return New(it.kind, it.attrs)
}
