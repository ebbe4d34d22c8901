package icache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openscap-go/icache/value"
)

func TestIndex_LookupMiss(t *testing.T) {
	idx := newIndex()
	_, ok := idx.lookup(42)
	assert.False(t, ok)
}

func TestIndex_InsertAndLookup(t *testing.T) {
	idx := newIndex()
	chain := &internedChain{items: []*value.Item{value.New("a", nil)}}
	idx.insert(7, chain)

	got, ok := idx.lookup(7)
	require.True(t, ok)
	assert.Same(t, chain, got)
}

func TestIndex_InsertDuplicateFingerprintPanics(t *testing.T) {
	idx := newIndex()
	idx.insert(7, &internedChain{})
	assert.Panics(t, func() { idx.insert(7, &internedChain{}) })
}

func TestIndex_Drain(t *testing.T) {
	idx := newIndex()
	idx.insert(1, &internedChain{items: []*value.Item{value.New("a", nil)}})
	idx.insert(2, &internedChain{items: []*value.Item{value.New("b", nil), value.New("b2", nil)}})

	var total int
	idx.drain(func(c *internedChain) { total += len(c.items) })
	assert.Equal(t, 3, total)
}
