package icache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openscap-go/icache/value"
)

func TestRingQueue_PushPopFIFO(t *testing.T) {
	q := newRingQueue(4)

	items := []*value.Item{
		value.New("a", nil),
		value.New("b", nil),
		value.New("c", nil),
	}

	q.mu.Lock()
	for _, it := range items {
		require.True(t, q.pushNolock(queueEntry{sink: noopSink{}, item: it}))
	}
	require.Equal(t, 3, q.count)

	for _, want := range items {
		got := q.popNolock()
		require.Same(t, want, got.item)
	}
	require.Equal(t, 0, q.count)
	require.Equal(t, q.begin, q.end)
	q.mu.Unlock()
}

// TestRingQueue_EmptyTransitionLeavesBeginAtEnd pins the empty
// transition: popping the last element leaves begin on the next write
// slot (end, which the pop does not move), so an empty queue has
// begin == end.
func TestRingQueue_EmptyTransitionLeavesBeginAtEnd(t *testing.T) {
	q := newRingQueue(4)

	q.mu.Lock()
	require.True(t, q.pushNolock(queueEntry{sink: noopSink{}, item: value.New("a", nil)}))
	endBefore := q.end
	_ = q.popNolock()
	require.Equal(t, endBefore, q.begin)
	require.Equal(t, q.begin, q.end)
	q.mu.Unlock()
}

func TestRingQueue_Capacity(t *testing.T) {
	q := newRingQueue(2)

	q.mu.Lock()
	require.True(t, q.pushNolock(queueEntry{sink: noopSink{}, item: value.New("a", nil)}))
	require.True(t, q.pushNolock(queueEntry{sink: noopSink{}, item: value.New("b", nil)}))
	require.Equal(t, 2, q.count)
	q.mu.Unlock()

	started := make(chan struct{})
	blocked := make(chan struct{})
	go func() {
		q.mu.Lock()
		close(started)
		q.pushNolock(queueEntry{sink: noopSink{}, item: value.New("c", nil)})
		q.mu.Unlock()
		close(blocked)
	}()
	<-started

	select {
	case <-blocked:
		t.Fatal("push should have blocked at capacity")
	case <-time.After(50 * time.Millisecond):
	}

	q.mu.Lock()
	_ = q.popNolock()
	q.signalNotFull()
	q.mu.Unlock()

	<-blocked
}

func TestRingQueue_ShutdownWakesWaiters(t *testing.T) {
	q := newRingQueue(4)

	woke := make(chan bool, 1)
	go func() {
		q.mu.Lock()
		ok := q.waitNotEmpty()
		q.mu.Unlock()
		woke <- ok
	}()

	q.shutdown()

	require.False(t, <-woke)
}

type noopSink struct{}

func (noopSink) Append(*value.Item) error { return nil }
