package icache

import (
	"github.com/openscap-go/icache/value"
)

// worker is the cache's single long-lived consumer. It owns the index
// exclusively: nothing else ever reads or writes it, so index access
// needs no lock (spec §5).
type worker struct {
	queue    *ringQueue
	index    *index
	log      *eventLogger
	poisoned *poisonFlag
}

// run drains the queue until it is closed. Spec §4.4 steps 1-6.
func (w *worker) run() {
	w.queue.mu.Lock()
	defer w.queue.mu.Unlock()

	w.log.Debug().Log("icache worker ready")

	for {
		if !w.queue.waitNotEmpty() {
			return // closed, nothing left to drain
		}

		for w.queue.count > 0 {
			entry := w.queue.popNolock()
			w.queue.signalNotFull()

			// process without holding the queue mutex: the index has
			// its own exclusivity guarantee (single consumer), and a
			// sink append may do I/O.
			w.queue.mu.Unlock()
			w.handle(entry)
			w.queue.mu.Lock()
		}
	}
}

func (w *worker) handle(entry queueEntry) {
	if entry.isBarrier() {
		w.log.Debug().Log("handling barrier")
		close(entry.barrier)
		return
	}

	w.log.Debug().Log("handling item")

	canonical := w.process(entry.item)

	if err := entry.sink.Append(canonical); err != nil {
		w.log.Err().Err(err).Log("sink append failed, poisoning cache")
		w.poisoned.set()
		return
	}
}

// process implements the core dedup algorithm (spec §4.4.1): fingerprint,
// lookup, then either intern as a new chain, append as a hash-collision
// variant, or discard as a true duplicate.
func (w *worker) process(x *value.Item) *value.Item {
	fp := x.Fingerprint()

	chain, ok := w.index.lookup(fp)
	if !ok {
		chain = &internedChain{items: []*value.Item{x}}
		w.index.insert(fp, chain)
		x.SetID(stampedID(mint()))
		return x
	}

	for _, y := range chain.items {
		if x.DeepEqual(y) {
			// true hit: the submitter's reference is released, the
			// chain's canonical reference is what reaches the sink.
			x.Release()
			return y
		}
	}

	// hash collision, structurally distinct: grows the chain, gets its
	// own stamped ID.
	chain.items = append(chain.items, x)
	x.SetID(stampedID(mint()))
	return x
}
