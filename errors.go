package icache

import "errors"

var (
	// ErrNilArgument is returned by Submit and Collect when a required
	// argument (sink or item) is nil. No side effects occur.
	ErrNilArgument = errors.New("icache: nil argument")

	// ErrCachePoisoned is returned by Submit and Barrier once the
	// worker has observed a Sink.Append failure. Spec §7/§9 flags the
	// original's "silently halt the worker" behavior as something that
	// should change; this is the redesigned behavior: the cache is
	// marked poisoned and fails fast instead of wedging producers.
	ErrCachePoisoned = errors.New("icache: cache poisoned by a prior sink append failure")

	// ErrClosed is returned by Submit and Barrier after Free.
	ErrClosed = errors.New("icache: cache closed")
)
