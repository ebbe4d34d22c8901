package icache

import "sync/atomic"

// poisonFlag tracks whether a sink append failure has occurred. Once
// set, Submit and Barrier fail fast with ErrCachePoisoned instead of
// enqueuing work the worker has stopped guaranteeing progress on.
//
// This is the redesigned behavior spec §7/§9 call out explicitly: the
// original C implementation let the worker goroutine return silently,
// which could deadlock producers blocked on a full queue forever.
type poisonFlag struct {
	v atomic.Bool
}

func (p *poisonFlag) set()        { p.v.Store(true) }
func (p *poisonFlag) isSet() bool { return p.v.Load() }
