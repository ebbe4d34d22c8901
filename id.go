package icache

import (
	"fmt"
	"os"
	"sync/atomic"
)

// nextID mints process-wide, strictly-increasing identifiers. It is
// deliberately package-level rather than per-Cache: multiple Cache
// instances in the same process share the counter, so IDs stay unique
// across every cache a probe may create (spec §9, "Global counter").
var nextID atomic.Uint32

// mint returns a value unique for the life of the process. Wrap-around
// at 2^32 is undefined behavior, same as the original C implementation:
// real deployments process far fewer items than that per run.
func mint() uint32 {
	return nextID.Add(1)
}

// stampedID formats the externally-observable ID attribute: the digit
// "1", the process ID zero-padded to at least five digits, then the
// decimal counter value. Two processes never collide; within a process,
// IDs are unique until the counter wraps.
func stampedID(counter uint32) string {
	return fmt.Sprintf("1%05d%d", os.Getpid(), counter)
}
