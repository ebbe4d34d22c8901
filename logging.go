package icache

import (
	"os"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// eventLogger is the concrete logger type this package's Cache uses.
// Exposed so WithLogger callers can build their own instance with
// stumpy.L (for example with a different writer or level). The event
// type is fixed to *stumpy.Event, so other logiface backends are not
// accepted.
type eventLogger = logiface.Logger[*stumpy.Event]

// defaultLogger mirrors the severity split of the original C
// implementation's dI (informational tracing) vs dE (hard errors):
// routine item processing stays silent at the default level, but
// worker-poisoning and invariant violations are always visible.
func defaultLogger() *eventLogger {
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(os.Stderr)),
		stumpy.L.WithLevel(logiface.LevelNotice),
	)
}
