// Package icache implements a concurrent item-deduplication cache: a
// single bounded queue feeding one worker goroutine, which interns
// submitted items by structural equality and stamps each unique item
// with a globally-unique ID before forwarding it to a caller-supplied
// sink.
//
// See also [github.com/openscap-go/icache/value], for the structured
// value type the cache fingerprints, compares, and mutates.
package icache
