// Package translation turns a source-language segment store into a translated
// one by fanning fixed-size chunks out to a chat completion service.
//
// The flow for one store is:
//
//  1. Partition the store into chunks of BatchSize segments keyed by position.
//  2. Dispatch the chunks to a pool of exactly Workers goroutines. Each worker
//     asks for a whole-chunk JSON translation and validates the entry count;
//     any failure there falls back to translating the chunk one line at a time.
//  3. Merge the per-chunk results on the dispatching goroutine and reassemble
//     a new store in original order, falling back to source text wherever no
//     usable translation exists.
//
// A chunk that panics or errors is logged and dropped without affecting its
// siblings. Callers only see an error for problems with the input itself.
package translation
