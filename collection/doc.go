// Package collection provides List, the eager counterpart of
// pipeline.Pipeline.
//
// A List is an owned, indexable slice. Every operator runs immediately and
// returns a new List; the receiver is never modified and results never
// alias it. Operators reuse the lazy pipeline stages over a snapshot of the
// list and drain them on the spot, so both variants share one
// implementation of every algorithm.
//
//	words := collection.Of("pull", "based", "lists")
//	lengths := collection.Map(words, func(s string) int { return len(s) })
//	total, _ := collection.Sum(lengths) // 14
//
// A List is also a pipeline.Source, so it can be chained, zipped or merged
// into any pipeline, and Lazy turns it back into a fresh pipeline.
package collection
