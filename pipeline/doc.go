// Package pipeline provides lazy, single-use, pull-based sequence operators.
//
// Pipelines are lazy: no work happens until values are pulled by a terminal
// operation such as Slice, ForEach or Fold. Each stage pulls from the
// previous stage on demand, so infinite sources are fine as long as
// something downstream (Take, TakeWhile, First, Get) stops pulling.
//
// A pipeline handle is consumed by use. Chaining an operator moves the
// source into the new stage and leaves the old handle Exhausted; a terminal
// operation drains the chain and closes it. Using a consumed handle again
// behaves as an empty pipeline and logs a warning, or panics with a CONSUMED
// error when Options.ReuseMode is "panic".
//
// # Operators
//
// Same element type (methods):
//
//   - Filter, Take, Skip, TakeWhile, Peek
//   - Chain: concatenate other sources after this one
//   - Cycle: replay the first pass forever
//   - Merge: interleave two sources by a pick function
//
// Changing the element type (functions):
//
//   - Map, TryMap, FlatMap, FlatMapSource, Scan
//   - Enumerate, Zip, ZipWith, Product, ProductWith
//   - Batch, BatchBy, Window
//   - Flatten, FullFlatten, FlatFold
//
// # Terminals
//
//   - Slice, ForEach, Count, Fold, Reduce
//   - All, Any, First, Get, Min, Max, MinBy, MaxBy, MinByKey, MaxByKey, Sum
//   - Uncons, SplitWhen: split into pulled values and a tail pipeline
//   - Seq: range-over-func bridge
//
// # Usage
//
//	naturals := pipeline.Iterate(0, func(n int) int { return n + 1 })
//	evens := naturals.Filter(func(n int) bool { return n%2 == 0 }).Take(5)
//	squares := pipeline.Map(evens, func(n int) int { return n * n })
//	out, err := squares.Slice(ctx) // [0 4 16 36 64]
//
// With Options.Telemetry enabled, every terminal operation runs inside an
// OpenTelemetry span named "pipeline.<operation>" and records metrics.
package pipeline
