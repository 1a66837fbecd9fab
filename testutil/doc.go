// Package testutil captures what seqkit emits so tests can assert on it.
//
// Telemetry swaps the global OpenTelemetry providers for in-memory ones and
// CaptureLogs swaps the global logger for a JSON buffer. Both restore the
// previous state when the test ends:
//
//	func TestSomething(t *testing.T) {
//	    rec := testutil.Telemetry(t)
//	    logs := testutil.CaptureLogs(t, "debug")
//	    // ... run code ...
//	    span, ok := rec.Span("pipeline.slice")
//	    lines := logs.Lines()
//	}
//
// Neither helper is safe for parallel tests, since both replace globals.
package testutil
