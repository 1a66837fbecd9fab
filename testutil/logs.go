package testutil

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/kbukum/seqkit/logger"
)

// LogBuffer collects JSON log output.
type LogBuffer struct {
	t   testing.TB
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write implements io.Writer.
func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns the raw output.
func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Lines decodes every log line written so far.
func (b *LogBuffer) Lines() []map[string]any {
	b.t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(b.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			b.t.Fatalf("bad log line %q: %v", line, err)
		}
		out = append(out, entry)
	}
	return out
}

// CaptureLogs installs a JSON logger at level as the global logger until
// the test ends.
func CaptureLogs(t testing.TB, level string) *LogBuffer {
	t.Helper()
	b := &LogBuffer{t: t}
	prev := logger.GetGlobalLogger()
	logger.SetGlobalLogger(logger.New(&logger.Config{Level: level, Format: logger.FormatJSON, Writer: b}, "test"))
	t.Cleanup(func() { logger.SetGlobalLogger(prev) })
	return b
}
