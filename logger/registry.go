package logger

import (
	"sync"
)

// registry is the global named-logger registry.
var registry = &loggerRegistry{
	loggers: make(map[string]*Logger),
}

type loggerRegistry struct {
	mu      sync.RWMutex
	loggers map[string]*Logger
	pinned  map[string]bool
}

// Register stores a named logger in the registry. Registered loggers survive
// SetGlobalLogger; loggers derived by Get do not.
func Register(name string, l *Logger) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.loggers[name] = l
	if registry.pinned == nil {
		registry.pinned = make(map[string]bool)
	}
	registry.pinned[name] = true
}

// Get retrieves a named logger. If the name is not registered it derives one
// from the global logger tagged with the requested component name.
func Get(name string) *Logger {
	registry.mu.RLock()
	l, ok := registry.loggers[name]
	registry.mu.RUnlock()
	if ok {
		return l
	}

	l = GetGlobalLogger().WithComponent(name)
	registry.mu.Lock()
	registry.loggers[name] = l
	registry.mu.Unlock()
	return l
}

// reset drops derived loggers so the next Get picks up a new global logger.
func (r *loggerRegistry) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name := range r.loggers {
		if !r.pinned[name] {
			delete(r.loggers, name)
		}
	}
}
