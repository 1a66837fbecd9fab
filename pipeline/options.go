package pipeline

import (
	"sync/atomic"

	"github.com/kbukum/seqkit/validation"
)

// Reuse modes for Options.ReuseMode.
const (
	// ReuseEmpty treats a consumed handle as an empty pipeline and logs a warning.
	ReuseEmpty = "empty"
	// ReusePanic panics with a CONSUMED error when a consumed handle is used.
	ReusePanic = "panic"
)

// Options tunes package-wide pipeline behavior.
type Options struct {
	// ReuseMode decides what happens when a consumed handle is used again.
	ReuseMode string `yaml:"reuse_mode" mapstructure:"reuse_mode" validate:"omitempty,oneof=empty panic"`
	// Telemetry wraps every terminal operation in a span and records metrics.
	Telemetry bool `yaml:"telemetry" mapstructure:"telemetry"`
	// MaxFlattenDepth bounds FullFlatten nesting. Zero means unbounded.
	MaxFlattenDepth int `yaml:"max_flatten_depth" mapstructure:"max_flatten_depth" validate:"gte=0"`
}

// DefaultOptions returns the options used until Configure is called.
func DefaultOptions() Options {
	return Options{ReuseMode: ReuseEmpty}
}

// ApplyDefaults fills unset fields.
func (o *Options) ApplyDefaults() {
	if o.ReuseMode == "" {
		o.ReuseMode = ReuseEmpty
	}
}

var current atomic.Pointer[Options]

func init() {
	opts := DefaultOptions()
	current.Store(&opts)
}

// Configure validates and installs opts for all pipelines created afterwards
// and for terminal operations started afterwards.
func Configure(opts Options) error {
	opts.ApplyDefaults()
	if err := validation.Validate(opts); err != nil {
		return err
	}
	current.Store(&opts)
	return nil
}

// CurrentOptions returns the installed options.
func CurrentOptions() Options {
	return *current.Load()
}
