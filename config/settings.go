package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/kbukum/seqkit/logger"
	"github.com/kbukum/seqkit/observability"
	"github.com/kbukum/seqkit/pipeline"
	"github.com/kbukum/seqkit/validation"
)

// Settings is the full seqkit configuration.
//
//	logging:
//	  level: debug
//	  format: json
//	pipeline:
//	  reuse_mode: panic
//	  max_flatten_depth: 64
//	telemetry:
//	  enabled: true
//	  endpoint: collector:4318
type Settings struct {
	Logging   logger.Config        `yaml:"logging" mapstructure:"logging"`
	Pipeline  pipeline.Options     `yaml:"pipeline" mapstructure:"pipeline"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// Default returns the settings used when nothing is configured.
func Default() *Settings {
	s := &Settings{
		Pipeline:  pipeline.DefaultOptions(),
		Telemetry: observability.DefaultConfig("seqkit"),
	}
	s.ApplyDefaults()
	return s
}

// ApplyDefaults fills unset fields of every section.
func (s *Settings) ApplyDefaults() {
	s.Logging.ApplyDefaults()
	s.Pipeline.ApplyDefaults()
	s.Telemetry.ApplyDefaults()
}

// Validate checks every section against its struct tags.
func (s *Settings) Validate() error {
	return validation.Validate(s)
}

// Load reads the settings for name (see LoadInto) over Default, applies
// defaults and validates the result. Keys absent from every source keep
// their Default value, so an explicit sample_rate of 0 is honored.
func Load(name string, opts ...LoaderOption) (*Settings, error) {
	s := Default()
	if err := LoadInto(name, s, opts...); err != nil {
		return nil, err
	}
	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// ShutdownFunc flushes and stops whatever Apply started.
type ShutdownFunc func(context.Context) error

// Apply installs the global logger and pipeline options, and the OTLP
// tracer and meter providers when telemetry is enabled. Enabling telemetry
// also turns on pipeline instrumentation.
func (s *Settings) Apply(ctx context.Context) (ShutdownFunc, error) {
	logger.Init(s.Logging)

	opts := s.Pipeline
	if s.Telemetry.Enabled {
		opts.Telemetry = true
	}
	if err := pipeline.Configure(opts); err != nil {
		return nil, err
	}

	if !s.Telemetry.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	tp, err := observability.InitTracer(ctx, s.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("initializing tracer: %w", err)
	}
	mp, err := observability.InitMeter(ctx, s.Telemetry)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("initializing meter: %w", err)
	}

	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}
