package config

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/logger"
	"github.com/kbukum/seqkit/pipeline"
	"github.com/kbukum/seqkit/testutil"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadWithYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "seqkit.yml", `
logging:
  level: debug
  format: json
pipeline:
  reuse_mode: panic
  max_flatten_depth: 8
telemetry:
  service_name: etl
  sample_rate: 0.25
  interval: 5s
`)

	s, err := Load("seqkit", WithConfigFile(path))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Logging.Level != "debug" || s.Logging.Format != "json" {
		t.Errorf("logging = %+v", s.Logging)
	}
	if s.Logging.Output != "stderr" {
		t.Errorf("expected default output stderr, got %q", s.Logging.Output)
	}
	if s.Pipeline.ReuseMode != pipeline.ReusePanic || s.Pipeline.MaxFlattenDepth != 8 {
		t.Errorf("pipeline = %+v", s.Pipeline)
	}
	if s.Telemetry.ServiceName != "etl" || s.Telemetry.SampleRate != 0.25 {
		t.Errorf("telemetry = %+v", s.Telemetry)
	}
	if s.Telemetry.Interval != 5*time.Second {
		t.Errorf("expected interval 5s, got %v", s.Telemetry.Interval)
	}
}

func TestLoadMissingFile(t *testing.T) {
	s, err := Load("nonexistent", WithConfigFile("/nonexistent/path.yml"), WithFileSystem(&mockFS{}))
	if err != nil {
		t.Fatalf("expected Load to succeed with missing file, got %v", err)
	}
	if s.Pipeline.ReuseMode != pipeline.ReuseEmpty {
		t.Errorf("expected default reuse mode, got %q", s.Pipeline.ReuseMode)
	}
	if s.Logging.Level != "warn" {
		t.Errorf("expected default level warn, got %q", s.Logging.Level)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{"reuse mode", "pipeline:\n  reuse_mode: retry\n", "pipeline.reuse_mode"},
		{"negative depth", "pipeline:\n  max_flatten_depth: -1\n", "pipeline.max_flatten_depth"},
		{"log level", "logging:\n  level: loud\n", "logging.level"},
		{"sample rate", "telemetry:\n  sample_rate: 2\n", "telemetry.sample_rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "seqkit.yml", tt.yaml)
			_, err := Load("seqkit", WithConfigFile(path))
			if !errors.Is(err, errors.ErrCodeInvalidArgument) {
				t.Fatalf("expected INVALID_ARGUMENT, got %v", err)
			}
			appErr, ok := err.(*errors.AppError)
			if !ok {
				t.Fatalf("expected *AppError, got %T", err)
			}
			if got := appErr.Error(); !strings.Contains(got, tt.field) {
				t.Errorf("error %q should name %s", got, tt.field)
			}
		})
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeFile(t, t.TempDir(), "seqkit.yml", "pipeline:\n  reuse_mode: empty\n")
	t.Setenv("SEQKIT_PIPELINE_REUSE_MODE", "panic")
	t.Setenv("SEQKIT_PIPELINE_MAX_FLATTEN_DEPTH", "3")
	t.Setenv("SEQKIT_TELEMETRY_SAMPLE_RATE", "0.5")

	s, err := Load("seqkit", WithConfigFile(path))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Pipeline.ReuseMode != pipeline.ReusePanic {
		t.Errorf("expected env to override reuse_mode, got %q", s.Pipeline.ReuseMode)
	}
	if s.Pipeline.MaxFlattenDepth != 3 {
		t.Errorf("expected max_flatten_depth 3, got %d", s.Pipeline.MaxFlattenDepth)
	}
	if s.Telemetry.SampleRate != 0.5 {
		t.Errorf("expected sample_rate 0.5, got %v", s.Telemetry.SampleRate)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "SEQKIT_LOGGING_FORMAT=json\n")
	t.Cleanup(func() { os.Unsetenv("SEQKIT_LOGGING_FORMAT") })

	s, err := Load("seqkit", WithConfigFile(filepath.Join(dir, "missing.yml")), WithEnvFile(envPath))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Logging.Format != "json" {
		t.Errorf("expected format from .env, got %q", s.Logging.Format)
	}
}

func TestResolverWithMockFS(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		wantConf string
		wantEnv  string
	}{
		{"named file wins", []string{"./seqkit.yml", "./config.yml"}, "./seqkit.yml", ""},
		{"config dir", []string{"./config/seqkit.yaml"}, "./config/seqkit.yaml", ""},
		{"generic fallback", []string{"./config.yml", "./.env"}, "./config.yml", "./.env"},
		{"named env file", []string{"./.env", "./config/.env.seqkit"}, "", "./config/.env.seqkit"},
		{"nothing", nil, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := &mockFS{files: map[string]bool{}}
			for _, f := range tt.files {
				fs.files[f] = true
			}
			resolver := &Resolver{FileSystem: fs}
			files := resolver.ResolveFiles("seqkit", LoaderConfig{})
			if files.ConfigFile != tt.wantConf {
				t.Errorf("config file = %q, want %q", files.ConfigFile, tt.wantConf)
			}
			if files.EnvFile != tt.wantEnv {
				t.Errorf("env file = %q, want %q", files.EnvFile, tt.wantEnv)
			}
		})
	}
}

func TestResolverExplicitPaths(t *testing.T) {
	resolver := &Resolver{FileSystem: &mockFS{}}
	files := resolver.ResolveFiles("seqkit", LoaderConfig{ConfigFile: "a.yml", EnvFile: "b.env"})
	if files.ConfigFile != "a.yml" || files.EnvFile != "b.env" {
		t.Errorf("explicit paths not kept: %+v", files)
	}
}

type mockFS struct {
	files  map[string]bool
	loaded []string
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error {
	m.loaded = append(m.loaded, path)
	return nil
}

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	fs := &mockFS{}
	WithFileSystem(fs)(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)

	if lc.FileSystem != fs {
		t.Error("expected FileSystem to be set")
	}
	if lc.ConfigFile != "/path/to/config.yml" {
		t.Errorf("expected config file path, got %q", lc.ConfigFile)
	}
	if lc.EnvFile != "/path/to/.env" {
		t.Errorf("expected env file path, got %q", lc.EnvFile)
	}
}

func TestLoadUsesFileSystemForEnv(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"./.env": true}}
	if _, err := Load("seqkit", WithFileSystem(fs)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !slices.Equal(fs.loaded, []string{"./.env"}) {
		t.Errorf("expected .env to be loaded through the filesystem, got %v", fs.loaded)
	}
}

func TestGenerateEnvKeyVariants(t *testing.T) {
	got := generateEnvKeyVariants("PIPELINE_REUSE_MODE")
	for _, want := range []string{"pipeline_reuse_mode", "pipeline.reuse.mode", "pipeline.reuse_mode"} {
		if !slices.Contains(got, want) {
			t.Errorf("variants %v missing %q", got, want)
		}
	}
	if got := generateEnvKeyVariants("LEVEL"); !slices.Equal(got, []string{"level"}) {
		t.Errorf("single part = %v", got)
	}
}

func TestDefault(t *testing.T) {
	s := Default()
	if err := s.Validate(); err != nil {
		t.Fatalf("default settings should be valid: %v", err)
	}
	if s.Telemetry.Enabled {
		t.Error("telemetry should be off by default")
	}
}

func TestLoadSampleRate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want float64
	}{
		{"omitted", "telemetry:\n  enabled: true\n  endpoint: collector:4318\n", 1},
		{"explicit zero", "telemetry:\n  enabled: true\n  sample_rate: 0\n", 0},
		{"explicit half", "telemetry:\n  sample_rate: 0.5\n", 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "seqkit.yml", tt.yaml)
			s, err := Load("seqkit", WithConfigFile(path))
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if s.Telemetry.SampleRate != tt.want {
				t.Errorf("sample rate = %v, want %v", s.Telemetry.SampleRate, tt.want)
			}
		})
	}
	if got := Default().Telemetry.SampleRate; got != 1 {
		t.Errorf("default sample rate = %v, want 1", got)
	}
}

func restoreGlobals(t *testing.T) {
	t.Helper()
	prev := logger.GetGlobalLogger()
	t.Cleanup(func() {
		logger.SetGlobalLogger(prev)
		_ = pipeline.Configure(pipeline.DefaultOptions())
	})
}

func TestApply(t *testing.T) {
	restoreGlobals(t)

	s := Default()
	s.Logging.Level = "error"
	s.Pipeline.ReuseMode = pipeline.ReusePanic
	s.Pipeline.MaxFlattenDepth = 5

	shutdown, err := s.Apply(context.Background())
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}

	got := pipeline.CurrentOptions()
	if got.ReuseMode != pipeline.ReusePanic || got.MaxFlattenDepth != 5 || got.Telemetry {
		t.Errorf("pipeline options not installed: %+v", got)
	}
}

func TestApplyWithTelemetry(t *testing.T) {
	restoreGlobals(t)
	testutil.Telemetry(t)

	s := Default()
	s.Logging.Level = "error"
	s.Telemetry.Enabled = true
	s.Telemetry.Endpoint = "127.0.0.1:1"

	shutdown, err := s.Apply(context.Background())
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !pipeline.CurrentOptions().Telemetry {
		t.Error("enabling telemetry should turn on pipeline instrumentation")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	// Nothing listens on the endpoint, so the final export may fail.
	_ = shutdown(ctx)
}

func TestApplyRejectsInvalidOptions(t *testing.T) {
	restoreGlobals(t)

	s := Default()
	s.Pipeline.ReuseMode = "retry"
	if _, err := s.Apply(context.Background()); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Fatalf("expected INVALID_ARGUMENT, got %v", err)
	}
}
