package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/seqkit/errors"
)

func TestValidatorPositive(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		wantErr bool
	}{
		{"positive", 3, false},
		{"zero", 0, true},
		{"negative", -2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New().Positive("size", tt.value).HasErrors(); got != tt.wantErr {
				t.Errorf("HasErrors() = %v, want %v", got, tt.wantErr)
			}
		})
	}
}

func TestValidatorValidate(t *testing.T) {
	if err := New().Positive("size", 1).Validate(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	err := New().Positive("size", 0).Positive("window", -1).Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("code = %s, want INVALID_ARGUMENT", errors.CodeOf(err))
	}
	for _, want := range []string{"size:", "window:", "got -1"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %q", err.Error(), want)
		}
	}
}

type nestedOptions struct {
	ReuseMode string `mapstructure:"reuse_mode" validate:"omitempty,oneof=empty panic"`
	MaxDepth  int    `mapstructure:"max_depth" validate:"gte=0"`
}

type settings struct {
	Name    string        `validate:"required"`
	Options nestedOptions `mapstructure:"options"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name       string
		input      settings
		wantFields []string
	}{
		{"valid", settings{Name: "x", Options: nestedOptions{ReuseMode: "panic"}}, nil},
		{"missing name", settings{}, []string{"name"}},
		{"bad nested", settings{Name: "x", Options: nestedOptions{ReuseMode: "retry", MaxDepth: -1}},
			[]string{"options.reuse_mode", "options.max_depth"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			var appErr *errors.AppError
			if !asAppError(err, &appErr) {
				t.Fatalf("expected *AppError, got %T", err)
			}
			fields, _ := appErr.Details["fields"].([]FieldError)
			if len(fields) != len(tt.wantFields) {
				t.Fatalf("fields = %v, want %v", fields, tt.wantFields)
			}
			for i, f := range fields {
				if f.Field != tt.wantFields[i] {
					t.Errorf("field[%d] = %q, want %q", i, f.Field, tt.wantFields[i])
				}
			}
		})
	}
}

func asAppError(err error, target **errors.AppError) bool {
	appErr, ok := err.(*errors.AppError)
	if ok {
		*target = appErr
	}
	return ok
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"ReuseMode":  "reuse_mode",
		"Name":       "name",
		"SampleRate": "sample_rate",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
