// Package validation checks configuration structs and operator arguments.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Every failure is an
// INVALID_ARGUMENT errors.AppError whose "fields" detail lists the offending
// fields.
//
// # Struct Tag Validation
//
//	type Options struct {
//	    ReuseMode string `mapstructure:"reuse_mode" validate:"oneof=empty panic"`
//	}
//	err := validation.Validate(opts)
//
// # Programmatic Validation
//
//	err := validation.New().
//	    Positive("size", size).
//	    Validate()
package validation
