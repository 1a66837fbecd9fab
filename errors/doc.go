// Package errors provides the structured error type shared by seqkit packages.
// Every failure carries a machine-readable code so callers can branch on the
// kind of failure (bad argument, type mismatch, empty input, ...) without
// matching on message text.
package errors
