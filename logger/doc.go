// Package logger provides structured logging for seqkit built on zerolog.
//
// A process-wide logger is installed with Init (usually through
// config.Settings.Apply); packages fetch component loggers with Get:
//
//	log := logger.Get("pipeline")
//	log.Debug("drained", logger.Fields("elements", n))
//
// The default global logger writes console output at warn level so that a
// library consumer who never configures logging only sees problems.
package logger
