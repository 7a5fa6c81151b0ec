// Package logging provides structured logging configuration for stepsub.
//
// This package wraps log/slog so the CLI and the library packages log the
// same way. It supports configurable log levels and output formats, and can
// fan a record out to several sinks.
//
// # Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelDebug,
//	    Format: logging.FormatJSON,
//	})
//
//	logger.Debug("profile loaded", slog.String("profile", "default"))
//
// # Integration
//
// Components accept a *slog.Logger through an option. If none is given they
// use [Nop], which discards everything.
package logging
