// Package logging provides structured logging using Go's standard library
// log/slog. It supports JSON and text output on any writer and is used by
// the strata command for its diagnostics.
package logging
