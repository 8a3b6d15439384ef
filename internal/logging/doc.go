// Package logging constructs the slog loggers used across ordenar and
// provides shared attribute helpers.
package logging
