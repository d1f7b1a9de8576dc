// Package logging builds the slog loggers used across uplink. The console
// format keeps human-scannable single-line records; json is available for
// scheduler-collected runs.
package logging
