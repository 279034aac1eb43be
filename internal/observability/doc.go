// Package observability constructs the process-wide zap logger from
// configuration, with optional size-rotated file output.
package observability
