// Package errors provides the structured error type shared by flowpipe
// packages. Every error carries a machine-readable code so callers can tell
// structural misuse (reported synchronously) from data path failures
// (reported through a pipe's error handler).
package errors
