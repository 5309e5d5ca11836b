// Package errors provides the classified error primitives used across the
// portfolio tooling.
//
// Batch tools never abort on a single bad document or image. Instead each
// per-item failure is captured as a ClassifiedError and attached to the run
// result, where its category and severity drive reporting. Setup failures
// (unreadable roots, a broken journal) are returned to the command and
// mapped to an exit code by CLIErrorAdapter.
//
// Fatal errors are logged with their context even without --verbose;
// item errors only print their message.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryFileSystem, "write relocated document").
//		WithContext("path", dst).
//		Build()
package errors
