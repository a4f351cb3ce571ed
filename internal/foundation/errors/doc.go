// Package errors provides the classified error primitives used across docdiagram.
//
// A ClassifiedError carries a category (config, document, render, ...), a severity and
// a small context map. Severity matters more here than in most CLIs: the filter favours
// finishing the document over per-diagram correctness, so render and cache problems are
// built as warnings and logged, while config and document decoding errors are fatal.
//
// Example usage:
//
//	err := errors.RenderError("plantuml exited with non-zero status").
//		WithContext("fingerprint", fp).
//		WithCause(exitErr).
//		Build()
package errors
