// Package domain defines the core domain types and interfaces.
//
// This package contains concept-oriented files (emotion.go, snapshot.go, errors.go)
// with the shared data model and cross-cutting interfaces. No implementation
// code - just contracts. Prevents circular imports by keeping interfaces on the
// consumer side.
package domain
