// Package aggregates defines domain-facing aggregate contracts.
//
// These contracts avoid persistence/transport details and mark the write
// boundaries where content-version invariants must hold atomically.
package aggregates
