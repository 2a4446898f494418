// Package diag defines the diagnostic record the prep pass emits.
// Diagnostics are data, not Go errors: prep never aborts on one, it
// just appends and keeps walking so the host sees every independent
// failure from a single pass (see spec §7).
package diag

import "seshade/pkg/ast"

// Diagnostic is one recorded prep-time failure.
type Diagnostic struct {
	Index   int
	Message string
	Node    ast.Node
}
