// Package component defines lifecycle-managed parts of a flowpipe process.
//
// A pipe wrapped with pipe.AsComponent, the diagnostics server and any other
// long-lived part register with a Registry, which starts them in
// registration order and stops them in reverse.
package component
