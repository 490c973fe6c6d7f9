// Package version reports build information of the flowpipe binary.
//
// Values are set with -ldflags at release time and otherwise filled from the
// module build info embedded by the Go toolchain.
package version
