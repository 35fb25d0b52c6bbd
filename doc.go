// Package fdt decodes Flattened Device Tree (DTB) blobs into a borrowed,
// zero-copy tree of nodes and properties, and translates bus-local "reg"
// addresses into CPU-visible addresses via the "ranges" chain.
//
// A Parser is built directly over a caller-owned byte slice; every
// property payload in the resulting tree is a subslice of that buffer
// (node names, property names, and decoded strings are copies), so the
// buffer must outlive the Parser and must not be mutated while the Parser
// is in use.
package fdt
