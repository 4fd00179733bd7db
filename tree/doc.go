// Package tree models a loaded configuration document as a closed variant
// type: ordered-key mappings, sequences, and scalars.
//
// Every scalar optionally carries provenance (originating file, line and
// column), retained for diagnostics. Nodes are created at load time and
// mutated only through explicit Set/Append/Delete operations; reading never
// mutates a node.
package tree
