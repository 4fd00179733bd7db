// Package access implements deep get, set, delete, update and export
// operations on configuration trees.
//
// The heart of the package is a Walker that consumes a normalized path one
// segment at a time. Per-segment retrieval runs through a pipeline of
// stages, each wrapping the next: the resolver stage interprets placeholder
// values the search stage has located, the search stage expands wildcard
// and recursive-descent segments into concrete keys, and the base stage
// performs the plain container lookup.
//
// Every Get call carries its own Context with the walked path, the current
// and outermost document roots, and the recursion memos. Contexts are
// single-use and must not be shared across calls.
package access
