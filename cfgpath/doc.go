// Package cfgpath parses and normalizes deep config paths.
//
// A path addresses a nested location across mappings and sequences, e.g.
// "a.b[2].c". Besides concrete keys and indices, a path may contain search
// patterns:
//
//	"a.*.c"    -> any key
//	"a.b[*].c" -> any index
//	"a.**.c"   -> recursive descent (also accepted as "a..c")
//
// Input is flexible: dotted strings, slash-separated strings, bracket-index
// syntax, plain integers, or nested lists of any of those. Normalization
// collapses "." (current scope) and ".." (parent scope) pseudo-segments and
// redundant search patterns, and rejects paths ending in a wildcard-key or
// recursive-descent segment.
package cfgpath
