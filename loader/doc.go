// Package loader reads YAML configuration documents into trees.
//
// Documents are parsed through the goccy/go-yaml AST so that every scalar
// keeps its source position. When a deployment environment is set, a
// sibling overlay file, e.g. "config-dev.yaml" next to "config.yaml", is
// merged over the base document leaf by leaf.
//
// A Loader caches parsed documents by file name and environment, so a file
// imported from several places is read once and its subtree shared.
package loader
