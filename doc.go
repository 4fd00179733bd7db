// Package strata is a layered YAML configuration library with deep-path
// access and lazy value resolution.
//
// A configuration is loaded from a YAML file, optionally overlaid with an
// environment-specific sibling file, and queried with deep paths such as
// "a.b[2].c". Paths support wildcards ("*", "[*]") and recursive descent
// ("**"). String values may contain placeholders, e.g. "{ref: db.host}",
// "{env: HOME}", "{import: db.yaml}" or "{timestamp: %Y-%m-%d}", which are
// resolved lazily on every access, never at load time.
//
//	cfg, err := strata.Load("config.yaml", strata.WithEnv("dev"))
//	if err != nil { ... }
//
//	host, err := cfg.Get("database.host")
//
// Values read before all overlays are in place would be stale; lazy
// resolution sidesteps the file-order problem entirely. The "???" sentinel
// marks values an overlay must supply: reading one is an error, even
// through any number of ref indirections.
package strata
