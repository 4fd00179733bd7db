// Package placeholder tokenizes and parses placeholder expressions embedded
// in config string values, e.g.
//
//	db_user: '{env: DB_USER, scott}'
//	db_url:  '{ref: db.host}:{ref: db.port}/{ref: db.name}'
//	more:    '{import: db-config.yaml}'
//
// A parsed value is a sequence of literal fragments and Placeholder
// descriptors. Placeholders are resolved lazily at read time against a
// Context supplied by the caller; parsing never resolves anything.
//
// The set of recognized placeholder kinds lives in a Registry owned by the
// configuration instance. Callers may register custom kinds or override the
// built-ins (ref, global, env, import, timestamp).
package placeholder
