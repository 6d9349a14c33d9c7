// Package config provides the ordered configuration tree used by llama
// applications and the INI reader that produces it.
//
// # Tree
//
// A [Node] holds ordered children; each child is a scalar leaf or a nested
// node. Lookups take a default:
//
//	cfg := config.New(map[string]any{
//	    "a": 1,
//	    "b": map[string]any{"c": 2},
//	})
//	cfg.Child("b").Get("c", nil)         // 2
//	cfg.Lookup("b.c", nil)               // 2
//	cfg.Int("missing", 10)               // 10
//
// Removing a key while iterating is safe: iteration runs over a snapshot of
// the key order and skips removed keys, so no unrelated element is skipped
// or visited twice.
//
// # INI files
//
// [LoadINI] reads a file with environment sections. A section may extend
// another with the "child : parent" syntax, dotted keys become nested nodes
// and "key[]" lines collect into a list:
//
//	[production]
//	resources.modules[] = blog
//	database.driver = pgx
//
//	[development : production]
//	database.driver = sqlite
//	database.dsn = file:dev.db
//
// The environment section is overlaid on its ancestors with [Merge], which
// merges nested nodes recursively and lets the later value win otherwise.
//
// # Typed sections
//
// [Decode] maps a subtree onto a struct with mapstructure tags and fills
// zero fields from a defaults value:
//
//	var db DatabaseConfig
//	err := config.Decode(cfg.Child("database"), &db, DatabaseConfig{Driver: "pgx"})
package config
