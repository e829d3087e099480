// Package settings is kkshell's persistent settings store.
//
// # Overview
//
// Settings live in a single INI file, by default
// ~/.config/kkshell/ini/settings.ini. A Store holds the parsed file in memory,
// answers typed reads from it, and rewrites the whole file after every
// change.
//
// # Bootstrap
//
// Open reads the file and keeps it only if it parses and has a non-"0"
// [app] version. Otherwise the defaults compiled into the binary replace
// whatever was read and are written out straight away. There is no merging
// between a user file and the defaults.
//
// # Values
//
// Everything is stored as text. Reads interpret it as bool, int32, float64,
// string, or a comma-delimited list of those:
//
//	s.GetInt("window", "width", 1024)
//	s.GetIntArray("window", "splitter_sizes") // "220, 1060" -> [220 1060]
//
// List parsing is lenient: a token that does not convert is logged and left
// out, so "1,xyz,0" reads as [1 0]. Unknown boolean words are skipped
// silently. Integers accept a 0x prefix for hex.
//
// # Errors
//
// Reads never fail; they fall back to the caller's default or an empty
// slice. Writes never return an error either. A failed save is logged and
// kept for Err, and the in-memory settings stay authoritative until the
// process exits. Save is available for callers that need the error.
//
// # Concurrency
//
// A Store is not safe for concurrent use. Callers serialize access.
package settings
