// Package state captures immutable snapshots of the settings store.
//
// # Overview
//
// The settings store is mutable and not safe to share. Views that only need
// to read it (the TUI, the exporters) work from a Snapshot instead: an
// ordered copy of every section and entry plus the file path, the
// [app] version, and the last save error.
//
//	snap := state.Capture(store)
//	for _, sec := range snap.Sections {
//		fmt.Println(sec.Name, len(sec.Entries))
//	}
//
// # Ordering
//
// Sections and entries keep the order the store reports, which is file
// order. Map flattens the snapshot when order does not matter.
//
// # Lifetime
//
// A Snapshot shares nothing with the store. The TUI recaptures after every
// change it makes and after external edits are reloaded, so a snapshot is
// never patched in place.
package state
