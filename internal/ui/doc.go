// Package ui implements kkconf's terminal settings browser on Bubble Tea.
//
// # Layout
//
// The screen is a header line (file path, [app] version, counts), a
// sections pane on the left, the entries of the selected section on the
// right, a preview box under both, and a footer line that doubles as the
// prompt. The log pane replaces the two lists while it is open.
//
// # Editing
//
// Every edit goes straight through the settings store, which writes the
// file before returning. After each write the model recaptures a
// state.Snapshot, calls Options.OnSave so the file watcher can record the
// new content as its own, and reports the store's save error in the
// footer. Adding accepts "key=value" for the selected section or
// "section/key=value" to create a key anywhere. Deletes ask for y/n.
//
// # Preview
//
// The preview shows how each typed getter would read the selected value:
// scalar bool, int and double, and for comma separated values the three
// array readings with the number of tokens each would drop.
//
// # External changes
//
// The app package sends ExternalChangeMsg when another process rewrites
// the settings file. The model reloads the store, keeping the in-memory
// settings if the new file is unusable, and keeps the selected section.
//
// # Themes
//
// Dracula and Slate are built in. T cycles them and the choice is saved
// with the selected section in the preferences file on every change and
// on quit.
package ui
