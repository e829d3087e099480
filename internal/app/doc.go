// Package app is the composition root of the kkconf browser.
//
// # Startup
//
// Run opens a Session and hands it to the ui package:
//
//  1. Open the settings store (reseeding the file from defaults if needed)
//  2. Redirect logging to kkconf.log next to the settings file
//  3. Load kkconf's preferences (theme, last section)
//  4. Start an fsnotify watcher on the settings directory
//  5. Run the Bubble Tea program until the user quits or ctx is cancelled
//
// # External changes
//
// kkshell and kkconf may both write the settings file. The Watcher watches
// the directory, because saves replace the file by rename, and debounces
// bursts of events. When things settle it hashes the file and reports a
// change only if the content differs from what this process last saw. The
// browser calls Acknowledge after each of its own writes so those are not
// reported back to it.
//
// Watching is best effort: if fsnotify cannot be set up the browser still
// runs, and r reloads by hand.
//
// # Errors
//
// Only failing to open the log file or to start the terminal program ends
// Run with an error. Settings problems are reported by the store and shown
// in the UI.
package app
