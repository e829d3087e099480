// Package logtail reads the tail of kkconf's log file for the TUI log pane.
//
// # Reading
//
// Read keeps a ring buffer of maxLines entries and scans the file once, so
// memory stays proportional to the lines kept rather than the file size.
// Lines come back oldest first. A missing file yields nil, nil because the
// log only exists once the TUI has written to it.
//
//	lines, err := logtail.Read(filepath.Join(dir, "kkconf.log"), 400)
//
// # Severity
//
// The log is written by logrus' text formatter. Classify reads the
// level=... field of a line; the TUI uses it to pick a style, and Filter
// hides lines below a chosen severity. Lines without a level field belong
// to the line above them.
package logtail
