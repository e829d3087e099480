package logtail

import (
	"bufio"
	"errors"
	"os"
	"strings"

	"github.com/samber/oops"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, oops.In("logtail").With("path", path).Wrapf(err, "open log")
	}
	defer file.Close()

	var ring []string
	if maxLines > 0 {
		ring = make([]string, maxLines)
	}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	for scanner.Scan() {
		if maxLines <= 0 {
			ring = append(ring, scanner.Text())
			count++
			continue
		}
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, oops.In("logtail").With("path", path).Wrapf(err, "read log")
	}

	if maxLines <= 0 || count < maxLines {
		return ring[:count:count], nil
	}
	lines := make([]string, count)
	for i := 0; i < count; i++ {
		lines[i] = ring[(idx+i)%maxLines]
	}
	return lines, nil
}

// Severity is the level of one log line, as written by the text formatter.
type Severity int

const (
	SeverityUnknown Severity = iota
	SeverityDebug
	SeverityInfo
	SeverityWarn
	SeverityError
)

// Classify reads the level=... field of a line.
func Classify(line string) Severity {
	i := strings.Index(line, "level=")
	if i < 0 {
		return SeverityUnknown
	}
	level := line[i+len("level="):]
	if end := strings.IndexByte(level, ' '); end >= 0 {
		level = level[:end]
	}
	switch strings.Trim(level, `"`) {
	case "trace", "debug":
		return SeverityDebug
	case "info":
		return SeverityInfo
	case "warning", "warn":
		return SeverityWarn
	case "error", "fatal", "panic":
		return SeverityError
	}
	return SeverityUnknown
}

// Filter keeps lines at or above min. Lines without a level follow the
// previous line.
func Filter(lines []string, min Severity) []string {
	if min <= SeverityUnknown {
		return lines
	}
	out := make([]string, 0, len(lines))
	keep := false
	for _, line := range lines {
		if sev := Classify(line); sev != SeverityUnknown {
			keep = sev >= min
		}
		if keep {
			out = append(out, line)
		}
	}
	return out
}
