package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "kkconf.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "read all (0)",
			maxLines: 0,
			expected: expectedAll,
		},
		{
			name:     "read all (negative)",
			maxLines: -1,
			expected: expectedAll,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "absent.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Read(missing) = %v, %v, want nil, nil", got, err)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		line string
		want Severity
	}{
		{`time="2026-10-16T09:00:00Z" level=info msg="settings loaded"`, SeverityInfo},
		{`time="2026-10-16T09:00:00Z" level=warning msg="reseeding"`, SeverityWarn},
		{`time="2026-10-16T09:00:00Z" level=error msg="persist failed"`, SeverityError},
		{`time="2026-10-16T09:00:00Z" level=debug msg="watch event"`, SeverityDebug},
		{`  continuation`, SeverityUnknown},
		{``, SeverityUnknown},
	}

	for _, tt := range tests {
		if got := Classify(tt.line); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestFilter(t *testing.T) {
	lines := []string{
		`level=info msg=a`,
		`level=error msg=b`,
		`  detail of b`,
		`level=debug msg=c`,
		`  detail of c`,
		`level=warning msg=d`,
	}

	got := Filter(lines, SeverityWarn)
	want := []string{`level=error msg=b`, `  detail of b`, `level=warning msg=d`}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Filter(warn) = %v, want %v", got, want)
	}
	if got := Filter(lines, SeverityUnknown); len(got) != len(lines) {
		t.Fatalf("Filter(unknown) kept %d lines, want %d", len(got), len(lines))
	}
}
