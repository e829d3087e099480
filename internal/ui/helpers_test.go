package ui

import "testing"

func TestClamp(t *testing.T) {
	cases := []struct{ idx, n, want int }{
		{0, 0, 0},
		{-1, 3, 0},
		{5, 3, 2},
		{1, 3, 1},
	}
	for _, c := range cases {
		if got := clamp(c.idx, c.n); got != c.want {
			t.Errorf("clamp(%d, %d) = %d, want %d", c.idx, c.n, got, c.want)
		}
	}
}

func TestWindowStart(t *testing.T) {
	cases := []struct{ cursor, total, height, want int }{
		{0, 5, 10, 0},
		{0, 50, 10, 0},
		{25, 50, 10, 20},
		{49, 50, 10, 40},
	}
	for _, c := range cases {
		if got := windowStart(c.cursor, c.total, c.height); got != c.want {
			t.Errorf("windowStart(%d, %d, %d) = %d, want %d", c.cursor, c.total, c.height, got, c.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncateMiddle("/home/user/.config/kkshell/ini/settings.ini", 11); got != "/home…s.ini" {
		t.Fatalf("truncateMiddle = %q", got)
	}
	if got := truncateMiddle("short", 10); got != "short" {
		t.Fatalf("truncateMiddle short = %q", got)
	}
	if got := truncateEnd("splitter_sizes", 6); got != "split…" {
		t.Fatalf("truncateEnd = %q", got)
	}
	if got := truncateEnd("abc", 0); got != "" {
		t.Fatalf("truncateEnd zero = %q", got)
	}
}

func TestDisplayValue(t *testing.T) {
	if got := displayValue("a\nb\tc"); got != `a\nb\tc` {
		t.Fatalf("displayValue = %q", got)
	}
}

func TestParseAssignment(t *testing.T) {
	tests := []struct {
		input   string
		section string
		name    string
		value   string
		wantErr bool
	}{
		{input: "depth=3", section: "window", name: "depth", value: "3"},
		{input: " depth = 3", section: "window", name: "depth", value: " 3"},
		{input: "ssh/port=22", section: "ssh", name: "port", value: "22"},
		{input: "k=a=b", section: "window", name: "k", value: "a=b"},
		{input: "novalue", wantErr: true},
		{input: "=3", wantErr: true},
		{input: "/k=3", wantErr: true},
	}

	for _, tt := range tests {
		section, name, value, err := parseAssignment(tt.input, "window")
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseAssignment(%q) error = nil, want error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseAssignment(%q) error = %v", tt.input, err)
			continue
		}
		if section != tt.section || name != tt.name || value != tt.value {
			t.Errorf("parseAssignment(%q) = %q, %q, %q, want %q, %q, %q", tt.input, section, name, value, tt.section, tt.name, tt.value)
		}
	}
}

func TestInterpret(t *testing.T) {
	got := interpret("yes")
	if len(got) != 4 {
		t.Fatalf("interpret(yes) gave %d readings, want 4 scalars", len(got))
	}
	if got[1].label != "bool" || got[1].value != "true" || !got[1].ok {
		t.Fatalf("bool reading = %+v, want true", got[1])
	}
	if got[2].ok {
		t.Fatalf("int reading of yes = %+v, want default", got[2])
	}

	arrays := interpret("1, 2, x")
	if len(arrays) != 7 {
		t.Fatalf("interpret(list) gave %d readings, want 7", len(arrays))
	}
	if r := arrays[5]; r.label != "int[]" || r.value != "[1 2] (1 dropped)" || r.ok {
		t.Fatalf("int[] reading = %+v", r)
	}
	if r := arrays[4]; r.label != "bool[]" || r.value != "[true] (2 dropped)" {
		t.Fatalf("bool[] reading = %+v", r)
	}
}
