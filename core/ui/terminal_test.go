package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestColorDisabled(t *testing.T) {
	w := NewWriter(&bytes.Buffer{}, true)
	if got := w.Color(Bold, "total"); got != "total" {
		t.Errorf("Color() = %q, want plain text", got)
	}

	w = NewWriter(&bytes.Buffer{}, false)
	if got := w.Color(Bold, "total"); got != Bold+"total"+Reset {
		t.Errorf("Color() = %q, want escaped text", got)
	}
}

func TestWidth(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"प्रति", 5},
		{Bold + "abc" + Reset, 3},
		{"\033[1;36mab" + Reset, 2},
	}

	for _, tt := range tests {
		if got := width(tt.in); got != tt.want {
			t.Errorf("width(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTableRender(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)

	table := w.NewTable("Item", "Amount").AlignRight(1)
	table.AddRow("Per Unit", "100.00")
	table.AddRow("Total Payable", "1130.00")
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}
	if lines[0] != "Item          │  Amount" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[2] != "Per Unit      │  100.00" {
		t.Errorf("row = %q", lines[2])
	}
	if lines[3] != "Total Payable │ 1130.00" {
		t.Errorf("row = %q", lines[3])
	}
}

func TestTableIgnoresColorInWidth(t *testing.T) {
	var plain, colored bytes.Buffer

	for _, tc := range []struct {
		buf     *bytes.Buffer
		noColor bool
	}{{&plain, true}, {&colored, false}} {
		w := NewWriter(tc.buf, tc.noColor)
		table := w.NewTable("Item", "Amount")
		table.AddRow(w.Color(Bold, "Total"), "1.00")
		table.AddRow("Tax", "2.00")
		table.Render()
	}

	strip := func(s string) string {
		for _, c := range []string{Reset, Bold} {
			s = strings.ReplaceAll(s, c, "")
		}
		return s
	}
	if strip(colored.String()) != plain.String() {
		t.Errorf("coloured layout differs:\n%s\nvs\n%s", strip(colored.String()), plain.String())
	}
}

func TestMessages(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)

	w.Success("saved %d", 2)
	w.Warning("careful")
	w.Error("failed")
	w.Info("backend: %s", "memory")

	out := buf.String()
	for _, want := range []string{"✓ saved 2", "⚠ careful", "✗ failed", "ℹ backend: memory"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
