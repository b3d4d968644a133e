package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderStatusLine(t *testing.T) {
	line := renderStatusLine("Service", statusOK, "reachable", false)
	if line != "  Service:             [OK] reachable" {
		t.Fatalf("unexpected line %q", line)
	}
	colored := renderStatusLine("Service", statusError, "down", true)
	if !strings.HasPrefix(colored, ansiRed) || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("expected red line, got %q", colored)
	}
}

func TestShouldColorizeNonTerminal(t *testing.T) {
	if shouldColorize(&bytes.Buffer{}) {
		t.Fatal("buffers are never terminals")
	}
	if strings.Contains(mockBanner(&bytes.Buffer{}, nil), "\x1b[") {
		t.Fatal("banner should be plain for non-terminals")
	}
}

func TestFormatting(t *testing.T) {
	c := 0.875
	tests := []struct {
		got, want string
	}{
		{formatConfidence(&c), "88%"},
		{formatConfidence(nil), "-"},
		{formatSeconds(6.4), "0:06.4"},
		{formatSeconds(75.25), "1:15.3"},
		{truncate("one  two\nthree", 40), "one two three"},
		{truncate("abcdefghij", 6), "abc..."},
		{formatSize(0), "-"},
		{formatSize(2048), "2.0 KiB"},
		{orDash(" "), "-"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestRenderTableWrapsOnlyProseColumns(t *testing.T) {
	id := "quote-demo-000000000000000000000001"
	out := renderTable(
		[]column{col("ID"), num("Conf"), prose("Text", 10)},
		[][]string{{id, "88%", "alpha beta gamma delta"}},
	)
	if !strings.Contains(out, id) {
		t.Fatalf("identifier column was wrapped:\n%s", out)
	}
	if strings.Contains(out, "alpha beta gamma delta") {
		t.Fatalf("prose column was not wrapped:\n%s", out)
	}
	if !strings.Contains(out, "delta") {
		t.Fatalf("prose text lost:\n%s", out)
	}
	if renderTable(nil, nil) != "" {
		t.Fatal("no columns should render nothing")
	}
}
