package main

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestBannerAlignment(t *testing.T) {
	lines := strings.Split(banner(), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4", len(lines))
	}

	width := utf8.RuneCountInString(lines[0])
	for i, line := range lines {
		if got := utf8.RuneCountInString(line); got != width {
			t.Errorf("line %d is %d runes wide, want %d: %q", i, got, width, line)
		}
	}

	if !strings.Contains(lines[1], "v"+Version) {
		t.Errorf("banner does not show the version: %q", lines[1])
	}
}
