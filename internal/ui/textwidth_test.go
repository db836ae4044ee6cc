package ui

import (
	"reflect"
	"testing"
)

func TestStringWidth(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"", 0},
		{"Plasmodium", 10},
		{"日本", 4},
		{"é", 1},
	}
	for _, tt := range tests {
		if got := StringWidth(tt.input); got != tt.expected {
			t.Errorf("StringWidth(%q) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}

func TestTruncateToWidth(t *testing.T) {
	tests := []struct {
		input    string
		width    int
		expected string
	}{
		{"falciparum", 5, "falci"},
		{"falciparum", 20, "falciparum"},
		{"日本語", 3, "日"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := TruncateToWidth(tt.input, tt.width); got != tt.expected {
			t.Errorf("TruncateToWidth(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.expected)
		}
	}
}

func TestTruncateToWidthWithEllipsis(t *testing.T) {
	if got := TruncateToWidthWithEllipsis("Plasmodium vivax", 8); got != "Plasmod…" {
		t.Errorf("Unexpected truncation %q", got)
	}
	if got := TruncateToWidthWithEllipsis("short", 8); got != "short" {
		t.Errorf("Short strings should be unchanged, got %q", got)
	}
}

func TestPadStringToWidth(t *testing.T) {
	if got := PadStringToWidth("ab", 4); got != "ab  " {
		t.Errorf("Unexpected padding %q", got)
	}
	if got := PadStringToWidth("abcdef", 4); got != "abcdef" {
		t.Errorf("Wider strings should be unchanged, got %q", got)
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  []string
	}{
		{"one two three", 7, []string{"one two", "three"}},
		{"one two three", 20, []string{"one two three"}},
		{"abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"", 10, nil},
	}
	for _, tt := range tests {
		if got := WrapText(tt.text, tt.width); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("WrapText(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
	}
}
