package ansi_test

import (
	"testing"

	"github.com/temirov/tree/internal/ansi"
)

func TestFormat(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		codes    []int
		expected string
	}{
		{name: "nil_codes", codes: nil, expected: ""},
		{name: "empty_codes", codes: []int{}, expected: ""},
		{name: "single_bold", codes: []int{1}, expected: "\033[1m"},
		{name: "preserves_order", codes: []int{1, 31, 4}, expected: "\033[1;31;4m"},
		{name: "boundaries", codes: []int{0, 255}, expected: "\033[0;255m"},
		{name: "above_range", codes: []int{1, 256}, expected: ""},
		{name: "negative", codes: []int{-1}, expected: ""},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			actual := ansi.Format(testCase.codes)
			if actual != testCase.expected {
				t.Fatalf("Format(%v) = %q, expected %q", testCase.codes, actual, testCase.expected)
			}
		})
	}
}

func TestFormatTokens(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		tokens   []string
		expected string
	}{
		{name: "integers", tokens: []string{"1", "3", "95"}, expected: "\033[1;3;95m"},
		{name: "trims_whitespace", tokens: []string{" 1", "31 "}, expected: "\033[1;31m"},
		{name: "non_integer", tokens: []string{"1", "red"}, expected: ""},
		{name: "fraction", tokens: []string{"1.5"}, expected: ""},
		{name: "empty_token", tokens: []string{""}, expected: ""},
		{name: "no_tokens", tokens: nil, expected: ""},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			actual := ansi.FormatTokens(testCase.tokens)
			if actual != testCase.expected {
				t.Fatalf("FormatTokens(%q) = %q, expected %q", testCase.tokens, actual, testCase.expected)
			}
		})
	}
}

func TestStyleWrapPairsStartWithReset(t *testing.T) {
	t.Parallel()

	enabled := ansi.NewStyle([]int{1, 31, 4})
	if !enabled.Enabled() {
		t.Fatalf("expected style to be enabled")
	}
	if enabled.Reset != ansi.Reset {
		t.Fatalf("expected reset %q, got %q", ansi.Reset, enabled.Reset)
	}
	if wrapped := enabled.Wrap("dir/"); wrapped != "\033[1;31;4mdir/\033[0m" {
		t.Fatalf("unexpected wrapped text %q", wrapped)
	}

	for _, disabled := range []ansi.Style{ansi.NewStyle(nil), ansi.NewStyleFromTokens([]string{"x"}), ansi.Disabled()} {
		if disabled.Enabled() {
			t.Fatalf("expected disabled style, got %+v", disabled)
		}
		if disabled.Start != "" || disabled.Reset != "" {
			t.Fatalf("disabled style must carry no sequences, got %+v", disabled)
		}
		if wrapped := disabled.Wrap("dir/"); wrapped != "dir/" {
			t.Fatalf("disabled style altered text: %q", wrapped)
		}
	}
}
