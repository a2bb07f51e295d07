// Package ansi converts Select Graphic Rendition parameter codes into terminal escape sequences.
package ansi

import (
	"strconv"
	"strings"
)

const (
	// Reset ends any styling started by a sequence produced by Format.
	Reset = "\033[0m"

	controlSequenceIntroducer = "\033["
	parameterSeparator        = ";"
	graphicRenditionFinal     = "m"

	// MinimumCode is the smallest accepted SGR parameter.
	MinimumCode = 0
	// MaximumCode is the largest accepted SGR parameter.
	MaximumCode = 255
	// BoldCode is the SGR parameter used for directory names by default.
	BoldCode = 1
)

// Format joins the codes into a single SGR start sequence, e.g. [1 31 4] becomes "\033[1;31;4m".
// Empty input or any code outside [MinimumCode, MaximumCode] yields an empty string.
func Format(codes []int) string {
	if len(codes) == 0 {
		return ""
	}
	parameters := make([]string, 0, len(codes))
	for _, code := range codes {
		if code < MinimumCode || code > MaximumCode {
			return ""
		}
		parameters = append(parameters, strconv.Itoa(code))
	}
	return controlSequenceIntroducer + strings.Join(parameters, parameterSeparator) + graphicRenditionFinal
}

// ParseCodes converts textual codes into integers. Tokens may carry surrounding whitespace.
func ParseCodes(tokens []string) ([]int, error) {
	codes := make([]int, 0, len(tokens))
	for _, token := range tokens {
		code, parseError := strconv.Atoi(strings.TrimSpace(token))
		if parseError != nil {
			return nil, parseError
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// FormatTokens parses textual codes and formats them. A non-integer token yields an empty string.
func FormatTokens(tokens []string) string {
	codes, parseError := ParseCodes(tokens)
	if parseError != nil {
		return ""
	}
	return Format(codes)
}

// Style pairs a start sequence with its reset. Both are empty when styling is disabled.
type Style struct {
	Start string
	Reset string
}

// NewStyle builds a Style for the codes, disabled when the codes do not format.
func NewStyle(codes []int) Style {
	return styleFromStart(Format(codes))
}

// NewStyleFromTokens builds a Style from textual codes, disabled when any token is invalid.
func NewStyleFromTokens(tokens []string) Style {
	return styleFromStart(FormatTokens(tokens))
}

// Disabled returns a Style that leaves text untouched.
func Disabled() Style {
	return Style{}
}

func styleFromStart(start string) Style {
	if start == "" {
		return Disabled()
	}
	return Style{Start: start, Reset: Reset}
}

// Enabled reports whether the style emits escape sequences.
func (style Style) Enabled() bool {
	return style.Start != "" && style.Reset != ""
}

// Wrap surrounds text with the start and reset sequences.
func (style Style) Wrap(text string) string {
	if !style.Enabled() {
		return text
	}
	return style.Start + text + style.Reset
}
