package tree

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// GlyphSet holds the strings that connect an entry to its parent.
// Continuation and Blank are appended to the prefix of a directory's children
// and must have the same width as Middle and Last so nested branches align.
type GlyphSet struct {
	Middle       string
	Last         string
	Continuation string
	Blank        string
}

var (
	// UnicodeGlyphs draws branches with box-drawing characters.
	UnicodeGlyphs = GlyphSet{
		Middle:       "├─╴",
		Last:         "└─╴",
		Continuation: "│  ",
		Blank:        "   ",
	}
	// ASCIIGlyphs draws branches for terminals without box-drawing support.
	ASCIIGlyphs = GlyphSet{
		Middle:       "|--",
		Last:         "`--",
		Continuation: "|  ",
		Blank:        "   ",
	}
)

const errorGlyphWidthFormat = "glyph %q has width %d, expected %d"

// IsZero reports whether no glyph has been set.
func (glyphs GlyphSet) IsZero() bool {
	return glyphs == GlyphSet{}
}

// Width returns the terminal cell width of the set. East Asian wide runes
// count as two cells.
func (glyphs GlyphSet) Width() int {
	return lipgloss.Width(glyphs.Middle)
}

// Validate checks that every glyph in the set has the same width.
func (glyphs GlyphSet) Validate() error {
	expectedWidth := glyphs.Width()
	for _, glyph := range []string{glyphs.Middle, glyphs.Last, glyphs.Continuation, glyphs.Blank} {
		if glyphWidth := lipgloss.Width(glyph); glyphWidth != expectedWidth {
			return fmt.Errorf(errorGlyphWidthFormat, glyph, glyphWidth, expectedWidth)
		}
	}
	return nil
}

func (glyphs GlyphSet) branch(isLast bool) string {
	if isLast {
		return glyphs.Last
	}
	return glyphs.Middle
}

func (glyphs GlyphSet) filler(isLast bool) string {
	if isLast {
		return glyphs.Blank
	}
	return glyphs.Continuation
}
