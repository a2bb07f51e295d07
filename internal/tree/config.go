package tree

import (
	"errors"
	"fmt"

	"github.com/temirov/tree/internal/ansi"
)

const (
	// DefaultMaxDepth limits traversal when no depth is configured.
	DefaultMaxDepth = 10
	// HiddenMarker prefixes the names of hidden entries.
	HiddenMarker = "."
	// DirectorySuffix is appended to directory names.
	DirectorySuffix = "/"

	errorNegativeDepthFormat = "maximum depth must not be negative, got %d"
	errorInvalidGlyphsFormat = "invalid glyph set: %w"
)

var errIncompleteStyle = errors.New("style must define both start and reset sequences or neither")

// Config controls a single rendering pass. It is passed by value and never mutated.
type Config struct {
	IncludeHidden bool
	MaxDepth      int
	Style         ansi.Style
	Glyphs        GlyphSet
}

// DefaultConfig returns the configuration used when no options are supplied.
func DefaultConfig() Config {
	return Config{
		MaxDepth: DefaultMaxDepth,
		Glyphs:   UnicodeGlyphs,
	}
}

// normalized fills unset glyphs and validates the configuration.
func (config Config) normalized() (Config, error) {
	if config.MaxDepth < 0 {
		return Config{}, fmt.Errorf(errorNegativeDepthFormat, config.MaxDepth)
	}
	if config.Glyphs.IsZero() {
		config.Glyphs = UnicodeGlyphs
	}
	if glyphError := config.Glyphs.Validate(); glyphError != nil {
		return Config{}, fmt.Errorf(errorInvalidGlyphsFormat, glyphError)
	}
	if (config.Style.Start == "") != (config.Style.Reset == "") {
		return Config{}, errIncompleteStyle
	}
	return config, nil
}
