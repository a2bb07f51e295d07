// Package clipboard places rendered trees on the system clipboard.
package clipboard

import (
	"errors"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/temirov/tree/internal/ansi"
)

// ErrUnsupported is returned when no clipboard utility is available on the host.
var ErrUnsupported = errors.New("system clipboard is not available")

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct {
	writeAll func(text string) error
}

// NewService constructs a clipboard service backed by the host clipboard.
func NewService() *Service {
	return &Service{writeAll: clipboard.WriteAll}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return service.writeAll(text)
}

// StripStyle removes the style's start and reset sequences so copied text stays plain.
func StripStyle(text string, style ansi.Style) string {
	if !style.Enabled() {
		return text
	}
	return strings.NewReplacer(style.Start, "", style.Reset, "").Replace(text)
}

var _ Copier = (*Service)(nil)
