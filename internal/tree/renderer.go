// Package tree renders a directory and its descendants as an indented tree of branch glyphs.
package tree

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

const (
	rootFramePath = "."

	// unreadablePlaceholderFormat replaces the children of a directory that cannot be listed.
	unreadablePlaceholderFormat = "[error: cannot read directory: %v]"
	// warningUnreadableFormat is reported to the warning handler for the same condition.
	warningUnreadableFormat = "Warning: cannot read directory %s: %v"

	errorReadRootFormat  = "reading root directory %s: %w"
	errorWriteLineFormat = "writing tree line: %w"
)

// Result counts what a rendering pass emitted.
type Result struct {
	Directories int
	Files       int
	Unreadable  int
}

// Option customizes a Renderer.
type Option func(*Renderer)

// WithWarningHandler registers a function that receives a message for every unreadable subdirectory.
func WithWarningHandler(handler func(message string)) Option {
	return func(renderer *Renderer) {
		if handler != nil {
			renderer.warn = handler
		}
	}
}

// Renderer walks a file system depth first and writes one line per entry.
type Renderer struct {
	fileSystem fs.FS
	config     Config
	warn       func(message string)
}

// stackItem is a pending entry line. Children of a directory are pushed in
// reverse order so that popping yields them in listing order.
type stackItem struct {
	path        string
	name        string
	prefix      string
	depth       int
	isLast      bool
	isDirectory bool
	placeholder string
}

// NewRenderer validates the configuration and returns a Renderer over the file system.
func NewRenderer(fileSystem fs.FS, config Config, options ...Option) (*Renderer, error) {
	normalizedConfig, configError := config.normalized()
	if configError != nil {
		return nil, configError
	}
	renderer := &Renderer{
		fileSystem: fileSystem,
		config:     normalizedConfig,
		warn:       func(string) {},
	}
	for _, option := range options {
		option(renderer)
	}
	return renderer, nil
}

// Render writes the root line followed by every entry within the configured depth.
// A subdirectory that cannot be listed is rendered as a single placeholder line;
// only a failure to list the root or to write to the writer aborts the pass.
func (renderer *Renderer) Render(writer io.Writer, rootName string) (Result, error) {
	var result Result
	if writeError := writeLine(writer, renderer.config.Style.Wrap(rootName+DirectorySuffix)); writeError != nil {
		return result, writeError
	}

	var stack []stackItem
	if renderer.config.MaxDepth > 0 {
		children, listError := renderer.listChildren(rootFramePath, "", 1)
		if listError != nil {
			return result, fmt.Errorf(errorReadRootFormat, rootName, listError)
		}
		stack = append(stack, children...)
	}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if writeError := writeLine(writer, renderer.formatLine(item)); writeError != nil {
			return result, writeError
		}
		if item.placeholder != "" {
			result.Unreadable++
			continue
		}
		if !item.isDirectory {
			result.Files++
			continue
		}
		result.Directories++
		if item.depth >= renderer.config.MaxDepth {
			continue
		}

		childPrefix := item.prefix + renderer.config.Glyphs.filler(item.isLast)
		children, listError := renderer.listChildren(item.path, childPrefix, item.depth+1)
		if listError != nil {
			renderer.warn(fmt.Sprintf(warningUnreadableFormat, item.path, listError))
			stack = append(stack, stackItem{
				prefix:      childPrefix,
				depth:       item.depth + 1,
				isLast:      true,
				placeholder: fmt.Sprintf(unreadablePlaceholderFormat, listError),
			})
			continue
		}
		stack = append(stack, children...)
	}

	return result, nil
}

// listChildren reads a directory and returns its visible entries as stack items in reverse order.
func (renderer *Renderer) listChildren(directoryPath string, prefix string, depth int) ([]stackItem, error) {
	directoryEntries, readError := fs.ReadDir(renderer.fileSystem, directoryPath)
	if readError != nil {
		return nil, readError
	}

	visibleEntries := make([]fs.DirEntry, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		if !renderer.config.IncludeHidden && strings.HasPrefix(directoryEntry.Name(), HiddenMarker) {
			continue
		}
		visibleEntries = append(visibleEntries, directoryEntry)
	}
	sort.SliceStable(visibleEntries, func(left, right int) bool {
		return visibleEntries[left].Name() < visibleEntries[right].Name()
	})

	items := make([]stackItem, 0, len(visibleEntries))
	for index := len(visibleEntries) - 1; index >= 0; index-- {
		directoryEntry := visibleEntries[index]
		entryPath := path.Join(directoryPath, directoryEntry.Name())
		items = append(items, stackItem{
			path:        entryPath,
			name:        directoryEntry.Name(),
			prefix:      prefix,
			depth:       depth,
			isLast:      index == len(visibleEntries)-1,
			isDirectory: renderer.isDirectory(entryPath, directoryEntry),
		})
	}
	return items, nil
}

// isDirectory follows symbolic links; a link that resolves to nothing is a plain entry.
func (renderer *Renderer) isDirectory(entryPath string, directoryEntry fs.DirEntry) bool {
	if directoryEntry.IsDir() {
		return true
	}
	if directoryEntry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	targetInfo, statError := fs.Stat(renderer.fileSystem, entryPath)
	if statError != nil {
		return false
	}
	return targetInfo.IsDir()
}

func (renderer *Renderer) formatLine(item stackItem) string {
	branch := item.prefix + renderer.config.Glyphs.branch(item.isLast)
	switch {
	case item.placeholder != "":
		return branch + item.placeholder
	case item.isDirectory:
		return branch + renderer.config.Style.Wrap(item.name+DirectorySuffix)
	default:
		return branch + item.name
	}
}

func writeLine(writer io.Writer, line string) error {
	if _, writeError := io.WriteString(writer, line+"\n"); writeError != nil {
		return fmt.Errorf(errorWriteLineFormat, writeError)
	}
	return nil
}

// Render renders the file system rooted at rootName to the writer.
func Render(writer io.Writer, fileSystem fs.FS, rootName string, config Config, options ...Option) (Result, error) {
	renderer, rendererError := NewRenderer(fileSystem, config, options...)
	if rendererError != nil {
		return Result{}, rendererError
	}
	return renderer.Render(writer, rootName)
}

// Lines renders into memory and returns the emitted lines in order.
func Lines(fileSystem fs.FS, rootName string, config Config, options ...Option) ([]string, Result, error) {
	var buffer bytes.Buffer
	result, renderError := Render(&buffer, fileSystem, rootName, config, options...)
	if renderError != nil {
		return nil, result, renderError
	}
	return strings.Split(strings.TrimSuffix(buffer.String(), "\n"), "\n"), result, nil
}

// RenderDirectory validates rootPath and renders the directory it names.
func RenderDirectory(writer io.Writer, rootPath string, config Config, options ...Option) (Result, error) {
	absoluteRootPath, validationError := ValidateRoot(rootPath)
	if validationError != nil {
		return Result{}, validationError
	}
	return Render(writer, os.DirFS(absoluteRootPath), RootDisplayName(absoluteRootPath), config, options...)
}

// RootDisplayName returns the name shown on the root line for an absolute path.
// The file system root is shown as an empty name so its line reads "/".
func RootDisplayName(absolutePath string) string {
	baseName := filepath.Base(absolutePath)
	if baseName == string(filepath.Separator) || baseName == rootFramePath {
		return ""
	}
	return baseName
}
