// Package watch re-renders a directory tree when the file system beneath it changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/tree/internal/tree"
)

// DefaultDebounce coalesces bursts of events into a single re-render.
const DefaultDebounce = 200 * time.Millisecond

const (
	warningWatchFormat     = "cannot watch directory"
	warningNotifierMessage = "file system watcher error"
	errorCreateWatcher     = "create file system watcher: %w"
	errorWalkRootFormat    = "walk %s: %w"
)

var (
	errEventsClosed = errors.New("file system watcher closed")
	errNotDirectory = errors.New("not a directory")
)

// Options controls which directories are watched and how changes are coalesced.
type Options struct {
	IncludeHidden bool
	MaxDepth      int
	Debounce      time.Duration
	Logger        *zap.Logger
}

// Watcher tracks every directory whose listing appears in the rendered tree.
type Watcher struct {
	root     string
	options  Options
	notifier *fsnotify.Watcher
	logger   *zap.Logger
}

// New registers the root and its visible subdirectories within the depth limit.
// With a zero depth limit nothing below the root line is rendered, so nothing is watched.
func New(root string, options Options) (*Watcher, error) {
	if options.Debounce <= 0 {
		options.Debounce = DefaultDebounce
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	notifier, notifierError := fsnotify.NewWatcher()
	if notifierError != nil {
		return nil, fmt.Errorf(errorCreateWatcher, notifierError)
	}
	watcher := &Watcher{
		root:     filepath.Clean(root),
		options:  options,
		notifier: notifier,
		logger:   logger,
	}
	if addError := watcher.addTree(watcher.root); addError != nil {
		notifier.Close()
		return nil, addError
	}
	return watcher, nil
}

// Directories returns the watched directories in lexical order.
func (watcher *Watcher) Directories() []string {
	directories := watcher.notifier.WatchList()
	sort.Strings(directories)
	return directories
}

// Close releases the underlying notifier.
func (watcher *Watcher) Close() error {
	return watcher.notifier.Close()
}

// Run calls onChange after every settled burst of file system events until ctx is done.
// onChange is never invoked concurrently with itself. An error from onChange stops the watcher.
func (watcher *Watcher) Run(ctx context.Context, onChange func() error) error {
	changes := make(chan struct{}, 1)
	group, groupContext := errgroup.WithContext(ctx)

	group.Go(func() error {
		return watcher.pumpEvents(groupContext, changes)
	})
	group.Go(func() error {
		return watcher.renderOnChange(groupContext, changes, onChange)
	})

	runError := group.Wait()
	if ctx.Err() != nil && (errors.Is(runError, context.Canceled) || errors.Is(runError, context.DeadlineExceeded)) {
		return nil
	}
	return runError
}

func (watcher *Watcher) pumpEvents(ctx context.Context, changes chan<- struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, open := <-watcher.notifier.Events:
			if !open {
				return errEventsClosed
			}
			if !watcher.handleEvent(event) {
				continue
			}
			select {
			case changes <- struct{}{}:
			default:
			}
		case notifierError, open := <-watcher.notifier.Errors:
			if !open {
				return errEventsClosed
			}
			watcher.logger.Warn(warningNotifierMessage, zap.Error(notifierError))
		}
	}
}

func (watcher *Watcher) renderOnChange(ctx context.Context, changes <-chan struct{}, onChange func() error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changes:
		}

		settle := time.NewTimer(watcher.options.Debounce)
	settling:
		for {
			select {
			case <-ctx.Done():
				settle.Stop()
				return ctx.Err()
			case <-changes:
				settle.Reset(watcher.options.Debounce)
			case <-settle.C:
				break settling
			}
		}

		if changeError := onChange(); changeError != nil {
			return changeError
		}
	}
}

// handleEvent reports whether the event can alter the rendered tree and watches newly created directories.
// Content writes and permission changes never alter the tree.
func (watcher *Watcher) handleEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if !watcher.options.IncludeHidden && strings.HasPrefix(filepath.Base(event.Name), tree.HiddenMarker) {
		return false
	}
	if event.Has(fsnotify.Create) {
		if info, statError := os.Stat(event.Name); statError == nil && info.IsDir() {
			if addError := watcher.addTree(event.Name); addError != nil {
				watcher.logger.Warn(warningWatchFormat, zap.String("path", event.Name), zap.Error(addError))
			}
		}
	}
	return true
}

// addTree watches start and every visible descendant whose children are listed in the tree.
// Symbolic links to directories are followed the way the renderer follows them; the depth
// limit bounds link cycles.
func (watcher *Watcher) addTree(start string) error {
	startInfo, statError := os.Stat(start)
	if statError == nil && !startInfo.IsDir() {
		statError = errNotDirectory
	}
	if statError != nil {
		return fmt.Errorf(errorWalkRootFormat, start, statError)
	}
	if readError := watcher.addDirectory(start, watcher.depthOf(start)); readError != nil {
		return fmt.Errorf(errorWalkRootFormat, start, readError)
	}
	return nil
}

// addDirectory watches directoryPath when the tree lists its children at depth, then descends.
// Only a failure to list directoryPath itself is returned; descendants are skipped with a warning.
func (watcher *Watcher) addDirectory(directoryPath string, depth int) error {
	if depth >= watcher.options.MaxDepth {
		return nil
	}
	if addError := watcher.notifier.Add(directoryPath); addError != nil {
		watcher.logger.Warn(warningWatchFormat, zap.String("path", directoryPath), zap.Error(addError))
	}
	entries, readError := os.ReadDir(directoryPath)
	if readError != nil {
		return readError
	}
	for _, entry := range entries {
		if !watcher.options.IncludeHidden && strings.HasPrefix(entry.Name(), tree.HiddenMarker) {
			continue
		}
		childPath := filepath.Join(directoryPath, entry.Name())
		if !isDirectory(childPath, entry) {
			continue
		}
		if childError := watcher.addDirectory(childPath, depth+1); childError != nil {
			watcher.logger.Warn(warningWatchFormat, zap.String("path", childPath), zap.Error(childError))
		}
	}
	return nil
}

// isDirectory reports whether entry is a directory or a symbolic link resolving to one.
func isDirectory(entryPath string, entry fs.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	targetInfo, statError := os.Stat(entryPath)
	return statError == nil && targetInfo.IsDir()
}

// depthOf counts the path segments between the root and path.
func (watcher *Watcher) depthOf(path string) int {
	relativePath, relativeError := filepath.Rel(watcher.root, path)
	if relativeError != nil || relativePath == "." {
		return 0
	}
	return len(strings.Split(filepath.ToSlash(relativePath), "/"))
}
