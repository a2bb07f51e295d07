package tree

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// RootFailureReason classifies why a root path cannot be rendered.
type RootFailureReason int

const (
	// RootNotFound means the path does not exist.
	RootNotFound RootFailureReason = iota
	// RootNotDirectory means the path exists but is not a directory.
	RootNotDirectory
	// RootPermissionDenied means the directory cannot be accessed.
	RootPermissionDenied
	// RootOther covers every other operating system failure.
	RootOther
)

const (
	rootNotFoundFormat         = "error: the directory '%s' does not exist."
	rootNotDirectoryFormat     = "error: '%s' is not a directory."
	rootPermissionDeniedFormat = "error: you do not have the necessary permissions to access '%s'."
	rootOtherFormat            = "error checking directory: %v"
)

// InvalidRootError reports a root path that failed validation. Its message is a user-facing diagnostic.
type InvalidRootError struct {
	Path   string
	Reason RootFailureReason
	Err    error
}

func (rootError *InvalidRootError) Error() string {
	switch rootError.Reason {
	case RootNotFound:
		return fmt.Sprintf(rootNotFoundFormat, rootError.Path)
	case RootNotDirectory:
		return fmt.Sprintf(rootNotDirectoryFormat, rootError.Path)
	case RootPermissionDenied:
		return fmt.Sprintf(rootPermissionDeniedFormat, rootError.Path)
	default:
		return fmt.Sprintf(rootOtherFormat, rootError.Err)
	}
}

func (rootError *InvalidRootError) Unwrap() error {
	return rootError.Err
}

// ValidateRoot confirms that path names an accessible directory and returns its absolute form.
func ValidateRoot(path string) (string, error) {
	absolutePath, absoluteError := filepath.Abs(path)
	if absoluteError != nil {
		return "", &InvalidRootError{Path: path, Reason: RootOther, Err: absoluteError}
	}

	rootInfo, statError := os.Stat(absolutePath)
	if statError != nil {
		return "", classifyRootError(path, statError)
	}
	if !rootInfo.IsDir() {
		return "", &InvalidRootError{Path: path, Reason: RootNotDirectory}
	}

	directoryHandle, openError := os.Open(absolutePath)
	if openError != nil {
		return "", classifyRootError(path, openError)
	}
	defer directoryHandle.Close()
	if _, readError := directoryHandle.ReadDir(1); readError != nil && !errors.Is(readError, io.EOF) {
		return "", classifyRootError(path, readError)
	}

	return absolutePath, nil
}

func classifyRootError(path string, cause error) *InvalidRootError {
	switch {
	case errors.Is(cause, fs.ErrNotExist):
		return &InvalidRootError{Path: path, Reason: RootNotFound, Err: cause}
	case errors.Is(cause, fs.ErrPermission):
		return &InvalidRootError{Path: path, Reason: RootPermissionDenied, Err: cause}
	default:
		return &InvalidRootError{Path: path, Reason: RootOther, Err: cause}
	}
}
