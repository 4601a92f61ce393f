package failure

import (
	"errors"
	"fmt"
)

// ErrUserDeclined is returned when the user answers "no" to a pre-flight question.
// It is not reported as an error; the updater exits instead.
var ErrUserDeclined = errors.New("operation declined by user")

// Kind classifies workflow errors for logging and tests
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindAssetNotFound
	KindFilesystem
	KindDeclined
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAssetNotFound:
		return "asset-not-found"
	case KindFilesystem:
		return "filesystem"
	case KindDeclined:
		return "declined"
	default:
		return "unknown"
	}
}

// NetworkError reports a failed feed or download call
type NetworkError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: HTTP %d", e.Op, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// AssetNotFoundError reports a release without a matching asset
type AssetNotFoundError struct {
	Repo  string
	Asset string
}

func (e *AssetNotFoundError) Error() string {
	return fmt.Sprintf("%s was not found in the latest release of %s", e.Asset, e.Repo)
}

// FilesystemError reports a create, remove or extract failure
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

// Filesystem wraps err as a FilesystemError, passing nil through
func Filesystem(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &FilesystemError{Op: op, Path: path, Err: err}
}

// KindOf returns the kind of the first typed error in err's chain
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	if errors.Is(err, ErrUserDeclined) {
		return KindDeclined
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return KindNetwork
	}
	var assetErr *AssetNotFoundError
	if errors.As(err, &assetErr) {
		return KindAssetNotFound
	}
	var fsErr *FilesystemError
	if errors.As(err, &fsErr) {
		return KindFilesystem
	}
	return KindUnknown
}
