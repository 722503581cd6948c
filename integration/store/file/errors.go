package file

import "errors"

var (
	// ErrCorruptSnapshot indicates the backing file exists but does not
	// decode as a cookie snapshot.
	ErrCorruptSnapshot = errors.New("corrupt cookie snapshot file")
)
