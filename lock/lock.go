// Package lock implements the advisory lock file that stops two sync runs against the same
// configuration from overlapping on one host.
package lock

import (
	"errors"
)

// ErrLocked is returned when the lock file is held by another process.
var ErrLocked = errors.New("lock file in use")

type Lock struct {
	file    string
	release func() error
}

func (l *Lock) Release() error {
	if l == nil || l.release == nil {
		return nil
	}

	return l.release()
}

func (l *Lock) String() string {
	if l == nil {
		return ""
	}

	return l.file
}
