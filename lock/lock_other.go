//go:build !unix

package lock

import (
	"github.com/tutorqa/sheets-sync/log"
)

// Acquire is a no-op on platforms without flock(2).
func Acquire(file string) (*Lock, error) {
	log.Warnf("lock files are not supported on this platform - ignoring %v", file)

	return &Lock{file: file}, nil
}
