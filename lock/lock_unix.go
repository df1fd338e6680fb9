//go:build unix

package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/tutorqa/sheets-sync/log"
)

// Acquire takes an exclusive, non-blocking flock(2) on the file, creating the file and its
// directory if necessary. The lock is released by Release or when the process exits.
func Acquire(file string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(file), 0750); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(file, os.O_CREATE|os.O_RDWR, 0640)
	if err != nil {
		return nil, err
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()

		if err == unix.EWOULDBLOCK {
			return nil, fmt.Errorf("%v (%w)", file, ErrLocked)
		}

		return nil, fmt.Errorf("unable to lock %v (%w)", file, err)
	}

	if err := f.Truncate(0); err == nil {
		f.WriteString(strconv.Itoa(os.Getpid()))
	}

	log.Debugf("acquired lock %v", file)

	return &Lock{
		file: file,
		release: func() error {
			defer f.Close()

			log.Debugf("released lock %v", file)

			return unix.Flock(int(f.Fd()), unix.LOCK_UN)
		},
	}, nil
}
