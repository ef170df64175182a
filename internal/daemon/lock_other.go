//go:build !unix

package daemon

import "errors"

// Lock is not supported on this OS.
func Lock(path string) error {
	return errors.New("pid file locking is not supported on this OS")
}

func Unlock() {}
