package store

import (
	"errors"
	"fmt"
)

// ErrKeyNotFound is returned by Get for keys that have never been set.
// Callers treat it as "start empty", never as a failure.
var ErrKeyNotFound = errors.New("store: key not found")

// IsNotFound reports whether err means the key was absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound)
}

// ErrUnknownProvider is returned by New for an unrecognized provider name.
func ErrUnknownProvider(provider string) error {
	return fmt.Errorf("store: unknown provider %q (expected \"file\" or \"sqlite\")", provider)
}
