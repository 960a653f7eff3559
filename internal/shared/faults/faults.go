// Package faults holds the failure kinds shared by every domain: storage
// errors, unreachable backends and records that no longer decode.
package faults

import (
	"errors"
	"fmt"
)

var (
	// ErrStorageFailure wraps errors raised by object storage.
	ErrStorageFailure = errors.New("object storage failure")
	// ErrRemoteUnavailable wraps errors raised when a backing service cannot be reached.
	ErrRemoteUnavailable = errors.New("remote service unavailable")
	// ErrCorruptRecord marks a persisted record that fails strict decoding.
	ErrCorruptRecord = errors.New("stored record is corrupt")
)

// Storage tags err as a storage failure unless it already is one.
func Storage(err error) error {
	return tag(ErrStorageFailure, err)
}

// Unavailable tags err as a remote-unavailable failure unless it already is one.
func Unavailable(err error) error {
	return tag(ErrRemoteUnavailable, err)
}

// Corrupt tags err as a corrupt record failure unless it already is one.
func Corrupt(err error) error {
	return tag(ErrCorruptRecord, err)
}

func tag(kind, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}
