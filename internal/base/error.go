// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

import (
	"github.com/cockroachdb/errors"
)

// ErrNotFound means that a lookup did not find a snapshot layer, or a history
// entry, covering the requested LSN.
var ErrNotFound = errors.New("pagestore: not found")

// ErrCorruption is a marker error for data corruption detected in a layer
// file or in an in-memory history. Callers should alert on corruption rather
// than treat it like a not-found condition.
var ErrCorruption = errors.New("pagestore: corruption")

// CorruptionErrorf formats according to a format specifier and returns the
// result as an error marked as a corruption error.
func CorruptionErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrCorruption)
}

// MarkCorruptionError marks the given error as a corruption error.
func MarkCorruptionError(err error) error {
	if err == nil {
		return nil
	}
	return errors.Mark(err, ErrCorruption)
}

// IsCorruptionError reports whether the error was produced by, or marked
// with, ErrCorruption.
func IsCorruptionError(err error) bool {
	return errors.Is(err, ErrCorruption)
}
