// Copyright 2021 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pagestore

// Layer is the common contract of every storage unit holding page versions
// for one relation: the immutable snapshot layer implemented by this package,
// and the mutable open layer that accumulates changes at the tip of a
// timeline before being frozen. Callers hold a Layer and, outside of
// IsFrozen, need not know which variant they have.
//
// On a frozen layer the three mutating operations fail: PutPageVersion
// panics, because the only path that can reach it is an upstream routing bug
// that must not be silently tolerated, while PutTruncation and Freeze are
// reachable through more defensive call paths and return an error instead.
type Layer interface {
	// TimelineID returns the timeline this layer belongs to.
	TimelineID() TimelineID
	// Tag returns the relation this layer holds versions for.
	Tag() RelTag
	// StartLsn returns the inclusive start of the layer's LSN range.
	StartLsn() Lsn
	// EndLsn returns the exclusive end of the layer's LSN range. An open
	// layer returns MaxLsn until frozen.
	EndLsn() Lsn
	// IsFrozen reports whether the layer is immutable.
	IsFrozen() bool

	// GetPageAtLsn materializes the image of the given block as of lsn,
	// invoking redo if WAL replay is required. The returned slice is owned by
	// the caller.
	GetPageAtLsn(redo RedoManager, blkno uint32, lsn Lsn) ([]byte, error)
	// GetRelSize returns the relation's page count as of lsn. It returns an
	// ErrNotFound-marked error if no size is known at or before lsn; use
	// GetRelExists to distinguish "does not exist yet" first.
	GetRelSize(lsn Lsn) (uint32, error)
	// GetRelExists reports whether the relation exists as of lsn. It never
	// fails: absence of any size entry at or before lsn means false.
	GetRelExists(lsn Lsn) (bool, error)

	// PutPageVersion records a new version of a block.
	PutPageVersion(blkno uint32, lsn Lsn, pv PageVersion) error
	// PutTruncation records a relation truncation to relSize pages.
	PutTruncation(lsn Lsn, relSize uint32) error
	// Freeze makes the layer immutable with the given exclusive end LSN.
	Freeze(endLsn Lsn) error
}

// RedoManager reconstructs page images by replaying WAL records. The
// implementation is external to this package and treated as an opaque,
// potentially slow, potentially failing black box; its errors propagate
// unchanged to the caller of GetPageAtLsn.
type RedoManager interface {
	// RequestRedo replays records, in order, against baseImage (nil if the
	// oldest record initializes the page) and returns the image of the block
	// as of lsn.
	RequestRedo(tag RelTag, blkno uint32, lsn Lsn, baseImage []byte, records []WALRecord) ([]byte, error)
}
