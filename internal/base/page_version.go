// Copyright 2021 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

// WALRecord is one write-ahead-log record applicable to one block. The
// payload is opaque to the store; only the WAL redo executor interprets it.
type WALRecord struct {
	// WillInit indicates that replaying the record fully initializes the
	// page, making any older version of the block irrelevant.
	WillInit bool
	Rec      []byte
}

// PageVersion is one version of one block at one LSN: either a full page
// image, or a WAL record to be replayed on top of an older version. Exactly
// one of the two fields is set; a PageVersion with neither is corrupt and
// must surface as an error, never be defaulted.
type PageVersion struct {
	Image  []byte
	Record *WALRecord
}
