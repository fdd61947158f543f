// Copyright 2021 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

import (
	"fmt"
	"math"
	"strconv"

	"github.com/cockroachdb/redact"
)

// Lsn is a position in the write-ahead log: an opaque, totally ordered 64-bit
// quantity. Lsn(0) is the "beginning of time" sentinel; it sorts before every
// position the WAL can produce.
type Lsn uint64

// MaxLsn is the open-ended end bound used by layers that are still accepting
// writes. Snapshot layers only ever carry closed ranges, but the sentinel
// still appears in the names of not-yet-frozen layer files.
const MaxLsn = Lsn(math.MaxUint64)

// String returns the conventional segment/offset form, e.g. "1/6A83C28".
func (l Lsn) String() string {
	return fmt.Sprintf("%X/%X", uint64(l)>>32, uint64(l)&0xFFFFFFFF)
}

// SafeFormat implements redact.SafeFormatter.
func (l Lsn) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("%X/%X", redact.SafeUint(uint64(l)>>32), redact.SafeUint(uint64(l)&0xFFFFFFFF))
}

// Hex returns the fixed-width form used in layer file names: 16 uppercase hex
// digits, no separator.
func (l Lsn) Hex() string {
	return fmt.Sprintf("%016X", uint64(l))
}

// ParseLsnHex parses the fixed-width hex form produced by Hex. It returns
// ok=false for anything that is not exactly 16 hex digits; file name decoding
// treats that as "not a layer file", never as an error.
func ParseLsnHex(s string) (Lsn, bool) {
	if len(s) != 16 {
		return 0, false
	}
	u, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, false
	}
	return Lsn(u), true
}
