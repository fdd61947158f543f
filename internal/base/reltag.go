// Copyright 2021 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

import (
	"encoding/hex"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

// RelTag identifies one physical relation fork: tablespace, database and
// relation OIDs plus the fork number. It is a comparable value type, used
// both as a lookup key and as a component of layer file names.
type RelTag struct {
	SpcNode uint32
	DbNode  uint32
	RelNode uint32
	ForkNum uint8
}

// String implements fmt.Stringer.
func (t RelTag) String() string {
	return fmt.Sprintf("%d/%d/%d.%d", t.SpcNode, t.DbNode, t.RelNode, t.ForkNum)
}

// SafeFormat implements redact.SafeFormatter.
func (t RelTag) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("%d/%d/%d.%d",
		redact.SafeUint(t.SpcNode), redact.SafeUint(t.DbNode),
		redact.SafeUint(t.RelNode), redact.SafeUint(t.ForkNum))
}

// TimelineID identifies one timeline. Each timeline owns one layer file
// directory.
type TimelineID [16]byte

// String returns the 32-digit lowercase hex form used in directory names.
func (t TimelineID) String() string {
	return hex.EncodeToString(t[:])
}

// SafeFormat implements redact.SafeFormatter.
func (t TimelineID) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Print(redact.SafeString(t.String()))
}

// ParseTimelineID parses the hex form produced by String.
func ParseTimelineID(s string) (TimelineID, error) {
	var t TimelineID
	b, err := hex.DecodeString(s)
	if err != nil {
		return t, errors.Wrapf(err, "invalid timeline ID %q", s)
	}
	if len(b) != len(t) {
		return t, errors.Errorf("invalid timeline ID %q: expected %d hex digits", s, 2*len(t))
	}
	copy(t[:], b)
	return t, nil
}
