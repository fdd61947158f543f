// Copyright 2021 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pagestore

import (
	"github.com/cockroachdb/errors"
)

// FindLatestSnapshot scans the timeline directory for the snapshot layer
// best covering lsn for the given relation: among layers whose start LSN is
// at or before lsn, the one with the largest start LSN. Start LSNs are unique
// per relation when the non-overlap invariant holds; if it is violated, the
// first file encountered in directory order wins.
//
// The scan reads the directory fresh on every call and takes no lock against
// concurrent layer creation; a layer created concurrently may or may not be
// observed.
func FindLatestSnapshot(
	opts *Options, timelineID TimelineID, tag RelTag, lsn Lsn,
) (startLsn, endLsn Lsn, ok bool, err error) {
	opts = opts.EnsureDefaults()
	dir := opts.TimelinePath(timelineID)
	ls, err := opts.FS.List(dir)
	if err != nil {
		return 0, 0, false, errors.Wrapf(err, "pagestore: listing timeline directory %s", dir)
	}
	for _, name := range ls {
		t, start, end, valid := ParseFilename(name)
		if !valid || t != tag {
			continue
		}
		if start <= lsn && (!ok || start > startLsn) {
			startLsn, endLsn, ok = start, end, true
		}
	}
	return startLsn, endLsn, ok, nil
}

// ListRels scans the timeline directory once and collects the distinct
// relation tags present. A zero spcNode or dbNode filter matches any
// tablespace or database. Used for enumeration, not hot-path reads.
func ListRels(
	opts *Options, timelineID TimelineID, spcNode, dbNode uint32,
) (map[RelTag]struct{}, error) {
	opts = opts.EnsureDefaults()
	dir := opts.TimelinePath(timelineID)
	ls, err := opts.FS.List(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "pagestore: listing timeline directory %s", dir)
	}
	rels := make(map[RelTag]struct{})
	for _, name := range ls {
		tag, _, _, valid := ParseFilename(name)
		if !valid {
			continue
		}
		if (spcNode == 0 || tag.SpcNode == spcNode) && (dbNode == 0 || tag.DbNode == dbNode) {
			rels[tag] = struct{}{}
		}
	}
	return rels, nil
}
