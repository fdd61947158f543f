// Copyright 2021 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pagestore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindLatestSnapshot(t *testing.T) {
	opts := newTestOptions()
	for _, r := range []struct{ start, end Lsn }{
		{0, 100}, {100, 200}, {200, 300},
	} {
		_, err := Create(opts, testTimelineID, testRelTag, r.start, r.end, nil, nil)
		require.NoError(t, err)
	}
	// A layer of another relation with a larger start LSN must not win.
	other := RelTag{SpcNode: 1, DbNode: 2, RelNode: 3, ForkNum: 1}
	_, err := Create(opts, testTimelineID, other, 250, 400, nil, nil)
	require.NoError(t, err)

	// Unrelated directory entries are ignored.
	require.NoError(t, writeFile(opts.FS, opts.FS.PathJoin(opts.TimelinePath(testTimelineID), "LOCK"), nil))

	cases := []struct {
		lsn        Lsn
		start, end Lsn
	}{
		{0, 0, 100},
		{50, 0, 100},
		{100, 100, 200},
		{150, 100, 200},
		{250, 200, 300},
		{MaxLsn, 200, 300},
	}
	for _, c := range cases {
		start, end, ok, err := FindLatestSnapshot(opts, testTimelineID, testRelTag, c.lsn)
		require.NoError(t, err)
		require.True(t, ok, "lsn %s", c.lsn)
		require.Equal(t, c.start, start, "lsn %s", c.lsn)
		require.Equal(t, c.end, end, "lsn %s", c.lsn)
	}

	_, _, ok, err := FindLatestSnapshot(opts, testTimelineID, RelTag{RelNode: 99}, 150)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFindLatestSnapshotMissingDir(t *testing.T) {
	opts := newTestOptions()
	_, _, _, err := FindLatestSnapshot(opts, testTimelineID, testRelTag, 100)
	require.Error(t, err)
}

func TestListRels(t *testing.T) {
	opts := newTestOptions()
	tags := []RelTag{
		{SpcNode: 1, DbNode: 1, RelNode: 10, ForkNum: 0},
		{SpcNode: 1, DbNode: 2, RelNode: 20, ForkNum: 0},
		{SpcNode: 2, DbNode: 3, RelNode: 30, ForkNum: 1},
	}
	for _, tag := range tags {
		// Two ranges per relation; enumeration must deduplicate.
		_, err := Create(opts, testTimelineID, tag, 0, 100, nil, nil)
		require.NoError(t, err)
		_, err = Create(opts, testTimelineID, tag, 100, 200, nil, nil)
		require.NoError(t, err)
	}

	all, err := ListRels(opts, testTimelineID, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for _, tag := range tags {
		require.Contains(t, all, tag)
	}

	spc1, err := ListRels(opts, testTimelineID, 1, 0)
	require.NoError(t, err)
	require.Len(t, spc1, 2)
	require.Contains(t, spc1, tags[0])
	require.Contains(t, spc1, tags[1])

	db2, err := ListRels(opts, testTimelineID, 1, 2)
	require.NoError(t, err)
	require.Len(t, db2, 1)
	require.Contains(t, db2, tags[1])

	none, err := ListRels(opts, testTimelineID, 9, 9)
	require.NoError(t, err)
	require.Empty(t, none)
}
