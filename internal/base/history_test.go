// Copyright 2021 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPageVersionsOrdering(t *testing.T) {
	h := NewPageVersions()
	h.Put(2, 10, PageVersion{Image: []byte("c")})
	h.Put(1, 20, PageVersion{Image: []byte("b")})
	h.Put(1, 10, PageVersion{Image: []byte("a")})
	require.Equal(t, 3, h.Len())

	var keys [][2]uint64
	h.Ascend(func(e PageVersionEntry) bool {
		keys = append(keys, [2]uint64{uint64(e.BlkNo), uint64(e.Lsn)})
		return true
	})
	require.Equal(t, [][2]uint64{{1, 10}, {1, 20}, {2, 10}}, keys)
}

func TestPageVersionsPutReplaces(t *testing.T) {
	h := NewPageVersions()
	h.Put(1, 10, PageVersion{Image: []byte("old")})
	h.Put(1, 10, PageVersion{Image: []byte("new")})
	require.Equal(t, 1, h.Len())
	h.Ascend(func(e PageVersionEntry) bool {
		require.Equal(t, []byte("new"), e.Image)
		return true
	})
}

func TestPageVersionsDescendLessOrEqual(t *testing.T) {
	h := NewPageVersions()
	h.Put(1, 30, PageVersion{Image: []byte("other-block")})
	h.Put(2, 10, PageVersion{Image: []byte("a")})
	h.Put(2, 20, PageVersion{Image: []byte("b")})
	h.Put(2, 30, PageVersion{Image: []byte("c")})
	h.Put(3, 5, PageVersion{Image: []byte("other-block")})

	// The bound is inclusive, the scan is newest first, and it never crosses
	// into another block's entries.
	var lsns []Lsn
	h.DescendLessOrEqual(2, 20, func(e PageVersionEntry) bool {
		require.Equal(t, uint32(2), e.BlkNo)
		lsns = append(lsns, e.Lsn)
		return true
	})
	require.Equal(t, []Lsn{20, 10}, lsns)

	// No entries at or before the bound.
	lsns = nil
	h.DescendLessOrEqual(2, 5, func(e PageVersionEntry) bool {
		lsns = append(lsns, e.Lsn)
		return true
	})
	require.Empty(t, lsns)
}

func TestRelSizesLatestAtOrBefore(t *testing.T) {
	h := NewRelSizes()
	h.Put(15, 3)
	h.Put(5, 0)

	_, found := h.LatestAtOrBefore(3)
	require.False(t, found)

	e, found := h.LatestAtOrBefore(5)
	require.True(t, found)
	require.Equal(t, uint32(0), e.Size)

	e, found = h.LatestAtOrBefore(20)
	require.True(t, found)
	require.Equal(t, uint32(3), e.Size)
	require.Equal(t, Lsn(15), e.Lsn)
}
