// Copyright 2021 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

import (
	"github.com/google/btree"
)

const btreeDegree = 16

// PageVersionEntry is one entry of a PageVersions history: a page version
// keyed by (block number, LSN).
type PageVersionEntry struct {
	BlkNo uint32
	Lsn   Lsn
	PageVersion
}

func pageVersionEntryLess(a, b PageVersionEntry) bool {
	if a.BlkNo != b.BlkNo {
		return a.BlkNo < b.BlkNo
	}
	return a.Lsn < b.Lsn
}

// PageVersions is an ordered mapping from (block number, LSN) to PageVersion.
// Keys are compared first by block number, then by LSN, so "latest version of
// this block at or before this LSN" is a bounded descending scan.
//
// PageVersions is not safe for concurrent use; SnapshotLayer guards its copy
// with a mutex.
type PageVersions struct {
	tree *btree.BTreeG[PageVersionEntry]
}

// NewPageVersions returns an empty history.
func NewPageVersions() *PageVersions {
	return &PageVersions{tree: btree.NewG(btreeDegree, pageVersionEntryLess)}
}

// Put records a page version. Putting twice at the same (blkno, lsn) replaces
// the earlier entry; the store does not re-validate uniqueness.
func (h *PageVersions) Put(blkno uint32, lsn Lsn, pv PageVersion) {
	h.tree.ReplaceOrInsert(PageVersionEntry{BlkNo: blkno, Lsn: lsn, PageVersion: pv})
}

// Len returns the number of entries.
func (h *PageVersions) Len() int {
	return h.tree.Len()
}

// Ascend visits every entry in ascending key order until fn returns false.
func (h *PageVersions) Ascend(fn func(PageVersionEntry) bool) {
	h.tree.Ascend(fn)
}

// DescendLessOrEqual visits the entries for blkno with LSN <= lsn, newest
// first, until fn returns false. Entries of other blocks are never visited.
func (h *PageVersions) DescendLessOrEqual(blkno uint32, lsn Lsn, fn func(PageVersionEntry) bool) {
	h.tree.DescendLessOrEqual(PageVersionEntry{BlkNo: blkno, Lsn: lsn}, func(e PageVersionEntry) bool {
		if e.BlkNo != blkno {
			return false
		}
		return fn(e)
	})
}

// RelSizeEntry is one entry of a RelSizes history: the relation's page count
// effective from Lsn onward, until superseded by a later entry.
type RelSizeEntry struct {
	Lsn  Lsn
	Size uint32
}

func relSizeEntryLess(a, b RelSizeEntry) bool {
	return a.Lsn < b.Lsn
}

// RelSizes is an ordered mapping from LSN to relation page count. Absence of
// any entry at or before an LSN means the relation did not yet exist there.
//
// RelSizes is not safe for concurrent use; SnapshotLayer guards its copy with
// a mutex.
type RelSizes struct {
	tree *btree.BTreeG[RelSizeEntry]
}

// NewRelSizes returns an empty history.
func NewRelSizes() *RelSizes {
	return &RelSizes{tree: btree.NewG(btreeDegree, relSizeEntryLess)}
}

// Put records the relation size effective from lsn onward.
func (h *RelSizes) Put(lsn Lsn, size uint32) {
	h.tree.ReplaceOrInsert(RelSizeEntry{Lsn: lsn, Size: size})
}

// Len returns the number of entries.
func (h *RelSizes) Len() int {
	return h.tree.Len()
}

// Ascend visits every entry in ascending LSN order until fn returns false.
func (h *RelSizes) Ascend(fn func(RelSizeEntry) bool) {
	h.tree.Ascend(fn)
}

// LatestAtOrBefore returns the entry with the greatest LSN <= lsn.
func (h *RelSizes) LatestAtOrBefore(lsn Lsn) (RelSizeEntry, bool) {
	var res RelSizeEntry
	found := false
	h.tree.DescendLessOrEqual(RelSizeEntry{Lsn: lsn}, func(e RelSizeEntry) bool {
		res, found = e, true
		return false
	})
	return res, found
}
