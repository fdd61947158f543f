// Copyright 2021 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package pagestore implements the page-version storage layer of a
// compute/storage-separated database engine. For every page, identified by a
// relation tag and block number, it stores every historical version produced
// by WAL activity, and answers "what did this page look like at LSN X" by
// returning a stored image or by replaying WAL records against a base image.
//
// The unit of storage is the snapshot layer: an immutable container holding
// all page versions and relation-size history of one relation for one
// half-open LSN range [start, end). On disk a layer is two files in the
// timeline's directory, named after the relation tag and LSN range:
//
//	<spcnode>_<dbnode>_<relnode>_<forknum>_<start LSN>_<end LSN>
//	<spcnode>_<dbnode>_<relnode>_<forknum>_<start LSN>_<end LSN>_relsizes
//
// There is no manifest; the directory listing plus file-name parsing is the
// index. Layers for the same relation carry non-overlapping LSN ranges, so a
// read at LSN X is served by the layer with the largest start LSN <= X.
package pagestore

import (
	"github.com/cockroachdb/pagestore/internal/base"
)

// Lsn exports the base.Lsn type.
type Lsn = base.Lsn

// RelTag exports the base.RelTag type.
type RelTag = base.RelTag

// TimelineID exports the base.TimelineID type.
type TimelineID = base.TimelineID

// PageVersion exports the base.PageVersion type.
type PageVersion = base.PageVersion

// WALRecord exports the base.WALRecord type.
type WALRecord = base.WALRecord

// PageVersions exports the base.PageVersions type.
type PageVersions = base.PageVersions

// PageVersionEntry exports the base.PageVersionEntry type.
type PageVersionEntry = base.PageVersionEntry

// RelSizes exports the base.RelSizes type.
type RelSizes = base.RelSizes

// RelSizeEntry exports the base.RelSizeEntry type.
type RelSizeEntry = base.RelSizeEntry

// Logger exports the base.Logger type.
type Logger = base.Logger

// DefaultLogger exports the base.DefaultLogger type.
type DefaultLogger = base.DefaultLogger

// MaxLsn exports the base.MaxLsn sentinel.
const MaxLsn = base.MaxLsn

var (
	// ErrNotFound means that a lookup did not find a snapshot layer, or a
	// history entry, covering the requested LSN.
	ErrNotFound = base.ErrNotFound
	// ErrCorruption marks errors caused by corrupt layer files or histories.
	ErrCorruption = base.ErrCorruption
)

// NewPageVersions returns an empty page-version history.
func NewPageVersions() *PageVersions { return base.NewPageVersions() }

// NewRelSizes returns an empty relation-size history.
func NewRelSizes() *RelSizes { return base.NewRelSizes() }

// ParseTimelineID parses the 32-digit hex form of a timeline ID.
func ParseTimelineID(s string) (TimelineID, error) { return base.ParseTimelineID(s) }

// IsCorruptionError reports whether the error was produced by, or marked
// with, ErrCorruption.
func IsCorruptionError(err error) bool { return base.IsCorruptionError(err) }
