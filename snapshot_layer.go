// Copyright 2021 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pagestore

import (
	"io"
	"slices"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pagestore/internal/base"
	"github.com/cockroachdb/pagestore/internal/histenc"
	"github.com/cockroachdb/pebble/vfs"
	"golang.org/x/sync/errgroup"
)

// SnapshotLayer is the in-memory form of one on-disk snapshot layer: all page
// versions and the relation-size history of one relation for the half-open
// LSN range [StartLsn, EndLsn). It is immutable after construction; the two
// histories are guarded by independent mutexes only so that concurrent
// readers can scan them safely, and a size query never blocks behind a
// page-version scan.
type SnapshotLayer struct {
	opts       *Options
	timelineID TimelineID
	tag        RelTag
	startLsn   Lsn
	endLsn     Lsn

	pageVersions struct {
		sync.Mutex
		h *base.PageVersions
	}
	relSizes struct {
		sync.Mutex
		h *base.RelSizes
	}
}

var _ Layer = (*SnapshotLayer)(nil)

func newSnapshotLayer(
	opts *Options,
	timelineID TimelineID,
	tag RelTag,
	startLsn, endLsn Lsn,
	pageVersions *base.PageVersions,
	relSizes *base.RelSizes,
) *SnapshotLayer {
	if pageVersions == nil {
		pageVersions = base.NewPageVersions()
	}
	if relSizes == nil {
		relSizes = base.NewRelSizes()
	}
	l := &SnapshotLayer{
		opts:       opts,
		timelineID: timelineID,
		tag:        tag,
		startLsn:   startLsn,
		endLsn:     endLsn,
	}
	l.pageVersions.h = pageVersions
	l.relSizes.h = relSizes
	return l
}

// Create builds a snapshot layer from two finished histories and immediately
// persists both of its files. This is the hand-off point at which an open
// layer's accumulated state is frozen to disk; Create takes ownership of the
// histories. An existing layer with the same identity is silently
// overwritten; callers are responsible for not re-creating an existing range.
func Create(
	opts *Options,
	timelineID TimelineID,
	tag RelTag,
	startLsn, endLsn Lsn,
	pageVersions *base.PageVersions,
	relSizes *base.RelSizes,
) (*SnapshotLayer, error) {
	opts = opts.EnsureDefaults()
	l := newSnapshotLayer(opts, timelineID, tag, startLsn, endLsn, pageVersions, relSizes)
	if err := l.save(); err != nil {
		return nil, err
	}
	opts.Metrics.LayerWrites.Inc()
	return l, nil
}

// Load finds the snapshot layer best covering lsn for the given relation and
// reads it back into memory. It returns an ErrNotFound-marked error if no
// layer on disk covers lsn, and a corruption-marked error if the layer's
// files exist but do not decode.
func Load(opts *Options, timelineID TimelineID, tag RelTag, lsn Lsn) (*SnapshotLayer, error) {
	opts = opts.EnsureDefaults()
	startLsn, endLsn, ok, err := FindLatestSnapshot(opts, timelineID, tag, lsn)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(base.ErrNotFound,
			"pagestore: no snapshot layer covers rel %s at %s/%s", tag, timelineID, lsn)
	}
	return loadPath(opts, timelineID, tag, startLsn, endLsn)
}

func loadPath(
	opts *Options, timelineID TimelineID, tag RelTag, startLsn, endLsn Lsn,
) (*SnapshotLayer, error) {
	path := snapshotPath(opts, timelineID, tag, startLsn, endLsn)

	// The two files are independent; read and decode them concurrently. Both
	// must decode for the layer to be usable.
	var pageVersions *base.PageVersions
	var relSizes *base.RelSizes
	var g errgroup.Group
	g.Go(func() error {
		buf, err := readFile(opts.FS, path)
		if err != nil {
			return errors.Wrapf(err, "pagestore: reading snapshot file %s", path)
		}
		pageVersions, err = histenc.DecodePageVersions(buf)
		return errors.Wrapf(err, "pagestore: decoding snapshot file %s", path)
	})
	g.Go(func() error {
		buf, err := readFile(opts.FS, path+RelSizesSuffix)
		if err != nil {
			return errors.Wrapf(err, "pagestore: reading relsizes file %s", path+RelSizesSuffix)
		}
		relSizes, err = histenc.DecodeRelSizes(buf)
		return errors.Wrapf(err, "pagestore: decoding relsizes file %s", path+RelSizesSuffix)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	opts.Metrics.LayerLoads.Inc()
	return newSnapshotLayer(opts, timelineID, tag, startLsn, endLsn, pageVersions, relSizes), nil
}

// save serializes both histories to the layer's two files.
func (l *SnapshotLayer) save() error {
	path := l.path()
	if err := l.opts.FS.MkdirAll(l.opts.FS.PathDir(path), 0755); err != nil {
		return errors.Wrapf(err, "pagestore: creating timeline directory")
	}

	l.pageVersions.Lock()
	buf := histenc.EncodePageVersions(l.pageVersions.h)
	l.pageVersions.Unlock()
	if err := writeFile(l.opts.FS, path, buf); err != nil {
		return errors.Wrapf(err, "pagestore: writing snapshot file %s", path)
	}

	l.relSizes.Lock()
	buf = histenc.EncodeRelSizes(l.relSizes.h)
	l.relSizes.Unlock()
	if err := writeFile(l.opts.FS, path+RelSizesSuffix, buf); err != nil {
		return errors.Wrapf(err, "pagestore: writing relsizes file %s", path+RelSizesSuffix)
	}
	return nil
}

func (l *SnapshotLayer) path() string {
	return snapshotPath(l.opts, l.timelineID, l.tag, l.startLsn, l.endLsn)
}

func snapshotPath(
	opts *Options, timelineID TimelineID, tag RelTag, startLsn, endLsn Lsn,
) string {
	return opts.FS.PathJoin(opts.TimelinePath(timelineID), MakeFilename(tag, startLsn, endLsn))
}

// TimelineID implements Layer.
func (l *SnapshotLayer) TimelineID() TimelineID { return l.timelineID }

// Tag implements Layer.
func (l *SnapshotLayer) Tag() RelTag { return l.tag }

// StartLsn implements Layer.
func (l *SnapshotLayer) StartLsn() Lsn { return l.startLsn }

// EndLsn implements Layer.
func (l *SnapshotLayer) EndLsn() Lsn { return l.endLsn }

// IsFrozen implements Layer. A snapshot layer is always frozen.
func (l *SnapshotLayer) IsFrozen() bool { return true }

// GetPageAtLsn implements Layer. It scans the block's version history
// backward from lsn, collecting the minimal redo chain: WAL records back to
// the nearest full image, or to a record that initializes the page. The
// history lock is released before redo is requested, so reconstruction of one
// block does not serialize scans of others.
func (l *SnapshotLayer) GetPageAtLsn(redo RedoManager, blkno uint32, lsn Lsn) ([]byte, error) {
	var records []WALRecord
	var baseImage []byte
	haveBase := false
	needBase := true
	var corrupt error

	l.pageVersions.Lock()
	l.pageVersions.h.DescendLessOrEqual(blkno, lsn, func(e base.PageVersionEntry) bool {
		switch {
		case e.Image != nil:
			baseImage = e.Image
			haveBase = true
			needBase = false
			return false
		case e.Record != nil:
			records = append(records, *e.Record)
			if e.Record.WillInit {
				// The record initializes the page; nothing older matters.
				needBase = false
				return false
			}
			return true
		default:
			corrupt = base.CorruptionErrorf(
				"pagestore: no page image or WAL record for rel %s blk %d at %s/%s",
				l.tag, e.BlkNo, l.timelineID, e.Lsn)
			return false
		}
	})
	l.pageVersions.Unlock()

	if corrupt != nil {
		return nil, corrupt
	}

	// The scan collected records newest first; redo wants them oldest first.
	slices.Reverse(records)

	if len(records) == 0 {
		if haveBase {
			return slices.Clone(baseImage), nil
		}
		// No version of this block at all. This legitimately happens when the
		// relation was extended but the new page was never written.
		l.opts.Logger.Warnf("pagestore: page rel %s blk %d at %s/%s not found, returning zero page",
			l.tag, blkno, l.timelineID, lsn)
		l.opts.Metrics.ZeroPageFallbacks.Inc()
		return make([]byte, l.opts.PageSize), nil
	}

	if needBase {
		// A redo chain whose oldest record does not initialize the page and
		// that has no base image cannot be replayed correctly.
		err := base.CorruptionErrorf(
			"pagestore: no base image for rel %s blk %d at %s/%s, got %d WAL records",
			l.tag, blkno, l.timelineID, lsn, len(records))
		if l.opts.StrictReconstruction {
			return nil, err
		}
		l.opts.Logger.Warnf("%v; returning zero page", err)
		l.opts.Metrics.ZeroPageFallbacks.Inc()
		return make([]byte, l.opts.PageSize), nil
	}

	l.opts.Metrics.RedoRequests.Inc()
	return redo.RequestRedo(l.tag, blkno, lsn, baseImage, records)
}

// GetRelSize implements Layer.
func (l *SnapshotLayer) GetRelSize(lsn Lsn) (uint32, error) {
	l.relSizes.Lock()
	e, found := l.relSizes.h.LatestAtOrBefore(lsn)
	l.relSizes.Unlock()
	if !found {
		return 0, errors.Wrapf(base.ErrNotFound,
			"pagestore: no size known for rel %s at %s/%s", l.tag, l.timelineID, lsn)
	}
	return e.Size, nil
}

// GetRelExists implements Layer.
func (l *SnapshotLayer) GetRelExists(lsn Lsn) (bool, error) {
	l.relSizes.Lock()
	_, found := l.relSizes.h.LatestAtOrBefore(lsn)
	l.relSizes.Unlock()
	return found, nil
}

// PutPageVersion implements Layer. A snapshot layer is immutable; the only
// caller path that can reach this is an upstream layer-routing bug, so it
// aborts rather than returning an error that could be swallowed.
func (l *SnapshotLayer) PutPageVersion(blkno uint32, lsn Lsn, _ PageVersion) error {
	panic(errors.AssertionFailedf(
		"pagestore: cannot modify frozen snapshot layer, rel %s blk %d at %s/%s, range %s-%s",
		l.tag, blkno, l.timelineID, lsn, l.startLsn, l.endLsn))
}

// PutTruncation implements Layer. It always fails: a snapshot layer is
// immutable.
func (l *SnapshotLayer) PutTruncation(lsn Lsn, relSize uint32) error {
	return errors.Errorf("pagestore: cannot truncate frozen snapshot layer, rel %s at %s/%s",
		l.tag, l.timelineID, lsn)
}

// Freeze implements Layer. It always fails: a snapshot layer is already
// frozen.
func (l *SnapshotLayer) Freeze(endLsn Lsn) error {
	return errors.Errorf("pagestore: cannot freeze frozen snapshot layer, rel %s range %s-%s",
		l.tag, l.startLsn, l.endLsn)
}

func writeFile(fs vfs.FS, path string, data []byte) error {
	f, err := fs.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func readFile(fs vfs.FS, path string) ([]byte, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
