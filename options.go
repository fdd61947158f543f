// Copyright 2021 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pagestore

import (
	"github.com/cockroachdb/pagestore/internal/base"
	"github.com/cockroachdb/pebble/vfs"
)

// DefaultPageSize is the fixed page size used when Options.PageSize is zero.
const DefaultPageSize = 8192

// Options holds the parameters for snapshot layer storage.
type Options struct {
	// FS provides the interface for persistent file storage. The default is
	// the OS filesystem; tests substitute vfs.NewMem().
	FS vfs.FS

	// BaseDir is the root of the store. Layer files for a timeline live in
	// <BaseDir>/timelines/<timelineid>.
	BaseDir string

	// PageSize is the fixed size of a page image in bytes. The default is
	// DefaultPageSize.
	PageSize int

	// Logger is used for diagnostics, notably the warning emitted when a
	// reconstruction falls back to a zero page. The default logs to the Go
	// stdlib log.
	Logger base.Logger

	// Metrics collects operation counters. Unset, a private unregistered set
	// is used; callers that scrape should construct one with NewMetrics and
	// register it.
	Metrics *Metrics

	// StrictReconstruction fails page reconstruction with a corruption error
	// when a redo chain has no base image and its oldest record does not
	// initialize the page. When false, the historical behavior is kept: log
	// a warning and return a zero page.
	StrictReconstruction bool
}

// EnsureDefaults ensures that the default values for all options are set if a
// valid value was not already specified. Returns the updated options.
func (o *Options) EnsureDefaults() *Options {
	if o == nil {
		o = &Options{}
	}
	if o.FS == nil {
		o.FS = vfs.Default
	}
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.Logger == nil {
		o.Logger = base.DefaultLogger{}
	}
	if o.Metrics == nil {
		o.Metrics = NewMetrics()
	}
	return o
}

// TimelinePath returns the directory holding the layer files of a timeline.
func (o *Options) TimelinePath(timelineID TimelineID) string {
	return o.FS.PathJoin(o.BaseDir, "timelines", timelineID.String())
}
