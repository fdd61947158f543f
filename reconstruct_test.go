// Copyright 2021 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pagestore

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/stretchr/testify/require"
)

// TestReconstruct runs the page reconstruction algorithm against
// testdata/reconstruct. The "define" command builds and persists a layer
// covering [0, 100); "get" materializes a page and reports either the stored
// image, the zero-page fallback, or exactly what was handed to the redo
// executor. Payloads are ASCII strings.
func TestReconstruct(t *testing.T) {
	opts := newTestOptions()
	var layer *SnapshotLayer

	datadriven.RunTest(t, "testdata/reconstruct", func(t *testing.T, td *datadriven.TestData) string {
		switch td.Cmd {
		case "define":
			pv := NewPageVersions()
			for _, line := range strings.Split(td.Input, "\n") {
				fields := strings.Fields(line)
				if len(fields) == 0 {
					continue
				}
				require.GreaterOrEqual(t, len(fields), 4, "line %q", line)
				blkno, err := strconv.ParseUint(fields[1], 10, 32)
				require.NoError(t, err)
				lsn, err := strconv.ParseUint(fields[2], 10, 64)
				require.NoError(t, err)
				switch fields[0] {
				case "image":
					pv.Put(uint32(blkno), Lsn(lsn), image(fields[3]))
				case "record":
					willInit := len(fields) > 4 && fields[4] == "will_init"
					pv.Put(uint32(blkno), Lsn(lsn), record(fields[3], willInit))
				default:
					t.Fatalf("unknown entry kind %q", fields[0])
				}
			}
			var err error
			layer, err = Create(opts, testTimelineID, testRelTag, 0, 100, pv, nil)
			if err != nil {
				return err.Error()
			}
			return "ok"

		case "get":
			var blkno, lsn int
			td.ScanArgs(t, "blkno", &blkno)
			td.ScanArgs(t, "lsn", &lsn)
			m := &testRedoManager{result: []byte("redone")}
			img, err := layer.GetPageAtLsn(m, uint32(blkno), Lsn(lsn))
			if err != nil {
				return fmt.Sprintf("error: %v", err)
			}
			if len(m.calls) > 0 {
				c := m.calls[0]
				baseImage := "<nil>"
				if c.baseImage != nil {
					baseImage = string(c.baseImage)
				}
				return fmt.Sprintf("redo: base=%s records=[%s] lsn=%d",
					baseImage, strings.Join(recPayloads(c.records), " "), uint64(c.lsn))
			}
			if bytes.Equal(img, make([]byte, opts.PageSize)) {
				return fmt.Sprintf("zero page (%d bytes)", len(img))
			}
			return fmt.Sprintf("image: %s", img)

		default:
			t.Fatalf("unknown command %q", td.Cmd)
			return ""
		}
	})
}
