// Copyright 2021 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pagestore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakeFilename(t *testing.T) {
	tag := RelTag{SpcNode: 1663, DbNode: 13990, RelNode: 2609, ForkNum: 0}
	name := MakeFilename(tag, 0x169C348, 0x169C349)
	require.Equal(t, "1663_13990_2609_0_000000000169C348_000000000169C349", name)
	require.Equal(t, name+"_relsizes", MakeRelSizesFilename(tag, 0x169C348, 0x169C349))
}

func TestParseFilenameRoundTrip(t *testing.T) {
	cases := []struct {
		tag        RelTag
		start, end Lsn
	}{
		{RelTag{SpcNode: 1663, DbNode: 13990, RelNode: 2609, ForkNum: 0}, 0x169C348, 0x169C349},
		{RelTag{}, 0, 0},
		{RelTag{SpcNode: 1, DbNode: 2, RelNode: 3, ForkNum: 255}, 0, MaxLsn},
		{RelTag{SpcNode: 4294967295, DbNode: 4294967295, RelNode: 4294967295, ForkNum: 3}, 1, 2},
	}
	for _, c := range cases {
		name := MakeFilename(c.tag, c.start, c.end)
		tag, start, end, ok := ParseFilename(name)
		require.True(t, ok, "name %q", name)
		require.Equal(t, c.tag, tag)
		require.Equal(t, c.start, start)
		require.Equal(t, c.end, end)
	}
}

func TestParseFilenameRejectsGarbage(t *testing.T) {
	valid := MakeFilename(RelTag{SpcNode: 1, DbNode: 2, RelNode: 3, ForkNum: 0}, 10, 20)
	for _, name := range []string{
		"",
		"LOCK",
		"foo.sst",
		"1_2_3",
		"1_2_3_4",
		"1_2_3_4_0000000000000001",
		valid + "_relsizes", // companion files must not double-count
		valid + "_extra",
		"x_2_3_4_0000000000000001_0000000000000002",
		"1_y_3_4_0000000000000001_0000000000000002",
		"1_2_z_4_0000000000000001_0000000000000002",
		"1_2_3_q_0000000000000001_0000000000000002",
		"1_2_3_256_0000000000000001_0000000000000002", // fork number overflows uint8
		"1_2_3_4_1_0000000000000002",                  // LSN not fixed width
		"1_2_3_4_0000000000000001_2",
		"-1_2_3_4_0000000000000001_0000000000000002",
	} {
		_, _, _, ok := ParseFilename(name)
		require.False(t, ok, "name %q", name)
	}
}
