// Copyright 2021 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pagestore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/pagestore/internal/base"
)

// RelSizesSuffix is appended to a layer's base file name to form the name of
// its relation-size companion file.
const RelSizesSuffix = "_relsizes"

// MakeFilename builds the name of a layer's page-version file from its
// identity: six underscore-separated fields, the tag components in decimal
// and the LSN bounds as fixed-width uppercase hex.
func MakeFilename(tag RelTag, startLsn, endLsn Lsn) string {
	return fmt.Sprintf("%d_%d_%d_%d_%s_%s",
		tag.SpcNode, tag.DbNode, tag.RelNode, tag.ForkNum, startLsn.Hex(), endLsn.Hex())
}

// MakeRelSizesFilename builds the name of a layer's relation-size companion
// file.
func MakeRelSizesFilename(tag RelTag, startLsn, endLsn Lsn) string {
	return MakeFilename(tag, startLsn, endLsn) + RelSizesSuffix
}

// ParseFilename parses the identity components from a layer file name. It
// returns ok=false for any name that is not a well-formed page-version file
// name, including relation-size companion files and unrelated directory
// entries; a timeline directory is not exclusively owned by layer files, so
// an undecodable name means "ignore", never an error.
func ParseFilename(filename string) (tag RelTag, startLsn, endLsn Lsn, ok bool) {
	parts := strings.Split(filename, "_")
	if len(parts) != 6 {
		return RelTag{}, 0, 0, false
	}
	spc, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return RelTag{}, 0, 0, false
	}
	db, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return RelTag{}, 0, 0, false
	}
	rel, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		return RelTag{}, 0, 0, false
	}
	fork, err := strconv.ParseUint(parts[3], 10, 8)
	if err != nil {
		return RelTag{}, 0, 0, false
	}
	startLsn, ok = base.ParseLsnHex(parts[4])
	if !ok {
		return RelTag{}, 0, 0, false
	}
	endLsn, ok = base.ParseLsnHex(parts[5])
	if !ok {
		return RelTag{}, 0, 0, false
	}
	tag = RelTag{
		SpcNode: uint32(spc),
		DbNode:  uint32(db),
		RelNode: uint32(rel),
		ForkNum: uint8(fork),
	}
	return tag, startLsn, endLsn, true
}
