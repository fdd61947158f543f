// Copyright 2021 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package histenc implements the on-disk encoding of snapshot layer
// histories.
//
// Both history files share a common framing:
//
//	offset  0: magic (4 bytes, big-endian)
//	offset  4: format version (4 bytes, big-endian)
//	offset  8: xxhash64 of the compressed payload (8 bytes, big-endian)
//	offset 16: snappy-compressed payload
//
// The payload encodes the history entries in ascending key order with
// fixed-width big-endian integers and length-prefixed byte strings, so
// encoding is deterministic and decode(encode(h)) == h exactly. The checksum
// turns a truncated or partially written file into a corruption error at
// load time instead of silently missing data.
package histenc

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/pagestore/internal/base"
	"github.com/golang/snappy"
)

const (
	pageVersionsMagic = uint32(0x5A504756) // "ZPGV"
	relSizesMagic     = uint32(0x5A52535A) // "ZRSZ"

	formatVersion = 1
	headerLen     = 16
)

// Page version entry kinds.
const (
	kindImage  = 1
	kindRecord = 2
)

// EncodePageVersions serializes a page-version history.
func EncodePageVersions(h *base.PageVersions) []byte {
	buf := binary.BigEndian.AppendUint32(nil, uint32(h.Len()))
	h.Ascend(func(e base.PageVersionEntry) bool {
		buf = binary.BigEndian.AppendUint32(buf, e.BlkNo)
		buf = binary.BigEndian.AppendUint64(buf, uint64(e.Lsn))
		switch {
		case e.Image != nil:
			buf = append(buf, kindImage)
			buf = appendBytes(buf, e.Image)
		case e.Record != nil:
			buf = append(buf, kindRecord)
			if e.Record.WillInit {
				buf = append(buf, 1)
			} else {
				buf = append(buf, 0)
			}
			buf = appendBytes(buf, e.Record.Rec)
		default:
			// An entry with neither image nor record cannot be represented on
			// disk; encode it as an unknown kind so that a later load fails
			// loudly instead of fabricating a page version.
			buf = append(buf, 0)
		}
		return true
	})
	return frame(pageVersionsMagic, buf)
}

// DecodePageVersions deserializes a page-version history encoded by
// EncodePageVersions. Malformed input returns a corruption-marked error.
func DecodePageVersions(buf []byte) (*base.PageVersions, error) {
	payload, err := unframe(pageVersionsMagic, buf)
	if err != nil {
		return nil, err
	}
	r := &reader{buf: payload}
	n := r.u32()
	h := base.NewPageVersions()
	for i := uint32(0); i < n && r.err == nil; i++ {
		blkno := r.u32()
		lsn := base.Lsn(r.u64())
		var pv base.PageVersion
		switch kind := r.u8(); kind {
		case kindImage:
			pv.Image = r.bytes()
		case kindRecord:
			willInit := r.u8() != 0
			pv.Record = &base.WALRecord{WillInit: willInit, Rec: r.bytes()}
		default:
			return nil, base.CorruptionErrorf(
				"pagestore: unknown page version kind %d for blk %d at %s", kind, blkno, lsn)
		}
		h.Put(blkno, lsn, pv)
	}
	if err := r.finish(); err != nil {
		return nil, err
	}
	return h, nil
}

// EncodeRelSizes serializes a relation-size history.
func EncodeRelSizes(h *base.RelSizes) []byte {
	buf := binary.BigEndian.AppendUint32(nil, uint32(h.Len()))
	h.Ascend(func(e base.RelSizeEntry) bool {
		buf = binary.BigEndian.AppendUint64(buf, uint64(e.Lsn))
		buf = binary.BigEndian.AppendUint32(buf, e.Size)
		return true
	})
	return frame(relSizesMagic, buf)
}

// DecodeRelSizes deserializes a relation-size history encoded by
// EncodeRelSizes. Malformed input returns a corruption-marked error.
func DecodeRelSizes(buf []byte) (*base.RelSizes, error) {
	payload, err := unframe(relSizesMagic, buf)
	if err != nil {
		return nil, err
	}
	r := &reader{buf: payload}
	n := r.u32()
	h := base.NewRelSizes()
	for i := uint32(0); i < n && r.err == nil; i++ {
		lsn := base.Lsn(r.u64())
		h.Put(lsn, r.u32())
	}
	if err := r.finish(); err != nil {
		return nil, err
	}
	return h, nil
}

func frame(magic uint32, payload []byte) []byte {
	compressed := snappy.Encode(nil, payload)
	buf := make([]byte, 0, headerLen+len(compressed))
	buf = binary.BigEndian.AppendUint32(buf, magic)
	buf = binary.BigEndian.AppendUint32(buf, formatVersion)
	buf = binary.BigEndian.AppendUint64(buf, xxhash.Sum64(compressed))
	return append(buf, compressed...)
}

func unframe(magic uint32, buf []byte) ([]byte, error) {
	if len(buf) < headerLen {
		return nil, base.CorruptionErrorf("pagestore: history file truncated: %d bytes", len(buf))
	}
	if got := binary.BigEndian.Uint32(buf[0:4]); got != magic {
		return nil, base.CorruptionErrorf(
			"pagestore: bad history file magic %08X, expected %08X", got, magic)
	}
	if v := binary.BigEndian.Uint32(buf[4:8]); v != formatVersion {
		return nil, base.CorruptionErrorf("pagestore: unsupported history format version %d", v)
	}
	sum := binary.BigEndian.Uint64(buf[8:16])
	compressed := buf[headerLen:]
	if got := xxhash.Sum64(compressed); got != sum {
		return nil, base.CorruptionErrorf(
			"pagestore: history file checksum mismatch: %016X, expected %016X", got, sum)
	}
	payload, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, base.MarkCorruptionError(err)
	}
	return payload, nil
}

func appendBytes(buf, b []byte) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(b)))
	return append(buf, b...)
}

// reader decodes payload fields with a sticky error, so entry decoding can
// stay linear and report truncation once at the end.
type reader struct {
	buf []byte
	off int
	err error
}

func (r *reader) u8() byte {
	if r.err != nil || !r.ensure(1) {
		return 0
	}
	v := r.buf[r.off]
	r.off++
	return v
}

func (r *reader) u32() uint32 {
	if r.err != nil || !r.ensure(4) {
		return 0
	}
	v := binary.BigEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v
}

func (r *reader) u64() uint64 {
	if r.err != nil || !r.ensure(8) {
		return 0
	}
	v := binary.BigEndian.Uint64(r.buf[r.off:])
	r.off += 8
	return v
}

func (r *reader) bytes() []byte {
	n := r.u32()
	if r.err != nil || !r.ensure(int(n)) {
		return nil
	}
	v := make([]byte, n)
	copy(v, r.buf[r.off:])
	r.off += int(n)
	return v
}

func (r *reader) ensure(n int) bool {
	if r.off+n > len(r.buf) {
		r.err = base.CorruptionErrorf(
			"pagestore: history payload truncated at offset %d, need %d bytes", r.off, n)
		return false
	}
	return true
}

func (r *reader) finish() error {
	if r.err != nil {
		return r.err
	}
	if r.off != len(r.buf) {
		return base.CorruptionErrorf(
			"pagestore: %d trailing bytes after history payload", len(r.buf)-r.off)
	}
	return nil
}
