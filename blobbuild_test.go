package rpmverify

import (
	"encoding/binary"

	"github.com/quay/rpmverify/internal/blob"
	"github.com/quay/rpmverify/internal/rpmtag"
)

// Shared fixture helpers for building raw header-blob buffers across this
// package's tests. Mirrors internal/blob's own test helpers, extended to
// support trailing entries with arbitrary data (what the root package's
// tests need: header-only sig tags, signature-header sigtags, and so on).

type fieldSpec struct {
	tag   rpmtag.Tag
	typ   rpmtag.Kind
	count int32
	data  []byte // raw bytes appended to the data area; offset is assigned automatically
}

func buildIndexEntry(b []byte, tag rpmtag.Tag, typ rpmtag.Kind, offset, count int32) []byte {
	var e [blob.EntrySize]byte
	binary.BigEndian.PutUint32(e[0:], uint32(tag))
	binary.BigEndian.PutUint32(e[4:], uint32(typ))
	binary.BigEndian.PutUint32(e[8:], uint32(offset))
	binary.BigEndian.PutUint32(e[12:], uint32(count))
	return append(b, e[:]...)
}

// buildRegionBlob builds a blob whose first entry is a region marker for
// region, followed by its trailer, followed by any extra fields (each
// appended both as an index entry and as data).
//
// If exact, the region's trailer is sized to cover every entry (ril==il,
// rdl==dl): the extra fields are part of the immutable region, as a
// package metadata header's tags are, and the trailer is the last 16
// bytes of the data area. If not exact, the trailer is the first 16 bytes
// of the data area and covers only the region marker itself (ril==1,
// rdl==16), and every extra field sits outside the region, as a signature
// header's trailing candidate tags (SHA1HEADER, RSAHEADER, ...) do.
func buildRegionBlob(region rpmtag.Tag, extra []fieldSpec, exact bool) []byte {
	il := int32(1 + len(extra))
	var data []byte
	if !exact {
		data = make([]byte, blob.EntrySize) // trailer occupies the first 16 bytes
	}

	offsets := make([]int32, len(extra))
	for i, f := range extra {
		offsets[i] = int32(len(data))
		data = append(data, f.data...)
	}

	regionOffset := int32(0)
	trailerOffset := int32(-16)
	if exact {
		regionOffset = int32(len(data)) // trailer occupies the last 16 bytes
		data = append(data, make([]byte, blob.EntrySize)...)
		trailerOffset = -16 * il
	}

	var idx []byte
	idx = buildIndexEntry(idx, region, rpmtag.TypeBin, regionOffset, 16)
	for i, f := range extra {
		idx = buildIndexEntry(idx, f.tag, f.typ, offsets[i], f.count)
	}

	dl := int32(len(data))

	var trailer [blob.EntrySize]byte
	binary.BigEndian.PutUint32(trailer[0:], uint32(region))
	binary.BigEndian.PutUint32(trailer[4:], uint32(rpmtag.TypeRegionTag))
	binary.BigEndian.PutUint32(trailer[8:], uint32(trailerOffset))
	binary.BigEndian.PutUint32(trailer[12:], 16)
	copy(data[regionOffset:regionOffset+16], trailer[:])

	var hdr [16]byte
	copy(hdr[0:8], blob.Magic[:])
	binary.BigEndian.PutUint32(hdr[8:], uint32(il))
	binary.BigEndian.PutUint32(hdr[12:], uint32(dl))

	buf := append([]byte{}, hdr[:]...)
	buf = append(buf, idx...)
	buf = append(buf, data...)
	return buf
}

// cstr returns s as a NUL-terminated byte slice, the wire form of a
// STRING/STRING_ARRAY field.
func cstr(s string) []byte { return append([]byte(s), 0) }
