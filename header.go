package rpmverify

import (
	"fmt"

	"github.com/quay/rpmverify/internal/blob"
	"github.com/quay/rpmverify/internal/rpmtag"
)

// tagValue is one decoded, owned header entry: the wire type plus the
// already-converted Go value ([blob.Blob.ReadData]'s result).
type tagValue struct {
	Type  rpmtag.Kind
	Count int32
	Value interface{}
}

// Header is the owned, post-import representation of a metadata header
// (spec §2: "the metadata Header is produced from a validated blob by
// header_import ... No entity retains references into the original byte
// buffer after import"). Every entry is decoded into a Go value at import
// time, so a Header never holds a reference to the []byte a [blob.Blob]
// was built from.
type Header struct {
	tags   map[rpmtag.Tag]tagValue
	region rpmtag.Tag

	// immutable is the self-contained re-serialization of the immutable
	// region, produced at import time whenever the region covers the whole
	// blob (ril == il and rdl == dl, as in every exact_size blob); it is fed
	// to the package-level digest in place of re-running header_get. Empty
	// when entries follow the region.
	immutable []byte
}

// importHeader implements header_import: it decodes every entry in a
// validated blob into an owned [Header], after which the blob's backing
// buffer may be discarded.
func importHeader(b *blob.Blob) (*Header, error) {
	entries, err := b.Entries()
	if err != nil {
		return nil, fmt.Errorf("rpmverify: header import: %w", err)
	}
	h := &Header{
		tags:   make(map[rpmtag.Tag]tagValue, len(entries)),
		region: b.RegionTag(),
	}
	for _, e := range entries {
		v, err := b.ReadData(e)
		if err != nil {
			return nil, fmt.Errorf("rpmverify: header import: tag %v: %w", e.Tag, err)
		}
		h.tags[e.Tag] = tagValue{Type: e.Type, Count: e.Count, Value: v}
	}
	ril, rdl := b.RegionLen()
	if ril == b.TagCount() && rdl == b.DataLen() {
		h.immutable = b.Bytes()
	}
	return h, nil
}

// Has reports whether tag is present in the header.
func (h *Header) Has(tag rpmtag.Tag) bool {
	_, ok := h.tags[tag]
	return ok
}

// Get returns tag's decoded value and whether it was present.
func (h *Header) Get(tag rpmtag.Tag) (interface{}, bool) {
	v, ok := h.tags[tag]
	if !ok {
		return nil, false
	}
	return v.Value, true
}

// set installs tag unconditionally; used by header_import's own decode
// loop and by legacy retrofit, which is specified to overwrite. Callers
// implementing the signature-header merge (which must never overwrite)
// use insertIfAbsent instead.
func (h *Header) set(tag rpmtag.Tag, typ rpmtag.Kind, count int32, value interface{}) {
	h.tags[tag] = tagValue{Type: typ, Count: count, Value: value}
}

// insertIfAbsent installs tag only if it is not already present, and
// reports whether the insert happened. This is the merge step's "never
// overwrite" rule (spec §9 step 9, invariant 6).
func (h *Header) insertIfAbsent(tag rpmtag.Tag, typ rpmtag.Kind, count int32, value interface{}) bool {
	if h.Has(tag) {
		return false
	}
	h.set(tag, typ, count, value)
	return true
}

// ImmutableBlob returns the self-contained byte serialization of the
// header's immutable region — what spec §4.6 step 7 calls header_get's
// result — or nil if the blob this Header was imported from had entries
// after its region.
func (h *Header) ImmutableBlob() []byte { return h.immutable }
