package blob

import (
	"bytes"
	"fmt"

	"github.com/quay/rpmverify/internal/rpmtag"
)

// verifyInfo validates every entry in pe (component C4, spec §4.4): type is
// declared, offsets are monotonically non-decreasing and aligned, each
// entry's payload lies within dl (or rdl, inside the region), and any
// string-shaped payload is NUL-terminated within the data area.
//
// A validated Blob can subsequently be indexed element-by-element with no
// further bounds checks: this is the only place those checks happen.
func (b *Blob) verifyInfo() error {
	var prev int32
	for i := 1; i < len(b.infos); i++ {
		e := b.infos[i]
		limit := b.dl
		if int64(i) < b.ril {
			limit = b.rdl
		}

		switch {
		case prev > e.Offset:
			return fmt.Errorf("blob: botched entry %d: prev offset %d > offset %d", i, prev, e.Offset)
		case e.Tag < rpmtag.TagHeaderI18nTable:
			return fmt.Errorf("blob: botched entry %d: bad tag %v (< %v)", i, e.Tag, rpmtag.TagHeaderI18nTable)
		case !e.Type.Valid():
			return fmt.Errorf("blob: botched entry %d: bad type %v", i, e.Type)
		case e.Count <= 0:
			return fmt.Errorf("blob: botched entry %d: bad count %d", i, e.Count)
		case e.Offset < 0 || int64(e.Offset) > limit:
			return fmt.Errorf("blob: botched entry %d: bad offset %d", i, e.Offset)
		case (e.Type.Alignment()-1)&e.Offset != 0:
			return fmt.Errorf("blob: botched entry %d: weird alignment: type alignment %d offset %d", i, e.Type.Alignment(), e.Offset)
		}

		if err := b.checkPayload(e, limit); err != nil {
			return fmt.Errorf("blob: botched entry %d: %w", i, err)
		}

		if b.regionTag == rpmtag.TagHeaderImmutable && !rpmtag.CheckType(e.Tag, e.Type) {
			return fmt.Errorf("blob: botched entry %d: typecheck fail: %v is not %v", i, e.Tag, e.Type)
		}

		prev = e.Offset
	}
	return nil
}

// checkPayload proves e's payload (offset, count*elemsize, or the
// terminated-string length) lies within [0, limit) of the data area.
func (b *Blob) checkPayload(e EntryInfo, limit int64) error {
	switch e.Type {
	case rpmtag.TypeString, rpmtag.TypeStringArray, rpmtag.TypeI18nString:
		if e.Type == rpmtag.TypeString && e.Count != 1 {
			return fmt.Errorf("STRING entry with count %d != 1", e.Count)
		}
		rest := b.data[e.Offset:limit]
		n := 0
		for remain := rest; int32(n) < e.Count; n++ {
			i := bytes.IndexByte(remain, 0)
			if i < 0 {
				return fmt.Errorf("string payload not NUL-terminated within data area")
			}
			remain = remain[i+1:]
		}
		return nil
	default:
		sz := e.Type.ElemSize()
		if sz < 0 {
			return fmt.Errorf("unsized type %v", e.Type)
		}
		need := int64(sz) * int64(e.Count)
		if need < 0 || int64(e.Offset)+need > limit {
			return fmt.Errorf("payload [%d,%d) exceeds data bound %d", e.Offset, int64(e.Offset)+need, limit)
		}
		return nil
	}
}
