// Package blob parses and bounds-checks the framed, tag/type/offset/count
// header blob shared by RPM signature headers and metadata headers: C2
// (Blob construction), C3 (region validator), and C4 (index verifier).
//
// Every byte a validated [Blob] exposes through an [EntryInfo] is proven to
// lie within the blob before the caller ever sees it; nothing here trusts
// the input.
package blob

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/quay/rpmverify/internal/rpmtag"
)

// Magic is the 8-byte header sentinel every blob must open with.
var Magic = [8]byte{0x8e, 0xad, 0xe8, 0x01, 0x00, 0x00, 0x00, 0x00}

// Errors returned by [New]. ErrNotFound is the one recoverable signal: it
// means "this isn't a blob opening with the requested region", which a
// caller may treat as absence rather than corruption.
var (
	ErrBadMagic    = errors.New("blob: bad magic")
	ErrBadTagCount = errors.New("blob: tag count out of range")
	ErrBadDataLen  = errors.New("blob: data length out of range")
	ErrBadBlobSize = errors.New("blob: size does not match declared il/dl")
	ErrNotFound    = errors.New("blob: region tag not present")
	ErrNoTags      = errors.New("blob: region: no tags")
)

// Blob is a parsed, bounds-checked view over a header's raw bytes.
//
// Entries may be read after construction but the Blob never mutates them.
// Once [Header] import is done with a Blob, nothing should retain it: the
// owning Header copies out what it needs via [Blob.Bytes] and [Blob.ReadData].
type Blob struct {
	pe   []byte // il*EntrySize bytes, big-endian encoded entries
	data []byte // dl bytes

	infos []EntryInfo // every entry, decoded once by New

	il, dl    int64
	pvlen     int64
	regionTag rpmtag.Tag
	exactSize bool
	ril, rdl  int64
}

// New parses buf as a header blob expected to open with region tag
// regionTag, and fully validates it (region trailer plus every index
// entry). exactSize requests the package-file invariant that the region
// covers the entire blob (spec invariant 5); false permits trailing entries
// after the region, as the signature header allows.
func New(buf []byte, regionTag rpmtag.Tag, exactSize bool) (*Blob, error) {
	if len(buf) < 16 {
		return nil, fmt.Errorf("blob: %w: buffer too short for preamble", ErrBadBlobSize)
	}
	if !bytes.Equal(buf[0:8], Magic[:]) {
		return nil, ErrBadMagic
	}
	il := int64(binary.BigEndian.Uint32(buf[8:12]))
	dl := int64(binary.BigEndian.Uint32(buf[12:16]))
	if CheckTags(il) {
		return nil, fmt.Errorf("blob: %w: il=%d", ErrBadTagCount, il)
	}
	if CheckData(dl) {
		return nil, fmt.Errorf("blob: %w: dl=%d", ErrBadDataLen, dl)
	}

	pvlen := 16 + EntrySize*il + dl
	if pvlen >= SizeMax {
		return nil, fmt.Errorf("blob: %w: pvlen=%d exceeds SizeMax", ErrBadBlobSize, pvlen)
	}
	if int64(len(buf)) != pvlen {
		return nil, fmt.Errorf("blob: %w: pvlen=%d buffer=%d", ErrBadBlobSize, pvlen, len(buf))
	}

	b := &Blob{
		pe:        buf[16 : 16+EntrySize*il],
		data:      buf[16+EntrySize*il : pvlen],
		infos:     make([]EntryInfo, il),
		il:        il,
		dl:        dl,
		pvlen:     pvlen,
		regionTag: regionTag,
		exactSize: exactSize,
	}
	for i := range b.infos {
		if err := b.infos[i].unmarshal(b.pe[i*EntrySize:]); err != nil {
			return nil, fmt.Errorf("blob: entry %d: %w", i, err)
		}
	}

	if err := b.verifyRegion(); err != nil {
		return nil, err
	}
	if err := b.verifyInfo(); err != nil {
		return nil, err
	}
	return b, nil
}

// entry returns the i'th decoded index entry.
func (b *Blob) entry(i int64) (EntryInfo, error) {
	if i < 0 || i >= b.il {
		return EntryInfo{}, fmt.Errorf("blob: entry index %d out of range [0,%d)", i, b.il)
	}
	return b.infos[i], nil
}

// TagCount is il, the number of index entries.
func (b *Blob) TagCount() int64 { return b.il }

// DataLen is dl, the data-area byte length.
func (b *Blob) DataLen() int64 { return b.dl }

// RegionLen returns ril and rdl, the index and data lengths of the
// immutable/signable prefix.
func (b *Blob) RegionLen() (ril, rdl int64) { return b.ril, b.rdl }

// RegionTag is the tag this Blob opened with (HeaderImmutable or
// HeaderSignatures).
func (b *Blob) RegionTag() rpmtag.Tag { return b.regionTag }

// Entries returns every decoded index entry, in on-disk order.
func (b *Blob) Entries() ([]EntryInfo, error) {
	out := make([]EntryInfo, b.il)
	for i := range out {
		e, err := b.entry(int64(i))
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// Entry returns the i'th decoded index entry.
func (b *Blob) Entry(i int) (EntryInfo, error) { return b.entry(int64(i)) }

// RawPreamble returns the 8-byte magic, ril, and rdl packed the way the
// header-only and package-level digests consume them: magic, then two
// 32-bit big-endian words.
func (b *Blob) RawPreamble() []byte {
	out := make([]byte, 16)
	copy(out, Magic[:])
	binary.BigEndian.PutUint32(out[8:], uint32(b.ril))
	binary.BigEndian.PutUint32(out[12:], uint32(b.rdl))
	return out
}

// RegionIndexBytes returns the first ril entries' raw, still-big-endian
// bytes, verbatim as they appear on the wire.
func (b *Blob) RegionIndexBytes() []byte {
	return b.pe[:EntrySize*b.ril]
}

// RegionDataBytes returns the first rdl bytes of the data area.
func (b *Blob) RegionDataBytes() []byte {
	return b.data[:b.rdl]
}

// Bytes reconstructs the full blob (preamble + index + data) as originally
// passed to New. The root package's header import keeps this as the
// header's immutable-region serialization.
func (b *Blob) Bytes() []byte {
	out := make([]byte, 0, b.pvlen)
	out = append(out, Magic[:]...)
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[0:], uint32(b.il))
	binary.BigEndian.PutUint32(hdr[4:], uint32(b.dl))
	out = append(out, hdr[:]...)
	out = append(out, b.pe...)
	out = append(out, b.data...)
	return out
}

// ReadData decodes the value addressed by e.
//
// TypeString returns a string; every other declared Kind but TypeNull
// returns a typed slice (even scalar integers), and callers that need a
// single scalar index element 0. TypeNull is reported as an error.
func (b *Blob) ReadData(e EntryInfo) (interface{}, error) {
	switch e.Type {
	case rpmtag.TypeBin:
		off, n := int64(e.Offset), int64(e.Count)
		if off < 0 || n < 0 || off+n > int64(len(b.data)) {
			return nil, fmt.Errorf("blob: bin read out of range")
		}
		out := make([]byte, n)
		copy(out, b.data[off:off+n])
		return out, nil
	case rpmtag.TypeI18nString, rpmtag.TypeStringArray:
		sc := bufio.NewScanner(bytes.NewReader(b.data[e.Offset:]))
		sc.Split(splitCString)
		s := make([]string, e.Count)
		for i := 0; i < int(e.Count) && sc.Scan(); i++ {
			s[i] = sc.Text()
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("blob: string array: %w", err)
		}
		return s, nil
	case rpmtag.TypeString:
		rest := b.data[e.Offset:]
		i := bytes.IndexByte(rest, 0)
		if i < 0 {
			return nil, fmt.Errorf("blob: unterminated string at offset %d", e.Offset)
		}
		return string(rest[:i]), nil
	case rpmtag.TypeInt64:
		r := make([]uint64, e.Count)
		base := b.data[e.Offset:]
		for i := range r {
			r[i] = binary.BigEndian.Uint64(base[i*8:])
		}
		return r, nil
	case rpmtag.TypeInt32:
		r := make([]int32, e.Count)
		base := b.data[e.Offset:]
		for i := range r {
			r[i] = int32(binary.BigEndian.Uint32(base[i*4:]))
		}
		return r, nil
	case rpmtag.TypeInt16:
		r := make([]int16, e.Count)
		base := b.data[e.Offset:]
		for i := range r {
			r[i] = int16(binary.BigEndian.Uint16(base[i*2:]))
		}
		return r, nil
	case rpmtag.TypeInt8:
		r := make([]int8, e.Count)
		base := b.data[e.Offset:]
		for i := range r {
			r[i] = int8(base[i])
		}
		return r, nil
	case rpmtag.TypeChar:
		r := make([]byte, e.Count)
		copy(r, b.data[e.Offset:])
		return r, nil
	default:
		return nil, fmt.Errorf("blob: unknown type: %v", e.Type)
	}
}

// splitCString is a [bufio.SplitFunc] that splits at NUL.
func splitCString(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, 0); i >= 0 {
		return i + 1, data[0:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
