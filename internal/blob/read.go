package blob

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/quay/rpmverify/internal/rpmtag"
)

// ReadFrom reads one framed blob from r: the 8-byte magic, the two 32-bit
// length words, then exactly `16·il + dl` more bytes, and validates the
// result via [New]. It never reads past the blob's own declared length, so
// a caller can keep reading from r afterward (e.g. the signature header's
// padding, or the metadata header that follows it).
func ReadFrom(r io.Reader, regionTag rpmtag.Tag, exactSize bool) (*Blob, error) {
	var pre [16]byte
	if _, err := io.ReadFull(r, pre[:]); err != nil {
		return nil, fmt.Errorf("blob: read preamble: %w", err)
	}

	il := int64(int32(binary.BigEndian.Uint32(pre[8:12])))
	dl := int64(int32(binary.BigEndian.Uint32(pre[12:16])))
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

	buf := make([]byte, pvlen)
	copy(buf, pre[:])
	if _, err := io.ReadFull(r, buf[16:]); err != nil {
		return nil, fmt.Errorf("blob: read index+data (%d bytes): %w", pvlen-16, err)
	}
	return New(buf, regionTag, exactSize)
}
