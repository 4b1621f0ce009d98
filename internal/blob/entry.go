package blob

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/quay/rpmverify/internal/rpmtag"
)

// EntrySize is the on-wire size of one index entry: four 32-bit big-endian
// integers.
const EntrySize = 16

// EntryInfo is one decoded index entry.
type EntryInfo struct {
	Tag    rpmtag.Tag
	Type   rpmtag.Kind
	Offset int32
	Count  int32
}

func (e EntryInfo) String() string {
	return fmt.Sprintf("tag %v type %v offset %d count %d", e.Tag, e.Type, e.Offset, e.Count)
}

// unmarshal decodes one 16-byte, big-endian index entry.
func (e *EntryInfo) unmarshal(b []byte) error {
	if len(b) < EntrySize {
		return io.ErrShortBuffer
	}
	e.Tag = rpmtag.Tag(int32(binary.BigEndian.Uint32(b[0:4])))
	e.Type = rpmtag.Kind(binary.BigEndian.Uint32(b[4:8]))
	e.Offset = int32(binary.BigEndian.Uint32(b[8:12]))
	e.Count = int32(binary.BigEndian.Uint32(b[12:16]))
	return nil
}
