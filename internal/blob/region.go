package blob

import (
	"fmt"

	"github.com/quay/rpmverify/internal/rpmtag"
)

// regionTagCount is the fixed Count every region marker and its trailer
// must carry.
const regionTagCount = 16

// verifyRegion validates the blob's opening region-marker entry and its
// trailer (component C3, spec §4.3). A zero tag count has no entry 0 to
// check at all, so that case is rejected here first.
func (b *Blob) verifyRegion() error {
	if b.il == 0 {
		return ErrNoTags
	}
	region := b.infos[0]
	if region.Tag != b.regionTag {
		return fmt.Errorf("blob: region %v: %w", b.regionTag, ErrNotFound)
	}
	if region.Type != rpmtag.TypeBin || region.Count != regionTagCount {
		return fmt.Errorf("blob: region tag: bad type %v or count %d", region.Type, region.Count)
	}
	if region.Offset < 0 || int64(region.Offset)+EntrySize > b.dl {
		return fmt.Errorf("blob: region offset: bad offset %d", region.Offset)
	}

	var trailer EntryInfo
	if err := trailer.unmarshal(b.data[region.Offset:]); err != nil {
		return fmt.Errorf("blob: region trailer: %w", err)
	}
	rdl := int64(region.Offset) + EntrySize

	// Trailer offset is stored as the negative of the region's index-byte
	// length; librpm's documented fixup for signature headers whose
	// trailer was written out with the wrong tag.
	trailer.Offset = -trailer.Offset
	if region.Tag == rpmtag.TagHeaderSignatures && trailer.Tag == rpmtag.TagHeaderImage {
		trailer.Tag = rpmtag.TagHeaderSignatures
	}
	if trailer.Tag != region.Tag || trailer.Type != rpmtag.TypeRegionTag || trailer.Count != regionTagCount {
		return fmt.Errorf("blob: bad region trailer: %v", trailer)
	}

	if trailer.Offset%EntrySize != 0 {
		return fmt.Errorf("blob: region size incorrect: trailer offset %d not a multiple of %d", trailer.Offset, EntrySize)
	}
	ril := int64(trailer.Offset) / EntrySize
	if CheckRange(b.il, ril) || rdl > b.dl {
		return fmt.Errorf("blob: region %v size incorrect: ril %d il %d rdl %d dl %d",
			region.Tag, ril, b.il, rdl, b.dl)
	}

	if b.exactSize && (ril != b.il || rdl != b.dl) {
		return fmt.Errorf("blob: exact-size region required: ril %d il %d rdl %d dl %d",
			ril, b.il, rdl, b.dl)
	}

	b.ril, b.rdl = ril, rdl
	return nil
}
