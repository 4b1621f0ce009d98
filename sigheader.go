package rpmverify

import (
	"fmt"
	"io"

	"github.com/quay/rpmverify/internal/blob"
	"github.com/quay/rpmverify/internal/rpmtag"
)

// readSignatureHeader reads the signature-header blob that follows the
// lead in a package file, then consumes and discards the padding rpm
// inserts to realign the following metadata header on an 8-byte boundary
// (spec §4.3, §9: "padded to an 8-byte boundary ... consumed by the
// signature-header reader, not the core").
//
// The signature header never requires exact_size: trailing tags
// (SHA1HEADER, RSAHEADER, ...) live outside its immutable region by
// design (spec §4.5's precondition, il > ril).
func readSignatureHeader(r io.Reader) (*blob.Blob, error) {
	b, err := blob.ReadFrom(r, rpmtag.TagHeaderSignatures, false)
	if err != nil {
		return nil, fmt.Errorf("rpmverify: signature header: %w", err)
	}
	if pad := sigHeaderPadding(b.DataLen()); pad > 0 {
		if _, err := io.CopyN(io.Discard, r, pad); err != nil {
			return nil, fmt.Errorf("rpmverify: signature header: padding: %w", err)
		}
	}
	return b, nil
}

// sigHeaderPadding is the number of bytes needed after a signature
// header's data area (length dl) to reach the next 8-byte boundary.
func sigHeaderPadding(dl int64) int64 {
	return (8 - dl%8) % 8
}
