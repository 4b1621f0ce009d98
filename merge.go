package rpmverify

import (
	"fmt"

	"github.com/quay/rpmverify/internal/blob"
	"github.com/quay/rpmverify/internal/rpmtag"
)

// sigTagRemap maps a legacy signature-header ("sigtag") tag number to its
// main-header-space counterpart, per spec §4.6 step 9.
var sigTagRemap = map[rpmtag.Tag]rpmtag.Tag{
	rpmtag.SigTagSize:        rpmtag.TagSigSize,
	rpmtag.SigTagPGP:         rpmtag.TagSigPGP,
	rpmtag.SigTagMD5:         rpmtag.TagSigMD5,
	rpmtag.SigTagGPG:         rpmtag.TagSigGPG,
	rpmtag.SigTagPGP5:        rpmtag.TagSigPGP5,
	rpmtag.SigTagPayloadSize: rpmtag.TagArchiveSize,
}

// maxMergeCount is the ceiling on STRING/BIN tag counts admitted by the
// merge, independent of [blob.DataMax]; spec §2: "STRING/BIN in the merge
// must have count < 16384".
const maxMergeCount = 16384

// passthroughSigSpace are tags the merge keeps under their own number
// rather than remapping: spec §4.6 step 9, "SHA1, DSA, RSA: keep only if
// tag ∈ [SIGBASE, TAGBASE)" (signature-space).
var passthroughSigSpace = map[rpmtag.Tag]bool{
	rpmtag.TagDSAHeader:  true,
	rpmtag.TagRSAHeader:  true,
	rpmtag.TagSHA1Header: true,
}

// mergeSignatureHeader walks every entry of a validated signature-header
// blob and merges the tags rpm's legacy signature space defines into dst:
// the six legacy sigtags remapped to their main-header counterpart, plus
// SHA1HEADER/DSAHEADER/RSAHEADER passed through under their own number.
// It never overwrites a tag dst already has, and it rejects entries the
// merge's own type/count rules disallow (spec §4.6 step 9, §2, invariant 6).
func mergeSignatureHeader(dst *Header, sigHeader *blob.Blob) error {
	entries, err := sigHeader.Entries()
	if err != nil {
		return fmt.Errorf("rpmverify: merge signature header: %w", err)
	}
	for _, e := range entries {
		destTag, ok := sigTagRemap[e.Tag]
		if !ok {
			if !passthroughSigSpace[e.Tag] {
				continue
			}
			destTag = e.Tag
		}
		if dst.Has(destTag) {
			continue
		}
		if !mergeAdmits(e) {
			continue
		}
		v, err := sigHeader.ReadData(e)
		if err != nil {
			return fmt.Errorf("rpmverify: merge signature header: tag %v: %w", e.Tag, err)
		}
		dst.insertIfAbsent(destTag, e.Type, e.Count, v)
	}
	return nil
}

// mergeAdmits implements the merge's per-entry type/count gate (spec §2,
// §4.6 step 9): array and i18n types never merge; scalar-integer tags
// must have count == 1; string/bin tags must have count < maxMergeCount;
// any negative or otherwise out-of-range count is rejected outright.
func mergeAdmits(e blob.EntryInfo) bool {
	if e.Count < 0 || blob.CheckData(int64(e.Count)) {
		return false
	}
	switch e.Type {
	case rpmtag.TypeStringArray, rpmtag.TypeI18nString:
		return false
	case rpmtag.TypeString, rpmtag.TypeBin:
		return e.Count < maxMergeCount
	case rpmtag.TypeChar, rpmtag.TypeInt8, rpmtag.TypeInt16, rpmtag.TypeInt32, rpmtag.TypeInt64:
		return e.Count == 1
	default:
		return false
	}
}
