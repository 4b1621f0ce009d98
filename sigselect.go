package rpmverify

import (
	"crypto"
	"encoding/hex"
	"fmt"

	"github.com/quay/rpmverify/internal/blob"
	"github.com/quay/rpmverify/internal/rpmtag"
)

// selectHeaderOnly implements spec §4.5's selection rule over the entries
// following the immutable region of a validated blob: RSAHEADER and
// DSAHEADER are signatures and always override a previously chosen digest;
// SHA1HEADER (and, as a supplemented extension, SHA256HEADER) are digests
// and are only chosen if nothing has been chosen yet.
func selectHeaderOnly(entries []blob.EntryInfo, ril int64, flags VerifyFlags) (blob.EntryInfo, crypto.Hash, bool) {
	var chosen blob.EntryInfo
	var algo crypto.Hash
	found := false
	for i := ril; i < int64(len(entries)); i++ {
		e := entries[i]
		switch e.Tag {
		case rpmtag.TagSHA1Header:
			if !flags.Has(NoSHA1Header) && !found {
				chosen, algo, found = e, crypto.SHA1, true
			}
		case rpmtag.TagSHA256Header:
			if !flags.Has(NoSHA256Header) && !found {
				chosen, algo, found = e, crypto.SHA256, true
			}
		case rpmtag.TagRSAHeader:
			if !flags.Has(NoRSAHeader) {
				chosen, algo, found = e, 0, true // real algo comes from the packet
			}
		case rpmtag.TagDSAHeader:
			if !flags.Has(NoDSAHeader) {
				chosen, algo, found = e, 0, true
			}
		}
	}
	return chosen, algo, found
}

// selectPackageLevel implements spec §4.6 step 3: from the signature
// header's entries, choose the first enabled tag in order DSA, RSA,
// SHA1 — "prefer signatures over digests; DSA before RSA is a historical
// tie-break."
func selectPackageLevel(entries []blob.EntryInfo, flags VerifyFlags) (blob.EntryInfo, bool) {
	var dsa, rsa, sha1 blob.EntryInfo
	var hasDSA, hasRSA, hasSHA1 bool
	for _, e := range entries {
		switch e.Tag {
		case rpmtag.TagDSAHeader:
			dsa, hasDSA = e, true
		case rpmtag.TagRSAHeader:
			rsa, hasRSA = e, true
		case rpmtag.TagSHA1Header:
			sha1, hasSHA1 = e, true
		}
	}
	switch {
	case hasDSA && !flags.Has(NoDSAHeader):
		return dsa, true
	case hasRSA && !flags.Has(NoRSAHeader):
		return rsa, true
	case hasSHA1 && !flags.Has(NoSHA1Header):
		return sha1, true
	default:
		return blob.EntryInfo{}, false
	}
}

// packageLevelSigParams fetches the tag step 3 selected from sigHeader
// and parses it, without running any crypto yet. Split out of
// [PackageLevelVerify] so the caller can recover the signer's key id
// (spec §4.6 step 10) even along a path that short-circuits before
// verification.
func packageLevelSigParams(sigHeader *blob.Blob, selected blob.EntryInfo) (SigParams, error) {
	tagData, err := sigHeader.ReadData(selected)
	if err != nil {
		return SigParams{}, fmt.Errorf("rpmverify: package-level verify: reading tag %v: %w", selected.Tag, err)
	}
	switch selected.Tag {
	case rpmtag.TagSHA1Header:
		s, ok := tagData.(string)
		if !ok {
			return SigParams{}, fmt.Errorf("rpmverify: package-level verify: tag %v is not a string", selected.Tag)
		}
		return ParseDigest(s, crypto.SHA1), nil
	case rpmtag.TagRSAHeader, rpmtag.TagDSAHeader:
		raw, ok := tagData.([]byte)
		if !ok {
			return SigParams{}, fmt.Errorf("rpmverify: package-level verify: tag %v is not binary", selected.Tag)
		}
		return ParseSig(raw)
	default:
		return SigParams{}, fmt.Errorf("rpmverify: package-level verify: unreachable tag %v", selected.Tag)
	}
}

// PackageLevelVerify runs spec §4.6 step 7: given sig (already parsed by
// [packageLevelSigParams] from the tag selected from the signature
// header in step 3) and its raw tag bytes, hash the metadata header's
// self-contained immutable-region blob (magic ‖ bytes) and verify against
// policy.Keyring.
func PackageLevelVerify(sig SigParams, sigTagData []byte, immutableBlob []byte, policy Policy) (Result, error) {
	digest, err := NewDigestCtx(sig.Hash)
	if err != nil {
		return resultFor(Fail, err), nil
	}
	digest.Update(blob.Magic[:])
	digest.Update(immutableBlob)
	v := policy.Keyring.Verify(sigTagData, sig, digest)
	return Result{Verdict: v}, nil
}

// HeaderOnlyVerify runs component C5: choose the strongest enabled
// header-only digest/signature in b (a validated HeaderImmutable blob) and
// verify it against policy.Keyring.
//
// Precondition (spec §4.5): the caller should only invoke this when
// b.TagCount() > ril; HeaderOnlyVerify itself reports NotFound rather than
// erroring if that's violated or if no candidate tag is present. An
// exact-size blob has no entries after its region, so it always yields
// NotFound here.
func HeaderOnlyVerify(b *blob.Blob, policy Policy) (Result, error) {
	ril, rdl := b.RegionLen()
	if b.TagCount() <= ril {
		return Result{Verdict: NotFound}, nil
	}
	entries, err := b.Entries()
	if err != nil {
		return Result{}, fmt.Errorf("rpmverify: header-only verify: %w", err)
	}

	chosen, algo, found := selectHeaderOnly(entries, ril, policy.Flags)
	if !found {
		return Result{Verdict: NotFound}, nil
	}

	tagData, err := b.ReadData(chosen)
	if err != nil {
		return Result{}, fmt.Errorf("rpmverify: header-only verify: reading tag %v: %w", chosen.Tag, err)
	}

	var sig SigParams
	switch chosen.Tag {
	case rpmtag.TagSHA1Header, rpmtag.TagSHA256Header:
		s, ok := tagData.(string)
		if !ok {
			return Result{}, fmt.Errorf("rpmverify: header-only verify: tag %v is not a string", chosen.Tag)
		}
		sig = ParseDigest(s, algo)
	case rpmtag.TagRSAHeader, rpmtag.TagDSAHeader:
		raw, ok := tagData.([]byte)
		if !ok {
			return Result{}, fmt.Errorf("rpmverify: header-only verify: tag %v is not binary", chosen.Tag)
		}
		sig, err = ParseSig(raw)
		if err != nil {
			return resultFor(Fail, err), nil
		}
	default:
		return Result{}, fmt.Errorf("rpmverify: header-only verify: unreachable tag %v", chosen.Tag)
	}

	digest, err := NewDigestCtx(sig.Hash)
	if err != nil {
		return resultFor(Fail, err), nil
	}
	digest.Update(b.RawPreamble())
	digest.Update(b.RegionIndexBytes())
	_ = rdl // bounds already proven equal to len(RegionDataBytes()) by the blob package
	digest.Update(b.RegionDataBytes())

	tagRaw, err := rawTagBytes(tagData)
	if err != nil {
		return Result{}, err
	}
	v := policy.Keyring.Verify(tagRaw, sig, digest)
	return Result{Verdict: v}, nil
}

// rawTagBytesForEntry reads e's data from b and recovers the bytes the
// keyring should see for sig_tag_data.
func rawTagBytesForEntry(b *blob.Blob, e blob.EntryInfo) ([]byte, error) {
	tagData, err := b.ReadData(e)
	if err != nil {
		return nil, fmt.Errorf("rpmverify: reading tag %v: %w", e.Tag, err)
	}
	return rawTagBytes(tagData)
}

// rawTagBytes recovers the bytes the keyring should see for sig_tag_data:
// the OpenPGP packet's encoded bytes for RSA/DSA, or the ASCII digest text
// for the bare-digest tags.
func rawTagBytes(tagData interface{}) ([]byte, error) {
	switch v := tagData.(type) {
	case []byte:
		return v, nil
	case string:
		if _, err := hex.DecodeString(v); err != nil {
			return nil, fmt.Errorf("rpmverify: digest tag is not hex: %w", err)
		}
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("rpmverify: unexpected tag data type %T", tagData)
	}
}
