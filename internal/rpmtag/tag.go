package rpmtag

import "fmt"

// Tag is the key half of a header's key/value entries.
type Tag int32

// Region marker tags. Tag 0 decodes to pe[0] opening one of these regions;
// HeaderI18nTable is the floor below which non-region tags are rejected.
const (
	TagHeaderImage      Tag = 61
	TagHeaderSignatures Tag = 62
	TagHeaderImmutable  Tag = 63
	TagHeaderRegions    Tag = 64
	TagHeaderI18nTable  Tag = 100
)

// Signature-space tags. DSAHeader/RSAHeader/SHA1Header/SHA256Header are
// header-only digests or signatures: they appear both after the immutable
// region of a metadata header (covering only that region) and inside a
// signature header (covering the whole package), per spec §4.5 and §4.6.
// These are main-header-space tag numbers: the same integer is valid
// whether the entry was read directly out of the metadata header or
// merged in from the signature header.
const (
	SigBase Tag = 256
	TagBase Tag = 1000

	TagDSAHeader    Tag = SigBase + 11 // 267
	TagRSAHeader    Tag = SigBase + 12 // 268
	TagSHA1Header   Tag = SigBase + 13 // 269
	TagSHA256Header Tag = SigBase + 17 // 273
)

// Legacy signature-header ("sigtag") tags. These numbers are only ever
// valid as entries read directly out of a signature-header blob; the
// merge step (spec §4.6 step 9) remaps each to its TagSig*/TagArchiveSize
// main-header-space counterpart below before inserting it into the
// metadata header. Some of them number-collide with TagBase's general
// tags (e.g. SigTagSize == TagName == 1000): that's how rpm's on-disk
// signature header really is, and it's harmless here because these
// values are never looked up against a metadata Header, only against a
// freshly parsed signature-header blob.
const (
	SigTagSize        Tag = TagBase + 0 // 1000
	SigTagPGP         Tag = TagBase + 2 // 1002
	SigTagMD5         Tag = TagBase + 4 // 1004
	SigTagGPG         Tag = TagBase + 5 // 1005
	SigTagPGP5        Tag = TagBase + 6 // 1006
	SigTagPayloadSize Tag = TagBase + 7 // 1007
)

// Main-header-space counterparts of the legacy sigtags, populated by the
// signature-header merge.
const (
	TagSigSize     Tag = 257
	TagSigPGP      Tag = 259
	TagSigMD5      Tag = 261
	TagSigGPG      Tag = 262
	TagSigPGP5     Tag = 263
	TagArchiveSize Tag = 1007
)

// General identification and retrofit tags.
const (
	TagName              Tag = 1000
	TagVersion           Tag = 1001
	TagRelease           Tag = 1002
	TagEpoch             Tag = 1003
	TagArch              Tag = 1022
	TagOldFilenames      Tag = 1027
	TagSourceRPM         Tag = 1044
	TagDirIndexes        Tag = 1116
	TagBaseNames         Tag = 1117
	TagDirNames          Tag = 1118
	TagSourcePackage     Tag = 1106
	TagPayloadDigest     Tag = 5092
	TagPayloadDigestAlgo Tag = 5093
	TagModularityLabel   Tag = 5096
)

func (t Tag) String() string {
	switch t {
	case TagHeaderImage:
		return "HEADERIMAGE"
	case TagHeaderSignatures:
		return "HEADERSIGNATURES"
	case TagHeaderImmutable:
		return "HEADERIMMUTABLE"
	case TagHeaderRegions:
		return "HEADERREGIONS"
	case TagHeaderI18nTable:
		return "HEADERI18NTABLE"
	case TagDSAHeader:
		return "DSAHEADER"
	case TagRSAHeader:
		return "RSAHEADER"
	case TagSHA1Header:
		return "SHA1HEADER"
	case TagSHA256Header:
		return "SHA256HEADER"
	// SigTagSize/SigTagPGP/SigTagPayloadSize number-collide with
	// TagName/TagRelease/TagArchiveSize: rpm reuses 1000/1002/1007 across
	// the signature-header and main-header tag spaces, so String() can't
	// tell them apart by value alone and reports both names.
	case SigTagSize:
		return "NAME/SIGTAG_SIZE"
	case SigTagPGP:
		return "RELEASE/SIGTAG_PGP"
	case SigTagMD5:
		return "SIGTAG_MD5"
	case SigTagGPG:
		return "SIGTAG_GPG"
	case SigTagPGP5:
		return "SIGTAG_PGP5"
	case TagArchiveSize:
		return "ARCHIVESIZE/SIGTAG_PAYLOADSIZE"
	case TagSigSize:
		return "SIGSIZE"
	case TagSigPGP:
		return "SIGPGP"
	case TagSigMD5:
		return "SIGMD5"
	case TagSigGPG:
		return "SIGGPG"
	case TagSigPGP5:
		return "SIGPGP5"
	case TagDirIndexes:
		return "DIRINDEXES"
	case TagBaseNames:
		return "BASENAMES"
	case TagDirNames:
		return "DIRNAMES"
	case TagVersion:
		return "VERSION"
	case TagEpoch:
		return "EPOCH"
	case TagSourceRPM:
		return "SOURCERPM"
	case TagArch:
		return "ARCH"
	case TagOldFilenames:
		return "OLDFILENAMES"
	case TagSourcePackage:
		return "SOURCEPACKAGE"
	case TagModularityLabel:
		return "MODULARITYLABEL"
	case TagPayloadDigest:
		return "PAYLOADDIGEST"
	case TagPayloadDigestAlgo:
		return "PAYLOADDIGESTALGO"
	default:
		return fmt.Sprintf("Tag(%d)", int32(t))
	}
}
