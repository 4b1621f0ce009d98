package rpmtag

// tagInfo is the declared type for a known tag, used to typecheck the
// entries of a blob that opens with HEADERIMMUTABLE (spec §4.4: "Type is
// in the declared set").
type tagInfo struct {
	Tag  Tag
	Type Kind
}

// tagTable is a representative slice of the real RPM tag dictionary: every
// tag this package's own logic names by value (region markers, signature
// tags, and the handful of general tags touched by retrofit/merge), plus a
// sampling of common identification tags. It is intentionally not the full
// ~400-entry rpm tag space; unknown tags are not type-checked (see
// CheckType below), which is exactly how the original behaves for tags
// it doesn't recognize either.
var tagTable = [...]tagInfo{
	{TagHeaderImage, TypeBin},
	{TagHeaderSignatures, TypeBin},
	{TagHeaderImmutable, TypeBin},
	{TagHeaderRegions, TypeBin},
	{TagDSAHeader, TypeBin},
	{TagRSAHeader, TypeBin},
	{TagSHA1Header, TypeString},
	{TagSHA256Header, TypeString},
	{TagSigSize, TypeInt32},
	{TagSigPGP, TypeBin},
	{TagSigMD5, TypeBin},
	{TagSigGPG, TypeBin},
	{TagSigPGP5, TypeBin},
	{TagArchiveSize, TypeInt32},
	{TagDirIndexes, TypeInt32},
	{TagBaseNames, TypeStringArray},
	{TagDirNames, TypeStringArray},
	{TagName, TypeString},
	{TagVersion, TypeString},
	{TagRelease, TypeString},
	{TagEpoch, TypeInt32},
	{TagArch, TypeString},
	{TagOldFilenames, TypeStringArray},
	{TagSourceRPM, TypeString},
	{TagSourcePackage, TypeInt32},
	{TagPayloadDigest, TypeStringArray},
	{TagPayloadDigestAlgo, TypeInt32},
	{TagModularityLabel, TypeString},
}

// tagByValue maps a Tag to its index in tagTable, built once at init.
var tagByValue = func() map[Tag]int {
	m := make(map[Tag]int, len(tagTable))
	for i, e := range tagTable {
		m[e.Tag] = i
	}
	return m
}()

// CheckType reports whether typ is an acceptable Kind for key.
//
// Tags this package doesn't have a declared type for get a pass: the format
// allows third-party and future tags the type-checker has no opinion on.
// Tags it does know about accept either an exact Kind match or a
// class-compatible one (some versions of rpm mis-typed STRING_ARRAY tags as
// STRING in a way every implementation has had to tolerate since).
func CheckType(key Tag, typ Kind) bool {
	i, ok := tagByValue[key]
	if !ok {
		return true
	}
	want := tagTable[i].Type
	return want == typ || want.Class() == typ.Class()
}
