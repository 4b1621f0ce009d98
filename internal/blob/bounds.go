package blob

// Bounds predicates (component C1): pure, allocation-free checks over plain
// integers. These must run before any allocation driven by attacker-supplied
// counts, so a blob claiming an absurd tag count or data length is rejected
// before it can be used to size a buffer.
const (
	// TagsMax bounds the index-entry count a blob may claim. RPM headers
	// in the wild never approach this; it exists purely to cap the
	// allocation a validated tag count drives.
	TagsMax = 0x0000ffff

	// DataMax bounds the data-area byte length a blob may claim.
	DataMax = 0x0fffffff

	// SizeMax bounds the total reconstructed blob size (preamble + index +
	// data). No legitimate RPM header approaches this either.
	SizeMax = 256 << 20
)

// CheckTags reports whether il is an unacceptable tag count: negative or
// larger than TagsMax. il == 0 is structurally acceptable here — a blob
// claiming zero tags has no region marker, which the region validator
// rejects with its own "no tags" message (spec §8).
func CheckTags(il int64) bool {
	return il < 0 || il > TagsMax
}

// CheckData reports whether dl is an unacceptable data-area length:
// negative or larger than DataMax.
func CheckData(dl int64) bool {
	return dl < 0 || dl > DataMax
}

// CheckRange reports whether value lies outside [0, limit].
func CheckRange(limit, value int64) bool {
	return value < 0 || value > limit
}
