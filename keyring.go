package rpmverify

// Keyring is the opaque signature verifier from spec §1: given the raw
// signature-tag bytes, the parsed signature parameters, and a digest
// context that has already been fed the correct byte range, it returns a
// trust verdict.
//
// Implementations are expected to be narrow: find the key by
// [SigParams.KeyID], run the cryptographic check, and report whether the
// result is trusted. See package openpgpkeyring for a concrete
// implementation backed by golang.org/x/crypto/openpgp.
type Keyring interface {
	Verify(sigTagData []byte, sig SigParams, digest *DigestCtx) Verdict
}

// VerifyFlags is the policy-flag half of the TS (transaction set) external
// collaborator from spec §1: which header-only and signature-header
// candidates the caller has disabled.
type VerifyFlags uint32

const (
	NoSHA1Header VerifyFlags = 1 << iota
	NoRSAHeader
	NoDSAHeader
	NoSHA256Header
)

// Has reports whether all bits in want are set in f.
func (f VerifyFlags) Has(want VerifyFlags) bool { return f&want == want }

// Policy is the concrete shape of the spec's "TS" collaborator: a
// verification policy plus the keyring snapshot to check signatures
// against. Callers construct one and pass it into ReadHeader / HeaderCheck
// / ReadPackageFile; this package never constructs or owns one itself.
type Policy struct {
	Flags   VerifyFlags
	Keyring Keyring
}
