// Package openpgpkeyring is a concrete [rpmverify.Keyring] backed by
// golang.org/x/crypto/openpgp: a set of known public keys, and among
// those, the subset explicitly trusted.
//
// rpm's real trust model is two-tiered and this mirrors it: a signature
// whose signer key isn't present at all yields NoKey; one whose key is
// present and verifies cryptographically but isn't in the trusted subset
// yields NotTrusted; only a present, trusted, and cryptographically valid
// key yields OK.
package openpgpkeyring

import (
	"crypto"
	"encoding/hex"

	"golang.org/x/crypto/openpgp"
	"golang.org/x/crypto/openpgp/packet"

	"github.com/quay/rpmverify"
)

// Keyring holds every known public key plus the subset trusted for
// package verification.
type Keyring struct {
	known   openpgp.EntityList
	trusted map[uint64]bool
}

// New builds a Keyring from known (every key the crypto backend can use
// to check a signature) and trusted (the key ids, among known, that are
// actually trusted for installation).
func New(known openpgp.EntityList, trusted map[uint64]bool) *Keyring {
	if trusted == nil {
		trusted = map[uint64]bool{}
	}
	return &Keyring{known: known, trusted: trusted}
}

var _ rpmverify.Keyring = (*Keyring)(nil)

// Verify implements [rpmverify.Keyring].
func (k *Keyring) Verify(sigTagData []byte, sig rpmverify.SigParams, digest *rpmverify.DigestCtx) rpmverify.Verdict {
	if sig.Packet == nil {
		return verifyBareDigest(sig, digest)
	}

	entity := k.findByKeyID(sig.KeyID)
	if entity == nil {
		return rpmverify.NoKey
	}

	pub := entity.PrimaryKey
	var err error
	switch s := sig.Packet.(type) {
	case *packet.Signature:
		err = pub.VerifySignature(digest.Hash(), s)
	case *packet.SignatureV3:
		err = pub.VerifySignatureV3(digest.Hash(), s)
	default:
		return rpmverify.Fail
	}
	if err != nil {
		return rpmverify.Fail
	}
	if !k.trusted[sig.KeyID] {
		return rpmverify.NotTrusted
	}
	return rpmverify.OK
}

// findByKeyID returns the entity (primary or subkey) matching id, or nil.
func (k *Keyring) findByKeyID(id uint64) *openpgp.Entity {
	for _, e := range k.known {
		if e.PrimaryKey != nil && e.PrimaryKey.KeyId == id {
			return e
		}
		for _, sk := range e.Subkeys {
			if sk.PublicKey != nil && sk.PublicKey.KeyId == id {
				return e
			}
		}
	}
	return nil
}

// verifyBareDigest handles the SHA1HEADER/SHA256HEADER case: sig carries
// no signer, just a hex digest to compare against what was actually
// computed over the signed byte range. There is no key to find and so no
// NoKey/NotTrusted distinction; either the digest matches or it doesn't.
func verifyBareDigest(sig rpmverify.SigParams, digest *rpmverify.DigestCtx) rpmverify.Verdict {
	if sig.Hash == crypto.Hash(0) || !sig.Hash.Available() {
		return rpmverify.Fail
	}
	want, err := hex.DecodeString(sig.RawDigest)
	if err != nil {
		return rpmverify.Fail
	}
	got := digest.Sum()
	if len(want) != len(got) {
		return rpmverify.Fail
	}
	for i := range want {
		if want[i] != got[i] {
			return rpmverify.Fail
		}
	}
	return rpmverify.OK
}
