package rpmverify

import (
	"bytes"
	"crypto"
	"fmt"

	"golang.org/x/crypto/openpgp/packet"
)

// SigParams is what parse_sig yields: the hash algorithm the signer (or,
// for a bare digest tag, the packager) used, the issuer's key id, and the
// opaque packet needed to actually verify.
//
// Grounded on internal/rpm/info.go's Hint(), which walks the same packet
// stream (via packet.NewReader) to pull IssuerKeyId out of a v3 or v4
// signature packet.
//
// RSAHEADER/DSAHEADER carry a real OpenPGP signature packet (Packet is
// non-nil). SHA1HEADER/SHA256HEADER carry a bare hex digest with no signer
// identity (Packet is nil, RawDigest holds the hex string); [Keyring]
// implementations must treat that as "compare digest", not "verify
// signature".
type SigParams struct {
	Hash      crypto.Hash
	KeyID     uint64
	Packet    packet.Packet // *packet.Signature or *packet.SignatureV3; nil for a bare digest
	RawDigest string        // hex digest text, set only when Packet == nil
}

// ParseSig decodes a tag's raw bytes as an OpenPGP signature packet.
//
// This is the "OpenPGP signature parser" external collaborator from spec
// §1: it takes a tag-data slice and yields hash algorithm + opaque
// signature parameters.
func ParseSig(tagData []byte) (SigParams, error) {
	rd := packet.NewReader(bytes.NewReader(tagData))
	p, err := rd.Next()
	if err != nil {
		return SigParams{}, fmt.Errorf("rpmverify: parse signature: %w", err)
	}
	switch sig := p.(type) {
	case *packet.Signature:
		if sig.IssuerKeyId == nil {
			return SigParams{}, fmt.Errorf("rpmverify: signature packet missing issuer key id")
		}
		return SigParams{Hash: sig.Hash, KeyID: *sig.IssuerKeyId, Packet: sig}, nil
	case *packet.SignatureV3:
		return SigParams{Hash: sig.Hash, KeyID: sig.IssuerKeyId, Packet: sig}, nil
	default:
		return SigParams{}, fmt.Errorf("rpmverify: tag data is not a signature packet: %T", p)
	}
}

// ParseDigest builds the degenerate SigParams for a bare-digest tag
// (SHA1HEADER/SHA256HEADER): no signer, just a hex string to compare
// against the recomputed digest.
func ParseDigest(hexDigest string, algo crypto.Hash) SigParams {
	return SigParams{Hash: algo, RawDigest: hexDigest}
}
