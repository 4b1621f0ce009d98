package rpmverify

import (
	"crypto"
	"fmt"
	"hash"
)

// DigestCtx is a streaming digest over the exact byte ranges the signature
// selector feeds it. It is a thin wrapper over [hash.Hash]; the hash
// algorithm comes from whatever the chosen signature packet reports
// ([SigParams.Hash]), since that's the algorithm the signer actually used.
type DigestCtx struct {
	h hash.Hash
}

// NewDigestCtx initializes a digest context for algo.
//
// The caller is responsible for calling [DigestCtx.Sum] exactly once; the
// underlying [hash.Hash] needs no explicit finalization beyond that.
func NewDigestCtx(algo crypto.Hash) (*DigestCtx, error) {
	if !algo.Available() {
		return nil, fmt.Errorf("rpmverify: hash algorithm %v not available (missing import?)", algo)
	}
	return &DigestCtx{h: algo.New()}, nil
}

// Update feeds b into the digest, in order.
func (d *DigestCtx) Update(b []byte) { d.h.Write(b) }

// Sum finalizes the digest, returning the raw bytes.
func (d *DigestCtx) Sum() []byte { return d.h.Sum(nil) }

// Hash returns the underlying [hash.Hash], for handing to
// [golang.org/x/crypto/openpgp/packet]'s Signature.Verify, which expects to
// finalize the hash itself.
func (d *DigestCtx) Hash() hash.Hash { return d.h }
