package rpmverify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/quay/rpmverify/internal/blob"
	"github.com/quay/rpmverify/internal/rpmtag"
	"github.com/quay/rpmverify/logctx"
)

// headerGroup deduplicates concurrent reads of the same package path: two
// goroutines racing to verify the same file do the crypto work once and
// share the result (spec §9: "Multiple threads may invoke the reader
// concurrently on disjoint file handles" — when they're not disjoint,
// there's no reason to pay for the hash twice).
var headerGroup singleflight.Group

// HeaderCheck validates an already-in-memory metadata header blob and, if
// it carries a header-only digest or signature, verifies it: spec §9's
// `header_check(ts, bytes) -> (verdict, message)`.
//
// Unlike [ReadHeader] (which always requires the immutable region to cover
// the whole blob, per a package file's layout), HeaderCheck accepts a
// blob with trailing entries beyond the region — this is the path that
// actually exercises header-only verification, grounded on rpmCheck's
// own hdrblobInit call, which passes exact_size=0.
func HeaderCheck(buf []byte, policy Policy) Result {
	b, err := blob.New(buf, rpmtag.TagHeaderImmutable, false)
	switch {
	case errors.Is(err, blob.ErrNotFound):
		return Result{Verdict: NotFound}
	case err != nil:
		return resultFor(Fail, err)
	}

	if ril, _ := b.RegionLen(); b.TagCount() > ril {
		res, err := HeaderOnlyVerify(b, policy)
		if err != nil {
			return resultFor(Fail, err)
		}
		if res.Verdict != NotFound {
			return res
		}
	}
	return Result{Verdict: OK}
}

// ReadHeader reads and validates just a metadata header from r: spec §9's
// `read_header(ts, fd) -> (Header, message, verdict)`. The blob is read
// with exact size, so no entries follow the region and the header-only
// check it runs always reports NotFound, which ReadHeader treats as OK.
func ReadHeader(r io.Reader, policy Policy) (*Header, Result) {
	b, err := blob.ReadFrom(r, rpmtag.TagHeaderImmutable, true)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, Result{Verdict: NotFound}
		}
		return nil, resultFor(Fail, err)
	}

	res, err := HeaderOnlyVerify(b, policy)
	if err != nil {
		return nil, resultFor(Fail, err)
	}

	h, err := importHeader(b)
	if err != nil {
		return nil, resultFor(Fail, err)
	}
	if res.Verdict == NotFound {
		return h, Result{Verdict: OK}
	}
	return h, res
}

// keyID32 extracts "the first four bytes of the 8-byte signer id,
// interpreted big-endian as a 32-bit integer" (spec §4.6 step 10) from a
// full 64-bit OpenPGP key id; 0 if sig carries no signer (a bare digest).
func keyID32(sig SigParams) uint32 {
	if sig.Packet == nil {
		return 0
	}
	return uint32(sig.KeyID >> 32)
}

// packageResult is everything read_package (spec §4.6) returns before the
// warn-once wrapper gets a chance to log.
type packageResult struct {
	header *Header
	keyID  uint32
	result Result
}

// readPackage implements spec §4.6's read_package(fd, vsflags, keyring)
// end to end, steps 1-10.
func readPackage(r io.Reader, policy Policy) packageResult {
	leadBuf := make([]byte, LeadSize)
	if _, err := io.ReadFull(r, leadBuf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return packageResult{result: Result{Verdict: NotFound}}
		}
		return packageResult{result: resultFor(Fail, fmt.Errorf("rpmverify: read lead: %w", err))}
	}
	ld, err := readLead(leadBuf)
	if err != nil {
		return packageResult{result: Result{Verdict: NotFound}}
	}

	sigHeader, err := readSignatureHeader(r)
	if err != nil {
		return packageResult{result: resultFor(Fail, err)}
	}

	sigEntries, err := sigHeader.Entries()
	if err != nil {
		return packageResult{result: resultFor(Fail, err)}
	}
	selected, haveSelected := selectPackageLevel(sigEntries, policy.Flags)

	metaBlob, err := blob.ReadFrom(r, rpmtag.TagHeaderImmutable, true)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return packageResult{result: Result{Verdict: NotFound}}
		}
		return packageResult{result: resultFor(Fail, err)}
	}

	// Step 5: header-only verification is conclusive whenever it has an
	// opinion at all (spec §4.6: "Propagate its verdict unless it is
	// NotFound ... in which case continue"). metaBlob was read with exact
	// size, so its region covers every entry and this branch does not run:
	// headerOnlyResult stays NotFound and the step 7 result decides.
	var headerOnlyResult Result
	if ril, _ := metaBlob.RegionLen(); metaBlob.TagCount() > ril {
		res, err := HeaderOnlyVerify(metaBlob, policy)
		if err != nil {
			return packageResult{result: resultFor(Fail, err)}
		}
		headerOnlyResult = res
	} else {
		headerOnlyResult = Result{Verdict: NotFound}
	}

	h, err := importHeader(metaBlob)
	if err != nil {
		return packageResult{result: resultFor(Fail, err)}
	}

	var keyID uint32
	packageLevelResult := Result{Verdict: OK}
	if haveSelected {
		sigParams, err := packageLevelSigParams(sigHeader, selected)
		if err != nil {
			packageLevelResult = resultFor(Fail, err)
		} else {
			keyID = keyID32(sigParams)
			tagRaw, err := rawTagBytesForEntry(sigHeader, selected)
			if err != nil {
				packageLevelResult = resultFor(Fail, err)
			} else {
				packageLevelResult, err = PackageLevelVerify(sigParams, tagRaw, h.ImmutableBlob(), policy)
				if err != nil {
					packageLevelResult = resultFor(Fail, err)
				}
			}
		}
	}

	applyLegacyRetrofit(h, ld.kind)
	if err := mergeSignatureHeader(h, sigHeader); err != nil {
		return packageResult{header: h, keyID: keyID, result: resultFor(Fail, err)}
	}

	verdict := packageLevelResult
	if headerOnlyResult.Verdict != NotFound {
		verdict = headerOnlyResult
	}
	return packageResult{header: h, keyID: keyID, result: verdict}
}

// ReadPackageFile implements the public `read_package_file(ts, fd,
// filename) -> (Header, verdict)` wrapper (spec §9, §4.6): it runs
// read_package, applies the warn-once logging policy for NotTrusted/NoKey
// verdicts, and logs at the level the final verdict calls for.
//
// filename is used only as a singleflight key (to dedupe concurrent reads
// of the same path) and as a logging attribute. The bytes are read from r,
// except when a concurrent call with the same filename is already in
// flight: that call's result is returned and r is not read.
func ReadPackageFile(ctx context.Context, r io.Reader, filename string, policy Policy, warn *WarnSet) (*Header, Result) {
	v, err, _ := headerGroup.Do(filename, func() (interface{}, error) {
		return readPackage(r, policy), nil
	})
	if err != nil {
		// readPackage never itself returns an error; singleflight.Do only
		// errors if fn does.
		return nil, resultFor(Fail, err)
	}
	pr := v.(packageResult)
	logVerdict(ctx, filename, pr, warn)
	return pr.header, pr.result
}

// logVerdict implements spec §9's "User-visible behavior" table and the
// warn-once policy: DEBUG on OK, ERR on Fail, WARNING on NotFound (only
// when a message was accumulated), and WARNING/DEBUG on NotTrusted/NoKey
// gated by whether this key id has been warned about before.
func logVerdict(ctx context.Context, filename string, pr packageResult, warn *WarnSet) {
	ctx = logctx.With(ctx, "file", filename, "verdict", pr.result.Verdict.String())
	logger := slog.New(logctx.WrapHandler(slog.Default().Handler()))
	switch pr.result.Verdict {
	case OK:
		logger.DebugContext(ctx, "package verified", "key_id", pr.keyID)
	case Fail:
		logger.ErrorContext(ctx, "package verification failed", "message", pr.result.Message)
	case NotFound:
		if pr.result.Message != "" {
			logger.WarnContext(ctx, "package not found", "message", pr.result.Message)
		}
	case NotTrusted, NoKey:
		seen := warn.wasSeen(uint64(pr.keyID))
		warn.record(uint64(pr.keyID))
		if !seen {
			logger.WarnContext(ctx, "package signature not trusted", "key_id", pr.keyID)
		} else {
			logger.DebugContext(ctx, "package signature not trusted", "key_id", pr.keyID)
		}
	}
}
