package rpmverify

import "fmt"

// Verdict is the small, closed set of outcomes every validation and
// verification routine in this package can produce.
type Verdict int

const (
	// OK — structural validation passed and any crypto performed
	// succeeded.
	OK Verdict = iota
	// NotFound — structurally the input is not what was expected (not a
	// package at all, no region marker, or no header-only crypto
	// candidate). Callers distinguish this signal from a hard error.
	NotFound
	// NotTrusted — signature validated cryptographically but the signer
	// key is not in the trust store.
	NotTrusted
	// NoKey — signature well-formed but the signer key isn't in the
	// keyring at all.
	NoKey
	// Fail — structural corruption, bounds violation, signature forgery,
	// or unexpected I/O error.
	Fail
)

func (v Verdict) String() string {
	switch v {
	case OK:
		return "OK"
	case NotFound:
		return "NotFound"
	case NotTrusted:
		return "NotTrusted"
	case NoKey:
		return "NoKey"
	case Fail:
		return "Fail"
	default:
		return fmt.Sprintf("Verdict(%d)", int(v))
	}
}

// Result pairs a Verdict with an optional human-readable message. Every
// validation routine returns the earliest error it finds; messages
// accumulate only at the outermost boundary (spec §7), so the lower
// layers (blob parsing, header import, the merge) return plain errors and
// only the verification functions (HeaderCheck, ReadHeader,
// ReadPackageFile and the package reader behind it, HeaderOnlyVerify,
// PackageLevelVerify) construct a Result.
type Result struct {
	Verdict Verdict
	Message string
}

func resultFor(v Verdict, err error) Result {
	if err == nil {
		return Result{Verdict: v}
	}
	return Result{Verdict: v, Message: err.Error()}
}
