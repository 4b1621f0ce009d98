package rpmverify

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// LeadSize is the fixed byte length of the classic RPM lead that precedes
// the signature header in every package file.
const LeadSize = 96

// leadMagic is the package-file magic (distinct from [blob.Magic], which
// marks a header blob, not the outer lead).
var leadMagic = [4]byte{0xed, 0xab, 0xee, 0xdb}

// ErrBadLead reports that the first [LeadSize] bytes of a package file are
// not a recognizable RPM lead.
var ErrBadLead = errors.New("rpmverify: bad package lead")

// leadType distinguishes a binary package lead from a source package lead;
// the legacy retrofit uses it to decide whether a source header gets
// SOURCEPACKAGE=1.
type leadType int16

const (
	leadBinary leadType = 0
	leadSource leadType = 1
)

// lead is the fixed 96-byte preamble grounded on the classic layout:
// magic(4) version(2) type(2) archnum(2) name(66) osnum(2) signatureType(2)
// reserved(16).
type lead struct {
	kind leadType
}

// readLead parses and validates the fixed lead at the front of a package
// file. It does not interpret name/osnum/archnum: those are cosmetic
// fields this package has no use for.
func readLead(buf []byte) (lead, error) {
	if len(buf) < LeadSize {
		return lead{}, fmt.Errorf("%w: short buffer (%d bytes)", ErrBadLead, len(buf))
	}
	var magic [4]byte
	copy(magic[:], buf[0:4])
	if magic != leadMagic {
		return lead{}, fmt.Errorf("%w: bad magic", ErrBadLead)
	}
	kind := leadType(int16(binary.BigEndian.Uint16(buf[6:8])))
	if kind != leadBinary && kind != leadSource {
		return lead{}, fmt.Errorf("%w: unknown package type %d", ErrBadLead, kind)
	}
	return lead{kind: kind}, nil
}
