// Package rpmtag holds the RPM header tag and type domain: the small,
// closed set of integers the wire format uses to identify entries and their
// data kind.
//
// See the reference material at
// https://rpm-software-management.github.io/rpm/manual/.
package rpmtag

import "fmt"

// Kind is the type of data stored for a given Tag, as carried in an index
// entry's Type field.
type Kind uint32

// The nine declared data kinds.
const (
	TypeNull Kind = iota
	TypeChar
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeString
	TypeBin
	TypeStringArray
	TypeI18nString

	// TypeRegionTag is the Kind a region marker and its trailer must carry;
	// it is numerically the same as TypeBin.
	TypeRegionTag = TypeBin

	TypeMin = TypeChar
	TypeMax = TypeI18nString
)

func (k Kind) String() string {
	switch k {
	case TypeNull:
		return "NULL"
	case TypeChar:
		return "CHAR"
	case TypeInt8:
		return "INT8"
	case TypeInt16:
		return "INT16"
	case TypeInt32:
		return "INT32"
	case TypeInt64:
		return "INT64"
	case TypeString:
		return "STRING"
	case TypeBin:
		return "BIN"
	case TypeStringArray:
		return "STRING_ARRAY"
	case TypeI18nString:
		return "I18NSTRING"
	default:
		return fmt.Sprintf("Kind(%d)", uint32(k))
	}
}

// Valid reports whether k is one of the nine declared kinds.
//
// This is hdrchk_type from the format definition.
func (k Kind) Valid() bool {
	return k <= TypeI18nString
}

// Alignment is the natural alignment, in bytes, that an entry of this Kind's
// offset must respect. Only scalar-integer kinds require non-1 alignment.
func (k Kind) Alignment() int32 {
	switch k {
	case TypeNull, TypeChar, TypeInt8, TypeString, TypeBin, TypeStringArray, TypeI18nString:
		return 1
	case TypeInt16:
		return 2
	case TypeInt32:
		return 4
	case TypeInt64:
		return 8
	default:
		// Unreachable for any Kind that has passed Valid(); callers must
		// check Valid() first.
		panic("rpmtag: alignment of invalid kind: " + k.String())
	}
}

// elemSize is the per-element byte size for the scalar kinds; -1 marks a
// kind whose length depends on its data (strings).
var elemSize = [...]int{
	TypeNull:        0,
	TypeChar:        1,
	TypeInt8:        1,
	TypeInt16:       2,
	TypeInt32:       4,
	TypeInt64:       8,
	TypeString:      -1,
	TypeBin:         1,
	TypeStringArray: -1,
	TypeI18nString:  -1,
}

// ElemSize returns the fixed per-element size for scalar kinds, or -1 for
// the variable-length string kinds.
func (k Kind) ElemSize() int {
	if int(k) >= len(elemSize) {
		return -1
	}
	return elemSize[k]
}

// Class groups kinds that the format treats interchangeably for
// compatibility checks (e.g. STRING vs STRING_ARRAY typos in old packages).
type Class uint32

// The four type classes.
const (
	ClassNull Class = iota
	ClassNumeric
	ClassString
	ClassBinary
)

// Class reports k's compatibility class.
func (k Kind) Class() Class {
	switch k {
	case TypeNull:
		return ClassNull
	case TypeChar, TypeInt8, TypeInt16, TypeInt32, TypeInt64:
		return ClassNumeric
	case TypeString, TypeStringArray, TypeI18nString:
		return ClassString
	case TypeBin:
		return ClassBinary
	default:
		panic("rpmtag: class of invalid kind: " + k.String())
	}
}
