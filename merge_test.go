package rpmverify

import (
	"testing"

	"github.com/quay/rpmverify/internal/blob"
	"github.com/quay/rpmverify/internal/rpmtag"
)

func int32Bytes(v int32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func sigHeaderBlob(t *testing.T, extra []fieldSpec) *blob.Blob {
	t.Helper()
	buf := buildRegionBlob(rpmtag.TagHeaderSignatures, extra, false)
	b, err := blob.New(buf, rpmtag.TagHeaderSignatures, false)
	if err != nil {
		t.Fatalf("blob.New: %v", err)
	}
	return b
}

func TestMergeRemapsLegacySigtags(t *testing.T) {
	sig := sigHeaderBlob(t, []fieldSpec{
		{tag: rpmtag.SigTagSize, typ: rpmtag.TypeInt32, count: 1, data: int32Bytes(12345)},
	})
	dst := newTestHeader()
	if err := mergeSignatureHeader(dst, sig); err != nil {
		t.Fatalf("mergeSignatureHeader: %v", err)
	}
	v, ok := dst.Get(rpmtag.TagSigSize)
	if !ok {
		t.Fatal("expected SIGSIZE to be populated from the legacy SigTagSize")
	}
	if v.([]int32)[0] != 12345 {
		t.Errorf("got %v, want 12345", v)
	}
	if dst.Has(rpmtag.SigTagSize) {
		t.Error("the legacy sigtag-space tag number must not appear in the merged header")
	}
}

func TestMergeNeverOverwrites(t *testing.T) {
	sig := sigHeaderBlob(t, []fieldSpec{
		{tag: rpmtag.SigTagSize, typ: rpmtag.TypeInt32, count: 1, data: int32Bytes(999)},
	})
	dst := newTestHeader()
	dst.set(rpmtag.TagSigSize, rpmtag.TypeInt32, 1, []int32{1})
	if err := mergeSignatureHeader(dst, sig); err != nil {
		t.Fatalf("mergeSignatureHeader: %v", err)
	}
	v, _ := dst.Get(rpmtag.TagSigSize)
	if v.([]int32)[0] != 1 {
		t.Errorf("merge must not overwrite an existing tag, got %v", v)
	}
}

func TestMergePassesThroughSHA1Header(t *testing.T) {
	sig := sigHeaderBlob(t, []fieldSpec{
		{tag: rpmtag.TagSHA1Header, typ: rpmtag.TypeString, count: 1, data: cstr("deadbeef")},
	})
	dst := newTestHeader()
	if err := mergeSignatureHeader(dst, sig); err != nil {
		t.Fatalf("mergeSignatureHeader: %v", err)
	}
	v, ok := dst.Get(rpmtag.TagSHA1Header)
	if !ok || v.(string) != "deadbeef" {
		t.Errorf("expected SHA1HEADER passthrough, got %v ok=%v", v, ok)
	}
}

func TestMergeRejectsStringArray(t *testing.T) {
	if mergeAdmits(blob.EntryInfo{Type: rpmtag.TypeStringArray, Count: 1}) {
		t.Error("STRING_ARRAY must never be admitted by the merge")
	}
}

func TestMergeRejectsScalarCountNotOne(t *testing.T) {
	if mergeAdmits(blob.EntryInfo{Type: rpmtag.TypeInt32, Count: 2}) {
		t.Error("a scalar-integer tag with count != 1 must be rejected")
	}
}

func TestMergeAdmitsStringUnderLimit(t *testing.T) {
	if !mergeAdmits(blob.EntryInfo{Type: rpmtag.TypeString, Count: 1}) {
		t.Error("a STRING tag under the count limit should be admitted")
	}
}

func TestMergeRejectsBinOverLimit(t *testing.T) {
	if mergeAdmits(blob.EntryInfo{Type: rpmtag.TypeBin, Count: maxMergeCount}) {
		t.Error("a BIN tag at the count limit should be rejected (count must be < limit)")
	}
}
