package rpmverify

import (
	"testing"

	"github.com/quay/rpmverify/internal/blob"
	"github.com/quay/rpmverify/internal/rpmtag"
)

func TestImportHeaderDecodesEntries(t *testing.T) {
	buf := buildRegionBlob(rpmtag.TagHeaderImmutable, []fieldSpec{
		{tag: rpmtag.TagName, typ: rpmtag.TypeString, count: 1, data: cstr("dummy")},
	}, true)
	b, err := blob.New(buf, rpmtag.TagHeaderImmutable, true)
	if err != nil {
		t.Fatalf("blob.New: %v", err)
	}
	h, err := importHeader(b)
	if err != nil {
		t.Fatalf("importHeader: %v", err)
	}
	if !h.Has(rpmtag.TagName) {
		t.Fatal("expected TagName to be present")
	}
	v, ok := h.Get(rpmtag.TagName)
	if !ok {
		t.Fatal("Get reported absent for a present tag")
	}
	if v.(string) != "dummy" {
		t.Errorf("got %q, want %q", v, "dummy")
	}
}

func TestImportHeaderExactSizeSetsImmutableBlob(t *testing.T) {
	buf := buildRegionBlob(rpmtag.TagHeaderImmutable, []fieldSpec{
		{tag: rpmtag.TagName, typ: rpmtag.TypeString, count: 1, data: cstr("dummy")},
	}, true)
	b, err := blob.New(buf, rpmtag.TagHeaderImmutable, true)
	if err != nil {
		t.Fatalf("blob.New: %v", err)
	}
	h, err := importHeader(b)
	if err != nil {
		t.Fatalf("importHeader: %v", err)
	}
	if h.ImmutableBlob() == nil {
		t.Error("exact-size header should have a non-nil ImmutableBlob")
	}
}

func TestImportHeaderSignatureHeaderHasNoImmutableBlob(t *testing.T) {
	buf := buildRegionBlob(rpmtag.TagHeaderSignatures, []fieldSpec{
		{tag: rpmtag.TagSHA1Header, typ: rpmtag.TypeString, count: 1, data: cstr("abcd")},
	}, false)
	b, err := blob.New(buf, rpmtag.TagHeaderSignatures, false)
	if err != nil {
		t.Fatalf("blob.New: %v", err)
	}
	h, err := importHeader(b)
	if err != nil {
		t.Fatalf("importHeader: %v", err)
	}
	if h.ImmutableBlob() != nil {
		t.Error("non-exact-size header should have a nil ImmutableBlob")
	}
}

func TestHeaderSetOverwrites(t *testing.T) {
	h := &Header{tags: map[rpmtag.Tag]tagValue{}}
	h.set(rpmtag.TagSourceRPM, rpmtag.TypeString, 1, "(none)")
	h.set(rpmtag.TagSourceRPM, rpmtag.TypeString, 1, "other.src.rpm")
	v, _ := h.Get(rpmtag.TagSourceRPM)
	if v.(string) != "other.src.rpm" {
		t.Errorf("set should overwrite, got %q", v)
	}
}

func TestHeaderInsertIfAbsent(t *testing.T) {
	h := &Header{tags: map[rpmtag.Tag]tagValue{}}
	if !h.insertIfAbsent(rpmtag.TagSigSize, rpmtag.TypeInt32, 1, []int32{100}) {
		t.Fatal("first insert should succeed")
	}
	if h.insertIfAbsent(rpmtag.TagSigSize, rpmtag.TypeInt32, 1, []int32{200}) {
		t.Fatal("insertIfAbsent must not overwrite an existing tag")
	}
	v, _ := h.Get(rpmtag.TagSigSize)
	if v.([]int32)[0] != 100 {
		t.Errorf("existing value must be preserved, got %v", v)
	}
}
