package rpmverify

import (
	"reflect"
	"testing"

	"github.com/quay/rpmverify/internal/rpmtag"
)

func newTestHeader() *Header {
	return &Header{tags: map[rpmtag.Tag]tagValue{}}
}

func TestIsSourceNoSourceRPM(t *testing.T) {
	h := newTestHeader()
	if !h.isSource() {
		t.Error("a header with no SOURCERPM tag must be considered a source package")
	}
}

func TestIsSourceHasSourceRPM(t *testing.T) {
	h := newTestHeader()
	h.set(rpmtag.TagSourceRPM, rpmtag.TypeString, 1, "foo-1.0-1.src.rpm")
	if h.isSource() {
		t.Error("a header carrying SOURCERPM must not be considered a source package")
	}
}

func TestApplyLegacyRetrofitSourceLeadSetsSourcePackage(t *testing.T) {
	h := newTestHeader()
	h.set(rpmtag.TagHeaderImmutable, rpmtag.TypeBin, 16, []byte{})
	applyLegacyRetrofit(h, leadSource)
	if !h.Has(rpmtag.TagSourcePackage) {
		t.Error("expected SOURCEPACKAGE to be set for a source-lead header with no SOURCERPM")
	}
}

func TestApplyLegacyRetrofitBinaryLeadSourcePackageSuppressesDefaultSourceRPM(t *testing.T) {
	h := newTestHeader()
	h.set(rpmtag.TagHeaderImmutable, rpmtag.TypeBin, 16, []byte{})
	h.set(rpmtag.TagSourcePackage, rpmtag.TypeInt32, 1, []int32{0})
	// isSource() is still true (no SOURCERPM), but SOURCEPACKAGE is
	// already present, so the SOURCERPM default must not fire.
	applyLegacyRetrofit(h, leadBinary)
	if h.Has(rpmtag.TagSourceRPM) {
		t.Error("SOURCERPM default should not fire when SOURCEPACKAGE is already present")
	}
}

func TestApplyLegacyRetrofitDefaultsSourceRPMWhenMissing(t *testing.T) {
	h := newTestHeader()
	h.set(rpmtag.TagHeaderImmutable, rpmtag.TypeBin, 16, []byte{})
	applyLegacyRetrofit(h, leadBinary)
	v, ok := h.Get(rpmtag.TagSourceRPM)
	if !ok || v.(string) != "(none)" {
		t.Errorf("expected SOURCERPM=(none), got %v, ok=%v", v, ok)
	}
}

func TestRetrofitV3SetsI18nTable(t *testing.T) {
	h := newTestHeader()
	h.set(rpmtag.TagSourceRPM, rpmtag.TypeString, 1, "foo-1.0-1.src.rpm")
	applyLegacyRetrofit(h, leadBinary)
	v, ok := h.Get(rpmtag.TagHeaderI18nTable)
	if !ok {
		t.Fatal("expected HEADERI18NTABLE to be set by the v3 retrofit")
	}
	if !reflect.DeepEqual(v, []string{"C"}) {
		t.Errorf("got %v, want [C]", v)
	}
}

func TestCompressFilelist(t *testing.T) {
	h := newTestHeader()
	h.set(rpmtag.TagHeaderImmutable, rpmtag.TypeBin, 16, []byte{})
	h.set(rpmtag.TagSourceRPM, rpmtag.TypeString, 1, "foo-1.0-1.src.rpm")
	h.set(rpmtag.TagOldFilenames, rpmtag.TypeStringArray, 3,
		[]string{"/usr/bin/foo", "/usr/bin/bar", "/usr/share/doc/foo/README"})

	applyLegacyRetrofit(h, leadBinary)

	base, ok := h.Get(rpmtag.TagBaseNames)
	if !ok {
		t.Fatal("expected BASENAMES to be set")
	}
	dirs, ok := h.Get(rpmtag.TagDirNames)
	if !ok {
		t.Fatal("expected DIRNAMES to be set")
	}
	idxs, ok := h.Get(rpmtag.TagDirIndexes)
	if !ok {
		t.Fatal("expected DIRINDEXES to be set")
	}

	wantBase := []string{"foo", "bar", "README"}
	if !reflect.DeepEqual(base, wantBase) {
		t.Errorf("basenames: got %v, want %v", base, wantBase)
	}
	wantDirs := []string{"/usr/bin/", "/usr/share/doc/foo/"}
	if !reflect.DeepEqual(dirs, wantDirs) {
		t.Errorf("dirnames: got %v, want %v", dirs, wantDirs)
	}
	dirIndexes := idxs.([]int32)
	if len(dirIndexes) != 3 || dirIndexes[0] != 0 || dirIndexes[1] != 0 || dirIndexes[2] != 1 {
		t.Errorf("dirindexes: got %v, want [0 0 1]", dirIndexes)
	}
}

func TestCompressFilelistNotTriggeredWithoutOldFilenames(t *testing.T) {
	h := newTestHeader()
	h.set(rpmtag.TagHeaderImmutable, rpmtag.TypeBin, 16, []byte{})
	h.set(rpmtag.TagSourceRPM, rpmtag.TypeString, 1, "foo-1.0-1.src.rpm")
	applyLegacyRetrofit(h, leadBinary)
	if h.Has(rpmtag.TagBaseNames) {
		t.Error("BASENAMES should not be synthesized when there's no OLDFILENAMES")
	}
}
