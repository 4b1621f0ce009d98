package rpmverify

import (
	"bytes"
	"io"
	"testing"

	"github.com/quay/rpmverify/internal/rpmtag"
)

func TestSigHeaderPadding(t *testing.T) {
	cases := []struct {
		dl   int64
		want int64
	}{
		{0, 0},
		{8, 0},
		{1, 7},
		{9, 7},
		{15, 1},
	}
	for _, c := range cases {
		if got := sigHeaderPadding(c.dl); got != c.want {
			t.Errorf("sigHeaderPadding(%d) = %d, want %d", c.dl, got, c.want)
		}
	}
}

func TestReadSignatureHeaderConsumesPadding(t *testing.T) {
	buf := buildRegionBlob(rpmtag.TagHeaderSignatures, nil, false)
	pad := sigHeaderPadding(int64(len(buf) - 16 - blobIndexBytes(buf)))
	r := bytes.NewBuffer(buf)
	r.Write(make([]byte, pad))
	r.WriteString("next-header-marker")

	b, err := readSignatureHeader(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.RegionTag() != rpmtag.TagHeaderSignatures {
		t.Errorf("got region %v, want HEADERSIGNATURES", b.RegionTag())
	}

	rest, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(rest) != "next-header-marker" {
		t.Errorf("padding not fully consumed, leftover: %q", rest)
	}
}

// blobIndexBytes returns the byte length of the index-entry area encoded
// in buf's preamble, so the test can compute the data-area length
// independently of buildRegionBlob's internals.
func blobIndexBytes(buf []byte) int {
	il := int(buf[8])<<24 | int(buf[9])<<16 | int(buf[10])<<8 | int(buf[11])
	return il * 16
}
