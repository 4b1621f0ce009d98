package blob

import "testing"

func TestCheckTags(t *testing.T) {
	cases := []struct {
		il   int64
		want bool
	}{
		{-1, true},
		{0, false},
		{1, false},
		{TagsMax, false},
		{TagsMax + 1, true},
	}
	for _, c := range cases {
		if got := CheckTags(c.il); got != c.want {
			t.Errorf("CheckTags(%d) = %v, want %v", c.il, got, c.want)
		}
	}
}

func TestCheckData(t *testing.T) {
	cases := []struct {
		dl   int64
		want bool
	}{
		{-1, true},
		{0, false},
		{DataMax, false},
		{DataMax + 1, true},
	}
	for _, c := range cases {
		if got := CheckData(c.dl); got != c.want {
			t.Errorf("CheckData(%d) = %v, want %v", c.dl, got, c.want)
		}
	}
}

func TestCheckRange(t *testing.T) {
	if CheckRange(10, 5) {
		t.Error("5 should be in range [0,10]")
	}
	if !CheckRange(10, -1) {
		t.Error("-1 should be out of range")
	}
	if !CheckRange(10, 11) {
		t.Error("11 should be out of range")
	}
}
