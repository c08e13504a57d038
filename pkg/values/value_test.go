package values

import "testing"

func TestZeroValuesMatchTag(t *testing.T) {
	cases := []struct {
		tag  Tag
		want interface{}
	}{
		{TagNumber, float64(0)},
		{TagString, ""},
		{TagBool, false},
	}
	for _, c := range cases {
		got := Zero(c.tag)
		if got.Tag() != c.tag {
			t.Fatalf("Zero(%s).Tag() = %s", c.tag, got.Tag())
		}
		if got.Any() != c.want {
			t.Fatalf("Zero(%s).Any() = %v, want %v", c.tag, got.Any(), c.want)
		}
	}
}

func TestAsTMismatchFails(t *testing.T) {
	n := Number(1)
	if _, err := n.AsString(); err == nil {
		t.Fatal("expected error reading number as string")
	}
	if _, err := n.AsBool(); err == nil {
		t.Fatal("expected error reading number as bool")
	}
}

func TestStringNormalizesToNFC(t *testing.T) {
	// "é" as e + combining acute accent (NFD) vs precomposed (NFC).
	decomposed := String("é")
	precomposed := String("é")
	if !decomposed.Equal(precomposed) {
		t.Fatalf("expected NFC-normalized strings to compare equal")
	}
}

func TestTagRoundTrip(t *testing.T) {
	for _, tag := range []Tag{TagNumber, TagString, TagBool} {
		parsed, err := ParseTag(tag.String())
		if err != nil {
			t.Fatalf("ParseTag(%s): %v", tag, err)
		}
		if parsed != tag {
			t.Fatalf("round trip mismatch: %s != %s", parsed, tag)
		}
	}
	if _, err := ParseTag("nope"); err == nil {
		t.Fatal("expected error for unknown tag")
	}
}

func TestEqual(t *testing.T) {
	if !Number(2).Equal(Number(2)) {
		t.Fatal("expected equal numbers to compare equal")
	}
	if Number(2).Equal(Number(3)) {
		t.Fatal("expected unequal numbers to compare unequal")
	}
	if Number(0).Equal(Bool(false)) {
		t.Fatal("cross-tag values must never compare equal")
	}
}
