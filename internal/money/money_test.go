package money

import (
	"strings"
	"testing"
)

func TestParseInputStripsNonDigits(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want int64
	}{
		{"1234", 1234},
		{"R$ 12,34", 1234},
		{"12.34", 1234},
		{"R$ 1.234.567,89", 123456789},
		{"abc", 0},
		{"", 0},
		{"R$ ", 0},
		{"0", 0},
	}
	for _, tc := range cases {
		got, err := ParseInput(tc.in)
		if err != nil {
			t.Fatalf("ParseInput(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseInput(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseInputOverflowFails(t *testing.T) {
	t.Parallel()

	if _, err := ParseInput(strings.Repeat("9", 25)); err == nil {
		t.Fatal("expected overflow error")
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   int64
		want string
	}{
		{0, "R$ 0,00"},
		{1, "R$ 0,01"},
		{1234, "R$ 12,34"},
		{123456789, "R$ 1.234.567,89"},
		{-1234, "-R$ 12,34"},
	}
	for _, tc := range cases {
		if got := Format(tc.in); got != tc.want {
			t.Fatalf("Format(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	for cents := int64(0); cents <= 10_000_000; cents += 997 {
		if got, err := ParseInput(Format(cents)); err != nil || got != cents {
			t.Fatalf("round trip of %d gave %d (err %v)", cents, got, err)
		}
	}
}
