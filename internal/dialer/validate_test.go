package dialer

import (
	"errors"
	"testing"
)

func TestValidateNumber_Accepts(t *testing.T) {
	for _, n := range []string{
		"+1",
		"+14155551234",
		"+442071838750",
		"+919829007613",
		"+123456789012345", // 15 digits, the E.164 maximum
	} {
		if err := ValidateNumber(n); err != nil {
			t.Fatalf("expected %q to be accepted, got %v", n, err)
		}
	}
}

func TestValidateNumber_Rejects(t *testing.T) {
	cases := []struct {
		in   string
		want error
	}{
		{"", ErrNumberEmpty},
		{"14155551234", ErrNumberNoPlus},
		{"415-555-1234", ErrNumberNoPlus},
		{"+", ErrNumberLength},
		{"+1234567890123456", ErrNumberLength},
		{"+1415555123a", ErrNumberBadDigits},
		{"+1 415 555 1234", ErrNumberBadDigits},
		{"+1(415)5551234", ErrNumberBadDigits},
		{"+1-415-555-1234", ErrNumberBadDigits},
		{"++14155551234", ErrNumberBadDigits},
	}
	for _, tc := range cases {
		err := ValidateNumber(tc.in)
		if err == nil {
			t.Fatalf("expected %q to be rejected", tc.in)
		}
		if !errors.Is(err, tc.want) {
			t.Fatalf("expected %q to fail with %v, got %v", tc.in, tc.want, err)
		}
	}
}
