package util

import (
	"errors"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"a@b.com", true},
		{"First.Last+tag@Example.CO.uk", true},
		{"user_1%x@sub-domain.io", true},
		{"not-an-email", false},
		{"missing-tld@example", false},
		{"@example.com", false},
		{"user@.c", false},
		{"user@example.c", false},
		{"", false},
	}

	for _, tc := range tests {
		if got := ValidateEmail(tc.in); got != tc.want {
			t.Errorf("ValidateEmail(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestValidatePhoneDefaultCountry(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"+911234567890", true},
		{"1234567890", false},
		{"+91123456789", false},
		{"+9112345678901", false},
		{"+91 1234567890", false},
		{"+91-123-456-7890", false},
		{"+441234567890", false},
		{"", false},
	}

	for _, tc := range tests {
		if got := ValidatePhone(tc.in); got != tc.want {
			t.Errorf("ValidatePhone(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestPhoneValidatorCountryCode(t *testing.T) {
	v, err := NewPhoneValidator("+44")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.CountryCode() != "44" {
		t.Fatalf("expected country code 44, got %q", v.CountryCode())
	}
	if !v.Valid("+441234567890") {
		t.Fatalf("expected +44 number to be valid")
	}
	if v.Valid("+911234567890") {
		t.Fatalf("expected +91 number to be rejected by +44 validator")
	}
	if err := v.Check("12345"); !errors.Is(err, ErrInvalidPhone) {
		t.Fatalf("expected ErrInvalidPhone, got %v", err)
	}
}

func TestNewPhoneValidatorRejectsBadCodes(t *testing.T) {
	for _, cc := range []string{"", "0", "1234", "ab"} {
		if _, err := NewPhoneValidator(cc); !errors.Is(err, ErrInvalidCountryCode) {
			t.Errorf("NewPhoneValidator(%q): expected ErrInvalidCountryCode, got %v", cc, err)
		}
	}
}

func TestNilPhoneValidatorFallsBack(t *testing.T) {
	var v *PhoneValidator
	if !v.Valid("+911234567890") {
		t.Fatalf("expected nil validator to accept default country numbers")
	}
}

func TestCheckEmail(t *testing.T) {
	if err := CheckEmail("user@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CheckEmail("nope"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestValidateHTTPURL(t *testing.T) {
	if _, err := ValidateHTTPURL("https://example.com/callback"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, in := range []string{"", "ftp://example.com", "http://"} {
		if _, err := ValidateHTTPURL(in); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("ValidateHTTPURL(%q): expected ErrInvalidURL, got %v", in, err)
		}
	}
}

func TestMaskDestination(t *testing.T) {
	tests := map[string]string{
		"+911234567890":    "*********7890",
		"jane@example.com": "j***@example.com",
		"a@b.com":          "*@b.com",
		"123":              "***",
		"":                 "",
	}
	for in, want := range tests {
		if got := MaskDestination(in); got != want {
			t.Errorf("MaskDestination(%q) = %q, want %q", in, got, want)
		}
	}
}
