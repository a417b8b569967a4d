package util

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	// ErrInvalidEmail is returned when an email address fails the format check.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrInvalidPhone is returned when a phone number does not match the
	// configured national format.
	ErrInvalidPhone = errors.New("invalid phone number")
	// ErrInvalidURL indicates that a URL failed validation.
	ErrInvalidURL = errors.New("invalid url")
	// ErrInvalidCountryCode is returned for country codes that are not 1-3 digits.
	ErrInvalidCountryCode = errors.New("invalid country code")
)

// DefaultCountryCode is the dialling prefix accepted when none is configured.
const DefaultCountryCode = "91"

var (
	emailPattern       = regexp.MustCompile(`(?i)^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	countryCodePattern = regexp.MustCompile(`^[1-9]\d{0,2}$`)

	defaultPhoneValidator = MustPhoneValidator(DefaultCountryCode)
)

// ValidateEmail reports whether value looks like local@domain.tld.
func ValidateEmail(value string) bool {
	return emailPattern.MatchString(value)
}

// ValidatePhone reports whether value is +<DefaultCountryCode> followed by
// exactly ten digits.
func ValidatePhone(value string) bool {
	return defaultPhoneValidator.Valid(value)
}

// PhoneValidator checks numbers against a single national format:
// +<country code> and exactly ten digits, no separators.
type PhoneValidator struct {
	countryCode string
	pattern     *regexp.Regexp
}

// NewPhoneValidator builds a validator for the given country code. A leading
// "+" is tolerated.
func NewPhoneValidator(countryCode string) (*PhoneValidator, error) {
	cc := strings.TrimPrefix(strings.TrimSpace(countryCode), "+")
	if !countryCodePattern.MatchString(cc) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCountryCode, countryCode)
	}
	return &PhoneValidator{
		countryCode: cc,
		pattern:     regexp.MustCompile(`^\+` + cc + `\d{10}$`),
	}, nil
}

// MustPhoneValidator is like NewPhoneValidator but panics on error.
func MustPhoneValidator(countryCode string) *PhoneValidator {
	v, err := NewPhoneValidator(countryCode)
	if err != nil {
		panic(err)
	}
	return v
}

// CountryCode returns the configured dialling prefix without "+".
func (v *PhoneValidator) CountryCode() string {
	if v == nil {
		return DefaultCountryCode
	}
	return v.countryCode
}

// Valid reports whether value matches the validator's format. A nil
// validator falls back to the default country code.
func (v *PhoneValidator) Valid(value string) bool {
	if v == nil {
		return defaultPhoneValidator.Valid(value)
	}
	return v.pattern.MatchString(value)
}

// Check returns ErrInvalidPhone wrapped with the offending value.
func (v *PhoneValidator) Check(value string) error {
	if v.Valid(value) {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidPhone, value)
}

// CheckEmail returns ErrInvalidEmail wrapped with the offending value.
func CheckEmail(value string) error {
	if ValidateEmail(value) {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidEmail, value)
}

// ValidateHTTPURL ensures the provided string is a valid HTTP or HTTPS URL.
func ValidateHTTPURL(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("%w: value is empty", ErrInvalidURL)
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: host is required", ErrInvalidURL)
	}

	return trimmed, nil
}

// MaskDestination hides the middle of a phone number or the local part of an
// email address so logs never carry full contact data.
func MaskDestination(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if at := strings.IndexByte(value, '@'); at > 0 {
		local := value[:at]
		if len(local) <= 1 {
			return "*" + value[at:]
		}
		return local[:1] + strings.Repeat("*", len(local)-1) + value[at:]
	}
	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}
	return strings.Repeat("*", len(value)-4) + value[len(value)-4:]
}
