package entity

import (
	"regexp"
	"strings"

	"identity_backend/internal/feature/identity/domain"
)

var (
	// PhonePattern is the canonical phone shape: a leading + and exactly 11 digits.
	PhonePattern = regexp.MustCompile(`^\+\d{11}$`)

	// phoneNoise matches everything a normalized phone must not contain.
	phoneNoise = regexp.MustCompile(`[^+\d]`)
)

// NormalizePhone strips every character except '+' and ASCII digits.
func NormalizePhone(raw string) string {
	return phoneNoise.ReplaceAllString(raw, "")
}

// ValidatePhone checks that an already normalized phone is in canonical form.
func ValidatePhone(phone string) error {
	if !PhonePattern.MatchString(phone) {
		return domain.Validationf("enter a valid phone number starting with a + and containing 11 digits, got %q", phone)
	}
	return nil
}

// NormalizeEmail trims and lower-cases an email so it can serve as a login.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ParseFullName splits a full name on whitespace into first and last name.
// A single token yields an empty last name; any count other than one or two
// is rejected as ambiguous.
func ParseFullName(fullName string) (first, last string, err error) {
	parts := strings.Fields(fullName)
	switch len(parts) {
	case 1:
		return parts[0], "", nil
	case 2:
		return parts[0], parts[1], nil
	case 0:
		return "", "", domain.Validationf("full name must not be blank")
	default:
		return "", "", domain.Validationf("full name must contain only a first name and a last name, got %d parts in %q", len(parts), fullName)
	}
}
