package dialer

import "errors"

var (
	ErrNumberEmpty     = errors.New("phone number is required")
	ErrNumberNoPlus    = errors.New("phone number must start with '+' followed by the country code")
	ErrNumberBadDigits = errors.New("phone number must contain only digits after '+'")
	ErrNumberLength    = errors.New("phone number must have between 1 and 15 digits after '+'")
)

// ValidateNumber checks that s is a well-formed E.164 number: a leading '+'
// followed by one to fifteen ASCII digits. It touches nothing outside its
// argument, so callers can reject input before any network round trip.
func ValidateNumber(s string) error {
	if s == "" {
		return ErrNumberEmpty
	}
	if s[0] != '+' {
		return ErrNumberNoPlus
	}
	digits := s[1:]
	if len(digits) < 1 || len(digits) > 15 {
		return ErrNumberLength
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return ErrNumberBadDigits
		}
	}
	return nil
}
