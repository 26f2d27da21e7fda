package utils

import (
	"regexp"
	"strconv"
)

// DOBCutoff is the year a date of birth must fall before.
const DOBCutoff = "2025"

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	dobPattern   = regexp.MustCompile(`^(\d{4})-(0[1-9]|1[0-2])-([0-2][0-9]|3[01])$`)
)

// ValidateEmail reports whether s has the local@domain.tld shape
func ValidateEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidateDateOfBirth reports whether s is a YYYY-MM-DD date before the cutoff year.
// Days 00-31 are accepted for every month; no calendar check is made.
func ValidateDateOfBirth(s string) bool {
	if !dobPattern.MatchString(s) {
		return false
	}
	// fixed-width zero-padded, so string order is year order
	return s < DOBCutoff
}

// ParsePositiveInt parses s as a strictly positive integer made of ASCII digits only
func ParsePositiveInt(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
