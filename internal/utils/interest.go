package utils

import (
	"math"
	"math/bits"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SimpleInterest returns the one-time interest on principal at ratePercent, truncated.
// ok is false when the result does not fit in an int64. Both inputs must be non-negative.
func SimpleInterest(principal, ratePercent int64) (int64, bool) {
	hi, lo := bits.Mul64(uint64(principal), uint64(ratePercent))
	if hi >= 100 {
		return 0, false
	}
	quo, _ := bits.Div64(hi, lo, 100)
	if quo > math.MaxInt64 {
		return 0, false
	}
	return int64(quo), true
}

// TotalInterest returns the simple interest amount repeated over the term.
// ok is false when the result does not fit in an int64.
func TotalInterest(simpleInterestAmount, months int64) (int64, bool) {
	hi, lo := bits.Mul64(uint64(simpleInterestAmount), uint64(months))
	if hi != 0 || lo > math.MaxInt64 {
		return 0, false
	}
	return int64(lo), true
}

// TitleCase upper-cases the first letter of each word and lower-cases the rest.
// Letters after an apostrophe or a digit stay lower case.
func TitleCase(s string) string {
	return cases.Title(language.Und).String(s)
}
