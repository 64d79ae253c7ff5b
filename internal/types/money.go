package types

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Money is an amount in minor currency units (paise for INR). Budget
// arithmetic throughout the pipeline stays in integer minor units to avoid
// floating-point drift.
type Money int64

// MinorPerMajor is the number of minor units in one major unit.
const MinorPerMajor = 100

// rupeePrinter renders amounts with Indian digit grouping.
var rupeePrinter = message.NewPrinter(language.MustParse("en-IN"))

// FromMajor converts a whole major-unit amount into Money.
func FromMajor(n int64) Money {
	return Money(n * MinorPerMajor)
}

// Major returns the amount in whole major units, truncating minor remainder.
func (m Money) Major() int64 {
	return int64(m) / MinorPerMajor
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m == 0
}

// String renders the amount as a rupee string, e.g. "₹30,000".
func (m Money) String() string {
	major := m.Major()
	minor := int64(m) % MinorPerMajor
	if minor < 0 {
		minor = -minor
	}
	if minor == 0 {
		return rupeePrinter.Sprintf("₹%d", major)
	}
	return rupeePrinter.Sprintf("₹%d.%02d", major, minor)
}

// amountPattern matches currency amounts in free text: an optional currency
// marker, a digit group with optional separators, and an optional k/lakh
// multiplier suffix.
var amountPattern = regexp.MustCompile(`(?i)(?:₹|rs\.?|inr)?\s*([0-9][0-9,]*(?:\.[0-9]+)?)\s*(k|lakh|lakhs)?`)

// ParseAmount parses a human-written amount such as "₹30,000", "Rs 30k",
// "1.5 lakh", or "30000" into Money. Returns false when s does not contain a
// parseable amount.
func ParseAmount(s string) (Money, bool) {
	m := amountPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil || m[1] == "" {
		return 0, false
	}

	numeric := strings.ReplaceAll(m[1], ",", "")
	value, err := strconv.ParseFloat(numeric, 64)
	if err != nil {
		return 0, false
	}

	switch strings.ToLower(m[2]) {
	case "k":
		value *= 1_000
	case "lakh", "lakhs":
		value *= 100_000
	}

	if value < 0 {
		return 0, false
	}

	return Money(value * MinorPerMajor), true
}

// MustParseAmount parses an amount, panicking on failure. Intended for tests
// and static tables.
func MustParseAmount(s string) Money {
	m, ok := ParseAmount(s)
	if !ok {
		panic(fmt.Sprintf("unparseable amount %q", s))
	}
	return m
}
