// Package core holds the settlement domain model.
//
// Amounts are whole won stored as int64. Aggregation and netting stay in
// integer arithmetic end to end; formatting to a display string is the
// only place a currency symbol appears.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseWon converts an operator-entered amount string to whole won.
//
// Thousands separators (commas) and surrounding whitespace are ignored.
// Signs and fractional parts are rejected: the ingestion boundary only
// accepts non-negative integer won.
//
// Examples:
//
//	ParseWon("500000")   -> 500000, nil
//	ParseWon("500,000")  -> 500000, nil
//	ParseWon("-3")       -> 0, ErrInvalidAmount
func ParseWon(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", "")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// FormatWon renders an amount with thousands separators, e.g. "1,234,500".
// Negative values keep their sign; fund balances may legitimately be
// negative when the fund is overspent.
func FormatWon(won int64) string {
	neg := won < 0
	if neg {
		won = -won
	}
	digits := strconv.FormatInt(won, 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// String implements fmt.Stringer for display purposes.
func (m Money) String() string { return FormatWon(m.Won) + "원" }
