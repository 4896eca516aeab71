package core

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	NowFunc = time.Now // mockable

	wonPrinter = message.NewPrinter(language.Korean)
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// FormatWon renders an amount in won with thousands separators, e.g. ₩100,000.
func FormatWon(amount int64) string {
	if amount < 0 {
		return "-₩" + wonPrinter.Sprintf("%d", uint64(-amount))
	}
	return "₩" + wonPrinter.Sprintf("%d", amount)
}

// StrPtr is a small helper for optional string fields.
func StrPtr(s string) *string { return &s }
