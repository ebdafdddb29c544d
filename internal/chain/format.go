// internal/chain/format.go
//
// Score formatting for display (thousands separators).

package chain

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatScore renders n with thousands separators, e.g. 1234567 → "1,234,567".
func FormatScore(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}
