// Package email derives display text from addresses.
package email

import (
	"strings"
	"unicode"
)

// DisplayName turns the local part of an address into a capitalised name,
// so "ann.lee@example.com" becomes "Ann Lee". It returns "Admin" when the
// local part has no usable words.
func DisplayName(address string) string {
	local := address
	if at := strings.IndexByte(address, '@'); at >= 0 {
		local = address[:at]
	}
	words := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	if len(words) == 0 {
		return "Admin"
	}
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
