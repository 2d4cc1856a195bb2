package account

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf16"
)

// NormalizePhone strips whitespace and hyphens.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, phone)
}

// DeriveID maps a phone number to a stable UUID-shaped account id so an
// account can be found or created before it exists.
func DeriveID(phone string) string {
	var hash int32
	for _, unit := range utf16.Encode([]rune(NormalizePhone(phone))) {
		hash = (hash << 5) - hash + int32(unit)
	}

	abs := int64(hash)
	if abs < 0 {
		abs = -abs
	}

	hex := fmt.Sprintf("%032x", abs)
	return hex[0:8] + "-" + hex[8:12] + "-4" + hex[13:16] + "-a" + hex[17:20] + "-" + hex[20:32]
}
