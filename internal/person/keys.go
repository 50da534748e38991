package person

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NameKey returns the comparison key for a name: NFC-composed, lower-case,
// trimmed, with whitespace runs collapsed to a single space.
func NameKey(name string) string {
	name = norm.NFC.String(name)
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// DocumentKey returns the comparison key for a document number: lower-case
// with everything except a-z and 0-9 stripped.
func DocumentKey(doc string) string {
	doc = strings.ToLower(strings.TrimSpace(doc))

	var b strings.Builder
	b.Grow(len(doc))
	for i := 0; i < len(doc); i++ {
		c := doc[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// BirthDateKey returns the stored birth date as is. Two records share a key
// only when their stored strings are identical, including raw fallbacks.
func BirthDateKey(date string) string {
	return date
}
