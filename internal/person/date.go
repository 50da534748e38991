package person

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Day-first layouts, tried in order. First match wins even if the
// resulting date turns out to be invalid.
var dayFirstPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`),
	regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`),
	regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})$`),
}

var (
	isoPattern           = regexp.MustCompile(`^(\d{4})[-/.](\d{1,2})[-/.](\d{1,2})$`)
	shortYearPattern     = regexp.MustCompile(`^(\d{1,2})[-/.](\d{1,2})[-/.](\d{2})$`)
	canonicalDatePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
)

// textualLayouts are English month-name layouts. time.Parse matches month
// names case-insensitively.
var textualLayouts = []string{
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// NormalizeDate converts a free-text date token into YYYY-MM-DD.
// If the token cannot be interpreted as a real calendar date the input is
// returned unchanged.
//
// Order: D/M/YYYY, D-M-YYYY, D.M.YYYY (day first), then ISO year-first,
// RFC 3339, month-first with a two-digit year, and English month names.
func NormalizeDate(raw string) string {
	year, month, day, ok := interpretDate(strings.TrimSpace(raw))
	if !ok || !validDate(year, month, day) {
		return raw
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// DisplayDate renders a canonical date as DD/MM/YYYY. Anything else is
// returned unchanged.
func DisplayDate(canonical string) string {
	m := canonicalDatePattern.FindStringSubmatch(canonical)
	if m == nil {
		return canonical
	}
	year, month, day := atoi(m[1]), atoi(m[2]), atoi(m[3])
	if !validDate(year, month, day) {
		return canonical
	}
	return fmt.Sprintf("%02d/%02d/%04d", day, month, year)
}

// IsCanonicalDate reports whether s is a valid YYYY-MM-DD date.
func IsCanonicalDate(s string) bool {
	m := canonicalDatePattern.FindStringSubmatch(s)
	return m != nil && validDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
}

func interpretDate(s string) (year, month, day int, ok bool) {
	if s == "" {
		return 0, 0, 0, false
	}

	for _, re := range dayFirstPatterns {
		if m := re.FindStringSubmatch(s); m != nil {
			return atoi(m[3]), atoi(m[2]), atoi(m[1]), true
		}
	}

	if m := isoPattern.FindStringSubmatch(s); m != nil {
		return atoi(m[1]), atoi(m[2]), atoi(m[3]), true
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Year(), int(t.Month()), t.Day(), true
	}

	if m := shortYearPattern.FindStringSubmatch(s); m != nil {
		return expandYear(atoi(m[3])), atoi(m[1]), atoi(m[2]), true
	}

	for _, layout := range textualLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Year(), int(t.Month()), t.Day(), true
		}
	}

	return 0, 0, 0, false
}

// expandYear maps a two-digit year: 00-49 => 20xx, 50-99 => 19xx.
func expandYear(yy int) int {
	if yy < 50 {
		return 2000 + yy
	}
	return 1900 + yy
}

func validDate(year, month, day int) bool {
	if year < 1 || year > 9999 || month < 1 || month > 12 || day < 1 {
		return false
	}
	// Day 0 of the next month is the last day of this one.
	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	return day <= last
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}
