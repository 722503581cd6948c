package cookie

import (
	"strconv"
	"strings"
	"time"
)

// Month names recognized by the cookie-date grammar, matched on their first
// three letters case-insensitively.
var monthNums = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// isDateDelim reports whether c belongs to the cookie-date delimiter class
// of RFC 6265 section 5.1.1: %x09 / %x20-2F / %x3B-40 / %x5B-60 / %x7B-7E.
func isDateDelim(c byte) bool {
	switch {
	case c == 0x09:
		return true
	case c >= 0x20 && c <= 0x2f:
		return true
	case c >= 0x3b && c <= 0x40:
		return true
	case c >= 0x5b && c <= 0x60:
		return true
	case c >= 0x7b && c <= 0x7e:
		return true
	}
	return false
}

// parseDigits reads a leading run of ASCII digits from token. The run must
// span between minDigits and maxDigits characters; trailing non-digit
// garbage is only permitted when trailingOK is set. Scanning is a single
// bounded forward pass, so adversarial tokens cost at most O(len(token)).
func parseDigits(token string, minDigits, maxDigits int, trailingOK bool) (int, bool) {
	count := 0
	for count < len(token) && token[count] >= '0' && token[count] <= '9' {
		count++
	}
	if count < minDigits || count > maxDigits {
		return 0, false
	}
	if !trailingOK && count != len(token) {
		return 0, false
	}
	n, err := strconv.Atoi(token[:count])
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseTimeToken parses an hh:mm:ss token, 1-2 digits per field, with
// trailing garbage permitted only after the seconds field.
func parseTimeToken(token string) (hour, minute, second int, ok bool) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	var out [3]int
	for i, part := range parts {
		n, ok := parseDigits(part, 1, 2, i == 2)
		if !ok {
			return 0, 0, 0, false
		}
		out[i] = n
	}
	return out[0], out[1], out[2], true
}

// ParseDate parses a cookie-date string using the lenient grammar of RFC
// 6265 section 5.1.1. Tokens are processed left to right, filling at most
// one each of time, day-of-month, month, and year; the first token matching
// a category wins and later matches are ignored. Two-digit years 70-99 map
// to the 1900s and 0-69 to the 2000s.
//
// It returns ok=false unless all four categories were found, the fields are
// within range (day 1-31, hour <=23, minute <=59, second <=59, year >=1601),
// and the combination names a real calendar date.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	var (
		hour, minute, second int
		day, year            int
		month                time.Month

		timeFound, dayFound, monthFound, yearFound bool
	)

	start := 0
	for start <= len(s) {
		end := start
		for end < len(s) && !isDateDelim(s[end]) {
			end++
		}
		token := s[start:end]
		start = end + 1
		if token == "" {
			continue
		}

		if !timeFound {
			if h, m, sec, ok := parseTimeToken(token); ok {
				hour, minute, second = h, m, sec
				timeFound = true
				continue
			}
		}
		if !dayFound {
			if n, ok := parseDigits(token, 1, 2, true); ok {
				day = n
				dayFound = true
				continue
			}
		}
		if !monthFound && len(token) >= 3 {
			if m, ok := monthNums[strings.ToLower(token[:3])]; ok {
				month = m
				monthFound = true
				continue
			}
		}
		if !yearFound {
			if n, ok := parseDigits(token, 2, 4, true); ok {
				switch {
				case n >= 70 && n <= 99:
					n += 1900
				case n >= 0 && n <= 69:
					n += 2000
				}
				year = n
				yearFound = true
			}
		}
	}

	if !timeFound || !dayFound || !monthFound || !yearFound {
		return time.Time{}, false
	}
	if day < 1 || day > 31 || hour > 23 || minute > 59 || second > 59 || year < 1601 {
		return time.Time{}, false
	}

	t := time.Date(year, month, day, hour, minute, second, 0, time.UTC)
	// time.Date normalizes impossible dates like Feb 30; treat any
	// normalization as a parse failure.
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
