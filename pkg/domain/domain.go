package domain

import (
	"net/netip"
	"strings"

	"golang.org/x/net/idna"
)

// Canonical normalizes a host or cookie domain per RFC 6265 section 5.1.2:
// surrounding whitespace and a single leading dot are removed, IPv6 brackets
// are stripped, internationalized names are transcoded to their ASCII
// (punycode) form, and the result is lowercased.
//
// The function is idempotent on its own output with one documented
// exception: an IPv6 literal only sheds its brackets on the first pass,
// because the bracket-free form is no longer recognizable as a literal.
func Canonical(d string) string {
	s := strings.TrimSpace(d)
	s = strings.TrimPrefix(s, ".")
	if len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']' {
		s = s[1 : len(s)-1]
	}
	if !isASCII(s) {
		if ascii, err := idna.Lookup.ToASCII(s); err == nil {
			s = ascii
		}
	}
	return strings.ToLower(s)
}

// Match implements domain-match per RFC 6265 section 5.1.3 between a request
// host and a cookie domain, canonicalizing both inputs first. Empty inputs
// never match.
func Match(host, cookieDomain string) bool {
	return MatchCanonical(Canonical(host), Canonical(cookieDomain))
}

// MatchCanonical is Match for inputs that are already canonical. The host
// matches when it equals the cookie domain, or when it ends with the cookie
// domain on a dot boundary and is not an IP address literal.
//
// Known deviation kept for compatibility: only well-formed IPv4/IPv6
// literals are treated as addresses. A numeric string that is not a valid
// literal (such as "1.2.3.4.5") is handled as an ordinary hostname and may
// suffix-match, which is lenient relative to strict IP-literal detection.
func MatchCanonical(host, cookieDomain string) bool {
	if host == "" || cookieDomain == "" {
		return false
	}
	if host == cookieDomain {
		return true
	}
	if len(host) <= len(cookieDomain) || !strings.HasSuffix(host, cookieDomain) {
		return false
	}
	if host[len(host)-len(cookieDomain)-1] != '.' {
		return false
	}
	return !isIP(host)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func isIP(host string) bool {
	_, err := netip.ParseAddr(host)
	return err == nil
}
