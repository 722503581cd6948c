package cookie

import (
	"strings"
)

// ParseOption configures a single Parse call.
type ParseOption func(*parseConfig)

type parseConfig struct {
	loose bool
}

// Loose enables loose parsing: a name-value pair with a leading "=" or no
// "=" at all is tolerated by treating the remainder as a value with an
// empty name.
func Loose() ParseOption {
	return func(cfg *parseConfig) { cfg.loose = true }
}

// Parse parses a Set-Cookie header value into a Cookie. Attribute tokens
// after the name-value pair are processed left to right; the first
// occurrence of each recognized attribute wins and unrecognized tokens are
// collected verbatim as extensions.
//
// Malformed input returns ErrEmptyCookie or ErrMalformedPair; parse
// failures are recoverable conditions, never panics.
func Parse(raw string, opts ...ParseOption) (*Cookie, error) {
	var cfg parseConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	str := strings.TrimSpace(raw)
	if str == "" {
		return nil, ErrEmptyCookie
	}

	pair := str
	rest := ""
	if i := strings.IndexByte(str, ';'); i >= 0 {
		pair, rest = str[:i], str[i+1:]
	}

	c, err := parseCookiePair(pair, cfg.loose)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	for _, av := range strings.Split(rest, ";") {
		av = strings.TrimSpace(av)
		if av == "" {
			continue
		}

		key, value := av, ""
		hasValue := false
		if i := strings.IndexByte(av, '='); i >= 0 {
			key, value = av[:i], strings.TrimSpace(av[i+1:])
			hasValue = value != ""
		}
		key = strings.ToLower(strings.TrimSpace(key))

		switch key {
		case "expires", "max-age", "domain", "path", "samesite":
			// The first occurrence of each recognized attribute wins.
			if seen[key] {
				continue
			}
			seen[key] = true
		}

		switch key {
		case "expires":
			// An unparsable date leaves the attribute at its
			// infinite-future default.
			if hasValue {
				if exp, ok := ParseDate(value); ok {
					c.Expires = exp
				}
			}
		case "max-age":
			if hasValue {
				if secs, ok := parseSignedInt(value); ok {
					c.MaxAge = MaxAgeIn(secs)
				}
			}
		case "domain":
			if hasValue {
				d := strings.TrimPrefix(strings.TrimSpace(value), ".")
				if d != "" {
					c.Domain = strings.ToLower(d)
				}
			}
		case "path":
			// Paths not starting with "/" are ignored; the jar falls
			// back to the default-path of the request URL.
			if hasValue && value[0] == '/' {
				c.Path = value
			}
		case "secure":
			c.Secure = true
		case "httponly":
			c.HttpOnly = true
		case "samesite":
			switch strings.ToLower(value) {
			case SameSiteStrict:
				c.SameSite = SameSiteStrict
			case SameSiteLax:
				c.SameSite = SameSiteLax
			case SameSiteNone:
				c.SameSite = SameSiteNone
			}
		default:
			c.Extensions = append(c.Extensions, av)
		}
	}

	return c, nil
}

// parseCookiePair parses the name=value portion before the first semicolon.
// In strict mode a pair with no "=" or an "=" at position zero is rejected.
func parseCookiePair(pair string, loose bool) (*Cookie, error) {
	pair = trimTerminator(pair)

	firstEq := strings.IndexByte(pair, '=')
	if loose {
		if firstEq == 0 {
			pair = pair[1:]
			firstEq = strings.IndexByte(pair, '=')
		}
	} else if firstEq <= 0 {
		return nil, ErrMalformedPair
	}

	var name, value string
	if firstEq <= 0 {
		name, value = "", strings.TrimSpace(pair)
	} else {
		name = strings.TrimSpace(pair[:firstEq])
		value = strings.TrimSpace(pair[firstEq+1:])
	}
	if hasControlChars(name) || hasControlChars(value) {
		return nil, ErrMalformedPair
	}

	c := New()
	c.Name = name
	c.Value = value
	return c, nil
}

// trimTerminator cuts the string at the first NUL, CR, or LF.
func trimTerminator(s string) string {
	if i := strings.IndexAny(s, "\x00\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}

// parseSignedInt parses an optionally-signed run of digits with nothing
// trailing, the only shape the Max-Age attribute accepts.
func parseSignedInt(s string) (int64, bool) {
	digits := s
	neg := false
	if strings.HasPrefix(digits, "-") {
		neg = true
		digits = digits[1:]
	}
	if digits == "" || len(digits) > 18 {
		return 0, false
	}
	var n int64
	for i := 0; i < len(digits); i++ {
		c := digits[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int64(c-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}
