package cookie

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/cookiejar/pkg/domain"
)

// SameSite attribute values. The empty string means the attribute is unset.
const (
	SameSiteStrict = "strict"
	SameSiteLax    = "lax"
	SameSiteNone   = "none"
	SameSiteUnset  = ""
)

// InfiniteTTL is returned by TTL for cookies that never expire.
const InfiniteTTL = time.Duration(1<<63 - 1)

// distantPast is the expiry assigned to cookies whose Max-Age demands
// immediate expiry.
var distantPast = time.Unix(0, 0).UTC()

// creationCounter backs NextCreationIndex. Process-lifetime scope only; the
// value is a sort tie-breaker and never survives serialization.
var creationCounter atomic.Uint64

// NextCreationIndex returns the next value of the process-wide monotonic
// creation sequence used to break ties between cookies created at the same
// instant.
func NextCreationIndex() uint64 {
	return creationCounter.Add(1)
}

// Cookie is the parsed representation of a single HTTP cookie: its
// name/value identity, the attributes declared on the Set-Cookie line, and
// the metadata a jar assigns when the cookie passes through its set
// algorithm.
type Cookie struct {
	Name  string
	Value string

	// Declared attributes. A zero Expires means no expiry was declared
	// (the infinite-future default); a zero-value MaxAge means Max-Age is
	// absent.
	Domain     string
	Path       string
	Expires    time.Time
	MaxAge     MaxAge
	Secure     bool
	HttpOnly   bool
	SameSite   string
	Extensions []string

	// Jar-assigned metadata, populated by the jar's set algorithm.
	HostOnly      bool
	PathIsDefault bool
	Creation      time.Time
	LastAccessed  time.Time

	// CreationIndex breaks sort ties between cookies sharing a creation
	// time. It is strictly increasing per cookie constructed within one
	// process and is never serialized.
	CreationIndex uint64
}

// New returns an empty cookie with a fresh creation index.
func New() *Cookie {
	return &Cookie{CreationIndex: NextCreationIndex()}
}

// Clone returns a deep copy of the cookie. Jar metadata, including the
// creation index, is carried over so a copied jar keeps its sort order.
func (c *Cookie) Clone() *Cookie {
	cc := *c
	cc.Extensions = slices.Clone(c.Extensions)
	return &cc
}

// CanonicalDomain returns the canonical form of the cookie's domain, or ""
// when no domain is set.
func (c *Cookie) CanonicalDomain() string {
	if c.Domain == "" {
		return ""
	}
	return domain.Canonical(c.Domain)
}

// Pair renders the name=value part of the cookie as it appears in a Cookie
// request header. A cookie with an empty name renders as the bare value.
func (c *Cookie) Pair() string {
	if c.Name == "" {
		return c.Value
	}
	return c.Name + "=" + c.Value
}

// String reconstructs a Set-Cookie header value. Attribute order and casing
// are normalized, so the output is semantically rather than byte-for-byte
// equivalent to the parsed input.
func (c *Cookie) String() string {
	var b strings.Builder
	b.WriteString(c.Pair())

	if !c.Expires.IsZero() {
		b.WriteString("; Expires=")
		b.WriteString(c.Expires.UTC().Format(http.TimeFormat))
	}
	if secs, ok := c.MaxAge.Seconds(); ok {
		b.WriteString("; Max-Age=")
		b.WriteString(strconv.FormatInt(secs, 10))
	}
	if c.Domain != "" && !c.HostOnly {
		b.WriteString("; Domain=")
		b.WriteString(c.Domain)
	}
	if c.Path != "" {
		b.WriteString("; Path=")
		b.WriteString(c.Path)
	}
	if c.Secure {
		b.WriteString("; Secure")
	}
	if c.HttpOnly {
		b.WriteString("; HttpOnly")
	}
	if c.SameSite != SameSiteUnset && c.SameSite != SameSiteNone {
		switch c.SameSite {
		case SameSiteStrict:
			b.WriteString("; SameSite=Strict")
		case SameSiteLax:
			b.WriteString("; SameSite=Lax")
		default:
			// Unrecognized values pass through verbatim.
			b.WriteString("; SameSite=")
			b.WriteString(c.SameSite)
		}
	}
	for _, ext := range c.Extensions {
		b.WriteString("; ")
		b.WriteString(ext)
	}
	return b.String()
}

// Validate checks the cookie against the RFC 6265 grammar and scoping rules:
// the value must consist of permitted cookie octets, Max-Age (when present)
// must be positive, the path must contain permitted path characters, and the
// canonical domain must neither carry a trailing dot nor itself be a public
// suffix.
func (c *Cookie) Validate() bool {
	if !validCookieValue(c.Value) {
		return false
	}
	if c.MaxAge.NonPositive() {
		return false
	}
	if c.Path != "" && !validPathValue(c.Path) {
		return false
	}
	if cd := c.CanonicalDomain(); cd != "" {
		if strings.HasSuffix(cd, ".") {
			return false
		}
		if _, ok := domain.Suffix(cd, true); !ok {
			return false
		}
	}
	return true
}

// TTL returns how long the cookie remains valid relative to now. A finite
// Max-Age takes precedence over Expires; cookies with neither live forever
// and return InfiniteTTL.
func (c *Cookie) TTL(now time.Time) time.Duration {
	if c.MaxAge.IsSet() {
		if c.MaxAge.IsForever() {
			return InfiniteTTL
		}
		secs, _ := c.MaxAge.Seconds()
		if c.MaxAge.NonPositive() {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if c.Expires.IsZero() {
		return InfiniteTTL
	}
	return c.Expires.Sub(now)
}

// ExpiryTime computes the absolute instant at which the cookie expires,
// with ok=false for cookies that never expire. Max-Age is applied relative
// to LastAccessed (or the supplied now when non-zero), never to Creation, so
// that repeatedly re-setting the same Max-Age cookie cannot move its expiry
// backward.
func (c *Cookie) ExpiryTime(now time.Time) (time.Time, bool) {
	if c.MaxAge.IsSet() {
		if c.MaxAge.IsForever() {
			return time.Time{}, false
		}
		if c.MaxAge.NonPositive() {
			return distantPast, true
		}
		base := now
		if base.IsZero() {
			base = c.LastAccessed
		}
		if base.IsZero() {
			base = time.Now()
		}
		secs, _ := c.MaxAge.Seconds()
		return base.Add(time.Duration(secs) * time.Second), true
	}
	if c.Expires.IsZero() {
		return time.Time{}, false
	}
	return c.Expires, true
}

// IsPersistent reports whether the cookie outlives the session, i.e. it
// declares either Max-Age or a concrete Expires.
func (c *Cookie) IsPersistent() bool {
	return c.MaxAge.IsSet() || !c.Expires.IsZero()
}

// Compare orders cookies for Cookie-header construction: longer paths
// first, then earlier creation, then lower creation index. Cookies without
// a creation time sort last.
func Compare(a, b *Cookie) int {
	if d := len(b.Path) - len(a.Path); d != 0 {
		return d
	}
	at, bt := a.Creation, b.Creation
	switch {
	case at.IsZero() && !bt.IsZero():
		return 1
	case !at.IsZero() && bt.IsZero():
		return -1
	case at.Before(bt):
		return -1
	case bt.Before(at):
		return 1
	}
	switch {
	case a.CreationIndex < b.CreationIndex:
		return -1
	case a.CreationIndex > b.CreationIndex:
		return 1
	}
	return 0
}

// validCookieValue reports whether s consists only of cookie-octets:
// %x21 / %x23-2B / %x2D-3A / %x3C-5B / %x5D-7E.
func validCookieValue(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == 0x21:
		case c >= 0x23 && c <= 0x2b:
		case c >= 0x2d && c <= 0x3a:
		case c >= 0x3c && c <= 0x5b:
		case c >= 0x5d && c <= 0x7e:
		default:
			return false
		}
	}
	return true
}

// validPathValue reports whether s contains at least one permitted
// path-value character (%x20-3A / %x3C-7E).
func validPathValue(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 0x20 && c <= 0x3a) || (c >= 0x3c && c <= 0x7e) {
			return true
		}
	}
	return false
}

func hasControlChars(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 {
			return true
		}
	}
	return false
}
