package jar

import (
	"context"
	"fmt"
	"net/netip"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/dmitrymomot/cookiejar/core/cookie"
	"github.com/dmitrymomot/cookiejar/pkg/domain"
	"github.com/dmitrymomot/cookiejar/pkg/pathmatch"
)

// PrefixSecurity selects how violations of the "__Secure-" and "__Host-"
// name-prefix rules are handled.
type PrefixSecurity string

const (
	// PrefixSecuritySilent drops violating cookies without an error.
	PrefixSecuritySilent PrefixSecurity = "silent"
	// PrefixSecurityStrict rejects violating cookies with an error.
	PrefixSecurityStrict PrefixSecurity = "strict"
	// PrefixSecurityDisabled skips prefix enforcement entirely.
	PrefixSecurityDisabled PrefixSecurity = "unsafe-disabled"
)

// SameSite request-context levels; a higher cookie level than the request
// context excludes the cookie.
var sameSiteLevels = map[string]int{
	cookie.SameSiteStrict: 3,
	cookie.SameSiteLax:    2,
	cookie.SameSiteNone:   1,
}

// Jar orchestrates the RFC 6265 set and get algorithms over a Store. A jar
// owns exactly one store, fixed at construction.
type Jar struct {
	store                 Store
	rejectPublicSuffixes  bool
	looseMode             bool
	allowSpecialUseDomain bool
	prefixSecurity        PrefixSecurity
	nextIndex             func() uint64
}

// Option configures a Jar at construction time.
type Option func(*Jar)

// WithStore sets the backing store. The default is a fresh MemoryStore.
func WithStore(s Store) Option {
	return func(j *Jar) {
		if s != nil {
			j.store = s
		}
	}
}

// WithLooseMode tolerates malformed name=value pairs the way browsers do.
func WithLooseMode(loose bool) Option {
	return func(j *Jar) { j.looseMode = loose }
}

// WithRejectPublicSuffixes controls rejection of cookies scoped to a bare
// public suffix. Enabled by default; disable only for tests.
func WithRejectPublicSuffixes(reject bool) Option {
	return func(j *Jar) { j.rejectPublicSuffixes = reject }
}

// WithAllowSpecialUseDomain controls the legacy leniency for special-use
// domains such as localhost. Enabled by default.
func WithAllowSpecialUseDomain(allow bool) Option {
	return func(j *Jar) { j.allowSpecialUseDomain = allow }
}

// WithPrefixSecurity sets the enforcement mode for cookie name prefixes.
func WithPrefixSecurity(ps PrefixSecurity) Option {
	return func(j *Jar) {
		switch ps {
		case PrefixSecuritySilent, PrefixSecurityStrict, PrefixSecurityDisabled:
			j.prefixSecurity = ps
		}
	}
}

// WithSequence injects the creation-index generator, letting tests avoid
// the hidden process-wide counter. The sequence must be strictly
// increasing.
func WithSequence(next func() uint64) Option {
	return func(j *Jar) {
		if next != nil {
			j.nextIndex = next
		}
	}
}

// New creates a cookie jar. Without options it uses an in-memory store,
// rejects public-suffix domains, permits special-use domains, and drops
// prefix-rule violations silently.
func New(opts ...Option) *Jar {
	j := &Jar{
		store:                 NewMemoryStore(),
		rejectPublicSuffixes:  true,
		allowSpecialUseDomain: true,
		prefixSecurity:        PrefixSecuritySilent,
		nextIndex:             cookie.NextCreationIndex,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Store returns the jar's backing store.
func (j *Jar) Store() Store { return j.store }

// CallOption configures a single SetCookie or Cookies call.
type CallOption func(*callConfig)

type callConfig struct {
	loose       bool
	looseIsSet  bool
	sameSite    string
	ignoreError bool
	http        bool
	now         time.Time
	allPaths    bool
	keepExpired bool
	noSort      bool
}

// LooseParsing overrides the jar's loose-mode default for one call.
func LooseParsing(loose bool) CallOption {
	return func(cfg *callConfig) { cfg.loose, cfg.looseIsSet = loose, true }
}

// WithSameSiteContext declares the same-site context of the request:
// cookie.SameSiteStrict, cookie.SameSiteLax, or cookie.SameSiteNone for a
// cross-site request. Without it, no SameSite filtering applies.
func WithSameSiteContext(sameSite string) CallOption {
	return func(cfg *callConfig) { cfg.sameSite = strings.ToLower(sameSite) }
}

// IgnoreError turns validation rejections into silent no-ops: the call
// yields no cookie and no error. Programming errors and store failures are
// still surfaced.
func IgnoreError() CallOption {
	return func(cfg *callConfig) { cfg.ignoreError = true }
}

// NonHTTP marks the call as coming through a non-HTTP API, excluding
// HttpOnly cookies from both storage overwrite and retrieval.
func NonHTTP() CallOption {
	return func(cfg *callConfig) { cfg.http = false }
}

// WithNow fixes the instant used for expiry evaluation and timestamping,
// enabling virtual-time tests.
func WithNow(now time.Time) CallOption {
	return func(cfg *callConfig) { cfg.now = now }
}

// AllPaths disables path filtering on retrieval.
func AllPaths() CallOption {
	return func(cfg *callConfig) { cfg.allPaths = true }
}

// KeepExpired disables expiry filtering and eviction on retrieval.
func KeepExpired() CallOption {
	return func(cfg *callConfig) { cfg.keepExpired = true }
}

// NoSort returns retrieval results in store order instead of the RFC
// most-specific-first order.
func NoSort() CallOption {
	return func(cfg *callConfig) { cfg.noSort = true }
}

func (j *Jar) callConfig(opts []CallOption) callConfig {
	cfg := callConfig{http: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.looseIsSet {
		cfg.loose = j.looseMode
	}
	if cfg.now.IsZero() {
		cfg.now = time.Now()
	}
	return cfg
}

// SetCookieString parses a Set-Cookie header value and stores the result
// for the given request URL.
func (j *Jar) SetCookieString(ctx context.Context, rawURL, header string, opts ...CallOption) (*cookie.Cookie, error) {
	cfg := j.callConfig(opts)

	var parseOpts []cookie.ParseOption
	if cfg.loose {
		parseOpts = append(parseOpts, cookie.Loose())
	}
	c, err := cookie.Parse(header, parseOpts...)
	if err != nil {
		if cfg.ignoreError {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrCookieFailedParse, err)
	}
	return j.setCookie(ctx, rawURL, c, cfg)
}

// SetCookie runs the set algorithm for an already-constructed cookie
// against the given request URL and returns the stored cookie (the same
// value, with jar metadata populated).
func (j *Jar) SetCookie(ctx context.Context, rawURL string, c *cookie.Cookie, opts ...CallOption) (*cookie.Cookie, error) {
	if c == nil {
		return nil, ErrNilCookie
	}
	return j.setCookie(ctx, rawURL, c, j.callConfig(opts))
}

// setCookie implements the RFC 6265 storage algorithm.
func (j *Jar) setCookie(ctx context.Context, rawURL string, c *cookie.Cookie, cfg callConfig) (*cookie.Cookie, error) {
	reject := func(err error) (*cookie.Cookie, error) {
		if cfg.ignoreError {
			return nil, nil
		}
		return nil, err
	}

	u, err := parseRequestURL(rawURL)
	if err != nil {
		return nil, err
	}
	host := domain.Canonical(u.Hostname())

	// Public-suffix boundary check, with an exemption for IPv6 literals
	// whose colon-separated form never appears in the suffix list.
	if j.rejectPublicSuffixes && c.Domain != "" {
		cd := c.CanonicalDomain()
		if _, ok := domain.Suffix(cd, j.allowSpecialUseDomain); !ok && !isIPv6(cd) {
			return reject(fmt.Errorf("%w: %q", ErrDomainPublicSuffix, cd))
		}
	}

	if c.Domain != "" {
		cd := c.CanonicalDomain()
		if !domain.MatchCanonical(host, cd) {
			return reject(fmt.Errorf("%w: cookie %q, host %q", ErrDomainMismatch, cd, host))
		}
		c.Domain = cd
	} else {
		c.HostOnly = true
		c.Domain = host
	}

	if c.Path == "" || c.Path[0] != '/' {
		c.Path = pathmatch.Default(u.Path)
		c.PathIsDefault = true
	}

	if !cfg.http && c.HttpOnly {
		return reject(ErrHTTPOnlyOverNonHTTP)
	}

	if c.SameSite != cookie.SameSiteUnset && c.SameSite != cookie.SameSiteNone &&
		cfg.sameSite == cookie.SameSiteNone {
		return reject(ErrSameSiteCrossSite)
	}

	if j.prefixSecurity != PrefixSecurityDisabled {
		if err := checkPrefix(c); err != nil {
			if j.prefixSecurity == PrefixSecurityStrict {
				return reject(err)
			}
			return nil, nil // silent drop
		}
	}

	if c.CreationIndex == 0 {
		c.CreationIndex = j.nextIndex()
	}

	existing, err := j.store.FindCookie(ctx, c.Domain, c.Path, c.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.HttpOnly && !cfg.http {
			return reject(ErrHTTPOnlyOverNonHTTP)
		}
		c.Creation = existing.Creation
		c.CreationIndex = existing.CreationIndex
		c.LastAccessed = cfg.now
		if up, ok := j.store.(Updater); ok {
			err = up.UpdateCookie(ctx, existing, c)
		} else {
			err = j.store.PutCookie(ctx, c)
		}
	} else {
		if c.Creation.IsZero() {
			c.Creation = cfg.now
		}
		c.LastAccessed = cfg.now
		err = j.store.PutCookie(ctx, c)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Cookies runs the retrieval algorithm: it enumerates store candidates for
// the request host, applies the domain, path, security, and expiry filters,
// evicts expired entries as a side effect, and returns the survivors in the
// RFC most-specific-first order.
func (j *Jar) Cookies(ctx context.Context, rawURL string, opts ...CallOption) ([]*cookie.Cookie, error) {
	cfg := j.callConfig(opts)

	u, err := parseRequestURL(rawURL)
	if err != nil {
		return nil, err
	}
	host := domain.Canonical(u.Hostname())
	path := u.Path
	if path == "" {
		path = "/"
	}
	secure := u.Scheme == "https" || u.Scheme == "wss"

	contextLevel := sameSiteLevels[cfg.sameSite]

	storePath := path
	if cfg.allPaths {
		storePath = ""
	}
	candidates, err := j.store.FindCookies(ctx, host, storePath, j.allowSpecialUseDomain)
	if err != nil {
		return nil, err
	}

	matched := make([]*cookie.Cookie, 0, len(candidates))
	for _, c := range candidates {
		if c.HostOnly {
			// Host-only cookies are never rewritten for subdomains.
			if c.Domain != host {
				continue
			}
		} else if !domain.MatchCanonical(host, c.Domain) {
			continue
		}
		if !cfg.allPaths && !pathmatch.Match(path, c.Path) {
			continue
		}
		if c.Secure && !secure {
			continue
		}
		if c.HttpOnly && !cfg.http {
			continue
		}
		if contextLevel > 0 {
			cookieLevel := sameSiteLevels[c.SameSite]
			if cookieLevel == 0 {
				cookieLevel = sameSiteLevels[cookie.SameSiteNone]
			}
			if cookieLevel > contextLevel {
				continue
			}
		}
		if !cfg.keepExpired {
			if exp, ok := c.ExpiryTime(time.Time{}); ok && !exp.After(cfg.now) {
				// Best-effort eviction; a failing removal must not
				// break retrieval.
				_ = j.store.RemoveCookie(ctx, c.Domain, c.Path, c.Name)
				continue
			}
		}
		c.LastAccessed = cfg.now
		matched = append(matched, c)
	}

	if !cfg.noSort {
		slices.SortFunc(matched, cookie.Compare)
	}
	return matched, nil
}

// CookieString builds the Cookie request-header value for the URL.
func (j *Jar) CookieString(ctx context.Context, rawURL string, opts ...CallOption) (string, error) {
	cookies, err := j.Cookies(ctx, rawURL, opts...)
	if err != nil {
		return "", err
	}
	pairs := make([]string, 0, len(cookies))
	for _, c := range cookies {
		pairs = append(pairs, c.Pair())
	}
	return strings.Join(pairs, "; "), nil
}

// SetCookieStrings returns the matching cookies re-serialized as Set-Cookie
// header values.
func (j *Jar) SetCookieStrings(ctx context.Context, rawURL string, opts ...CallOption) ([]string, error) {
	cookies, err := j.Cookies(ctx, rawURL, opts...)
	if err != nil {
		return nil, err
	}
	headers := make([]string, 0, len(cookies))
	for _, c := range cookies {
		headers = append(headers, c.String())
	}
	return headers, nil
}

// RemoveAllCookies clears the store. Stores with the BatchRemover
// capability clear atomically; otherwise every cookie is removed
// individually, removal continues past failures, and the first failure is
// surfaced after the whole batch has been attempted.
func (j *Jar) RemoveAllCookies(ctx context.Context) error {
	if br, ok := j.store.(BatchRemover); ok {
		return br.RemoveAllCookies(ctx)
	}

	lister, ok := j.store.(Lister)
	if !ok {
		return ErrStoreNotEnumerable
	}
	cookies, err := lister.AllCookies(ctx)
	if err != nil {
		return err
	}

	var firstErr error
	for _, c := range cookies {
		if err := j.store.RemoveCookie(ctx, c.Domain, c.Path, c.Name); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// checkPrefix enforces the __Secure- and __Host- name-prefix rules.
func checkPrefix(c *cookie.Cookie) error {
	if strings.HasPrefix(c.Name, "__Secure-") && !c.Secure {
		return ErrSecurePrefix
	}
	if strings.HasPrefix(c.Name, "__Host-") {
		if !c.Secure || !c.HostOnly || c.Path != "/" {
			return ErrHostPrefix
		}
	}
	return nil
}

// parseRequestURL parses an absolute request URL, failing loudly on input
// that yields no hostname instead of returning partial fields.
func parseRequestURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("%w: %q has no hostname", ErrInvalidURL, raw)
	}
	return u, nil
}

func isIPv6(host string) bool {
	addr, err := netip.ParseAddr(host)
	return err == nil && addr.Is6()
}
