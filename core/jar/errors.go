package jar

import "errors"

// Rejection errors are validation outcomes of the set algorithm. They are
// surfaced as descriptive errors unless the call requests IgnoreError, in
// which case the call completes with no stored cookie and no error.
// Programming errors and store failures are never suppressed.
var (
	// ErrCookieFailedParse indicates the raw header string could not be
	// parsed into a cookie.
	ErrCookieFailedParse = errors.New("cookie failed to parse")

	// ErrDomainPublicSuffix indicates the cookie scoped itself to a bare
	// public suffix such as "com" or "kyoto.jp".
	ErrDomainPublicSuffix = errors.New("cookie has domain set to a public suffix")

	// ErrDomainMismatch indicates the declared Domain attribute does not
	// domain-match the request host.
	ErrDomainMismatch = errors.New("cookie domain does not match request host")

	// ErrHTTPOnlyOverNonHTTP indicates an attempt to set or overwrite an
	// HttpOnly cookie through a non-HTTP API.
	ErrHTTPOnlyOverNonHTTP = errors.New("cookie is HttpOnly and this is a non-HTTP API")

	// ErrSameSiteCrossSite indicates a SameSite cookie arriving in a
	// cross-site context.
	ErrSameSiteCrossSite = errors.New("cookie is SameSite but this update is cross-site")

	// ErrSecurePrefix indicates a "__Secure-" named cookie without the
	// Secure attribute.
	ErrSecurePrefix = errors.New("cookie has __Secure- prefix but Secure attribute is not set")

	// ErrHostPrefix indicates a "__Host-" named cookie missing one of
	// Secure, host-only scope, or Path=/.
	ErrHostPrefix = errors.New("cookie has __Host- prefix but either Secure is not set, Domain is declared, or Path is not /")
)

// Programming errors indicate API misuse and are always fatal.
var (
	// ErrInvalidURL indicates the request URL could not be parsed into a
	// hostname, path, and scheme.
	ErrInvalidURL = errors.New("invalid request URL")

	// ErrNilCookie indicates a nil cookie was passed to SetCookie.
	ErrNilCookie = errors.New("nil cookie")

	// ErrStoreNotEnumerable indicates an operation that must enumerate
	// every stored cookie (serialization, cloning, the remove-all
	// fallback) against a store without the Lister capability.
	ErrStoreNotEnumerable = errors.New("store does not support enumerating all cookies")
)
