package jar

import (
	"context"

	"github.com/dmitrymomot/cookiejar/core/cookie"
)

// Store is the persistence contract consumed by the Jar. Cookies are keyed
// by the (domain, path, name) triple; domains are case-canonical.
// Implementations must be safe for concurrent use and may be backed by
// disk or network I/O, which is why every operation carries a context.
//
// Store errors are passed through to the Jar's caller verbatim; the Jar
// adds no interpretation of its own.
type Store interface {
	// FindCookie returns the cookie stored under the exact
	// (domain, path, name) triple, or nil when absent.
	FindCookie(ctx context.Context, domain, path, name string) (*cookie.Cookie, error)

	// FindCookies returns the candidate cookies for a request to the
	// given canonical domain. An empty path means all paths. The
	// allowSpecialUseDomain flag controls whether special-use domains
	// participate in domain permutation.
	FindCookies(ctx context.Context, domain, path string, allowSpecialUseDomain bool) ([]*cookie.Cookie, error)

	// PutCookie inserts or overwrites the cookie under its natural key.
	PutCookie(ctx context.Context, c *cookie.Cookie) error

	// RemoveCookie deletes the cookie under the exact triple. Removing a
	// cookie that does not exist is not an error.
	RemoveCookie(ctx context.Context, domain, path, name string) error
}

// Updater is an optional Store capability for replacing an existing cookie.
// Stores without it are updated through a plain PutCookie overwrite, which
// carries the same semantics.
type Updater interface {
	UpdateCookie(ctx context.Context, old, updated *cookie.Cookie) error
}

// BulkRemover is an optional Store capability for deleting every cookie
// under a domain, or under a domain and path.
type BulkRemover interface {
	RemoveCookies(ctx context.Context, domain, path string) error
}

// BatchRemover is an optional Store capability for atomically clearing the
// whole store. The Jar falls back to enumerate-and-remove-each when absent.
type BatchRemover interface {
	RemoveAllCookies(ctx context.Context) error
}

// Lister is an optional Store capability for enumerating every stored
// cookie in ascending creation-index order. It is required for
// serialization and cloning; its absence there is a hard error rather than
// a silent degradation.
type Lister interface {
	AllCookies(ctx context.Context) ([]*cookie.Cookie, error)
}
